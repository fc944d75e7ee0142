package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shemnduati/personal-portfolio-sub000/internal/config"
	"github.com/shemnduati/personal-portfolio-sub000/internal/db"
	"github.com/shemnduati/personal-portfolio-sub000/internal/handler"
	"github.com/shemnduati/personal-portfolio-sub000/internal/router"
	"github.com/shemnduati/personal-portfolio-sub000/internal/storage"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}

	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		if err := db.EnsureUser(cfg.AdminUsername, cfg.AdminPassword); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure admin user")
		}
	}

	store, err := newStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize storage")
	}

	api := handler.NewAPI(db.DB, store)
	r := router.Setup(cfg, api, store)

	log.Info().Str("addr", cfg.ListenAddr).Str("storage", cfg.StorageDriver).Msg("starting server")
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func newStore(cfg config.AppConfig) (storage.Storage, error) {
	if cfg.StorageDriver == "s3" {
		return storage.NewS3(context.Background(), storage.S3Options{
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			BaseURL:   cfg.S3BaseURL,
		})
	}
	return storage.NewDisk(cfg.StorageDir, cfg.StorageURL), nil
}
