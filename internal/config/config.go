package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig collects everything the server needs to run.
type AppConfig struct {
	ListenAddr    string
	Port          string
	DatabasePath  string
	SessionSecret string
	GinMode       string

	// StorageDriver selects the blob store backend: disk (default) or s3.
	StorageDriver string
	StorageDir    string
	StorageURL    string
	S3Region      string
	S3AccessKey   string
	S3SecretKey   string
	S3Bucket      string
	S3BaseURL     string

	AdminUsername string
	AdminPassword string
}

// Load reads configuration from the environment (and a .env file when
// present), filling in safe defaults for anything missing.
func Load() AppConfig {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	port := envOr("PORT", "8080")

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	return AppConfig{
		ListenAddr:    listenAddr,
		Port:          port,
		DatabasePath:  envOr("DATABASE_PATH", "portfolio.db"),
		SessionSecret: envOr("SESSION_SECRET", "portfolio-dev-secret"),
		GinMode:       envOr("GIN_MODE", "release"),
		StorageDriver: strings.ToLower(envOr("STORAGE_DRIVER", "disk")),
		StorageDir:    envOr("STORAGE_DIR", "web/storage"),
		StorageURL:    envOr("STORAGE_URL_PATH", "/storage"),
		S3Region:      strings.TrimSpace(os.Getenv("S3_REGION")),
		S3AccessKey:   strings.TrimSpace(os.Getenv("S3_ACCESS_KEY")),
		S3SecretKey:   strings.TrimSpace(os.Getenv("S3_SECRET_KEY")),
		S3Bucket:      strings.TrimSpace(os.Getenv("S3_BUCKET")),
		S3BaseURL:     strings.TrimSpace(os.Getenv("S3_BASE_URL")),
		AdminUsername: strings.TrimSpace(os.Getenv("ADMIN_USERNAME")),
		AdminPassword: strings.TrimSpace(os.Getenv("ADMIN_PASSWORD")),
	}
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
