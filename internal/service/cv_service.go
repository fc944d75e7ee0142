package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shemnduati/personal-portfolio-sub000/internal/db"
	"github.com/shemnduati/personal-portfolio-sub000/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrCvNotFound       = errors.New("cv upload not found")
	ErrNoActiveCv       = errors.New("no active cv")
	ErrCvVersionMissing = errors.New("cv version label is required")
)

const cvDir = "cv"

// CvService manages uploaded CV documents. Exactly one row is active at a
// time; deactivate-all and activate-new happen in the same transaction so
// concurrent uploads cannot both end up active.
type CvService struct {
	db       *gorm.DB
	store    storage.Storage
	settings *SettingService
}

// NewCvService creates a CvService instance.
func NewCvService(gdb *gorm.DB, store storage.Storage, settings *SettingService) *CvService {
	return &CvService{db: gdb, store: store, settings: settings}
}

// List returns all uploads, newest first.
func (s *CvService) List() ([]db.CvUpload, error) {
	var uploads []db.CvUpload
	if err := s.db.Order("created_at desc").Find(&uploads).Error; err != nil {
		return nil, err
	}
	return uploads, nil
}

// Active returns the currently active upload.
func (s *CvService) Active() (*db.CvUpload, error) {
	var upload db.CvUpload
	if err := s.db.Where("is_active = ?", true).First(&upload).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveCv
		}
		return nil, err
	}
	return &upload, nil
}

// Upload stores a new CV version and makes it the active one. Earlier
// versions are kept but deactivated.
func (s *CvService) Upload(ctx context.Context, upload FileUpload, version string) (*db.CvUpload, error) {
	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		return nil, ErrCvVersionMissing
	}

	path, err := s.store.Put(ctx, cvDir, upload.Filename, upload.Content)
	if err != nil {
		return nil, fmt.Errorf("store cv: %w", err)
	}

	record := db.CvUpload{Path: path, Version: trimmedVersion, IsActive: true}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.CvUpload{}).Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		if deleteErr := s.store.Delete(ctx, path); deleteErr != nil {
			log.Warn().Err(deleteErr).Str("path", path).Msg("failed to discard staged cv")
		}
		return nil, err
	}

	if err := s.settings.SetCvPath(path); err != nil {
		log.Warn().Err(err).Msg("failed to update cv path setting")
	}
	return &record, nil
}

// Activate makes an existing upload the active one.
func (s *CvService) Activate(id uint) (*db.CvUpload, error) {
	var upload db.CvUpload
	if err := s.db.First(&upload, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCvNotFound
		}
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.CvUpload{}).Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&db.CvUpload{}).Where("id = ?", id).
			Update("is_active", true).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.settings.SetCvPath(upload.Path); err != nil {
		log.Warn().Err(err).Msg("failed to update cv path setting")
	}

	upload.IsActive = true
	return &upload, nil
}

// Delete removes an upload row and its stored file. Deleting the active
// version leaves no CV available for download.
func (s *CvService) Delete(ctx context.Context, id uint) error {
	var upload db.CvUpload
	if err := s.db.First(&upload, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCvNotFound
		}
		return err
	}

	if err := s.db.Unscoped().Delete(&upload).Error; err != nil {
		return err
	}

	if upload.IsActive {
		if err := s.settings.SetCvPath(""); err != nil {
			log.Warn().Err(err).Msg("failed to clear cv path setting")
		}
	}

	if err := s.store.Delete(ctx, upload.Path); err != nil {
		log.Warn().Err(err).Str("path", upload.Path).Msg("failed to delete cv file")
	}
	return nil
}
