package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shemnduati/personal-portfolio-sub000/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SiteSettings is the typed view over the settings table. Values are stored
// as strings per key; the string form never leaves this service.
type SiteSettings struct {
	SiteName     string `json:"site_name"`
	Tagline      string `json:"tagline"`
	GithubURL    string `json:"github_url"`
	LinkedinURL  string `json:"linkedin_url"`
	TwitterURL   string `json:"twitter_url"`
	ContactEmail string `json:"contact_email"`
	BlogEnabled  bool   `json:"blog_enabled"`
	PostsPerPage int    `json:"posts_per_page"`
	CvPath       string `json:"cv_path"`
}

// SettingService reads and writes SiteSettings over the key/value rows.
type SettingService struct {
	db *gorm.DB
}

// NewSettingService creates a SettingService instance.
func NewSettingService(gdb *gorm.DB) *SettingService {
	return &SettingService{db: gdb}
}

func defaultSettings() SiteSettings {
	return SiteSettings{
		SiteName:     "Portfolio",
		BlogEnabled:  true,
		PostsPerPage: 10,
	}
}

// Get loads all settings, applying defaults for keys that were never set.
func (s *SettingService) Get() (SiteSettings, error) {
	result := defaultSettings()

	var records []db.Setting
	if err := s.db.Find(&records).Error; err != nil {
		return result, fmt.Errorf("load settings: %w", err)
	}

	for _, record := range records {
		value := record.Value
		switch record.Key {
		case db.SettingKeySiteName:
			if strings.TrimSpace(value) != "" {
				result.SiteName = value
			}
		case db.SettingKeyTagline:
			result.Tagline = value
		case db.SettingKeyGithubURL:
			result.GithubURL = value
		case db.SettingKeyLinkedinURL:
			result.LinkedinURL = value
		case db.SettingKeyTwitterURL:
			result.TwitterURL = value
		case db.SettingKeyContactEmail:
			result.ContactEmail = value
		case db.SettingKeyBlogEnabled:
			if parsed, err := strconv.ParseBool(value); err == nil {
				result.BlogEnabled = parsed
			}
		case db.SettingKeyPostsPerPage:
			if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
				result.PostsPerPage = parsed
			}
		case db.SettingKeyCvPath:
			result.CvPath = value
		}
	}

	return result, nil
}

// Update persists the full settings record, upserting each key in one
// transaction.
func (s *SettingService) Update(input SiteSettings) (SiteSettings, error) {
	sanitized := input
	sanitized.SiteName = strings.TrimSpace(input.SiteName)
	if sanitized.SiteName == "" {
		sanitized.SiteName = defaultSettings().SiteName
	}
	sanitized.Tagline = strings.TrimSpace(input.Tagline)
	sanitized.GithubURL = strings.TrimSpace(input.GithubURL)
	sanitized.LinkedinURL = strings.TrimSpace(input.LinkedinURL)
	sanitized.TwitterURL = strings.TrimSpace(input.TwitterURL)
	sanitized.ContactEmail = strings.TrimSpace(input.ContactEmail)
	if sanitized.PostsPerPage <= 0 {
		sanitized.PostsPerPage = defaultSettings().PostsPerPage
	}
	sanitized.CvPath = strings.TrimSpace(input.CvPath)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		pairs := map[string]string{
			db.SettingKeySiteName:     sanitized.SiteName,
			db.SettingKeyTagline:      sanitized.Tagline,
			db.SettingKeyGithubURL:    sanitized.GithubURL,
			db.SettingKeyLinkedinURL:  sanitized.LinkedinURL,
			db.SettingKeyTwitterURL:   sanitized.TwitterURL,
			db.SettingKeyContactEmail: sanitized.ContactEmail,
			db.SettingKeyBlogEnabled:  strconv.FormatBool(sanitized.BlogEnabled),
			db.SettingKeyPostsPerPage: strconv.Itoa(sanitized.PostsPerPage),
			db.SettingKeyCvPath:       sanitized.CvPath,
		}
		for key, value := range pairs {
			if err := upsertSetting(tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return SiteSettings{}, fmt.Errorf("update settings: %w", err)
	}

	return sanitized, nil
}

// SetCvPath updates only the CV pointer, used by CvService after activation.
func (s *SettingService) SetCvPath(path string) error {
	return upsertSetting(s.db, db.SettingKeyCvPath, strings.TrimSpace(path))
}

func upsertSetting(tx *gorm.DB, key, value string) error {
	setting := db.Setting{Key: key, Value: value}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&setting).Error; err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}
