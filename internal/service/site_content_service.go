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
	ErrTestimonialNotFound = errors.New("testimonial not found")
	ErrTestimonialInvalid  = errors.New("author name and quote are required")
	ErrPartnerNotFound     = errors.New("partner not found")
	ErrPartnerNameMissing  = errors.New("partner name is required")
	ErrServiceNotFound     = errors.New("service not found")
	ErrServiceTitleMissing = errors.New("service title is required")
)

const (
	avatarDir = "avatars"
	logoDir   = "partner-logos"
)

// SiteContentService manages the remaining public page sections:
// testimonials, partner logos and service offerings.
type SiteContentService struct {
	db    *gorm.DB
	store storage.Storage
}

// NewSiteContentService creates a SiteContentService instance.
func NewSiteContentService(gdb *gorm.DB, store storage.Storage) *SiteContentService {
	return &SiteContentService{db: gdb, store: store}
}

// TestimonialInput carries the editable testimonial fields.
type TestimonialInput struct {
	AuthorName  string
	AuthorTitle string
	Quote       string
	IsActive    *bool
	Avatar      *FileUpload
}

// PartnerInput carries the editable partner fields.
type PartnerInput struct {
	Name       string
	WebsiteURL string
	IsActive   *bool
	Logo       *FileUpload
}

// ServiceInput carries the editable service offering fields.
type ServiceInput struct {
	Title       string
	Description string
	Icon        string
	IsActive    *bool
}

// ListTestimonials returns testimonials in display order.
func (s *SiteContentService) ListTestimonials(activeOnly bool) ([]db.Testimonial, error) {
	var rows []db.Testimonial
	query := s.db.Order("sort_order asc, id asc")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateTestimonial inserts a testimonial at the end of the display order.
func (s *SiteContentService) CreateTestimonial(ctx context.Context, input TestimonialInput) (*db.Testimonial, error) {
	if strings.TrimSpace(input.AuthorName) == "" || strings.TrimSpace(input.Quote) == "" {
		return nil, ErrTestimonialInvalid
	}

	avatarPath, err := s.stage(ctx, avatarDir, input.Avatar)
	if err != nil {
		return nil, err
	}

	row := db.Testimonial{
		AuthorName:  strings.TrimSpace(input.AuthorName),
		AuthorTitle: strings.TrimSpace(input.AuthorTitle),
		Quote:       strings.TrimSpace(input.Quote),
		Avatar:      avatarPath,
		SortOrder:   nextSortOrder(s.db, &db.Testimonial{}),
		IsActive:    true,
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}

	if err := s.db.Create(&row).Error; err != nil {
		s.discard(ctx, avatarPath)
		return nil, err
	}
	return &row, nil
}

// UpdateTestimonial applies changes; a new avatar replaces the stored file.
func (s *SiteContentService) UpdateTestimonial(ctx context.Context, id uint, input TestimonialInput) (*db.Testimonial, error) {
	var row db.Testimonial
	if err := s.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestimonialNotFound
		}
		return nil, err
	}

	if strings.TrimSpace(input.AuthorName) == "" || strings.TrimSpace(input.Quote) == "" {
		return nil, ErrTestimonialInvalid
	}

	avatarPath, err := s.stage(ctx, avatarDir, input.Avatar)
	if err != nil {
		return nil, err
	}
	oldAvatar := row.Avatar

	row.AuthorName = strings.TrimSpace(input.AuthorName)
	row.AuthorTitle = strings.TrimSpace(input.AuthorTitle)
	row.Quote = strings.TrimSpace(input.Quote)
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}
	if avatarPath != "" {
		row.Avatar = avatarPath
	}

	if err := s.db.Save(&row).Error; err != nil {
		s.discard(ctx, avatarPath)
		return nil, err
	}

	if avatarPath != "" && oldAvatar != "" {
		if err := s.store.Delete(ctx, oldAvatar); err != nil {
			log.Warn().Err(err).Str("path", oldAvatar).Msg("failed to delete replaced avatar")
		}
	}
	return &row, nil
}

// DeleteTestimonial removes the row and its avatar file.
func (s *SiteContentService) DeleteTestimonial(ctx context.Context, id uint) error {
	var row db.Testimonial
	if err := s.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTestimonialNotFound
		}
		return err
	}

	if err := s.db.Unscoped().Delete(&row).Error; err != nil {
		return err
	}

	if row.Avatar != "" {
		if err := s.store.Delete(ctx, row.Avatar); err != nil {
			log.Warn().Err(err).Str("path", row.Avatar).Msg("failed to delete avatar file")
		}
	}
	return nil
}

// ReorderTestimonials updates display order from the id sequence.
func (s *SiteContentService) ReorderTestimonials(ids []uint) error {
	return reorderByIDs(s.db, &db.Testimonial{}, ids, ErrTestimonialNotFound)
}

// ListPartners returns partners in display order.
func (s *SiteContentService) ListPartners(activeOnly bool) ([]db.Partner, error) {
	var rows []db.Partner
	query := s.db.Order("sort_order asc, id asc")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CreatePartner inserts a partner at the end of the display order.
func (s *SiteContentService) CreatePartner(ctx context.Context, input PartnerInput) (*db.Partner, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrPartnerNameMissing
	}

	logoPath, err := s.stage(ctx, logoDir, input.Logo)
	if err != nil {
		return nil, err
	}

	row := db.Partner{
		Name:       strings.TrimSpace(input.Name),
		WebsiteURL: strings.TrimSpace(input.WebsiteURL),
		Logo:       logoPath,
		SortOrder:  nextSortOrder(s.db, &db.Partner{}),
		IsActive:   true,
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}

	if err := s.db.Create(&row).Error; err != nil {
		s.discard(ctx, logoPath)
		return nil, err
	}
	return &row, nil
}

// UpdatePartner applies changes; a new logo replaces the stored file.
func (s *SiteContentService) UpdatePartner(ctx context.Context, id uint, input PartnerInput) (*db.Partner, error) {
	var row db.Partner
	if err := s.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, err
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrPartnerNameMissing
	}

	logoPath, err := s.stage(ctx, logoDir, input.Logo)
	if err != nil {
		return nil, err
	}
	oldLogo := row.Logo

	row.Name = strings.TrimSpace(input.Name)
	row.WebsiteURL = strings.TrimSpace(input.WebsiteURL)
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}
	if logoPath != "" {
		row.Logo = logoPath
	}

	if err := s.db.Save(&row).Error; err != nil {
		s.discard(ctx, logoPath)
		return nil, err
	}

	if logoPath != "" && oldLogo != "" {
		if err := s.store.Delete(ctx, oldLogo); err != nil {
			log.Warn().Err(err).Str("path", oldLogo).Msg("failed to delete replaced logo")
		}
	}
	return &row, nil
}

// DeletePartner removes the row and its logo file.
func (s *SiteContentService) DeletePartner(ctx context.Context, id uint) error {
	var row db.Partner
	if err := s.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPartnerNotFound
		}
		return err
	}

	if err := s.db.Unscoped().Delete(&row).Error; err != nil {
		return err
	}

	if row.Logo != "" {
		if err := s.store.Delete(ctx, row.Logo); err != nil {
			log.Warn().Err(err).Str("path", row.Logo).Msg("failed to delete logo file")
		}
	}
	return nil
}

// ReorderPartners updates display order from the id sequence.
func (s *SiteContentService) ReorderPartners(ids []uint) error {
	return reorderByIDs(s.db, &db.Partner{}, ids, ErrPartnerNotFound)
}

// ListServices returns service offerings in display order.
func (s *SiteContentService) ListServices(activeOnly bool) ([]db.Service, error) {
	var rows []db.Service
	query := s.db.Order("sort_order asc, id asc")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateService inserts a service offering at the end of the display order.
func (s *SiteContentService) CreateService(input ServiceInput) (*db.Service, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrServiceTitleMissing
	}

	row := db.Service{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Icon:        strings.TrimSpace(input.Icon),
		SortOrder:   nextSortOrder(s.db, &db.Service{}),
		IsActive:    true,
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}

	if err := s.db.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateService applies changes to a service offering.
func (s *SiteContentService) UpdateService(id uint, input ServiceInput) (*db.Service, error) {
	var row db.Service
	if err := s.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrServiceTitleMissing
	}

	row.Title = strings.TrimSpace(input.Title)
	row.Description = strings.TrimSpace(input.Description)
	row.Icon = strings.TrimSpace(input.Icon)
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}

	if err := s.db.Save(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// DeleteService removes a service offering.
func (s *SiteContentService) DeleteService(id uint) error {
	result := s.db.Unscoped().Where("id = ?", id).Delete(&db.Service{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrServiceNotFound
	}
	return nil
}

// ReorderServices updates display order from the id sequence.
func (s *SiteContentService) ReorderServices(ids []uint) error {
	return reorderByIDs(s.db, &db.Service{}, ids, ErrServiceNotFound)
}

func (s *SiteContentService) stage(ctx context.Context, dir string, upload *FileUpload) (string, error) {
	if upload == nil {
		return "", nil
	}
	path, err := s.store.Put(ctx, dir, upload.Filename, upload.Content)
	if err != nil {
		return "", fmt.Errorf("store file: %w", err)
	}
	return path, nil
}

func (s *SiteContentService) discard(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.store.Delete(ctx, path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to discard staged file")
	}
}
