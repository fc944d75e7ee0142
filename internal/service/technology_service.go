package service

import (
	"errors"
	"strings"

	"github.com/shemnduati/personal-portfolio-sub000/internal/db"
	"gorm.io/gorm"
)

var (
	ErrTechnologyExists      = errors.New("technology already exists")
	ErrTechnologyInUse       = errors.New("technology is associated with projects")
	ErrTechnologyNotFound    = errors.New("technology not found")
	ErrTechnologyNameMissing = errors.New("technology name is required")
)

// TechnologyService backs the admin technology screen.
type TechnologyService struct {
	db *gorm.DB
}

// NewTechnologyService creates a TechnologyService instance.
func NewTechnologyService(gdb *gorm.DB) *TechnologyService {
	return &TechnologyService{db: gdb}
}

// List returns all technologies ordered by name.
func (s *TechnologyService) List() ([]db.Technology, error) {
	var technologies []db.Technology
	if err := s.db.Order("name asc").Find(&technologies).Error; err != nil {
		return nil, err
	}
	return technologies, nil
}

// Create inserts a new technology with a unique name; the slug is derived by
// the model hook.
func (s *TechnologyService) Create(name string) (*db.Technology, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrTechnologyNameMissing
	}

	var existing db.Technology
	if err := s.db.Where("name = ?", trimmed).First(&existing).Error; err == nil {
		return nil, ErrTechnologyExists
	}

	tech := db.Technology{Name: trimmed}
	if err := s.db.Create(&tech).Error; err != nil {
		return nil, err
	}
	return &tech, nil
}

// Update renames a technology; the slug follows the new name.
func (s *TechnologyService) Update(id uint, name string) (*db.Technology, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrTechnologyNameMissing
	}

	var tech db.Technology
	if err := s.db.First(&tech, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTechnologyNotFound
		}
		return nil, err
	}

	var existing db.Technology
	if err := s.db.Where("name = ? AND id <> ?", trimmed, id).First(&existing).Error; err == nil {
		return nil, ErrTechnologyExists
	}

	tech.Name = trimmed
	tech.Slug = ""
	if err := s.db.Save(&tech).Error; err != nil {
		return nil, err
	}
	return &tech, nil
}

// Delete removes a technology that no project references.
func (s *TechnologyService) Delete(id uint) error {
	var tech db.Technology
	if err := s.db.First(&tech, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTechnologyNotFound
		}
		return err
	}

	var count int64
	if err := s.db.Table("project_technologies").Where("technology_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrTechnologyInUse
	}

	return s.db.Unscoped().Delete(&tech).Error
}
