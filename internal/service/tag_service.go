package service

import (
	"errors"
	"strings"

	"github.com/shemnduati/personal-portfolio-sub000/internal/db"
	"gorm.io/gorm"
)

var (
	ErrTagExists      = errors.New("tag already exists")
	ErrTagInUse       = errors.New("tag is associated with blogs")
	ErrTagNotFound    = errors.New("tag not found")
	ErrTagNameMissing = errors.New("tag name is required")
)

// TagService wraps tag related operations. Tags are mostly created on demand
// during blog saves; this service backs the admin tag screen.
type TagService struct {
	db *gorm.DB
}

// TagUsage describes how often a tag is used.
type TagUsage struct {
	ID    uint
	Name  string
	Slug  string
	Count int64
}

// NewTagService creates a TagService instance.
func NewTagService(gdb *gorm.DB) *TagService {
	return &TagService{db: gdb}
}

// List returns tags with blog usage counts, ordered by name.
func (s *TagService) List() ([]TagUsage, error) {
	var rows []TagUsage
	if err := s.db.Table("tags").
		Select("tags.id, tags.name, tags.slug, COUNT(blog_tags.blog_id) AS count").
		Joins("LEFT JOIN blog_tags ON blog_tags.tag_id = tags.id").
		Where("tags.deleted_at IS NULL").
		Group("tags.id, tags.name, tags.slug").
		Order("tags.name asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a new tag with a unique name.
func (s *TagService) Create(name string) (*db.Tag, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrTagNameMissing
	}

	var existing db.Tag
	if err := s.db.Where("name = ?", trimmed).First(&existing).Error; err == nil {
		return nil, ErrTagExists
	}

	tag := db.Tag{Name: trimmed, Slug: db.Slugify(trimmed)}
	if err := s.db.Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// Update renames a tag while keeping uniqueness.
func (s *TagService) Update(id uint, name string) (*db.Tag, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrTagNameMissing
	}

	var tag db.Tag
	if err := s.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}

	var existing db.Tag
	if err := s.db.Where("name = ? AND id <> ?", trimmed, id).First(&existing).Error; err == nil {
		return nil, ErrTagExists
	}

	tag.Name = trimmed
	tag.Slug = db.Slugify(trimmed)
	if err := s.db.Save(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// Delete removes a tag that no blog references.
func (s *TagService) Delete(id uint) error {
	var tag db.Tag
	if err := s.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTagNotFound
		}
		return err
	}

	var count int64
	if err := s.db.Table("blog_tags").Where("tag_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrTagInUse
	}

	return s.db.Unscoped().Delete(&tag).Error
}
