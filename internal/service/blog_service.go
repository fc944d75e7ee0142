package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"
	"github.com/shemnduati/personal-portfolio-sub000/internal/db"
	"github.com/shemnduati/personal-portfolio-sub000/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrBlogNotFound     = errors.New("blog not found")
	ErrBlogTitleMissing = errors.New("blog title is required")
	ErrBlogBodyMissing  = errors.New("blog content is required")
	ErrCategoryNotFound = errors.New("category not found")
)

// slugRetries bounds how often a write is retried after losing a slug race
// to a concurrent insert.
const slugRetries = 3

const blogImageDir = "blog-images"

var contentSanitizer = bluemonday.UGCPolicy()

// FileUpload carries a staged upload into a service write.
type FileUpload struct {
	Filename string
	Content  io.Reader
}

// BlogService owns the blog publish workflow: slug allocation, tag
// reconciliation, publish state and the featured image lifecycle. Every
// multi-step write runs inside one transaction; the row and its tags are
// never left half applied.
type BlogService struct {
	db    *gorm.DB
	store storage.Storage
}

// BlogInput represents fields accepted when creating or updating a blog.
// Optional fields follow one rule: nil means "leave unchanged", a non-nil
// zero value clears. Nil Tags keeps the attached set, an empty non-nil
// slice detaches everything; Excerpt/MetaTitle/MetaDescription work the
// same way, and nil IsPublished leaves the publish state alone.
type BlogInput struct {
	Title           string
	Slug            string
	Excerpt         *string
	Content         string
	ContentFormat   string
	MetaTitle       *string
	MetaDescription *string
	CategoryID      uint
	IsPublished     *bool
	Tags            []string
	Image           *FileUpload
}

// BlogListResult aggregates one page of published blogs.
type BlogListResult struct {
	Blogs      []db.Blog
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// BlogDetail bundles a published blog with its adjacent posts.
type BlogDetail struct {
	Blog     db.Blog
	Previous *db.Blog
	Next     *db.Blog
}

// NewBlogService creates a BlogService instance.
func NewBlogService(gdb *gorm.DB, store storage.Storage) *BlogService {
	return &BlogService{db: gdb, store: store}
}

// Create persists a new blog with a unique slug, its tag set and publish
// state. A featured image is staged to the blob store first and removed
// again if the transaction fails.
func (s *BlogService) Create(ctx context.Context, input BlogInput) (*db.Blog, error) {
	if err := s.validate(input, true); err != nil {
		return nil, err
	}

	imagePath, err := s.stageImage(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	base := db.Slugify(firstNonEmpty(input.Slug, input.Title))

	var blog *db.Blog
	for attempt := 0; attempt < slugRetries; attempt++ {
		blog, err = s.createOnce(input, base, imagePath)
		if err == nil || !isUniqueViolation(err) {
			break
		}
	}
	if err != nil {
		s.discardStaged(ctx, imagePath)
		return nil, err
	}

	return blog, nil
}

func (s *BlogService) createOnce(input BlogInput, base, imagePath string) (*db.Blog, error) {
	blog := db.Blog{
		Title:           strings.TrimSpace(input.Title),
		Excerpt:         optionalText(input.Excerpt),
		Content:         sanitizeContent(input.Content, input.ContentFormat),
		ContentFormat:   normalizeContentFormat(input.ContentFormat),
		MetaTitle:       optionalText(input.MetaTitle),
		MetaDescription: optionalText(input.MetaDescription),
		FeaturedImage:   imagePath,
		CategoryID:      input.CategoryID,
	}

	if input.IsPublished != nil && *input.IsPublished {
		now := time.Now()
		blog.IsPublished = true
		blog.PublishedAt = &now
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := categoryMustExist(tx, input.CategoryID); err != nil {
			return err
		}

		slug, err := allocateSlug(tx, &db.Blog{}, base, 0)
		if err != nil {
			return err
		}
		blog.Slug = slug

		if err := tx.Create(&blog).Error; err != nil {
			return err
		}

		if input.Tags != nil {
			return syncTags(tx, &blog, input.Tags)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Tags").Preload("Category").First(&blog, blog.ID).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

// Update applies changes to an existing blog. When a new featured image is
// provided it is staged first; the old file is deleted only after the
// transaction commits, and the staged file is discarded when it fails.
func (s *BlogService) Update(ctx context.Context, id uint, input BlogInput) (*db.Blog, error) {
	if err := s.validate(input, false); err != nil {
		return nil, err
	}

	var existing db.Blog
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}

	stagedPath, err := s.stageImage(ctx, input.Image)
	if err != nil {
		return nil, err
	}
	oldPath := existing.FeaturedImage

	var txErr error
	for attempt := 0; attempt < slugRetries; attempt++ {
		txErr = s.updateOnce(&existing, input, stagedPath)
		if txErr == nil || !isUniqueViolation(txErr) {
			break
		}
	}
	if txErr != nil {
		s.discardStaged(ctx, stagedPath)
		return nil, txErr
	}

	if stagedPath != "" && oldPath != "" {
		if err := s.store.Delete(ctx, oldPath); err != nil {
			log.Warn().Err(err).Str("path", oldPath).Msg("failed to delete replaced blog image")
		}
	}

	if err := s.db.Preload("Tags").Preload("Category").First(&existing, existing.ID).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func (s *BlogService) updateOnce(existing *db.Blog, input BlogInput, stagedPath string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := categoryMustExist(tx, input.CategoryID); err != nil {
			return err
		}

		if title := strings.TrimSpace(input.Title); title != "" {
			existing.Title = title
		}

		if slug := strings.TrimSpace(input.Slug); slug != "" {
			allocated, err := allocateSlug(tx, &db.Blog{}, db.Slugify(slug), existing.ID)
			if err != nil {
				return err
			}
			existing.Slug = allocated
		}

		if input.Content != "" {
			existing.ContentFormat = normalizeContentFormat(input.ContentFormat)
			existing.Content = sanitizeContent(input.Content, existing.ContentFormat)
		}
		if input.Excerpt != nil {
			existing.Excerpt = strings.TrimSpace(*input.Excerpt)
		}
		if input.MetaTitle != nil {
			existing.MetaTitle = strings.TrimSpace(*input.MetaTitle)
		}
		if input.MetaDescription != nil {
			existing.MetaDescription = strings.TrimSpace(*input.MetaDescription)
		}
		existing.CategoryID = input.CategoryID

		if stagedPath != "" {
			existing.FeaturedImage = stagedPath
		}

		if input.IsPublished != nil {
			if *input.IsPublished {
				if !existing.IsPublished || existing.PublishedAt == nil {
					now := time.Now()
					existing.PublishedAt = &now
				}
				existing.IsPublished = true
			} else {
				existing.IsPublished = false
				existing.PublishedAt = nil
			}
		}

		if err := tx.Save(existing).Error; err != nil {
			return err
		}

		if input.Tags != nil {
			return syncTags(tx, existing, input.Tags)
		}
		return nil
	})
}

// Delete removes the blog row and its tag links, then best-effort deletes
// the featured image file.
func (s *BlogService) Delete(ctx context.Context, id uint) error {
	var blog db.Blog
	if err := s.db.First(&blog, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBlogNotFound
		}
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&blog).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Unscoped().Delete(&blog).Error
	})
	if err != nil {
		return err
	}

	if blog.FeaturedImage != "" {
		if err := s.store.Delete(ctx, blog.FeaturedImage); err != nil {
			log.Warn().Err(err).Str("path", blog.FeaturedImage).Msg("failed to delete blog image")
		}
	}
	return nil
}

// Get fetches a blog by id with tags and category preloaded.
func (s *BlogService) Get(id uint) (*db.Blog, error) {
	var blog db.Blog
	if err := s.db.Preload("Tags").Preload("Category").First(&blog, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return &blog, nil
}

// ListAll returns every blog for the admin table, newest first.
func (s *BlogService) ListAll() ([]db.Blog, error) {
	var blogs []db.Blog
	if err := s.db.Preload("Tags").Preload("Category").
		Order("created_at desc").Find(&blogs).Error; err != nil {
		return nil, err
	}
	return blogs, nil
}

// ListPublished returns one page of published blogs ordered by publish time,
// with ids breaking timestamp ties so pagination stays stable.
func (s *BlogService) ListPublished(page, perPage int) (*BlogListResult, error) {
	result := &BlogListResult{Page: page, PerPage: perPage}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PerPage <= 0 {
		result.PerPage = 10
	}

	base := s.db.Model(&db.Blog{}).Where("is_published = ?", true)
	if err := base.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	offset := (result.Page - 1) * result.PerPage
	if err := s.db.Preload("Tags").Preload("Category").
		Where("is_published = ?", true).
		Order("published_at desc, id desc").
		Limit(result.PerPage).Offset(offset).
		Find(&result.Blogs).Error; err != nil {
		return nil, err
	}

	if result.Total == 0 {
		result.TotalPages = 1
	} else {
		result.TotalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))
	}
	return result, nil
}

// GetBySlug returns a published blog with its neighbours in publish order.
// Adjacency compares (published_at, id) so posts sharing a timestamp still
// order deterministically.
func (s *BlogService) GetBySlug(slug string) (*BlogDetail, error) {
	var blog db.Blog
	if err := s.db.Preload("Tags").Preload("Category").
		Where("slug = ? AND is_published = ?", slug, true).
		First(&blog).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}

	detail := &BlogDetail{Blog: blog}

	var previous db.Blog
	err := s.db.Where("is_published = ?", true).
		Where("published_at < ? OR (published_at = ? AND id < ?)", blog.PublishedAt, blog.PublishedAt, blog.ID).
		Order("published_at desc, id desc").
		First(&previous).Error
	if err == nil {
		detail.Previous = &previous
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var next db.Blog
	err = s.db.Where("is_published = ?", true).
		Where("published_at > ? OR (published_at = ? AND id > ?)", blog.PublishedAt, blog.PublishedAt, blog.ID).
		Order("published_at asc, id asc").
		First(&next).Error
	if err == nil {
		detail.Next = &next
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return detail, nil
}

func (s *BlogService) validate(input BlogInput, creating bool) error {
	if creating && strings.TrimSpace(input.Title) == "" {
		return ErrBlogTitleMissing
	}
	if creating && strings.TrimSpace(input.Content) == "" {
		return ErrBlogBodyMissing
	}
	if input.CategoryID == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (s *BlogService) stageImage(ctx context.Context, upload *FileUpload) (string, error) {
	if upload == nil {
		return "", nil
	}
	path, err := s.store.Put(ctx, blogImageDir, upload.Filename, upload.Content)
	if err != nil {
		return "", fmt.Errorf("store blog image: %w", err)
	}
	return path, nil
}

func (s *BlogService) discardStaged(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.store.Delete(ctx, path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to discard staged blog image")
	}
}

func categoryMustExist(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&db.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// syncTags replaces the blog's tag set with the named tags, creating any
// that do not exist yet. Existing tag rows are reused by exact name match.
func syncTags(tx *gorm.DB, blog *db.Blog, names []string) error {
	tags := make([]db.Tag, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}

		var tag db.Tag
		if err := tx.Where("name = ?", trimmed).
			Attrs(db.Tag{Name: trimmed, Slug: db.Slugify(trimmed)}).
			FirstOrCreate(&tag).Error; err != nil {
			return fmt.Errorf("find or create tag %q: %w", trimmed, err)
		}
		tags = append(tags, tag)
	}

	return tx.Model(blog).Association("Tags").Replace(tags)
}

func sanitizeContent(content, format string) string {
	if normalizeContentFormat(format) == db.ContentFormatMarkdown {
		// Markdown is sanitized after rendering on the read path.
		return content
	}
	return contentSanitizer.Sanitize(content)
}

func normalizeContentFormat(format string) string {
	if strings.EqualFold(strings.TrimSpace(format), db.ContentFormatMarkdown) {
		return db.ContentFormatMarkdown
	}
	return db.ContentFormatHTML
}

// optionalText resolves an optional field for create: absent reads as empty.
func optionalText(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
