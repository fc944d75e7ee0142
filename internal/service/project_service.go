package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shemnduati/personal-portfolio-sub000/internal/db"
	"github.com/shemnduati/personal-portfolio-sub000/internal/storage"
	"gorm.io/gorm"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

var (
	ErrProjectNotFound      = errors.New("project not found")
	ErrProjectTitleMissing  = errors.New("project title is required")
	ErrProjectImageNotFound = errors.New("project image not found")
	ErrImageOrder           = errors.New("invalid image order")
)

const projectImageDir = "project-images"

// ProjectService owns portfolio projects, their technology links and their
// image galleries, including the stored files behind them.
type ProjectService struct {
	db    *gorm.DB
	store storage.Storage
}

// ProjectInput represents fields accepted when creating or updating a
// project. Nil Technologies leaves the linked set unchanged.
type ProjectInput struct {
	Title        string
	Slug         string
	Description  string
	Content      string
	GithubURL    string
	LiveURL      string
	IsFeatured   *bool
	Technologies []string
	Image        *FileUpload
}

// NewProjectService creates a ProjectService instance.
func NewProjectService(gdb *gorm.DB, store storage.Storage) *ProjectService {
	return &ProjectService{db: gdb, store: store}
}

// ListAll returns all projects for the admin table, newest first.
func (s *ProjectService) ListAll() ([]db.Project, error) {
	var projects []db.Project
	if err := s.db.Preload("Technologies").
		Preload("Images", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order asc, id asc") }).
		Order("created_at desc").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// ListPublic returns projects for the public site, featured first.
func (s *ProjectService) ListPublic() ([]db.Project, error) {
	var projects []db.Project
	if err := s.db.Preload("Technologies").
		Preload("Images", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order asc, id asc") }).
		Order("is_featured desc, created_at desc").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Get fetches a project by id with associations preloaded.
func (s *ProjectService) Get(id uint) (*db.Project, error) {
	var project db.Project
	if err := s.db.Preload("Technologies").
		Preload("Images", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order asc, id asc") }).
		First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// GetBySlug fetches a project by slug for the public detail page.
func (s *ProjectService) GetBySlug(slug string) (*db.Project, error) {
	var project db.Project
	if err := s.db.Preload("Technologies").
		Preload("Images", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order asc, id asc") }).
		Where("slug = ?", slug).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// Create persists a new project, its technology links and the optional
// featured image. The staged image is removed when the transaction fails.
func (s *ProjectService) Create(ctx context.Context, input ProjectInput) (*db.Project, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrProjectTitleMissing
	}

	imagePath, err := s.stageFile(ctx, projectImageDir, input.Image)
	if err != nil {
		return nil, err
	}

	project := db.Project{
		Title:         strings.TrimSpace(input.Title),
		Description:   strings.TrimSpace(input.Description),
		Content:       contentSanitizer.Sanitize(input.Content),
		GithubURL:     strings.TrimSpace(input.GithubURL),
		LiveURL:       strings.TrimSpace(input.LiveURL),
		FeaturedImage: imagePath,
	}
	if input.IsFeatured != nil {
		project.IsFeatured = *input.IsFeatured
	}

	base := db.Slugify(firstNonEmpty(input.Slug, input.Title))

	err = s.db.Transaction(func(tx *gorm.DB) error {
		slug, err := allocateSlug(tx, &db.Project{}, base, 0)
		if err != nil {
			return err
		}
		project.Slug = slug

		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		if input.Technologies != nil {
			return syncTechnologies(tx, &project, input.Technologies)
		}
		return nil
	})
	if err != nil {
		s.discardStaged(ctx, imagePath)
		return nil, err
	}

	return s.Get(project.ID)
}

// Update applies changes to an existing project. A changed title re-derives
// the slug unless the input carries an explicit one.
func (s *ProjectService) Update(ctx context.Context, id uint, input ProjectInput) (*db.Project, error) {
	var existing db.Project
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	stagedPath, err := s.stageFile(ctx, projectImageDir, input.Image)
	if err != nil {
		return nil, err
	}
	oldPath := existing.FeaturedImage

	err = s.db.Transaction(func(tx *gorm.DB) error {
		title := strings.TrimSpace(input.Title)
		titleChanged := title != "" && title != existing.Title
		if title != "" {
			existing.Title = title
		}

		switch {
		case strings.TrimSpace(input.Slug) != "":
			slug, err := allocateSlug(tx, &db.Project{}, db.Slugify(input.Slug), existing.ID)
			if err != nil {
				return err
			}
			existing.Slug = slug
		case titleChanged:
			slug, err := allocateSlug(tx, &db.Project{}, db.Slugify(existing.Title), existing.ID)
			if err != nil {
				return err
			}
			existing.Slug = slug
		}

		existing.Description = strings.TrimSpace(input.Description)
		if input.Content != "" {
			existing.Content = contentSanitizer.Sanitize(input.Content)
		}
		existing.GithubURL = strings.TrimSpace(input.GithubURL)
		existing.LiveURL = strings.TrimSpace(input.LiveURL)
		if input.IsFeatured != nil {
			existing.IsFeatured = *input.IsFeatured
		}
		if stagedPath != "" {
			existing.FeaturedImage = stagedPath
		}

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}

		if input.Technologies != nil {
			return syncTechnologies(tx, &existing, input.Technologies)
		}
		return nil
	})
	if err != nil {
		s.discardStaged(ctx, stagedPath)
		return nil, err
	}

	if stagedPath != "" && oldPath != "" {
		if err := s.store.Delete(ctx, oldPath); err != nil {
			log.Warn().Err(err).Str("path", oldPath).Msg("failed to delete replaced project image")
		}
	}

	return s.Get(existing.ID)
}

// Delete removes the project row, its image rows and technology links in one
// transaction, then best-effort deletes every stored file.
func (s *ProjectService) Delete(ctx context.Context, id uint) error {
	var project db.Project
	if err := s.db.Preload("Images").First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&project).Association("Technologies").Clear(); err != nil {
			return err
		}
		if err := tx.Unscoped().Where("project_id = ?", project.ID).Delete(&db.ProjectImage{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&project).Error
	})
	if err != nil {
		return err
	}

	for _, img := range project.Images {
		if err := s.store.Delete(ctx, img.Path); err != nil {
			log.Warn().Err(err).Str("path", img.Path).Msg("failed to delete project image file")
		}
	}
	if project.FeaturedImage != "" {
		if err := s.store.Delete(ctx, project.FeaturedImage); err != nil {
			log.Warn().Err(err).Str("path", project.FeaturedImage).Msg("failed to delete project cover file")
		}
	}
	return nil
}

// AddImage stores a gallery image for the project, probing its pixel
// dimensions, and appends it at the end of the sort order.
func (s *ProjectService) AddImage(ctx context.Context, projectID uint, upload FileUpload, caption string) (*db.ProjectImage, error) {
	var project db.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	content, err := io.ReadAll(upload.Content)
	if err != nil {
		return nil, fmt.Errorf("read uploaded image: %w", err)
	}

	width, height := 0, 0
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(content)); err == nil {
		width, height = cfg.Width, cfg.Height
	}

	path, err := s.store.Put(ctx, projectImageDir, upload.Filename, bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("store project image: %w", err)
	}

	var maxSort int
	if err := s.db.Model(&db.ProjectImage{}).Where("project_id = ?", projectID).
		Select("COALESCE(MAX(sort_order), -1)").Scan(&maxSort).Error; err != nil {
		s.discardStaged(ctx, path)
		return nil, err
	}

	img := db.ProjectImage{
		ProjectID: projectID,
		Path:      path,
		Caption:   strings.TrimSpace(caption),
		Width:     width,
		Height:    height,
		SortOrder: maxSort + 1,
	}
	if err := s.db.Create(&img).Error; err != nil {
		s.discardStaged(ctx, path)
		return nil, err
	}
	return &img, nil
}

// DeleteImage removes one gallery image row and its file.
func (s *ProjectService) DeleteImage(ctx context.Context, imageID uint) error {
	var img db.ProjectImage
	if err := s.db.First(&img, imageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectImageNotFound
		}
		return err
	}

	if err := s.db.Unscoped().Delete(&img).Error; err != nil {
		return err
	}

	if err := s.store.Delete(ctx, img.Path); err != nil {
		log.Warn().Err(err).Str("path", img.Path).Msg("failed to delete project image file")
	}
	return nil
}

// ReorderImages updates gallery sort order based on the provided id
// sequence; every id must belong to the project exactly once.
func (s *ProjectService) ReorderImages(projectID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			return ErrImageOrder
		}
		if _, ok := seen[id]; ok {
			return ErrImageOrder
		}
		seen[id] = struct{}{}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for idx, id := range ids {
			result := tx.Model(&db.ProjectImage{}).
				Where("id = ? AND project_id = ?", id, projectID).
				Update("sort_order", idx)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrProjectImageNotFound
			}
		}
		return nil
	})
}

func (s *ProjectService) stageFile(ctx context.Context, dir string, upload *FileUpload) (string, error) {
	if upload == nil {
		return "", nil
	}
	path, err := s.store.Put(ctx, dir, upload.Filename, upload.Content)
	if err != nil {
		return "", fmt.Errorf("store file: %w", err)
	}
	return path, nil
}

func (s *ProjectService) discardStaged(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.store.Delete(ctx, path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to discard staged file")
	}
}

// syncTechnologies replaces the project's technology set, creating missing
// entries by name.
func syncTechnologies(tx *gorm.DB, project *db.Project, names []string) error {
	technologies := make([]db.Technology, 0, len(names))
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

		var tech db.Technology
		if err := tx.Where("name = ?", trimmed).
			Attrs(db.Technology{Name: trimmed, Slug: db.Slugify(trimmed)}).
			FirstOrCreate(&tech).Error; err != nil {
			return fmt.Errorf("find or create technology %q: %w", trimmed, err)
		}
		technologies = append(technologies, tech)
	}

	return tx.Model(project).Association("Technologies").Replace(technologies)
}
