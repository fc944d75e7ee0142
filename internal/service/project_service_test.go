package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/shemnduati/personal-portfolio-sub000/internal/db"
	"github.com/shemnduati/personal-portfolio-sub000/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupProjectServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:project-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.Technology{}, &db.Project{}, &db.ProjectImage{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return gdb
}

func newProjectServiceForTest(t *testing.T) (*ProjectService, *gorm.DB, *storage.Disk) {
	t.Helper()
	gdb := setupProjectServiceTestDB(t)
	store := storage.NewDisk(t.TempDir(), "/storage")
	return NewProjectService(gdb, store), gdb, store
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestProjectService_CreateSyncsTechnologies(t *testing.T) {
	svc, gdb, _ := newProjectServiceForTest(t)
	ctx := context.Background()

	project, err := svc.Create(ctx, ProjectInput{
		Title:        "Portfolio Site",
		Description:  "the site itself",
		Technologies: []string{"Go", "SQLite", "Go"},
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if project.Slug != "portfolio-site" {
		t.Fatalf("slug = %q, want portfolio-site", project.Slug)
	}
	if len(project.Technologies) != 2 {
		t.Fatalf("duplicate names must collapse, got %d technologies", len(project.Technologies))
	}

	var techCount int64
	if err := gdb.Model(&db.Technology{}).Count(&techCount).Error; err != nil {
		t.Fatalf("count technologies: %v", err)
	}
	if techCount != 2 {
		t.Fatalf("expected 2 technology rows, got %d", techCount)
	}
}

func TestProjectService_CreateRequiresTitle(t *testing.T) {
	svc, _, _ := newProjectServiceForTest(t)

	if _, err := svc.Create(context.Background(), ProjectInput{}); !errors.Is(err, ErrProjectTitleMissing) {
		t.Fatalf("expected ErrProjectTitleMissing, got %v", err)
	}
}

func TestProjectService_UpdateTitleRederivesSlug(t *testing.T) {
	svc, _, _ := newProjectServiceForTest(t)
	ctx := context.Background()

	project, err := svc.Create(ctx, ProjectInput{Title: "Old Name"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	renamed, err := svc.Update(ctx, project.ID, ProjectInput{Title: "New Name"})
	if err != nil {
		t.Fatalf("update project: %v", err)
	}
	if renamed.Slug != "new-name" {
		t.Fatalf("slug = %q, want new-name", renamed.Slug)
	}

	// An explicit slug wins over the derived one.
	custom, err := svc.Update(ctx, project.ID, ProjectInput{Title: "New Name", Slug: "Custom Slug"})
	if err != nil {
		t.Fatalf("update with explicit slug: %v", err)
	}
	if custom.Slug != "custom-slug" {
		t.Fatalf("slug = %q, want custom-slug", custom.Slug)
	}
}

func TestProjectService_SlugCollisionGetsSuffix(t *testing.T) {
	svc, _, _ := newProjectServiceForTest(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, ProjectInput{Title: "Demo"}); err != nil {
		t.Fatalf("create first project: %v", err)
	}
	second, err := svc.Create(ctx, ProjectInput{Title: "Demo"})
	if err != nil {
		t.Fatalf("create second project: %v", err)
	}
	if second.Slug != "demo-1" {
		t.Fatalf("slug = %q, want demo-1", second.Slug)
	}
}

func TestProjectService_AddImageProbesDimensions(t *testing.T) {
	svc, _, store := newProjectServiceForTest(t)
	ctx := context.Background()

	project, err := svc.Create(ctx, ProjectInput{Title: "Gallery"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	img, err := svc.AddImage(ctx, project.ID, FileUpload{
		Filename: "shot.png",
		Content:  bytes.NewReader(pngBytes(t, 64, 48)),
	}, "first shot")
	if err != nil {
		t.Fatalf("add image: %v", err)
	}
	if img.Width != 64 || img.Height != 48 {
		t.Fatalf("dimensions = %dx%d, want 64x48", img.Width, img.Height)
	}
	if img.SortOrder != 0 {
		t.Fatalf("first image sort order = %d, want 0", img.SortOrder)
	}
	if !store.Exists(ctx, img.Path) {
		t.Fatalf("image file was not stored")
	}

	second, err := svc.AddImage(ctx, project.ID, FileUpload{
		Filename: "shot2.png",
		Content:  bytes.NewReader(pngBytes(t, 10, 10)),
	}, "")
	if err != nil {
		t.Fatalf("add second image: %v", err)
	}
	if second.SortOrder != 1 {
		t.Fatalf("second image sort order = %d, want 1", second.SortOrder)
	}
}

func TestProjectService_ReorderImages(t *testing.T) {
	svc, _, _ := newProjectServiceForTest(t)
	ctx := context.Background()

	project, err := svc.Create(ctx, ProjectInput{Title: "Gallery"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	var ids []uint
	for i := 0; i < 3; i++ {
		img, err := svc.AddImage(ctx, project.ID, FileUpload{
			Filename: fmt.Sprintf("shot%d.png", i),
			Content:  bytes.NewReader(pngBytes(t, 4, 4)),
		}, "")
		if err != nil {
			t.Fatalf("add image %d: %v", i, err)
		}
		ids = append(ids, img.ID)
	}

	reversed := []uint{ids[2], ids[1], ids[0]}
	if err := svc.ReorderImages(project.ID, reversed); err != nil {
		t.Fatalf("reorder images: %v", err)
	}

	reloaded, err := svc.Get(project.ID)
	if err != nil {
		t.Fatalf("reload project: %v", err)
	}
	for idx, img := range reloaded.Images {
		if img.ID != reversed[idx] {
			t.Fatalf("position %d holds image %d, want %d", idx, img.ID, reversed[idx])
		}
	}

	if err := svc.ReorderImages(project.ID, []uint{ids[0], ids[0]}); !errors.Is(err, ErrImageOrder) {
		t.Fatalf("duplicate ids should fail with ErrImageOrder, got %v", err)
	}
	if err := svc.ReorderImages(project.ID, []uint{9999}); !errors.Is(err, ErrProjectImageNotFound) {
		t.Fatalf("foreign ids should fail with ErrProjectImageNotFound, got %v", err)
	}
}

func TestProjectService_DeleteCascades(t *testing.T) {
	svc, gdb, store := newProjectServiceForTest(t)
	ctx := context.Background()

	project, err := svc.Create(ctx, ProjectInput{
		Title:        "Doomed",
		Technologies: []string{"Go"},
		Image:        &FileUpload{Filename: "cover.png", Content: strings.NewReader("cover")},
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	gallery, err := svc.AddImage(ctx, project.ID, FileUpload{
		Filename: "shot.png",
		Content:  bytes.NewReader(pngBytes(t, 4, 4)),
	}, "")
	if err != nil {
		t.Fatalf("add image: %v", err)
	}

	if err := svc.Delete(ctx, project.ID); err != nil {
		t.Fatalf("delete project: %v", err)
	}

	if _, err := svc.Get(project.ID); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound after delete, got %v", err)
	}
	if store.Exists(ctx, project.FeaturedImage) {
		t.Fatalf("featured image file must be removed")
	}
	if store.Exists(ctx, gallery.Path) {
		t.Fatalf("gallery image file must be removed")
	}

	var imageRows, linkRows int64
	if err := gdb.Model(&db.ProjectImage{}).Where("project_id = ?", project.ID).Count(&imageRows).Error; err != nil {
		t.Fatalf("count image rows: %v", err)
	}
	if imageRows != 0 {
		t.Fatalf("image rows must be removed, found %d", imageRows)
	}
	if err := gdb.Table("project_technologies").Where("project_id = ?", project.ID).Count(&linkRows).Error; err != nil {
		t.Fatalf("count technology links: %v", err)
	}
	if linkRows != 0 {
		t.Fatalf("technology links must be cleared, found %d", linkRows)
	}

	// Technology rows themselves survive project deletion.
	var techCount int64
	if err := gdb.Model(&db.Technology{}).Count(&techCount).Error; err != nil {
		t.Fatalf("count technologies: %v", err)
	}
	if techCount != 1 {
		t.Fatalf("technology rows must survive, got %d", techCount)
	}
}
