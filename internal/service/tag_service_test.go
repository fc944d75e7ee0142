package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shemnduati/personal-portfolio-sub000/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTagServiceForTest(t *testing.T) (*TagService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:tag-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := gdb.AutoMigrate(&db.Category{}, &db.Tag{}, &db.Blog{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return NewTagService(gdb), gdb
}

func TestTagService_CreateRejectsDuplicates(t *testing.T) {
	svc, _ := newTagServiceForTest(t)

	if _, err := svc.Create("go"); err != nil {
		t.Fatalf("create tag: %v", err)
	}
	if _, err := svc.Create("go"); !errors.Is(err, ErrTagExists) {
		t.Fatalf("expected ErrTagExists, got %v", err)
	}
	if _, err := svc.Create("  "); !errors.Is(err, ErrTagNameMissing) {
		t.Fatalf("expected ErrTagNameMissing, got %v", err)
	}
}

func TestTagService_UpdateKeepsUniqueness(t *testing.T) {
	svc, _ := newTagServiceForTest(t)

	first, err := svc.Create("go")
	if err != nil {
		t.Fatalf("create go: %v", err)
	}
	if _, err := svc.Create("web"); err != nil {
		t.Fatalf("create web: %v", err)
	}

	if _, err := svc.Update(first.ID, "web"); !errors.Is(err, ErrTagExists) {
		t.Fatalf("expected ErrTagExists, got %v", err)
	}

	renamed, err := svc.Update(first.ID, "Go Lang")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed.Slug != "go-lang" {
		t.Fatalf("slug = %q, want go-lang", renamed.Slug)
	}

	if _, err := svc.Update(9999, "x"); !errors.Is(err, ErrTagNotFound) {
		t.Fatalf("expected ErrTagNotFound, got %v", err)
	}
}

func TestTagService_DeleteRefusesTagsInUse(t *testing.T) {
	svc, gdb := newTagServiceForTest(t)

	tag, err := svc.Create("pinned")
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}

	category := db.Category{Name: "General", Slug: "general"}
	if err := gdb.Create(&category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	blog := db.Blog{Title: "Post", Slug: "post", Content: "body", CategoryID: category.ID}
	if err := gdb.Create(&blog).Error; err != nil {
		t.Fatalf("create blog: %v", err)
	}
	if err := gdb.Model(&blog).Association("Tags").Append(tag); err != nil {
		t.Fatalf("attach tag: %v", err)
	}

	if err := svc.Delete(tag.ID); !errors.Is(err, ErrTagInUse) {
		t.Fatalf("expected ErrTagInUse, got %v", err)
	}

	if err := gdb.Model(&blog).Association("Tags").Clear(); err != nil {
		t.Fatalf("clear tags: %v", err)
	}
	if err := svc.Delete(tag.ID); err != nil {
		t.Fatalf("delete unused tag: %v", err)
	}
	if err := svc.Delete(tag.ID); !errors.Is(err, ErrTagNotFound) {
		t.Fatalf("expected ErrTagNotFound, got %v", err)
	}
}

func TestTagService_ListReportsUsageCounts(t *testing.T) {
	svc, gdb := newTagServiceForTest(t)

	used, err := svc.Create("used")
	if err != nil {
		t.Fatalf("create used: %v", err)
	}
	if _, err := svc.Create("idle"); err != nil {
		t.Fatalf("create idle: %v", err)
	}

	category := db.Category{Name: "General", Slug: "general"}
	if err := gdb.Create(&category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	blog := db.Blog{Title: "Post", Slug: "post", Content: "body", CategoryID: category.ID}
	if err := gdb.Create(&blog).Error; err != nil {
		t.Fatalf("create blog: %v", err)
	}
	if err := gdb.Model(&blog).Association("Tags").Append(used); err != nil {
		t.Fatalf("attach tag: %v", err)
	}

	rows, err := svc.List()
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	counts := map[string]int64{}
	for _, row := range rows {
		counts[row.Name] = row.Count
	}
	if counts["used"] != 1 {
		t.Fatalf("used count = %d, want 1", counts["used"])
	}
	if counts["idle"] != 0 {
		t.Fatalf("idle count = %d, want 0", counts["idle"])
	}
}
