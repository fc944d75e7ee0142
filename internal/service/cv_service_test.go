package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shemnduati/personal-portfolio-sub000/internal/db"
	"github.com/shemnduati/personal-portfolio-sub000/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newCvServiceForTest(t *testing.T) (*CvService, *SettingService, *gorm.DB, *storage.Disk) {
	t.Helper()
	dsn := fmt.Sprintf("file:cv-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := gdb.AutoMigrate(&db.CvUpload{}, &db.Setting{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	store := storage.NewDisk(t.TempDir(), "/storage")
	settings := NewSettingService(gdb)
	return NewCvService(gdb, store, settings), settings, gdb, store
}

func activeCvCount(t *testing.T, gdb *gorm.DB) int64 {
	t.Helper()
	var count int64
	if err := gdb.Model(&db.CvUpload{}).Where("is_active = ?", true).Count(&count).Error; err != nil {
		t.Fatalf("count active cvs: %v", err)
	}
	return count
}

func TestCvService_UploadActivatesNewVersion(t *testing.T) {
	svc, settings, gdb, store := newCvServiceForTest(t)
	ctx := context.Background()

	first, err := svc.Upload(ctx, FileUpload{Filename: "cv.pdf", Content: strings.NewReader("v1")}, "v1")
	if err != nil {
		t.Fatalf("upload v1: %v", err)
	}
	if !first.IsActive {
		t.Fatalf("first upload must be active")
	}

	second, err := svc.Upload(ctx, FileUpload{Filename: "cv.pdf", Content: strings.NewReader("v2")}, "v2")
	if err != nil {
		t.Fatalf("upload v2: %v", err)
	}
	if !second.IsActive {
		t.Fatalf("new upload must become active")
	}
	if got := activeCvCount(t, gdb); got != 1 {
		t.Fatalf("exactly one cv may be active, found %d", got)
	}

	active, err := svc.Active()
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active.ID != second.ID {
		t.Fatalf("active cv = %d, want %d", active.ID, second.ID)
	}
	if !store.Exists(ctx, first.Path) {
		t.Fatalf("earlier versions keep their files")
	}

	current, err := settings.Get()
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if current.CvPath != second.Path {
		t.Fatalf("settings cv path = %q, want %q", current.CvPath, second.Path)
	}
}

func TestCvService_UploadRequiresVersion(t *testing.T) {
	svc, _, _, _ := newCvServiceForTest(t)

	_, err := svc.Upload(context.Background(), FileUpload{Filename: "cv.pdf", Content: strings.NewReader("x")}, "  ")
	if !errors.Is(err, ErrCvVersionMissing) {
		t.Fatalf("expected ErrCvVersionMissing, got %v", err)
	}
}

func TestCvService_ActivateSwitchesPointer(t *testing.T) {
	svc, settings, gdb, _ := newCvServiceForTest(t)
	ctx := context.Background()

	first, err := svc.Upload(ctx, FileUpload{Filename: "cv.pdf", Content: strings.NewReader("v1")}, "v1")
	if err != nil {
		t.Fatalf("upload v1: %v", err)
	}
	if _, err := svc.Upload(ctx, FileUpload{Filename: "cv.pdf", Content: strings.NewReader("v2")}, "v2"); err != nil {
		t.Fatalf("upload v2: %v", err)
	}

	reactivated, err := svc.Activate(first.ID)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !reactivated.IsActive {
		t.Fatalf("activated upload must report active")
	}
	if got := activeCvCount(t, gdb); got != 1 {
		t.Fatalf("exactly one cv may be active, found %d", got)
	}

	current, err := settings.Get()
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if current.CvPath != first.Path {
		t.Fatalf("settings cv path = %q, want %q", current.CvPath, first.Path)
	}

	if _, err := svc.Activate(9999); !errors.Is(err, ErrCvNotFound) {
		t.Fatalf("expected ErrCvNotFound, got %v", err)
	}
}

func TestCvService_DeleteActiveClearsPointer(t *testing.T) {
	svc, settings, _, store := newCvServiceForTest(t)
	ctx := context.Background()

	upload, err := svc.Upload(ctx, FileUpload{Filename: "cv.pdf", Content: strings.NewReader("v1")}, "v1")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if err := svc.Delete(ctx, upload.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if store.Exists(ctx, upload.Path) {
		t.Fatalf("stored file must be removed")
	}
	if _, err := svc.Active(); !errors.Is(err, ErrNoActiveCv) {
		t.Fatalf("expected ErrNoActiveCv after deleting the active version, got %v", err)
	}

	current, err := settings.Get()
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if current.CvPath != "" {
		t.Fatalf("cv path setting should be cleared, got %q", current.CvPath)
	}

	if err := svc.Delete(ctx, upload.ID); !errors.Is(err, ErrCvNotFound) {
		t.Fatalf("second delete should report ErrCvNotFound, got %v", err)
	}
}
