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
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newProfileServiceForTest(t *testing.T) (*ProfileService, *gorm.DB, *storage.Disk) {
	t.Helper()
	dsn := fmt.Sprintf("file:profile-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := gdb.AutoMigrate(&db.Skill{}, &db.Experience{}, &db.Education{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	store := storage.NewDisk(t.TempDir(), "/storage")
	return NewProfileService(gdb, store), gdb, store
}

func testDate(t *testing.T, value string) datatypes.Date {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return datatypes.Date(parsed)
}

func TestProfileService_SkillsAppendInOrder(t *testing.T) {
	svc, _, _ := newProfileServiceForTest(t)
	ctx := context.Background()

	for i, name := range []string{"Go", "SQL", "Docker"} {
		skill, err := svc.CreateSkill(ctx, SkillInput{Name: name, Level: 50 + i})
		if err != nil {
			t.Fatalf("create skill %q: %v", name, err)
		}
		if skill.SortOrder != i {
			t.Fatalf("skill %q sort order = %d, want %d", name, skill.SortOrder, i)
		}
	}
}

func TestProfileService_SkillLevelClamped(t *testing.T) {
	svc, _, _ := newProfileServiceForTest(t)
	ctx := context.Background()

	high, err := svc.CreateSkill(ctx, SkillInput{Name: "Over", Level: 150})
	if err != nil {
		t.Fatalf("create skill: %v", err)
	}
	if high.Level != 100 {
		t.Fatalf("level = %d, want clamp to 100", high.Level)
	}

	low, err := svc.CreateSkill(ctx, SkillInput{Name: "Under", Level: -5})
	if err != nil {
		t.Fatalf("create skill: %v", err)
	}
	if low.Level != 0 {
		t.Fatalf("level = %d, want clamp to 0", low.Level)
	}
}

func TestProfileService_SkillIconReplaceDeletesOldFile(t *testing.T) {
	svc, _, store := newProfileServiceForTest(t)
	ctx := context.Background()

	skill, err := svc.CreateSkill(ctx, SkillInput{
		Name: "Go",
		Icon: &FileUpload{Filename: "go.png", Content: strings.NewReader("one")},
	})
	if err != nil {
		t.Fatalf("create skill: %v", err)
	}
	oldIcon := skill.Icon

	updated, err := svc.UpdateSkill(ctx, skill.ID, SkillInput{
		Name: "Go",
		Icon: &FileUpload{Filename: "go2.png", Content: strings.NewReader("two")},
	})
	if err != nil {
		t.Fatalf("update skill: %v", err)
	}
	if store.Exists(ctx, oldIcon) {
		t.Fatalf("old icon must be deleted after replace")
	}
	if !store.Exists(ctx, updated.Icon) {
		t.Fatalf("new icon must exist")
	}
}

func TestProfileService_ReorderSkills(t *testing.T) {
	svc, _, _ := newProfileServiceForTest(t)
	ctx := context.Background()

	var ids []uint
	for _, name := range []string{"a", "b", "c"} {
		skill, err := svc.CreateSkill(ctx, SkillInput{Name: name})
		if err != nil {
			t.Fatalf("create skill: %v", err)
		}
		ids = append(ids, skill.ID)
	}

	if err := svc.ReorderSkills([]uint{ids[2], ids[0], ids[1]}); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	skills, err := svc.ListSkills(false)
	if err != nil {
		t.Fatalf("list skills: %v", err)
	}
	wantNames := []string{"c", "a", "b"}
	for i, skill := range skills {
		if skill.Name != wantNames[i] {
			t.Fatalf("position %d = %q, want %q", i, skill.Name, wantNames[i])
		}
	}

	if err := svc.ReorderSkills([]uint{ids[0], ids[0]}); !errors.Is(err, ErrSortOrder) {
		t.Fatalf("duplicate ids should fail with ErrSortOrder, got %v", err)
	}
	if err := svc.ReorderSkills([]uint{9999}); !errors.Is(err, ErrSkillNotFound) {
		t.Fatalf("unknown id should fail with ErrSkillNotFound, got %v", err)
	}
}

func TestProfileService_CurrentExperienceSuppressesEndDate(t *testing.T) {
	svc, _, _ := newProfileServiceForTest(t)

	end := testDate(t, "2025-06-30")
	entry, err := svc.CreateExperience(ExperienceInput{
		Role:      "Engineer",
		Company:   "Acme",
		StartDate: testDate(t, "2023-01-01"),
		EndDate:   &end,
		IsCurrent: true,
	})
	if err != nil {
		t.Fatalf("create experience: %v", err)
	}
	if entry.EndDate != nil {
		t.Fatalf("current position must have no end date")
	}

	// Ending the position keeps the supplied end date.
	ended, err := svc.UpdateExperience(entry.ID, ExperienceInput{
		Role:      "Engineer",
		Company:   "Acme",
		StartDate: testDate(t, "2023-01-01"),
		EndDate:   &end,
		IsCurrent: false,
	})
	if err != nil {
		t.Fatalf("update experience: %v", err)
	}
	if ended.EndDate == nil {
		t.Fatalf("ended position must keep its end date")
	}
}

func TestProfileService_ExperienceValidation(t *testing.T) {
	svc, _, _ := newProfileServiceForTest(t)

	if _, err := svc.CreateExperience(ExperienceInput{Role: "Engineer"}); !errors.Is(err, ErrExperienceInvalid) {
		t.Fatalf("expected ErrExperienceInvalid, got %v", err)
	}
	if _, err := svc.UpdateExperience(9999, ExperienceInput{Role: "x", Company: "y"}); !errors.Is(err, ErrExperienceNotFound) {
		t.Fatalf("expected ErrExperienceNotFound, got %v", err)
	}
	if err := svc.DeleteExperience(9999); !errors.Is(err, ErrExperienceNotFound) {
		t.Fatalf("expected ErrExperienceNotFound on delete, got %v", err)
	}
}

func TestProfileService_EducationActiveFilter(t *testing.T) {
	svc, _, _ := newProfileServiceForTest(t)

	visible, err := svc.CreateEducation(EducationInput{
		Degree:      "BSc",
		Institution: "State University",
		StartDate:   testDate(t, "2018-09-01"),
	})
	if err != nil {
		t.Fatalf("create education: %v", err)
	}

	hidden := false
	if _, err := svc.CreateEducation(EducationInput{
		Degree:      "Certificate",
		Institution: "Online Academy",
		StartDate:   testDate(t, "2020-01-01"),
		IsActive:    &hidden,
	}); err != nil {
		t.Fatalf("create hidden education: %v", err)
	}

	all, err := svc.ListEducation(false)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(all))
	}

	active, err := svc.ListEducation(true)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 || active[0].ID != visible.ID {
		t.Fatalf("active filter should return only the visible entry")
	}
}
