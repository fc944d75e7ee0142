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

func newContactServiceForTest(t *testing.T) *ContactService {
	t.Helper()
	dsn := fmt.Sprintf("file:contact-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := gdb.AutoMigrate(&db.ContactSubmission{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return NewContactService(gdb)
}

func TestContactService_SubmitAndList(t *testing.T) {
	svc := newContactServiceForTest(t)

	submission, err := svc.Submit(ContactInput{
		Name:    "Visitor",
		Email:   "visitor@example.com",
		Subject: "Hello",
		Message: "Nice site.",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if submission.IsRead {
		t.Fatalf("new submissions start unread")
	}

	list, err := svc.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Visitor" {
		t.Fatalf("unexpected list: %v", list)
	}
}

func TestContactService_SubmitValidation(t *testing.T) {
	svc := newContactServiceForTest(t)

	cases := []ContactInput{
		{Email: "a@b.c", Message: "hi"},
		{Name: "x", Message: "hi"},
		{Name: "x", Email: "a@b.c"},
		{Name: "x", Email: "not-an-email", Message: "hi"},
	}
	for i, input := range cases {
		if _, err := svc.Submit(input); !errors.Is(err, ErrSubmissionInvalid) {
			t.Fatalf("case %d: expected ErrSubmissionInvalid, got %v", i, err)
		}
	}
}

func TestContactService_MarkReadAndDelete(t *testing.T) {
	svc := newContactServiceForTest(t)

	submission, err := svc.Submit(ContactInput{Name: "V", Email: "v@example.com", Message: "hi"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := svc.MarkRead(submission.ID, true); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	list, err := svc.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !list[0].IsRead {
		t.Fatalf("submission should be marked read")
	}

	if err := svc.MarkRead(9999, true); !errors.Is(err, ErrSubmissionNotFound) {
		t.Fatalf("expected ErrSubmissionNotFound, got %v", err)
	}

	if err := svc.Delete(submission.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(submission.ID); !errors.Is(err, ErrSubmissionNotFound) {
		t.Fatalf("second delete should report ErrSubmissionNotFound, got %v", err)
	}
}
