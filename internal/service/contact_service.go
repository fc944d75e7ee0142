package service

import (
	"errors"
	"strings"

	"github.com/shemnduati/personal-portfolio-sub000/internal/db"
	"gorm.io/gorm"
)

var (
	ErrSubmissionNotFound = errors.New("contact submission not found")
	ErrSubmissionInvalid  = errors.New("name, email and message are required")
)

// ContactService stores and manages public contact form submissions.
type ContactService struct {
	db *gorm.DB
}

// ContactInput carries one public contact form post.
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// NewContactService creates a ContactService instance.
func NewContactService(gdb *gorm.DB) *ContactService {
	return &ContactService{db: gdb}
}

// Submit validates and stores a submission.
func (s *ContactService) Submit(input ContactInput) (*db.ContactSubmission, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	message := strings.TrimSpace(input.Message)
	if name == "" || email == "" || message == "" || !strings.Contains(email, "@") {
		return nil, ErrSubmissionInvalid
	}

	submission := db.ContactSubmission{
		Name:    name,
		Email:   email,
		Subject: strings.TrimSpace(input.Subject),
		Message: message,
	}
	if err := s.db.Create(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// List returns all submissions, unread first, newest first.
func (s *ContactService) List() ([]db.ContactSubmission, error) {
	var submissions []db.ContactSubmission
	if err := s.db.Order("is_read asc, created_at desc").Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

// MarkRead flips the read flag on a submission.
func (s *ContactService) MarkRead(id uint, read bool) error {
	result := s.db.Model(&db.ContactSubmission{}).Where("id = ?", id).Update("is_read", read)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubmissionNotFound
	}
	return nil
}

// Delete removes a submission.
func (s *ContactService) Delete(id uint) error {
	result := s.db.Unscoped().Where("id = ?", id).Delete(&db.ContactSubmission{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubmissionNotFound
	}
	return nil
}
