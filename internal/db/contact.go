package db

import "gorm.io/gorm"

// ContactSubmission is a message sent through the public contact form.
type ContactSubmission struct {
	gorm.Model
	Name    string `gorm:"size:150;not null"`
	Email   string `gorm:"size:255;not null"`
	Subject string `gorm:"size:255"`
	Message string `gorm:"type:text;not null"`
	IsRead  bool   `gorm:"default:false"`
}
