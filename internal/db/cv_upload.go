package db

import "gorm.io/gorm"

// CvUpload is one uploaded CV document. At most one row is active; CvService
// flips the pointer inside a single transaction.
type CvUpload struct {
	gorm.Model
	Path     string `gorm:"size:255;not null"`
	Version  string `gorm:"size:100;not null"`
	IsActive bool   `gorm:"default:false"`
}
