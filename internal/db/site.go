package db

import "gorm.io/gorm"

// Testimonial is a quote shown on the public site.
type Testimonial struct {
	gorm.Model
	AuthorName  string `gorm:"size:150;not null"`
	AuthorTitle string `gorm:"size:150"`
	Quote       string `gorm:"type:text;not null"`
	Avatar      string `gorm:"size:255"`
	SortOrder   int    `gorm:"default:0"`
	IsActive    bool   `gorm:"default:true"`
}

// Partner is a company or client logo strip entry.
type Partner struct {
	gorm.Model
	Name       string `gorm:"size:150;not null"`
	WebsiteURL string `gorm:"size:255"`
	Logo       string `gorm:"size:255"`
	SortOrder  int    `gorm:"default:0"`
	IsActive   bool   `gorm:"default:true"`
}

// Service is an offering listed on the public site.
type Service struct {
	gorm.Model
	Title       string `gorm:"size:150;not null"`
	Description string `gorm:"type:text"`
	Icon        string `gorm:"size:255"`
	SortOrder   int    `gorm:"default:0"`
	IsActive    bool   `gorm:"default:true"`
}
