package db

import (
	"time"

	"gorm.io/gorm"
)

// Content formats accepted for blog posts. HTML comes from the rich text
// editor; markdown is rendered on the public read path.
const (
	ContentFormatHTML     = "html"
	ContentFormatMarkdown = "markdown"
)

// Blog is a post on the public site. PublishedAt is non-nil exactly when
// IsPublished is true; BlogService maintains that pairing on every write.
type Blog struct {
	gorm.Model
	Title           string `gorm:"size:255;not null"`
	Slug            string `gorm:"size:255;uniqueIndex;not null"`
	Excerpt         string `gorm:"type:text"`
	Content         string `gorm:"type:text"`
	ContentFormat   string `gorm:"size:16;default:html"`
	MetaTitle       string `gorm:"size:255"`
	MetaDescription string `gorm:"size:500"`
	FeaturedImage   string `gorm:"size:255"`
	IsPublished     bool   `gorm:"default:false"`
	PublishedAt     *time.Time
	CategoryID      uint
	Category        Category
	Tags            []Tag `gorm:"many2many:blog_tags;"`
}

// Category groups blog posts. Name is the natural key.
type Category struct {
	gorm.Model
	Name        string `gorm:"size:100;unique;not null"`
	Slug        string `gorm:"size:120;not null"`
	Description string `gorm:"type:text"`
	Blogs       []Blog
}

// Tag is attached to blogs through the blog_tags join table and is created
// on demand when a blog save names a tag that does not exist yet.
type Tag struct {
	gorm.Model
	Name  string `gorm:"size:100;unique;not null"`
	Slug  string `gorm:"size:120;not null"`
	Blogs []Blog `gorm:"many2many:blog_tags;"`
}
