package db

import "gorm.io/gorm"

// Project is a portfolio entry. The slug is filled in by the BeforeSave hook
// whenever it is blank, so callers that want a re-slug after a title change
// just clear it before saving.
type Project struct {
	gorm.Model
	Title         string `gorm:"size:255;not null"`
	Slug          string `gorm:"size:255;uniqueIndex;not null"`
	Description   string `gorm:"type:text"`
	Content       string `gorm:"type:text"`
	FeaturedImage string `gorm:"size:255"`
	GithubURL     string `gorm:"size:255"`
	LiveURL       string `gorm:"size:255"`
	IsFeatured    bool   `gorm:"default:false"`
	Technologies  []Technology   `gorm:"many2many:project_technologies;"`
	Images        []ProjectImage `gorm:"constraint:OnDelete:CASCADE"`
}

// BeforeSave derives the slug from the title when none was provided.
func (p *Project) BeforeSave(tx *gorm.DB) error {
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	return nil
}

// Technology is a tool or stack element linked to projects.
type Technology struct {
	gorm.Model
	Name     string `gorm:"size:100;unique;not null"`
	Slug     string `gorm:"size:120;not null"`
	Projects []Project `gorm:"many2many:project_technologies;"`
}

// BeforeSave derives the slug from the name when none was provided.
func (t *Technology) BeforeSave(tx *gorm.DB) error {
	if t.Slug == "" {
		t.Slug = Slugify(t.Name)
	}
	return nil
}

// ProjectImage is a gallery image belonging to one project. Width and height
// are probed from the uploaded file so the frontend can reserve layout space.
type ProjectImage struct {
	gorm.Model
	ProjectID uint   `gorm:"index;not null"`
	Path      string `gorm:"size:255;not null"`
	Caption   string `gorm:"size:255"`
	Width     int    `gorm:"default:0"`
	Height    int    `gorm:"default:0"`
	SortOrder int    `gorm:"default:0"`
}
