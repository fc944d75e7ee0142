package db

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Skill is a proficiency entry shown on the public profile.
type Skill struct {
	gorm.Model
	Name      string `gorm:"size:100;not null"`
	Level     int    `gorm:"default:0"` // 0-100
	Icon      string `gorm:"size:255"`
	SortOrder int    `gorm:"default:0"`
	IsActive  bool   `gorm:"default:true"`
}

// Experience is a work history entry. EndDate stays nil while IsCurrent is
// set; public payloads suppress the end date for current positions.
type Experience struct {
	gorm.Model
	Role        string `gorm:"size:150;not null"`
	Company     string `gorm:"size:150;not null"`
	Location    string `gorm:"size:150"`
	Description string `gorm:"type:text"`
	StartDate   datatypes.Date
	EndDate     *datatypes.Date
	IsCurrent   bool `gorm:"default:false"`
	SortOrder   int  `gorm:"default:0"`
	IsActive    bool `gorm:"default:true"`
}

// Education mirrors Experience for academic history.
type Education struct {
	gorm.Model
	Degree      string `gorm:"size:150;not null"`
	Institution string `gorm:"size:150;not null"`
	Description string `gorm:"type:text"`
	StartDate   datatypes.Date
	EndDate     *datatypes.Date
	IsCurrent   bool `gorm:"default:false"`
	SortOrder   int  `gorm:"default:0"`
	IsActive    bool `gorm:"default:true"`
}

// TableName keeps the plural form gorm would not infer.
func (Education) TableName() string {
	return "educations"
}
