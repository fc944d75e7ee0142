package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shemnduati/personal-portfolio-sub000/internal/db"
	"github.com/shemnduati/personal-portfolio-sub000/internal/storage"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrSkillNotFound      = errors.New("skill not found")
	ErrSkillNameMissing   = errors.New("skill name is required")
	ErrExperienceNotFound = errors.New("experience not found")
	ErrEducationNotFound  = errors.New("education not found")
	ErrExperienceInvalid  = errors.New("role and company are required")
	ErrEducationInvalid   = errors.New("degree and institution are required")
	ErrSortOrder          = errors.New("invalid sort order")
)

const iconDir = "icons"

// ProfileService manages the flat profile sections: skills, work experience
// and education. Each carries a sort order and an active flag gating public
// visibility.
type ProfileService struct {
	db    *gorm.DB
	store storage.Storage
}

// NewProfileService creates a ProfileService instance.
func NewProfileService(gdb *gorm.DB, store storage.Storage) *ProfileService {
	return &ProfileService{db: gdb, store: store}
}

// SkillInput carries the editable skill fields.
type SkillInput struct {
	Name     string
	Level    int
	IsActive *bool
	Icon     *FileUpload
}

// ExperienceInput carries the editable experience fields. A current position
// has its end date suppressed.
type ExperienceInput struct {
	Role        string
	Company     string
	Location    string
	Description string
	StartDate   datatypes.Date
	EndDate     *datatypes.Date
	IsCurrent   bool
	IsActive    *bool
}

// EducationInput mirrors ExperienceInput for academic entries.
type EducationInput struct {
	Degree      string
	Institution string
	Description string
	StartDate   datatypes.Date
	EndDate     *datatypes.Date
	IsCurrent   bool
	IsActive    *bool
}

// ListSkills returns skills in display order; activeOnly limits the set to
// publicly visible rows.
func (s *ProfileService) ListSkills(activeOnly bool) ([]db.Skill, error) {
	var skills []db.Skill
	query := s.db.Order("sort_order asc, id asc")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&skills).Error; err != nil {
		return nil, err
	}
	return skills, nil
}

// CreateSkill inserts a skill at the end of the display order.
func (s *ProfileService) CreateSkill(ctx context.Context, input SkillInput) (*db.Skill, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrSkillNameMissing
	}

	iconPath, err := s.stageIcon(ctx, input.Icon)
	if err != nil {
		return nil, err
	}

	skill := db.Skill{
		Name:      name,
		Level:     clampLevel(input.Level),
		Icon:      iconPath,
		SortOrder: nextSortOrder(s.db, &db.Skill{}),
		IsActive:  true,
	}
	if input.IsActive != nil {
		skill.IsActive = *input.IsActive
	}

	if err := s.db.Create(&skill).Error; err != nil {
		s.discardIcon(ctx, iconPath)
		return nil, err
	}
	return &skill, nil
}

// UpdateSkill applies changes; a new icon replaces the stored file.
func (s *ProfileService) UpdateSkill(ctx context.Context, id uint, input SkillInput) (*db.Skill, error) {
	var skill db.Skill
	if err := s.db.First(&skill, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSkillNotFound
		}
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrSkillNameMissing
	}

	iconPath, err := s.stageIcon(ctx, input.Icon)
	if err != nil {
		return nil, err
	}
	oldIcon := skill.Icon

	skill.Name = name
	skill.Level = clampLevel(input.Level)
	if input.IsActive != nil {
		skill.IsActive = *input.IsActive
	}
	if iconPath != "" {
		skill.Icon = iconPath
	}

	if err := s.db.Save(&skill).Error; err != nil {
		s.discardIcon(ctx, iconPath)
		return nil, err
	}

	if iconPath != "" && oldIcon != "" {
		if err := s.store.Delete(ctx, oldIcon); err != nil {
			log.Warn().Err(err).Str("path", oldIcon).Msg("failed to delete replaced icon")
		}
	}
	return &skill, nil
}

// DeleteSkill removes the row and its icon file.
func (s *ProfileService) DeleteSkill(ctx context.Context, id uint) error {
	var skill db.Skill
	if err := s.db.First(&skill, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSkillNotFound
		}
		return err
	}

	if err := s.db.Unscoped().Delete(&skill).Error; err != nil {
		return err
	}

	if skill.Icon != "" {
		if err := s.store.Delete(ctx, skill.Icon); err != nil {
			log.Warn().Err(err).Str("path", skill.Icon).Msg("failed to delete icon file")
		}
	}
	return nil
}

// ReorderSkills updates display order from the id sequence.
func (s *ProfileService) ReorderSkills(ids []uint) error {
	return reorderByIDs(s.db, &db.Skill{}, ids, ErrSkillNotFound)
}

// ListExperience returns experience entries in display order.
func (s *ProfileService) ListExperience(activeOnly bool) ([]db.Experience, error) {
	var entries []db.Experience
	query := s.db.Order("sort_order asc, start_date desc, id desc")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// CreateExperience inserts a work history entry.
func (s *ProfileService) CreateExperience(input ExperienceInput) (*db.Experience, error) {
	if strings.TrimSpace(input.Role) == "" || strings.TrimSpace(input.Company) == "" {
		return nil, ErrExperienceInvalid
	}

	entry := db.Experience{
		Role:        strings.TrimSpace(input.Role),
		Company:     strings.TrimSpace(input.Company),
		Location:    strings.TrimSpace(input.Location),
		Description: strings.TrimSpace(input.Description),
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		IsCurrent:   input.IsCurrent,
		SortOrder:   nextSortOrder(s.db, &db.Experience{}),
		IsActive:    true,
	}
	if entry.IsCurrent {
		entry.EndDate = nil
	}
	if input.IsActive != nil {
		entry.IsActive = *input.IsActive
	}

	if err := s.db.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateExperience applies changes to an entry.
func (s *ProfileService) UpdateExperience(id uint, input ExperienceInput) (*db.Experience, error) {
	var entry db.Experience
	if err := s.db.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExperienceNotFound
		}
		return nil, err
	}

	if strings.TrimSpace(input.Role) == "" || strings.TrimSpace(input.Company) == "" {
		return nil, ErrExperienceInvalid
	}

	entry.Role = strings.TrimSpace(input.Role)
	entry.Company = strings.TrimSpace(input.Company)
	entry.Location = strings.TrimSpace(input.Location)
	entry.Description = strings.TrimSpace(input.Description)
	entry.StartDate = input.StartDate
	entry.EndDate = input.EndDate
	entry.IsCurrent = input.IsCurrent
	if entry.IsCurrent {
		entry.EndDate = nil
	}
	if input.IsActive != nil {
		entry.IsActive = *input.IsActive
	}

	if err := s.db.Save(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteExperience removes an entry.
func (s *ProfileService) DeleteExperience(id uint) error {
	result := s.db.Unscoped().Where("id = ?", id).Delete(&db.Experience{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrExperienceNotFound
	}
	return nil
}

// ReorderExperience updates display order from the id sequence.
func (s *ProfileService) ReorderExperience(ids []uint) error {
	return reorderByIDs(s.db, &db.Experience{}, ids, ErrExperienceNotFound)
}

// ListEducation returns education entries in display order.
func (s *ProfileService) ListEducation(activeOnly bool) ([]db.Education, error) {
	var entries []db.Education
	query := s.db.Order("sort_order asc, start_date desc, id desc")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// CreateEducation inserts an academic entry.
func (s *ProfileService) CreateEducation(input EducationInput) (*db.Education, error) {
	if strings.TrimSpace(input.Degree) == "" || strings.TrimSpace(input.Institution) == "" {
		return nil, ErrEducationInvalid
	}

	entry := db.Education{
		Degree:      strings.TrimSpace(input.Degree),
		Institution: strings.TrimSpace(input.Institution),
		Description: strings.TrimSpace(input.Description),
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		IsCurrent:   input.IsCurrent,
		SortOrder:   nextSortOrder(s.db, &db.Education{}),
		IsActive:    true,
	}
	if entry.IsCurrent {
		entry.EndDate = nil
	}
	if input.IsActive != nil {
		entry.IsActive = *input.IsActive
	}

	if err := s.db.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateEducation applies changes to an entry.
func (s *ProfileService) UpdateEducation(id uint, input EducationInput) (*db.Education, error) {
	var entry db.Education
	if err := s.db.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEducationNotFound
		}
		return nil, err
	}

	if strings.TrimSpace(input.Degree) == "" || strings.TrimSpace(input.Institution) == "" {
		return nil, ErrEducationInvalid
	}

	entry.Degree = strings.TrimSpace(input.Degree)
	entry.Institution = strings.TrimSpace(input.Institution)
	entry.Description = strings.TrimSpace(input.Description)
	entry.StartDate = input.StartDate
	entry.EndDate = input.EndDate
	entry.IsCurrent = input.IsCurrent
	if entry.IsCurrent {
		entry.EndDate = nil
	}
	if input.IsActive != nil {
		entry.IsActive = *input.IsActive
	}

	if err := s.db.Save(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteEducation removes an entry.
func (s *ProfileService) DeleteEducation(id uint) error {
	result := s.db.Unscoped().Where("id = ?", id).Delete(&db.Education{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEducationNotFound
	}
	return nil
}

// ReorderEducation updates display order from the id sequence.
func (s *ProfileService) ReorderEducation(ids []uint) error {
	return reorderByIDs(s.db, &db.Education{}, ids, ErrEducationNotFound)
}

func (s *ProfileService) stageIcon(ctx context.Context, upload *FileUpload) (string, error) {
	if upload == nil {
		return "", nil
	}
	path, err := s.store.Put(ctx, iconDir, upload.Filename, upload.Content)
	if err != nil {
		return "", fmt.Errorf("store icon: %w", err)
	}
	return path, nil
}

func (s *ProfileService) discardIcon(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.store.Delete(ctx, path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to discard staged icon")
	}
}

func clampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > 100 {
		return 100
	}
	return level
}

// nextSortOrder appends new rows after the current maximum.
func nextSortOrder(gdb *gorm.DB, model interface{}) int {
	var maxSort int
	if err := gdb.Model(model).Select("COALESCE(MAX(sort_order), -1)").Scan(&maxSort).Error; err != nil {
		return 0
	}
	return maxSort + 1
}

// reorderByIDs rewrites sort_order to match the given id sequence.
func reorderByIDs(gdb *gorm.DB, model interface{}, ids []uint, notFound error) error {
	if len(ids) == 0 {
		return nil
	}

	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			return ErrSortOrder
		}
		if _, ok := seen[id]; ok {
			return ErrSortOrder
		}
		seen[id] = struct{}{}
	}

	return gdb.Transaction(func(tx *gorm.DB) error {
		for idx, id := range ids {
			result := tx.Model(model).Where("id = ?", id).Update("sort_order", idx)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return notFound
			}
		}
		return nil
	})
}
