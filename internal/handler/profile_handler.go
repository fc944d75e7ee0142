package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shemnduati/personal-portfolio-sub000/internal/service"
	"gorm.io/datatypes"
)

const dateLayout = "2006-01-02"

type experienceRequest struct {
	Role        string `json:"role" binding:"required"`
	Company     string `json:"company" binding:"required"`
	Location    string `json:"location"`
	Description string `json:"description"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date"`
	IsCurrent   bool   `json:"is_current"`
	IsActive    *bool  `json:"is_active"`
}

type educationRequest struct {
	Degree      string `json:"degree" binding:"required"`
	Institution string `json:"institution" binding:"required"`
	Description string `json:"description"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date"`
	IsCurrent   bool   `json:"is_current"`
	IsActive    *bool  `json:"is_active"`
}

func parseDate(value string) (datatypes.Date, error) {
	parsed, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return datatypes.Date{}, err
	}
	return datatypes.Date(parsed), nil
}

func parseOptionalDate(value string) (*datatypes.Date, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	date, err := parseDate(value)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

// GetSkills lists skills for the admin screen.
func (a *API) GetSkills(c *gin.Context) {
	skills, err := a.profile.ListSkills(false)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list skills")
		return
	}
	c.JSON(http.StatusOK, gin.H{"skills": skills})
}

func skillInputFromForm(c *gin.Context) (service.SkillInput, error) {
	input := service.SkillInput{Name: c.PostForm("name")}

	if raw, ok := c.GetPostForm("level"); ok {
		level, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return input, errors.New("invalid level value")
		}
		input.Level = level
	}

	if raw, ok := c.GetPostForm("is_active"); ok {
		active, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return input, errors.New("invalid is_active value")
		}
		input.IsActive = &active
	}

	icon, err := formImage(c, "icon")
	if err != nil {
		return input, err
	}
	input.Icon = icon

	return input, nil
}

// CreateSkill adds a skill.
func (a *API) CreateSkill(c *gin.Context) {
	input, err := skillInputFromForm(c)
	if err != nil {
		if !respondUploadError(c, err) {
			respondError(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	skill, err := a.profile.CreateSkill(c.Request.Context(), input)
	if err != nil {
		a.respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "skill created", "skill": skill})
}

// UpdateSkill edits a skill.
func (a *API) UpdateSkill(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid skill id")
		return
	}

	input, err := skillInputFromForm(c)
	if err != nil {
		if !respondUploadError(c, err) {
			respondError(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	skill, err := a.profile.UpdateSkill(c.Request.Context(), id, input)
	if err != nil {
		a.respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "skill updated", "skill": skill})
}

// DeleteSkill removes a skill and its icon.
func (a *API) DeleteSkill(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid skill id")
		return
	}

	if err := a.profile.DeleteSkill(c.Request.Context(), id); err != nil {
		a.respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "skill deleted"})
}

// ReorderSkills rewrites skill display order.
func (a *API) ReorderSkills(c *gin.Context) {
	var req reorderRequest
	if !bindJSON(c, &req, "ids are required") {
		return
	}

	if err := a.profile.ReorderSkills(req.IDs); err != nil {
		a.respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "skills reordered"})
}

// GetExperience lists experience entries.
func (a *API) GetExperience(c *gin.Context) {
	entries, err := a.profile.ListExperience(false)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list experience")
		return
	}
	c.JSON(http.StatusOK, gin.H{"experience": entries})
}

func (a *API) experienceInput(c *gin.Context) (service.ExperienceInput, bool) {
	var req experienceRequest
	if !bindJSON(c, &req, "role, company and start date are required") {
		return service.ExperienceInput{}, false
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid start date")
		return service.ExperienceInput{}, false
	}
	end, err := parseOptionalDate(req.EndDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid end date")
		return service.ExperienceInput{}, false
	}

	return service.ExperienceInput{
		Role:        req.Role,
		Company:     req.Company,
		Location:    req.Location,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
		IsCurrent:   req.IsCurrent,
		IsActive:    req.IsActive,
	}, true
}

// CreateExperience adds a work history entry.
func (a *API) CreateExperience(c *gin.Context) {
	input, ok := a.experienceInput(c)
	if !ok {
		return
	}

	entry, err := a.profile.CreateExperience(input)
	if err != nil {
		a.respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "experience created", "experience": entry})
}

// UpdateExperience edits a work history entry.
func (a *API) UpdateExperience(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid experience id")
		return
	}

	input, ok := a.experienceInput(c)
	if !ok {
		return
	}

	entry, err := a.profile.UpdateExperience(id, input)
	if err != nil {
		a.respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "experience updated", "experience": entry})
}

// DeleteExperience removes a work history entry.
func (a *API) DeleteExperience(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid experience id")
		return
	}

	if err := a.profile.DeleteExperience(id); err != nil {
		a.respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "experience deleted"})
}

// ReorderExperience rewrites experience display order.
func (a *API) ReorderExperience(c *gin.Context) {
	var req reorderRequest
	if !bindJSON(c, &req, "ids are required") {
		return
	}

	if err := a.profile.ReorderExperience(req.IDs); err != nil {
		a.respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "experience reordered"})
}

// GetEducation lists education entries.
func (a *API) GetEducation(c *gin.Context) {
	entries, err := a.profile.ListEducation(false)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list education")
		return
	}
	c.JSON(http.StatusOK, gin.H{"education": entries})
}

func (a *API) educationInput(c *gin.Context) (service.EducationInput, bool) {
	var req educationRequest
	if !bindJSON(c, &req, "degree, institution and start date are required") {
		return service.EducationInput{}, false
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid start date")
		return service.EducationInput{}, false
	}
	end, err := parseOptionalDate(req.EndDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid end date")
		return service.EducationInput{}, false
	}

	return service.EducationInput{
		Degree:      req.Degree,
		Institution: req.Institution,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
		IsCurrent:   req.IsCurrent,
		IsActive:    req.IsActive,
	}, true
}

// CreateEducation adds an academic entry.
func (a *API) CreateEducation(c *gin.Context) {
	input, ok := a.educationInput(c)
	if !ok {
		return
	}

	entry, err := a.profile.CreateEducation(input)
	if err != nil {
		a.respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "education created", "education": entry})
}

// UpdateEducation edits an academic entry.
func (a *API) UpdateEducation(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid education id")
		return
	}

	input, ok := a.educationInput(c)
	if !ok {
		return
	}

	entry, err := a.profile.UpdateEducation(id, input)
	if err != nil {
		a.respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "education updated", "education": entry})
}

// DeleteEducation removes an academic entry.
func (a *API) DeleteEducation(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid education id")
		return
	}

	if err := a.profile.DeleteEducation(id); err != nil {
		a.respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "education deleted"})
}

// ReorderEducation rewrites education display order.
func (a *API) ReorderEducation(c *gin.Context) {
	var req reorderRequest
	if !bindJSON(c, &req, "ids are required") {
		return
	}

	if err := a.profile.ReorderEducation(req.IDs); err != nil {
		a.respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "education reordered"})
}

func (a *API) respondProfileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSkillNotFound),
		errors.Is(err, service.ErrExperienceNotFound),
		errors.Is(err, service.ErrEducationNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSkillNameMissing),
		errors.Is(err, service.ErrExperienceInvalid),
		errors.Is(err, service.ErrEducationInvalid),
		errors.Is(err, service.ErrSortOrder):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "failed to save entry")
	}
}
