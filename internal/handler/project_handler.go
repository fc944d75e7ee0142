package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shemnduati/personal-portfolio-sub000/internal/service"
)

func projectInputFromForm(c *gin.Context) (service.ProjectInput, error) {
	input := service.ProjectInput{
		Title:       c.PostForm("title"),
		Slug:        c.PostForm("slug"),
		Description: c.PostForm("description"),
		Content:     c.PostForm("content"),
		GithubURL:   c.PostForm("github_url"),
		LiveURL:     c.PostForm("live_url"),
	}

	if raw, ok := c.GetPostForm("is_featured"); ok {
		featured, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return input, errors.New("invalid is_featured value")
		}
		input.IsFeatured = &featured
	}

	if raw, ok := c.GetPostForm("technologies"); ok {
		technologies := []string{}
		if strings.TrimSpace(raw) != "" {
			if err := json.Unmarshal([]byte(raw), &technologies); err != nil {
				return input, errors.New("technologies must be a JSON array of names")
			}
		}
		input.Technologies = technologies
	}

	image, err := formImage(c, "featured_image")
	if err != nil {
		return input, err
	}
	input.Image = image

	return input, nil
}

// GetProjects lists all projects for the admin table.
func (a *API) GetProjects(c *gin.Context) {
	projects, err := a.projects.ListAll()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list projects")
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// GetProject returns one project by id.
func (a *API) GetProject(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid project id")
		return
	}

	project, err := a.projects.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			respondError(c, http.StatusNotFound, "project not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load project")
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

// CreateProject handles the admin create form.
func (a *API) CreateProject(c *gin.Context) {
	input, err := projectInputFromForm(c)
	if err != nil {
		if !respondUploadError(c, err) {
			respondError(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	project, err := a.projects.Create(c.Request.Context(), input)
	if err != nil {
		a.respondProjectError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "project created", "project": project})
}

// UpdateProject handles the admin edit form.
func (a *API) UpdateProject(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid project id")
		return
	}

	input, err := projectInputFromForm(c)
	if err != nil {
		if !respondUploadError(c, err) {
			respondError(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	project, err := a.projects.Update(c.Request.Context(), id, input)
	if err != nil {
		a.respondProjectError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project updated", "project": project})
}

// DeleteProject removes a project, its gallery rows and every stored file.
func (a *API) DeleteProject(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid project id")
		return
	}

	if err := a.projects.Delete(c.Request.Context(), id); err != nil {
		a.respondProjectError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}

// AddProjectImage uploads one gallery image.
func (a *API) AddProjectImage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid project id")
		return
	}

	upload, err := formImage(c, "image")
	if err != nil {
		if !respondUploadError(c, err) {
			respondError(c, http.StatusBadRequest, "invalid image upload")
		}
		return
	}
	if upload == nil {
		respondError(c, http.StatusBadRequest, "image file is required")
		return
	}

	img, err := a.projects.AddImage(c.Request.Context(), id, *upload, c.PostForm("caption"))
	if err != nil {
		a.respondProjectError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "image added", "image": img})
}

// DeleteProjectImage removes one gallery image and its file.
func (a *API) DeleteProjectImage(c *gin.Context) {
	imageID, err := parseUintParam(c, "imageId")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid image id")
		return
	}

	if err := a.projects.DeleteImage(c.Request.Context(), imageID); err != nil {
		a.respondProjectError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "image deleted"})
}

// ReorderProjectImages rewrites the gallery order.
func (a *API) ReorderProjectImages(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid project id")
		return
	}

	var req reorderRequest
	if !bindJSON(c, &req, "ids are required") {
		return
	}

	if err := a.projects.ReorderImages(id, req.IDs); err != nil {
		a.respondProjectError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "images reordered"})
}

func (a *API) respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		respondError(c, http.StatusNotFound, "project not found")
	case errors.Is(err, service.ErrProjectImageNotFound):
		respondError(c, http.StatusNotFound, "project image not found")
	case errors.Is(err, service.ErrProjectTitleMissing):
		respondError(c, http.StatusBadRequest, "project title is required")
	case errors.Is(err, service.ErrImageOrder):
		respondError(c, http.StatusBadRequest, "invalid image order")
	default:
		respondError(c, http.StatusInternalServerError, "failed to save project")
	}
}

// ShowProjectList renders the admin project table.
func (a *API) ShowProjectList(c *gin.Context) {
	projects, err := a.projects.ListAll()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list projects")
		return
	}
	a.renderPage(c, "Admin/Projects/Index", gin.H{"projects": projects})
}

// ShowProjectEdit renders the create/edit form.
func (a *API) ShowProjectEdit(c *gin.Context) {
	props := gin.H{}

	if raw := c.Param("id"); raw != "" {
		id, err := parseUintParam(c, "id")
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid project id")
			return
		}
		project, err := a.projects.Get(id)
		if err != nil {
			if errors.Is(err, service.ErrProjectNotFound) {
				respondError(c, http.StatusNotFound, "project not found")
				return
			}
			respondError(c, http.StatusInternalServerError, "failed to load project")
			return
		}
		props["project"] = project
	}

	technologies, err := a.technologies.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list technologies")
		return
	}
	props["technologies"] = technologies

	a.renderPage(c, "Admin/Projects/Edit", props)
}
