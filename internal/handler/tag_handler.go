package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shemnduati/personal-portfolio-sub000/internal/service"
)

type tagRequest struct {
	Name string `json:"name" binding:"required"`
}

// GetTags lists tags with usage counts.
func (a *API) GetTags(c *gin.Context) {
	tags, err := a.tags.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list tags")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// CreateTag adds a new tag.
func (a *API) CreateTag(c *gin.Context) {
	var req tagRequest
	if !bindJSON(c, &req, "tag name is required") {
		return
	}

	tag, err := a.tags.Create(req.Name)
	if err != nil {
		a.respondTagError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "tag created", "tag": tag})
}

// UpdateTag renames a tag.
func (a *API) UpdateTag(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid tag id")
		return
	}

	var req tagRequest
	if !bindJSON(c, &req, "tag name is required") {
		return
	}

	tag, err := a.tags.Update(id, req.Name)
	if err != nil {
		a.respondTagError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "tag updated", "tag": tag})
}

// DeleteTag removes an unused tag.
func (a *API) DeleteTag(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid tag id")
		return
	}

	if err := a.tags.Delete(id); err != nil {
		a.respondTagError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "tag deleted"})
}

func (a *API) respondTagError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTagExists):
		respondError(c, http.StatusBadRequest, "tag already exists")
	case errors.Is(err, service.ErrTagInUse):
		respondError(c, http.StatusBadRequest, "tag is used by blogs and cannot be deleted")
	case errors.Is(err, service.ErrTagNameMissing):
		respondError(c, http.StatusBadRequest, "tag name is required")
	case errors.Is(err, service.ErrTagNotFound):
		respondError(c, http.StatusNotFound, "tag not found")
	default:
		respondError(c, http.StatusInternalServerError, "failed to save tag")
	}
}
