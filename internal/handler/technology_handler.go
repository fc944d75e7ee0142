package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shemnduati/personal-portfolio-sub000/internal/service"
)

// reorderRequest is shared by every endpoint that rewrites display order.
type reorderRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// GetTechnologies lists technologies.
func (a *API) GetTechnologies(c *gin.Context) {
	technologies, err := a.technologies.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list technologies")
		return
	}
	c.JSON(http.StatusOK, gin.H{"technologies": technologies})
}

// CreateTechnology adds a new technology.
func (a *API) CreateTechnology(c *gin.Context) {
	var req tagRequest
	if !bindJSON(c, &req, "technology name is required") {
		return
	}

	tech, err := a.technologies.Create(req.Name)
	if err != nil {
		a.respondTechnologyError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "technology created", "technology": tech})
}

// UpdateTechnology renames a technology.
func (a *API) UpdateTechnology(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid technology id")
		return
	}

	var req tagRequest
	if !bindJSON(c, &req, "technology name is required") {
		return
	}

	tech, err := a.technologies.Update(id, req.Name)
	if err != nil {
		a.respondTechnologyError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "technology updated", "technology": tech})
}

// DeleteTechnology removes an unused technology.
func (a *API) DeleteTechnology(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid technology id")
		return
	}

	if err := a.technologies.Delete(id); err != nil {
		a.respondTechnologyError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "technology deleted"})
}

func (a *API) respondTechnologyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTechnologyExists):
		respondError(c, http.StatusBadRequest, "technology already exists")
	case errors.Is(err, service.ErrTechnologyInUse):
		respondError(c, http.StatusBadRequest, "technology is used by projects and cannot be deleted")
	case errors.Is(err, service.ErrTechnologyNameMissing):
		respondError(c, http.StatusBadRequest, "technology name is required")
	case errors.Is(err, service.ErrTechnologyNotFound):
		respondError(c, http.StatusNotFound, "technology not found")
	default:
		respondError(c, http.StatusInternalServerError, "failed to save technology")
	}
}
