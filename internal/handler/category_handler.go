package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shemnduati/personal-portfolio-sub000/internal/service"
)

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// GetCategories lists blog categories.
func (a *API) GetCategories(c *gin.Context) {
	categories, err := a.categories.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateCategory adds a new category.
func (a *API) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if !bindJSON(c, &req, "category name is required") {
		return
	}

	category, err := a.categories.Create(service.CategoryInput{Name: req.Name, Description: req.Description})
	if err != nil {
		a.respondCategoryError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "category created", "category": category})
}

// UpdateCategory renames a category.
func (a *API) UpdateCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid category id")
		return
	}

	var req categoryRequest
	if !bindJSON(c, &req, "category name is required") {
		return
	}

	category, err := a.categories.Update(id, service.CategoryInput{Name: req.Name, Description: req.Description})
	if err != nil {
		a.respondCategoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category updated", "category": category})
}

// DeleteCategory removes an unreferenced category.
func (a *API) DeleteCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := a.categories.Delete(id); err != nil {
		a.respondCategoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}

func (a *API) respondCategoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCategoryExists):
		respondError(c, http.StatusBadRequest, "category already exists")
	case errors.Is(err, service.ErrCategoryInUse):
		respondError(c, http.StatusBadRequest, "category is used by blogs and cannot be deleted")
	case errors.Is(err, service.ErrCategoryNameMissing):
		respondError(c, http.StatusBadRequest, "category name is required")
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, http.StatusNotFound, "category not found")
	default:
		respondError(c, http.StatusInternalServerError, "failed to save category")
	}
}
