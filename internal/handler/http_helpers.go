package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shemnduati/personal-portfolio-sub000/internal/service"
)

const (
	maxImageBytes    = 5 << 20
	maxDocumentBytes = 10 << 20
)

var (
	errUploadTooLarge = errors.New("uploaded file is too large")
	errUploadBadType  = errors.New("uploaded file has an unsupported type")
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

func parsePositiveInt(value string, fallback int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

// optionalFormValue distinguishes an absent form field (nil) from one
// submitted empty.
func optionalFormValue(c *gin.Context, field string) *string {
	if value, ok := c.GetPostForm(field); ok {
		return &value
	}
	return nil
}

// formImage extracts an optional image upload from a multipart form,
// enforcing mime prefix and size cap. A missing field returns (nil, nil).
func formImage(c *gin.Context, field string) (*service.FileUpload, error) {
	return formUpload(c, field, "image/", maxImageBytes)
}

// formDocument extracts an optional document upload (PDF) from a multipart
// form.
func formDocument(c *gin.Context, field string) (*service.FileUpload, error) {
	return formUpload(c, field, "application/pdf", maxDocumentBytes)
}

func formUpload(c *gin.Context, field, typePrefix string, maxBytes int64) (*service.FileUpload, error) {
	file, err := c.FormFile(field)
	if err != nil {
		// Both a missing field and a form without a multipart body mean
		// "no upload" here.
		return nil, nil
	}

	if file.Size > maxBytes {
		return nil, errUploadTooLarge
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, typePrefix) {
		return nil, errUploadBadType
	}

	content, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file: %w", err)
	}

	return &service.FileUpload{Filename: file.Filename, Content: content}, nil
}

func respondUploadError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, errUploadTooLarge):
		respondError(c, http.StatusBadRequest, "uploaded file exceeds the size limit")
		return true
	case errors.Is(err, errUploadBadType):
		respondError(c, http.StatusBadRequest, "uploaded file type is not allowed")
		return true
	}
	return false
}
