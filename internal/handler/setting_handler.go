package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shemnduati/personal-portfolio-sub000/internal/service"
)

type markReadRequest struct {
	Read *bool `json:"read" binding:"required"`
}

// GetSettings returns the full settings document for the admin screen.
func (a *API) GetSettings(c *gin.Context) {
	settings, err := a.settings.Get()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings writes the full settings document in one transaction.
func (a *API) UpdateSettings(c *gin.Context) {
	var input service.SiteSettings
	if !bindJSON(c, &input, "invalid settings payload") {
		return
	}

	settings, err := a.settings.Update(input)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "settings updated", "settings": settings})
}

// GetCvUploads lists all CV versions, newest first.
func (a *API) GetCvUploads(c *gin.Context) {
	uploads, err := a.cv.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list cv uploads")
		return
	}
	c.JSON(http.StatusOK, gin.H{"cv_uploads": uploads})
}

// UploadCv stores a new CV document and makes it the active one.
func (a *API) UploadCv(c *gin.Context) {
	upload, err := formDocument(c, "file")
	if err != nil {
		if !respondUploadError(c, err) {
			respondError(c, http.StatusBadRequest, err.Error())
		}
		return
	}
	if upload == nil {
		respondError(c, http.StatusBadRequest, "cv file is required")
		return
	}

	row, err := a.cv.Upload(c.Request.Context(), *upload, c.PostForm("version"))
	if err != nil {
		a.respondCvError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "cv uploaded", "cv": row})
}

// ActivateCv switches the active CV to an earlier upload.
func (a *API) ActivateCv(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid cv id")
		return
	}

	row, err := a.cv.Activate(id)
	if err != nil {
		a.respondCvError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cv activated", "cv": row})
}

// DeleteCv removes a CV version and its stored file.
func (a *API) DeleteCv(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid cv id")
		return
	}

	if err := a.cv.Delete(c.Request.Context(), id); err != nil {
		a.respondCvError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cv deleted"})
}

func (a *API) respondCvError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCvNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrCvVersionMissing):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "failed to save cv")
	}
}

// GetContactSubmissions lists messages, unread first.
func (a *API) GetContactSubmissions(c *gin.Context) {
	submissions, err := a.contacts.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list submissions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": submissions})
}

// MarkContactSubmission toggles the read flag on a message.
func (a *API) MarkContactSubmission(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid submission id")
		return
	}

	var req markReadRequest
	if !bindJSON(c, &req, "read flag is required") {
		return
	}

	if err := a.contacts.MarkRead(id, *req.Read); err != nil {
		if errors.Is(err, service.ErrSubmissionNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to update submission")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "submission updated"})
}

// DeleteContactSubmission removes a message.
func (a *API) DeleteContactSubmission(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid submission id")
		return
	}

	if err := a.contacts.Delete(id); err != nil {
		if errors.Is(err, service.ErrSubmissionNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete submission")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "submission deleted"})
}
