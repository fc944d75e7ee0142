package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shemnduati/personal-portfolio-sub000/internal/service"
)

type serviceRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	IsActive    *bool  `json:"is_active"`
}

func parseActiveFlag(c *gin.Context) (*bool, error) {
	raw, ok := c.GetPostForm("is_active")
	if !ok {
		return nil, nil
	}
	active, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return nil, errors.New("invalid is_active value")
	}
	return &active, nil
}

// GetTestimonials lists testimonials for the admin screen.
func (a *API) GetTestimonials(c *gin.Context) {
	rows, err := a.siteContent.ListTestimonials(false)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list testimonials")
		return
	}
	c.JSON(http.StatusOK, gin.H{"testimonials": rows})
}

func testimonialInputFromForm(c *gin.Context) (service.TestimonialInput, error) {
	input := service.TestimonialInput{
		AuthorName:  c.PostForm("author_name"),
		AuthorTitle: c.PostForm("author_title"),
		Quote:       c.PostForm("quote"),
	}

	active, err := parseActiveFlag(c)
	if err != nil {
		return input, err
	}
	input.IsActive = active

	avatar, err := formImage(c, "avatar")
	if err != nil {
		return input, err
	}
	input.Avatar = avatar

	return input, nil
}

// CreateTestimonial adds a testimonial.
func (a *API) CreateTestimonial(c *gin.Context) {
	input, err := testimonialInputFromForm(c)
	if err != nil {
		if !respondUploadError(c, err) {
			respondError(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	row, err := a.siteContent.CreateTestimonial(c.Request.Context(), input)
	if err != nil {
		a.respondSiteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "testimonial created", "testimonial": row})
}

// UpdateTestimonial edits a testimonial.
func (a *API) UpdateTestimonial(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid testimonial id")
		return
	}

	input, err := testimonialInputFromForm(c)
	if err != nil {
		if !respondUploadError(c, err) {
			respondError(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	row, err := a.siteContent.UpdateTestimonial(c.Request.Context(), id, input)
	if err != nil {
		a.respondSiteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "testimonial updated", "testimonial": row})
}

// DeleteTestimonial removes a testimonial and its avatar.
func (a *API) DeleteTestimonial(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid testimonial id")
		return
	}

	if err := a.siteContent.DeleteTestimonial(c.Request.Context(), id); err != nil {
		a.respondSiteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "testimonial deleted"})
}

// ReorderTestimonials rewrites testimonial display order.
func (a *API) ReorderTestimonials(c *gin.Context) {
	var req reorderRequest
	if !bindJSON(c, &req, "ids are required") {
		return
	}

	if err := a.siteContent.ReorderTestimonials(req.IDs); err != nil {
		a.respondSiteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "testimonials reordered"})
}

// GetPartners lists partners for the admin screen.
func (a *API) GetPartners(c *gin.Context) {
	rows, err := a.siteContent.ListPartners(false)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list partners")
		return
	}
	c.JSON(http.StatusOK, gin.H{"partners": rows})
}

func partnerInputFromForm(c *gin.Context) (service.PartnerInput, error) {
	input := service.PartnerInput{
		Name:       c.PostForm("name"),
		WebsiteURL: c.PostForm("website_url"),
	}

	active, err := parseActiveFlag(c)
	if err != nil {
		return input, err
	}
	input.IsActive = active

	logo, err := formImage(c, "logo")
	if err != nil {
		return input, err
	}
	input.Logo = logo

	return input, nil
}

// CreatePartner adds a partner.
func (a *API) CreatePartner(c *gin.Context) {
	input, err := partnerInputFromForm(c)
	if err != nil {
		if !respondUploadError(c, err) {
			respondError(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	row, err := a.siteContent.CreatePartner(c.Request.Context(), input)
	if err != nil {
		a.respondSiteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "partner created", "partner": row})
}

// UpdatePartner edits a partner.
func (a *API) UpdatePartner(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid partner id")
		return
	}

	input, err := partnerInputFromForm(c)
	if err != nil {
		if !respondUploadError(c, err) {
			respondError(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	row, err := a.siteContent.UpdatePartner(c.Request.Context(), id, input)
	if err != nil {
		a.respondSiteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "partner updated", "partner": row})
}

// DeletePartner removes a partner and its logo.
func (a *API) DeletePartner(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid partner id")
		return
	}

	if err := a.siteContent.DeletePartner(c.Request.Context(), id); err != nil {
		a.respondSiteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "partner deleted"})
}

// ReorderPartners rewrites partner display order.
func (a *API) ReorderPartners(c *gin.Context) {
	var req reorderRequest
	if !bindJSON(c, &req, "ids are required") {
		return
	}

	if err := a.siteContent.ReorderPartners(req.IDs); err != nil {
		a.respondSiteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "partners reordered"})
}

// GetServices lists service offerings for the admin screen.
func (a *API) GetServices(c *gin.Context) {
	rows, err := a.siteContent.ListServices(false)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list services")
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": rows})
}

// CreateService adds a service offering.
func (a *API) CreateService(c *gin.Context) {
	var req serviceRequest
	if !bindJSON(c, &req, "title is required") {
		return
	}

	row, err := a.siteContent.CreateService(service.ServiceInput{
		Title:       req.Title,
		Description: req.Description,
		Icon:        req.Icon,
		IsActive:    req.IsActive,
	})
	if err != nil {
		a.respondSiteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "service created", "service": row})
}

// UpdateService edits a service offering.
func (a *API) UpdateService(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid service id")
		return
	}

	var req serviceRequest
	if !bindJSON(c, &req, "title is required") {
		return
	}

	row, err := a.siteContent.UpdateService(id, service.ServiceInput{
		Title:       req.Title,
		Description: req.Description,
		Icon:        req.Icon,
		IsActive:    req.IsActive,
	})
	if err != nil {
		a.respondSiteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "service updated", "service": row})
}

// DeleteService removes a service offering.
func (a *API) DeleteService(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid service id")
		return
	}

	if err := a.siteContent.DeleteService(id); err != nil {
		a.respondSiteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "service deleted"})
}

// ReorderServices rewrites service offering display order.
func (a *API) ReorderServices(c *gin.Context) {
	var req reorderRequest
	if !bindJSON(c, &req, "ids are required") {
		return
	}

	if err := a.siteContent.ReorderServices(req.IDs); err != nil {
		a.respondSiteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "services reordered"})
}

func (a *API) respondSiteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTestimonialNotFound),
		errors.Is(err, service.ErrPartnerNotFound),
		errors.Is(err, service.ErrServiceNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrTestimonialInvalid),
		errors.Is(err, service.ErrPartnerNameMissing),
		errors.Is(err, service.ErrServiceTitleMissing),
		errors.Is(err, service.ErrSortOrder):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "failed to save entry")
	}
}
