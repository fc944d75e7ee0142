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

// blogInputFromForm builds a service input from a multipart admin form.
// Optional fields distinguish absent from empty: leaving out tags, excerpt
// or the meta fields keeps the stored value, while submitting them empty
// clears it.
func blogInputFromForm(c *gin.Context) (service.BlogInput, error) {
	input := service.BlogInput{
		Title:           c.PostForm("title"),
		Slug:            c.PostForm("slug"),
		Content:         c.PostForm("content"),
		ContentFormat:   c.PostForm("content_format"),
		Excerpt:         optionalFormValue(c, "excerpt"),
		MetaTitle:       optionalFormValue(c, "meta_title"),
		MetaDescription: optionalFormValue(c, "meta_description"),
	}

	if raw, ok := c.GetPostForm("category_id"); ok {
		parsed, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
		if err != nil {
			return input, errors.New("invalid category id")
		}
		input.CategoryID = uint(parsed)
	}

	if raw, ok := c.GetPostForm("is_published"); ok {
		published, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return input, errors.New("invalid is_published value")
		}
		input.IsPublished = &published
	}

	if raw, ok := c.GetPostForm("tags"); ok {
		tags := []string{}
		if strings.TrimSpace(raw) != "" {
			if err := json.Unmarshal([]byte(raw), &tags); err != nil {
				return input, errors.New("tags must be a JSON array of names")
			}
		}
		input.Tags = tags
	}

	image, err := formImage(c, "featured_image")
	if err != nil {
		return input, err
	}
	input.Image = image

	return input, nil
}

// GetBlogs returns every blog for the admin table.
func (a *API) GetBlogs(c *gin.Context) {
	blogs, err := a.blogs.ListAll()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list blogs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"blogs": blogs})
}

// GetBlog returns one blog by id.
func (a *API) GetBlog(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid blog id")
		return
	}

	blog, err := a.blogs.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrBlogNotFound) {
			respondError(c, http.StatusNotFound, "blog not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load blog")
		return
	}
	c.JSON(http.StatusOK, gin.H{"blog": blog})
}

// CreateBlog handles the admin create form.
func (a *API) CreateBlog(c *gin.Context) {
	input, err := blogInputFromForm(c)
	if err != nil {
		if !respondUploadError(c, err) {
			respondError(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	blog, err := a.blogs.Create(c.Request.Context(), input)
	if err != nil {
		a.respondBlogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "blog created", "blog": blog})
}

// UpdateBlog handles the admin edit form.
func (a *API) UpdateBlog(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid blog id")
		return
	}

	input, err := blogInputFromForm(c)
	if err != nil {
		if !respondUploadError(c, err) {
			respondError(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	blog, err := a.blogs.Update(c.Request.Context(), id, input)
	if err != nil {
		a.respondBlogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "blog updated", "blog": blog})
}

// DeleteBlog removes a blog and its featured image.
func (a *API) DeleteBlog(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid blog id")
		return
	}

	if err := a.blogs.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrBlogNotFound) {
			respondError(c, http.StatusNotFound, "blog not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete blog")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "blog deleted"})
}

func (a *API) respondBlogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBlogNotFound):
		respondError(c, http.StatusNotFound, "blog not found")
	case errors.Is(err, service.ErrBlogTitleMissing),
		errors.Is(err, service.ErrBlogBodyMissing):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, http.StatusBadRequest, "category does not exist")
	default:
		respondError(c, http.StatusInternalServerError, "failed to save blog")
	}
}

// ShowBlogList renders the admin blog table.
func (a *API) ShowBlogList(c *gin.Context) {
	blogs, err := a.blogs.ListAll()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list blogs")
		return
	}
	categories, err := a.categories.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list categories")
		return
	}
	a.renderPage(c, "Admin/Blogs/Index", gin.H{"blogs": blogs, "categories": categories})
}

// ShowBlogEdit renders the create/edit form; without an id it is a blank
// create form.
func (a *API) ShowBlogEdit(c *gin.Context) {
	props := gin.H{}

	if raw := c.Param("id"); raw != "" {
		id, err := parseUintParam(c, "id")
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid blog id")
			return
		}
		blog, err := a.blogs.Get(id)
		if err != nil {
			if errors.Is(err, service.ErrBlogNotFound) {
				respondError(c, http.StatusNotFound, "blog not found")
				return
			}
			respondError(c, http.StatusInternalServerError, "failed to load blog")
			return
		}
		props["blog"] = blog
	}

	categories, err := a.categories.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list categories")
		return
	}
	props["categories"] = categories

	a.renderPage(c, "Admin/Blogs/Edit", props)
}
