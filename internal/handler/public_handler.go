package handler

import (
	"bytes"
	"errors"
	"html/template"
	"io"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/shemnduati/personal-portfolio-sub000/internal/db"
	"github.com/shemnduati/personal-portfolio-sub000/internal/service"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

type contactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

// Ping is the health probe.
func (a *API) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

func renderMarkdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	safe := sanitizer.SanitizeBytes(buf.Bytes())
	return template.HTML(safe), nil
}

// renderedContent converts stored markdown to sanitized HTML; HTML content
// was already sanitized when it was saved.
func renderedContent(blog *db.Blog) string {
	if blog.ContentFormat != db.ContentFormatMarkdown {
		return blog.Content
	}
	rendered, err := renderMarkdown(blog.Content)
	if err != nil {
		return ""
	}
	return string(rendered)
}

// fileURL maps a stored file path to its public URL. The disk backend
// prefixes the static mount, the S3 backend returns an absolute URL.
func (a *API) fileURL(path string) string {
	if path == "" {
		return ""
	}
	return a.store.URL(path)
}

func (a *API) publicBlogSummary(blog db.Blog) gin.H {
	tags := make([]gin.H, 0, len(blog.Tags))
	for _, tag := range blog.Tags {
		tags = append(tags, gin.H{"name": tag.Name, "slug": tag.Slug})
	}
	return gin.H{
		"title":          blog.Title,
		"slug":           blog.Slug,
		"excerpt":        blog.Excerpt,
		"featured_image": a.fileURL(blog.FeaturedImage),
		"published_at":   blog.PublishedAt,
		"category":       gin.H{"name": blog.Category.Name, "slug": blog.Category.Slug},
		"tags":           tags,
	}
}

func (a *API) publicProject(project db.Project) gin.H {
	technologies := make([]gin.H, 0, len(project.Technologies))
	for _, tech := range project.Technologies {
		technologies = append(technologies, gin.H{"name": tech.Name, "slug": tech.Slug})
	}
	images := make([]gin.H, 0, len(project.Images))
	for _, image := range project.Images {
		images = append(images, gin.H{
			"url":     a.fileURL(image.Path),
			"caption": image.Caption,
			"width":   image.Width,
			"height":  image.Height,
		})
	}
	return gin.H{
		"title":          project.Title,
		"slug":           project.Slug,
		"description":    project.Description,
		"content":        project.Content,
		"featured_image": a.fileURL(project.FeaturedImage),
		"github_url":     project.GithubURL,
		"live_url":       project.LiveURL,
		"is_featured":    project.IsFeatured,
		"technologies":   technologies,
		"images":         images,
	}
}

func adjacentBlogRef(blog *db.Blog) gin.H {
	if blog == nil {
		return nil
	}
	return gin.H{"title": blog.Title, "slug": blog.Slug}
}

// GetPublishedBlogs lists published posts, paginated with the configured
// page size. A disabled blog answers 404 for the whole section.
func (a *API) GetPublishedBlogs(c *gin.Context) {
	settings, err := a.settings.Get()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load settings")
		return
	}
	if !settings.BlogEnabled {
		respondError(c, http.StatusNotFound, "blog is disabled")
		return
	}

	page := parsePositiveInt(c.Query("page"), 1)
	result, err := a.blogs.ListPublished(page, settings.PostsPerPage)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list blogs")
		return
	}

	blogs := make([]gin.H, 0, len(result.Blogs))
	for _, blog := range result.Blogs {
		blogs = append(blogs, a.publicBlogSummary(blog))
	}

	c.JSON(http.StatusOK, gin.H{
		"blogs":       blogs,
		"page":        result.Page,
		"per_page":    result.PerPage,
		"total":       result.Total,
		"total_pages": result.TotalPages,
	})
}

// GetPublishedBlog returns one published post with rendered content and its
// neighbors in publish order.
func (a *API) GetPublishedBlog(c *gin.Context) {
	settings, err := a.settings.Get()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load settings")
		return
	}
	if !settings.BlogEnabled {
		respondError(c, http.StatusNotFound, "blog is disabled")
		return
	}

	detail, err := a.blogs.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrBlogNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load blog")
		return
	}

	payload := a.publicBlogSummary(detail.Blog)
	payload["content"] = renderedContent(&detail.Blog)
	payload["meta_title"] = detail.Blog.MetaTitle
	payload["meta_description"] = detail.Blog.MetaDescription

	c.JSON(http.StatusOK, gin.H{
		"blog":     payload,
		"previous": adjacentBlogRef(detail.Previous),
		"next":     adjacentBlogRef(detail.Next),
	})
}

// GetPublicProjects lists projects for the portfolio page, featured first.
func (a *API) GetPublicProjects(c *gin.Context) {
	projects, err := a.projects.ListPublic()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list projects")
		return
	}
	payload := make([]gin.H, 0, len(projects))
	for _, project := range projects {
		payload = append(payload, a.publicProject(project))
	}
	c.JSON(http.StatusOK, gin.H{"projects": payload})
}

// GetPublicProject returns one project by slug.
func (a *API) GetPublicProject(c *gin.Context) {
	project, err := a.projects.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load project")
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": a.publicProject(*project)})
}

// GetPublicProfile bundles the visible profile sections in one response.
func (a *API) GetPublicProfile(c *gin.Context) {
	skills, err := a.profile.ListSkills(true)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load profile")
		return
	}
	experience, err := a.profile.ListExperience(true)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load profile")
		return
	}
	education, err := a.profile.ListEducation(true)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load profile")
		return
	}
	testimonials, err := a.siteContent.ListTestimonials(true)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load profile")
		return
	}
	partners, err := a.siteContent.ListPartners(true)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load profile")
		return
	}
	services, err := a.siteContent.ListServices(true)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load profile")
		return
	}

	skillPayload := make([]gin.H, 0, len(skills))
	for _, skill := range skills {
		skillPayload = append(skillPayload, gin.H{
			"name":  skill.Name,
			"level": skill.Level,
			"icon":  a.fileURL(skill.Icon),
		})
	}
	testimonialPayload := make([]gin.H, 0, len(testimonials))
	for _, row := range testimonials {
		testimonialPayload = append(testimonialPayload, gin.H{
			"author_name":  row.AuthorName,
			"author_title": row.AuthorTitle,
			"quote":        row.Quote,
			"avatar":       a.fileURL(row.Avatar),
		})
	}
	partnerPayload := make([]gin.H, 0, len(partners))
	for _, row := range partners {
		partnerPayload = append(partnerPayload, gin.H{
			"name":        row.Name,
			"website_url": row.WebsiteURL,
			"logo":        a.fileURL(row.Logo),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"skills":       skillPayload,
		"experience":   experience,
		"education":    education,
		"testimonials": testimonialPayload,
		"partners":     partnerPayload,
		"services":     services,
	})
}

// GetPublicSettings exposes the public subset of site settings. The CV path
// and admin-only knobs stay private; the download route covers the CV.
func (a *API) GetPublicSettings(c *gin.Context) {
	settings, err := a.settings.Get()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load settings")
		return
	}

	_, err = a.cv.Active()
	if err != nil && !errors.Is(err, service.ErrNoActiveCv) {
		respondError(c, http.StatusInternalServerError, "failed to load settings")
		return
	}
	hasCv := err == nil

	c.JSON(http.StatusOK, gin.H{
		"site_name":     settings.SiteName,
		"tagline":       settings.Tagline,
		"github_url":    settings.GithubURL,
		"linkedin_url":  settings.LinkedinURL,
		"twitter_url":   settings.TwitterURL,
		"contact_email": settings.ContactEmail,
		"blog_enabled":  settings.BlogEnabled,
		"has_cv":        hasCv,
	})
}

// SubmitContact records a visitor message.
func (a *API) SubmitContact(c *gin.Context) {
	var req contactRequest
	if !bindJSON(c, &req, "name, email and message are required") {
		return
	}

	submission, err := a.contacts.Submit(service.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		if errors.Is(err, service.ErrSubmissionInvalid) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to submit message")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "message received", "id": submission.ID})
}

// DownloadCv streams the active CV document.
func (a *API) DownloadCv(c *gin.Context) {
	upload, err := a.cv.Active()
	if err != nil {
		if errors.Is(err, service.ErrNoActiveCv) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load cv")
		return
	}

	reader, err := a.store.Open(c.Request.Context(), upload.Path)
	if err != nil {
		respondError(c, http.StatusNotFound, "cv file is missing")
		return
	}
	defer reader.Close()

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `attachment; filename="`+path.Base(upload.Path)+`"`)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		// Response already started; nothing sensible left to send.
		c.Abort()
	}
}
