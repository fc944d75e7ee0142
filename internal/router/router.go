package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/shemnduati/personal-portfolio-sub000/internal/config"
	"github.com/shemnduati/personal-portfolio-sub000/internal/handler"
	"github.com/shemnduati/personal-portfolio-sub000/internal/storage"
)

// Setup configures the gin engine with sessions, static file serving and the
// public and admin route groups.
func Setup(cfg config.AppConfig, api *handler.API, store storage.Storage) *gin.Engine {
	r := gin.Default()

	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("portfolio_session", sessionStore))

	// Uploaded files are served straight from disk; the S3 driver returns
	// absolute URLs so no route is needed there.
	if disk, ok := store.(*storage.Disk); ok {
		r.Static(cfg.StorageURL, disk.Root())
	}

	r.GET("/ping", api.Ping)

	// Public surface.
	r.GET("/projects", api.GetPublicProjects)
	r.GET("/projects/:slug", api.GetPublicProject)
	r.GET("/blogs", api.GetPublishedBlogs)
	r.GET("/bloglist", api.GetPublishedBlogs)
	r.GET("/blogs/:slug", api.GetPublishedBlog)
	r.GET("/cv/download", api.DownloadCv)

	public := r.Group("/api")
	{
		public.GET("/projects", api.GetPublicProjects)
		public.GET("/profile", api.GetPublicProfile)
		public.GET("/settings", api.GetPublicSettings)
		public.POST("/contact", api.SubmitContact)
	}

	admin := r.Group("/admin")
	{
		admin.GET("/login", api.ShowLogin)
		admin.POST("/login", api.Login)
		admin.GET("/logout", api.Logout)

		auth := admin.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/dashboard", api.ShowDashboard)
			auth.GET("/blogs", api.ShowBlogList)
			auth.GET("/blogs/new", api.ShowBlogEdit)
			auth.GET("/blogs/:id/edit", api.ShowBlogEdit)
			auth.GET("/projects", api.ShowProjectList)
			auth.GET("/projects/new", api.ShowProjectEdit)
			auth.GET("/projects/:id/edit", api.ShowProjectEdit)

			adminAPI := auth.Group("/api")
			{
				adminAPI.GET("/blogs", api.GetBlogs)
				adminAPI.GET("/blogs/:id", api.GetBlog)
				adminAPI.POST("/blogs", api.CreateBlog)
				adminAPI.PUT("/blogs/:id", api.UpdateBlog)
				adminAPI.DELETE("/blogs/:id", api.DeleteBlog)

				adminAPI.GET("/categories", api.GetCategories)
				adminAPI.POST("/categories", api.CreateCategory)
				adminAPI.PUT("/categories/:id", api.UpdateCategory)
				adminAPI.DELETE("/categories/:id", api.DeleteCategory)

				adminAPI.GET("/tags", api.GetTags)
				adminAPI.POST("/tags", api.CreateTag)
				adminAPI.PUT("/tags/:id", api.UpdateTag)
				adminAPI.DELETE("/tags/:id", api.DeleteTag)

				adminAPI.GET("/projects", api.GetProjects)
				adminAPI.GET("/projects/:id", api.GetProject)
				adminAPI.POST("/projects", api.CreateProject)
				adminAPI.PUT("/projects/:id", api.UpdateProject)
				adminAPI.DELETE("/projects/:id", api.DeleteProject)
				adminAPI.POST("/projects/:id/images", api.AddProjectImage)
				adminAPI.DELETE("/projects/:id/images/:imageId", api.DeleteProjectImage)
				adminAPI.PUT("/projects/:id/images/reorder", api.ReorderProjectImages)

				adminAPI.GET("/technologies", api.GetTechnologies)
				adminAPI.POST("/technologies", api.CreateTechnology)
				adminAPI.PUT("/technologies/:id", api.UpdateTechnology)
				adminAPI.DELETE("/technologies/:id", api.DeleteTechnology)

				adminAPI.GET("/skills", api.GetSkills)
				adminAPI.POST("/skills", api.CreateSkill)
				adminAPI.PUT("/skills/:id", api.UpdateSkill)
				adminAPI.DELETE("/skills/:id", api.DeleteSkill)
				adminAPI.PUT("/skills/reorder", api.ReorderSkills)

				adminAPI.GET("/experience", api.GetExperience)
				adminAPI.POST("/experience", api.CreateExperience)
				adminAPI.PUT("/experience/:id", api.UpdateExperience)
				adminAPI.DELETE("/experience/:id", api.DeleteExperience)
				adminAPI.PUT("/experience/reorder", api.ReorderExperience)

				adminAPI.GET("/education", api.GetEducation)
				adminAPI.POST("/education", api.CreateEducation)
				adminAPI.PUT("/education/:id", api.UpdateEducation)
				adminAPI.DELETE("/education/:id", api.DeleteEducation)
				adminAPI.PUT("/education/reorder", api.ReorderEducation)

				adminAPI.GET("/testimonials", api.GetTestimonials)
				adminAPI.POST("/testimonials", api.CreateTestimonial)
				adminAPI.PUT("/testimonials/:id", api.UpdateTestimonial)
				adminAPI.DELETE("/testimonials/:id", api.DeleteTestimonial)
				adminAPI.PUT("/testimonials/reorder", api.ReorderTestimonials)

				adminAPI.GET("/partners", api.GetPartners)
				adminAPI.POST("/partners", api.CreatePartner)
				adminAPI.PUT("/partners/:id", api.UpdatePartner)
				adminAPI.DELETE("/partners/:id", api.DeletePartner)
				adminAPI.PUT("/partners/reorder", api.ReorderPartners)

				adminAPI.GET("/services", api.GetServices)
				adminAPI.POST("/services", api.CreateService)
				adminAPI.PUT("/services/:id", api.UpdateService)
				adminAPI.DELETE("/services/:id", api.DeleteService)
				adminAPI.PUT("/services/reorder", api.ReorderServices)

				adminAPI.GET("/settings", api.GetSettings)
				adminAPI.PUT("/settings", api.UpdateSettings)

				adminAPI.GET("/cv", api.GetCvUploads)
				adminAPI.POST("/cv", api.UploadCv)
				adminAPI.PUT("/cv/:id/activate", api.ActivateCv)
				adminAPI.DELETE("/cv/:id", api.DeleteCv)

				adminAPI.GET("/messages", api.GetContactSubmissions)
				adminAPI.PUT("/messages/:id/read", api.MarkContactSubmission)
				adminAPI.DELETE("/messages/:id", api.DeleteContactSubmission)
			}
		}
	}

	return r
}
