package handler

import (
	"github.com/shemnduati/personal-portfolio-sub000/internal/service"
	"github.com/shemnduati/personal-portfolio-sub000/internal/storage"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db           *gorm.DB
	store        storage.Storage
	blogs        *service.BlogService
	categories   *service.CategoryService
	tags         *service.TagService
	projects     *service.ProjectService
	technologies *service.TechnologyService
	profile      *service.ProfileService
	siteContent  *service.SiteContentService
	settings     *service.SettingService
	cv           *service.CvService
	contacts     *service.ContactService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, store storage.Storage) *API {
	settingService := service.NewSettingService(db)

	return &API{
		db:           db,
		store:        store,
		blogs:        service.NewBlogService(db, store),
		categories:   service.NewCategoryService(db),
		tags:         service.NewTagService(db),
		projects:     service.NewProjectService(db, store),
		technologies: service.NewTechnologyService(db),
		profile:      service.NewProfileService(db, store),
		siteContent:  service.NewSiteContentService(db, store),
		settings:     settingService,
		cv:           service.NewCvService(db, store, settingService),
		contacts:     service.NewContactService(db),
	}
}
