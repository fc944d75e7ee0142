package db

import "gorm.io/gorm"

// Setting is one key/value row backing the typed SiteSettings view. Values
// are strings at rest; only SettingService interprets them.
type Setting struct {
	gorm.Model
	Key   string `gorm:"size:100;uniqueIndex;not null"`
	Value string `gorm:"type:text"`
}

const (
	// SettingKeySiteName is the site display name.
	SettingKeySiteName = "site_name"
	// SettingKeyTagline is the short public strapline.
	SettingKeyTagline = "tagline"
	// SettingKeyGithubURL links the GitHub profile.
	SettingKeyGithubURL = "github_url"
	// SettingKeyLinkedinURL links the LinkedIn profile.
	SettingKeyLinkedinURL = "linkedin_url"
	// SettingKeyTwitterURL links the Twitter/X profile.
	SettingKeyTwitterURL = "twitter_url"
	// SettingKeyContactEmail is the public contact address.
	SettingKeyContactEmail = "contact_email"
	// SettingKeyBlogEnabled toggles the public blog section.
	SettingKeyBlogEnabled = "blog_enabled"
	// SettingKeyPostsPerPage sets the public blog page size.
	SettingKeyPostsPerPage = "posts_per_page"
	// SettingKeyCvPath stores the path of the downloadable CV.
	SettingKeyCvPath = "cv_path"
)
