package handler

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/shemnduati/personal-portfolio-sub000/internal/db"
	"golang.org/x/crypto/bcrypt"
)

// ShowLogin renders the admin login page.
func (a *API) ShowLogin(c *gin.Context) {
	a.renderPage(c, "Auth/Login", nil)
}

// Login verifies credentials and opens an admin session.
func (a *API) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	var user db.User
	if err := a.db.Where("username = ?", username).First(&user).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "invalid username or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		respondError(c, http.StatusUnauthorized, "invalid username or password")
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Set("username", user.Username)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save session")
		return
	}

	c.Redirect(http.StatusFound, "/admin/dashboard")
}

// Logout clears the admin session.
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/admin/login")
}

// AuthRequired gates admin routes behind the session.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if session.Get("user_id") == nil {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ShowDashboard renders the admin landing page with entity counts.
func (a *API) ShowDashboard(c *gin.Context) {
	session := sessions.Default(c)

	var blogCount, projectCount, unreadCount int64
	a.db.Model(&db.Blog{}).Count(&blogCount)
	a.db.Model(&db.Project{}).Count(&projectCount)
	a.db.Model(&db.ContactSubmission{}).Where("is_read = ?", false).Count(&unreadCount)

	a.renderPage(c, "Admin/Dashboard", gin.H{
		"username":       session.Get("username"),
		"blogCount":      blogCount,
		"projectCount":   projectCount,
		"unreadMessages": unreadCount,
	})
}
