package auth

import (
	"net/http"

	"github.com/annalapradeBU/cafe-passport/models"

	"github.com/gin-gonic/gin"
)

// Profile is authenticated and posseses the required permissions
type HandlerFunc func(c *gin.Context, profile *models.Profile)

type Permission uint8

const (
	PermissionStaff Permission = iota + 1
)

// Router is a wrapper class that adds auth checks + Profile pre-loading
type Router struct {
	Base *gin.Engine
}

func hasPermissions(profile *models.Profile, required []Permission) bool {
	for _, p := range required {
		if p == PermissionStaff && !profile.User.IsStaff {
			return false
		}
	}
	return true
}

func (cr *Router) baseExec(c *gin.Context, handler HandlerFunc, required []Permission) {
	session := LoadSession(c)
	profile := session.Profile()
	if profile.ID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access denied"})
		return
	}
	if !hasPermissions(&profile, required) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}
	handler(c, &profile)
}

func (cr *Router) POST(path string, handler HandlerFunc, required ...Permission) {
	cr.Base.POST(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}

func (cr *Router) GET(path string, handler HandlerFunc, required ...Permission) {
	cr.Base.GET(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}

func (cr *Router) PUT(path string, handler HandlerFunc, required ...Permission) {
	cr.Base.PUT(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}
