package handlers

import (
	"net/http"

	"inkwell/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	// Always set, so render data shared through the page cache never keeps
	// another request's user.
	if user, exists := c.Get(middleware.CheckUserKey); exists {
		obj["CurrentUser"] = user
	} else {
		obj["CurrentUser"] = nil
	}
	obj["CurrentPath"] = c.Request.URL.Path
	if _, ok := obj["Active"]; !ok {
		obj["Active"] = ""
	}

	c.HTML(code, name, obj)
}

// RenderNotFound renders the 404 page.
func RenderNotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Page not found"
	}
	Render(c, http.StatusNotFound, "error.html", gin.H{
		"Title":  "Not found",
		"Status": http.StatusNotFound,
		"Error":  message,
	})
}

// RenderServerError renders the 500 page.
func RenderServerError(c *gin.Context) {
	Render(c, http.StatusInternalServerError, "error.html", gin.H{
		"Title":  "Server error",
		"Status": http.StatusInternalServerError,
		"Error":  "Something went wrong on our side",
	})
}

// NotFound handles unmatched routes.
func NotFound(c *gin.Context) {
	RenderNotFound(c, "")
}

// ServerError maps recovered panics to the 500 page.
func ServerError(c *gin.Context, _ any) {
	RenderServerError(c)
	c.Abort()
}
