package router

import (
	"inkwell/internal/handlers"
	"inkwell/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Configure wires templates, middleware and routes onto an engine. The
// sessions middleware must already be installed.
func Configure(r *gin.Engine, templatesDir string) {
	r.HTMLRender = LoadTemplates(templatesDir)
	r.Use(gin.CustomRecovery(handlers.ServerError))
	r.Use(middleware.LoadUser())
	RegisterRoutes(r)
}

func RegisterRoutes(r *gin.Engine) {
	authHandler := handlers.NewAuthHandler()
	postHandler := handlers.NewPostHandler()
	profileHandler := handlers.NewProfileHandler()

	// Public routes
	r.GET("/", postHandler.Index)
	r.GET("/group/:slug", postHandler.GroupPosts)
	r.GET("/profile/:username", profileHandler.Profile)
	r.GET("/post/:username/:post_id", postHandler.Detail)

	r.GET("/signup", authHandler.ShowRegister)
	r.POST("/signup", authHandler.Register)
	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)

	// Protected routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/new", postHandler.ShowNew)
		authorized.POST("/new", postHandler.New)
		authorized.GET("/follow", profileHandler.FollowIndex)

		authorized.POST("/post/:username/:post_id/comment", postHandler.AddComment)
		authorized.GET("/post/:username/:post_id/edit", postHandler.ShowEdit)
		authorized.POST("/post/:username/:post_id/edit", postHandler.Edit)

		authorized.GET("/profile/:username/follow", profileHandler.Follow)
		authorized.GET("/profile/:username/unfollow", profileHandler.Unfollow)
	}

	r.NoRoute(handlers.NotFound)
}
