package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/folder-tasks/internal/middleware"
	"github.com/yukikurage/folder-tasks/internal/services"
)

// Services are the business services behind the routes
type Services struct {
	Auth        *services.AuthService
	Tasks       *services.TaskService
	Folders     *services.FolderService
	Preferences *services.PreferenceService
}

// RegisterRoutes mounts every route on r. Session middleware must already be installed.
func RegisterRoutes(r *gin.Engine, svc Services, rowsPerPage int) {
	authHandler := NewAuthHandler(svc.Auth)
	taskHandler := NewTaskHandler(svc.Tasks, svc.Folders, rowsPerPage)
	folderHandler := NewFolderHandler(svc.Folders)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Folder Tasks is running",
		})
	})

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/tasks")
	})

	// Auth routes (public)
	auth := r.Group("/auth")
	{
		auth.GET("/login", authHandler.LoginForm)
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
	}

	// Task routes (protected)
	tasks := r.Group("/tasks")
	tasks.Use(middleware.RequireAuth(), middleware.WithPreferences(svc.Preferences))
	{
		tasks.GET("", taskHandler.Index)
		tasks.POST("", taskHandler.Store)
		tasks.GET("/create", taskHandler.Create)
		tasks.GET("/search", taskHandler.Search)
		tasks.GET("/preferences", taskHandler.Preferences)
		tasks.POST("/preferences", taskHandler.ApplyPreferences)
		tasks.POST("/filters", taskHandler.ApplyFilters)
		tasks.POST("/generate", taskHandler.Generate)

		owned := tasks.Group("/:id", middleware.RequireTaskAccess(svc.Tasks))
		owned.GET("", taskHandler.Show)
		owned.GET("/edit", taskHandler.Edit)
		owned.PUT("", taskHandler.Update)
		owned.PATCH("", taskHandler.Update)
		owned.GET("/delete", taskHandler.Delete)
		owned.DELETE("", taskHandler.Destroy)
	}

	// Folder routes (protected)
	folders := r.Group("/folders")
	folders.Use(middleware.RequireAuth(), middleware.WithPreferences(svc.Preferences))
	{
		folders.GET("", folderHandler.Index)
		folders.POST("", folderHandler.Store)
		folders.POST("/general/open", folderHandler.OpenGeneral)

		owned := folders.Group("/:id", middleware.RequireFolderAccess(svc.Folders))
		owned.PUT("", folderHandler.Update)
		owned.PATCH("", folderHandler.Update)
		owned.DELETE("", folderHandler.Destroy)
		owned.POST("/open", folderHandler.Open)
	}
}
