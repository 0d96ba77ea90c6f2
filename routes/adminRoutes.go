package routes

import (
	"charcha-manch-be/controllers"
	"charcha-manch-be/middlewares"

	"github.com/gin-gonic/gin"
)

// AdminRoutes sets up the admin panel routes
func AdminRoutes(r *gin.Engine) {
	admin := r.Group("/api/admin", middlewares.AuthMiddleware(), middlewares.AdminMiddleware())
	{
		admin.POST("/blogs", controllers.CreateBlog)
		admin.PUT("/blogs/:id", controllers.UpdateBlog)
		admin.DELETE("/blogs/:id", controllers.DeleteBlog)

		admin.PUT("/scores/:id", controllers.CorrectScore)
		admin.DELETE("/users/:id", controllers.DeleteUser)
		admin.DELETE("/posts/:id", controllers.DeletePost)
		admin.GET("/migration-status", controllers.MigrationStatus)
	}
}
