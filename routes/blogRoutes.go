package routes

import (
	"charcha-manch-be/controllers"

	"github.com/gin-gonic/gin"
)

// BlogRoutes sets up the public blog/news routes
func BlogRoutes(r *gin.Engine) {
	blogs := r.Group("/api/blogs")
	{
		blogs.GET("", controllers.ListBlogs)
		blogs.GET("/:id", controllers.GetBlog)
	}
}
