package routes

import (
	"charcha-manch-be/controllers"
	"charcha-manch-be/middlewares"

	"github.com/gin-gonic/gin"
)

// ConstituencyRoutes sets up the constituency browsing routes
func ConstituencyRoutes(r *gin.Engine) {
	constituency := r.Group("/api/constituency")
	{
		constituency.GET("", controllers.ListConstituencies)
		constituency.PUT("/mine", middlewares.AuthMiddleware(), controllers.SetMyConstituency)
		constituency.GET("/:id", controllers.GetConstituency)
	}
}
