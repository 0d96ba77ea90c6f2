package routes

import (
	"charcha-manch-be/controllers"
	"charcha-manch-be/middlewares"

	"github.com/gin-gonic/gin"
)

// ForumRoutes sets up the discussion forum routes. Reading is public; writing
// requires auth, and post creation is rate-limited per user.
func ForumRoutes(r *gin.Engine) {
	forum := r.Group("/api/forum")
	{
		forum.GET("/posts", controllers.ListPosts)
		forum.GET("/posts/:id", controllers.GetPost)

		forum.POST("/posts", middlewares.AuthMiddleware(), middlewares.PostRateLimiter(5), controllers.CreatePost)
		forum.POST("/posts/:id/comments", middlewares.AuthMiddleware(), controllers.CreateComment)
		forum.POST("/comments/:id/replies", middlewares.AuthMiddleware(), controllers.CreateReply)
		forum.POST("/posts/:id/react", middlewares.AuthMiddleware(), controllers.ReactToPost)
		forum.POST("/comments/:id/react", middlewares.AuthMiddleware(), controllers.ReactToComment)
	}
}
