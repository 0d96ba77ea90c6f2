package routes

import (
	"charcha-manch-be/controllers"
	"charcha-manch-be/middlewares"

	"github.com/gin-gonic/gin"
)

// SurveyRoutes sets up the satisfaction vote and department rating routes
func SurveyRoutes(r *gin.Engine) {
	surveyGroup := r.Group("/api/survey", middlewares.AuthMiddleware())
	{
		surveyGroup.POST("/satisfaction", controllers.SubmitSatisfactionVote)
		surveyGroup.POST("/ratings", controllers.SubmitDepartmentRatings)
		surveyGroup.POST("/questionnaire", controllers.SubmitQuestionnaire)
		surveyGroup.GET("/status", controllers.GetSubmissionStatus)
	}
}
