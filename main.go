package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"charcha-manch-be/config"
	"charcha-manch-be/controllers"
	"charcha-manch-be/dataset"
	"charcha-manch-be/models"
	"charcha-manch-be/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db := config.ConnectDB()
	if db == nil {
		log.Fatal("Failed to connect to MongoDB")
	}
	log.Println("MongoDB connection established successfully!")

	config.ConnectRedis()

	if err := models.EnsureUserIndexes(config.GetCollection("users")); err != nil {
		log.Fatalf("Failed to ensure user indexes: %v", err)
	}
	if err := models.EnsureScoreIndex(config.GetCollection("constituency_scores")); err != nil {
		log.Fatalf("Failed to ensure score index: %v", err)
	}
	if err := models.EnsureSubmissionIndex(config.GetCollection("questionnaire_submissions")); err != nil {
		log.Fatalf("Failed to ensure submission index: %v", err)
	}
	if err := models.EnsureReactionIndex(config.GetCollection("reactions")); err != nil {
		log.Fatalf("Failed to ensure reaction index: %v", err)
	}

	candidatesFile := os.Getenv("CANDIDATES_FILE")
	if candidatesFile == "" {
		candidatesFile = "data/candidates.json"
	}
	candidatesEnFile := os.Getenv("CANDIDATES_EN_FILE")
	if candidatesEnFile == "" {
		candidatesEnFile = "data/candidates_en.json"
	}
	candidateStore, err := dataset.Load(candidatesFile, candidatesEnFile)
	if err != nil {
		log.Fatalf("Failed to load candidate dataset: %v", err)
	}
	log.Printf("Loaded %d constituencies", candidateStore.Count())
	controllers.InitDataset(candidateStore)

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		corsConfig.AllowOrigins = strings.Split(origins, ",")
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:5173"}
	}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	routes.AuthRoutes(r)
	routes.ConstituencyRoutes(r)
	routes.SurveyRoutes(r)
	routes.ForumRoutes(r)
	routes.BlogRoutes(r)
	routes.AdminRoutes(r)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
