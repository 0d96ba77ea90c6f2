package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"charcha-manch-be/profile"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListConstituencies returns the static candidate dataset in the requested
// locale, IDs being 1 + array index
func ListConstituencies(c *gin.Context) {
	locale := requestLocale(c)

	list := candidates.All(locale)
	out := make([]gin.H, 0, len(list))
	for i, cand := range list {
		out = append(out, gin.H{
			"constituencyId": i + 1,
			"areaName":       cand.AreaName,
			"candidateName":  cand.CandidateName,
			"party":          cand.Party,
			"district":       cand.District,
		})
	}

	c.JSON(http.StatusOK, gin.H{"constituencies": out, "total": len(out)})
}

// GetConstituency returns one constituency's candidate data together with its
// aggregate satisfaction counters and manifesto average
func GetConstituency(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || !candidates.Valid(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Constituency not found"})
		return
	}

	cand, _ := candidates.Get(id, requestLocale(c))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	score, err := scoreStore.GetScore(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve scores"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"constituencyId":   id,
		"areaName":         cand.AreaName,
		"candidateName":    cand.CandidateName,
		"party":            cand.Party,
		"district":         cand.District,
		"imageUrl":         cand.ImageURL,
		"satisfactionYes":  score.SatisfactionYes,
		"satisfactionNo":   score.SatisfactionNo,
		"ratingCount":      score.RatingCount,
		"manifestoAverage": score.ManifestoAverage,
	})
}

// SetMyConstituency binds the authenticated user to a constituency. The
// binding is one-shot: once set it cannot be changed.
func SetMyConstituency(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	objectID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var input struct {
		ConstituencyID int `json:"constituencyId" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !candidates.Valid(input.ConstituencyID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown constituency"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	bound, err := binder.Bind(ctx, objectID, input.ConstituencyID)
	switch {
	case errors.Is(err, profile.ErrConstituencyAlreadySet):
		c.JSON(http.StatusConflict, gin.H{
			"error":          "Constituency already set and cannot be changed",
			"constituencyId": bound,
		})
	case errors.Is(err, profile.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set constituency"})
	default:
		c.JSON(http.StatusOK, gin.H{
			"message":        "Constituency set successfully",
			"constituencyId": bound,
		})
	}
}
