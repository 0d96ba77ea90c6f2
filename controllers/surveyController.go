package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"charcha-manch-be/survey"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

func surveyUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return "", false
	}
	return userID.(string), true
}

func surveyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, survey.ErrAlreadyVoted):
		c.JSON(http.StatusConflict, gin.H{"error": "You have already voted for this constituency"})
	case errors.Is(err, survey.ErrInvalidRating):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ratings must be integers between 1 and 5"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record submission"})
	}
}

// SubmitSatisfactionVote records a yes/no tenure vote, once per
// (user, constituency) forever
func SubmitSatisfactionVote(c *gin.Context) {
	userID, ok := surveyUserID(c)
	if !ok {
		return
	}

	var input struct {
		ConstituencyID int   `json:"constituencyId" binding:"required,min=1"`
		Satisfied      *bool `json:"satisfied" binding:"required"`
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

	if err := ledger.SubmitSatisfactionVote(ctx, userID, input.ConstituencyID, *input.Satisfied); err != nil {
		surveyError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Vote recorded"})
}

// SubmitDepartmentRatings records the 1-5 per-department ratings, once per
// (user, constituency) forever
func SubmitDepartmentRatings(c *gin.Context) {
	userID, ok := surveyUserID(c)
	if !ok {
		return
	}

	var input struct {
		ConstituencyID int            `json:"constituencyId" binding:"required,min=1"`
		Ratings        map[string]int `json:"ratings" binding:"required"`
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

	if err := ledger.SubmitDepartmentRatings(ctx, userID, input.ConstituencyID, input.Ratings); err != nil {
		surveyError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Ratings recorded"})
}

// SubmitQuestionnaire records a full survey (vote + ratings) in one
// submission, the way the survey page sends it
func SubmitQuestionnaire(c *gin.Context) {
	userID, ok := surveyUserID(c)
	if !ok {
		return
	}

	var input struct {
		ConstituencyID int            `json:"constituencyId" binding:"required,min=1"`
		Satisfied      *bool          `json:"satisfied" binding:"required"`
		Ratings        map[string]int `json:"ratings" binding:"required"`
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

	if err := ledger.SubmitQuestionnaire(ctx, userID, input.ConstituencyID, *input.Satisfied, input.Ratings); err != nil {
		surveyError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Submission recorded"})
}

// GetSubmissionStatus tells the client whether the user has already submitted
// for a constituency, so the survey UI can disable itself up front
func GetSubmissionStatus(c *gin.Context) {
	userID, ok := surveyUserID(c)
	if !ok {
		return
	}

	var input struct {
		ConstituencyID int `form:"constituencyId" binding:"required,min=1"`
	}
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sub, err := submissionStore.Get(ctx, userID, input.ConstituencyID)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusOK, gin.H{"hasVoted": false})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check submission"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hasVoted":    true,
		"submittedAt": sub.SubmittedAt,
	})
}
