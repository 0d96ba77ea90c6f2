package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"charcha-manch-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateBlog creates a blog post; Draft unless published explicitly
func CreateBlog(c *gin.Context) {
	userID, _, ok := forumUser(c)
	if !ok {
		return
	}

	var input struct {
		Title    string  `json:"title" binding:"required,max=200"`
		Body     string  `json:"body" binding:"required"`
		ImageURL *string `json:"imageUrl,omitempty"`
		Publish  bool    `json:"publish"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	blog := models.Blog{
		ID:        primitive.NewObjectID(),
		Title:     sanitizer.Sanitize(input.Title),
		Body:      sanitizer.Sanitize(input.Body),
		ImageURL:  input.ImageURL,
		Status:    models.Draft,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.Publish {
		blog.Status = models.Published
		blog.PublishedAt = &now
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := blogCollection.InsertOne(ctx, blog); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create blog"})
		return
	}

	c.JSON(http.StatusCreated, blog)
}

// UpdateBlog edits or publishes a blog post
func UpdateBlog(c *gin.Context) {
	blogID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid blog ID"})
		return
	}

	var input struct {
		Title    *string `json:"title,omitempty"`
		Body     *string `json:"body,omitempty"`
		ImageURL *string `json:"imageUrl,omitempty"`
		Publish  *bool   `json:"publish,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := bson.M{"updatedAt": time.Now()}
	if input.Title != nil {
		update["title"] = sanitizer.Sanitize(*input.Title)
	}
	if input.Body != nil {
		update["body"] = sanitizer.Sanitize(*input.Body)
	}
	if input.ImageURL != nil {
		update["imageUrl"] = input.ImageURL
	}
	if input.Publish != nil {
		if *input.Publish {
			now := time.Now()
			update["status"] = models.Published
			update["publishedAt"] = now
		} else {
			update["status"] = models.Draft
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := blogCollection.UpdateOne(ctx, bson.M{"_id": blogID}, bson.M{"$set": update})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update blog"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Blog not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Blog updated successfully"})
}

// DeleteBlog removes a blog post
func DeleteBlog(c *gin.Context) {
	blogID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid blog ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := blogCollection.DeleteOne(ctx, bson.M{"_id": blogID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete blog"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Blog not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Blog deleted successfully"})
}

// CorrectScore overwrites a constituency's aggregate counters. This is the
// only decrement path in the system; submission markers are never touched, so
// corrected users still cannot vote again.
func CorrectScore(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || !candidates.Valid(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Constituency not found"})
		return
	}

	var input struct {
		SatisfactionYes  *int64   `json:"satisfactionYes" binding:"required,min=0"`
		SatisfactionNo   *int64   `json:"satisfactionNo" binding:"required,min=0"`
		RatingCount      *int64   `json:"ratingCount" binding:"required,min=0"`
		ManifestoAverage *float64 `json:"manifestoAverage" binding:"required,min=0,max=5"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	score := &models.ConstituencyScore{
		ConstituencyID:   id,
		SatisfactionYes:  *input.SatisfactionYes,
		SatisfactionNo:   *input.SatisfactionNo,
		RatingCount:      *input.RatingCount,
		ManifestoAverage: *input.ManifestoAverage,
	}
	if err := scoreStore.CorrectScore(ctx, score); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to correct score"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Score corrected", "score": score})
}

// DeleteUser removes a profile. Admin-initiated deletion is the only path
// that removes a profile; the nagrik number is retired with it, never reused.
func DeleteUser(c *gin.Context) {
	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := userCollection.DeleteOne(ctx, bson.M{"_id": targetID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// DeletePost removes a forum post with its comments, replies, and reactions
func DeletePost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := postCollection.DeleteOne(ctx, bson.M{"_id": postID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	cursor, err := commentCollection.Find(ctx, bson.M{"postId": postID})
	if err == nil {
		var comments []models.Comment
		if err := cursor.All(ctx, &comments); err == nil {
			for _, comment := range comments {
				_, _ = replyCollection.DeleteMany(ctx, bson.M{"commentId": comment.ID})
				_, _ = reactionCollection.DeleteMany(ctx, bson.M{"entity": comment.ID})
			}
		}
	}
	_, _ = commentCollection.DeleteMany(ctx, bson.M{"postId": postID})
	_, _ = reactionCollection.DeleteMany(ctx, bson.M{"entity": postID})

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// MigrationStatus reports the backfill health of the user base: how many
// profiles still miss a nagrik number. Counts only, no PII.
func MigrationStatus(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	total, err := userCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"})
		return
	}

	missing, err := userCollection.CountDocuments(ctx, bson.M{
		"nagrikNumber": bson.M{"$exists": false},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalProfiles":   total,
		"missingNumber":   missing,
		"withNumber":      total - missing,
		"backfillPending": missing > 0,
	})
}
