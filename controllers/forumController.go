package controllers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"charcha-manch-be/forum"
	"charcha-manch-be/models"
	"charcha-manch-be/nagrik"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// sanitizer strips markup from user-generated forum content
var sanitizer = bluemonday.UGCPolicy()

func forumUser(c *gin.Context) (primitive.ObjectID, *models.User, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return primitive.NilObjectID, nil, false
	}

	objectID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return primitive.NilObjectID, nil, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := userCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&user); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return primitive.NilObjectID, nil, false
	}

	return objectID, &user, true
}

// CreatePost creates a discussion post. The author's nagrik number is
// denormalized onto the post; responses render it per request locale.
func CreatePost(c *gin.Context) {
	userID, user, ok := forumUser(c)
	if !ok {
		return
	}

	var input struct {
		Title          string `json:"title" binding:"required,max=200"`
		Body           string `json:"body" binding:"required,max=5000"`
		ConstituencyID int    `json:"constituencyId,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.ConstituencyID != 0 && !candidates.Valid(input.ConstituencyID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown constituency"})
		return
	}

	post := models.DiscussionPost{
		ID:             primitive.NewObjectID(),
		UserID:         userID,
		AuthorNagrik:   user.NagrikNumber,
		ConstituencyID: input.ConstituencyID,
		Title:          sanitizer.Sanitize(input.Title),
		Body:           sanitizer.Sanitize(input.Body),
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := postCollection.InsertOne(ctx, post); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, postResponse(&post, requestLocale(c)))
}

func postResponse(post *models.DiscussionPost, locale nagrik.Locale) gin.H {
	return gin.H{
		"id":             post.ID,
		"author":         nagrik.Format(post.AuthorNagrik, locale),
		"constituencyId": post.ConstituencyID,
		"title":          post.Title,
		"body":           post.Body,
		"likesCount":     post.LikesCount,
		"dislikesCount":  post.DislikesCount,
		"commentsCount":  post.CommentsCount,
		"createdAt":      post.CreatedAt,
	}
}

// ListPosts returns posts newest-first with pagination, optionally filtered
// by constituency
func ListPosts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	filter := bson.M{}
	if cid, err := strconv.Atoi(c.Query("constituencyId")); err == nil && cid > 0 {
		filter["constituencyId"] = cid
	}

	totalCount, err := postCollection.CountDocuments(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count posts"})
		return
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := postCollection.Find(ctx, filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve posts"})
		return
	}
	defer cursor.Close(ctx)

	var posts []models.DiscussionPost
	if err := cursor.All(ctx, &posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode posts"})
		return
	}

	locale := requestLocale(c)
	out := make([]gin.H, 0, len(posts))
	for i := range posts {
		out = append(out, postResponse(&posts[i], locale))
	}

	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))
	c.JSON(http.StatusOK, gin.H{
		"posts":       out,
		"totalPosts":  totalCount,
		"totalPages":  totalPages,
		"currentPage": page,
	})
}

// GetPost returns one post with its comments and replies, all author lines
// rendered as nagrik labels
func GetPost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post models.DiscussionPost
	err = postCollection.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve post"})
		return
	}

	locale := requestLocale(c)

	commentCursor, err := commentCollection.Find(ctx,
		bson.M{"postId": postID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}
	defer commentCursor.Close(ctx)

	var comments []models.Comment
	if err := commentCursor.All(ctx, &comments); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode comments"})
		return
	}

	commentsOut := make([]gin.H, 0, len(comments))
	for _, comment := range comments {
		replyCursor, err := replyCollection.Find(ctx,
			bson.M{"commentId": comment.ID},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve replies"})
			return
		}

		var replies []models.Reply
		if err := replyCursor.All(ctx, &replies); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode replies"})
			return
		}

		repliesOut := make([]gin.H, 0, len(replies))
		for _, reply := range replies {
			repliesOut = append(repliesOut, gin.H{
				"id":        reply.ID,
				"author":    nagrik.Format(reply.AuthorNagrik, locale),
				"body":      reply.Body,
				"createdAt": reply.CreatedAt,
			})
		}

		commentsOut = append(commentsOut, gin.H{
			"id":            comment.ID,
			"author":        nagrik.Format(comment.AuthorNagrik, locale),
			"body":          comment.Body,
			"likesCount":    comment.LikesCount,
			"dislikesCount": comment.DislikesCount,
			"replies":       repliesOut,
			"createdAt":     comment.CreatedAt,
		})
	}

	response := postResponse(&post, locale)
	response["comments"] = commentsOut
	c.JSON(http.StatusOK, response)
}

// CreateComment adds a comment to a post and bumps the post's comment counter
func CreateComment(c *gin.Context) {
	userID, user, ok := forumUser(c)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var input struct {
		Body string `json:"body" binding:"required,max=2000"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := postCollection.CountDocuments(ctx, bson.M{"_id": postID})
	if err != nil || count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	comment := models.Comment{
		ID:           primitive.NewObjectID(),
		PostID:       postID,
		UserID:       userID,
		AuthorNagrik: user.NagrikNumber,
		Body:         sanitizer.Sanitize(input.Body),
		CreatedAt:    time.Now(),
	}

	if _, err := commentCollection.InsertOne(ctx, comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	if _, err := postCollection.UpdateOne(ctx, bson.M{"_id": postID},
		bson.M{"$inc": bson.M{"commentsCount": 1}}); err != nil {
		log.Println("Failed to bump comment counter:", err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        comment.ID,
		"author":    nagrik.Format(comment.AuthorNagrik, requestLocale(c)),
		"body":      comment.Body,
		"createdAt": comment.CreatedAt,
	})
}

// CreateReply adds a reply to a comment
func CreateReply(c *gin.Context) {
	userID, user, ok := forumUser(c)
	if !ok {
		return
	}

	commentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	var input struct {
		Body string `json:"body" binding:"required,max=2000"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := commentCollection.CountDocuments(ctx, bson.M{"_id": commentID})
	if err != nil || count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	reply := models.Reply{
		ID:           primitive.NewObjectID(),
		CommentID:    commentID,
		UserID:       userID,
		AuthorNagrik: user.NagrikNumber,
		Body:         sanitizer.Sanitize(input.Body),
		CreatedAt:    time.Now(),
	}

	if _, err := replyCollection.InsertOne(ctx, reply); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reply"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        reply.ID,
		"author":    nagrik.Format(reply.AuthorNagrik, requestLocale(c)),
		"body":      reply.Body,
		"createdAt": reply.CreatedAt,
	})
}

// ReactToPost toggles a like or dislike on a post
func ReactToPost(c *gin.Context) {
	handleReaction(c, postReactor, postCollection)
}

// ReactToComment toggles a like or dislike on a comment
func ReactToComment(c *gin.Context) {
	handleReaction(c, commentReactor, commentCollection)
}

// handleReaction binds the request and hands the toggle to the reactor; the
// entity collection is only consulted to 404 unknown ids
func handleReaction(c *gin.Context, reactor *forum.Reactor, entities *mongo.Collection) {
	userID, _, ok := forumUser(c)
	if !ok {
		return
	}

	entityID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entity ID"})
		return
	}

	var input struct {
		Kind string `json:"kind" binding:"required,oneof=like dislike"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	kind := models.ReactionKind(input.Kind)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := entities.CountDocuments(ctx, bson.M{"_id": entityID})
	if err != nil || count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	outcome, err := reactor.React(ctx, entityID, userID, kind)
	if err != nil {
		log.Println("Failed to toggle reaction:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record reaction"})
		return
	}

	switch outcome {
	case forum.Removed:
		c.JSON(http.StatusOK, gin.H{"message": "Reaction removed", "reacted": ""})
	case forum.Switched:
		c.JSON(http.StatusOK, gin.H{"message": "Reaction switched", "reacted": string(kind)})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Reaction recorded", "reacted": string(kind)})
	}
}
