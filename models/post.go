package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DiscussionPost is a forum post. AuthorNagrik is denormalized from the
// owner's profile at write time; the display label is rendered from it per
// request locale, so no real name ever reaches a response.
type DiscussionPost struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"userId" json:"userId"`
	AuthorNagrik   int64              `bson:"authorNagrik" json:"-"`
	ConstituencyID int                `bson:"constituencyId,omitempty" json:"constituencyId,omitempty"`
	Title          string             `bson:"title" json:"title"`
	Body           string             `bson:"body" json:"body"`
	LikesCount     int64              `bson:"likesCount" json:"likesCount"`
	DislikesCount  int64              `bson:"dislikesCount" json:"dislikesCount"`
	CommentsCount  int64              `bson:"commentsCount" json:"commentsCount"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Comment belongs to a post; Reply belongs to a comment. Both carry the same
// denormalized nagrik number as posts.
type Comment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostID        primitive.ObjectID `bson:"postId" json:"postId"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	AuthorNagrik  int64              `bson:"authorNagrik" json:"-"`
	Body          string             `bson:"body" json:"body"`
	LikesCount    int64              `bson:"likesCount" json:"likesCount"`
	DislikesCount int64              `bson:"dislikesCount" json:"dislikesCount"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

type Reply struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CommentID    primitive.ObjectID `bson:"commentId" json:"commentId"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	AuthorNagrik int64              `bson:"authorNagrik" json:"-"`
	Body         string             `bson:"body" json:"body"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// ReactionKind enum
type ReactionKind string

const (
	Like    ReactionKind = "like"
	Dislike ReactionKind = "dislike"
)

// Reaction records one like XOR one dislike per user per entity. The unique
// compound index on (user, entity) is what keeps the denormalized counters
// honest under double-clicks.
type Reaction struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EntityKind string             `bson:"entityKind" json:"entityKind"` // "post" or "comment"
	Entity     primitive.ObjectID `bson:"entity" json:"entity"`
	User       primitive.ObjectID `bson:"user" json:"user"`
	Kind       ReactionKind       `bson:"kind" json:"kind"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// EnsureReactionIndex creates a unique compound index for (entity, user)
func EnsureReactionIndex(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "entity", Value: 1}, {Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}
