package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BlogStatus enum
type BlogStatus string

const (
	Draft     BlogStatus = "Draft"
	Published BlogStatus = "Published"
)

// Blog is admin-authored news/blog content shown on the public site
type Blog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Body        string             `bson:"body" json:"body"`
	ImageURL    *string            `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Status      BlogStatus         `bson:"status" json:"status"`
	CreatedBy   primitive.ObjectID `bson:"createdBy" json:"-"`
	PublishedAt *time.Time         `bson:"publishedAt,omitempty" json:"publishedAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
