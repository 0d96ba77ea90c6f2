package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// QuestionnaireSubmission is the idempotency record for a user's survey
// interaction with one constituency. Its _id is the composite key, so the
// insert itself is the duplicate check. There is no update path: a submission
// is permanent.
type QuestionnaireSubmission struct {
	ID                string         `bson:"_id" json:"id"`
	UserID            string         `bson:"userId" json:"userId"`
	ConstituencyID    int            `bson:"constituencyId" json:"constituencyId"`
	SatisfactionVote  *bool          `bson:"satisfactionVote,omitempty" json:"satisfactionVote,omitempty"`
	DepartmentRatings map[string]int `bson:"departmentRatings,omitempty" json:"departmentRatings,omitempty"`
	ManifestoScore    float64        `bson:"manifestoScore,omitempty" json:"manifestoScore,omitempty"`
	SubmittedAt       time.Time      `bson:"submittedAt" json:"submittedAt"`
}

// SubmissionID builds the composite document ID for a (user, constituency) pair.
func SubmissionID(userID string, constituencyID int) string {
	return fmt.Sprintf("%s:%d", userID, constituencyID)
}

// EnsureSubmissionIndex creates a unique compound index for (userId, constituencyId)
func EnsureSubmissionIndex(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "constituencyId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}
