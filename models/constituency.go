package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConstituencyScore is the aggregate record for one constituency. Counters
// only ever move through $inc (votes) or the pipeline update that folds a new
// manifesto score into the running average; admin correction tooling is the
// sole path that may set them directly.
type ConstituencyScore struct {
	ConstituencyID   int     `bson:"constituencyId" json:"constituencyId"`
	SatisfactionYes  int64   `bson:"satisfactionYes" json:"satisfactionYes"`
	SatisfactionNo   int64   `bson:"satisfactionNo" json:"satisfactionNo"`
	RatingCount      int64   `bson:"ratingCount" json:"ratingCount"`
	ManifestoAverage float64 `bson:"manifestoAverage" json:"manifestoAverage"`
}

// EnsureScoreIndex creates a unique index on constituencyId so the
// score-upsert path can never produce two aggregate rows for one constituency.
func EnsureScoreIndex(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "constituencyId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}
