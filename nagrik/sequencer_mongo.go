package nagrik

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const counterID = "nagrik_number"

// MongoSequencer implements Sequencer on a single counter document holding
// the last issued nagrik number. Next is a findOneAndUpdate $inc, so two
// concurrent onboarding flows can never read the same value — this replaces
// the old "query max, write max+1" pattern that raced.
type MongoSequencer struct {
	counters *mongo.Collection
	users    *mongo.Collection
}

func NewMongoSequencer(counters, users *mongo.Collection) *MongoSequencer {
	return &MongoSequencer{counters: counters, users: users}
}

type counterDoc struct {
	ID    string `bson:"_id"`
	Value int64  `bson:"value"`
}

// Next atomically increments and returns the counter. If the counter turns
// out to be unseeded (fresh database), it is seeded and the increment retried
// once; the incremented-but-below-floor value is simply abandoned because
// $max seeding jumps past it.
func (s *MongoSequencer) Next(ctx context.Context) (int64, error) {
	n, err := s.inc(ctx)
	if err != nil {
		return 0, err
	}
	if n >= Floor {
		return n, nil
	}

	if err := s.Seed(ctx); err != nil {
		return 0, err
	}
	return s.inc(ctx)
}

func (s *MongoSequencer) inc(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc counterDoc
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": counterID},
		bson.M{"$inc": bson.M{"value": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, err
	}

	return doc.Value, nil
}

// Seed raises the counter to at least Floor-1, and to at least the highest
// nagrikNumber already assigned to any profile. Uses $max so concurrent seeds
// can only move the counter forward, and pre-existing numbers (legacy data,
// random-fallback assignments) are never re-issued.
func (s *MongoSequencer) Seed(ctx context.Context) error {
	seed := int64(Floor - 1)

	if s.users != nil {
		opts := options.FindOne().
			SetSort(bson.D{{Key: "nagrikNumber", Value: -1}}).
			SetProjection(bson.M{"nagrikNumber": 1})

		var top struct {
			NagrikNumber int64 `bson:"nagrikNumber"`
		}
		err := s.users.FindOne(ctx, bson.M{"nagrikNumber": bson.M{"$gte": Floor}}, opts).Decode(&top)
		if err == nil && top.NagrikNumber > seed {
			seed = top.NagrikNumber
		} else if err != nil && err != mongo.ErrNoDocuments {
			return err
		}
	}

	_, err := s.counters.UpdateOne(ctx,
		bson.M{"_id": counterID},
		bson.M{"$max": bson.M{"value": seed}},
		options.Update().SetUpsert(true),
	)
	return err
}
