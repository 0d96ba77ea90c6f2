package migrate

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoProfileStore implements ProfileStore on the users collection
type MongoProfileStore struct {
	collection *mongo.Collection
}

func NewMongoProfileStore(collection *mongo.Collection) *MongoProfileStore {
	return &MongoProfileStore{collection: collection}
}

type profileDoc struct {
	ID           interface{} `bson:"_id"`
	NagrikNumber int64       `bson:"nagrikNumber"`
}

// ForEach streams every profile through the cursor at the driver's default
// batch size
func (s *MongoProfileStore) ForEach(ctx context.Context, fn func(Profile) error) error {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc profileDoc
		if err := cursor.Decode(&doc); err != nil {
			return err
		}
		if err := fn(Profile{ID: idToString(doc.ID), NagrikNumber: doc.NagrikNumber}); err != nil {
			return err
		}
	}

	return cursor.Err()
}

// AssignNagrikNumber sets the number only if the profile still has none, so a
// concurrent onboarding write can't be clobbered. The match count tells the
// caller whether the guarded write actually landed.
func (s *MongoProfileStore) AssignNagrikNumber(ctx context.Context, id string, n int64) (bool, error) {
	result, err := s.collection.UpdateOne(ctx,
		bson.M{
			"_id":          objectIDOrString(id),
			"nagrikNumber": bson.M{"$exists": false},
		},
		bson.M{"$set": bson.M{"nagrikNumber": n}},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount == 1, nil
}
