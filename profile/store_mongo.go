package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"charcha-manch-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStore backs both the registrar and the binder with the users
// collection. The unique indexes from models.EnsureUserIndexes are what make
// Insert conflict-aware, and the guarded update is what makes the constituency
// binding one-shot.
type MongoStore struct {
	users *mongo.Collection
}

func NewMongoStore(users *mongo.Collection) *MongoStore {
	return &MongoStore{users: users}
}

func (s *MongoStore) Insert(ctx context.Context, user *models.User) error {
	_, err := s.users.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		// the driver exposes the violated index only through the message
		if strings.Contains(err.Error(), "nagrikNumber") {
			return ErrNagrikCollision
		}
		return ErrEmailTaken
	}
	return err
}

func (s *MongoStore) SetConstituencyIfUnset(ctx context.Context, userID primitive.ObjectID, constituencyID int) (bool, error) {
	filter := bson.M{
		"_id":            userID,
		"constituencyId": bson.M{"$exists": false},
	}
	update := bson.M{"$set": bson.M{
		"constituencyId": constituencyID,
		"updatedAt":      time.Now(),
	}}

	result, err := s.users.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.MatchedCount == 1, nil
}

func (s *MongoStore) GetConstituency(ctx context.Context, userID primitive.ObjectID) (int, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, ErrProfileNotFound
	}
	if err != nil {
		return 0, err
	}
	return user.ConstituencyID, nil
}
