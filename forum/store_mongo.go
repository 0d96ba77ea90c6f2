package forum

import (
	"context"

	"charcha-manch-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoReactionStore keeps reaction records in the reactions collection. The
// unique (entity, user) index from models.EnsureReactionIndex makes Create
// atomic: a duplicate insert surfaces as ErrDuplicateReaction.
type MongoReactionStore struct {
	reactions *mongo.Collection
}

func NewMongoReactionStore(reactions *mongo.Collection) *MongoReactionStore {
	return &MongoReactionStore{reactions: reactions}
}

func (s *MongoReactionStore) Create(ctx context.Context, r *models.Reaction) error {
	_, err := s.reactions.InsertOne(ctx, r)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateReaction
	}
	return err
}

func (s *MongoReactionStore) Get(ctx context.Context, entity, user primitive.ObjectID) (*models.Reaction, error) {
	var reaction models.Reaction
	err := s.reactions.FindOne(ctx, bson.M{"entity": entity, "user": user}).Decode(&reaction)
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (s *MongoReactionStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.reactions.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s *MongoReactionStore) SetKind(ctx context.Context, id primitive.ObjectID, kind models.ReactionKind) error {
	_, err := s.reactions.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"kind": kind}})
	return err
}

// MongoCounterStore adjusts likesCount/dislikesCount on a post or comment
// document
type MongoCounterStore struct {
	entities *mongo.Collection
}

func NewMongoCounterStore(entities *mongo.Collection) *MongoCounterStore {
	return &MongoCounterStore{entities: entities}
}

func (s *MongoCounterStore) AdjustReactionCounts(ctx context.Context, entity primitive.ObjectID, likes, dislikes int64) error {
	inc := bson.M{}
	if likes != 0 {
		inc["likesCount"] = likes
	}
	if dislikes != 0 {
		inc["dislikesCount"] = dislikes
	}
	if len(inc) == 0 {
		return nil
	}
	_, err := s.entities.UpdateOne(ctx, bson.M{"_id": entity}, bson.M{"$inc": inc})
	return err
}
