package survey

import (
	"context"

	"charcha-manch-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSubmissionStore implements SubmissionStore on the
// questionnaire_submissions collection. The composite document _id plus the
// unique (userId, constituencyId) index make InsertOne the duplicate check:
// there is no separate read, so a double-click cannot pass the gate twice.
type MongoSubmissionStore struct {
	collection *mongo.Collection
}

func NewMongoSubmissionStore(collection *mongo.Collection) *MongoSubmissionStore {
	return &MongoSubmissionStore{collection: collection}
}

func (s *MongoSubmissionStore) Create(ctx context.Context, sub *models.QuestionnaireSubmission) error {
	_, err := s.collection.InsertOne(ctx, sub)
	if mongo.IsDuplicateKeyError(err) {
		return ErrAlreadyVoted
	}
	return err
}

// Get returns the submission for a pair, or mongo.ErrNoDocuments
func (s *MongoSubmissionStore) Get(ctx context.Context, userID string, constituencyID int) (*models.QuestionnaireSubmission, error) {
	var sub models.QuestionnaireSubmission
	err := s.collection.FindOne(ctx, bson.M{"_id": models.SubmissionID(userID, constituencyID)}).Decode(&sub)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// MongoScoreStore implements ScoreStore on the constituency_scores
// collection with upserted atomic updates.
type MongoScoreStore struct {
	collection *mongo.Collection
}

func NewMongoScoreStore(collection *mongo.Collection) *MongoScoreStore {
	return &MongoScoreStore{collection: collection}
}

func (s *MongoScoreStore) RecordSatisfaction(ctx context.Context, constituencyID int, vote bool) error {
	field := "satisfactionNo"
	if vote {
		field = "satisfactionYes"
	}

	_, err := s.collection.UpdateOne(ctx,
		bson.M{"constituencyId": constituencyID},
		bson.M{"$inc": bson.M{field: 1}},
		options.Update().SetUpsert(true),
	)
	return err
}

// RecordManifestoScore bumps ratingCount and folds the score into
// manifestoAverage in one pipeline update, so the count and the average can
// never drift apart under concurrent submissions. The two $set stages run in
// order: the second sees the already-incremented ratingCount.
func (s *MongoScoreStore) RecordManifestoScore(ctx context.Context, constituencyID int, score float64) error {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"ratingCount": bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$ratingCount", 0}}, 1}},
		}}},
		{{Key: "$set", Value: bson.M{
			"manifestoAverage": bson.M{"$add": bson.A{
				bson.M{"$ifNull": bson.A{"$manifestoAverage", 0}},
				bson.M{"$divide": bson.A{
					bson.M{"$subtract": bson.A{score, bson.M{"$ifNull": bson.A{"$manifestoAverage", 0}}}},
					"$ratingCount",
				}},
			}},
		}}},
	}

	_, err := s.collection.UpdateOne(ctx,
		bson.M{"constituencyId": constituencyID},
		pipeline,
		options.Update().SetUpsert(true),
	)
	return err
}

// GetScore returns the aggregate row for a constituency; a missing row decodes
// as the zero value so constituencies nobody has voted on read as all-zero.
func (s *MongoScoreStore) GetScore(ctx context.Context, constituencyID int) (*models.ConstituencyScore, error) {
	var score models.ConstituencyScore
	err := s.collection.FindOne(ctx, bson.M{"constituencyId": constituencyID}).Decode(&score)
	if err == mongo.ErrNoDocuments {
		return &models.ConstituencyScore{ConstituencyID: constituencyID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &score, nil
}

// CorrectScore overwrites an aggregate row. Admin correction tooling only;
// the normal vote path never decrements.
func (s *MongoScoreStore) CorrectScore(ctx context.Context, score *models.ConstituencyScore) error {
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"constituencyId": score.ConstituencyID},
		bson.M{"$set": score},
		options.Update().SetUpsert(true),
	)
	return err
}
