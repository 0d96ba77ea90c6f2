package controllers

import (
	"charcha-manch-be/config"
	"charcha-manch-be/dataset"
	"charcha-manch-be/forum"
	"charcha-manch-be/nagrik"
	"charcha-manch-be/profile"
	"charcha-manch-be/survey"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	userCollection       *mongo.Collection = config.GetCollection("users")
	counterCollection    *mongo.Collection = config.GetCollection("counters")
	scoreCollection      *mongo.Collection = config.GetCollection("constituency_scores")
	submissionCollection *mongo.Collection = config.GetCollection("questionnaire_submissions")
	postCollection       *mongo.Collection = config.GetCollection("discussion_posts")
	commentCollection    *mongo.Collection = config.GetCollection("comments")
	replyCollection      *mongo.Collection = config.GetCollection("replies")
	reactionCollection   *mongo.Collection = config.GetCollection("reactions")
	blogCollection       *mongo.Collection = config.GetCollection("blogs")
)

var (
	allocator       = nagrik.NewAllocator(nagrik.NewMongoSequencer(counterCollection, userCollection))
	submissionStore = survey.NewMongoSubmissionStore(submissionCollection)
	scoreStore      = survey.NewMongoScoreStore(scoreCollection)
	ledger          = survey.NewLedger(submissionStore, scoreStore)

	profileStore = profile.NewMongoStore(userCollection)
	binder       = profile.NewBinder(profileStore)

	postReactor    = forum.NewReactor("post", forum.NewMongoReactionStore(reactionCollection), forum.NewMongoCounterStore(postCollection))
	commentReactor = forum.NewReactor("comment", forum.NewMongoReactionStore(reactionCollection), forum.NewMongoCounterStore(commentCollection))

	candidates *dataset.Store
)

// InitDataset hands the loaded candidates dataset to the controllers; main
// calls this once at startup
func InitDataset(store *dataset.Store) {
	candidates = store
}

// requestLocale reads the display language from the lang query parameter,
// defaulting to Hindi
func requestLocale(c *gin.Context) nagrik.Locale {
	return nagrik.ParseLocale(c.Query("lang"))
}
