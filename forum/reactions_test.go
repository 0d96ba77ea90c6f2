package forum

import (
	"context"
	"sync"
	"testing"

	"charcha-manch-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type reactionKey struct {
	entity primitive.ObjectID
	user   primitive.ObjectID
}

// memoryReactionStore mirrors the Mongo store's create-if-absent semantics
// under the unique (entity, user) index
type memoryReactionStore struct {
	mu    sync.Mutex
	byKey map[reactionKey]*models.Reaction
	byID  map[primitive.ObjectID]*models.Reaction
}

func newMemoryReactionStore() *memoryReactionStore {
	return &memoryReactionStore{
		byKey: make(map[reactionKey]*models.Reaction),
		byID:  make(map[primitive.ObjectID]*models.Reaction),
	}
}

func (s *memoryReactionStore) Create(ctx context.Context, r *models.Reaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := reactionKey{entity: r.Entity, user: r.User}
	if _, ok := s.byKey[key]; ok {
		return ErrDuplicateReaction
	}
	s.byKey[key] = r
	s.byID[r.ID] = r
	return nil
}

func (s *memoryReactionStore) Get(ctx context.Context, entity, user primitive.ObjectID) (*models.Reaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byKey[reactionKey{entity: entity, user: user}]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	stored := *r
	return &stored, nil
}

func (s *memoryReactionStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return nil
	}
	delete(s.byKey, reactionKey{entity: r.Entity, user: r.User})
	delete(s.byID, id)
	return nil
}

func (s *memoryReactionStore) SetKind(ctx context.Context, id primitive.ObjectID, kind models.ReactionKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.byID[id]; ok {
		r.Kind = kind
	}
	return nil
}

type memoryCounterStore struct {
	mu       sync.Mutex
	likes    map[primitive.ObjectID]int64
	dislikes map[primitive.ObjectID]int64
}

func newMemoryCounterStore() *memoryCounterStore {
	return &memoryCounterStore{
		likes:    make(map[primitive.ObjectID]int64),
		dislikes: make(map[primitive.ObjectID]int64),
	}
}

func (s *memoryCounterStore) AdjustReactionCounts(ctx context.Context, entity primitive.ObjectID, likes, dislikes int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.likes[entity] += likes
	s.dislikes[entity] += dislikes
	return nil
}

func newTestReactor() (*Reactor, *memoryReactionStore, *memoryCounterStore) {
	reactions := newMemoryReactionStore()
	counters := newMemoryCounterStore()
	return NewReactor("post", reactions, counters), reactions, counters
}

func TestReactRecordsNewReaction(t *testing.T) {
	reactor, reactions, counters := newTestReactor()
	ctx := context.Background()
	post := primitive.NewObjectID()
	user := primitive.NewObjectID()

	outcome, err := reactor.React(ctx, post, user, models.Like)
	require.NoError(t, err)
	assert.Equal(t, Recorded, outcome)

	assert.Equal(t, int64(1), counters.likes[post])
	assert.Equal(t, int64(0), counters.dislikes[post])
	assert.Len(t, reactions.byKey, 1)
}

func TestReactSameKindTogglesOff(t *testing.T) {
	reactor, reactions, counters := newTestReactor()
	ctx := context.Background()
	post := primitive.NewObjectID()
	user := primitive.NewObjectID()

	_, err := reactor.React(ctx, post, user, models.Like)
	require.NoError(t, err)

	outcome, err := reactor.React(ctx, post, user, models.Like)
	require.NoError(t, err)
	assert.Equal(t, Removed, outcome)

	// a double-click nets out to zero, never two
	assert.Equal(t, int64(0), counters.likes[post])
	assert.Empty(t, reactions.byKey)
}

func TestReactOtherKindSwitches(t *testing.T) {
	reactor, reactions, counters := newTestReactor()
	ctx := context.Background()
	post := primitive.NewObjectID()
	user := primitive.NewObjectID()

	_, err := reactor.React(ctx, post, user, models.Like)
	require.NoError(t, err)

	outcome, err := reactor.React(ctx, post, user, models.Dislike)
	require.NoError(t, err)
	assert.Equal(t, Switched, outcome)

	assert.Equal(t, int64(0), counters.likes[post])
	assert.Equal(t, int64(1), counters.dislikes[post])

	// still exactly one record, now a dislike
	require.Len(t, reactions.byKey, 1)
	stored, err := reactions.Get(ctx, post, user)
	require.NoError(t, err)
	assert.Equal(t, models.Dislike, stored.Kind)
}

func TestReactSwitchBackRestoresCounts(t *testing.T) {
	reactor, _, counters := newTestReactor()
	ctx := context.Background()
	post := primitive.NewObjectID()
	user := primitive.NewObjectID()

	for _, kind := range []models.ReactionKind{models.Like, models.Dislike, models.Like} {
		_, err := reactor.React(ctx, post, user, kind)
		require.NoError(t, err)
	}

	assert.Equal(t, int64(1), counters.likes[post])
	assert.Equal(t, int64(0), counters.dislikes[post])
}

func TestReactUsersAndEntitiesIndependent(t *testing.T) {
	reactor, _, counters := newTestReactor()
	ctx := context.Background()
	postA := primitive.NewObjectID()
	postB := primitive.NewObjectID()
	userA := primitive.NewObjectID()
	userB := primitive.NewObjectID()

	_, err := reactor.React(ctx, postA, userA, models.Like)
	require.NoError(t, err)
	_, err = reactor.React(ctx, postA, userB, models.Dislike)
	require.NoError(t, err)
	_, err = reactor.React(ctx, postB, userA, models.Like)
	require.NoError(t, err)

	assert.Equal(t, int64(1), counters.likes[postA])
	assert.Equal(t, int64(1), counters.dislikes[postA])
	assert.Equal(t, int64(1), counters.likes[postB])
	assert.Equal(t, int64(0), counters.dislikes[postB])
}

func TestReactCountersMatchRecords(t *testing.T) {
	reactor, reactions, counters := newTestReactor()
	ctx := context.Background()
	post := primitive.NewObjectID()

	// many users, each landing on exactly one reaction
	kinds := []models.ReactionKind{models.Like, models.Dislike}
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(kind models.ReactionKind) {
			defer wg.Done()
			user := primitive.NewObjectID()
			_, err := reactor.React(ctx, post, user, kind)
			assert.NoError(t, err)
		}(kinds[i%2])
	}
	wg.Wait()

	var likes, dislikes int64
	for _, r := range reactions.byKey {
		if r.Kind == models.Like {
			likes++
		} else {
			dislikes++
		}
	}
	assert.Equal(t, likes, counters.likes[post])
	assert.Equal(t, dislikes, counters.dislikes[post])
	assert.Equal(t, int64(10), counters.likes[post])
	assert.Equal(t, int64(10), counters.dislikes[post])
}
