package profile

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memoryBindingStore mirrors the Mongo store's guarded-update semantics: the
// set only lands when no constituency is recorded yet.
type memoryBindingStore struct {
	mu             sync.Mutex
	constituencies map[primitive.ObjectID]int
	known          map[primitive.ObjectID]bool
}

func newMemoryBindingStore(users ...primitive.ObjectID) *memoryBindingStore {
	s := &memoryBindingStore{
		constituencies: make(map[primitive.ObjectID]int),
		known:          make(map[primitive.ObjectID]bool),
	}
	for _, id := range users {
		s.known[id] = true
	}
	return s
}

func (s *memoryBindingStore) SetConstituencyIfUnset(ctx context.Context, userID primitive.ObjectID, constituencyID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.known[userID] {
		return false, nil
	}
	if _, ok := s.constituencies[userID]; ok {
		return false, nil
	}
	s.constituencies[userID] = constituencyID
	return true, nil
}

func (s *memoryBindingStore) GetConstituency(ctx context.Context, userID primitive.ObjectID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.known[userID] {
		return 0, ErrProfileNotFound
	}
	return s.constituencies[userID], nil
}

func TestBindSetsConstituencyOnce(t *testing.T) {
	user := primitive.NewObjectID()
	binder := NewBinder(newMemoryBindingStore(user))
	ctx := context.Background()

	bound, err := binder.Bind(ctx, user, 42)
	require.NoError(t, err)
	assert.Equal(t, 42, bound)
}

func TestBindRejectsSecondBinding(t *testing.T) {
	user := primitive.NewObjectID()
	binder := NewBinder(newMemoryBindingStore(user))
	ctx := context.Background()

	_, err := binder.Bind(ctx, user, 42)
	require.NoError(t, err)

	// the rejection carries the original value, not the attempted one
	bound, err := binder.Bind(ctx, user, 99)
	assert.ErrorIs(t, err, ErrConstituencyAlreadySet)
	assert.Equal(t, 42, bound)
}

func TestBindRejectsSameValueRebinding(t *testing.T) {
	user := primitive.NewObjectID()
	binder := NewBinder(newMemoryBindingStore(user))
	ctx := context.Background()

	_, err := binder.Bind(ctx, user, 7)
	require.NoError(t, err)

	bound, err := binder.Bind(ctx, user, 7)
	assert.ErrorIs(t, err, ErrConstituencyAlreadySet)
	assert.Equal(t, 7, bound)
}

func TestBindUnknownProfile(t *testing.T) {
	binder := NewBinder(newMemoryBindingStore())
	ctx := context.Background()

	_, err := binder.Bind(ctx, primitive.NewObjectID(), 42)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestBindConcurrentAttemptsOneWinner(t *testing.T) {
	user := primitive.NewObjectID()
	store := newMemoryBindingStore(user)
	binder := NewBinder(store)
	ctx := context.Background()

	var wg sync.WaitGroup
	wins := make(chan int, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(cid int) {
			defer wg.Done()
			if bound, err := binder.Bind(ctx, user, cid); err == nil {
				wins <- bound
			}
		}(i + 1)
	}
	wg.Wait()
	close(wins)

	require.Len(t, wins, 1)
	won := <-wins
	assert.Equal(t, won, store.constituencies[user])
}
