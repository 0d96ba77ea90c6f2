package profile

import (
	"context"
	"errors"
	"sync"
	"testing"

	"charcha-manch-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryCreatorStore mirrors the Mongo store's unique-index conflicts on
// email and nagrikNumber
type memoryCreatorStore struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
	numbers map[int64]bool
}

func newMemoryCreatorStore() *memoryCreatorStore {
	return &memoryCreatorStore{
		byEmail: make(map[string]*models.User),
		numbers: make(map[int64]bool),
	}
}

func (s *memoryCreatorStore) Insert(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[user.Email]; ok {
		return ErrEmailTaken
	}
	if user.NagrikNumber > 0 && s.numbers[user.NagrikNumber] {
		return ErrNagrikCollision
	}
	stored := *user
	s.byEmail[user.Email] = &stored
	if user.NagrikNumber > 0 {
		s.numbers[user.NagrikNumber] = true
	}
	return nil
}

// scriptedNumbers hands out a fixed sequence, as the random fallback would
type scriptedNumbers struct {
	mu       sync.Mutex
	sequence []int64
	err      error
}

func (n *scriptedNumbers) Allocate(ctx context.Context) (int64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sequence) == 0 {
		return 0, errors.New("exhausted")
	}
	next := n.sequence[0]
	n.sequence = n.sequence[1:]
	return next, n.err
}

func TestCreateWithNagrikAssignsNumber(t *testing.T) {
	store := newMemoryCreatorStore()
	numbers := &scriptedNumbers{sequence: []int64{1001}}
	user := &models.User{Name: "A", Email: "a@example.com"}

	require.NoError(t, CreateWithNagrik(context.Background(), store, numbers, user))
	assert.Equal(t, int64(1001), user.NagrikNumber)
	assert.Equal(t, int64(1001), store.byEmail["a@example.com"].NagrikNumber)
}

func TestCreateWithNagrikRetriesOnCollision(t *testing.T) {
	store := newMemoryCreatorStore()
	store.numbers[2040] = true // an earlier fallback landed here

	numbers := &scriptedNumbers{sequence: []int64{2040, 3555}}
	user := &models.User{Name: "B", Email: "b@example.com"}

	// a colliding number must not fail registration
	require.NoError(t, CreateWithNagrik(context.Background(), store, numbers, user))
	assert.Equal(t, int64(3555), user.NagrikNumber)
}

func TestCreateWithNagrikSecondCollisionSurfaces(t *testing.T) {
	store := newMemoryCreatorStore()
	store.numbers[2040] = true
	store.numbers[3555] = true

	numbers := &scriptedNumbers{sequence: []int64{2040, 3555}}
	user := &models.User{Name: "C", Email: "c@example.com"}

	err := CreateWithNagrik(context.Background(), store, numbers, user)
	assert.ErrorIs(t, err, ErrNagrikCollision)
}

func TestCreateWithNagrikDuplicateEmailNotRetried(t *testing.T) {
	store := newMemoryCreatorStore()
	first := &models.User{Name: "D", Email: "d@example.com"}
	numbers := &scriptedNumbers{sequence: []int64{1001, 1002, 1003}}
	require.NoError(t, CreateWithNagrik(context.Background(), store, numbers, first))

	dup := &models.User{Name: "D2", Email: "d@example.com"}
	err := CreateWithNagrik(context.Background(), store, numbers, dup)
	assert.ErrorIs(t, err, ErrEmailTaken)

	// only the duplicate's own allocation was consumed
	assert.Len(t, numbers.sequence, 1)
}

func TestCreateWithNagrikDegradedAllocationStillRegisters(t *testing.T) {
	store := newMemoryCreatorStore()
	numbers := &scriptedNumbers{sequence: []int64{4821}, err: errors.New("counter unreachable")}
	user := &models.User{Name: "E", Email: "e@example.com"}

	// availability over sequentiality: a degraded source is logged, not fatal
	require.NoError(t, CreateWithNagrik(context.Background(), store, numbers, user))
	assert.Equal(t, int64(4821), user.NagrikNumber)
}
