package nagrik

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memorySequencer is an in-memory stand-in for the Mongo counter document
type memorySequencer struct {
	mu   sync.Mutex
	last int64
	err  error
}

func newMemorySequencer() *memorySequencer {
	return &memorySequencer{last: Floor - 1}
}

func (s *memorySequencer) Next(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	s.last++
	return s.last, nil
}

func TestAllocateFirstNumberIsFloor(t *testing.T) {
	a := NewAllocator(newMemorySequencer())

	n, err := a.Allocate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1001), n)
}

func TestAllocateStrictlyIncreasing(t *testing.T) {
	a := NewAllocator(newMemorySequencer())
	ctx := context.Background()

	prev := int64(0)
	for i := 0; i < 50; i++ {
		n, err := a.Allocate(ctx)
		require.NoError(t, err)
		assert.Greater(t, n, prev)
		prev = n
	}
}

func TestAllocateConcurrentUniqueness(t *testing.T) {
	a := NewAllocator(newMemorySequencer())
	ctx := context.Background()

	const workers = 100
	results := make(chan int64, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := a.Allocate(ctx)
			assert.NoError(t, err)
			results <- n
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool, workers)
	for n := range results {
		assert.False(t, seen[n], "number %d allocated twice", n)
		seen[n] = true
	}
	assert.Len(t, seen, workers)
}

func TestAllocateRandomFallback(t *testing.T) {
	seq := newMemorySequencer()
	seq.err = errors.New("connection refused")
	a := NewAllocator(seq)

	n, err := a.Allocate(context.Background())
	assert.ErrorIs(t, err, ErrNonSequential)
	assert.GreaterOrEqual(t, n, int64(1001))
	assert.LessOrEqual(t, n, int64(10000))
}

func TestAllocateRejectsBelowFloorSequencer(t *testing.T) {
	seq := newMemorySequencer()
	seq.last = 5 // corrupted counter
	a := NewAllocator(seq)

	n, err := a.Allocate(context.Background())
	assert.ErrorIs(t, err, ErrNonSequential)
	assert.GreaterOrEqual(t, n, int64(1001))
}
