package nagrik

import (
	"context"
	"errors"
	"math/rand"
)

const (
	// Floor is the first number in the nagrik numbering space
	Floor = 1001

	// randomCeiling bounds the non-sequential fallback range
	randomCeiling = 10000
)

// ErrNonSequential marks a number allocated through the random fallback path.
// The number is still usable; it just isn't guaranteed unique until the next
// backfill verification pass.
var ErrNonSequential = errors.New("nagrik: allocated non-sequential fallback number")

// Sequencer issues the next value of the shared nagrik counter
type Sequencer interface {
	Next(ctx context.Context) (int64, error)
}

// Allocator hands out nagrik numbers. Sequential numbers come from the
// Sequencer; if the sequencer is unavailable the allocator degrades to a
// random number in [Floor, 10000] so onboarding never blocks on the counter.
type Allocator struct {
	seq Sequencer
}

func NewAllocator(seq Sequencer) *Allocator {
	return &Allocator{seq: seq}
}

// Allocate returns the next nagrik number. On sequencer failure it returns a
// random fallback number together with ErrNonSequential wrapping the cause;
// callers should log the error but may keep the number.
func (a *Allocator) Allocate(ctx context.Context) (int64, error) {
	n, err := a.seq.Next(ctx)
	if err != nil {
		fallback := Floor + rand.Int63n(randomCeiling-Floor+1)
		return fallback, errors.Join(ErrNonSequential, err)
	}
	if n < Floor {
		// Corrupted or unseeded counter; never hand out numbers below the floor
		fallback := Floor + rand.Int63n(randomCeiling-Floor+1)
		return fallback, errors.Join(ErrNonSequential, errors.New("sequencer returned value below floor"))
	}
	return n, nil
}
