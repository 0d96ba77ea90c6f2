// Package forum holds the engagement logic for discussion content: one like
// XOR one dislike per user per entity, with the denormalized counters kept in
// step with the reaction records.
package forum

import (
	"context"
	"errors"
	"time"

	"charcha-manch-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrDuplicateReaction is returned by ReactionStore.Create when the user
// already has a reaction on the entity. The create must be create-if-absent:
// the existence check and the write are one atomic operation.
var ErrDuplicateReaction = errors.New("forum: user already reacted to this entity")

// Outcome of a React call
type Outcome string

const (
	Recorded Outcome = "recorded"
	Removed  Outcome = "removed"
	Switched Outcome = "switched"
)

// ReactionStore persists the per-user reaction records
type ReactionStore interface {
	Create(ctx context.Context, r *models.Reaction) error
	Get(ctx context.Context, entity, user primitive.ObjectID) (*models.Reaction, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	SetKind(ctx context.Context, id primitive.ObjectID, kind models.ReactionKind) error
}

// CounterStore adjusts the denormalized likes/dislikes counters on the
// reacted-to entity
type CounterStore interface {
	AdjustReactionCounts(ctx context.Context, entity primitive.ObjectID, likes, dislikes int64) error
}

// Reactor toggles reactions: a new reaction is recorded, the same kind again
// removes it, the other kind switches it. The store's uniqueness guarantee is
// what keeps double-clicks from double-counting.
type Reactor struct {
	entityKind string
	reactions  ReactionStore
	counters   CounterStore
	now        func() time.Time
}

func NewReactor(entityKind string, reactions ReactionStore, counters CounterStore) *Reactor {
	return &Reactor{
		entityKind: entityKind,
		reactions:  reactions,
		counters:   counters,
		now:        time.Now,
	}
}

func deltas(kind models.ReactionKind, d int64) (likes, dislikes int64) {
	if kind == models.Like {
		return d, 0
	}
	return 0, d
}

// React applies one reaction for (entity, user) and returns what happened
func (r *Reactor) React(ctx context.Context, entity, user primitive.ObjectID, kind models.ReactionKind) (Outcome, error) {
	reaction := &models.Reaction{
		ID:         primitive.NewObjectID(),
		EntityKind: r.entityKind,
		Entity:     entity,
		User:       user,
		Kind:       kind,
		CreatedAt:  r.now(),
	}

	// insert-first: the store's uniqueness decides whether this is new
	err := r.reactions.Create(ctx, reaction)
	if err == nil {
		likes, dislikes := deltas(kind, 1)
		return Recorded, r.counters.AdjustReactionCounts(ctx, entity, likes, dislikes)
	}
	if !errors.Is(err, ErrDuplicateReaction) {
		return "", err
	}

	existing, err := r.reactions.Get(ctx, entity, user)
	if err != nil {
		return "", err
	}

	if existing.Kind == kind {
		if err := r.reactions.Delete(ctx, existing.ID); err != nil {
			return "", err
		}
		likes, dislikes := deltas(kind, -1)
		return Removed, r.counters.AdjustReactionCounts(ctx, entity, likes, dislikes)
	}

	if err := r.reactions.SetKind(ctx, existing.ID, kind); err != nil {
		return "", err
	}
	newLikes, newDislikes := deltas(kind, 1)
	oldLikes, oldDislikes := deltas(existing.Kind, -1)
	return Switched, r.counters.AdjustReactionCounts(ctx, entity, newLikes+oldLikes, newDislikes+oldDislikes)
}
