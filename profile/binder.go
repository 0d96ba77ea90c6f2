// Package profile manages the parts of a user profile that carry one-shot
// invariants: the nagrik number assigned at registration and the constituency
// binding.
package profile

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrConstituencyAlreadySet is returned when a profile already has a
	// constituency; the binding is permanent once made.
	ErrConstituencyAlreadySet = errors.New("profile: constituency already set")

	// ErrProfileNotFound is returned when the user id resolves to nothing
	ErrProfileNotFound = errors.New("profile: not found")
)

// BindingStore persists the constituency binding. SetConstituencyIfUnset must
// be a single guarded write: it reports false, without modifying anything,
// when the profile already carries a constituency.
type BindingStore interface {
	SetConstituencyIfUnset(ctx context.Context, userID primitive.ObjectID, constituencyID int) (bool, error)
	GetConstituency(ctx context.Context, userID primitive.ObjectID) (int, error)
}

// Binder enforces the settable-exactly-once constituency rule
type Binder struct {
	store BindingStore
}

func NewBinder(store BindingStore) *Binder {
	return &Binder{store: store}
}

// Bind sets the user's constituency if none is set yet. On success it returns
// the newly bound id; if the profile is already bound it returns the existing
// id together with ErrConstituencyAlreadySet.
func (b *Binder) Bind(ctx context.Context, userID primitive.ObjectID, constituencyID int) (int, error) {
	set, err := b.store.SetConstituencyIfUnset(ctx, userID, constituencyID)
	if err != nil {
		return 0, err
	}
	if set {
		return constituencyID, nil
	}

	current, err := b.store.GetConstituency(ctx, userID)
	if err != nil {
		return 0, err
	}
	return current, ErrConstituencyAlreadySet
}
