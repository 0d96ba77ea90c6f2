package profile

import (
	"context"
	"errors"
	"log"

	"charcha-manch-be/models"
)

var (
	// ErrEmailTaken is returned when the email is already registered
	ErrEmailTaken = errors.New("profile: email already registered")

	// ErrNagrikCollision is returned when the allocated nagrik number is
	// already held by another profile. Only the random fallback path can
	// collide; the sequential counter never re-issues a number.
	ErrNagrikCollision = errors.New("profile: nagrik number already assigned")
)

// CreatorStore inserts a new profile. The insert must surface ErrEmailTaken
// and ErrNagrikCollision for the respective unique-index conflicts.
type CreatorStore interface {
	Insert(ctx context.Context, user *models.User) error
}

// NumberSource hands out nagrik numbers
type NumberSource interface {
	Allocate(ctx context.Context) (int64, error)
}

// CreateWithNagrik allocates a nagrik number for the user and inserts the
// profile. A degraded allocation (random fallback) still registers the user.
// If the fallback number collides with one already assigned, a fresh number
// is allocated and the insert retried once; registration only fails on a
// second collision.
func CreateWithNagrik(ctx context.Context, store CreatorStore, numbers NumberSource, user *models.User) error {
	n, allocErr := numbers.Allocate(ctx)
	if allocErr != nil {
		log.Println("Nagrik allocation degraded:", allocErr)
	}
	user.NagrikNumber = n

	err := store.Insert(ctx, user)
	if !errors.Is(err, ErrNagrikCollision) {
		return err
	}

	n, allocErr = numbers.Allocate(ctx)
	if allocErr != nil {
		log.Println("Nagrik allocation degraded on retry:", allocErr)
	}
	user.NagrikNumber = n
	return store.Insert(ctx, user)
}
