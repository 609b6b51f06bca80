package repository

import (
	"context"
	"errors"
	"time"

	"miniapp-user-backend/internal/features/user/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrStoreUnavailable wraps every failure to reach the backing store.
	ErrStoreUnavailable = errors.New("user store unavailable")
	// ErrCorruptRecord means a stored record could not be decoded.
	ErrCorruptRecord = errors.New("corrupt user record")
)

type UserRepository interface {
	// Get returns ErrUserNotFound when no record exists.
	Get(ctx context.Context, id string) (*models.User, error)
	// Create fully replaces whatever is stored under the user's id.
	Create(ctx context.Context, user *models.User) error
	// Update applies the patch and updatedAt in a single atomic step and
	// returns the resulting record. Nothing is written when the record is missing.
	Update(ctx context.Context, id string, patch models.UserPatch, updatedAt time.Time) (*models.User, error)
	Exists(ctx context.Context, id string) (bool, error)
}
