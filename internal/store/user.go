package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/prapeller/readadvance.backend/internal/domain"
)

// UserStore persists users of the public API surface.
type UserStore interface {
	// Create validates and saves a new user, hashing the plaintext
	// password before storage. Returns ErrEmailExists when the email
	// is already registered.
	Create(ctx context.Context, user *domain.User) error

	// GetByID returns the user with the given ID, or ErrUserNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail returns the user registered under the email address,
	// or ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// WithTx returns a UserStore bound to the given transaction.
	WithTx(tx *sql.Tx) UserStore
}
