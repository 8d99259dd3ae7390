package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/prapeller/readadvance.backend/internal/domain"
)

// TextStore defines the interface for text data persistence.
type TextStore interface {
	// Create saves a new text to the store.
	// Returns ErrTextExists if an identical text already exists.
	// Returns validation errors from the domain Text if data is invalid.
	Create(ctx context.Context, text *domain.Text) error

	// GetByID retrieves a text by its unique ID.
	// Returns ErrTextNotFound if the text does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Text, error)

	// UpdateLanguage sets the identified language of an existing text.
	// Returns ErrTextNotFound if the text does not exist.
	UpdateLanguage(ctx context.Context, id uuid.UUID, language domain.Language) error

	// UpdateLevel sets the classified CEFR level of an existing text.
	// Returns ErrTextNotFound if the text does not exist.
	UpdateLevel(ctx context.Context, id uuid.UUID, level domain.Level) error

	// List retrieves texts, newest first.
	// Returns an empty slice if no texts match.
	List(ctx context.Context, limit, offset int) ([]*domain.Text, error)

	// WithTx returns a new TextStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TextStore
}
