package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/prapeller/readadvance.backend/internal/domain"
)

// WordStore defines the interface for word data persistence.
type WordStore interface {
	// Create saves a new word to the store.
	// Returns ErrWordExists if a word with the same (characters, language)
	// pair already exists.
	// Returns validation errors from the domain Word if data is invalid.
	Create(ctx context.Context, word *domain.Word) error

	// GetByID retrieves a word by its unique ID.
	// Returns ErrWordNotFound if the word does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error)

	// GetByCharacters retrieves a word by its uniqueness key.
	// Returns ErrWordNotFound if the word does not exist.
	GetByCharacters(ctx context.Context, characters string, language domain.Language) (*domain.Word, error)

	// UpdateAnalysis sets the lemma and part of speech of an existing word.
	// Returns ErrWordNotFound if the word does not exist.
	UpdateAnalysis(ctx context.Context, id uuid.UUID, lemma, partOfSpeech string) error

	// UpdateLevel sets the CEFR level of an existing word.
	// This is a narrow partial-field write: no other columns are touched.
	// Returns ErrWordNotFound if the word does not exist.
	UpdateLevel(ctx context.Context, id uuid.UUID, level domain.Level) error

	// List retrieves words for a language, newest first.
	// Returns an empty slice if no words match.
	List(ctx context.Context, language domain.Language, limit, offset int) ([]*domain.Word, error)

	// WithTx returns a new WordStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller.
	WithTx(tx *sql.Tx) WordStore
}
