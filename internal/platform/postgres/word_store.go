package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prapeller/readadvance.backend/internal/domain"
	"github.com/prapeller/readadvance.backend/internal/platform/logger"
	"github.com/prapeller/readadvance.backend/internal/store"
)

// PostgresWordStore implements the store.WordStore interface
// using a PostgreSQL database as the storage backend.
type PostgresWordStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresWordStore creates a new PostgreSQL implementation of the
// WordStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
func NewPostgresWordStore(db store.DBTX, logger *slog.Logger) *PostgresWordStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresWordStore{
		db:     db,
		logger: logger.With(slog.String("component", "word_store")),
	}
}

// Ensure PostgresWordStore implements store.WordStore interface
var _ store.WordStore = (*PostgresWordStore)(nil)

// Create saves a new word, handling domain validation.
// Returns store.ErrWordExists when the (characters, language) pair is
// already stored.
func (s *PostgresWordStore) Create(ctx context.Context, word *domain.Word) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := word.Validate(); err != nil {
		log.Warn("word validation failed during create",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return err
	}

	query := `
		INSERT INTO words (id, characters, language, lemma, part_of_speech, level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		word.ID,
		word.Characters,
		word.Language,
		word.Lemma,
		word.PartOfSpeech,
		word.Level,
		word.CreatedAt,
		word.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("word already exists",
				slog.String("characters", word.Characters),
				slog.String("language", string(word.Language)))
			return MapUniqueViolation(err, store.ErrWordExists)
		}

		log.Error("failed to create word",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return MapError(err)
	}

	log.Debug("word created",
		slog.String("word_id", word.ID.String()),
		slog.String("language", string(word.Language)))
	return nil
}

// GetByID retrieves a word by its unique ID.
func (s *PostgresWordStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	query := `
		SELECT id, characters, language, lemma, part_of_speech, level, created_at, updated_at
		FROM words
		WHERE id = $1
	`
	return s.scanWord(s.db.QueryRowContext(ctx, query, id))
}

// GetByCharacters retrieves a word by its uniqueness key.
func (s *PostgresWordStore) GetByCharacters(
	ctx context.Context,
	characters string,
	language domain.Language,
) (*domain.Word, error) {
	query := `
		SELECT id, characters, language, lemma, part_of_speech, level, created_at, updated_at
		FROM words
		WHERE characters = $1 AND language = $2
	`
	return s.scanWord(s.db.QueryRowContext(ctx, query, characters, language))
}

// UpdateAnalysis sets the lemma and part of speech of an existing word.
// Only those columns and updated_at are touched.
func (s *PostgresWordStore) UpdateAnalysis(ctx context.Context, id uuid.UUID, lemma, partOfSpeech string) error {
	query := `
		UPDATE words
		SET lemma = $1, part_of_speech = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := s.db.ExecContext(ctx, query, lemma, partOfSpeech, time.Now().UTC(), id)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrWordNotFound)
}

// UpdateLevel sets the CEFR level of an existing word. Only the level
// column and updated_at are touched, so a concurrent analysis update is
// never clobbered.
func (s *PostgresWordStore) UpdateLevel(ctx context.Context, id uuid.UUID, level domain.Level) error {
	if !domain.IsValidLevel(level) {
		return fmt.Errorf("%w: invalid level %q", store.ErrInvalidEntity, level)
	}

	query := `
		UPDATE words
		SET level = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := s.db.ExecContext(ctx, query, level, time.Now().UTC(), id)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrWordNotFound)
}

// List retrieves words for a language, newest first.
func (s *PostgresWordStore) List(
	ctx context.Context,
	language domain.Language,
	limit, offset int,
) ([]*domain.Word, error) {
	query := `
		SELECT id, characters, language, lemma, part_of_speech, level, created_at, updated_at
		FROM words
		WHERE language = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := s.db.QueryContext(ctx, query, language, limit, offset)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	words := make([]*domain.Word, 0)
	for rows.Next() {
		word, err := scanWordRow(rows)
		if err != nil {
			return nil, err
		}
		words = append(words, word)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating word rows: %w", err)
	}

	return words, nil
}

// WithTx returns a new store instance bound to the provided transaction.
func (s *PostgresWordStore) WithTx(tx *sql.Tx) store.WordStore {
	return &PostgresWordStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner abstracts over *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresWordStore) scanWord(row *sql.Row) (*domain.Word, error) {
	word, err := scanWordRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrWordNotFound
		}
		return nil, err
	}
	return word, nil
}

func scanWordRow(row rowScanner) (*domain.Word, error) {
	var word domain.Word
	var lemma, partOfSpeech sql.NullString
	var level sql.NullString

	err := row.Scan(
		&word.ID,
		&word.Characters,
		&word.Language,
		&lemma,
		&partOfSpeech,
		&level,
		&word.CreatedAt,
		&word.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan word row: %w", err)
	}

	if lemma.Valid {
		word.Lemma = &lemma.String
	}
	if partOfSpeech.Valid {
		word.PartOfSpeech = &partOfSpeech.String
	}
	if level.Valid {
		l := domain.Level(level.String)
		word.Level = &l
	}

	return &word, nil
}
