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

// PostgresTextStore implements the store.TextStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTextStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTextStore creates a new PostgreSQL implementation of the
// TextStore interface.
func NewPostgresTextStore(db store.DBTX, logger *slog.Logger) *PostgresTextStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTextStore{
		db:     db,
		logger: logger.With(slog.String("component", "text_store")),
	}
}

// Ensure PostgresTextStore implements store.TextStore interface
var _ store.TextStore = (*PostgresTextStore)(nil)

// Create saves a new text, handling domain validation.
// Returns store.ErrTextExists when an identical text (same content
// digest) is already stored.
func (s *PostgresTextStore) Create(ctx context.Context, text *domain.Text) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := text.Validate(); err != nil {
		log.Warn("text validation failed during create",
			slog.String("error", err.Error()),
			slog.String("text_id", text.ID.String()))
		return err
	}

	query := `
		INSERT INTO texts (id, content, content_digest, language, level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		text.ID,
		text.Content,
		text.ContentDigest,
		text.Language,
		text.Level,
		text.CreatedAt,
		text.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("text already exists",
				slog.String("content_digest", text.ContentDigest))
			return MapUniqueViolation(err, store.ErrTextExists)
		}

		log.Error("failed to create text",
			slog.String("error", err.Error()),
			slog.String("text_id", text.ID.String()))
		return MapError(err)
	}

	log.Debug("text created", slog.String("text_id", text.ID.String()))
	return nil
}

// GetByID retrieves a text by its unique ID.
func (s *PostgresTextStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Text, error) {
	query := `
		SELECT id, content, content_digest, language, level, created_at, updated_at
		FROM texts
		WHERE id = $1
	`
	text, err := scanTextRow(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTextNotFound
		}
		return nil, err
	}
	return text, nil
}

// UpdateLanguage sets the identified language of an existing text.
// Only the language column and updated_at are touched.
func (s *PostgresTextStore) UpdateLanguage(ctx context.Context, id uuid.UUID, language domain.Language) error {
	if !domain.IsValidLanguage(language) {
		return fmt.Errorf("%w: invalid language %q", store.ErrInvalidEntity, language)
	}

	query := `
		UPDATE texts
		SET language = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := s.db.ExecContext(ctx, query, language, time.Now().UTC(), id)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrTextNotFound)
}

// UpdateLevel sets the classified CEFR level of an existing text.
// Only the level column and updated_at are touched.
func (s *PostgresTextStore) UpdateLevel(ctx context.Context, id uuid.UUID, level domain.Level) error {
	if !domain.IsValidLevel(level) {
		return fmt.Errorf("%w: invalid level %q", store.ErrInvalidEntity, level)
	}

	query := `
		UPDATE texts
		SET level = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := s.db.ExecContext(ctx, query, level, time.Now().UTC(), id)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrTextNotFound)
}

// List retrieves texts, newest first.
func (s *PostgresTextStore) List(ctx context.Context, limit, offset int) ([]*domain.Text, error) {
	query := `
		SELECT id, content, content_digest, language, level, created_at, updated_at
		FROM texts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	texts := make([]*domain.Text, 0)
	for rows.Next() {
		text, err := scanTextRow(rows)
		if err != nil {
			return nil, err
		}
		texts = append(texts, text)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating text rows: %w", err)
	}

	return texts, nil
}

// WithTx returns a new store instance bound to the provided transaction.
func (s *PostgresTextStore) WithTx(tx *sql.Tx) store.TextStore {
	return &PostgresTextStore{
		db:     tx,
		logger: s.logger,
	}
}

func scanTextRow(row rowScanner) (*domain.Text, error) {
	var text domain.Text
	var language, level sql.NullString

	err := row.Scan(
		&text.ID,
		&text.Content,
		&text.ContentDigest,
		&language,
		&level,
		&text.CreatedAt,
		&text.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan text row: %w", err)
	}

	if language.Valid {
		l := domain.Language(language.String)
		text.Language = &l
	}
	if level.Valid {
		l := domain.Level(level.String)
		text.Level = &l
	}

	return &text, nil
}
