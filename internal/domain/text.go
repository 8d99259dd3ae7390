package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Text
var (
	ErrEmptyTextID        = errors.New("text ID cannot be empty")
	ErrEmptyTextContent   = errors.New("text content cannot be empty")
	ErrInvalidTextLanguage = errors.New("invalid text language")
	ErrInvalidTextLevel   = errors.New("invalid text level")
)

// Text represents a reading text submitted for enrichment.
// Unlike a Word, the language of a Text is not known at creation time;
// both the language and the level are identified asynchronously.
type Text struct {
	ID            uuid.UUID `json:"id"`
	Content       string    `json:"content"`
	ContentDigest string    `json:"-"`
	Language      *Language `json:"language,omitempty"`
	Level         *Level    `json:"level,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewText creates a new Text with the given content.
// The content digest backs the uniqueness constraint, so identical
// texts dedupe without comparing full content in the database.
func NewText(content string) (*Text, error) {
	now := time.Now().UTC()
	text := &Text{
		ID:            uuid.New(),
		Content:       content,
		ContentDigest: DigestContent(content),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := text.Validate(); err != nil {
		return nil, err
	}

	return text, nil
}

// DigestContent returns the hex SHA-256 digest of the given content.
func DigestContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Validate checks if the Text has valid data.
func (t *Text) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTextID
	}

	if t.Content == "" {
		return ErrEmptyTextContent
	}

	if t.Language != nil && !IsValidLanguage(*t.Language) {
		return ErrInvalidTextLanguage
	}

	if t.Level != nil && !IsValidLevel(*t.Level) {
		return ErrInvalidTextLevel
	}

	return nil
}

// SetLanguage records the identified language.
func (t *Text) SetLanguage(language Language) error {
	if !IsValidLanguage(language) {
		return ErrInvalidTextLanguage
	}

	t.Language = &language
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// SetLevel records the classified CEFR level.
func (t *Text) SetLevel(level Level) error {
	if !IsValidLevel(level) {
		return ErrInvalidTextLevel
	}

	t.Level = &level
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// IsLanguageIdentified reports whether language identification has already run.
func (t *Text) IsLanguageIdentified() bool {
	return t.Language != nil
}

// IsLevelIdentified reports whether level classification has already run.
func (t *Text) IsLevelIdentified() bool {
	return t.Level != nil
}
