package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Word
var (
	ErrEmptyWordID         = errors.New("word ID cannot be empty")
	ErrEmptyWordCharacters = errors.New("word characters cannot be empty")
	ErrWordTooLong         = errors.New("word characters exceed maximum length")
	ErrInvalidWordLanguage = errors.New("invalid word language")
	ErrInvalidWordLevel    = errors.New("invalid word level")
)

// MaxWordLength bounds the characters column, matching the schema.
const MaxWordLength = 50

// Word represents a single lexical item in one language.
// A word is unique per (characters, language). The lemma, part of speech
// and level fields start empty and are filled in exactly once by the
// asynchronous enrichment pipeline.
type Word struct {
	ID           uuid.UUID `json:"id"`
	Characters   string    `json:"characters"`
	Language     Language  `json:"language"`
	Lemma        *string   `json:"lemma,omitempty"`
	PartOfSpeech *string   `json:"part_of_speech,omitempty"`
	Level        *Level    `json:"level,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewWord creates a new Word with the given characters and language.
// It generates a new UUID, leaves enrichment fields unset, and sets the
// creation/update timestamps. Returns an error if validation fails.
func NewWord(characters string, language Language) (*Word, error) {
	now := time.Now().UTC()
	word := &Word{
		ID:         uuid.New(),
		Characters: characters,
		Language:   language,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := word.Validate(); err != nil {
		return nil, err
	}

	return word, nil
}

// Validate checks if the Word has valid data.
func (w *Word) Validate() error {
	if w.ID == uuid.Nil {
		return ErrEmptyWordID
	}

	if w.Characters == "" {
		return ErrEmptyWordCharacters
	}

	if len([]rune(w.Characters)) > MaxWordLength {
		return ErrWordTooLong
	}

	if !IsValidLanguage(w.Language) {
		return ErrInvalidWordLanguage
	}

	if w.Level != nil && !IsValidLevel(*w.Level) {
		return ErrInvalidWordLevel
	}

	return nil
}

// SetAnalysis records the lemma and part of speech obtained from the NLP
// service and updates the UpdatedAt timestamp.
func (w *Word) SetAnalysis(lemma, partOfSpeech string) {
	w.Lemma = &lemma
	w.PartOfSpeech = &partOfSpeech
	w.UpdatedAt = time.Now().UTC()
}

// SetLevel records the classified CEFR level.
// Returns an error if the level is not in the valid set.
func (w *Word) SetLevel(level Level) error {
	if !IsValidLevel(level) {
		return ErrInvalidWordLevel
	}

	w.Level = &level
	w.UpdatedAt = time.Now().UTC()
	return nil
}

// IsLevelIdentified reports whether the level classification has already run.
func (w *Word) IsLevelIdentified() bool {
	return w.Level != nil
}
