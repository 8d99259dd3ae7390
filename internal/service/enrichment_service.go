package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/prapeller/readadvance.backend/internal/domain"
	"github.com/prapeller/readadvance.backend/internal/store"
	"github.com/prapeller/readadvance.backend/internal/task"
)

// Classifier provides the model-backed classification calls the
// enrichment service depends on.
type Classifier interface {
	// IdentifyLanguage classifies the language of a text
	IdentifyLanguage(ctx context.Context, text string) (domain.Language, error)

	// IdentifyTextLevel classifies the CEFR level of a text
	IdentifyTextLevel(ctx context.Context, text string) (domain.Level, error)

	// IdentifyWordLevel classifies the CEFR level of a word
	IdentifyWordLevel(ctx context.Context, word string, language domain.Language) (domain.Level, error)
}

// EnrichmentService executes the enrichment task kinds. Every method
// re-fetches its entity by ID so the task payload can stay a bare
// reference, and treats an already-enriched entity as success so
// duplicate or replayed tasks are harmless.
type EnrichmentService struct {
	wordStore  store.WordStore
	textStore  store.TextStore
	classifier Classifier
	logger     *slog.Logger
}

// Ensure EnrichmentService implements task.Enricher
var _ task.Enricher = (*EnrichmentService)(nil)

// NewEnrichmentService creates a new EnrichmentService.
func NewEnrichmentService(
	wordStore store.WordStore,
	textStore store.TextStore,
	classifier Classifier,
	logger *slog.Logger,
) (*EnrichmentService, error) {
	if wordStore == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "wordStore cannot be nil"}
	}
	if textStore == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "textStore cannot be nil"}
	}
	if classifier == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "classifier cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &EnrichmentService{
		wordStore:  wordStore,
		textStore:  textStore,
		classifier: classifier,
		logger:     logger.With("component", "enrichment_service"),
	}, nil
}

// IdentifyWordLevel classifies and stores the CEFR level of a word.
func (s *EnrichmentService) IdentifyWordLevel(ctx context.Context, wordID uuid.UUID) error {
	word, err := s.wordStore.GetByID(ctx, wordID)
	if err != nil {
		return fmt.Errorf("failed to fetch word %s: %w", wordID, err)
	}

	if word.IsLevelIdentified() {
		s.logger.Debug("word level already identified, skipping",
			"word_id", wordID,
			"level", *word.Level)
		return nil
	}

	level, err := s.classifier.IdentifyWordLevel(ctx, word.Characters, word.Language)
	if err != nil {
		return fmt.Errorf("failed to classify word level: %w", err)
	}

	if err := s.wordStore.UpdateLevel(ctx, wordID, level); err != nil {
		return fmt.Errorf("failed to store word level: %w", err)
	}

	s.logger.Info("word level identified",
		"word_id", wordID,
		"level", level)
	return nil
}

// IdentifyTextLanguage classifies and stores the language of a text.
func (s *EnrichmentService) IdentifyTextLanguage(ctx context.Context, textID uuid.UUID) error {
	text, err := s.textStore.GetByID(ctx, textID)
	if err != nil {
		return fmt.Errorf("failed to fetch text %s: %w", textID, err)
	}

	if text.IsLanguageIdentified() {
		s.logger.Debug("text language already identified, skipping",
			"text_id", textID,
			"language", *text.Language)
		return nil
	}

	language, err := s.classifier.IdentifyLanguage(ctx, text.Content)
	if err != nil {
		return fmt.Errorf("failed to classify text language: %w", err)
	}

	if err := s.textStore.UpdateLanguage(ctx, textID, language); err != nil {
		return fmt.Errorf("failed to store text language: %w", err)
	}

	s.logger.Info("text language identified",
		"text_id", textID,
		"language", language)
	return nil
}

// IdentifyTextLevel classifies and stores the CEFR level of a text.
func (s *EnrichmentService) IdentifyTextLevel(ctx context.Context, textID uuid.UUID) error {
	text, err := s.textStore.GetByID(ctx, textID)
	if err != nil {
		return fmt.Errorf("failed to fetch text %s: %w", textID, err)
	}

	if text.IsLevelIdentified() {
		s.logger.Debug("text level already identified, skipping",
			"text_id", textID,
			"level", *text.Level)
		return nil
	}

	level, err := s.classifier.IdentifyTextLevel(ctx, text.Content)
	if err != nil {
		return fmt.Errorf("failed to classify text level: %w", err)
	}

	if err := s.textStore.UpdateLevel(ctx, textID, level); err != nil {
		return fmt.Errorf("failed to store text level: %w", err)
	}

	s.logger.Info("text level identified",
		"text_id", textID,
		"level", level)
	return nil
}
