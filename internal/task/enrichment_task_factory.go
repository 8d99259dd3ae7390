package task

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/prapeller/readadvance.backend/internal/retry"
)

// EnrichmentTaskFactory creates EnrichmentTask instances bound to a
// shared enricher, retry policy, and retryable-error predicate. It also
// serves as the Rehydrator for tasks recovered from the database.
type EnrichmentTaskFactory struct {
	enricher  Enricher
	policy    retry.Policy
	retryable func(error) bool
	logger    *slog.Logger
}

// NewEnrichmentTaskFactory creates a new factory.
func NewEnrichmentTaskFactory(
	enricher Enricher,
	policy retry.Policy,
	retryable func(error) bool,
	logger *slog.Logger,
) *EnrichmentTaskFactory {
	return &EnrichmentTaskFactory{
		enricher:  enricher,
		policy:    policy,
		retryable: retryable,
		logger:    logger.With("component", "enrichment_task_factory"),
	}
}

// NewWordLevelTask creates a task classifying the CEFR level of a word.
func (f *EnrichmentTaskFactory) NewWordLevelTask(wordID uuid.UUID) (Task, error) {
	return NewEnrichmentTask(TaskTypeWordIdentifyLevel, wordID, f.enricher, f.policy, f.retryable, f.logger)
}

// NewTextLanguageTask creates a task classifying the language of a text.
func (f *EnrichmentTaskFactory) NewTextLanguageTask(textID uuid.UUID) (Task, error) {
	return NewEnrichmentTask(TaskTypeTextIdentifyLanguage, textID, f.enricher, f.policy, f.retryable, f.logger)
}

// NewTextLevelTask creates a task classifying the CEFR level of a text.
func (f *EnrichmentTaskFactory) NewTextLevelTask(textID uuid.UUID) (Task, error) {
	return NewEnrichmentTask(TaskTypeTextIdentifyLevel, textID, f.enricher, f.policy, f.retryable, f.logger)
}

// Rehydrate rebuilds an executable task from a persisted row. The stored
// payload carries only the entity ID; dependencies are rebound from the
// factory.
func (f *EnrichmentTaskFactory) Rehydrate(
	id uuid.UUID,
	taskType string,
	payload []byte,
	status TaskStatus,
) (Task, error) {
	var p enrichmentPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if p.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing entity ID", ErrInvalidPayload)
	}

	t, err := NewEnrichmentTask(taskType, p.ID, f.enricher, f.policy, f.retryable, f.logger)
	if err != nil {
		return nil, err
	}

	// Preserve the persisted identity and status so the row is updated,
	// not duplicated.
	t.id = id
	t.status = status
	return t, nil
}
