package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/prapeller/readadvance.backend/internal/retry"
)

// Common errors
var (
	ErrNilEnricher    = errors.New("enricher cannot be nil")
	ErrNilLogger      = errors.New("logger cannot be nil")
	ErrEmptyEntityID  = errors.New("entity ID cannot be empty")
	ErrUnknownType    = errors.New("unknown task type")
	ErrInvalidPayload = errors.New("invalid task payload")
)

// Enricher performs the actual enrichment work for a task. Implementations
// re-fetch the entity by ID and must treat an already-enriched entity as
// success, so duplicate or replayed tasks are harmless.
type Enricher interface {
	// IdentifyWordLevel classifies and stores the CEFR level of a word
	IdentifyWordLevel(ctx context.Context, wordID uuid.UUID) error

	// IdentifyTextLanguage classifies and stores the language of a text
	IdentifyTextLanguage(ctx context.Context, textID uuid.UUID) error

	// IdentifyTextLevel classifies and stores the CEFR level of a text
	IdentifyTextLevel(ctx context.Context, textID uuid.UUID) error
}

// enrichmentPayload is the serialized task data. Only the entity ID is
// carried; everything else is re-fetched at execution time so the task
// never acts on stale state.
type enrichmentPayload struct {
	ID uuid.UUID `json:"id"`
}

// EnrichmentTask implements the Task interface for the enrichment task
// types. The whole enrichment attempt is retried under the configured
// policy; only errors the retryable predicate accepts are re-attempted.
type EnrichmentTask struct {
	id        uuid.UUID
	taskType  string
	entityID  uuid.UUID
	priority  int
	enricher  Enricher
	policy    retry.Policy
	retryable func(error) bool
	logger    *slog.Logger
	status    TaskStatus
}

// NewEnrichmentTask creates a task of the given type for the given entity.
func NewEnrichmentTask(
	taskType string,
	entityID uuid.UUID,
	enricher Enricher,
	policy retry.Policy,
	retryable func(error) bool,
	logger *slog.Logger,
) (*EnrichmentTask, error) {
	switch taskType {
	case TaskTypeWordIdentifyLevel, TaskTypeTextIdentifyLanguage, TaskTypeTextIdentifyLevel:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, taskType)
	}

	if enricher == nil {
		return nil, ErrNilEnricher
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if entityID == uuid.Nil {
		return nil, ErrEmptyEntityID
	}
	if retryable == nil {
		retryable = func(error) bool { return false }
	}

	priority := PriorityDefault
	if taskType == TaskTypeTextIdentifyLanguage {
		priority = PriorityHigh
	}

	return &EnrichmentTask{
		id:        uuid.New(),
		taskType:  taskType,
		entityID:  entityID,
		priority:  priority,
		enricher:  enricher,
		policy:    policy,
		retryable: retryable,
		logger:    logger.With("task_type", taskType, "entity_id", entityID),
		status:    TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *EnrichmentTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *EnrichmentTask) Type() string {
	return t.taskType
}

// Payload returns the serialized entity reference
func (t *EnrichmentTask) Payload() []byte {
	data, err := json.Marshal(enrichmentPayload{ID: t.entityID})
	if err != nil {
		// Marshaling a UUID wrapper cannot fail
		t.logger.Error("failed to marshal task payload", "error", err)
		return nil
	}
	return data
}

// Status returns the current task status
func (t *EnrichmentTask) Status() TaskStatus {
	return t.status
}

// Queue returns the queue the task is dispatched to
func (t *EnrichmentTask) Queue() string {
	return DefaultQueue
}

// Priority returns the dispatch priority
func (t *EnrichmentTask) Priority() int {
	return t.priority
}

// Execute runs the enrichment under the retry policy. Transient failures
// are re-attempted up to the policy's budget; invalid model output and
// other permanent errors fail immediately.
func (t *EnrichmentTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing

	err := retry.Do(ctx, t.policy, t.retryable, func(ctx context.Context) error {
		switch t.taskType {
		case TaskTypeWordIdentifyLevel:
			return t.enricher.IdentifyWordLevel(ctx, t.entityID)
		case TaskTypeTextIdentifyLanguage:
			return t.enricher.IdentifyTextLanguage(ctx, t.entityID)
		case TaskTypeTextIdentifyLevel:
			return t.enricher.IdentifyTextLevel(ctx, t.entityID)
		default:
			return fmt.Errorf("%w: %q", ErrUnknownType, t.taskType)
		}
	})
	if err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("enrichment %s failed for %s: %w", t.taskType, t.entityID, err)
	}

	t.status = TaskStatusCompleted
	return nil
}
