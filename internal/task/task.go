package task

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the current state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task type constants
const (
	// TaskTypeWordIdentifyLevel classifies the CEFR level of a stored word
	TaskTypeWordIdentifyLevel = "word_identify_level"

	// TaskTypeTextIdentifyLanguage classifies the language of a stored text
	TaskTypeTextIdentifyLanguage = "text_identify_language"

	// TaskTypeTextIdentifyLevel classifies the CEFR level of a stored text
	TaskTypeTextIdentifyLevel = "text_identify_level"
)

// DefaultQueue is the queue tasks are dispatched to unless a task names
// another one.
const DefaultQueue = "default"

// Dispatch priorities. Within a queue, higher priority drains first.
// Language identification outranks level identification because level
// results are not useful until the language is known.
const (
	PriorityHigh    = 9
	PriorityDefault = 5
)

// Task represents a unit of background work to be processed
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Payload returns the task data as a byte slice
	Payload() []byte

	// Status returns the current task status
	Status() TaskStatus

	// Queue returns the name of the queue the task is dispatched to
	Queue() string

	// Priority returns the dispatch priority within the queue;
	// higher values drain first
	Priority() int

	// Execute runs the task logic
	Execute(ctx context.Context) error
}

// TaskStore defines the interface for persisting tasks
type TaskStore interface {
	// SaveTask persists a task to the database
	SaveTask(ctx context.Context, task Task) error

	// UpdateTaskStatus updates the status of a task
	UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error

	// GetPendingTasks retrieves all tasks with "pending" status
	GetPendingTasks(ctx context.Context) ([]Task, error)

	// GetProcessingTasks retrieves tasks with "processing" status.
	// If olderThan is non-zero, only returns tasks that have been in this
	// state longer than the specified duration.
	GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]Task, error)

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) TaskStore
}

// Rehydrator rebuilds an executable task from its persisted type and
// payload. Tasks loaded from the database carry only data; a Rehydrator
// rebinds them to their dependencies so recovery can requeue runnable
// work.
type Rehydrator interface {
	Rehydrate(id uuid.UUID, taskType string, payload []byte, status TaskStatus) (Task, error)
}
