package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"github.com/prapeller/readadvance.backend/internal/domain"
	"github.com/prapeller/readadvance.backend/internal/store"
	"github.com/prapeller/readadvance.backend/internal/task"
)

// TextTaskFactory creates the enrichment tasks the text service enqueues
type TextTaskFactory interface {
	// NewTextLanguageTask creates a task identifying the language of a text
	NewTextLanguageTask(textID uuid.UUID) (task.Task, error)

	// NewTextLevelTask creates a task classifying the CEFR level of a text
	NewTextLevelTask(textID uuid.UUID) (task.Task, error)
}

// TextService provides text-related operations
type TextService interface {
	// Create stores a new text and fans out language and level
	// identification as two independent background tasks.
	// Returns ErrTextExists when an identical text is already stored.
	Create(ctx context.Context, content string) (*domain.Text, error)

	// GetText retrieves a text by its ID
	GetText(ctx context.Context, textID uuid.UUID) (*domain.Text, error)

	// ListTexts retrieves texts, newest first
	ListTexts(ctx context.Context, limit, offset int) ([]*domain.Text, error)
}

// textServiceImpl implements the TextService interface
type textServiceImpl struct {
	textStore   store.TextStore
	inTx        txRunner
	taskFactory TextTaskFactory
	taskRunner  TaskRunner
	logger      *slog.Logger
}

// NewTextService creates a new TextService.
// It returns an error if any of the required dependencies are nil.
func NewTextService(
	textStore store.TextStore,
	db *sql.DB,
	taskFactory TextTaskFactory,
	taskRunner TaskRunner,
	logger *slog.Logger,
) (TextService, error) {
	if textStore == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "textStore cannot be nil"}
	}
	if db == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "db cannot be nil"}
	}
	if taskFactory == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "taskFactory cannot be nil"}
	}
	if taskRunner == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "taskRunner cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &textServiceImpl{
		textStore: textStore,
		inTx: func(ctx context.Context, fn store.TxFn) error {
			return store.RunInTransaction(ctx, db, fn)
		},
		taskFactory: taskFactory,
		taskRunner:  taskRunner,
		logger:      logger.With("component", "text_service"),
	}, nil
}

// Create stores the text and fans out the two identification tasks.
func (s *textServiceImpl) Create(ctx context.Context, content string) (*domain.Text, error) {
	text, err := domain.NewText(content)
	if err != nil {
		return nil, NewServiceError("create_text", "failed to create text object", err)
	}

	err = s.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.textStore.WithTx(tx).Create(ctx, text)
	})
	if err != nil {
		if store.IsDuplicateError(err) {
			return nil, ErrTextExists
		}
		return nil, NewServiceError("create_text", "failed to save text", err)
	}

	s.logger.Info("text created", "text_id", text.ID)

	// Two independent tasks; no ordering between them. Enqueue failures
	// are logged rather than returned, the text itself is already stored.
	s.enqueue(ctx, text.ID, "text language task", s.taskFactory.NewTextLanguageTask)
	s.enqueue(ctx, text.ID, "text level task", s.taskFactory.NewTextLevelTask)

	return text, nil
}

func (s *textServiceImpl) enqueue(
	ctx context.Context,
	textID uuid.UUID,
	kind string,
	build func(uuid.UUID) (task.Task, error),
) {
	t, err := build(textID)
	if err != nil {
		s.logger.Error("failed to create "+kind,
			"error", err,
			"text_id", textID)
		return
	}

	if err := s.taskRunner.Submit(ctx, t); err != nil {
		s.logger.Error("failed to enqueue "+kind,
			"error", err,
			"text_id", textID)
	}
}

// GetText retrieves a text by its ID
func (s *textServiceImpl) GetText(ctx context.Context, textID uuid.UUID) (*domain.Text, error) {
	text, err := s.textStore.GetByID(ctx, textID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrTextNotFound
		}
		return nil, NewServiceError("get_text", "failed to retrieve text", err)
	}
	return text, nil
}

// ListTexts retrieves texts, newest first
func (s *textServiceImpl) ListTexts(ctx context.Context, limit, offset int) ([]*domain.Text, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	texts, err := s.textStore.List(ctx, limit, offset)
	if err != nil {
		return nil, NewServiceError("list_texts", "failed to list texts", err)
	}
	return texts, nil
}
