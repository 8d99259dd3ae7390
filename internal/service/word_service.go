package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"github.com/prapeller/readadvance.backend/internal/domain"
	"github.com/prapeller/readadvance.backend/internal/platform/nlp"
	"github.com/prapeller/readadvance.backend/internal/store"
	"github.com/prapeller/readadvance.backend/internal/task"
)

// TaskRunner defines the interface for submitting background tasks
type TaskRunner interface {
	// Submit adds a task to the processing queue
	Submit(ctx context.Context, task task.Task) error
}

// WordTaskFactory creates the enrichment tasks the word service enqueues
type WordTaskFactory interface {
	// NewWordLevelTask creates a task classifying the CEFR level of a word
	NewWordLevelTask(wordID uuid.UUID) (task.Task, error)
}

// Analyzer provides lemma and part-of-speech analysis for raw content
type Analyzer interface {
	Analyze(ctx context.Context, content string, language domain.Language) ([]nlp.TokenAnalysis, error)
}

// WordService provides word-related operations
type WordService interface {
	// GetOrCreate returns the stored word for (characters, language),
	// creating it first if absent. The created flag reports which path
	// was taken. Creation runs linguistic analysis and enqueues level
	// identification; an existing word is returned as-is with no
	// re-enrichment.
	GetOrCreate(ctx context.Context, characters string, language domain.Language) (bool, *domain.Word, error)

	// Create saves a new word strictly: an existing (characters, language)
	// pair is an ErrWordExists error, not a success.
	Create(ctx context.Context, characters string, language domain.Language) (*domain.Word, error)

	// GetWord retrieves a word by its ID
	GetWord(ctx context.Context, wordID uuid.UUID) (*domain.Word, error)

	// ListWords retrieves words for a language, newest first
	ListWords(ctx context.Context, language domain.Language, limit, offset int) ([]*domain.Word, error)
}

// txRunner runs fn inside a database transaction.
type txRunner func(ctx context.Context, fn store.TxFn) error

// wordServiceImpl implements the WordService interface
type wordServiceImpl struct {
	wordStore   store.WordStore
	inTx        txRunner
	analyzer    Analyzer
	taskFactory WordTaskFactory
	taskRunner  TaskRunner
	logger      *slog.Logger
}

// NewWordService creates a new WordService.
// It returns an error if any of the required dependencies are nil.
func NewWordService(
	wordStore store.WordStore,
	db *sql.DB,
	analyzer Analyzer,
	taskFactory WordTaskFactory,
	taskRunner TaskRunner,
	logger *slog.Logger,
) (WordService, error) {
	if wordStore == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "wordStore cannot be nil"}
	}
	if db == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "db cannot be nil"}
	}
	if analyzer == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "analyzer cannot be nil"}
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

	return &wordServiceImpl{
		wordStore: wordStore,
		inTx: func(ctx context.Context, fn store.TxFn) error {
			return store.RunInTransaction(ctx, db, fn)
		},
		analyzer:    analyzer,
		taskFactory: taskFactory,
		taskRunner:  taskRunner,
		logger:      logger.With("component", "word_service"),
	}, nil
}

// GetOrCreate implements the idempotent word intake path.
func (s *wordServiceImpl) GetOrCreate(
	ctx context.Context,
	characters string,
	language domain.Language,
) (bool, *domain.Word, error) {
	existing, err := s.wordStore.GetByCharacters(ctx, characters, language)
	if err == nil {
		return false, existing, nil
	}
	if !store.IsNotFoundError(err) {
		return false, nil, NewServiceError("get_or_create_word", "failed to look up word", err)
	}

	word, err := s.createWord(ctx, characters, language)
	if err != nil {
		// A concurrent request may have inserted the same word between
		// our lookup and insert. That is the get path, not an error.
		if store.IsDuplicateError(err) {
			existing, lookupErr := s.wordStore.GetByCharacters(ctx, characters, language)
			if lookupErr != nil {
				return false, nil, NewServiceError(
					"get_or_create_word", "failed to re-fetch word after duplicate insert", lookupErr)
			}
			return false, existing, nil
		}
		return false, nil, err
	}

	s.enqueueLevelIdentification(ctx, word.ID)

	return true, word, nil
}

// Create implements the strict creation path.
func (s *wordServiceImpl) Create(
	ctx context.Context,
	characters string,
	language domain.Language,
) (*domain.Word, error) {
	word, err := s.createWord(ctx, characters, language)
	if err != nil {
		if store.IsDuplicateError(err) {
			return nil, ErrWordExists
		}
		return nil, err
	}

	s.enqueueLevelIdentification(ctx, word.ID)

	return word, nil
}

// createWord analyzes the characters and inserts the new word row.
func (s *wordServiceImpl) createWord(
	ctx context.Context,
	characters string,
	language domain.Language,
) (*domain.Word, error) {
	word, err := domain.NewWord(characters, language)
	if err != nil {
		return nil, NewServiceError("create_word", "failed to create word object", err)
	}

	// Analysis failure does not block intake; the word is stored without
	// lemma and part of speech rather than lost.
	tokens, err := s.analyzer.Analyze(ctx, characters, language)
	if err != nil {
		s.logger.Warn("linguistic analysis failed, storing word unanalyzed",
			"error", err,
			"language", language)
	} else if len(tokens) > 0 {
		word.SetAnalysis(tokens[0].Lemma, tokens[0].PartOfSpeech)
	}

	err = s.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.wordStore.WithTx(tx).Create(ctx, word)
	})
	if err != nil {
		if store.IsDuplicateError(err) {
			return nil, err
		}
		return nil, NewServiceError("create_word", "failed to save word", err)
	}

	s.logger.Info("word created",
		"word_id", word.ID,
		"language", language)

	return word, nil
}

// enqueueLevelIdentification fires the level task for a new word.
// Enqueue failures are logged, not returned: the word is already stored
// and a failed dispatch must not undo the intake.
func (s *wordServiceImpl) enqueueLevelIdentification(ctx context.Context, wordID uuid.UUID) {
	levelTask, err := s.taskFactory.NewWordLevelTask(wordID)
	if err != nil {
		s.logger.Error("failed to create word level task",
			"error", err,
			"word_id", wordID)
		return
	}

	if err := s.taskRunner.Submit(ctx, levelTask); err != nil {
		s.logger.Error("failed to enqueue word level task",
			"error", err,
			"word_id", wordID)
	}
}

// GetWord retrieves a word by its ID
func (s *wordServiceImpl) GetWord(ctx context.Context, wordID uuid.UUID) (*domain.Word, error) {
	word, err := s.wordStore.GetByID(ctx, wordID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrWordNotFound
		}
		return nil, NewServiceError("get_word", "failed to retrieve word", err)
	}
	return word, nil
}

// ListWords retrieves words for a language, newest first
func (s *wordServiceImpl) ListWords(
	ctx context.Context,
	language domain.Language,
	limit, offset int,
) ([]*domain.Word, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	words, err := s.wordStore.List(ctx, language, limit, offset)
	if err != nil {
		return nil, NewServiceError("list_words", "failed to list words", err)
	}
	return words, nil
}
