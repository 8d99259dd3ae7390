package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/prapeller/readadvance.backend/internal/config"
	"github.com/prapeller/readadvance.backend/internal/interauth"
	"github.com/prapeller/readadvance.backend/internal/platform/gemini"
	"github.com/prapeller/readadvance.backend/internal/platform/nlp"
	"github.com/prapeller/readadvance.backend/internal/platform/postgres"
	"github.com/prapeller/readadvance.backend/internal/retry"
	"github.com/prapeller/readadvance.backend/internal/service"
	"github.com/prapeller/readadvance.backend/internal/service/auth"
	"github.com/prapeller/readadvance.backend/internal/store"
	"github.com/prapeller/readadvance.backend/internal/task"
	"github.com/prapeller/readadvance.backend/internal/translation"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore store.UserStore
	wordStore store.WordStore
	textStore store.TextStore
	taskStore task.TaskStore

	// Platform clients
	classifier *gemini.Classifier
	nlpClient  *nlp.Client

	// Services
	jwtService         auth.JWTService
	passwordVerifier   auth.PasswordVerifier
	userService        service.UserService
	wordService        service.WordService
	textService        service.TextService
	translationService service.TranslationService
	enrichmentService  *service.EnrichmentService

	// Middleware for the internal surface
	interAuth *interauth.Middleware

	// Task handling
	taskRunner *task.TaskRunner
}

// newApplication creates a new application instance with all dependencies
// initialized. Core dependencies like configuration, logger, and database
// connection must be established before this runs.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.interAuth = interauth.NewMiddleware(
		cfg.Auth.InterServiceSecret,
		time.Duration(cfg.Auth.InterServiceMaxSkewSeconds)*time.Second,
		logger,
	)

	// Stores
	app.userStore = postgres.NewPostgresUserStore(db, bcrypt.DefaultCost, logger)
	app.wordStore = postgres.NewPostgresWordStore(db, logger)
	app.textStore = postgres.NewPostgresTextStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db)

	// Platform clients
	app.classifier, err = gemini.NewClassifier(ctx, logger.With("component", "llm_classifier"), cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM classifier: %w", err)
	}
	logger.Info("LLM classifier initialized", "model", cfg.LLM.ModelName)

	app.nlpClient = nlp.NewClient(cfg.NLP, cfg.Auth.InterServiceSecret, logger)

	// Enrichment pipeline
	app.enrichmentService, err = service.NewEnrichmentService(
		app.wordStore, app.textStore, app.classifier, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create enrichment service: %w", err)
	}

	taskFactory := task.NewEnrichmentTaskFactory(
		app.enrichmentService,
		retry.Constant(cfg.Task.MaxAttempts, time.Duration(cfg.Task.RetryDelaySeconds)*time.Second),
		isRetryableEnrichmentError,
		logger,
	)

	app.taskRunner, err = setupTaskRunner(app, taskFactory)
	if err != nil {
		return nil, fmt.Errorf("failed to setup task runner: %w", err)
	}

	// Services
	app.userService = service.NewUserService(app.userStore, logger)

	app.wordService, err = service.NewWordService(
		app.wordStore, db, app.nlpClient, taskFactory, app.taskRunner, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create word service: %w", err)
	}

	app.textService, err = service.NewTextService(
		app.textStore, db, taskFactory, app.taskRunner, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create text service: %w", err)
	}

	engine := translation.NewEngine(app.nlpClient, logger)
	app.translationService, err = service.NewTranslationService(engine, app.classifier, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create translation service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// isRetryableEnrichmentError reports whether a failed enrichment attempt
// is worth repeating. Invalid classifications are terminal: re-prompting
// with identical input cannot change the answer set.
func isRetryableEnrichmentError(err error) bool {
	return gemini.IsTransient(err) || errors.Is(err, nlp.ErrTransient)
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// setupTaskRunner initializes and starts the background task processor.
func setupTaskRunner(app *application, rehydrator task.Rehydrator) (*task.TaskRunner, error) {
	cfg := app.config.Task
	taskRunner := task.NewTaskRunner(app.taskStore, rehydrator, task.TaskRunnerConfig{
		WorkerCount:            cfg.WorkerCount,
		QueueSize:              cfg.QueueSize,
		QueueNames:             []string{task.DefaultQueue},
		StuckTaskAge:           time.Duration(cfg.StuckTaskAgeMinutes) * time.Minute,
		StuckTaskCheckInterval: time.Duration(cfg.StuckCheckIntervalMin) * time.Minute,
	}, app.logger)

	if err := taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	return taskRunner, nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
