package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// TaskRunnerConfig holds configuration for the task runner
type TaskRunnerConfig struct {
	// WorkerCount determines how many concurrent workers drain each queue
	WorkerCount int

	// QueueSize determines the capacity of each named queue
	QueueSize int

	// QueueNames lists the queues the runner serves. If empty, only
	// DefaultQueue is served.
	QueueNames []string

	// StuckTaskAge defines how long a task can be in processing state
	// before it's considered stuck and reset
	StuckTaskAge time.Duration

	// StuckTaskCheckInterval defines how often to check for stuck tasks.
	// If zero, defaults to 5 minutes.
	StuckTaskCheckInterval time.Duration
}

// DefaultTaskRunnerConfig returns a TaskRunnerConfig with reasonable defaults
func DefaultTaskRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount:            2,
		QueueSize:              100,
		QueueNames:             []string{DefaultQueue},
		StuckTaskAge:           30 * time.Minute,
		StuckTaskCheckInterval: 5 * time.Minute,
	}
}

// TaskRunner manages background task processing across named priority
// queues. Task rows are persisted before dispatch so unfinished work
// survives a restart.
type TaskRunner struct {
	store      TaskStore
	rehydrator Rehydrator
	queues     map[string]*Queue
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     TaskRunnerConfig
	logger     *slog.Logger
	errHandler func(task Task, err error)
}

// NewTaskRunner creates a new TaskRunner
func NewTaskRunner(
	store TaskStore,
	rehydrator Rehydrator,
	config TaskRunnerConfig,
	logger *slog.Logger,
) *TaskRunner {
	if config.StuckTaskCheckInterval == 0 {
		config.StuckTaskCheckInterval = 5 * time.Minute
	}
	if len(config.QueueNames) == 0 {
		config.QueueNames = []string{DefaultQueue}
	}

	queues := make(map[string]*Queue, len(config.QueueNames))
	for _, name := range config.QueueNames {
		queues[name] = NewQueue(name, config.QueueSize)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &TaskRunner{
		store:      store,
		rehydrator: rehydrator,
		queues:     queues,
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger,
		errHandler: func(task Task, err error) {
			logger.Error("task execution failed",
				"task_id", task.ID(),
				"task_type", task.Type(),
				"error", err)
		},
	}
}

// SetErrorHandler allows setting a custom error handler function
func (r *TaskRunner) SetErrorHandler(handler func(task Task, err error)) {
	r.errHandler = handler
}

// Submit persists a task and dispatches it to its queue.
func (r *TaskRunner) Submit(ctx context.Context, task Task) error {
	queue, ok := r.queues[task.Queue()]
	if !ok {
		return fmt.Errorf("unknown queue %q for task type %q", task.Queue(), task.Type())
	}

	// Save task to database first so it survives a crash before dispatch
	if err := r.store.SaveTask(ctx, task); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	if err := queue.Enqueue(task); err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	return nil
}

// Start recovers unfinished tasks and begins processing.
func (r *TaskRunner) Start() error {
	if err := r.Recover(); err != nil {
		return fmt.Errorf("failed to recover tasks: %w", err)
	}

	for _, queue := range r.queues {
		for i := 0; i < r.config.WorkerCount; i++ {
			r.wg.Add(1)
			go r.worker(queue, i)
		}
	}

	r.wg.Add(1)
	go r.stuckTaskMonitor()

	return nil
}

// Stop gracefully shuts down the task runner
func (r *TaskRunner) Stop() {
	r.cancelFunc()
	r.wg.Wait()
	for _, queue := range r.queues {
		queue.Close()
	}
}

// Recover requeues tasks left unfinished by a previous run: pending
// tasks as-is, processing tasks reset to pending first. Recovered rows
// are rebound to their dependencies through the rehydrator.
func (r *TaskRunner) Recover() error {
	ctx := context.Background()

	pendingTasks, err := r.store.GetPendingTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending tasks: %w", err)
	}

	// Processing tasks of any age were interrupted by a crash
	processingTasks, err := r.store.GetProcessingTasks(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to get processing tasks: %w", err)
	}

	r.logger.Info("recovering unfinished tasks",
		"pending_count", len(pendingTasks),
		"processing_count", len(processingTasks))

	for _, t := range pendingTasks {
		r.requeue(ctx, t)
	}

	for _, t := range processingTasks {
		if err := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusPending, "Reset after recovery"); err != nil {
			r.logger.Error("failed to reset processing task status",
				"task_id", t.ID(),
				"task_type", t.Type(),
				"error", err)
			continue
		}
		r.requeue(ctx, t)
	}

	return nil
}

// requeue rehydrates a persisted task and places it back on its queue.
func (r *TaskRunner) requeue(ctx context.Context, t Task) {
	runnable, err := r.rehydrator.Rehydrate(t.ID(), t.Type(), t.Payload(), TaskStatusPending)
	if err != nil {
		r.logger.Error("failed to rehydrate task, marking failed",
			"task_id", t.ID(),
			"task_type", t.Type(),
			"error", err)
		if updateErr := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusFailed,
			fmt.Sprintf("rehydration failed: %v", err)); updateErr != nil {
			r.logger.Error("failed to mark unrehydratable task as failed",
				"task_id", t.ID(),
				"error", updateErr)
		}
		return
	}

	queue, ok := r.queues[runnable.Queue()]
	if !ok {
		r.logger.Error("recovered task names unknown queue",
			"task_id", runnable.ID(),
			"queue", runnable.Queue())
		return
	}

	if err := queue.Enqueue(runnable); err != nil {
		r.logger.Error("failed to requeue task",
			"task_id", runnable.ID(),
			"task_type", runnable.Type(),
			"error", err)
	}
}

// worker drains one queue until shutdown.
func (r *TaskRunner) worker(queue *Queue, id int) {
	defer r.wg.Done()

	logger := r.logger.With("queue", queue.Name(), "worker_id", id)
	logger.Debug("starting worker")

	for {
		task, err := queue.Dequeue(r.ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, ErrQueueClosed) {
				logger.Debug("stopping worker")
				return
			}
			logger.Error("dequeue failed", "error", err)
			return
		}

		r.processTask(task, queue.Name(), id)
	}
}

// processTask handles execution of a single task
func (r *TaskRunner) processTask(task Task, queueName string, workerID int) {
	ctx := context.Background()
	logger := r.logger.With(
		"task_id", task.ID(),
		"task_type", task.Type(),
		"queue", queueName,
		"worker_id", workerID,
	)

	if err := r.store.UpdateTaskStatus(ctx, task.ID(), TaskStatusProcessing, ""); err != nil {
		logger.Error("failed to update task status to processing", "error", err)
		return
	}

	logger.Info("processing task")

	err := task.Execute(ctx)

	if err != nil {
		// Terminal failure: the task's own retry budget is exhausted.
		// Persist the error so the failure is never silently dropped.
		logger.Error("task execution failed", "error", err)
		if updateErr := r.store.UpdateTaskStatus(ctx, task.ID(), TaskStatusFailed, err.Error()); updateErr != nil {
			logger.Error("failed to update task status to failed", "error", updateErr)
		}

		r.errHandler(task, err)
	} else {
		logger.Info("task completed successfully")
		if updateErr := r.store.UpdateTaskStatus(ctx, task.ID(), TaskStatusCompleted, ""); updateErr != nil {
			logger.Error("failed to update task status to completed", "error", updateErr)
		}
	}
}

// stuckTaskMonitor periodically resets tasks that have sat in
// "processing" state longer than StuckTaskAge.
func (r *TaskRunner) stuckTaskMonitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.StuckTaskCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return

		case <-ticker.C:
			ctx := context.Background()

			stuckTasks, err := r.store.GetProcessingTasks(ctx, r.config.StuckTaskAge)
			if err != nil {
				r.logger.Error("failed to check for stuck tasks", "error", err)
				continue
			}

			if len(stuckTasks) == 0 {
				continue
			}

			r.logger.Info("found stuck tasks", "count", len(stuckTasks))

			for _, t := range stuckTasks {
				if err := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusPending,
					"Reset after being stuck in processing state"); err != nil {
					r.logger.Error("failed to reset stuck task status",
						"task_id", t.ID(),
						"task_type", t.Type(),
						"error", err)
					continue
				}

				r.requeue(ctx, t)
			}
		}
	}
}
