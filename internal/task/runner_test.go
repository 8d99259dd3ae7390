package task

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTaskStore records task rows and status transitions in memory.
type mockTaskStore struct {
	mu       sync.Mutex
	saved    []Task
	statuses map[uuid.UUID][]TaskStatus
	errorMsg map[uuid.UUID]string
	pending  []Task
	procsing []Task
	saveErr  error
}

func newMockTaskStore() *mockTaskStore {
	return &mockTaskStore{
		statuses: make(map[uuid.UUID][]TaskStatus),
		errorMsg: make(map[uuid.UUID]string),
	}
}

func (s *mockTaskStore) SaveTask(ctx context.Context, t Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, t)
	return nil
}

func (s *mockTaskStore) UpdateTaskStatus(
	ctx context.Context,
	taskID uuid.UUID,
	status TaskStatus,
	errorMsg string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[taskID] = append(s.statuses[taskID], status)
	if errorMsg != "" {
		s.errorMsg[taskID] = errorMsg
	}
	return nil
}

func (s *mockTaskStore) GetPendingTasks(ctx context.Context) ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending, nil
}

func (s *mockTaskStore) GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.procsing, nil
}

func (s *mockTaskStore) WithTx(tx *sql.Tx) TaskStore {
	return s
}

func (s *mockTaskStore) statusHistory(id uuid.UUID) []TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := make([]TaskStatus, len(s.statuses[id]))
	copy(history, s.statuses[id])
	return history
}

// stubRehydrator returns the persisted task as-is.
type stubRehydrator struct {
	tasks map[uuid.UUID]Task
	err   error
}

func (r *stubRehydrator) Rehydrate(
	id uuid.UUID,
	taskType string,
	payload []byte,
	status TaskStatus,
) (Task, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.tasks[id], nil
}

func testRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount:            1,
		QueueSize:              10,
		StuckTaskAge:           time.Hour,
		StuckTaskCheckInterval: time.Hour,
	}
}

// waitForStatus polls until the task reaches a terminal status or the
// timeout elapses.
func waitForStatus(t *testing.T, store *mockTaskStore, id uuid.UUID, want TaskStatus) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, status := range store.statusHistory(id) {
			if status == want {
				return
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("task %s never reached status %s; history: %v", id, want, store.statusHistory(id))
}

func TestRunnerProcessesSubmittedTask(t *testing.T) {
	store := newMockTaskStore()
	runner := NewTaskRunner(store, &stubRehydrator{}, testRunnerConfig(), testLogger())

	executed := make(chan struct{})
	task := newStubTask(PriorityDefault)
	task.execute = func(ctx context.Context) error {
		close(executed)
		return nil
	}

	require.NoError(t, runner.Start())
	defer runner.Stop()

	require.NoError(t, runner.Submit(context.Background(), task))

	select {
	case <-executed:
	case <-time.After(2 * time.Second):
		t.Fatal("task was never executed")
	}

	waitForStatus(t, store, task.ID(), TaskStatusCompleted)
	assert.Len(t, store.saved, 1)
}

func TestRunnerPersistsTerminalFailure(t *testing.T) {
	store := newMockTaskStore()
	runner := NewTaskRunner(store, &stubRehydrator{}, testRunnerConfig(), testLogger())

	var handlerCalled sync.WaitGroup
	handlerCalled.Add(1)
	runner.SetErrorHandler(func(task Task, err error) {
		handlerCalled.Done()
	})

	task := newStubTask(PriorityDefault)
	task.execute = func(ctx context.Context) error {
		return errTransient
	}

	require.NoError(t, runner.Start())
	defer runner.Stop()

	require.NoError(t, runner.Submit(context.Background(), task))

	waitForStatus(t, store, task.ID(), TaskStatusFailed)
	handlerCalled.Wait()

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Contains(t, store.errorMsg[task.ID()], "transient failure")
}

func TestRunnerSubmitUnknownQueue(t *testing.T) {
	store := newMockTaskStore()
	runner := NewTaskRunner(store, &stubRehydrator{}, testRunnerConfig(), testLogger())

	task := newStubTask(PriorityDefault)
	task.queue = "nonexistent"

	err := runner.Submit(context.Background(), task)
	require.Error(t, err)
	assert.Empty(t, store.saved)
}

func TestRunnerRecovery(t *testing.T) {
	store := newMockTaskStore()

	pendingDone := make(chan struct{})
	pendingTask := newStubTask(PriorityDefault)
	pendingTask.execute = func(ctx context.Context) error {
		close(pendingDone)
		return nil
	}

	processingDone := make(chan struct{})
	processingTask := newStubTask(PriorityDefault)
	processingTask.status = TaskStatusProcessing
	processingTask.execute = func(ctx context.Context) error {
		close(processingDone)
		return nil
	}

	store.pending = []Task{pendingTask}
	store.procsing = []Task{processingTask}

	rehydrator := &stubRehydrator{tasks: map[uuid.UUID]Task{
		pendingTask.ID():    pendingTask,
		processingTask.ID(): processingTask,
	}}

	runner := NewTaskRunner(store, rehydrator, testRunnerConfig(), testLogger())
	require.NoError(t, runner.Start())
	defer runner.Stop()

	select {
	case <-pendingDone:
	case <-time.After(2 * time.Second):
		t.Fatal("recovered pending task was never executed")
	}

	select {
	case <-processingDone:
	case <-time.After(2 * time.Second):
		t.Fatal("recovered processing task was never executed")
	}

	// Interrupted processing tasks are reset to pending before requeue
	history := store.statusHistory(processingTask.ID())
	require.NotEmpty(t, history)
	assert.Equal(t, TaskStatusPending, history[0])
}

func TestRunnerRehydrationFailureMarksTaskFailed(t *testing.T) {
	store := newMockTaskStore()

	broken := newStubTask(PriorityDefault)
	store.pending = []Task{broken}

	rehydrator := &stubRehydrator{err: ErrInvalidPayload}
	runner := NewTaskRunner(store, rehydrator, testRunnerConfig(), testLogger())

	require.NoError(t, runner.Start())
	defer runner.Stop()

	waitForStatus(t, store, broken.ID(), TaskStatusFailed)
}
