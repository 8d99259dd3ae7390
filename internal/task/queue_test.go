package task

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTask is a minimal Task for queue and runner tests.
type stubTask struct {
	id       uuid.UUID
	taskType string
	queue    string
	priority int
	status   TaskStatus
	execute  func(ctx context.Context) error
}

func newStubTask(priority int) *stubTask {
	return &stubTask{
		id:       uuid.New(),
		taskType: "stub",
		queue:    DefaultQueue,
		priority: priority,
		status:   TaskStatusPending,
	}
}

func (t *stubTask) ID() uuid.UUID      { return t.id }
func (t *stubTask) Type() string       { return t.taskType }
func (t *stubTask) Payload() []byte    { return []byte(`{}`) }
func (t *stubTask) Status() TaskStatus { return t.status }
func (t *stubTask) Queue() string      { return t.queue }
func (t *stubTask) Priority() int      { return t.priority }

func (t *stubTask) Execute(ctx context.Context) error {
	if t.execute != nil {
		return t.execute(ctx)
	}
	return nil
}

func TestQueuePriorityOrdering(t *testing.T) {
	q := NewQueue(DefaultQueue, 10)

	low := newStubTask(PriorityDefault)
	high := newStubTask(PriorityHigh)
	mid := newStubTask(7)

	require.NoError(t, q.Enqueue(low))
	require.NoError(t, q.Enqueue(high))
	require.NoError(t, q.Enqueue(mid))

	ctx := context.Background()

	first, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, high.ID(), first.ID())

	second, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, mid.ID(), second.ID())

	third, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, low.ID(), third.ID())
}

func TestQueueFIFOWithinPriority(t *testing.T) {
	q := NewQueue(DefaultQueue, 10)

	first := newStubTask(PriorityDefault)
	second := newStubTask(PriorityDefault)
	third := newStubTask(PriorityDefault)

	require.NoError(t, q.Enqueue(first))
	require.NoError(t, q.Enqueue(second))
	require.NoError(t, q.Enqueue(third))

	ctx := context.Background()
	for _, want := range []*stubTask{first, second, third} {
		got, err := q.Dequeue(ctx)
		require.NoError(t, err)
		assert.Equal(t, want.ID(), got.ID())
	}
}

func TestQueueFull(t *testing.T) {
	q := NewQueue(DefaultQueue, 1)

	require.NoError(t, q.Enqueue(newStubTask(PriorityDefault)))

	err := q.Enqueue(newStubTask(PriorityDefault))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestQueueClosed(t *testing.T) {
	q := NewQueue(DefaultQueue, 10)

	queued := newStubTask(PriorityDefault)
	require.NoError(t, q.Enqueue(queued))

	q.Close()

	err := q.Enqueue(newStubTask(PriorityDefault))
	assert.ErrorIs(t, err, ErrQueueClosed)

	// Tasks enqueued before Close still drain
	got, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, queued.ID(), got.ID())

	_, err = q.Dequeue(context.Background())
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestQueueDequeueContextCancel(t *testing.T) {
	q := NewQueue(DefaultQueue, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := q.Dequeue(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
