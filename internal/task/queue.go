package task

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"sync"
)

// Common errors returned by the queue
var (
	ErrQueueClosed = errors.New("task queue is closed")
	ErrQueueFull   = errors.New("task queue is full")
)

// queueItem pairs a task with an insertion sequence number so that tasks
// of equal priority drain in FIFO order.
type queueItem struct {
	task Task
	seq  uint64
}

// taskHeap orders items by priority descending, then sequence ascending.
type taskHeap []queueItem

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].task.Priority() != h[j].task.Priority() {
		return h[i].task.Priority() > h[j].task.Priority()
	}
	return h[i].seq < h[j].seq
}

func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) {
	*h = append(*h, x.(queueItem))
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Queue is a bounded, named priority queue. Higher-priority tasks drain
// first; tasks of equal priority drain in submission order. Dequeue
// blocks until a task is available or the context is done.
type Queue struct {
	name   string
	mu     sync.Mutex
	heap   taskHeap
	seq    uint64
	tokens chan struct{}
	closed bool
}

// NewQueue creates a queue with the given name and capacity.
func NewQueue(name string, capacity int) *Queue {
	return &Queue{
		name:   name,
		heap:   taskHeap{},
		tokens: make(chan struct{}, capacity),
	}
}

// Name returns the queue's name.
func (q *Queue) Name() string {
	return q.name
}

// Len returns the number of queued tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.heap.Len()
}

// Enqueue adds a task. Returns ErrQueueFull when at capacity and
// ErrQueueClosed after Close.
func (q *Queue) Enqueue(t Task) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}

	select {
	case q.tokens <- struct{}{}:
	default:
		q.mu.Unlock()
		return fmt.Errorf("%w: queue %q capacity %d reached", ErrQueueFull, q.name, cap(q.tokens))
	}

	heap.Push(&q.heap, queueItem{task: t, seq: q.seq})
	q.seq++
	q.mu.Unlock()
	return nil
}

// Dequeue removes and returns the highest-priority task, blocking until
// one is available. Returns ErrQueueClosed once the queue is closed and
// drained, or the context error if ctx is done first.
func (q *Queue) Dequeue(ctx context.Context) (Task, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case _, ok := <-q.tokens:
		if !ok {
			return nil, ErrQueueClosed
		}
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	item := heap.Pop(&q.heap).(queueItem)
	return item.task, nil
}

// Close prevents further submission. Tasks already queued can still be
// dequeued.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.tokens)
	}
}
