// Package queue provides an asynchronous FIFO queue of bounded or
// unbounded capacity for one producer and one consumer.
//
// Enqueue suspends the calling goroutine while a bounded queue is full,
// and Dequeue suspends while the queue is empty and still open; neither
// ever spins. Coordination uses two long-lived reusable completion
// sources as condition signals, so steady-state operation allocates
// nothing per item.
//
// The contract is single-producer/single-consumer: buffer mutation is
// serialized by one mutex, but concurrent producers (or concurrent
// consumers) are not supported.
package queue

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/saltfishpr/refuture/reusable"
)

// ErrClosed reports an operation against a queue whose adding side has
// completed: Enqueue after Close, or Dequeue on an empty, closed queue.
var ErrClosed = errors.New("queue: adding completed")

// Queue is an asynchronous producer-consumer FIFO buffer.
type Queue[T any] struct {
	mu       sync.Mutex
	buf      []T // ring storage
	head     int
	count    int
	capacity int // 0 = unbounded
	closed   bool

	// Pulse signals: completed on the empty→non-empty and full→non-full
	// transitions, consumed (and thereby reset) by the suspended side.
	// A pulse with no waiter stays pending and is absorbed by the next
	// waiter's retry loop.
	itemReady  *reusable.Source[struct{}]
	spaceReady *reusable.Source[struct{}]
}

// New creates a queue. capacity 0 means unbounded; a negative capacity
// panics.
func New[T any](capacity int) *Queue[T] {
	if capacity < 0 {
		panic("queue: capacity must not be negative")
	}
	q := &Queue[T]{
		capacity:   capacity,
		itemReady:  reusable.NewSource[struct{}](),
		spaceReady: reusable.NewSource[struct{}](),
	}
	if capacity > 0 {
		q.buf = make([]T, capacity)
	}
	return q
}

// Enqueue appends item to the queue, suspending while a bounded queue is
// at capacity. It fails with ErrClosed once adding has completed.
func (q *Queue[T]) Enqueue(item T) error {
	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return errors.WithStack(ErrClosed)
		}
		if q.capacity == 0 || q.count < q.capacity {
			q.push(item)
			if q.count == 1 {
				q.itemReady.TrySet(struct{}{}, nil)
			}
			q.mu.Unlock()
			return nil
		}
		// Full: take the current-generation future under the lock, park
		// outside it, then re-check. The signal carries no payload and a
		// stale pulse only costs one extra loop iteration.
		wait := q.spaceReady.Future()
		q.mu.Unlock()
		_, _ = wait.Get()
	}
}

// Dequeue removes and returns the front item, suspending while the queue
// is empty and open. Once the queue is empty and adding has completed,
// it fails with ErrClosed.
func (q *Queue[T]) Dequeue() (T, error) {
	for {
		q.mu.Lock()
		if q.count > 0 {
			item := q.pop()
			if q.capacity > 0 && q.count == q.capacity-1 {
				q.spaceReady.TrySet(struct{}{}, nil)
			}
			q.mu.Unlock()
			return item, nil
		}
		if q.closed {
			q.mu.Unlock()
			var zero T
			return zero, errors.WithStack(ErrClosed)
		}
		wait := q.itemReady.Future()
		q.mu.Unlock()
		_, _ = wait.Get()
	}
}

// Close completes the adding side: subsequent Enqueue calls fail with
// ErrClosed, buffered items remain dequeueable, and a consumer suspended
// on an empty queue is woken to observe the closed state. Close is
// idempotent and never reverts.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.itemReady.TrySet(struct{}{}, nil)
	q.mu.Unlock()
}

// Len reports the number of buffered items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Cap reports the configured capacity; 0 means unbounded.
func (q *Queue[T]) Cap() int {
	return q.capacity
}

// Closed reports whether adding has completed.
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// push appends item to the ring; callers hold q.mu and have verified
// there is room (or that the queue is unbounded).
func (q *Queue[T]) push(item T) {
	if q.count == len(q.buf) {
		q.grow()
	}
	q.buf[(q.head+q.count)%len(q.buf)] = item
	q.count++
}

// pop removes the front item; callers hold q.mu and have verified
// count > 0. The vacated slot is zeroed so the queue does not pin
// dequeued values.
func (q *Queue[T]) pop() T {
	item := q.buf[q.head]
	var zero T
	q.buf[q.head] = zero
	q.head = (q.head + 1) % len(q.buf)
	q.count--
	return item
}

// grow doubles the ring of an unbounded queue, unwrapping it in the
// process. Bounded queues never grow.
func (q *Queue[T]) grow() {
	n := len(q.buf) * 2
	if n == 0 {
		n = 8
	}
	buf := make([]T, n)
	for i := 0; i < q.count; i++ {
		buf[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	q.buf = buf
	q.head = 0
}
