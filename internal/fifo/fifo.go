// Package fifo provides an unbounded first-in first-out queue with a single blocking consumer.
//
// Producers never block on Push, which is what lets the connection reader hand lines to the
// dispatcher without being slowed down by handler code, and lets any number of goroutines
// enqueue outgoing lines while exactly one writer drains them in order.
package fifo

import (
	"context"
	"sync"
)

// Queue is an unbounded FIFO queue.
// Items are popped in exactly the order in which Push calls acquired the queue lock.
type Queue[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool

	// signal has a buffer of one; a pending value means "items may be available".
	signal chan struct{}
	done   chan struct{}
}

// New returns an empty, open queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Push appends v to the queue. It reports false if the queue was already closed,
// in which case v is discarded.
func (q *Queue[T]) Push(v T) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, v)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// Pop removes and returns the oldest item, blocking until one is available.
// After Close, Pop keeps returning the remaining items and then reports false.
// Pop also reports false when ctx is done.
func (q *Queue[T]) Pop(ctx context.Context) (T, bool) {
	var zero T
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			v := q.items[0]
			q.items[0] = zero
			q.items = q.items[1:]
			if len(q.items) == 0 {
				// let the backing array go instead of growing forever
				q.items = nil
			}
			q.mu.Unlock()
			return v, true
		}
		if q.closed {
			q.mu.Unlock()
			return zero, false
		}
		q.mu.Unlock()

		select {
		case <-q.signal:
		case <-q.done:
		case <-ctx.Done():
			return zero, false
		}
	}
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops the queue from accepting new items. Items already queued can still be popped.
// Close is safe to call more than once.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}

// Closed reports whether Close has been called.
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
