package eventqueue

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrClosed is returned by Send once the queue stopped accepting events.
	ErrClosed = errors.New("eventqueue: queue is closed")

	// ErrTerminated is returned by Send and Receive after the queue was
	// forcibly terminated and its pending events discarded.
	ErrTerminated = errors.New("eventqueue: queue is terminated")

	// ErrFull is returned by Send when the queue is at capacity. Send never
	// blocks on a full queue; the caller must observe the failure.
	ErrFull = errors.New("eventqueue: queue is full")
)

type queueState int

const (
	stateOpen queueState = iota
	stateClosed
	stateTerminated
)

// Queue is a bounded FIFO of events with three lifecycle states:
//
//   - open: Send enqueues, Receive dequeues.
//   - closed: Send fails with ErrClosed, already-queued events still drain.
//   - terminated: queued events are discarded, Receive fails immediately.
//
// IMPORTANT:
// Queue supports multiple producers but assumes a **single consumer**.
// Concurrent Receive calls lead to undefined drain ordering.
type Queue[E any] struct {
	mu     sync.Mutex
	state  queueState
	ch     chan E
	done   chan struct{}
	reason error
}

func New[E any](capacity int) *Queue[E] {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue[E]{
		ch:   make(chan E, capacity),
		done: make(chan struct{}),
	}
}

// Send enqueues ev, failing fast with ErrClosed, ErrTerminated or ErrFull.
func (q *Queue[E]) Send(ev E) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	switch q.state {
	case stateClosed:
		return ErrClosed
	case stateTerminated:
		return ErrTerminated
	}
	select {
	case q.ch <- ev:
		return nil
	default:
		return ErrFull
	}
}

// Receive blocks until the next event is available.
//
// It returns (ev, true, nil) for an event, (zero, false, nil) once the queue
// is closed and fully drained, and (zero, false, err) when the queue was
// terminated or ctx expired.
func (q *Queue[E]) Receive(ctx context.Context) (E, bool, error) {
	var zero E

	// Termination wins over queued events.
	select {
	case <-q.done:
		return zero, false, q.Err()
	default:
	}

	select {
	case ev, ok := <-q.ch:
		if !ok {
			return zero, false, nil
		}
		return ev, true, nil
	case <-q.done:
		return zero, false, q.Err()
	case <-ctx.Done():
		return zero, false, ctx.Err()
	}
}

// Close stops accepting new events. Already-queued events remain receivable.
// Close is idempotent and a no-op after Terminate.
func (q *Queue[E]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.state != stateOpen {
		return
	}
	q.state = stateClosed
	close(q.ch)
}

// Terminate discards all queued events and unblocks the consumer with reason.
// A nil reason defaults to ErrTerminated. Idempotent; the first reason wins.
func (q *Queue[E]) Terminate(reason error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.state == stateTerminated {
		return
	}
	if q.state == stateOpen {
		close(q.ch)
	}
	q.state = stateTerminated
	if reason == nil {
		reason = ErrTerminated
	}
	q.reason = reason
	close(q.done)
}

// Done is closed once the queue has been terminated.
func (q *Queue[E]) Done() <-chan struct{} {
	return q.done
}

// Err returns the termination reason, or nil while the queue is not terminated.
func (q *Queue[E]) Err() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.reason
}
