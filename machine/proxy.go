package machine

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/couchdeveloper/Oak-sub003/machine/internal/eventqueue"
)

// Input is the event-submission capability handed to operation bodies and to
// external producers. Send fails fast with ErrSendClosed, ErrSendFull or
// ErrTerminated; it never blocks and never silently drops.
type Input[E any] interface {
	Send(ev E) error
}

// Proxy is the externally-held handle of a run: an Input plus termination
// control and an identity. A proxy is constructed independently of any run
// and attaches to exactly one; attaching it a second time is a usage-contract
// violation reported by Run, never silently ignored.
type Proxy[E any] struct {
	id       string
	queue    *eventqueue.Queue[E]
	attached atomic.Bool
}

// NewProxy creates a detached proxy whose queue holds at most capacity
// events. Capacities below one are raised to one.
func NewProxy[E any](capacity int) *Proxy[E] {
	return &Proxy[E]{
		id:    uuid.New().String(),
		queue: eventqueue.New[E](capacity),
	}
}

// ID returns the proxy identity, usable for equality and attachment checks.
func (p *Proxy[E]) ID() string { return p.id }

// Send enqueues ev for the attached run.
func (p *Proxy[E]) Send(ev E) error {
	return p.queue.Send(ev)
}

// Terminate forcibly ends the attached run, discarding all queued events.
// A nil reason defaults to ErrTerminated. Idempotent; the first reason wins.
func (p *Proxy[E]) Terminate(reason error) {
	p.queue.Terminate(reason)
}

// attach claims the proxy for one run invocation.
func (p *Proxy[E]) attach() error {
	if !p.attached.CompareAndSwap(false, true) {
		return fmt.Errorf("%w: proxy %s", ErrProxyInUse, p.id)
	}
	return nil
}
