package machine

import (
	"errors"

	"github.com/couchdeveloper/Oak-sub003/machine/internal/eventqueue"
)

var (
	// ErrSendClosed is returned by Input.Send once the machine reached a
	// terminal state and its queue stopped accepting events.
	ErrSendClosed = eventqueue.ErrClosed

	// ErrSendFull is returned by Input.Send when the event queue is at
	// capacity. Send never blocks and never silently drops.
	ErrSendFull = eventqueue.ErrFull

	// ErrTerminated is the run error after a forced termination without an
	// explicit reason, and the Input.Send error afterwards.
	ErrTerminated = eventqueue.ErrTerminated

	// ErrProxyInUse reports an attempt to attach a proxy to a second run.
	ErrProxyInUse = errors.New("machine: proxy already attached to a run")

	// ErrFatalEffect wraps the error an operation or action body returned,
	// escalated to run-level cancellation. The prominent member of this class
	// is a failed mandatory completion send, which would otherwise leave the
	// run hanging forever.
	ErrFatalEffect = errors.New("machine: effect body failed fatally")
)
