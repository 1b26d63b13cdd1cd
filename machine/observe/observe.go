// Package observe provides the two observer shapes the runtime promises to
// outer layers: a "latest value" cell and a "stream of values" fan-out.
// Neither knows anything about rendering; they only move snapshots.
package observe

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/couchdeveloper/Oak-sub003/machine"
)

// Latest retains the most recent snapshot of a run, safe for concurrent
// reads from any goroutine.
type Latest[S, O any] struct {
	v atomic.Pointer[machine.Snapshot[S, O]]
}

func NewLatest[S, O any]() *Latest[S, O] {
	return &Latest[S, O]{}
}

// Observer returns the hook to install via machine.WithObserver.
func (l *Latest[S, O]) Observer() machine.Observer[S, O] {
	return func(snap machine.Snapshot[S, O]) {
		l.v.Store(&snap)
	}
}

// Load returns the most recent snapshot, or ok=false before the first step.
func (l *Latest[S, O]) Load() (machine.Snapshot[S, O], bool) {
	p := l.v.Load()
	if p == nil {
		var zero machine.Snapshot[S, O]
		return zero, false
	}
	return *p, true
}

// Stream fans snapshots out to subscriber channels. Delivery is
// non-blocking: a subscriber that cannot keep up loses snapshots (logged at
// warn level) rather than stalling the run loop.
type Stream[S, O any] struct {
	mu     sync.Mutex
	sinks  []chan machine.Snapshot[S, O]
	closed bool
	logger *zap.Logger
}

func NewStream[S, O any](logger *zap.Logger) *Stream[S, O] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Stream[S, O]{logger: logger}
}

// Subscribe registers a new sink holding at most buffer snapshots.
// Subscribing to a closed stream returns an already-closed channel.
func (s *Stream[S, O]) Subscribe(buffer int) <-chan machine.Snapshot[S, O] {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan machine.Snapshot[S, O], buffer)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return ch
	}
	s.sinks = append(s.sinks, ch)
	return ch
}

// Observer returns the hook to install via machine.WithObserver.
func (s *Stream[S, O]) Observer() machine.Observer[S, O] {
	return func(snap machine.Snapshot[S, O]) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		for _, sink := range s.sinks {
			select {
			case sink <- snap:
			default:
				s.logger.Warn("slow subscriber, snapshot dropped")
			}
		}
	}
}

// Close closes every subscriber channel. Snapshots observed afterwards are
// discarded.
func (s *Stream[S, O]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, sink := range s.sinks {
		close(sink)
	}
	s.sinks = nil
}
