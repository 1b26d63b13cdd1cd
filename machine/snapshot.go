package machine

import (
	"time"

	"github.com/rickb777/date/v2/timespan"
)

type TimeSpan = timespan.TimeSpan

// Snapshot is what an observer receives after each completed step: a copy of
// the state, the output the step produced (nil for output-less steps), and
// the wall-clock span the step occupied.
type Snapshot[S, O any] struct {
	State  S
	Output *O
	Span   TimeSpan
}

// Observer is called by the run loop after each step, from the loop
// goroutine. It must not block; hand values off to your own machinery (see
// package observe) instead of doing work inline.
type Observer[S, O any] func(snap Snapshot[S, O])

func stepSpan(from, to time.Time) TimeSpan {
	return timespan.BetweenTimes(from, to)
}
