package machine

import "fmt"

// Transition is the pure step function of a machine: it mutates s in place
// and returns an optional effect and an optional output.
//
// A Transition must be referentially transparent: calling it twice with equal
// arguments yields equal results. It must not touch anything outside its
// arguments; side effects are declared by returning an Effect and performed
// later by the run loop. It should be exhaustive over every (state variant,
// event variant) pair reachable in practice; for pairs that are programming
// errors, call Unhandled rather than silently ignoring the event.
type Transition[S, E, O, Env any] func(s *S, ev E) (Effect[Env, E], *O)

// TerminalMarker lets a state variant flag itself terminal. States of a
// Machine without an explicit Terminal predicate are checked against it.
type TerminalMarker interface {
	Terminal() bool
}

// Machine bundles everything a run needs: the initial state, the transition
// function, the environment handed to effect bodies, and the terminal
// predicate. Machines are plain values; the same Machine can back any number
// of independent runs.
type Machine[S, E, O, Env any] struct {
	Initial    S
	Transition Transition[S, E, O, Env]

	// Env is visible only inside effect bodies, never inside Transition.
	Env Env

	// Terminal reports whether s accepts no further events. When nil, states
	// implementing TerminalMarker are consulted; a machine with neither never
	// self-terminates.
	Terminal func(s S) bool
}

func (m Machine[S, E, O, Env]) isTerminal(s S) bool {
	if m.Terminal != nil {
		return m.Terminal(s)
	}
	if tm, ok := any(s).(TerminalMarker); ok {
		return tm.Terminal()
	}
	return false
}

// Unhandled marks a (state, event) combination the transition function has no
// legitimate answer for. It panics so the combination shows up in tests
// instead of being masked by a silent catch-all.
func Unhandled[S, E any](s S, ev E) {
	panic(fmt.Sprintf("machine: unhandled transition: state %T(%+v), event %T(%+v)", s, s, ev, ev))
}
