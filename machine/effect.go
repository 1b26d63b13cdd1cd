package machine

import "context"

// Effect describes work the run loop performs after a step. Values are inert:
// constructing one has no observable side effect, which is what lets a pure
// transition function return them. Interpretation happens exclusively inside
// the run loop.
//
// Effect is a sealed interface; the run loop panics on an unknown variant
// because that is a bug in this package, not recoverable input.
type Effect[Env, E any] interface {
	sealedEffect()
}

// ActionFunc is the body of an action effect. It runs inline with respect to
// the run loop's forward progress and returns the follow-up events to inject
// before the external queue is drained again. Because it blocks the loop, it
// is expected to return quickly.
type ActionFunc[Env, E any] func(ctx context.Context, env Env) ([]E, error)

// OperationFunc is the body of an operation effect. It runs as a detached
// goroutine and must deliver its results by sending events through input.
// Sending a completion event is mandatory: an operation that never sends one
// leaves the machine parked in its drain phase forever. Send failures must be
// returned, not swallowed; the run loop treats them as fatal to the run.
type OperationFunc[Env, E any] func(ctx context.Context, env Env, input Input[E]) error

type eventEffect[Env, E any] struct {
	event E
}

type actionEffect[Env, E any] struct {
	key  string
	body ActionFunc[Env, E]
}

type operationEffect[Env, E any] struct {
	key  string
	body OperationFunc[Env, E]
}

type cancelEffect[Env, E any] struct {
	key string
}

type sequenceEffect[Env, E any] struct {
	effects []Effect[Env, E]
}

func (eventEffect[Env, E]) sealedEffect()     {}
func (actionEffect[Env, E]) sealedEffect()    {}
func (operationEffect[Env, E]) sealedEffect() {}
func (cancelEffect[Env, E]) sealedEffect()    {}
func (sequenceEffect[Env, E]) sealedEffect()  {}

// EventOf requests immediate re-injection of ev, ahead of any event already
// waiting in the external queue. This is the lowest-latency effect: no task
// and no scheduling is involved.
func EventOf[Env, E any](ev E) Effect[Env, E] {
	return eventEffect[Env, E]{event: ev}
}

// ActionOf requests an inline computation producing follow-up events.
// A non-empty key participates in single-flight: any in-flight operation
// registered under the same key is cancelled before body runs.
func ActionOf[Env, E any](key string, body ActionFunc[Env, E]) Effect[Env, E] {
	return actionEffect[Env, E]{key: key, body: body}
}

// OperationOf requests a detached concurrent task. A non-empty key
// participates in single-flight: registering a new operation under a key
// cancels the one already in flight. An empty key gets a generated one, so
// the task is cancellable at termination but unreachable by CancelOf.
func OperationOf[Env, E any](key string, body OperationFunc[Env, E]) Effect[Env, E] {
	return operationEffect[Env, E]{key: key, body: body}
}

// CancelOf requests cancellation of the in-flight task registered under key.
// A miss is not an error.
func CancelOf[Env, E any](key string) Effect[Env, E] {
	return cancelEffect[Env, E]{key: key}
}

// SequenceOf composes effects in order: each element is fully interpreted
// before the next begins.
func SequenceOf[Env, E any](effects ...Effect[Env, E]) Effect[Env, E] {
	return sequenceEffect[Env, E]{effects: effects}
}
