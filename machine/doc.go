// Package machine provides an effectful state-machine runtime: a pure
// transition function over an immutable state value, an algebra of effect
// descriptors the function may return, and a run loop that interprets those
// descriptors under explicit concurrency, ordering, and cancellation rules.
//
// # What is an effect here?
//
// A value describing deferred work. The transition function never performs
// side effects; it declares them by returning an Effect, and the run loop
// interprets that value after the step:
//
//   - EventOf: re-inject an event ahead of the external queue. Zero overhead.
//   - ActionOf: an inline computation whose result is follow-up events.
//   - OperationOf: a detached goroutine reporting back through Input.
//   - CancelOf: cancel the in-flight task registered under a key.
//   - SequenceOf: interpret sub-effects strictly in order.
//
// # Safety model
//
// State is touched by exactly one goroutine, the one executing Run. Detached
// operations communicate back only by sending events; they never see the
// state. Two descriptors sharing a key are single-flight: registering the
// second cancels the first.
//
// # Lifecycle
//
// A caller builds a Machine value, a Proxy, and an Environment, and starts
// exactly one run per proxy. The run ends on a terminal state (queue closed,
// tasks cancelled, final state returned) or on forced termination through
// Proxy.Terminate (queue discarded, run fails with the reason).
//
// Example:
//
//	func run() {
//	    proxy := machine.NewProxy[counterEvent](16)
//	    res, err := machine.Run(context.Background(), counterMachine(), proxy)
//	    ...
//	}
package machine
