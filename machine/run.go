package machine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/couchdeveloper/Oak-sub003/machine/internal/taskregistry"
)

// Result carries the final state and the last output a run produced.
type Result[S, O any] struct {
	State  S
	Output *O
}

// Run drives m until it reaches a terminal state or is forcibly terminated.
//
// Exactly one goroutine, the calling one, ever touches the state: Run drains
// proxy's queue one event at a time, applies m.Transition, and interprets the
// returned effect before reading the next event. Events produced by event and
// action effects are processed ahead of everything already waiting in the
// external queue. Operation effects run as detached goroutines that report
// back only through the proxy's Input.
//
// Run returns the final state and last output with a nil error on terminal
// completion, or a non-nil error after forced termination, context expiry, or
// a fatal effect failure. In every case, all registered tasks are cancelled
// and joined before Run returns, and subsequent sends on the proxy fail.
//
// Attaching a proxy that is already in use by another run fails with
// ErrProxyInUse.
func Run[S, E, O, Env any](
	ctx context.Context,
	m Machine[S, E, O, Env],
	proxy *Proxy[E],
	opts ...RunOption[S, O],
) (Result[S, O], error) {
	cfg := defaultRunConfig[S, O]()
	for _, opt := range opts {
		opt(&cfg)
	}

	state := m.Initial
	var lastOut *O

	if err := proxy.attach(); err != nil {
		return Result[S, O]{State: state}, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	eng := &engine[S, E, O, Env]{
		m:        m,
		proxy:    proxy,
		registry: taskregistry.New(cfg.shards),
		runCtx:   runCtx,
		logger:   cfg.logger,
	}

	finish := func(err error) (Result[S, O], error) {
		if err != nil {
			// A run that ends abnormally must not leave senders believing
			// the queue is alive. Idempotent; the original reason wins.
			proxy.queue.Terminate(err)
		}
		eng.registry.CancelAll()
		cancel()
		eng.wg.Wait()
		return Result[S, O]{State: state, Output: lastOut}, err
	}

	if m.isTerminal(state) {
		proxy.queue.Close()
		return finish(nil)
	}

	for {
		ev, ok, err := eng.nextEvent(runCtx)
		if err != nil {
			eng.logger.Debug("run terminated while draining", zap.Error(err))
			return finish(err)
		}
		if !ok {
			// Queue closed and drained. Only the terminal path closes the
			// queue, so reaching this is a completed run.
			return finish(nil)
		}

		from := time.Now()
		eff, out := m.Transition(&state, ev)
		if out != nil {
			lastOut = out
		}
		eng.logger.Debug("step completed", zap.String("event", fmt.Sprintf("%T", ev)))

		var stepEvents []E
		if err := eng.interpret(eff, &stepEvents); err != nil {
			eng.logger.Error("fatal effect failure", zap.Error(err))
			return finish(err)
		}
		if len(stepEvents) > 0 {
			// Machine-originated events jump the external queue as one
			// ordered block.
			eng.pending = append(stepEvents, eng.pending...)
		}

		if cfg.observer != nil {
			cfg.observer(Snapshot[S, O]{State: state, Output: out, Span: stepSpan(from, time.Now())})
		}

		if m.isTerminal(state) {
			eng.logger.Debug("terminal state reached")
			proxy.queue.Close()
			return finish(nil)
		}
	}
}

type engine[S, E, O, Env any] struct {
	m        Machine[S, E, O, Env]
	proxy    *Proxy[E]
	registry *taskregistry.Registry
	runCtx   context.Context
	logger   *zap.Logger
	wg       sync.WaitGroup
	pending  []E
}

// nextEvent yields the next event to step with: forced termination first,
// then pending machine-originated events, then the external queue.
func (eng *engine[S, E, O, Env]) nextEvent(ctx context.Context) (E, bool, error) {
	select {
	case <-eng.proxy.queue.Done():
		var zero E
		return zero, false, eng.proxy.queue.Err()
	default:
	}
	if len(eng.pending) > 0 {
		ev := eng.pending[0]
		eng.pending = eng.pending[1:]
		return ev, true, nil
	}
	return eng.proxy.queue.Receive(ctx)
}

// interpret walks one effect, collecting immediately re-injected events into
// out. Only fatal failures return an error.
func (eng *engine[S, E, O, Env]) interpret(eff Effect[Env, E], out *[]E) error {
	if eff == nil {
		return nil
	}
	switch ef := eff.(type) {
	case eventEffect[Env, E]:
		*out = append(*out, ef.event)

	case actionEffect[Env, E]:
		if ef.key != "" {
			eng.registry.Cancel(ef.key)
		}
		evs, err := ef.body(eng.runCtx, eng.m.Env)
		if err != nil {
			return fmt.Errorf("%w: action %q: %w", ErrFatalEffect, ef.key, err)
		}
		*out = append(*out, evs...)

	case operationEffect[Env, E]:
		eng.startOperation(ef)

	case cancelEffect[Env, E]:
		eng.registry.Cancel(ef.key)

	case sequenceEffect[Env, E]:
		for _, sub := range ef.effects {
			if err := eng.interpret(sub, out); err != nil {
				return err
			}
		}

	default:
		// Effect is a sealed interface, so this should never happen.
		// Bug in this package.
		panic(fmt.Sprintf("machine: unrecognized effect variant: %T", eff))
	}
	return nil
}

// startOperation spawns the detached task for an operation effect,
// registering it for single-flight replacement and cancellation.
func (eng *engine[S, E, O, Env]) startOperation(ef operationEffect[Env, E]) {
	key := ef.key
	if key == "" {
		key = uuid.New().String()
	}
	taskCtx, cancelTask := context.WithCancel(eng.runCtx)
	token := eng.registry.Register(key, cancelTask)
	eng.logger.Debug("operation registered", zap.String("key", key))

	eng.wg.Add(1)
	ready := make(chan struct{})
	go func() {
		defer eng.wg.Done()
		defer eng.registry.Deregister(key, token)
		defer cancelTask()
		defer func() {
			if r := recover(); r != nil {
				eng.logger.Error("panic in operation body",
					zap.String("key", key),
					zap.Any("error", r),
				)
			}
		}()
		close(ready)

		err := ef.body(taskCtx, eng.m.Env, eng.proxy)
		if err == nil {
			return
		}
		if taskCtx.Err() != nil || errors.Is(err, ErrSendClosed) || errors.Is(err, ErrTerminated) {
			// Cancelled, or the run already ended on its own; the task
			// simply disappears from the registry.
			return
		}
		// The body could not deliver its mandatory events (or failed
		// outright). Letting this pass would park the run forever, so it
		// escalates to run-level cancellation.
		eng.logger.Error("operation failed fatally", zap.String("key", key), zap.Error(err))
		eng.proxy.Terminate(fmt.Errorf("%w: operation %q: %w", ErrFatalEffect, key, err))
	}()
	<-ready
}
