package compose

import (
	"context"
	"errors"

	"go.uber.org/multierr"

	"github.com/couchdeveloper/Oak-sub003/machine"
)

// ConvertFunc translates a first-machine output into a second-machine event.
// It may be partial: ok=false means the output produces no event at all.
type ConvertFunc[OA, EB any] func(out OA) (EB, bool)

// RunSequential feeds the first machine's output stream through convert into
// the second machine's events. The second machine's run result is the
// composite's result; the first machine is cancelled once the second
// completes. Outputs that fail conversion produce no event for the second
// machine and never stall it.
//
// The first machine may run indefinitely; it does not need a terminal state.
func RunSequential[SA, EA, OA, EnvA, SB, EB, OB, EnvB any](
	ctx context.Context,
	first machine.Machine[SA, EA, OA, EnvA],
	firstProxy *machine.Proxy[EA],
	second machine.Machine[SB, EB, OB, EnvB],
	secondProxy *machine.Proxy[EB],
	convert ConvertFunc[OA, EB],
	firstOpts []machine.RunOption[SA, OA],
	secondOpts []machine.RunOption[SB, OB],
) (machine.Result[SB, OB], error) {
	firstCtx, cancelFirst := context.WithCancel(ctx)
	defer cancelFirst()

	forward := machine.WithObserver[SA, OA](func(snap machine.Snapshot[SA, OA]) {
		if snap.Output == nil {
			return
		}
		ev, ok := convert(*snap.Output)
		if !ok {
			return
		}
		// A send failure here means the second machine already ended; the
		// first is about to be cancelled, so the event has nowhere to go.
		_ = secondProxy.Send(ev)
	})
	firstOpts = append(firstOpts[:len(firstOpts):len(firstOpts)], forward)

	firstErrCh := make(chan error, 1)
	go func() {
		_, err := machine.Run(firstCtx, first, firstProxy, firstOpts...)
		firstErrCh <- err
	}()

	res, err := machine.Run(ctx, second, secondProxy, secondOpts...)

	cancelFirst()
	firstErr := <-firstErrCh
	if errors.Is(firstErr, context.Canceled) || errors.Is(firstErr, machine.ErrTerminated) {
		// Collateral cancellation is the expected way for the first machine
		// to end; it is not a composite failure.
		firstErr = nil
	}
	return res, multierr.Append(err, firstErr)
}
