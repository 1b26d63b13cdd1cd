// Package compose lifts two independently-defined machines into one: in
// parallel, where both run concurrently behind a tagged-union event type, or
// sequentially, where the first machine's outputs are translated into the
// second machine's events.
//
// Composition treats machine.Run as a black box: each constituent keeps its
// own run loop, so no machine ever executes two transition steps
// concurrently, and cancelling the composite cancels both constituents.
package compose

import (
	"context"

	"go.uber.org/multierr"

	"github.com/couchdeveloper/Oak-sub003/machine"
)

// ParallelResult pairs the outcomes of the two constituents. Outputs pass
// through independently: observe them per side via firstOpts/secondOpts, or
// read each side's last output here.
type ParallelResult[SA, OA, SB, OB any] struct {
	First  machine.Result[SA, OA]
	Second machine.Result[SB, OB]
}

// RunParallel runs both machines as independent run loops under one umbrella
// run and returns once both have ended. A failure on either side cancels the
// other; neither constituent can outlive this call. The returned error
// aggregates both sides' run errors.
func RunParallel[SA, EA, OA, EnvA, SB, EB, OB, EnvB any](
	ctx context.Context,
	first machine.Machine[SA, EA, OA, EnvA],
	second machine.Machine[SB, EB, OB, EnvB],
	proxy *Proxy[EA, EB],
	firstOpts []machine.RunOption[SA, OA],
	secondOpts []machine.RunOption[SB, OB],
) (ParallelResult[SA, OA, SB, OB], error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type firstOut struct {
		res machine.Result[SA, OA]
		err error
	}
	type secondOut struct {
		res machine.Result[SB, OB]
		err error
	}

	firstCh := make(chan firstOut, 1)
	secondCh := make(chan secondOut, 1)

	go func() {
		res, err := machine.Run(ctx, first, proxy.first, firstOpts...)
		firstCh <- firstOut{res: res, err: err}
	}()
	go func() {
		res, err := machine.Run(ctx, second, proxy.second, secondOpts...)
		secondCh <- secondOut{res: res, err: err}
	}()

	var result ParallelResult[SA, OA, SB, OB]
	var firstErr, secondErr error
	for firstCh != nil || secondCh != nil {
		select {
		case out := <-firstCh:
			result.First, firstErr = out.res, out.err
			firstCh = nil
			if firstErr != nil {
				cancel()
			}
		case out := <-secondCh:
			result.Second, secondErr = out.res, out.err
			secondCh = nil
			if secondErr != nil {
				cancel()
			}
		}
	}

	return result, multierr.Append(firstErr, secondErr)
}
