package core

import "context"

type CancellationHandlers[In any] struct {
	// OnCancel runs once when ctx is done before the input channel closed.
	OnCancel func(ctx context.Context)
	// OnCancelUnprocessed receives a value that was taken from the input
	// channel after ctx was done; the engine never saw it.
	OnCancelUnprocessed func(ctx context.Context, unprocessed In)
}

// Locomotive drives values from inputCh through engine one at a time and hands
// each output to sink before taking the next input. It returns when inputCh is
// closed or ctx is done.
func Locomotive[In, Out any](ctx context.Context, inputCh <-chan In,
	engine func(ctx context.Context, input In) Out,
	sink func(ctx context.Context, out Out),
	handlers CancellationHandlers[In]) {

	for {
		select {
		case <-ctx.Done():
			if handlers.OnCancel != nil {
				handlers.OnCancel(ctx)
			}
			return
		case in, ok := <-inputCh:
			if !ok {
				return
			}

			if ctx.Err() != nil {
				if handlers.OnCancelUnprocessed != nil {
					handlers.OnCancelUnprocessed(ctx, in)
				}
				if handlers.OnCancel != nil {
					handlers.OnCancel(ctx)
				}
				return
			}

			out := engine(ctx, in)
			if sink != nil {
				sink(ctx, out)
			}
		}
	}
}
