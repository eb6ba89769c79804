package offload

import "context"

// Task is the logic a worker runs for each request. Run must return once ctx
// is done; returning early is how a task honours cancellation.
type Task interface {
	Run(ctx context.Context, req Request) (any, error)
}

type TaskFunc func(ctx context.Context, req Request) (any, error)

func (f TaskFunc) Run(ctx context.Context, req Request) (any, error) {
	return f(ctx, req)
}

// EntryPoint builds the Task for one worker. It is called once per spawn so
// every worker owns its own task state.
type EntryPoint func() Task
