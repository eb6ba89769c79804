package core

import "context"

type OptionKey string

const (
	CheckOptionKey  OptionKey = "check_options"
	WorkerOptionKey OptionKey = "worker_options"
)

type CheckOptions struct {
	Every int
}

type WorkerOptions struct {
	ID         string
	EntryPoint string
}

// WithCheckEvery sets how many loop iterations a task may run between two
// cancellation checks.
func WithCheckEvery(ctx context.Context, every int) context.Context {
	return context.WithValue(ctx, CheckOptionKey, CheckOptions{Every: every})
}

func GetCheckEvery(ctx context.Context, defaultEvery int) int {
	options, ok := ctx.Value(CheckOptionKey).(CheckOptions)
	if ok && options.Every > 0 {
		return options.Every
	}
	return defaultEvery
}

func WithWorkerOptions(ctx context.Context, id, entryPoint string) context.Context {
	return context.WithValue(ctx, WorkerOptionKey, WorkerOptions{ID: id, EntryPoint: entryPoint})
}

func GetWorkerOptions(ctx context.Context) (WorkerOptions, bool) {
	options, ok := ctx.Value(WorkerOptionKey).(WorkerOptions)
	return options, ok
}
