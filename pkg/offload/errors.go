package offload

import (
	"errors"
	"fmt"
)

var (
	// ErrChannelClosed is returned when a terminated worker is addressed.
	ErrChannelClosed = errors.New("channel closed")
	// ErrSpawn matches every *SpawnError.
	ErrSpawn = errors.New("spawn error")
	// ErrTaskFailure wraps the description of a failed task result.
	ErrTaskFailure = errors.New("task failure")
	// ErrCancelled wraps the description of a cancelled task result.
	ErrCancelled = errors.New("task cancelled")
	// ErrUnknownCommand is reported by task logic for commands it does not handle.
	ErrUnknownCommand = errors.New("unknown command")

	ErrUnknownEntryPoint = errors.New("unknown entry point")
	ErrWorkerLimit       = errors.New("worker limit reached")
	ErrCoordinatorClosed = errors.New("coordinator closed")
)

// SpawnError reports why an isolated worker could not be created.
type SpawnError struct {
	EntryPoint string
	Err        error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn worker %q: %v", e.EntryPoint, e.Err)
}

func (e *SpawnError) Unwrap() []error {
	return []error{ErrSpawn, e.Err}
}
