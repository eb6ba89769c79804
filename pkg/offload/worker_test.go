package offload

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agpz23/offload/pkg/rop/core"
)

func newTestWorker(t *testing.T, task Task) *worker {
	t.Helper()

	w := newWorker(context.Background(), uuid.New(), "test", task, func([]byte) {}, zap.NewNop())
	t.Cleanup(func() { w.terminate() })
	return w
}

func TestWorker_StateHidesOutcomeStates(t *testing.T) {
	t.Parallel()

	w := newTestWorker(t, TaskFunc(func(context.Context, Request) (any, error) { return nil, nil }))
	assert.Equal(t, StateIdle, w.currentState())

	w.transition(StateRunning)
	assert.Equal(t, StateRunning, w.currentState())

	for _, s := range []State{StateCompleted, StateFailed, StateCancelled} {
		w.transition(s)
		assert.Equal(t, StateIdle, w.currentState(), "state %s", s)
	}

	w.transition(StateTerminated)
	w.transition(StateCompleted)
	assert.Equal(t, StateTerminated, w.currentState())
}

func TestWorker_TaskSeesWorkerOptions(t *testing.T) {
	t.Parallel()

	w := newTestWorker(t, TaskFunc(func(ctx context.Context, _ Request) (any, error) {
		opts, ok := core.GetWorkerOptions(ctx)
		if !ok {
			return nil, ErrTaskFailure
		}
		return opts, nil
	}))

	data, err := encodeRequest(NewRequest("whoami", nil))
	require.NoError(t, err)

	res, err := decodeResult(w.execute(w.ctx, data))
	require.NoError(t, err)
	require.True(t, res.IsSuccess(), res.Error)

	var opts core.WorkerOptions
	require.NoError(t, res.Decode(&opts))
	assert.Equal(t, w.id.String(), opts.ID)
	assert.Equal(t, "test", opts.EntryPoint)
	assert.Equal(t, StateIdle, w.currentState())
}
