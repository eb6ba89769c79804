package offload

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agpz23/offload/pkg/rop"
	"github.com/agpz23/offload/pkg/rop/core"
	"github.com/agpz23/offload/pkg/rop/solo"
)

type State string

const (
	StateIdle       State = "idle"
	StateRunning    State = "running"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
	StateCancelled  State = "cancelled"
	StateTerminated State = "terminated"
)

// worker owns its task and inbox. Nothing outside reaches the task; requests
// arrive as encoded bytes and results leave the same way.
type worker struct {
	id         uuid.UUID
	entryPoint string
	task       Task
	inbox      *core.Pipe[[]byte]
	emit       func(data []byte)
	log        *zap.Logger

	ctx  context.Context
	stop context.CancelFunc

	mu         sync.Mutex
	state      State
	cancelTask context.CancelFunc
}

func newWorker(parent context.Context, id uuid.UUID, entryPoint string, task Task,
	emit func(data []byte), log *zap.Logger) *worker {

	ctx, stop := context.WithCancel(core.WithWorkerOptions(parent, id.String(), entryPoint))
	return &worker{
		id:         id,
		entryPoint: entryPoint,
		task:       task,
		inbox:      core.NewPipe[[]byte](),
		emit:       emit,
		log:        log.With(zap.String("worker", id.String()), zap.String("entry_point", entryPoint)),
		ctx:        ctx,
		stop:       stop,
		state:      StateIdle,
	}
}

func (w *worker) run() {
	w.log.Debug("worker started")
	core.Locomotive(w.ctx, w.inbox.Out(), w.execute,
		func(ctx context.Context, data []byte) {
			w.emit(data)
			w.transition(StateIdle)
		},
		core.CancellationHandlers[[]byte]{
			OnCancel: func(ctx context.Context) {
				w.log.Debug("worker stopped")
			},
			OnCancelUnprocessed: func(ctx context.Context, _ []byte) {
				w.log.Debug("request dropped on shutdown")
			},
		})
	w.transition(StateTerminated)
}

// execute runs one request to completion and returns the encoded Result.
func (w *worker) execute(ctx context.Context, data []byte) []byte {
	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	w.mu.Lock()
	w.state = StateRunning
	w.cancelTask = cancel
	w.mu.Unlock()

	started := time.Now()
	req, err := decodeRequest(data)
	input := rop.Success(req)
	if err != nil {
		input = rop.Fail[Request](err)
	}

	out := solo.Try(taskCtx, input, w.runTask)
	out = solo.DoubleTee(taskCtx, out,
		func(ctx context.Context, _ json.RawMessage) {
			w.transition(StateCompleted)
			w.log.Debug("task completed", zap.Stringer("request", req.ID), zap.Duration("took", time.Since(started)))
		},
		func(ctx context.Context, err error) {
			w.transition(StateFailed)
			fields := []zap.Field{zap.Stringer("request", req.ID), zap.Error(err)}
			var pe *rop.PanicError
			if errors.As(err, &pe) {
				fields = append(fields, zap.ByteString("stack", pe.Stack))
			}
			w.log.Warn("task failed", fields...)
		},
		func(ctx context.Context, err error) {
			w.transition(StateCancelled)
			w.log.Debug("task cancelled", zap.Stringer("request", req.ID))
		})

	res := solo.Finally(taskCtx, out,
		func(ctx context.Context, payload json.RawMessage) Result {
			return Result{Outcome: OutcomeSuccess, Payload: payload}
		},
		func(ctx context.Context, err error) Result {
			return Result{Outcome: OutcomeFailure, Error: describe(err)}
		},
		func(ctx context.Context, err error) Result {
			return Result{Outcome: OutcomeCancelled, Error: describe(err)}
		})
	res.RequestID = req.ID
	res.CreatedAt = time.Now().UTC()

	w.mu.Lock()
	w.cancelTask = nil
	w.mu.Unlock()

	return encodeResult(res)
}

// runTask shields the worker from panics and reports a cancelled context as
// a cancellation whatever the task itself returned.
func (w *worker) runTask(ctx context.Context, req Request) (json.RawMessage, error) {
	v, err := rop.Recover(func() (any, error) {
		return w.task.Run(ctx, req)
	})
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	return encodePayload(v)
}

func (w *worker) submit(data []byte) error {
	if err := w.inbox.Send(data); err != nil {
		return ErrChannelClosed
	}
	return nil
}

// cancelCurrent cancels the in-flight task, if any. Queued requests are kept.
func (w *worker) cancelCurrent() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancelTask == nil {
		return false
	}
	w.cancelTask()
	return true
}

// terminate drops queued requests and stops the worker loop. It returns the
// number of requests dropped.
func (w *worker) terminate() int {
	dropped := w.inbox.Discard()
	w.stop()
	return dropped
}

func (w *worker) transition(s State) {
	w.mu.Lock()
	if w.state != StateTerminated {
		w.state = s
	}
	w.mu.Unlock()
}

// currentState hides the transient outcome states: a worker that finished a
// task but has not handed over its result yet is reported as idle.
func (w *worker) currentState() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case StateCompleted, StateFailed, StateCancelled:
		return StateIdle
	default:
		return w.state
	}
}

func describe(err error) string {
	if err == nil || err.Error() == "" {
		return "task failed without description"
	}
	return err.Error()
}
