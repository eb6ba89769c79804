package offload

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/agpz23/offload/pkg/rop"
	"github.com/agpz23/offload/pkg/rop/core"
)

// Handle identifies one live worker. It is owned by the Coordinator that
// spawned it and is only meaningful to that Coordinator.
type Handle struct {
	id         uuid.UUID
	entryPoint string
	w          *worker
	terminated atomic.Bool

	// touched only by the dispatch goroutine
	callback func(Result)
	pending  []Result
}

func (h *Handle) ID() uuid.UUID {
	return h.id
}

func (h *Handle) EntryPoint() string {
	return h.entryPoint
}

// event is a unit of work for the dispatch goroutine: either an encoded
// result from a worker or a callback registration.
type event struct {
	handle   *Handle
	data     []byte
	register func(Result)
}

// Coordinator spawns workers, feeds them requests and delivers their results.
// Callbacks registered with OnResult run one at a time on a single dispatch
// goroutine, in the order results were emitted.
type Coordinator struct {
	log         *zap.Logger
	entryPoints map[string]EntryPoint
	maxWorkers  int
	checkEvery  int

	ctx     context.Context
	slots   *semaphore.Weighted
	workers errgroup.Group
	events  *core.Pipe[event]
	done    chan struct{}

	mu      sync.Mutex
	handles map[uuid.UUID]*Handle
	closed  bool
}

func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{
		log:         zap.NewNop(),
		entryPoints: make(map[string]EntryPoint),
		handles:     make(map[uuid.UUID]*Handle),
		events:      core.NewPipe[event](),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.maxWorkers > 0 {
		c.slots = semaphore.NewWeighted(int64(c.maxWorkers))
	}
	c.ctx = context.Background()
	if c.checkEvery > 0 {
		c.ctx = core.WithCheckEvery(c.ctx, c.checkEvery)
	}

	go c.dispatch()
	return c
}

// SpawnWorker creates an isolated worker running the task logic registered
// under entryPoint.
func (c *Coordinator) SpawnWorker(entryPoint string) (*Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, &SpawnError{EntryPoint: entryPoint, Err: ErrCoordinatorClosed}
	}

	factory, ok := c.entryPoints[entryPoint]
	if !ok || factory == nil {
		return nil, &SpawnError{EntryPoint: entryPoint, Err: ErrUnknownEntryPoint}
	}

	if c.slots != nil && !c.slots.TryAcquire(1) {
		return nil, &SpawnError{EntryPoint: entryPoint,
			Err: fmt.Errorf("%w: %d", ErrWorkerLimit, c.maxWorkers)}
	}

	task, err := rop.Recover(func() (Task, error) { return factory(), nil })
	if err == nil && task == nil {
		err = errors.New("entry point returned no task")
	}
	if err != nil {
		c.release()
		return nil, &SpawnError{EntryPoint: entryPoint, Err: err}
	}

	h := &Handle{id: uuid.New(), entryPoint: entryPoint}
	h.w = newWorker(c.ctx, h.id, entryPoint, task, func(data []byte) {
		if err := c.events.Send(event{handle: h, data: data}); err != nil {
			h.w.log.Debug("result dropped, coordinator closed")
		}
	}, c.log)
	c.handles[h.id] = h

	c.workers.Go(func() error {
		h.w.run()
		return nil
	})

	c.log.Info("worker spawned", zap.Stringer("worker", h.id), zap.String("entry_point", entryPoint))
	return h, nil
}

// Submit enqueues a copy of req for the worker. It never waits for the worker.
func (c *Coordinator) Submit(h *Handle, req Request) error {
	if err := c.check(h); err != nil {
		return err
	}

	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	data, err := encodeRequest(req)
	if err != nil {
		return err
	}

	if err := h.w.submit(data); err != nil {
		return err
	}
	c.log.Debug("request submitted", zap.Stringer("worker", h.id),
		zap.Stringer("request", req.ID), zap.String("command", string(req.Command)))
	return nil
}

// OnResult registers the callback that receives the handle's results. Results
// emitted before registration are held and delivered first, in order.
func (c *Coordinator) OnResult(h *Handle, callback func(Result)) error {
	if err := c.check(h); err != nil {
		return err
	}
	if callback == nil {
		return errors.New("nil result callback")
	}
	if err := c.events.Send(event{handle: h, register: callback}); err != nil {
		return ErrChannelClosed
	}
	return nil
}

// Cancel aborts the task currently running on the handle's worker. The task
// reports a cancelled result. It is a no-op while the worker is idle.
func (c *Coordinator) Cancel(h *Handle) error {
	if err := c.check(h); err != nil {
		return err
	}
	if h.w.cancelCurrent() {
		c.log.Debug("task cancel requested", zap.Stringer("worker", h.id))
	}
	return nil
}

// Terminate shuts the worker down. Queued requests are dropped and no further
// results are delivered for the handle. Calling it again has no effect.
func (c *Coordinator) Terminate(h *Handle) {
	if h == nil || !h.terminated.CompareAndSwap(false, true) {
		return
	}

	dropped := h.w.terminate()
	c.release()

	c.mu.Lock()
	delete(c.handles, h.id)
	c.mu.Unlock()

	c.log.Info("worker terminated", zap.Stringer("worker", h.id), zap.Int("dropped", dropped))
}

// State reports the worker's state as last observed.
func (c *Coordinator) State(h *Handle) State {
	if h == nil || h.terminated.Load() {
		return StateTerminated
	}
	return h.w.currentState()
}

// Close terminates every worker and waits for them and the dispatch goroutine
// to stop. Pending callbacks for live handles are not run after Close.
//
// Close must not be called from an OnResult callback: the dispatch goroutine
// cannot wait for itself, so such a call only returns once ctx is done. When
// ctx ends first, queued results are dropped so dispatch exits on its own.
func (c *Coordinator) Close(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	handles := make([]*Handle, 0, len(c.handles))
	for _, h := range c.handles {
		handles = append(handles, h)
	}
	c.mu.Unlock()

	for _, h := range handles {
		c.Terminate(h)
	}

	stopped := make(chan error, 1)
	go func() { stopped <- c.workers.Wait() }()

	select {
	case err := <-stopped:
		c.events.Close()
		select {
		case <-c.done:
			return err
		case <-ctx.Done():
		}
	case <-ctx.Done():
	}

	dropped := c.events.Discard()
	c.log.Warn("coordinator close timed out", zap.Int("dropped", dropped))
	return fmt.Errorf("close coordinator: %w", ctx.Err())
}

func (c *Coordinator) check(h *Handle) error {
	if h == nil {
		return errors.New("nil worker handle")
	}
	if h.terminated.Load() {
		return ErrChannelClosed
	}
	return nil
}

func (c *Coordinator) release() {
	if c.slots != nil {
		c.slots.Release(1)
	}
}

// dispatch is the coordinator's own execution context for callbacks.
func (c *Coordinator) dispatch() {
	defer close(c.done)

	for ev := range c.events.Out() {
		h := ev.handle
		if h.terminated.Load() {
			continue
		}

		if ev.register != nil {
			h.callback = ev.register
			pending := h.pending
			h.pending = nil
			for _, res := range pending {
				c.deliver(h, res)
			}
			continue
		}

		res, err := decodeResult(ev.data)
		if err != nil {
			c.log.Error("undecodable result", zap.Stringer("worker", h.id), zap.Error(err))
			continue
		}
		if h.callback == nil {
			h.pending = append(h.pending, res)
			continue
		}
		c.deliver(h, res)
	}
}

func (c *Coordinator) deliver(h *Handle, res Result) {
	if h.terminated.Load() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("result callback panicked", zap.Stringer("worker", h.id), zap.Any("panic", r))
		}
	}()
	h.callback(res)
}
