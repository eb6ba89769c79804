package primes

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/agpz23/offload/pkg/offload"
	"github.com/agpz23/offload/pkg/rop/chain"
	"github.com/agpz23/offload/pkg/rop/core"
)

const (
	EntryPointName                  = "primes"
	CommandGenerate offload.Command = "generate"
)

// Config holds the defaults a prime worker applies to every request.
type Config struct {
	Limit      int
	CheckEvery int
	// Seed makes draws reproducible; zero seeds from the clock.
	Seed uint64
}

func Defaults() Config {
	return Config{Limit: DefaultLimit, CheckEvery: DefaultCheckEvery}
}

// EntryPoint gives each worker its own random source. The source is created on
// the first request, keyed by the worker id found in the request context.
func EntryPoint(cfg Config) offload.EntryPoint {
	return func() offload.Task {
		seed := cfg.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		return &task{cfg: cfg, seed: seed}
	}
}

type task struct {
	cfg  Config
	seed uint64
	rng  *rand.Rand
}

// Stream derives a PCG stream from the worker id stored in ctx. Outside a
// worker it is zero.
func Stream(ctx context.Context) uint64 {
	opts, ok := core.GetWorkerOptions(ctx)
	if !ok {
		return 0
	}
	id, err := uuid.Parse(opts.ID)
	if err != nil {
		return 0
	}
	return binary.BigEndian.Uint64(id[:8]) ^ binary.BigEndian.Uint64(id[8:])
}

func (t *task) source(ctx context.Context) *rand.Rand {
	if t.rng == nil {
		t.rng = rand.New(rand.NewPCG(t.seed, Stream(ctx)))
	}
	return t.rng
}

type outcome struct {
	opts   Options
	primes []int
}

func (t *task) Run(ctx context.Context, req offload.Request) (any, error) {
	if req.Command != CommandGenerate {
		return nil, fmt.Errorf("%w: %q", offload.ErrUnknownCommand, req.Command)
	}

	opts := chain.ThenTry(chain.FromValue(ctx, req), t.options).
		Validate(func(_ context.Context, o Options) (bool, string) {
			if o.Quota < 0 {
				return false, "quota must not be negative"
			}
			return true, ""
		}).
		Validate(func(_ context.Context, o Options) (bool, string) {
			if o.Limit <= 2 {
				return false, "limit must be greater than 2"
			}
			if o.Limit > MaxLimit {
				return false, fmt.Sprintf("limit must not exceed %d", MaxLimit)
			}
			return true, ""
		})

	found := chain.ThenTry(opts, func(ctx context.Context, o Options) (outcome, error) {
		primes, err := Search(ctx, o, t.source(ctx))
		return outcome{opts: o, primes: primes}, err
	})

	payload := chain.Map(found, func(_ context.Context, o outcome) any {
		if o.opts.Collect {
			return o.primes
		}
		return len(o.primes)
	}).Result()

	if !payload.IsSuccess() {
		return nil, payload.Err()
	}
	return payload.Result(), nil
}

func (t *task) options(ctx context.Context, req offload.Request) (Options, error) {
	opts := Options{
		Limit:      t.cfg.Limit,
		CheckEvery: core.GetCheckEvery(ctx, t.cfg.CheckEvery),
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}

	quota, err := req.Int("quota")
	if err != nil {
		return Options{}, err
	}
	opts.Quota = quota

	if req.Has("limit") {
		if opts.Limit, err = req.Int("limit"); err != nil {
			return Options{}, err
		}
	}
	if req.Has("collect") {
		if opts.Collect, err = req.Bool("collect"); err != nil {
			return Options{}, err
		}
	}
	return opts, nil
}
