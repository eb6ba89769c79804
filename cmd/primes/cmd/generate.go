package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agpz23/offload/internal/config"
	"github.com/agpz23/offload/internal/logging"
	"github.com/agpz23/offload/pkg/offload"
	"github.com/agpz23/offload/pkg/primes"
)

type generateFlags struct {
	quota   int
	limit   int
	collect bool
	workers int
	timeout time.Duration
}

var genFlags generateFlags

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Find --quota primes on each of --workers workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		log, err := logging.New(cfg.Log)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		params := map[string]any{"quota": genFlags.quota, "collect": genFlags.collect}
		if cmd.Flags().Changed("limit") {
			params["limit"] = genFlags.limit
		}
		return generate(cmd, cfg, log, params)
	},
}

func init() {
	generateCmd.Flags().IntVar(&genFlags.quota, "quota", 5, "primes to find per worker")
	generateCmd.Flags().IntVar(&genFlags.limit, "limit", primes.DefaultLimit, "upper bound for candidates")
	generateCmd.Flags().BoolVar(&genFlags.collect, "collect", false, "print the primes instead of their count")
	generateCmd.Flags().IntVar(&genFlags.workers, "workers", 1, "number of workers to spawn")
	generateCmd.Flags().DurationVar(&genFlags.timeout, "timeout", 0, "cancel unfinished searches after this long")
	rootCmd.AddCommand(generateCmd)
}

func generate(cmd *cobra.Command, cfg config.Config, log *zap.Logger, params map[string]any) error {
	workers := max(genFlags.workers, 1)
	if limit := cfg.Coordinator.MaxWorkers; limit > 0 && workers > limit {
		return fmt.Errorf("--workers %d exceeds coordinator.max_workers %d", workers, limit)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if genFlags.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, genFlags.timeout)
		defer cancel()
	}

	c := offload.NewCoordinator(
		offload.WithEntryPoint(primes.EntryPointName, primes.EntryPoint(primes.Config{
			Limit:      cfg.Primes.Limit,
			CheckEvery: cfg.Coordinator.CheckEvery,
			Seed:       cfg.Primes.Seed,
		})),
		offload.WithLogger(log),
		offload.WithMaxWorkers(cfg.Coordinator.MaxWorkers),
		offload.WithCheckEvery(cfg.Coordinator.CheckEvery),
	)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Close(closeCtx); err != nil {
			log.Warn("coordinator close", zap.Error(err))
		}
	}()

	results := make(chan offload.Result, workers)
	handles := make([]*offload.Handle, 0, workers)
	for i := 0; i < workers; i++ {
		h, err := c.SpawnWorker(primes.EntryPointName)
		if err != nil {
			return err
		}
		handles = append(handles, h)

		if err := c.OnResult(h, func(r offload.Result) { results <- r }); err != nil {
			return err
		}
		if err := c.Submit(h, offload.NewRequest(primes.CommandGenerate, params)); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	cancelAll := func() {
		for _, h := range handles {
			_ = c.Cancel(h)
		}
	}

	// a worker that had not picked its request up yet ignores a cancel, so
	// keep cancelling until every result is in
	done := ctx.Done()
	var retry <-chan time.Time
	failed := 0
	for received := 0; received < len(handles); {
		select {
		case <-done:
			cancelAll()
			done = nil
			ticker := time.NewTicker(50 * time.Millisecond)
			defer ticker.Stop()
			retry = ticker.C
		case <-retry:
			cancelAll()
		case res := <-results:
			received++
			if !res.IsSuccess() {
				failed++
				fmt.Fprintf(out, "%s %s: %s\n", res.RequestID, res.Outcome, res.Error)
				continue
			}
			var payload json.RawMessage
			_ = res.Decode(&payload)
			fmt.Fprintf(out, "%s %s: %s\n", res.RequestID, res.Outcome, payload)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d searches did not succeed", failed, len(handles))
	}
	return nil
}
