package offload

import "go.uber.org/zap"

type Option func(*Coordinator)

// WithEntryPoint makes task logic available to SpawnWorker under name.
func WithEntryPoint(name string, entryPoint EntryPoint) Option {
	return func(c *Coordinator) {
		c.entryPoints[name] = entryPoint
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Coordinator) {
		if log != nil {
			c.log = log
		}
	}
}

// WithMaxWorkers bounds the number of live workers; zero or less means no bound.
func WithMaxWorkers(n int) Option {
	return func(c *Coordinator) {
		c.maxWorkers = n
	}
}

// WithCheckEvery sets the cancellation check interval handed to task logic
// through its context.
func WithCheckEvery(n int) Option {
	return func(c *Coordinator) {
		c.checkEvery = n
	}
}
