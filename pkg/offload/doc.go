// Package offload moves work from a coordinator to isolated workers.
//
// A Coordinator spawns workers from named entry points and talks to each one
// through its Handle. Requests and results cross between the two sides only
// as encoded copies, so a worker's state is never reachable from the
// coordinator and the other way round.
//
// Each worker runs one request at a time, in submission order, and answers
// every accepted request with exactly one Result whose outcome is success,
// failure or cancelled. Task errors and panics become failure results; they
// never stop the worker.
//
//	c := offload.NewCoordinator(offload.WithEntryPoint("primes", primes.EntryPoint(primes.Defaults())))
//	h, err := c.SpawnWorker("primes")
//	_ = c.OnResult(h, func(r offload.Result) { ... })
//	_ = c.Submit(h, offload.NewRequest(primes.CommandGenerate, map[string]any{"quota": 5}))
package offload
