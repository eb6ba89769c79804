// Package primes is the reference task logic: it collects primes by drawing
// random candidates and testing each one by trial division.
package primes

import (
	"context"
	"math/rand/v2"
)

const (
	DefaultLimit      = 1_000_000
	DefaultCheckEvery = 1
	// MaxLimit keeps a single candidate's trial division around a million
	// divisors.
	MaxLimit = 1 << 40

	divisorsPerCheck = 1 << 12
)

type Options struct {
	// Quota is the number of primes to collect.
	Quota int
	// Limit bounds candidates to [2, Limit).
	Limit int
	// CheckEvery is the number of draws between two cancellation checks.
	CheckEvery int
	// Collect returns the primes themselves instead of their count.
	Collect bool
}

func IsPrime(n int) bool {
	prime, _ := isPrime(context.Background(), n)
	return prime
}

// isPrime is trial division that looks at ctx every divisorsPerCheck divisors,
// so one large candidate cannot outlast a cancel.
func isPrime(ctx context.Context, n int) (bool, error) {
	if n < 2 {
		return false, nil
	}
	for i := 2; i <= n/i; i++ {
		if i%divisorsPerCheck == 0 {
			if err := ctx.Err(); err != nil {
				return false, err
			}
		}
		if n%i == 0 {
			return false, nil
		}
	}
	return true, nil
}

// Search draws candidates until Quota primes were found. The same prime may be
// drawn, and counted, more than once. It only stops early when ctx is done,
// returning ctx.Err().
func Search(ctx context.Context, opts Options, rng *rand.Rand) ([]int, error) {
	every := opts.CheckEvery
	if every <= 0 {
		every = DefaultCheckEvery
	}
	limit := opts.Limit
	if limit <= 2 {
		limit = DefaultLimit
	}

	found := make([]int, 0, max(0, min(opts.Quota, 1024)))
	for i := 0; len(found) < opts.Quota; i++ {
		if i%every == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		candidate := 2 + rng.IntN(limit-2)
		prime, err := isPrime(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if prime {
			found = append(found, candidate)
		}
	}
	return found, nil
}
