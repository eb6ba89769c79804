// Package chain provides a fluent wrapper around Result[T]
// for building synchronous Railway-Oriented chains using solo primitives.
//
// Task logic is written as a chain: parameters are decoded, validated and
// handed to the computation, and the chain collapses into a single outcome.
//
// Key operations:
// - Start/FromValue: begin a chain from a Result[T] or value
// - Validate: fail the chain on invalid values
// - Then: switch to a new Result[U] via a function
// - ThenTry: call a function (U, error) and convert error to failure
// - Map: transform the successful value (T -> U)
// - Finally: collapse the chain into a final value via handlers
//
// A done context converts the pending value into a cancellation.
package chain
