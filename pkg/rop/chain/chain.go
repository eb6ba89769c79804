package chain

import (
	"context"

	"github.com/agpz23/offload/pkg/rop"
	"github.com/agpz23/offload/pkg/rop/solo"
)

// Chain wraps a rop.Result with context to enable fluent chaining.
// Every step first checks the context: once it is done, the chain turns
// into a cancellation and no further step runs.
type Chain[T any] struct {
	ctx    context.Context
	result rop.Result[T]
}

// Start creates a new chain from a rop.Result
func Start[T any](ctx context.Context, result rop.Result[T]) *Chain[T] {
	return &Chain[T]{
		ctx:    ctx,
		result: result,
	}
}

// FromValue creates a new chain from a successful value
func FromValue[T any](ctx context.Context, value T) *Chain[T] {
	return Start(ctx, rop.Success(value))
}

// Result returns the underlying rop.Result
func (c *Chain[T]) Result() rop.Result[T] {
	return c.result
}

// Validate fails the chain with errMsg when validate reports false
func (c *Chain[T]) Validate(validate func(context.Context, T) (bool, string)) *Chain[T] {
	return &Chain[T]{
		ctx:    c.ctx,
		result: solo.AndValidate(c.ctx, guard(c), validate),
	}
}

// Then chains a function that returns rop.Result[U]
func Then[T, U any](c *Chain[T], onSuccess func(context.Context, T) rop.Result[U]) *Chain[U] {
	return &Chain[U]{
		ctx:    c.ctx,
		result: solo.Switch(c.ctx, guard(c), onSuccess),
	}
}

// ThenTry chains a function that returns (U, error)
func ThenTry[T, U any](c *Chain[T], tryOnSuccess func(context.Context, T) (U, error)) *Chain[U] {
	return &Chain[U]{
		ctx:    c.ctx,
		result: solo.Try(c.ctx, guard(c), tryOnSuccess),
	}
}

// Map chains a pure transformation function
func Map[T, U any](c *Chain[T], onSuccess func(context.Context, T) U) *Chain[U] {
	return &Chain[U]{
		ctx:    c.ctx,
		result: solo.Map(c.ctx, guard(c), onSuccess),
	}
}

// Finally collapses the chain into a final value using solo.Finally
func Finally[T, U any](c *Chain[T], onSuccess func(context.Context, T) U,
	onFailure func(context.Context, error) U, onCancel func(context.Context, error) U) U {
	return solo.Finally(c.ctx, c.result, onSuccess, onFailure, onCancel)
}

func guard[T any](c *Chain[T]) rop.Result[T] {
	if err := c.ctx.Err(); err != nil && c.result.IsSuccess() {
		return rop.Cancel[T](err)
	}
	return c.result
}
