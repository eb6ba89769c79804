package solo

import (
	"context"
	"errors"

	"github.com/agpz23/offload/pkg/rop"
)

func Succeed[T any](input T) rop.Result[T] {
	return rop.Success(input)
}

func Fail[T any](err error) rop.Result[T] {
	return rop.Fail[T](err)
}

func Cancel[T any](err error) rop.Result[T] {
	return rop.Cancel[T](err)
}

func Validate[T any](ctx context.Context, input T,
	validate func(ctx context.Context, in T) (isValid bool, errMsg string)) rop.Result[T] {
	return AndValidate(ctx, Succeed(input), validate)
}

func AndValidate[T any](ctx context.Context, input rop.Result[T],
	validate func(ctx context.Context, in T) (valid bool, errMsg string)) rop.Result[T] {

	if input.IsSuccess() {
		if isValid, errMsg := validate(ctx, input.Result()); isValid {
			return input
		} else {
			return rop.Fail[T](errors.New(errMsg))
		}
	}
	return input
}

// Switch moves a successful Result[In] to Result[Out]; failures and
// cancellations pass through with their error.
func Switch[In any, Out any](ctx context.Context,
	input rop.Result[In],
	onSuccess func(ctx context.Context, r In) rop.Result[Out]) rop.Result[Out] {

	if input.IsSuccess() {
		return onSuccess(ctx, input.Result())
	}
	return passThrough[In, Out](input)
}

func Map[In any, Out any](ctx context.Context,
	input rop.Result[In],
	onSuccess func(ctx context.Context, r In) Out) rop.Result[Out] {

	if input.IsSuccess() {
		return rop.Success(onSuccess(ctx, input.Result()))
	}
	return passThrough[In, Out](input)
}

func DoubleTee[T any](ctx context.Context, input rop.Result[T],
	onSuccess func(ctx context.Context, r T),
	onError func(ctx context.Context, err error),
	onCancel func(ctx context.Context, err error)) rop.Result[T] {

	if input.IsSuccess() {
		onSuccess(ctx, input.Result())
	} else {
		if input.IsCancel() {
			onCancel(ctx, input.Err())
		} else {
			onError(ctx, input.Err())
		}
	}

	return input
}

// Try calls onTryExecute for a successful input. An error returned while ctx
// is already done is reported as a cancellation rather than a failure.
func Try[In any, Out any](ctx context.Context, input rop.Result[In],
	onTryExecute func(ctx context.Context, r In) (Out, error)) rop.Result[Out] {

	if input.IsSuccess() {

		out, err := onTryExecute(ctx, input.Result())
		if err != nil {
			if ctx.Err() != nil && rop.IsCancellationError(err) {
				return rop.Cancel[Out](err)
			}
			return rop.Fail[Out](err)
		}

		return rop.Success(out)
	}

	return passThrough[In, Out](input)
}

func Finally[In, Out any](ctx context.Context, input rop.Result[In],
	onSuccess func(ctx context.Context, r In) Out,
	onError func(ctx context.Context, err error) Out,
	onCancel func(ctx context.Context, err error) Out) Out {

	if input.IsSuccess() {
		return onSuccess(ctx, input.Result())
	} else if input.IsCancel() {
		return onCancel(ctx, input.Err())
	} else {
		return onError(ctx, input.Err())
	}
}

func passThrough[In, Out any](input rop.Result[In]) rop.Result[Out] {
	if input.IsCancel() {
		return rop.Cancel[Out](input.Err())
	}
	return rop.Fail[Out](input.Err())
}
