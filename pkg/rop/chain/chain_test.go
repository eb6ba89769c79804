package chain

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agpz23/offload/pkg/rop"
)

func TestFromValue_Success(t *testing.T) {
	t.Parallel()

	out := FromValue(context.Background(), 7).Result()
	require.True(t, out.IsSuccess())
	assert.Equal(t, 7, out.Result())
}

func TestThen_ShortCircuitOnFailure(t *testing.T) {
	t.Parallel()

	called := false
	out := Then(Start(context.Background(), rop.Fail[int](errors.New("boom"))),
		func(ctx context.Context, v int) rop.Result[string] {
			called = true
			return rop.Success("ok")
		}).Result()

	assert.True(t, out.IsFailure())
	assert.EqualError(t, out.Err(), "boom")
	assert.False(t, called, "Then must not run on failure input")
}

func TestThen_PropagateCancel(t *testing.T) {
	t.Parallel()

	out := Then(Start(context.Background(), rop.Cancel[int](errors.New("cancel"))),
		func(ctx context.Context, v int) rop.Result[string] { return rop.Success("x") }).Result()

	assert.True(t, out.IsCancel())
	assert.EqualError(t, out.Err(), "cancel")
}

func TestThenTry_SuccessAndError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ok := ThenTry(FromValue(ctx, "3"), func(ctx context.Context, s string) (int, error) {
		return strconv.Atoi(s)
	}).Result()
	require.True(t, ok.IsSuccess())
	assert.Equal(t, 3, ok.Result())

	bad := ThenTry(FromValue(ctx, "x"), func(ctx context.Context, s string) (int, error) {
		return strconv.Atoi(s)
	}).Result()
	assert.True(t, bad.IsFailure())
}

func TestValidate_FailsWithMessage(t *testing.T) {
	t.Parallel()

	out := FromValue(context.Background(), -1).
		Validate(func(ctx context.Context, v int) (bool, string) { return v >= 0, "negative" }).
		Result()

	assert.True(t, out.IsFailure())
	assert.EqualError(t, out.Err(), "negative")
}

func TestMap_SuccessAndFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	out := Map(FromValue(ctx, 5), func(ctx context.Context, v int) string { return "n:" + strconv.Itoa(v) }).Result()
	require.True(t, out.IsSuccess())
	assert.Equal(t, "n:5", out.Result())

	failed := Map(Start(ctx, rop.Fail[int](errors.New("oops"))),
		func(ctx context.Context, v int) string { return "ignored" }).Result()
	assert.EqualError(t, failed.Err(), "oops")
}

func TestChain_CancelledContextStopsSteps(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	out := ThenTry(FromValue(ctx, 1), func(ctx context.Context, v int) (int, error) {
		called = true
		return v, nil
	}).Result()

	assert.True(t, out.IsCancel())
	assert.ErrorIs(t, out.Err(), context.Canceled)
	assert.False(t, called)
}

func TestThenTry_CancellationErrorIsCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	out := ThenTry(FromValue(ctx, 1), func(ctx context.Context, v int) (int, error) {
		cancel()
		return 0, ctx.Err()
	}).Result()

	assert.True(t, out.IsCancel())
}

func TestFinally_SuccessFailureCancel(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	reduce := func(c *Chain[int]) string {
		return Finally(c,
			func(ctx context.Context, v int) string { return "ok" },
			func(ctx context.Context, err error) string { return "fail" },
			func(ctx context.Context, err error) string { return "cancel" },
		)
	}

	assert.Equal(t, "ok", reduce(FromValue(ctx, 2)))
	assert.Equal(t, "fail", reduce(Start(ctx, rop.Fail[int](errors.New("e")))))
	assert.Equal(t, "cancel", reduce(Start(ctx, rop.Cancel[int](errors.New("c")))))
}
