package jobcontext

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBegin_CarriesMetadata(t *testing.T) {
	id := uuid.New()
	ctx, cancel := Begin(context.Background(), id, "heuristic", time.Minute)
	defer cancel()

	got, ok := GetRunID(ctx)
	require.True(t, ok)
	assert.Equal(t, id, got)

	md := GetRunMetadata(ctx)
	assert.Equal(t, "heuristic", md.Provider)
	assert.False(t, md.StartTime.IsZero())

	_, hasDeadline := ctx.Deadline()
	assert.True(t, hasDeadline)
	assert.Len(t, Fields(ctx), 2)
}

func TestBegin_NoTimeout(t *testing.T) {
	ctx, cancel := Begin(context.Background(), uuid.New(), "gemini", 0)
	_, hasDeadline := ctx.Deadline()
	assert.False(t, hasDeadline)

	cancel()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestBegin_TimeoutExpires(t *testing.T) {
	ctx, cancel := Begin(context.Background(), uuid.New(), "gemini", time.Millisecond)
	defer cancel()

	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.DeadlineExceeded)
}

func TestRun(t *testing.T) {
	sentinel := errors.New("boom")

	assert.NoError(t, Run(context.Background(), func(context.Context) error { return nil }))
	assert.ErrorIs(t, Run(context.Background(), func(context.Context) error { return sentinel }), sentinel)

	err := Run(context.Background(), func(context.Context) error { panic("bad index") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic recovered: bad index")

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err = Run(cancelled, func(context.Context) error { called = true; return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestOutsideRun(t *testing.T) {
	ctx := context.Background()
	_, ok := GetRunID(ctx)
	assert.False(t, ok)
	assert.Zero(t, Elapsed(ctx))
	assert.Empty(t, Fields(ctx))
}
