package jobcontext

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type KeyContext string

var (
	keyRunID     KeyContext = "run_id"
	keyProvider  KeyContext = "provider"
	keyStartTime KeyContext = "run_start_time"
)

// RunMetadata holds metadata for one extraction run
type RunMetadata struct {
	RunID     uuid.UUID
	Provider  string
	StartTime time.Time
}

// Begin derives a run context carrying metadata and an optional timeout.
// A non-positive timeout only adds cancellation.
func Begin(parent context.Context, runID uuid.UUID, provider string, timeout time.Duration) (context.Context, context.CancelFunc) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, timeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}

	ctx = context.WithValue(ctx, keyRunID, runID)
	ctx = context.WithValue(ctx, keyProvider, provider)
	ctx = context.WithValue(ctx, keyStartTime, time.Now())

	return ctx, cancel
}

// Run executes fn, turning a panic into an error
func Run(ctx context.Context, fn func(context.Context) error) (err error) {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic recovered: %v", p)
		}
	}()
	return fn(ctx)
}

// GetRunID extracts the run ID from context
func GetRunID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(keyRunID).(uuid.UUID)
	return id, ok
}

// GetProvider extracts the provider from context
func GetProvider(ctx context.Context) (string, bool) {
	p, ok := ctx.Value(keyProvider).(string)
	return p, ok
}

// GetStartTime extracts the run start time from context
func GetStartTime(ctx context.Context) (time.Time, bool) {
	t, ok := ctx.Value(keyStartTime).(time.Time)
	return t, ok
}

// Elapsed returns the time since Begin, or zero outside a run
func Elapsed(ctx context.Context) time.Duration {
	start, ok := GetStartTime(ctx)
	if !ok {
		return 0
	}
	return time.Since(start)
}

// GetRunMetadata extracts all run metadata from context
func GetRunMetadata(ctx context.Context) *RunMetadata {
	id, _ := GetRunID(ctx)
	provider, _ := GetProvider(ctx)
	start, _ := GetStartTime(ctx)
	return &RunMetadata{RunID: id, Provider: provider, StartTime: start}
}

// Fields returns the run metadata as log fields
func Fields(ctx context.Context) []zap.Field {
	md := GetRunMetadata(ctx)
	fields := make([]zap.Field, 0, 2)
	if md.RunID != uuid.Nil {
		fields = append(fields, zap.String("run_id", md.RunID.String()))
	}
	if md.Provider != "" {
		fields = append(fields, zap.String("provider", md.Provider))
	}
	return fields
}
