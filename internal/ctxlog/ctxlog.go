// Package ctxlog carries the per-run *slog.Logger on a context.Context so
// that compilation stages log with the attributes of the action and task
// they are working on.
package ctxlog

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// WithLogger returns ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger stored by WithLogger, or slog.Default when
// ctx is nil or carries none.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	logger, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// With returns ctx whose logger additionally carries args, e.g.
// ctxlog.With(ctx, "action", name).
func With(ctx context.Context, args ...any) context.Context {
	return WithLogger(ctx, FromContext(ctx).With(args...))
}
