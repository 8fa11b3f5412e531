// Package logging keeps a request scoped [slog.Logger] in a context.
package logging // import "website.app/v2/internal/logging"

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

// FromContext returns the logger attached to ctx, or the default one.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// With returns a copy of ctx with a logger, which adds args to every record.
func With(ctx context.Context, args ...any) context.Context {
	if len(args) == 0 {
		return ctx
	}
	return WithLogger(ctx, FromContext(ctx).With(args...))
}

func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}
