package logging

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// With stores logger in ctx. A nil logger leaves ctx as is.
func With(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, logger)
}

// WithAttrs binds attrs to the logger carried by ctx, so every later
// From(ctx) line repeats them. Callers down the chain must not add the same
// keys again.
func WithAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	if len(attrs) == 0 {
		return ctx
	}
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	return With(ctx, From(ctx).With(args...))
}

// From returns the logger carried by ctx, or Default.
func From(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
			return logger
		}
	}
	return Default()
}
