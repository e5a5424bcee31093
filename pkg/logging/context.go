package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey int

// loggerKey is the context key for the logger.
const loggerKey contextKey = iota

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from context, or returns the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}

	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}

	return Default()
}

// WithSource adds the contact source name to the logger in the context.
func WithSource(ctx context.Context, source string) context.Context {
	logger := FromContext(ctx).With().Str("source", source).Logger()
	return WithLogger(ctx, &logger)
}

// WithOperation adds operation context to the logger in the context.
func WithOperation(ctx context.Context, operation string) context.Context {
	logger := FromContext(ctx).With().Str("operation", operation).Logger()
	return WithLogger(ctx, &logger)
}
