package chunkflow

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with chunkflow-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithBackend adds the scheme and root of the active store.
func (l *Logger) WithBackend(scheme, root string) *Logger {
	return &Logger{
		Logger: l.Logger.With("scheme", scheme, "root", root),
	}
}

// LogRetrieve logs a RetrieveChunks call.
func (l *Logger) LogRetrieve(ctx context.Context, chunks, concurrency int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "retrieve failed",
			"chunks", chunks,
			"concurrency", concurrency,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "retrieve completed",
			"chunks", chunks,
			"concurrency", concurrency,
		)
	}
}

// LogStore logs a StoreChunks call. erased counts chunks dropped because
// they held only the fill value.
func (l *Logger) LogStore(ctx context.Context, chunks, erased, concurrency int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "store failed",
			"chunks", chunks,
			"concurrency", concurrency,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "store completed",
			"chunks", chunks,
			"erased", erased,
			"concurrency", concurrency,
		)
	}
}

// LogBackendOpen logs the creation of the pipeline's store handle.
func (l *Logger) LogBackendOpen(ctx context.Context, scheme, root string, err error) {
	if err != nil {
		l.WarnContext(ctx, "opening store failed",
			"scheme", scheme,
			"root", root,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "store opened",
			"scheme", scheme,
			"root", root,
		)
	}
}
