package sweepgo

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with sweep-specific context.
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
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithRun adds a scheduler run ID field to the logger.
func (l *Logger) WithRun(id string) *Logger {
	return &Logger{Logger: l.Logger.With("run", id)}
}

// WithSweep adds a sweep name field to the logger.
func (l *Logger) WithSweep(name string) *Logger {
	return &Logger{Logger: l.Logger.With("sweep", name)}
}

// LogSweepStart logs the beginning of a sweep run.
func (l *Logger) LogSweepStart(ctx context.Context, name string, level, repeats, samples int) {
	l.InfoContext(ctx, "sweep started",
		"sweep", name,
		"level", level,
		"repeats", repeats,
		"samples", samples,
	)
}

// LogSweepDone logs the completion of a sweep run.
func (l *Logger) LogSweepDone(ctx context.Context, name string, samples, hits int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "sweep failed",
			"sweep", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "sweep completed",
			"sweep", name,
			"samples", samples,
			"cache_hits", hits,
			"elapsed", elapsed,
		)
	}
}

// LogSweepCached logs a benchmark-cache short circuit.
func (l *Logger) LogSweepCached(ctx context.Context, name, fingerprint string) {
	l.InfoContext(ctx, "sweep served from result cache",
		"sweep", name,
		"fingerprint", fingerprint,
	)
}

// LogCommit logs a benchmark-cache commit.
func (l *Logger) LogCommit(ctx context.Context, name, fingerprint string, err error) {
	if err != nil {
		l.WarnContext(ctx, "result cache commit failed",
			"sweep", name,
			"fingerprint", fingerprint,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "result cache commit",
			"sweep", name,
			"fingerprint", fingerprint,
		)
	}
}

// LogCacheClear logs a cache invalidation.
func (l *Logger) LogCacheClear(ctx context.Context, name string, removed int) {
	l.InfoContext(ctx, "sample cache cleared",
		"sweep", name,
		"removed", removed,
	)
}
