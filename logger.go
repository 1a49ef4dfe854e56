package bmesh

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with codec-specific helpers so encode and decode
// operations log with consistent field names.
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
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogEncode logs one mesh encode.
func (l *Logger) LogEncode(ctx context.Context, faces, triangles int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "encode failed",
			"faces", faces,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "encode completed",
			"faces", faces,
			"triangles", triangles,
		)
	}
}

// LogDecode logs one mesh decode, including the reconstruction strategy
// that was selected.
func (l *Logger) LogDecode(ctx context.Context, strategy string, warnings int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "decode failed",
			"strategy", strategy,
			"error", err,
		)
	} else if warnings > 0 {
		l.WarnContext(ctx, "decode completed with warnings",
			"strategy", strategy,
			"warnings", warnings,
		)
	} else {
		l.DebugContext(ctx, "decode completed",
			"strategy", strategy,
		)
	}
}

// LogValidation logs a validation outcome.
func (l *Logger) LogValidation(ctx context.Context, status string, diagnostics int) {
	if diagnostics > 0 {
		l.WarnContext(ctx, "validation finished",
			"status", status,
			"diagnostics", diagnostics,
		)
	} else {
		l.DebugContext(ctx, "validation finished",
			"status", status,
		)
	}
}
