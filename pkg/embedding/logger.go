package embedding

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with embedding-specific helpers so that field
// names stay consistent across operations.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, a text handler to stderr at info level is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that writes human-readable text logs to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger creates a Logger that writes JSON logs to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger discards all output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, nil))
}

// LogEmbed logs the outcome of a full embedding run.
func (l *Logger) LogEmbed(runID, edgeType string, pivots, nodes int, elapsed time.Duration, err error) {
	if err != nil {
		l.Error("embedding failed",
			"run_id", runID,
			"edge_type", edgeType,
			"error", err,
		)
		return
	}
	l.Info("embedding completed",
		"run_id", runID,
		"edge_type", edgeType,
		"pivots", pivots,
		"nodes", nodes,
		"elapsed", elapsed,
	)
}

// LogAddNode logs an incremental insertion.
func (l *Logger) LogAddNode(node, edgeType string, err error) {
	if err != nil {
		l.Warn("add node failed",
			"node", node,
			"edge_type", edgeType,
			"error", err,
		)
		return
	}
	l.Debug("add node completed",
		"node", node,
		"edge_type", edgeType,
	)
}

// LogDegenerate logs a run that produced fewer pivots than requested.
func (l *Logger) LogDegenerate(edgeType string, requested, available int) {
	l.Warn("degenerate dimension: fewer pivots than requested",
		"edge_type", edgeType,
		"requested", requested,
		"available", available,
	)
}
