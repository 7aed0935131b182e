package helpers

import (
	"io"
	"log/slog"
)

// NewNoopLogger returns a logger that discards every record.
func NewNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewLogger returns a JSON logger writing to w. Each verbosity step lowers the level by 4, starting from Warn.
func NewLogger(w io.Writer, verbosity int, callerTrace bool) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: callerTrace,
		Level:     VerbosityLevel(verbosity),
	}))
}

// VerbosityLevel converts a verbosity count into a slog level.
func VerbosityLevel(verbosity int) slog.Level {
	return slog.LevelWarn - slog.Level(verbosity*4)
}
