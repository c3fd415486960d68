package main

import (
	"log/slog"
	"os"
)

// NewLogger returns a JSON slog.Logger on stderr. Debug level also records the
// source location of each call.
func NewLogger(level slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	})
	return slog.New(h)
}
