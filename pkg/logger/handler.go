package logger

import (
	"log/slog"
	"os"
)

// NewJSONHandler writes one JSON object per line to stdout.
func NewJSONHandler(level slog.Level) slog.Handler {
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
}
