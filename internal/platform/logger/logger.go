package logger

import (
	"log/slog"
	"os"
)

// New returns the application logger. JSON output so log processors get
// structured fields without a parsing step.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
