package logger

import (
	"log/slog"
	"os"
)

// New builds the service-wide JSON logger. Info and above goes to stdout;
// debug output stays off in every environment.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
