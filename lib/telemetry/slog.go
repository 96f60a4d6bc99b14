package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the process-wide slog handler. debug turns on
// debug-level records and source locations.
func InitSlog(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	slog.SetDefault(slog.New(handler))
}
