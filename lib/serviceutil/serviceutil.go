package serviceutil

import (
	"log/slog"
	"os"
)

// Fatal logs an unrecoverable startup error and exits.
func Fatal(msg string, err error) {
	slog.Error(msg, slog.String("error", err.Error()))
	os.Exit(1)
}
