package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"bedelias-backend/cmd/previas-cli/commands"
	"bedelias-backend/lib/telemetry"
)

func main() {
	ctx := context.Background()
	telemetry.InitSlog(false)

	// telemetry is optional for CLI use; without a telemetry.json5
	// nearby, spans just stay local.
	_, err := telemetry.SetupFromEnv(ctx, "previas-cli")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("telemetry setup failed", slog.String("error", err.Error()))
	}

	commands.ExecuteContext(ctx)
}
