package logging

import (
	"log/slog"
	"os"
)

// Setup installs a JSON stdout logger as the slog default. It runs before
// the database is reachable; once connected, main swaps in a MultiHandler
// that also batches error records into system_logs.
func Setup() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}
