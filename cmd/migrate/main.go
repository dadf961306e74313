package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"os"

	"idea-analyzer/internal/shared/config"
	"idea-analyzer/internal/shared/storage/db"
	"idea-analyzer/internal/shared/telemetry"
)

func main() {
	defer telemetry.Sync()

	cfg := config.Load()
	ctx := context.Background()

	opts := db.MigrateOptions().WithEnv()
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
	telemetry.Info("migrate.done", nil)
}
