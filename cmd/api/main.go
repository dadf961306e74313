package main

import (
	"context"
	"os"

	"idea-analyzer/internal/bootstrap"
	"idea-analyzer/internal/shared/config"
	"idea-analyzer/internal/shared/server"
	"idea-analyzer/internal/shared/telemetry"
)

func main() {
	defer telemetry.Sync()

	cfg := config.Load()
	app, err := bootstrap.Build(context.Background(), cfg)
	if err != nil {
		telemetry.Error("api.bootstrap_failed", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
	defer app.Close()

	addr := server.Addr(cfg.Port)
	telemetry.Info("api.listening", map[string]any{"addr": addr, "env": cfg.Env})

	if err := app.Router.Run(addr); err != nil {
		telemetry.Error("api.server_error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}
