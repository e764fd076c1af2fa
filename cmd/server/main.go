// Command server runs the validation dashboard: it serves the generated
// report tree and accepts ad-hoc file uploads for immediate validation
// against the loaded templates.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/DataGate/internal/config"
	"github.com/JonMunkholm/DataGate/internal/gate"
	"github.com/JonMunkholm/DataGate/internal/load"
	"github.com/JonMunkholm/DataGate/internal/logging"
	"github.com/JonMunkholm/DataGate/internal/schema"
	"github.com/JonMunkholm/DataGate/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"addr", cfg.Server.Addr(),
		"templates", cfg.Paths.TemplatesDir,
		"output", cfg.Paths.OutputDir,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg, err := schema.LoadTemplates(cfg.Paths.TemplatesDir, slog.Default())
	if err != nil {
		slog.Error("failed to load templates", "error", err)
		os.Exit(1)
	}
	slog.Info("templates loaded", "tables", reg.Count())

	var loader *load.Loader
	if cfg.Database.URL != "" {
		loader, err = load.New(ctx, cfg.Database.URL)
		if err != nil {
			slog.Error("failed to connect to staging database", "error", err)
			os.Exit(1)
		}
		defer loader.Close()
		slog.Info("staging database connected")
	}

	service := gate.NewService(cfg, reg, loader)
	server := web.NewServer(service, cfg)

	slog.Info("dashboard listening", "addr", cfg.Server.Addr())
	if err := server.Start(ctx); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}
