package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/injury-triage-server/internal/app"
	"github.com/injury-triage-server/internal/config"
	"github.com/injury-triage-server/internal/logging"
	"github.com/injury-triage-server/internal/mcp"
)

func main() {
	// stdout carries the protocol; keep everything else off it.
	log.SetOutput(os.Stderr)

	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	loggingCfg := *configManager.GetLoggingConfig()
	loggingCfg.Output = "stderr"
	logger, err := logging.NewLogger(loggingCfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	components, err := app.Build(configManager, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to build triage service")
	}
	defer components.Close()

	cfg := configManager.GetConfig()
	server := mcp.NewServer(cfg.MCP, components.Service, logger, cfg.Server.MaxImageBytes)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		logger.WithError(err).Error("MCP server stopped with error")
		return
	}

	logger.Info("Injury triage MCP server stopped")
}
