package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/injury-triage-server/internal/api"
	"github.com/injury-triage-server/internal/app"
	"github.com/injury-triage-server/internal/config"
	"github.com/injury-triage-server/internal/logging"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	logger, err := logging.NewLogger(*configManager.GetLoggingConfig())
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	components, err := app.Build(configManager, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to build triage service")
	}
	defer func() {
		if err := components.Close(); err != nil {
			logger.WithError(err).Warn("Failed to release resources")
		}
	}()

	cfg := configManager.GetConfig()
	logger.WithField("environment", cfg.Environment).Info("Starting injury triage server")

	var cache api.CacheMonitor
	if components.Cache != nil {
		cache = components.Cache
	}
	server := api.NewServer(configManager, logger, components.Service, components.Breaker, cache)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Error("Server failed")
		return
	}

	logger.Info("Server stopped")
}
