// cmd/storefront/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/darshanrathod27/rathod-mart-storefront/internal/config"
	"github.com/darshanrathod27/rathod-mart-storefront/internal/infrastructure/remote"
	"github.com/darshanrathod27/rathod-mart-storefront/internal/infrastructure/storage"
	"github.com/darshanrathod27/rathod-mart-storefront/internal/interfaces/http"
	"github.com/darshanrathod27/rathod-mart-storefront/internal/interfaces/http/session"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg)
	logger.Infof("Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	// Guest snapshot store per configured provider
	var (
		store       storage.Store
		storeHealth http.HealthChecker
		redisClient *redis.Client
	)
	switch cfg.Storage.Provider {
	case "redis":
		redisStore, err := storage.NewRedisStore(cfg)
		if err != nil {
			logger.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		store = redisStore
		storeHealth = redisStore
		redisClient = redisStore.Client()
		logger.Info("Redis snapshot store ready")
	default:
		fileStore, err := storage.NewFileStore(cfg.Storage.LocalPath)
		if err != nil {
			logger.Fatalf("Failed to prepare snapshot directory: %v", err)
		}
		store = fileStore
		storeHealth = fileStore
		logger.Infof("File snapshot store ready at %s", cfg.Storage.LocalPath)
	}

	// Upstream storefront API client and per-session engine registry
	client := remote.NewClient(cfg, logger)
	registry := session.NewRegistry(client, store, logger)

	// Create and start HTTP server
	server := http.NewServer(cfg, logger, registry, storeHealth, client, redisClient)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully...")

	// Give server 30 seconds to shutdown gracefully
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logger.Errorf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	logger.Info("Server shutdown completed")
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
