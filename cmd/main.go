package main

import (
	"context"
	"errors"
	"os"
	"time"

	config "es-bug-demo/config"
	"es-bug-demo/internal/bootstrap"

	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	envErr := config.LoadEnv(".env")

	cfg := config.LoadAppConfig()

	// Initialize Zap logger
	config.InitLogger(cfg.LogDir, cfg.IsProduction())
	defer config.Logger.Sync()

	if envErr != nil {
		if errors.Is(envErr, os.ErrNotExist) {
			config.Logger.Warn("No .env file found, using environment and defaults")
		} else {
			config.Logger.Fatal("Error loading .env file", zap.Error(envErr))
		}
	}

	deps, err := bootstrap.NewApp(cfg, config.Logger)
	if err != nil {
		config.Logger.Fatal("Cannot create Elasticsearch clients", zap.Error(err))
	}

	// The engine being down is not fatal; requests report it as a 503.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := deps.DefaultRepo.Ping(ctx); err != nil {
		config.Logger.Warn("Elasticsearch not reachable at startup",
			zap.String("address", cfg.ElasticsearchAddress), zap.Error(err))
	} else {
		config.Logger.Info("Elasticsearch is up and running", zap.String("address", cfg.ElasticsearchAddress))
	}
	cancel()

	config.Logger.Info("Server starting", zap.String("port", cfg.Port), zap.String("index", cfg.ElasticsearchIndex))
	config.Logger.Fatal("Server failed", zap.String("port", cfg.Port), zap.Error(deps.App.Listen(":"+cfg.Port)))
}
