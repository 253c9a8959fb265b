// Command provision creates the demo index with key mapped as a long, which
// is the fixture the /bug endpoints expect.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	config "es-bug-demo/config"
	"es-bug-demo/search/repositories"

	"go.uber.org/zap"
)

func main() {
	envErr := config.LoadEnv(".env")
	cfg := config.LoadAppConfig()

	index := flag.String("index", cfg.ElasticsearchIndex, "index to create")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
	flag.Parse()

	config.InitLogger(cfg.LogDir, false)
	defer config.Logger.Sync()

	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		config.Logger.Fatal("Error loading .env file", zap.Error(envErr))
	}

	opts, _ := config.ElasticsearchOptionsFromConfig(cfg)
	opts.Name = "provision"
	client, err := config.NewElasticsearchClient(opts)
	if err != nil {
		config.Logger.Fatal("Cannot create Elasticsearch client", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	repo := repositories.NewRecordRepository(client, *index, config.Logger)
	created, err := repo.EnsureIndex(ctx)
	if err != nil {
		config.Logger.Fatal("Provisioning failed", zap.String("index", *index), zap.Error(err))
	}
	config.Logger.Info("Provisioning finished", zap.String("index", *index), zap.Bool("created", created))
}
