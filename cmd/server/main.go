package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ButyrinIA/blogbackend/internal/config"
	"github.com/ButyrinIA/blogbackend/internal/logger"
	"github.com/ButyrinIA/blogbackend/internal/server"
	"github.com/ButyrinIA/blogbackend/internal/storage"
	"github.com/ButyrinIA/blogbackend/internal/storage/memory"
	"github.com/ButyrinIA/blogbackend/internal/storage/postgres"
	"github.com/ButyrinIA/blogbackend/internal/storage/sqlite"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	envPath := flag.String("env", ".env", "path to an optional .env file")
	storageType := flag.String("storage", "", "storage backend override: memory, postgres or sqlite")
	flag.Parse()

	if err := run(*configPath, *envPath, *storageType); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(configPath, envPath, storageType string) error {
	cfg, err := config.Load(configPath, envPath)
	if err != nil {
		return err
	}
	if storageType != "" {
		cfg.Storage.Type = storageType
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger.New(cfg.Log, os.Stdout)
	gin.SetMode(gin.ReleaseMode)

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			return err
		}
		defer sentry.Flush(2 * time.Second)
		slog.Info("sentry reporting enabled", slog.String("environment", cfg.Sentry.Environment))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("close storage", "error", err)
		}
	}()

	return server.New(cfg, store).Run(ctx)
}

func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Type {
	case config.StoragePostgres:
		slog.Info("initializing postgres storage", slog.Int("pool_size", cfg.Storage.PoolSize))
		store, err := postgres.New(ctx, cfg.Postgres.DSN, cfg.Storage.PoolSize)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StorageSQLite:
		slog.Info("initializing sqlite storage", slog.String("path", cfg.SQLite.Path), slog.Int("pool_size", cfg.Storage.PoolSize))
		store, err := sqlite.New(ctx, cfg.SQLite.Path, cfg.Storage.PoolSize)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		slog.Info("initializing memory storage")
		return memory.New(), nil
	}
}
