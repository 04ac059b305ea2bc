package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/verenigingen/membership-api/internal/bootstrap"
	"github.com/verenigingen/membership-api/internal/config"
	"github.com/verenigingen/membership-api/internal/enrollment"
	"github.com/verenigingen/membership-api/internal/router"
	"github.com/verenigingen/membership-api/internal/shared/cache"
	"github.com/verenigingen/membership-api/internal/shared/database"
	"github.com/verenigingen/membership-api/internal/shared/logger"
	"github.com/verenigingen/membership-api/internal/shared/validator"
)

func main() {
	env := parseFlags()

	logger.Setup(env)
	slog.Info("initializing server", "env", env)

	if err := run(env); err != nil {
		slog.Error("server initialization failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped", "env", env)
}

func parseFlags() string {
	env := flag.String("env", "local", "Environment (local|dev|production)")
	flag.Parse()
	return *env
}

func run(env string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("database close failed", "error", err)
		}
	}()

	redis, err := cache.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer func() {
		if err := redis.Close(); err != nil {
			slog.Error("redis close failed", "error", err)
		}
	}()

	srv, worker := setupServer(cfg, db, redis)

	if err := worker.Start(); err != nil {
		return fmt.Errorf("start enrollment worker: %w", err)
	}
	defer worker.Stop()

	return startWithGracefulShutdown(ctx, srv, cfg.Server.GracefulTimeout)
}

// setupServer wires the HTTP server and the background enrollment worker.
func setupServer(cfg *config.Config, db *database.DB, redis *cache.Client) (*bootstrap.Server, *enrollment.Worker) {
	boot := bootstrap.NewBootstrap(cfg)
	ginEngine := boot.SetupEngine()

	if err := validator.RegisterAll(); err != nil {
		slog.Error("validator registration failed", "error", err)
		panic(err)
	}

	outbox := router.Setup(ginEngine, cfg, db, redis)
	worker := enrollment.NewWorker(outbox, cfg)

	slog.Info("server setup complete", "env", cfg.App.Env)

	return bootstrap.New(cfg, ginEngine), worker
}

func startWithGracefulShutdown(ctx context.Context, srv *bootstrap.Server, gracefulTimeout time.Duration) error {
	serverErrors := make(chan error, 1)

	go func() {
		serverErrors <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil

	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, gracefulTimeout)
		defer cancel()

		slog.Info("shutting down server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("forced server shutdown: %w", err)
		}
		return nil
	}
}
