package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/coder-dipesh/equilo/internal/amqp"
	"github.com/coder-dipesh/equilo/internal/auth"
	"github.com/coder-dipesh/equilo/internal/config"
	apphttp "github.com/coder-dipesh/equilo/internal/http"
	"github.com/coder-dipesh/equilo/internal/log"
	"github.com/coder-dipesh/equilo/internal/services"
	"github.com/coder-dipesh/equilo/internal/storage"
)

func main() {
	// Load .env for local development; ignore absence in production.
	_ = godotenv.Load()

	logger := log.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// The message broker is optional; without it expenses simply are not
	// mirrored to the ledger.
	var events services.EventPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		events = amqpClient
		logger.Info("AMQP publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	svc := services.New(repo, events, cfg.DirectoryCacheSize, cfg.DirectoryCacheTTL)
	authn := auth.NewPasswordAuthenticator(repo)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTLifetime)

	srv := apphttp.NewServer(cfg, logger, repo, svc, authn, jwtManager)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc.StartCacheJanitor(ctx, cfg.DirectoryCacheTTL)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting equilo server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
