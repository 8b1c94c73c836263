package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/coder-dipesh/equilo/internal/amqp"
	"github.com/coder-dipesh/equilo/internal/config"
	"github.com/coder-dipesh/equilo/internal/export/sheets"
	"github.com/coder-dipesh/equilo/internal/log"
	"github.com/coder-dipesh/equilo/internal/storage"
	"github.com/coder-dipesh/equilo/internal/worker"
)

// inviteSweepInterval is how often pending invites are checked for expiry.
const inviteSweepInterval = time.Hour

func main() {
	_ = godotenv.Load()

	logger := log.Setup().WithComponent(log.ComponentWorker)
	logger.Info("Starting equilo-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The ledger defaults to in-memory when no spreadsheet is configured,
	// which keeps local development working without Google credentials.
	var ledger sheets.LedgerWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := sheets.NewGoogleClient(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleLedgerSheet)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		ledger = client
		logger.Info("Google Sheets ledger enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		ledger = sheets.NewMemoryLedger()
		logger.Info("Google Sheets disabled - events consumed into memory ledger")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(repo, ledger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeExpenseEvents(ctx, func(event *amqp.ExpenseEvent) error {
			return syncWorker.HandleExpenseEvent(ctx, event)
		})
	})

	g.Go(func() error {
		ticker := time.NewTicker(inviteSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				n, err := repo.ExpireStaleInvites(ctx, time.Now())
				if err != nil {
					logger.Error("Invite expiry sweep failed", "error", err)
					continue
				}
				if n > 0 {
					logger.Info("Expired stale invites", "count", n)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
