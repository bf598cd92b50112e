package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"moneta/internal/amqp"
	"moneta/internal/backend"
	"moneta/internal/config"
	"moneta/internal/ledger"
	applog "moneta/internal/log"
	"moneta/internal/sheets"
	gsheet "moneta/internal/sheets/google"
	sheetsmem "moneta/internal/sheets/memory"
	"moneta/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	slog.Info("Starting moneta-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		slog.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateStore(context.Background(), backendCfg)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				slog.Error("Store cleanup failed", "error", err)
			}
		}()
	}

	var exporter sheets.LedgerExporter
	if cfg.SheetsEnabled() {
		client, err := gsheet.New(context.Background(), cfg)
		if err != nil {
			slog.Error("Failed to initialize Google Sheets exporter", "error", err)
			os.Exit(1)
		}
		exporter = client
		slog.Info("Google Sheets exporter initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		exporter = sheetsmem.New()
		slog.Info("Google Sheets disabled - exporting to in-process snapshot only")
	}

	syncWorker := worker.NewSyncWorker(ledger.New(result.Store), exporter, cfg.SyncInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Export once on startup so a broker outage never leaves the mirror
	// more than one interval behind.
	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if err := syncWorker.ExportNow(startupCtx); err != nil {
		slog.Error("Startup export failed", "error", err)
	}
	cancel()

	g, ctx := errgroup.WithContext(ctx)

	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			slog.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()

		g.Go(func() error {
			return syncWorker.Run(ctx, amqpClient)
		})
	} else {
		slog.Info("AMQP disabled - running periodic export only")
		g.Go(func() error {
			ticker := time.NewTicker(cfg.SyncInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-ticker.C:
					if err := syncWorker.ExportNow(ctx); err != nil {
						slog.Error("Periodic export failed", "error", err)
					}
				}
			}
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	slog.Info("Worker stopped gracefully")
}
