package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"moneta/internal/amqp"
	"moneta/internal/ledger"
	"moneta/internal/sheets"
)

// SyncWorker mirrors the ledger to an external exporter. It reacts to
// AMQP sync messages and additionally exports on a fixed interval, so a
// lost message only delays the mirror until the next tick.
type SyncWorker struct {
	ledger   *ledger.Ledger
	exporter sheets.LedgerExporter
	interval time.Duration
}

func NewSyncWorker(l *ledger.Ledger, exporter sheets.LedgerExporter, interval time.Duration) *SyncWorker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &SyncWorker{
		ledger:   l,
		exporter: exporter,
		interval: interval,
	}
}

// HandleMessage processes a single sync message. The message only tells
// us that something changed, the export always mirrors the full current
// snapshot.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"message_id", msg.MessageID,
		"id", msg.ID,
		"action", msg.Action)

	return w.ExportNow(ctx)
}

// ExportNow reads the current ledger state and pushes it to the exporter.
func (w *SyncWorker) ExportNow(ctx context.Context) error {
	txs, err := w.ledger.List(ctx)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}

	if err := w.exporter.ExportSnapshot(ctx, txs); err != nil {
		return fmt.Errorf("export snapshot: %w", err)
	}

	return nil
}

// Run consumes sync messages and runs the periodic export until the
// context is cancelled.
func (w *SyncWorker) Run(ctx context.Context, client *amqp.Client) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return client.ConsumeWithReconnect(ctx, func(msg *amqp.TransactionSyncMessage) error {
			return w.HandleMessage(ctx, msg)
		})
	})

	g.Go(func() error {
		return w.runPeriodic(ctx)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (w *SyncWorker) runPeriodic(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.ExportNow(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic export failed", "error", err)
			}
		}
	}
}
