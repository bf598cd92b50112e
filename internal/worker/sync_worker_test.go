package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"moneta/internal/amqp"
	"moneta/internal/core"
	"moneta/internal/kv/memory"
	"moneta/internal/ledger"
	sheetsmem "moneta/internal/sheets/memory"
)

func TestSyncWorker_HandleMessageExportsSnapshot(t *testing.T) {
	store := memory.New()
	l := ledger.New(store)
	exporter := sheetsmem.New()
	w := NewSyncWorker(l, exporter, time.Minute)
	ctx := context.Background()

	saved, err := l.Add(ctx, core.Transaction{
		Type:     core.Income,
		Category: "salary",
		Amount:   decimal.RequireFromString("1000"),
		Date:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	msg := amqp.NewTransactionSyncMessage(saved.ID, amqp.ActionUpsert)
	if err := w.HandleMessage(ctx, msg); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	snapshot := exporter.Snapshot()
	if len(snapshot) != 1 || snapshot[0].ID != saved.ID {
		t.Errorf("snapshot = %v, want the added transaction", snapshot)
	}
}

func TestSyncWorker_DeleteMessageMirrorsRemoval(t *testing.T) {
	store := memory.New()
	l := ledger.New(store)
	exporter := sheetsmem.New()
	w := NewSyncWorker(l, exporter, time.Minute)
	ctx := context.Background()

	saved, err := l.Add(ctx, core.Transaction{
		Type:     core.Expense,
		Category: "groceries",
		Amount:   decimal.RequireFromString("50"),
		Date:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := w.HandleMessage(ctx, amqp.NewTransactionSyncMessage(saved.ID, amqp.ActionUpsert)); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	if err := l.Delete(ctx, saved.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := w.HandleMessage(ctx, amqp.NewTransactionSyncMessage(saved.ID, amqp.ActionDelete)); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	if len(exporter.Snapshot()) != 0 {
		t.Errorf("snapshot = %v, want empty after delete", exporter.Snapshot())
	}
	if exporter.Exports() != 2 {
		t.Errorf("Exports() = %d, want 2", exporter.Exports())
	}
}

type failingExporter struct{}

func (failingExporter) ExportSnapshot(context.Context, []core.Transaction) error {
	return errors.New("sheet unavailable")
}

func TestSyncWorker_ExportFailurePropagates(t *testing.T) {
	store := memory.New()
	w := NewSyncWorker(ledger.New(store), failingExporter{}, time.Minute)

	err := w.ExportNow(context.Background())
	if err == nil {
		t.Error("ExportNow() error = nil, want export failure")
	}
}

func TestSyncWorker_PeriodicExport(t *testing.T) {
	store := memory.New()
	l := ledger.New(store)
	exporter := sheetsmem.New()
	w := NewSyncWorker(l, exporter, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := w.runPeriodic(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("runPeriodic() error = %v, want deadline exceeded", err)
	}

	if exporter.Exports() == 0 {
		t.Error("periodic loop never exported")
	}
}

func TestNewSyncWorker_DefaultInterval(t *testing.T) {
	w := NewSyncWorker(nil, nil, 0)
	if w.interval != 30*time.Second {
		t.Errorf("interval = %v, want 30s default", w.interval)
	}
}
