package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"moneta/internal/amqp"
	"moneta/internal/budget"
	"moneta/internal/core"
	"moneta/internal/currency"
	"moneta/internal/ledger"
	"moneta/internal/recurrence"
	"moneta/internal/report"
)

// SyncPublisher mirrors ledger mutations to external consumers.
// *amqp.Client satisfies it, tests use fakes.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, id int64, action string) error
}

// Tracker orchestrates ledger, budget, recurrence and reporting so that
// the restore/deduct pairing stays in one place: every expense creation
// deducts exactly once, every expense removal restores exactly once, and
// an edit restores the old expense before deducting the new one.
type Tracker struct {
	ledger     *ledger.Ledger
	budgets    *budget.Tracker
	recurrence *recurrence.Engine
	converter  *currency.Converter
	publisher  SyncPublisher
}

func NewTracker(l *ledger.Ledger, b *budget.Tracker, conv *currency.Converter, pub SyncPublisher) *Tracker {
	return &Tracker{
		ledger:     l,
		budgets:    b,
		recurrence: recurrence.New(l, b),
		converter:  conv,
		publisher:  pub,
	}
}

// Load materializes any due recurring instances up to today, then returns
// the full transaction list. Materialization failures degrade to a
// read-only view instead of failing the load.
func (t *Tracker) Load(ctx context.Context, today time.Time) ([]core.Transaction, error) {
	if _, err := t.recurrence.Materialize(ctx, today); err != nil {
		slog.WarnContext(ctx, "Recurrence materialization failed, serving stored state",
			"error", err)
	}

	return t.ledger.List(ctx)
}

// Add validates and appends a transaction. An expense deducts from its
// category budget exactly once.
func (t *Tracker) Add(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if tx.Currency == "" {
		tx.Currency = core.DefaultCurrency
	}
	if tx.Date.IsZero() {
		tx.Date = recurrence.Today()
	}

	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	saved, err := t.ledger.Add(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}

	if saved.Type == core.Expense {
		remaining, err := t.budgets.Deduct(ctx, saved.Category, saved.Amount)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to deduct budget for new expense",
				"id", saved.ID,
				"category", saved.Category,
				"error", err)
		} else {
			slog.InfoContext(ctx, "Deducted budget for new expense",
				"id", saved.ID,
				"category", saved.Category,
				"remaining", remaining.String())
		}
	}

	t.publish(ctx, saved.ID, amqp.ActionUpsert)

	return saved, nil
}

// Update replaces a transaction's editable fields. Once the ledger
// write succeeds, the old expense amount is restored to the old
// category and the new expense amount is deducted from the new one.
// The two steps never collapse into a delta, so category and type
// changes stay correct, and a failed ledger write leaves budgets
// untouched.
func (t *Tracker) Update(ctx context.Context, id int64, updated core.Transaction) (core.Transaction, error) {
	old, err := t.ledger.Get(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}

	updated.ID = old.ID
	updated.IsRecurringInstance = old.IsRecurringInstance
	updated.ParentID = old.ParentID
	if updated.Currency == "" {
		updated.Currency = old.Currency
	}
	if updated.Date.IsZero() {
		updated.Date = old.Date
	}

	if err := updated.Validate(); err != nil {
		return core.Transaction{}, err
	}

	saved, err := t.ledger.Update(ctx, id, func(tx *core.Transaction) {
		*tx = updated
	})
	if err != nil {
		return core.Transaction{}, err
	}

	if old.Type == core.Expense {
		if _, _, err := t.budgets.Restore(ctx, old.Category, old.Amount); err != nil {
			return core.Transaction{}, fmt.Errorf("restore budget for old expense: %w", err)
		}
	}

	if saved.Type == core.Expense {
		if _, err := t.budgets.Deduct(ctx, saved.Category, saved.Amount); err != nil {
			return core.Transaction{}, fmt.Errorf("deduct budget for updated expense: %w", err)
		}
	}

	t.publish(ctx, saved.ID, amqp.ActionUpsert)

	return saved, nil
}

// Delete removes a transaction. Deleting an id that no longer exists is
// a silent no-op, so a repeated delete never restores a budget twice.
func (t *Tracker) Delete(ctx context.Context, id int64) error {
	old, err := t.ledger.Get(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrTransactionNotFound) {
			return nil
		}
		return err
	}

	if err := t.ledger.Delete(ctx, id); err != nil {
		return err
	}

	if old.Type == core.Expense {
		if _, ok, err := t.budgets.Restore(ctx, old.Category, old.Amount); err != nil {
			slog.ErrorContext(ctx, "Failed to restore budget for deleted expense",
				"id", id,
				"category", old.Category,
				"error", err)
		} else if ok {
			slog.InfoContext(ctx, "Restored budget for deleted expense",
				"id", id,
				"category", old.Category,
				"amount", old.Amount.String())
		}
	}

	t.publish(ctx, id, amqp.ActionDelete)

	return nil
}

// Clear removes all transactions. Budgets keep their limits and current
// remaining values.
func (t *Tracker) Clear(ctx context.Context) error {
	return t.ledger.Clear(ctx)
}

// Summary computes totals in the selected display currency.
func (t *Tracker) Summary(ctx context.Context) (core.Totals, error) {
	txs, err := t.ledger.List(ctx)
	if err != nil {
		return core.Totals{}, err
	}

	target := t.converter.SelectedCurrency(ctx)
	return report.ComputeTotalsIn(ctx, t.converter, txs, target), nil
}

// Breakdown returns per-category native-currency totals.
func (t *Tracker) Breakdown(ctx context.Context) (map[string]decimal.Decimal, error) {
	txs, err := t.ledger.List(ctx)
	if err != nil {
		return nil, err
	}
	return report.CategoryBreakdown(txs), nil
}

// Budget passthroughs keep handlers on a single service boundary.

func (t *Tracker) SetBudget(ctx context.Context, category string, limit decimal.Decimal) error {
	return t.budgets.SetLimit(ctx, category, limit)
}

func (t *Tracker) ResetBudget(ctx context.Context, category string) error {
	return t.budgets.Reset(ctx, category)
}

func (t *Tracker) BudgetRemaining(ctx context.Context, category string) (decimal.Decimal, error) {
	return t.budgets.GetRemaining(ctx, category)
}

func (t *Tracker) Budgets(ctx context.Context) ([]core.BudgetStatus, error) {
	return t.budgets.Overview(ctx)
}

// Currency passthroughs.

func (t *Tracker) SelectedCurrency(ctx context.Context) string {
	return t.converter.SelectedCurrency(ctx)
}

func (t *Tracker) SetSelectedCurrency(ctx context.Context, code string) error {
	return t.converter.SetSelectedCurrency(ctx, code)
}

// publish sends a sync message without failing the request. The ledger
// write already succeeded, mirroring is best-effort.
func (t *Tracker) publish(ctx context.Context, id int64, action string) {
	if t.publisher == nil {
		return
	}

	if err := t.publisher.PublishTransactionSync(ctx, id, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", id,
			"action", action,
			"error", err)
	}
}
