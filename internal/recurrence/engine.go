// Package recurrence materializes concrete transactions from recurring
// templates. Expansion happens lazily at load time instead of via a
// background scheduler: however long the tracker was closed, the next
// load catches up deterministically, and because the last occurrence is
// recomputed from stored data on every pass the operation is idempotent.
package recurrence

import (
	"context"
	"log/slog"
	"time"

	"moneta/internal/budget"
	"moneta/internal/core"
	"moneta/internal/ledger"
)

type Engine struct {
	ledger  *ledger.Ledger
	budgets *budget.Tracker
}

// New builds an engine. budgets may be nil, in which case generated
// expense instances do not touch budget state.
func New(l *ledger.Ledger, budgets *budget.Tracker) *Engine {
	return &Engine{ledger: l, budgets: budgets}
}

// Today returns the reference date for a materialization run: the
// current clock date truncated to midnight.
func Today() time.Time {
	return Midnight(time.Now())
}

func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Materialize generates every instance due on or before today and
// appends the whole batch to the ledger with a single write. Generated
// expense instances deduct from their category budget like any other
// expense creation. Returns the number of instances generated; running
// twice with the same today generates nothing on the second pass.
func (e *Engine) Materialize(ctx context.Context, today time.Time) (int, error) {
	txs, err := e.ledger.List(ctx)
	if err != nil {
		return 0, err
	}

	var generated []core.Transaction
	for _, base := range txs {
		if !base.IsRecurringBase() {
			continue
		}
		generated = append(generated, e.expand(base, txs, today)...)
	}
	if len(generated) == 0 {
		return 0, nil
	}

	if err := e.ledger.AddAll(ctx, generated); err != nil {
		return 0, err
	}

	for _, inst := range generated {
		if inst.Type != core.Expense || e.budgets == nil {
			continue
		}
		if _, err := e.budgets.Deduct(ctx, inst.Category, inst.Amount); err != nil {
			slog.ErrorContext(ctx, "Budget deduct failed for generated instance",
				"id", inst.ID,
				"category", inst.Category,
				"error", err)
		}
	}

	slog.InfoContext(ctx, "Recurring instances materialized",
		"count", len(generated),
		"as_of", today.Format("2006-01-02"))
	return len(generated), nil
}

// expand clones base once per missed interval between its last stored
// occurrence and today.
func (e *Engine) expand(base core.Transaction, stored []core.Transaction, today time.Time) []core.Transaction {
	last := lastOccurrence(base, stored)

	var out []core.Transaction
	next := last.AddDate(0, 0, base.RecurrenceIntervalDays)
	for !next.After(today) {
		inst := base
		inst.ID = core.NextID()
		inst.Date = next
		inst.IsRecurringInstance = true
		inst.ParentID = base.ID
		out = append(out, inst)

		next = next.AddDate(0, 0, base.RecurrenceIntervalDays)
	}
	return out
}

// lastOccurrence is the max date over the base itself and every
// instance already generated from it.
func lastOccurrence(base core.Transaction, stored []core.Transaction) time.Time {
	last := base.Date
	for _, tx := range stored {
		if tx.ID != base.ID && tx.ParentID != base.ID {
			continue
		}
		if tx.Date.After(last) {
			last = tx.Date
		}
	}
	return last
}
