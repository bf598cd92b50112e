// Package budget owns the per-category budget state: the static limit
// map and the incrementally-adjusted remaining map. Nothing else writes
// these records; the ledger layer calls in here so the reversal logic
// for edits and deletes stays in one place.
package budget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"moneta/internal/core"
	"moneta/internal/kv"
)

// ErrNegativeLimit rejects negative budget limits at entry.
var ErrNegativeLimit = errors.New("budget limit cannot be negative")

type Tracker struct {
	store kv.Store
}

func New(store kv.Store) *Tracker {
	return &Tracker{store: store}
}

func (t *Tracker) load(ctx context.Context, key string) (map[string]decimal.Decimal, error) {
	m := make(map[string]decimal.Decimal)
	err := kv.GetJSON(ctx, t.store, key, &m)
	if errors.Is(err, kv.ErrNotFound) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return m, nil
}

func (t *Tracker) save(ctx context.Context, key string, m map[string]decimal.Decimal) error {
	if err := kv.SetJSON(ctx, t.store, key, m); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// SetLimit upserts the limit for a category. The remaining amount is
// initialized to the new limit when no remaining entry exists yet;
// an existing remaining entry is left untouched.
func (t *Tracker) SetLimit(ctx context.Context, category string, limit decimal.Decimal) error {
	if limit.IsNegative() {
		return ErrNegativeLimit
	}

	limits, err := t.load(ctx, kv.KeyCategoryBudgets)
	if err != nil {
		return err
	}
	limits[category] = limit
	if err := t.save(ctx, kv.KeyCategoryBudgets, limits); err != nil {
		return err
	}

	remaining, err := t.load(ctx, kv.KeyRemainingBudgets)
	if err != nil {
		return err
	}
	if _, ok := remaining[category]; !ok {
		remaining[category] = limit
		if err := t.save(ctx, kv.KeyRemainingBudgets, remaining); err != nil {
			return err
		}
	}

	slog.InfoContext(ctx, "Budget limit set",
		"category", category,
		"limit", limit.String())
	return nil
}

// Limit returns the configured limit for a category, zero when unset.
func (t *Tracker) Limit(ctx context.Context, category string) (decimal.Decimal, error) {
	limits, err := t.load(ctx, kv.KeyCategoryBudgets)
	if err != nil {
		return decimal.Zero, err
	}
	return limits[category], nil
}

// GetRemaining returns the remaining amount for a category: the tracked
// remaining entry when present, else the configured limit, else zero.
func (t *Tracker) GetRemaining(ctx context.Context, category string) (decimal.Decimal, error) {
	remaining, err := t.load(ctx, kv.KeyRemainingBudgets)
	if err != nil {
		return decimal.Zero, err
	}
	if v, ok := remaining[category]; ok {
		return v, nil
	}
	return t.Limit(ctx, category)
}

// Deduct subtracts amount from the category's remaining budget and
// returns the new value. There is no floor at zero: a negative result
// is a valid overdraft signal.
func (t *Tracker) Deduct(ctx context.Context, category string, amount decimal.Decimal) (decimal.Decimal, error) {
	current, err := t.GetRemaining(ctx, category)
	if err != nil {
		return decimal.Zero, err
	}

	remaining, err := t.load(ctx, kv.KeyRemainingBudgets)
	if err != nil {
		return decimal.Zero, err
	}
	next := current.Sub(amount)
	remaining[category] = next
	if err := t.save(ctx, kv.KeyRemainingBudgets, remaining); err != nil {
		return decimal.Zero, err
	}

	slog.InfoContext(ctx, "Budget deducted",
		"category", category,
		"amount", amount.String(),
		"remaining", next.String())
	return next, nil
}

// Restore adds amount back to the category's remaining budget, the
// inverse of Deduct for deleted or edited-away expenses. When the
// category has no remaining entry there is nothing to reverse; the
// call reports ok=false and changes nothing.
func (t *Tracker) Restore(ctx context.Context, category string, amount decimal.Decimal) (decimal.Decimal, bool, error) {
	remaining, err := t.load(ctx, kv.KeyRemainingBudgets)
	if err != nil {
		return decimal.Zero, false, err
	}
	current, ok := remaining[category]
	if !ok {
		return decimal.Zero, false, nil
	}

	next := current.Add(amount)
	remaining[category] = next
	if err := t.save(ctx, kv.KeyRemainingBudgets, remaining); err != nil {
		return decimal.Zero, false, err
	}

	slog.InfoContext(ctx, "Budget restored",
		"category", category,
		"amount", amount.String(),
		"remaining", next.String())
	return next, true, nil
}

// Reset sets the remaining budget back to the configured limit. Without
// a limit there is nothing to reset to and the call is a no-op.
func (t *Tracker) Reset(ctx context.Context, category string) error {
	limits, err := t.load(ctx, kv.KeyCategoryBudgets)
	if err != nil {
		return err
	}
	limit, ok := limits[category]
	if !ok {
		return nil
	}

	remaining, err := t.load(ctx, kv.KeyRemainingBudgets)
	if err != nil {
		return err
	}
	remaining[category] = limit
	if err := t.save(ctx, kv.KeyRemainingBudgets, remaining); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Budget reset to limit",
		"category", category,
		"limit", limit.String())
	return nil
}

// Overview returns the union of all categories with a limit or a
// remaining entry, sorted by category. Categories tracked without a
// limit report a zero limit.
func (t *Tracker) Overview(ctx context.Context) ([]core.BudgetStatus, error) {
	limits, err := t.load(ctx, kv.KeyCategoryBudgets)
	if err != nil {
		return nil, err
	}
	remaining, err := t.load(ctx, kv.KeyRemainingBudgets)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(limits)+len(remaining))
	var out []core.BudgetStatus
	add := func(category string) {
		if _, ok := seen[category]; ok {
			return
		}
		seen[category] = struct{}{}
		status := core.BudgetStatus{
			Category: category,
			Limit:    limits[category],
		}
		if v, ok := remaining[category]; ok {
			status.Remaining = v
		} else {
			status.Remaining = status.Limit
		}
		out = append(out, status)
	}
	for category := range limits {
		add(category)
	}
	for category := range remaining {
		add(category)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}
