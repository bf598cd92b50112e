// Package ledger owns the transaction collection. It is the single
// writer of the financeTransactions record: every mutation reads the
// full set, changes it in memory, and writes the full set back. There
// is no partial-write state and no optimistic concurrency; concurrent
// writers from other processes are last-write-wins.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"moneta/internal/core"
	"moneta/internal/kv"
)

type Ledger struct {
	store kv.Store
}

func New(store kv.Store) *Ledger {
	return &Ledger{store: store}
}

// List returns the full stored transaction set in insertion order. An
// empty ledger is not an error.
func (l *Ledger) List(ctx context.Context) ([]core.Transaction, error) {
	var txs []core.Transaction
	err := kv.GetJSON(ctx, l.store, kv.KeyTransactions, &txs)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return txs, nil
}

func (l *Ledger) save(ctx context.Context, txs []core.Transaction) error {
	if err := kv.SetJSON(ctx, l.store, kv.KeyTransactions, txs); err != nil {
		return fmt.Errorf("save transactions: %w", err)
	}
	return nil
}

// Add appends one transaction, assigning an ID when the caller did not.
func (l *Ledger) Add(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if tx.ID == 0 {
		tx.ID = core.NextID()
	}

	txs, err := l.List(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	txs = append(txs, tx)
	if err := l.save(ctx, txs); err != nil {
		return core.Transaction{}, err
	}

	slog.InfoContext(ctx, "Transaction added",
		"id", tx.ID,
		"type", tx.Type,
		"category", tx.Category,
		"amount", tx.Amount.String())

	return tx, nil
}

// AddAll appends a batch of transactions with a single write, so a
// recurrence catch-up of many instances persists once, not per instance.
func (l *Ledger) AddAll(ctx context.Context, batch []core.Transaction) error {
	if len(batch) == 0 {
		return nil
	}

	txs, err := l.List(ctx)
	if err != nil {
		return err
	}
	txs = append(txs, batch...)
	if err := l.save(ctx, txs); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Transaction batch added", "count", len(batch))
	return nil
}

func (l *Ledger) Get(ctx context.Context, id int64) (core.Transaction, error) {
	txs, err := l.List(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	for _, tx := range txs {
		if tx.ID == id {
			return tx, nil
		}
	}
	return core.Transaction{}, core.ErrTransactionNotFound
}

// Update applies mutate to the stored transaction with the given id and
// persists the set. The ID itself is not mutable.
func (l *Ledger) Update(ctx context.Context, id int64, mutate func(*core.Transaction)) (core.Transaction, error) {
	txs, err := l.List(ctx)
	if err != nil {
		return core.Transaction{}, err
	}

	for i := range txs {
		if txs[i].ID != id {
			continue
		}
		mutate(&txs[i])
		txs[i].ID = id
		if err := l.save(ctx, txs); err != nil {
			return core.Transaction{}, err
		}
		slog.InfoContext(ctx, "Transaction updated", "id", id)
		return txs[i], nil
	}

	return core.Transaction{}, core.ErrTransactionNotFound
}

// Delete removes the transaction with the given id. Deleting an absent
// id is a silent no-op, matching idempotent-delete semantics.
func (l *Ledger) Delete(ctx context.Context, id int64) error {
	txs, err := l.List(ctx)
	if err != nil {
		return err
	}

	kept := txs[:0]
	for _, tx := range txs {
		if tx.ID != id {
			kept = append(kept, tx)
		}
	}
	if len(kept) == len(txs) {
		return nil
	}

	if err := l.save(ctx, kept); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

// Clear removes all transactions unconditionally.
func (l *Ledger) Clear(ctx context.Context) error {
	if err := l.store.Remove(ctx, kv.KeyTransactions); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	slog.InfoContext(ctx, "Transaction history cleared")
	return nil
}
