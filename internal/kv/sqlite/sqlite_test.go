package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"moneta/internal/kv"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return store
}

func TestStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Get(ctx, kv.KeyTransactions); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("Get() on empty store error = %v, want ErrNotFound", err)
	}

	value := json.RawMessage(`[{"id":1,"category":"groceries"}]`)
	if err := store.Set(ctx, kv.KeyTransactions, value); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := store.Get(ctx, kv.KeyTransactions)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != string(value) {
		t.Errorf("Get() = %s, want %s", got, value)
	}
}

func TestStore_Upsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, kv.KeySelectedCurrency, json.RawMessage(`"USD"`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Set(ctx, kv.KeySelectedCurrency, json.RawMessage(`"EUR"`)); err != nil {
		t.Fatalf("second Set() error = %v", err)
	}

	got, err := store.Get(ctx, kv.KeySelectedCurrency)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `"EUR"` {
		t.Errorf("Get() = %s, want \"EUR\"", got)
	}
}

func TestStore_Remove(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, kv.KeyCategoryBudgets, json.RawMessage(`{}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Remove(ctx, kv.KeyCategoryBudgets); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := store.Get(ctx, kv.KeyCategoryBudgets); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("Get() after Remove() error = %v, want ErrNotFound", err)
	}

	// Removing an absent key is a no-op.
	if err := store.Remove(ctx, kv.KeyCategoryBudgets); err != nil {
		t.Errorf("repeated Remove() error = %v", err)
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := store.Set(ctx, kv.KeyTransactions, json.RawMessage(`[]`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := New(dbPath)
	if err != nil {
		t.Fatalf("reopen New() error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, kv.KeyTransactions)
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if string(got) != `[]` {
		t.Errorf("Get() = %s, want []", got)
	}
}
