// Package kv defines the key-value persistence port the tracker core is
// written against. Backing stores may be in-process, SQLite-backed, or a
// remote HTTP service; the core treats them uniformly.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Logical record keys. Each record is independently readable and writable.
const (
	KeyTransactions     = "financeTransactions"
	KeyCategoryBudgets  = "categoryBudgets"
	KeyRemainingBudgets = "remainingBudgets"
	KeyExchangeRates    = "exchangeRates"
	KeyRatesCacheTime   = "ratesCacheTime"
	KeySelectedCurrency = "selectedCurrency"
)

var (
	// ErrNotFound means the key has no stored value.
	ErrNotFound = errors.New("key not found")

	// ErrUnavailable means the backing store could not be reached.
	ErrUnavailable = errors.New("store unavailable")
)

// Store is the persistence port for named JSON-serializable values.
type Store interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
	Remove(ctx context.Context, key string) error
}

// GetJSON loads and decodes the value under key into v.
func GetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}
