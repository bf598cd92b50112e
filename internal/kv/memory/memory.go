// Package memory provides an in-process kv.Store, used as the default
// backend and as the test double across the codebase.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"moneta/internal/kv"
)

type Store struct {
	mu     sync.Mutex
	values map[string]json.RawMessage
}

func New() *Store {
	return &Store{values: make(map[string]json.RawMessage)}
}

func (s *Store) Get(_ context.Context, key string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.values[key]
	if !ok {
		return nil, kv.ErrNotFound
	}
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out, nil
}

func (s *Store) Set(_ context.Context, key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make(json.RawMessage, len(value))
	copy(stored, value)
	s.values[key] = stored
	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
