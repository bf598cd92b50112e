package kv_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"moneta/internal/kv"
	"moneta/internal/kv/memory"
)

// downStore simulates an unreachable remote tier.
type downStore struct{}

func (downStore) Get(context.Context, string) (json.RawMessage, error) {
	return nil, fmt.Errorf("get: %w", kv.ErrUnavailable)
}

func (downStore) Set(context.Context, string, json.RawMessage) error {
	return fmt.Errorf("set: %w", kv.ErrUnavailable)
}

func (downStore) Remove(context.Context, string) error {
	return fmt.Errorf("remove: %w", kv.ErrUnavailable)
}

func TestFallbackPrefersRemote(t *testing.T) {
	ctx := context.Background()
	remote := memory.New()
	local := memory.New()
	f := kv.NewFallback(remote, local)

	if err := remote.Set(ctx, "k", json.RawMessage(`"remote"`)); err != nil {
		t.Fatalf("seed remote: %v", err)
	}
	if err := local.Set(ctx, "k", json.RawMessage(`"local"`)); err != nil {
		t.Fatalf("seed local: %v", err)
	}

	out, err := f.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(out) != `"remote"` {
		t.Fatalf("got %s, want remote value", out)
	}
}

func TestFallbackDegradesOnRemoteOutage(t *testing.T) {
	ctx := context.Background()
	local := memory.New()
	f := kv.NewFallback(downStore{}, local)

	// Writes must succeed locally even when the remote tier is down.
	if err := f.Set(ctx, "k", json.RawMessage(`42`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	out, err := f.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(out) != `42` {
		t.Fatalf("got %s, want 42", out)
	}

	if err := f.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := local.Get(ctx, "k"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected local removal, got %v", err)
	}
}

func TestFallbackRemoteNotFoundIsAuthoritative(t *testing.T) {
	ctx := context.Background()
	remote := memory.New()
	local := memory.New()
	f := kv.NewFallback(remote, local)

	if err := local.Set(ctx, "k", json.RawMessage(`1`)); err != nil {
		t.Fatalf("seed local: %v", err)
	}
	if _, err := f.Get(ctx, "k"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from healthy remote, got %v", err)
	}
}

func TestGetSetJSON(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	type payload struct {
		N int    `json:"n"`
		S string `json:"s"`
	}

	if err := kv.SetJSON(ctx, s, "p", payload{N: 3, S: "x"}); err != nil {
		t.Fatalf("set json: %v", err)
	}
	var got payload
	if err := kv.GetJSON(ctx, s, "p", &got); err != nil {
		t.Fatalf("get json: %v", err)
	}
	if got.N != 3 || got.S != "x" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
