package kv

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
)

// Fallback layers a remote store over a local one. Reads prefer the
// remote tier and degrade to local when it is unreachable; a remote
// not-found is authoritative and does not consult local. Writes land
// locally first and are mirrored to the remote tier best-effort, so a
// remote outage never fails the caller. A value written only locally
// during an outage stays invisible once the remote recovers without
// it, until the next write of that key re-mirrors the local state.
type Fallback struct {
	remote Store
	local  Store
}

func NewFallback(remote, local Store) *Fallback {
	return &Fallback{remote: remote, local: local}
}

func (f *Fallback) Get(ctx context.Context, key string) (json.RawMessage, error) {
	raw, err := f.remote.Get(ctx, key)
	if err == nil {
		return raw, nil
	}
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	slog.WarnContext(ctx, "Remote store read failed, using local tier",
		"key", key, "error", err)
	return f.local.Get(ctx, key)
}

func (f *Fallback) Set(ctx context.Context, key string, value json.RawMessage) error {
	if err := f.local.Set(ctx, key, value); err != nil {
		return err
	}
	if err := f.remote.Set(ctx, key, value); err != nil {
		slog.WarnContext(ctx, "Remote store write failed, value kept locally",
			"key", key, "error", err)
	}
	return nil
}

func (f *Fallback) Remove(ctx context.Context, key string) error {
	if err := f.local.Remove(ctx, key); err != nil {
		return err
	}
	if err := f.remote.Remove(ctx, key); err != nil {
		slog.WarnContext(ctx, "Remote store remove failed, key removed locally",
			"key", key, "error", err)
	}
	return nil
}
