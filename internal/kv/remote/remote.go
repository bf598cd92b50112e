// Package remote implements kv.Store against a remote HTTP key-value
// API. It is meant to sit behind kv.Fallback: any transport failure
// surfaces as kv.ErrUnavailable so the caller can degrade to the local
// tier instead of retrying indefinitely.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"moneta/internal/kv"
)

type Store struct {
	baseURL string
	client  *retryablehttp.Client
}

func New(baseURL string) *Store {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = 10 * time.Second
	client.Logger = nil

	return &Store{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (s *Store) keyURL(key string) string {
	return s.baseURL + "/kv/" + url.PathEscape(key)
}

func (s *Store) Get(ctx context.Context, key string) (json.RawMessage, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, s.keyURL(key), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w: %v", key, kv.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w: %v", key, kv.ErrUnavailable, err)
		}
		return json.RawMessage(body), nil
	case http.StatusNotFound:
		return nil, kv.ErrNotFound
	default:
		return nil, fmt.Errorf("get %s: %w: status %d", key, kv.ErrUnavailable, resp.StatusCode)
	}
}

func (s *Store) Set(ctx context.Context, key string, value json.RawMessage) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPut, s.keyURL(key), bytes.NewReader(value))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("set %s: %w: %v", key, kv.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("set %s: %w: status %d", key, kv.ErrUnavailable, resp.StatusCode)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodDelete, s.keyURL(key), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("remove %s: %w: %v", key, kv.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	// Deleting an absent key is a no-op, matching the local stores.
	if resp.StatusCode != http.StatusNotFound && (resp.StatusCode < 200 || resp.StatusCode >= 300) {
		return fmt.Errorf("remove %s: %w: status %d", key, kv.ErrUnavailable, resp.StatusCode)
	}
	return nil
}
