package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"moneta/internal/kv"
)

// fakeKVServer is a minimal remote KV API for exercising the client.
func fakeKVServer() (*httptest.Server, *sync.Map) {
	var values sync.Map
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path[len("/kv/"):]
		switch r.Method {
		case http.MethodGet:
			v, ok := values.Load(key)
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write(v.([]byte))
		case http.MethodPut:
			var body []byte
			if r.Body != nil {
				buf := make([]byte, r.ContentLength)
				r.Body.Read(buf)
				body = buf
			}
			values.Store(key, body)
			w.WriteHeader(http.StatusNoContent)
		case http.MethodDelete:
			values.Delete(key)
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	return httptest.NewServer(h), &values
}

func TestRemoteRoundTrip(t *testing.T) {
	srv, _ := fakeKVServer()
	defer srv.Close()

	ctx := context.Background()
	s := New(srv.URL)

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.Set(ctx, "k", json.RawMessage(`{"n":1}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	out, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(out) != `{"n":1}` {
		t.Fatalf("got %s", out)
	}

	if err := s.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
}

func TestRemoteServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := New(srv.URL)
	s.client.RetryMax = 0

	if _, err := s.Get(context.Background(), "k"); !errors.Is(err, kv.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if err := s.Set(context.Background(), "k", json.RawMessage(`1`)); !errors.Is(err, kv.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
