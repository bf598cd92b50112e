package backend

import (
	"context"
	"path/filepath"
	"testing"

	"moneta/internal/config"
)

func TestBackendType_IsValid(t *testing.T) {
	tests := []struct {
		backendType BackendType
		want        bool
	}{
		{MemoryBackend, true},
		{SQLiteBackend, true},
		{RemoteBackend, true},
		{BackendType("sheets"), false},
		{BackendType(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.backendType), func(t *testing.T) {
			if got := tt.backendType.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		if _, err := FromAppConfig(nil); err == nil {
			t.Error("FromAppConfig(nil) error = nil, want error")
		}
	})

	t.Run("invalid backend", func(t *testing.T) {
		if _, err := FromAppConfig(&config.Config{DataBackend: "bogus"}); err == nil {
			t.Error("FromAppConfig() error = nil, want error")
		}
	})

	t.Run("valid config", func(t *testing.T) {
		cfg, err := FromAppConfig(&config.Config{
			DataBackend:  "remote",
			RemoteAPIURL: "https://kv.example.com",
			SQLiteDBPath: "./data/moneta.db",
		})
		if err != nil {
			t.Fatalf("FromAppConfig() error = %v", err)
		}
		if cfg.Type != RemoteBackend {
			t.Errorf("Type = %v, want remote", cfg.Type)
		}
		if cfg.RemoteAPIURL != "https://kv.example.com" {
			t.Errorf("RemoteAPIURL = %v", cfg.RemoteAPIURL)
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite with path", Config{Type: SQLiteBackend, SQLiteDBPath: "./test.db"}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"remote with url", Config{Type: RemoteBackend, RemoteAPIURL: "https://kv.example.com"}, false},
		{"remote without url", Config{Type: RemoteBackend}, true},
		{"invalid type", Config{Type: BackendType("bogus")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFactory_CreateStore(t *testing.T) {
	factory := NewFactory(nil)
	ctx := context.Background()

	t.Run("memory store", func(t *testing.T) {
		result, err := factory.CreateStore(ctx, Config{Type: MemoryBackend})
		if err != nil {
			t.Fatalf("CreateStore() error = %v", err)
		}
		if result.Store == nil {
			t.Fatal("CreateStore() returned nil store")
		}
		if result.Cleanup != nil {
			t.Error("memory store should not need cleanup")
		}
	})

	t.Run("sqlite store", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")
		result, err := factory.CreateStore(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: dbPath})
		if err != nil {
			t.Fatalf("CreateStore() error = %v", err)
		}
		if result.Cleanup == nil {
			t.Fatal("sqlite store must provide cleanup")
		}
		if err := result.Cleanup(); err != nil {
			t.Errorf("Cleanup() error = %v", err)
		}
	})

	t.Run("remote store requires URL", func(t *testing.T) {
		if _, err := factory.CreateStore(ctx, Config{Type: RemoteBackend}); err == nil {
			t.Error("CreateStore() error = nil, want error")
		}
	})

	t.Run("invalid type", func(t *testing.T) {
		if _, err := factory.CreateStore(ctx, Config{Type: BackendType("bogus")}); err == nil {
			t.Error("CreateStore() error = nil, want error")
		}
	})
}
