package config

import (
	"testing"
	"time"

	"github.com/alexim39/marketspase-engine/pkg/enums"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if !cfg.App.IsDev() {
		t.Fatalf("expected default env to be dev, got %q", cfg.App.Env)
	}
	if cfg.App.Port != "8085" {
		t.Fatalf("unexpected default port %q", cfg.App.Port)
	}
	if cfg.Storage.BackendKind() != enums.StorageFile {
		t.Fatalf("expected file backend, got %q", cfg.Storage.Backend)
	}
	if cfg.Redis.DialTimeout != 5*time.Second {
		t.Fatalf("unexpected redis dial timeout %v", cfg.Redis.DialTimeout)
	}
}

func TestLoad_BackendSelection(t *testing.T) {
	t.Setenv("MARKETSPASE_STORAGE_BACKEND", "sqlite")
	t.Setenv("MARKETSPASE_STORAGE_SQLITE_PATH", "/tmp/state.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Storage.BackendKind() != enums.StorageSQLite {
		t.Fatalf("expected sqlite backend, got %q", cfg.Storage.Backend)
	}
	if cfg.Storage.SQLitePath != "/tmp/state.db" {
		t.Fatalf("unexpected sqlite path %q", cfg.Storage.SQLitePath)
	}
}

func TestLoad_InvalidBackend(t *testing.T) {
	t.Setenv("MARKETSPASE_STORAGE_BACKEND", "localstorage")

	if _, err := Load(); err == nil {
		t.Fatal("expected invalid storage backend to return an error")
	}
}
