package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestApplyEnv(t *testing.T) {
	t.Setenv("CATALOG_SEARCH_CATALOG", "/env/catalog.json")
	t.Setenv("CATALOG_SEARCH_HISTORY", "memory")
	t.Setenv("CATALOG_SEARCH_RETENTION_DAYS", "7")
	t.Setenv("CATALOG_SEARCH_STRATEGIES", "exact, fuzzy,,")
	t.Setenv("CATALOG_SEARCH_LOG_LEVEL", " ")

	cfg := NewConfig()
	cfg.Catalog = "/file/catalog.yaml"
	cfg.LogLevel = "warn"

	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}

	if cfg.Catalog != "/env/catalog.json" {
		t.Errorf("env should override catalog, got %q", cfg.Catalog)
	}
	if cfg.History.Backend != "memory" || cfg.History.RetentionDays != 7 {
		t.Errorf("history overrides not applied: %+v", cfg.History)
	}
	if len(cfg.Search.Strategies) != 2 || cfg.Search.Strategies[1] != "fuzzy" {
		t.Errorf("strategies not split: %v", cfg.Search.Strategies)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("blank variable should not override, got %q", cfg.LogLevel)
	}
}

func TestApplyEnvRejectsBadValues(t *testing.T) {
	t.Setenv("CATALOG_SEARCH_MAX_RESULTS", "lots")

	err := NewConfig().ApplyEnv()
	var invalid *InvalidConfigError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidConfigError, got %v", err)
	}
	if invalid.Path != "CATALOG_SEARCH_MAX_RESULTS" {
		t.Errorf("error should name the variable, got %q", invalid.Path)
	}

	t.Setenv("CATALOG_SEARCH_MAX_RESULTS", "")
	t.Setenv("CATALOG_SEARCH_HISTORY", "floppy")
	if err := NewConfig().ApplyEnv(); !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidConfigError for bad backend, got %v", err)
	}
}

func TestLoadEnvFile(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(envPath, []byte("CATALOG_SEARCH_POOL_SIZE=3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	// Registers cleanup that restores the unset state.
	t.Setenv("CATALOG_SEARCH_POOL_SIZE", "")
	os.Unsetenv("CATALOG_SEARCH_POOL_SIZE")

	if err := LoadEnvFile(envPath); err != nil {
		t.Fatalf("LoadEnvFile failed: %v", err)
	}

	cfg := NewConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if cfg.Search.PoolSize != 3 {
		t.Errorf("expected pool size from env file, got %d", cfg.Search.PoolSize)
	}

	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("explicit missing file should fail")
	}
}
