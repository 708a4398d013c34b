package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SATSTACK_ENV", "SATSTACK_LEDGER_FILE", "SATSTACK_ADDR", "SATSTACK_CORS_ORIGINS", "SATSTACK_REQUEST_TIMEOUT", "SATSTACK_PRICE_REFRESH"} {
		t.Setenv(key, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.Ledger.File != "satstack.jsonl" {
		t.Errorf("Ledger.File = %q, want satstack.jsonl", cfg.Ledger.File)
	}
	if cfg.Server.Addr != "localhost:5001" {
		t.Errorf("Server.Addr = %q, want localhost:5001", cfg.Server.Addr)
	}
	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Errorf("Server.AllowedOrigins = %v, want 2 origins", cfg.Server.AllowedOrigins)
	}
	if cfg.Server.RequestTimeout != 10*time.Second {
		t.Errorf("Server.RequestTimeout = %v, want 10s", cfg.Server.RequestTimeout)
	}
	if cfg.Price.Refresh != "@every 5m" {
		t.Errorf("Price.Refresh = %q, want @every 5m", cfg.Price.Refresh)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SATSTACK_LEDGER_FILE", "/tmp/mine.jsonl")
	t.Setenv("SATSTACK_CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("SATSTACK_REQUEST_TIMEOUT", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Ledger.File != "/tmp/mine.jsonl" {
		t.Errorf("Ledger.File = %q, want /tmp/mine.jsonl", cfg.Ledger.File)
	}
	if got := cfg.Server.AllowedOrigins; len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Errorf("Server.AllowedOrigins = %v", got)
	}
	if cfg.Server.RequestTimeout != 3*time.Second {
		t.Errorf("Server.RequestTimeout = %v, want 3s", cfg.Server.RequestTimeout)
	}
}

func TestLoad_InvalidTimeout(t *testing.T) {
	for _, v := range []string{"soon", "-1s"} {
		t.Setenv("SATSTACK_REQUEST_TIMEOUT", v)
		if _, err := Load(); err == nil {
			t.Errorf("Load() with SATSTACK_REQUEST_TIMEOUT=%q expected an error", v)
		}
	}
}
