package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "netvalue.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"NETVALUE_DB", "NETVALUE_PROVIDER", "NETVALUE_EODHD_KEY"} {
		t.Setenv(name, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider != "yahoo" {
		t.Errorf("Provider = %q, want yahoo", cfg.Provider)
	}
	if cfg.Currency != "USD" {
		t.Errorf("Currency = %q, want USD", cfg.Currency)
	}
	if cfg.QuoteTTL() != 120*time.Second {
		t.Errorf("QuoteTTL = %v, want 120s", cfg.QuoteTTL())
	}
	if cfg.FetchTimeout() != 10*time.Second {
		t.Errorf("FetchTimeout = %v, want 10s", cfg.FetchTimeout())
	}
	if cfg.RefreshCron != "0 30 18 * * MON-FRI" {
		t.Errorf("RefreshCron = %q", cfg.RefreshCron)
	}
	if cfg.DBPath == "" {
		t.Error("a default DBPath must be picked")
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
db_path: /tmp/x.db
provider: stub
currency: EUR
quote_ttl_seconds: 30
fetch_timeout_seconds: 5
refresh_cron: "0 0 9 * * *"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "/tmp/x.db" || cfg.Provider != "stub" || cfg.Currency != "EUR" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.QuoteTTL() != 30*time.Second || cfg.FetchTimeout() != 5*time.Second {
		t.Errorf("durations not applied: %+v", cfg)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "provider: yahoo\ndb_path: /tmp/file.db\n")
	t.Setenv("NETVALUE_PROVIDER", "eodhd")
	t.Setenv("NETVALUE_EODHD_KEY", "demo")
	t.Setenv("NETVALUE_DB", "/tmp/env.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider != "eodhd" {
		t.Errorf("Provider = %q, env must win", cfg.Provider)
	}
	if cfg.EODHDAPIKey != "demo" {
		t.Errorf("EODHDAPIKey = %q, want demo", cfg.EODHDAPIKey)
	}
	if cfg.DBPath != "/tmp/env.db" {
		t.Errorf("DBPath = %q, env must win", cfg.DBPath)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown provider", "provider: bloomberg\n", "provider"},
		{"zero ttl", "quote_ttl_seconds: 0\n", "quote_ttl_seconds"},
		{"negative timeout", "fetch_timeout_seconds: -1\n", "fetch_timeout_seconds"},
		{"bad currency", "currency: EURO\n", "currency"},
		{"bad yaml", "provider: [\n", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestDefaultPathHonorsEnv(t *testing.T) {
	t.Setenv("NETVALUE_CONFIG", "/etc/netvalue.yaml")
	if got := DefaultPath(); got != "/etc/netvalue.yaml" {
		t.Errorf("DefaultPath = %q", got)
	}
	t.Setenv("NETVALUE_CONFIG", "")
	if got := DefaultPath(); !strings.HasSuffix(got, "netvalue.yaml") {
		t.Errorf("DefaultPath = %q, want a netvalue.yaml location", got)
	}
}
