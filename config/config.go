// Package config loads the netvalue configuration from a YAML file with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied before the file is read.
const (
	DefaultProvider     = "yahoo"
	DefaultCurrency     = "USD"
	DefaultQuoteTTL     = 120
	DefaultFetchTimeout = 10
	DefaultRefreshCron  = "0 30 18 * * MON-FRI"
)

// Config holds the whole application configuration.
type Config struct {
	// DBPath is the SQLite file holding ledger and price cache.
	DBPath string `yaml:"db_path"`
	// Provider names the market-data source: yahoo, eodhd or stub.
	Provider    string `yaml:"provider"`
	EODHDAPIKey string `yaml:"eodhd_api_key"`
	// Currency is the ISO code used to render money.
	Currency string `yaml:"currency"`
	// QuoteTTLSeconds bounds how long live quotes are served from cache.
	QuoteTTLSeconds int `yaml:"quote_ttl_seconds"`
	// FetchTimeoutSeconds bounds one provider fetch round.
	FetchTimeoutSeconds int `yaml:"fetch_timeout_seconds"`
	// RefreshCron schedules the refresh daemon (six fields, with seconds).
	RefreshCron string `yaml:"refresh_cron"`
}

// DefaultPath returns the config file location used when the -config flag is
// absent: $NETVALUE_CONFIG, or netvalue.yaml next to the default database.
func DefaultPath() string {
	if v := os.Getenv("NETVALUE_CONFIG"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "netvalue.yaml"
	}
	return filepath.Join(home, ".netvalue", "netvalue.yaml")
}

// Load reads the YAML file at path, then applies environment overrides.
// A missing file is not an error, the defaults stand.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Provider:            DefaultProvider,
		Currency:            DefaultCurrency,
		QuoteTTLSeconds:     DefaultQuoteTTL,
		FetchTimeoutSeconds: DefaultFetchTimeout,
		RefreshCron:         DefaultRefreshCron,
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// Environment overrides.
	if v := os.Getenv("NETVALUE_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("NETVALUE_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("NETVALUE_EODHD_KEY"); v != "" {
		cfg.EODHDAPIKey = v
	}

	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot pick a default db path: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".netvalue", "netvalue.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values. It runs on every Load so a bad file fails
// fast instead of at first use.
func (c *Config) Validate() error {
	switch c.Provider {
	case "yahoo", "eodhd", "stub":
	default:
		return fmt.Errorf("provider %q is not supported, want yahoo, eodhd or stub", c.Provider)
	}
	if c.QuoteTTLSeconds <= 0 {
		return fmt.Errorf("quote_ttl_seconds must be positive, got %d", c.QuoteTTLSeconds)
	}
	if c.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("fetch_timeout_seconds must be positive, got %d", c.FetchTimeoutSeconds)
	}
	if len(c.Currency) != 3 {
		return fmt.Errorf("currency %q is not a 3-letter ISO code", c.Currency)
	}
	if c.RefreshCron == "" {
		return fmt.Errorf("refresh_cron must not be empty")
	}
	return nil
}

// QuoteTTL and FetchTimeout return the configured durations.
func (c *Config) QuoteTTL() time.Duration     { return time.Duration(c.QuoteTTLSeconds) * time.Second }
func (c *Config) FetchTimeout() time.Duration { return time.Duration(c.FetchTimeoutSeconds) * time.Second }
