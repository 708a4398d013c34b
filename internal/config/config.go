// Package config loads the satstack configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Env      string // "production" selects JSON logs.
	Ledger   LedgerConfig
	Database DatabaseConfig
	Server   ServerConfig
	Price    PriceConfig
	Agent    AgentConfig
}

// LedgerConfig locates the files used by the command line.
type LedgerConfig struct {
	File         string // JSONL transaction ledger.
	SettingsFile string // JSON tax settings.
}

// DatabaseConfig holds database-specific configuration.
type DatabaseConfig struct {
	Path string
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// PriceConfig holds the price feed configuration.
type PriceConfig struct {
	CoinGeckoAPIKey string
	CacheDir        string // daily HTTP response cache.
	Refresh         string // cron spec of the server price refresh.
	Estimate        string // price used when no quote was ever obtained, empty for none.
}

// AgentConfig holds the assistant configuration.
type AgentConfig struct {
	GeminiAPIKey string
	Model        string
}

// Load reads configuration from environment variables and .env file.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		Env: getEnv("SATSTACK_ENV", "development"),
		Ledger: LedgerConfig{
			File:         getEnv("SATSTACK_LEDGER_FILE", "satstack.jsonl"),
			SettingsFile: getEnv("SATSTACK_SETTINGS_FILE", "satstack-settings.json"),
		},
		Database: DatabaseConfig{
			Path: getEnv("SATSTACK_DB_PATH", "./data/satstack.db"),
		},
		Server: ServerConfig{
			Addr:           getEnv("SATSTACK_ADDR", "localhost:5001"),
			AllowedOrigins: splitList(getEnv("SATSTACK_CORS_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Price: PriceConfig{
			CoinGeckoAPIKey: os.Getenv("COINGECKO_API_KEY"),
			CacheDir:        getEnv("SATSTACK_CACHE_DIR", os.TempDir()),
			Refresh:         getEnv("SATSTACK_PRICE_REFRESH", "@every 5m"),
			Estimate:        os.Getenv("SATSTACK_PRICE_ESTIMATE"),
		},
		Agent: AgentConfig{
			GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
			Model:        getEnv("SATSTACK_GEMINI_MODEL", "gemini-2.5-pro"),
		},
	}

	timeout, err := parseTimeout(os.Getenv("SATSTACK_REQUEST_TIMEOUT"))
	if err != nil {
		return nil, err
	}
	cfg.Server.RequestTimeout = timeout

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	var res []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			res = append(res, item)
		}
	}
	return res
}

func parseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 10 * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid SATSTACK_REQUEST_TIMEOUT %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("SATSTACK_REQUEST_TIMEOUT must be positive, got %v", d)
	}
	return d, nil
}
