package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type AppConfig struct {
	// Upstream base URLs; overridable for testing against stubs.
	MonetaryPolicyBaseURL string
	SweaBaseURL           string
	SwestrBaseURL         string

	// Outbound HTTP behaviour.
	HTTPTimeout          time.Duration
	RetryMax             int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration

	// WatcherInterval controls how often the policy round catalogue is
	// polled for newly published rounds. Zero disables the watcher.
	WatcherInterval time.Duration

	Port     string
	LogLevel string
	Env      string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.MonetaryPolicyBaseURL = os.Getenv("MONETARY_POLICY_API_URL")
	cfg.SweaBaseURL = os.Getenv("SWEA_API_URL")
	cfg.SwestrBaseURL = os.Getenv("SWESTR_API_URL")

	timeout, err := getenvDuration("HTTP_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	cfg.RetryMax = getenvInt("RETRY_MAX", 5)

	initial, err := getenvDuration("RETRY_INITIAL_INTERVAL", "1s")
	if err != nil {
		return nil, err
	}
	cfg.RetryInitialInterval = initial

	maxInterval, err := getenvDuration("RETRY_MAX_INTERVAL", "60s")
	if err != nil {
		return nil, err
	}
	cfg.RetryMaxInterval = maxInterval

	watcher, err := getenvDuration("WATCHER_INTERVAL", "30m")
	if err != nil {
		return nil, err
	}
	cfg.WatcherInterval = watcher

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.Env = getenvDefault("APP_ENV", "development")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
