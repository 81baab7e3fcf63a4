// Package config loads the watchlist configuration from a YAML file, with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/etnz/watchlist"
	"github.com/etnz/watchlist/coingecko"
	"github.com/etnz/watchlist/storage"
	"gopkg.in/yaml.v3"
)

// Environment variables that take precedence over the file.
const (
	EnvAPIURL      = "WL_API_URL"
	EnvAPIKey      = "WL_API_KEY"
	EnvStorage     = "WL_STORAGE"
	EnvStoragePath = "WL_STORAGE_PATH"
)

// Config holds every setting of the application.
type Config struct {
	API struct {
		URL               string `yaml:"url"`
		Key               string `yaml:"key"`
		TimeoutSec        int    `yaml:"timeout_sec"`
		RequestsPerMinute int    `yaml:"requests_per_minute"` // negative for unlimited
		CacheTTLSec       int    `yaml:"cache_ttl_sec"`       // negative disables the cache
	} `yaml:"api"`

	Storage struct {
		Backend string `yaml:"backend"` // file, sqlite or memory
		Path    string `yaml:"path"`
		Key     string `yaml:"key"`
	} `yaml:"storage"`

	Refresh struct {
		IntervalSec int `yaml:"interval_sec"`
	} `yaml:"refresh"`
}

// Dir returns the folder holding the configuration and the default storage.
func Dir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".watchlist"
	}
	return filepath.Join(dir, "watchlist")
}

// DefaultPath is the configuration file read when none is given.
func DefaultPath() string { return filepath.Join(Dir(), "config.yaml") }

// Default returns the configuration used for every missing setting.
func Default() *Config {
	var cfg Config
	cfg.API.URL = coingecko.DefaultBaseURL
	cfg.API.TimeoutSec = int(coingecko.DefaultTimeout / time.Second)
	cfg.API.RequestsPerMinute = coingecko.DefaultRequestsPerMinute
	cfg.API.CacheTTLSec = int(coingecko.DefaultCacheTTL / time.Second)
	cfg.Storage.Backend = storage.BackendFile
	cfg.Storage.Path = filepath.Join(Dir(), "data")
	cfg.Storage.Key = storage.DefaultKey
	cfg.Refresh.IntervalSec = int(watchlist.DefaultRefreshInterval / time.Second)
	return &cfg
}

// Load reads the file at path on top of the defaults, then applies the
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("format error in %q: %w", path, err)
		}
	}

	overrideWithEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.API.URL, "http://") && !strings.HasPrefix(c.API.URL, "https://") {
		return fmt.Errorf("invalid API URL: %q", c.API.URL)
	}
	if c.API.TimeoutSec <= 0 {
		return fmt.Errorf("API timeout must be positive")
	}
	if c.API.RequestsPerMinute == 0 {
		return fmt.Errorf("requests per minute must not be 0")
	}
	switch c.Storage.Backend {
	case storage.BackendFile, storage.BackendSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage %s needs a path", c.Storage.Backend)
		}
	case storage.BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("storage key must not be empty")
	}
	if c.Refresh.IntervalSec <= 0 {
		return fmt.Errorf("refresh interval must be positive")
	}
	return nil
}

// overrideWithEnv replaces settings with their environment variable, when set.
func overrideWithEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.API.URL = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.API.Key = v
	}
	if v := os.Getenv(EnvStorage); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv(EnvStoragePath); v != "" {
		cfg.Storage.Path = v
	}
}

// ClientOptions returns the coingecko client options of this configuration.
func (c *Config) ClientOptions(verbose bool) coingecko.Options {
	ttl := time.Duration(c.API.CacheTTLSec) * time.Second
	if c.API.CacheTTLSec < 0 {
		ttl = -1
	}
	return coingecko.Options{
		BaseURL:           c.API.URL,
		APIKey:            c.API.Key,
		Timeout:           time.Duration(c.API.TimeoutSec) * time.Second,
		RequestsPerMinute: c.API.RequestsPerMinute,
		CacheTTL:          ttl,
		Verbose:           verbose,
	}
}

// RefreshInterval returns the price refresh cadence.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Refresh.IntervalSec) * time.Second
}
