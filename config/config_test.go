package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/watchlist/coingecko"
	"github.com/kylelemons/godebug/pretty"
)

// clearEnv isolates the test from the caller's environment.
func clearEnv(t *testing.T) {
	for _, k := range []string{EnvAPIURL, EnvAPIKey, EnvStorage, EnvStoragePath} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_MissingFileIsDefault(t *testing.T) {
	clearEnv(t)
	got, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if diff := pretty.Compare(got, Default()); diff != "" {
		t.Errorf("Load() diff (-got +want):\n%s", diff)
	}
	if got.API.URL != "https://api.coingecko.com/api/v3" || got.Refresh.IntervalSec != 30 || got.API.TimeoutSec != 10 {
		t.Errorf("unexpected defaults: %+v", got)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
api:
  key: from-file
  requests_per_minute: 500
storage:
  backend: sqlite
  path: /tmp/watchlist.db
refresh:
  interval_sec: 60
`)
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	want := Default()
	want.API.Key = "from-file"
	want.API.RequestsPerMinute = 500
	want.Storage.Backend = "sqlite"
	want.Storage.Path = "/tmp/watchlist.db"
	want.Refresh.IntervalSec = 60
	if diff := pretty.Compare(got, want); diff != "" {
		t.Errorf("Load() diff (-got +want):\n%s", diff)
	}
	if got.RefreshInterval() != time.Minute {
		t.Errorf("RefreshInterval() = %v, want 1m", got.RefreshInterval())
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
api:
  url: https://file.example.com
  key: from-file
storage:
  backend: file
`)
	t.Setenv(EnvAPIURL, "http://localhost:8080/api/v3")
	t.Setenv(EnvAPIKey, "from-env")
	t.Setenv(EnvStorage, "memory")
	t.Setenv(EnvStoragePath, "/somewhere")

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if got.API.URL != "http://localhost:8080/api/v3" || got.API.Key != "from-env" ||
		got.Storage.Backend != "memory" || got.Storage.Path != "/somewhere" {
		t.Errorf("env overrides not applied: %+v", got)
	}
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "api: [unclosed"},
		{"bad url", "api:\n  url: ftp://example.com"},
		{"zero rate", "api:\n  requests_per_minute: 0"},
		{"bad backend", "storage:\n  backend: redis"},
		{"negative interval", "refresh:\n  interval_sec: -5"},
		{"file without path", "storage:\n  backend: file\n  path: \"\""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.content)); err == nil {
				t.Errorf("Load(%q) expected an error", tc.content)
			}
		})
	}
}

func TestConfig_ClientOptions(t *testing.T) {
	cfg := Default()
	cfg.API.Key = "k"
	got := cfg.ClientOptions(true)
	want := coingecko.Options{
		BaseURL:           coingecko.DefaultBaseURL,
		APIKey:            "k",
		Timeout:           10 * time.Second,
		RequestsPerMinute: 30,
		CacheTTL:          5 * time.Minute,
		Verbose:           true,
	}
	if diff := pretty.Compare(got, want); diff != "" {
		t.Errorf("ClientOptions() diff (-got +want):\n%s", diff)
	}

	cfg.API.CacheTTLSec = -1
	if got := cfg.ClientOptions(false); got.CacheTTL >= 0 {
		t.Errorf("CacheTTL = %v, want negative to disable the cache", got.CacheTTL)
	}
}
