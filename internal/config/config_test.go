package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault_Values(t *testing.T) {
	c := Default()
	if c == nil {
		t.Fatal("Default() returned nil")
	}
	if c.ESIBaseURL != "https://esi.evetech.net/latest" {
		t.Errorf("ESIBaseURL = %q", c.ESIBaseURL)
	}
	if c.RequestDelay != 100*time.Millisecond {
		t.Errorf("RequestDelay = %v, want 100ms", c.RequestDelay)
	}
	if c.MaxRegions != 20 || c.MaxSearchResults != 20 {
		t.Errorf("MaxRegions/MaxSearchResults = %d/%d, want 20/20", c.MaxRegions, c.MaxSearchResults)
	}
	if c.DatabaseDSN != ":memory:" {
		t.Errorf("DatabaseDSN = %q, want :memory:", c.DatabaseDSN)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NEXUS_ADDR", "0.0.0.0:9999")
	t.Setenv("ESI_REQUEST_DELAY_MS", "250")
	t.Setenv("ESI_TIMEOUT_SEC", "5")
	t.Setenv("HISTORY_CACHE_TTL_MIN", "0")
	t.Setenv("ESI_MAX_REGIONS", "not-a-number")

	c := Load(filepath.Join(t.TempDir(), "missing.env"))
	if c.Addr != "0.0.0.0:9999" {
		t.Errorf("Addr = %q", c.Addr)
	}
	if c.RequestDelay != 250*time.Millisecond {
		t.Errorf("RequestDelay = %v, want 250ms", c.RequestDelay)
	}
	if c.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v, want 5s", c.RequestTimeout)
	}
	if c.HistoryCacheTTL != 0 {
		t.Errorf("HistoryCacheTTL = %v, want 0", c.HistoryCacheTTL)
	}
	if c.MaxRegions != 20 {
		t.Errorf("MaxRegions = %d, want default 20 on bad input", c.MaxRegions)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("ESI_USER_AGENT=dotenv-agent\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// Registered with t.Setenv so the value set by godotenv is restored afterwards.
	t.Setenv("ESI_USER_AGENT", "")
	os.Unsetenv("ESI_USER_AGENT")

	c := Load(path)
	if c.UserAgent != "dotenv-agent" {
		t.Errorf("UserAgent = %q, want dotenv-agent", c.UserAgent)
	}
}
