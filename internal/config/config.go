package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds server settings (in-memory representation).
type Config struct {
	Addr             string        `json:"addr"`
	ESIBaseURL       string        `json:"esi_base_url"`
	UserAgent        string        `json:"user_agent"`
	RequestDelay     time.Duration `json:"request_delay"`   // minimum gap between upstream requests
	RequestTimeout   time.Duration `json:"request_timeout"` // per upstream request
	MaxRegions       int           `json:"max_regions"`     // region details fetched for the region list
	MaxSearchResults int           `json:"max_search_results"`
	HistoryCacheTTL  time.Duration `json:"history_cache_ttl"` // 0 = no history caching
	DatabaseDSN      string        `json:"database_dsn"`
	LogLevel         string        `json:"log_level"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Addr:             "127.0.0.1:13380",
		ESIBaseURL:       "https://esi.evetech.net/latest",
		UserAgent:        "EVE Market Nexus/1.0 (Go)",
		RequestDelay:     100 * time.Millisecond,
		RequestTimeout:   30 * time.Second,
		MaxRegions:       20,
		MaxSearchResults: 20,
		HistoryCacheTTL:  60 * time.Minute,
		DatabaseDSN:      ":memory:",
		LogLevel:         "info",
	}
}

// Load returns Default() overridden by an optional .env file and then by the
// process environment. Variables already set in the environment win over .env.
func Load(envFiles ...string) *Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}

	c := Default()
	c.Addr = envOrDefault("NEXUS_ADDR", c.Addr)
	c.ESIBaseURL = envOrDefault("ESI_BASE_URL", c.ESIBaseURL)
	c.UserAgent = envOrDefault("ESI_USER_AGENT", c.UserAgent)
	c.RequestDelay = envDuration("ESI_REQUEST_DELAY_MS", time.Millisecond, c.RequestDelay)
	c.RequestTimeout = envDuration("ESI_TIMEOUT_SEC", time.Second, c.RequestTimeout)
	c.MaxRegions = envInt("ESI_MAX_REGIONS", c.MaxRegions)
	c.MaxSearchResults = envInt("ESI_MAX_SEARCH_RESULTS", c.MaxSearchResults)
	c.HistoryCacheTTL = envDuration("HISTORY_CACHE_TTL_MIN", time.Minute, c.HistoryCacheTTL)
	c.DatabaseDSN = envOrDefault("NEXUS_DB_DSN", c.DatabaseDSN)
	c.LogLevel = envOrDefault("LOG_LEVEL", c.LogLevel)
	return c
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return defaultVal
	}
	return n
}

// envDuration reads an integer count of unit from key.
func envDuration(key string, unit time.Duration, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return defaultVal
	}
	return time.Duration(n) * unit
}
