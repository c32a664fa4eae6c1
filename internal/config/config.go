// Package config loads and validates environment variables at startup.
// Fail-fast: a malformed value stops the process before anything connects.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
)

// Config holds all runtime configuration for the aggregator service.
type Config struct {
	Port        string
	DatabaseURL string // optional: enables storage, ingestion and cleanup
	RedisURL    string // optional: shared cache store and ingestion events

	RapidAPIKey  string
	AdzunaAppID  string
	AdzunaAppKey string

	CacheTTL           time.Duration
	FetchPages         int // pages requested per paginated provider
	FetchIntervalHours int // how often the ingestion cron fires
	CleanupDays        int // postings older than this are marked inactive
	LogLevel           string
	LogFormat          string
	GinMode            string
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	ttl, err := positiveInt("CACHE_TTL_MINUTES", 30)
	if err != nil {
		return nil, err
	}
	pages, err := positiveInt("FETCH_PAGES", 1)
	if err != nil {
		return nil, err
	}
	interval, err := positiveInt("JOB_FETCH_INTERVAL_HOURS", 6)
	if err != nil {
		return nil, err
	}
	cleanup, err := positiveInt("JOB_CLEANUP_DAYS", 30)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:               getEnv("AGGREGATOR_PORT", "8083"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		RapidAPIKey:        os.Getenv("RAPIDAPI_KEY"),
		AdzunaAppID:        os.Getenv("ADZUNA_APP_ID"),
		AdzunaAppKey:       os.Getenv("ADZUNA_APP_KEY"),
		CacheTTL:           time.Duration(ttl) * time.Minute,
		FetchPages:         pages,
		FetchIntervalHours: interval,
		CleanupDays:        cleanup,
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		GinMode:            getEnv("GIN_MODE", "release"),
	}, nil
}

// RequireDatabase fails when DATABASE_URL is not set. Used by the commands
// that cannot run without the job store.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func positiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, errors.Newf("%s must be a positive integer, got %q", key, s)
	}
	return v, nil
}
