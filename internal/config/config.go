package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                 string
	DBPath               string
	LogLevel             string
	DefaultDailyLoad     int
	AnalyticsWorkerCount int
	AnalyticsQueueSize   int
	DueOrder             string
	CronEnabled          bool
}

// Due-items ordering policies. "overdue_first" surfaces the most-overdue
// items first; "legacy" preserves the descending order the original system
// shipped with.
const (
	DueOrderOverdueFirst = "overdue_first"
	DueOrderLegacy       = "legacy"
)

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                 envOr("ADDR", ":8080"),
		DBPath:               envOr("DB_PATH", "file:linguaflash.db"),
		LogLevel:             envOr("LOG_LEVEL", "INFO"),
		DefaultDailyLoad:     envIntOr("DEFAULT_DAILY_LOAD", 20),
		AnalyticsWorkerCount: envIntOr("ANALYTICS_WORKER_COUNT", 2),
		AnalyticsQueueSize:   envIntOr("ANALYTICS_QUEUE_SIZE", 64),
		DueOrder:             envOr("DUE_ORDER", DueOrderOverdueFirst),
		CronEnabled:          envBoolOr("ANALYTICS_CRON_ENABLED", true),
	}
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.DefaultDailyLoad <= 0 {
		return fmt.Errorf("DEFAULT_DAILY_LOAD must be positive")
	}
	if c.DueOrder != DueOrderOverdueFirst && c.DueOrder != DueOrderLegacy {
		return fmt.Errorf("DUE_ORDER must be %q or %q", DueOrderOverdueFirst, DueOrderLegacy)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %v", key, v, def)
	}
	return def
}
