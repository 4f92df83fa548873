package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	BackendMongo    = "mongo"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// HTTP
	HTTPAddr           string
	MetricsAddr        string
	CacheControlMaxAge int

	// Logging
	LogLevel    string
	Environment string

	// Store
	StoreBackend    string
	MongoURI        string
	MongoDatabase   string
	SQLitePath      string
	PostgresDSN     string
	HealthCheckCron string

	// Bar cache (disabled when RedisAddr is empty)
	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	// Markets
	DefaultWindowBars   int
	MaxPageSize         int
	PercentVarianceMode string
	CatalogPath         string
	// NewsIndexes adds news index names to the catalog's news_indexes.
	NewsIndexes []string
}

// Load reads an optional .env file, then configuration from environment
// variables with sensible defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not read .env", "error", err)
	}

	cfg := &Config{
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		MetricsAddr:        getEnv("METRICS_ADDR", ":9090"),
		CacheControlMaxAge: getEnvInt("CACHE_CONTROL_MAX_AGE", 3600),

		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Environment: getEnv("ENVIRONMENT", "development"),

		StoreBackend:    strings.ToLower(getEnv("STORE_BACKEND", BackendMongo)),
		MongoURI:        getEnv("MONGODB_URI", ""),
		MongoDatabase:   getEnv("MONGODB_DATABASE", "markets"),
		SQLitePath:      getEnv("SQLITE_PATH", "data/markets.db"),
		PostgresDSN:     getEnv("POSTGRES_DSN", ""),
		HealthCheckCron: getEnv("HEALTH_CHECK_CRON", "@every 30s"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		CacheTTL:      time.Duration(getEnvInt("CACHE_TTL_SEC", 3600)) * time.Second,

		DefaultWindowBars:   getEnvInt("DEFAULT_WINDOW_BARS", 30),
		MaxPageSize:         getEnvInt("MAX_PAGE_SIZE", 100),
		PercentVarianceMode: getEnv("PERCENT_VARIANCE_MODE", "window"),
		CatalogPath:         getEnv("CATALOG_PATH", ""),
		NewsIndexes:         getEnvList("NEWS_INDEXES"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected backend is configured and that the
// numeric settings are usable.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("config: MONGODB_URI is required for STORE_BACKEND=mongo")
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("config: SQLITE_PATH is required for STORE_BACKEND=sqlite")
		}
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("config: POSTGRES_DSN is required for STORE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.StoreBackend)
	}

	if c.DefaultWindowBars <= 0 {
		return fmt.Errorf("config: DEFAULT_WINDOW_BARS must be positive, got %d", c.DefaultWindowBars)
	}
	if c.MaxPageSize <= 0 {
		return fmt.Errorf("config: MAX_PAGE_SIZE must be positive, got %d", c.MaxPageSize)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("config: CACHE_TTL_SEC must be positive")
	}
	return nil
}

// Production reports whether ENVIRONMENT is production.
func (c *Config) Production() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

// getEnvList splits a comma-separated variable, dropping blank entries.
func getEnvList(key string) []string {
	var out []string
	for _, p := range strings.Split(os.Getenv(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
