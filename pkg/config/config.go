package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else.
type Config struct {
	Env string // development, staging, production

	// Market data provider
	Provider ProviderConfig

	// Bar cache
	Cache CacheConfig

	// Batch record storage
	Store StoreConfig

	// Database (optional Postgres batch repository)
	Database DatabaseConfig

	// Redis (optional bar cache backend)
	Redis RedisConfig

	// Strategy parameter file
	StrategyPath string

	// Scheduler
	ScanSchedule string // cron spec with seconds field

	// Logging
	LogLevel  string
	LogFormat string
}

// ProviderConfig holds market data provider configuration.
type ProviderConfig struct {
	QuoteBaseURL string // push2 quote/snapshot endpoints
	KlineBaseURL string // push2his kline endpoints
	DataBaseURL  string // datacenter endpoints (dragon-tiger board)
	Timeout      time.Duration
	RatePerSec   float64 // request rate limit toward the provider
	RateBurst    int
	PoolSize     int // worker pool for batch history fetches
}

// CacheConfig holds bar cache configuration.
type CacheConfig struct {
	Dir     string
	TTL     time.Duration
	Version string // bump to invalidate every prior entry
	Backend string // "file" or "redis"
}

// StoreConfig holds batch record storage configuration.
type StoreConfig struct {
	Dir     string
	Backend string // "file" or "postgres"
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL string

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// Load reads configuration from environment variables.
// This is the only function that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Env: getEnv("ENV", "development"),

		Provider: ProviderConfig{
			QuoteBaseURL: getEnv("PROVIDER_QUOTE_URL", "https://push2.eastmoney.com"),
			KlineBaseURL: getEnv("PROVIDER_KLINE_URL", "https://push2his.eastmoney.com"),
			DataBaseURL:  getEnv("PROVIDER_DATA_URL", "https://datacenter-web.eastmoney.com"),
			Timeout:      getEnvAsDuration("PROVIDER_TIMEOUT", "15s"),
			RatePerSec:   getEnvAsFloat("PROVIDER_RATE_PER_SEC", 10),
			RateBurst:    getEnvAsInt("PROVIDER_RATE_BURST", 5),
			PoolSize:     getEnvAsInt("PROVIDER_POOL_SIZE", 20),
		},

		Cache: CacheConfig{
			Dir:     getEnv("CACHE_DIR", "cache/bars"),
			TTL:     getEnvAsDuration("CACHE_TTL", "24h"),
			Version: getEnv("CACHE_VERSION", "v2"),
			Backend: getEnv("CACHE_BACKEND", "file"),
		},

		Store: StoreConfig{
			Dir:     getEnv("STORE_DIR", "data/batches"),
			Backend: getEnv("STORE_BACKEND", "file"),
		},

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		StrategyPath: getEnv("STRATEGY_PATH", "config/strategy.yaml"),

		// Weekdays at 14:35 local, 25 minutes before the close.
		ScanSchedule: getEnv("SCAN_SCHEDULE", "0 35 14 * * MON-FRI"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Store.Backend == "postgres" && c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required when STORE_BACKEND=postgres")
	}

	if c.Cache.Backend == "redis" && !c.Redis.Enabled {
		return fmt.Errorf("REDIS_ENABLED must be true when CACHE_BACKEND=redis")
	}

	if c.Provider.PoolSize < 1 {
		return fmt.Errorf("PROVIDER_POOL_SIZE must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
