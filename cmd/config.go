package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	LogLevel   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CatalogCacheTTL     time.Duration
	CatalogCacheMaxSize int

	KafkaBrokers        string
	KafkaLifecycleTopic string

	SessionDefaultMaxOrders int
	FanoutWorkers           int
	BatchSize               int

	LifecycleRepairSchedule   string
	FingerprintRecalcSchedule string
}

// LoadConfig reads the environment, after loading .env when one exists.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return configFromEnv(os.Getenv)
}

func configFromEnv(getenv func(string) string) (Config, error) {
	env := envReader{getenv: getenv}

	cfg := Config{
		HTTPPort:   env.str("HTTP_PORT", "8080"),
		DBHost:     env.str("DB_HOST", "localhost"),
		DBPort:     env.str("DB_PORT", "5432"),
		DBUser:     env.str("DB_USER", "postgres"),
		DBPassword: env.str("DB_PASSWORD", ""),
		DBName:     env.str("DB_NAME", "fulfillment"),
		DBSslMode:  env.str("DB_SSLMODE", "disable"),
		LogLevel:   env.str("LOG_LEVEL", "info"),

		RedisAddr:     env.str("REDIS_ADDR", ""),
		RedisPassword: env.str("REDIS_PASSWORD", ""),
		RedisDB:       env.int("REDIS_DB", 0),

		CatalogCacheTTL:     env.duration("CATALOG_CACHE_TTL", time.Hour),
		CatalogCacheMaxSize: env.int("CATALOG_CACHE_MAX_SIZE", 1000),

		KafkaBrokers:        env.str("KAFKA_BROKERS", ""),
		KafkaLifecycleTopic: env.str("KAFKA_LIFECYCLE_TOPIC", "fulfillment.shipment.lifecycle"),

		SessionDefaultMaxOrders: env.int("SESSION_DEFAULT_MAX_ORDERS", 25),
		FanoutWorkers:           env.int("FANOUT_WORKERS", 8),
		BatchSize:               env.int("BATCH_SIZE", 500),

		LifecycleRepairSchedule:   env.str("LIFECYCLE_REPAIR_SCHEDULE", ""),
		FingerprintRecalcSchedule: env.str("FINGERPRINT_RECALC_SCHEDULE", ""),
	}
	if env.err != nil {
		return Config{}, env.err
	}

	if cfg.SessionDefaultMaxOrders <= 0 {
		return Config{}, fmt.Errorf("SESSION_DEFAULT_MAX_ORDERS must be positive, got %d", cfg.SessionDefaultMaxOrders)
	}
	if cfg.FanoutWorkers <= 0 {
		return Config{}, fmt.Errorf("FANOUT_WORKERS must be positive, got %d", cfg.FanoutWorkers)
	}
	if cfg.BatchSize <= 0 {
		return Config{}, fmt.Errorf("BATCH_SIZE must be positive, got %d", cfg.BatchSize)
	}

	return cfg, nil
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// envReader collects the first parse error so every key can be read in one pass.
type envReader struct {
	getenv func(string) string
	err    error
}

func (r *envReader) str(key, fallback string) string {
	if v := r.getenv(key); v != "" {
		return v
	}
	return fallback
}

func (r *envReader) int(key string, fallback int) int {
	v := r.getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(fmt.Errorf("%s: %q is not an integer", key, v))
		return fallback
	}
	return n
}

func (r *envReader) duration(key string, fallback time.Duration) time.Duration {
	v := r.getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(fmt.Errorf("%s: %q is not a duration", key, v))
		return fallback
	}
	return d
}

func (r *envReader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}
