// Package config loads the storefront settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config aggregates the storefront configuration values.
type Config struct {
	HTTP      HTTPConfig
	Redis     RedisConfig
	Orders    OrdersConfig
	Telemetry TelemetryConfig
	Sessions  SessionConfig

	// ExchangeRateVES is the number of bolívares per US dollar used for display.
	ExchangeRateVES float64
}

// HTTPConfig governs the HTTP server.
type HTTPConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// RedisConfig points at the cache backing carts, sessions and idempotency keys.
// An empty Addr selects the in-process cache.
type RedisConfig struct {
	Addr string
}

// OrdersConfig selects the order repository. An empty DBPath keeps orders in memory.
type OrdersConfig struct {
	DBPath string
}

// TelemetryConfig controls logging and tracing.
type TelemetryConfig struct {
	ServiceName string
	Enabled     bool
	LogLevel    string
}

// SessionConfig holds the lifetimes of session-scoped state.
type SessionConfig struct {
	SessionTTL     time.Duration
	CartTTL        time.Duration
	IdempotencyTTL time.Duration
}

const (
	defaultPort            = "8080"
	defaultServiceName     = "storefront"
	defaultExchangeRate    = 38.5
	defaultSessionTTL      = 30 * 24 * time.Hour
	defaultCartTTL         = 30 * 24 * time.Hour
	defaultIdempotencyTTL  = 24 * time.Hour
	defaultShutdownTimeout = 10 * time.Second
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 15 * time.Second
)

// Load reads configuration from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		HTTP: HTTPConfig{
			Addr:         ":" + getEnv("PORT", defaultPort),
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
		},
		Redis:  RedisConfig{Addr: os.Getenv("REDIS_ADDR")},
		Orders: OrdersConfig{DBPath: os.Getenv("ORDERS_DB_PATH")},
		Telemetry: TelemetryConfig{
			ServiceName: getEnv("OTEL_SERVICE_NAME", defaultServiceName),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
	}

	var err error
	if cfg.Telemetry.Enabled, err = parseBool("OTEL_ENABLED", false); err != nil {
		return Config{}, err
	}
	if cfg.ExchangeRateVES, err = parseFloat("EXCHANGE_RATE_VES", defaultExchangeRate); err != nil {
		return Config{}, err
	}
	if cfg.ExchangeRateVES <= 0 {
		return Config{}, fmt.Errorf("config: invalid EXCHANGE_RATE_VES: must be positive, got %v", cfg.ExchangeRateVES)
	}
	if cfg.Sessions.SessionTTL, err = parseDuration("SESSION_TTL", defaultSessionTTL); err != nil {
		return Config{}, err
	}
	if cfg.Sessions.CartTTL, err = parseDuration("CART_TTL", defaultCartTTL); err != nil {
		return Config{}, err
	}
	if cfg.Sessions.IdempotencyTTL, err = parseDuration("IDEMPOTENCY_TTL", defaultIdempotencyTTL); err != nil {
		return Config{}, err
	}
	if cfg.HTTP.ShutdownTimeout, err = parseDuration("SHUTDOWN_TIMEOUT", defaultShutdownTimeout); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: invalid %s: %w", key, err)
	}
	return b, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s: %w", key, err)
	}
	return f, nil
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s: %w", key, err)
	}
	return d, nil
}
