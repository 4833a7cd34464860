// Package config provides configuration management for the service gateway.
// It loads configuration from environment variables (optionally seeded from a
// .env file) with defaults matching the gateway's production tuning, and
// validates it before the application starts.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: Server port (default: 8080)
//   - TLS_CERT_FILE, TLS_KEY_FILE: Serve HTTPS when both are set
//   - LOG_LEVEL: Logging level (default: info)
//   - LOG_FORMAT: console or json (default: console)
//   - LOG_FILE: Optional log file path (default: stdout)
//   - CORS_ALLOWED_ORIGINS: Comma-separated origins, "*" for any (default: *)
//
// Route Configuration:
//   - ROUTES_FILE: YAML route document (default: ./routes.yaml)
//   - ROUTES_REDIS_KEY: Read routes from this Redis key instead of the file
//   - ROUTES_RELOAD_CHANNEL: Redis channel that triggers a reload
//   - ROUTES_RELOAD_CRON: Cron expression for periodic reloads
//   - ROUTES_LOAD_TIMEOUT: Bound on a single reload (default: 30s)
//
// Redis Configuration (only used with ROUTES_REDIS_KEY):
//   - REDIS_ADDRESS: Redis server address (default: localhost:6379)
//   - REDIS_PASSWORD: Redis password
//   - REDIS_DB: Redis database number 0-15 (default: 0)
//   - REDIS_POOL_SIZE: Redis connection pool size (default: 10)
//
// Outbound Connection Pool:
//   - HTTP_MAX_TOTAL_CONNECTIONS: Idle connections kept across upstreams (default: 500)
//   - HTTP_MAX_CONNECTIONS_PER_ROUTE: Connections per upstream host (default: 100)
//   - HTTP_REQUEST_TIMEOUT: Outbound request timeout (default: 30s)
//   - HTTP_IDLE_TIMEOUT: Idle connection timeout (default: 90s)
//
// Async Worker Pool:
//   - WORKER_CORE_POOL_SIZE (default: 20)
//   - WORKER_MAX_POOL_SIZE (default: 100)
//   - WORKER_QUEUE_CAPACITY (default: 500)
//   - WORKER_KEEP_ALIVE (default: 60s)
//
// Decision Cache:
//   - CACHE_TTL: Seconds a whitelist decision is cached (default: 300)
//   - CACHE_MAX_SIZE: Maximum cached decisions (default: 1000)
//
// Circuit Breaker:
//   - CIRCUIT_BREAKER_ENABLED (default: true)
//   - CIRCUIT_BREAKER_FAILURE_THRESHOLD (default: 5)
//   - CIRCUIT_BREAKER_TIMEOUT_MS: Open duration in milliseconds (default: 60000)
//   - CIRCUIT_BREAKER_SUCCESS_THRESHOLD (default: 3)
//   - CIRCUIT_BREAKER_MAX_BREAKERS (default: 10000)
//
// Example usage:
//
//	cfg := config.Load()
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("Invalid configuration: %v", err)
//	}
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"service-gateway/internal/common/errors"
	"service-gateway/internal/common/validation"
)

// Config holds all configuration values for the gateway
type Config struct {
	// Application settings
	Port               string
	TLSCertFile        string
	TLSKeyFile         string
	LogLevel           string
	LogFormat          string
	LogFile            string
	CORSAllowedOrigins []string

	// Route sources
	RoutesFile          string
	RoutesRedisKey      string
	RoutesReloadChannel string
	RoutesReloadCron    string
	RoutesLoadTimeout   time.Duration

	// Redis
	RedisAddress  string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int

	// Outbound connection pool
	MaxTotalConnections    int
	MaxConnectionsPerRoute int
	RequestTimeout         time.Duration
	IdleConnTimeout        time.Duration

	// Async worker pool
	CorePoolSize  int
	MaxPoolSize   int
	QueueCapacity int
	KeepAlive     time.Duration

	// Decision cache
	CacheTTL     time.Duration
	CacheMaxSize int

	// Circuit breaker
	CircuitBreakerEnabled          bool
	CircuitBreakerFailureThreshold int
	CircuitBreakerTimeout          time.Duration
	CircuitBreakerSuccessThreshold int
	CircuitBreakerMaxBreakers      int
}

// Load creates a Config from environment variables, falling back to
// defaults. It does not validate; call Validate on the result.
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		TLSCertFile:        getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:         getEnv("TLS_KEY_FILE", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "console"),
		LogFile:            getEnv("LOG_FILE", ""),
		CORSAllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),

		RoutesFile:          getEnv("ROUTES_FILE", "./routes.yaml"),
		RoutesRedisKey:      getEnv("ROUTES_REDIS_KEY", ""),
		RoutesReloadChannel: getEnv("ROUTES_RELOAD_CHANNEL", ""),
		RoutesReloadCron:    getEnv("ROUTES_RELOAD_CRON", ""),
		RoutesLoadTimeout:   getDurationEnv("ROUTES_LOAD_TIMEOUT", 30*time.Second),

		RedisAddress:  getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		RedisPoolSize: getIntEnv("REDIS_POOL_SIZE", 10),

		MaxTotalConnections:    getIntEnv("HTTP_MAX_TOTAL_CONNECTIONS", 500),
		MaxConnectionsPerRoute: getIntEnv("HTTP_MAX_CONNECTIONS_PER_ROUTE", 100),
		RequestTimeout:         getDurationEnv("HTTP_REQUEST_TIMEOUT", 30*time.Second),
		IdleConnTimeout:        getDurationEnv("HTTP_IDLE_TIMEOUT", 90*time.Second),

		CorePoolSize:  getIntEnv("WORKER_CORE_POOL_SIZE", 20),
		MaxPoolSize:   getIntEnv("WORKER_MAX_POOL_SIZE", 100),
		QueueCapacity: getIntEnv("WORKER_QUEUE_CAPACITY", 500),
		KeepAlive:     getDurationEnv("WORKER_KEEP_ALIVE", 60*time.Second),

		CacheTTL:     time.Duration(getIntEnv("CACHE_TTL", 300)) * time.Second,
		CacheMaxSize: getIntEnv("CACHE_MAX_SIZE", 1000),

		CircuitBreakerEnabled:          getBoolEnv("CIRCUIT_BREAKER_ENABLED", true),
		CircuitBreakerFailureThreshold: getIntEnv("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
		CircuitBreakerTimeout:          time.Duration(getIntEnv("CIRCUIT_BREAKER_TIMEOUT_MS", 60000)) * time.Millisecond,
		CircuitBreakerSuccessThreshold: getIntEnv("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 3),
		CircuitBreakerMaxBreakers:      getIntEnv("CIRCUIT_BREAKER_MAX_BREAKERS", 10000),
	}
}

// UsesRedis reports whether routes come from Redis
func (c *Config) UsesRedis() bool {
	return c.RoutesRedisKey != ""
}

// UsesTLS reports whether both certificate and key are configured
func (c *Config) UsesTLS() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// getEnv retrieves an environment variable or returns defaultValue when it
// is unset or empty
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv accepts anything strconv.ParseBool does; other values fall back
// to defaultValue
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getIntEnv returns defaultValue for unset or non-numeric values
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getDurationEnv parses Go duration strings such as "30s" or "1m"
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getListEnv splits a comma-separated value, dropping blank items
func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// Validate checks that every value is usable. All problems are reported
// together.
func (c *Config) Validate() error {
	v := validation.NewChecker()

	port, err := strconv.Atoi(c.Port)
	v.Check(err == nil && port >= 1 && port <= 65535, "PORT must be a valid port number between 1 and 65535")
	v.Check((c.TLSCertFile == "") == (c.TLSKeyFile == ""), "TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	v.RequireOneOf(c.LogFormat, []string{"console", "json"}, "LOG_FORMAT")

	v.Check(c.RoutesFile != "" || c.RoutesRedisKey != "", "ROUTES_FILE or ROUTES_REDIS_KEY is required")
	v.Check(c.RoutesReloadChannel == "" || c.UsesRedis(), "ROUTES_RELOAD_CHANNEL requires ROUTES_REDIS_KEY")
	if c.RoutesReloadCron != "" {
		v.Check(validation.ValidateVar(c.RoutesReloadCron, "cron_expression") == nil,
			"ROUTES_RELOAD_CRON must be a valid cron expression, got %q", c.RoutesReloadCron)
	}
	v.Check(c.RoutesLoadTimeout > 0, "ROUTES_LOAD_TIMEOUT must be positive")

	if c.UsesRedis() {
		v.RequireString(c.RedisAddress, "REDIS_ADDRESS")
		v.Check(c.RedisDB >= 0 && c.RedisDB <= 15, "REDIS_DB must be a number between 0 and 15")
		v.Check(c.RedisPoolSize >= 1, "REDIS_POOL_SIZE must be a positive number")
	}

	v.Check(c.MaxTotalConnections >= 1, "HTTP_MAX_TOTAL_CONNECTIONS must be positive")
	v.Check(c.MaxConnectionsPerRoute >= 1, "HTTP_MAX_CONNECTIONS_PER_ROUTE must be positive")
	v.Check(c.MaxConnectionsPerRoute <= c.MaxTotalConnections, "HTTP_MAX_CONNECTIONS_PER_ROUTE must not exceed HTTP_MAX_TOTAL_CONNECTIONS")
	v.Check(c.RequestTimeout > 0, "HTTP_REQUEST_TIMEOUT must be positive")

	v.Check(c.CorePoolSize >= 1, "WORKER_CORE_POOL_SIZE must be positive")
	v.Check(c.MaxPoolSize >= c.CorePoolSize, "WORKER_MAX_POOL_SIZE must be at least WORKER_CORE_POOL_SIZE")
	v.Check(c.QueueCapacity >= 0, "WORKER_QUEUE_CAPACITY must be non-negative")
	v.Check(c.KeepAlive > 0, "WORKER_KEEP_ALIVE must be positive")

	v.Check(c.CacheTTL > 0, "CACHE_TTL must be positive")
	v.Check(c.CacheMaxSize >= 1, "CACHE_MAX_SIZE must be positive")

	v.Check(c.CircuitBreakerFailureThreshold >= 1, "CIRCUIT_BREAKER_FAILURE_THRESHOLD must be positive")
	v.Check(c.CircuitBreakerSuccessThreshold >= 1, "CIRCUIT_BREAKER_SUCCESS_THRESHOLD must be positive")
	v.Check(c.CircuitBreakerTimeout > 0, "CIRCUIT_BREAKER_TIMEOUT_MS must be positive")
	v.Check(c.CircuitBreakerMaxBreakers >= 1, "CIRCUIT_BREAKER_MAX_BREAKERS must be positive")

	if v.HasErrors() {
		return &errors.AppError{
			Type:    errors.ErrTypeConfig,
			Message: fmt.Sprintf("invalid configuration: %s", strings.Join(v.Messages(), "; ")),
			Context: map[string]interface{}{"errors": v.Messages()},
		}
	}
	return nil
}
