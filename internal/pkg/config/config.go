package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RepositoriesConfig struct {
	Postgres PostgresConfig
	Redis    RedisConfig
}

type AuthConfig struct {
	JWTSecret     string
	JWTExpiration time.Duration
}

type RateLimitConfig struct {
	PerMinute int
	PerHour   int
}

type AMQPConfig struct {
	URL      string
	Exchange string
}

type ObservabilityConfig struct {
	OTLPEndpoint string
	MetricsAddr  string
	PprofAddr    string
	ServiceName  string
}

type Config struct {
	Repositories         RepositoriesConfig
	Auth                 AuthConfig
	RateLimit            RateLimitConfig
	AMQP                 AMQPConfig
	Observability        ObservabilityConfig
	ServerPort           string
	LogLevel             string
	CORSOrigins          []string
	// TrustedProxies lists proxy addresses or CIDRs whose forwarding headers
	// are believed. Empty means the TCP peer is the client address.
	TrustedProxies       []string
	CoinsPerApprovedRoad int
	// StatsCacheTTL bounds how stale GET /admin/stats may be. Zero disables caching.
	StatsCacheTTL        time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
				DB:       getEnvOrDefault("POSTGRES_DB", "masir"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: int32(getEnvIntOrDefault("POSTGRES_MAX_CONNS", 30)),
				MinConns: int32(getEnvIntOrDefault("POSTGRES_MIN_CONNS", 5)),
			},
			Redis: RedisConfig{
				Addr:     getEnvOrDefault("REDIS_ADDR", ""),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getEnvIntOrDefault("REDIS_DB", 0),
			},
		},
		Auth: AuthConfig{
			JWTSecret:     getEnvOrDefault("JWT_SECRET_KEY", ""),
			JWTExpiration: time.Duration(getEnvIntOrDefault("JWT_EXPIRATION_HOURS", 72)) * time.Hour,
		},
		RateLimit: RateLimitConfig{
			PerMinute: getEnvIntOrDefault("RATE_LIMIT_PER_MINUTE", 60),
			PerHour:   getEnvIntOrDefault("RATE_LIMIT_PER_HOUR", 1000),
		},
		AMQP: AMQPConfig{
			URL:      getEnvOrDefault("AMQP_URL", ""),
			Exchange: getEnvOrDefault("AMQP_EXCHANGE", "masir.events"),
		},
		Observability: ObservabilityConfig{
			OTLPEndpoint: getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			MetricsAddr:  getEnvOrDefault("METRICS_ADDR", ":9090"),
			PprofAddr:    getEnvOrDefault("PPROF_ADDR", ""),
			ServiceName:  getEnvOrDefault("OTEL_SERVICE_NAME", "masir-api"),
		},
		ServerPort:           getEnvOrDefault("SERVER_PORT", "8000"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		CORSOrigins:          splitList(getEnvOrDefault("CORS_ORIGINS", "*")),
		TrustedProxies:       splitList(getEnvOrDefault("TRUSTED_PROXIES", "")),
		CoinsPerApprovedRoad: getEnvIntOrDefault("COINS_PER_APPROVED_ROAD", 1),
		StatsCacheTTL:        time.Duration(getEnvIntOrDefault("STATS_CACHE_TTL_SECONDS", 10)) * time.Second,
	}

	if cfg.Repositories.Postgres.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD environment variable is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is required")
	}
	if cfg.RateLimit.PerMinute <= 0 || cfg.RateLimit.PerHour <= 0 {
		return nil, fmt.Errorf("rate limits must be positive")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
