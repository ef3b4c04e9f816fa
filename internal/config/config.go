// Package config centraliza o carregamento de configurações da aplicação.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/sanjux-xx/pricescout/internal/core/domain"
)

type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	Protection ProtectionConfig
	Upstream   UpstreamConfig
	Telemetry  TelemetryConfig
}

type ServerConfig struct {
	Port string
}

type StorageConfig struct {
	Type  string
	Redis RedisConfig
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type ProtectionConfig struct {
	RateLimit     domain.RateLimitRule
	Abuse         domain.AbuseRule
	CacheTTL      time.Duration
	SweepInterval time.Duration
}

type UpstreamConfig struct {
	APIKey   string
	BaseURL  string
	Location string
	Language string
	Country  string
	Timeout  time.Duration
}

type TelemetryConfig struct {
	Endpoint string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	server := ServerConfig{Port: getEnv("SERVER_PORT", "8080")}

	storageType := getEnv("STORAGE_TYPE", "memory")

	redisConfig, err := buildRedisConfig()
	if err != nil {
		return Config{}, err
	}

	protectionConfig, err := buildProtectionConfig()
	if err != nil {
		return Config{}, err
	}

	upstreamConfig, err := buildUpstreamConfig()
	if err != nil {
		return Config{}, err
	}

	return Config{
		Server: server,
		Storage: StorageConfig{
			Type:  storageType,
			Redis: redisConfig,
		},
		Protection: protectionConfig,
		Upstream:   upstreamConfig,
		Telemetry:  TelemetryConfig{Endpoint: strings.TrimSpace(os.Getenv("TELEMETRY_ENDPOINT"))},
	}, nil
}

func buildRedisConfig() (RedisConfig, error) {
	host := getEnv("REDIS_HOST", "localhost")
	port, err := intEnv("REDIS_PORT", 6379)
	if err != nil {
		return RedisConfig{}, err
	}
	db, err := intEnv("REDIS_DB", 0)
	if err != nil {
		return RedisConfig{}, err
	}

	return RedisConfig{
		Host:     host,
		Port:     port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	}, nil
}

func buildProtectionConfig() (ProtectionConfig, error) {
	rateRequests, err := intEnv("RATE_LIMIT_REQUESTS", 10)
	if err != nil {
		return ProtectionConfig{}, err
	}
	rateWindow, err := intEnv("RATE_LIMIT_WINDOW_SECONDS", 60)
	if err != nil {
		return ProtectionConfig{}, err
	}
	blockSeconds, err := intEnv("RATE_LIMIT_BLOCK_SECONDS", 900)
	if err != nil {
		return ProtectionConfig{}, err
	}
	abuseRequests, err := intEnv("ABUSE_THRESHOLD", 20)
	if err != nil {
		return ProtectionConfig{}, err
	}
	abuseWindow, err := intEnv("ABUSE_WINDOW_SECONDS", 3600)
	if err != nil {
		return ProtectionConfig{}, err
	}
	cacheTTL, err := intEnv("CACHE_TTL_SECONDS", 1200)
	if err != nil {
		return ProtectionConfig{}, err
	}
	sweepInterval, err := intEnv("SWEEP_INTERVAL_SECONDS", 300)
	if err != nil {
		return ProtectionConfig{}, err
	}

	return ProtectionConfig{
		RateLimit: domain.RateLimitRule{
			Requests:      rateRequests,
			Window:        time.Duration(rateWindow) * time.Second,
			BlockDuration: time.Duration(blockSeconds) * time.Second,
		},
		Abuse: domain.AbuseRule{
			Requests: abuseRequests,
			Window:   time.Duration(abuseWindow) * time.Second,
		},
		CacheTTL:      time.Duration(cacheTTL) * time.Second,
		SweepInterval: time.Duration(sweepInterval) * time.Second,
	}, nil
}

func buildUpstreamConfig() (UpstreamConfig, error) {
	apiKey := strings.TrimSpace(os.Getenv("SERPAPI_KEY"))
	if apiKey == "" {
		return UpstreamConfig{}, fmt.Errorf("SERPAPI_KEY is required")
	}

	timeoutSeconds, err := intEnv("UPSTREAM_TIMEOUT_SECONDS", 10)
	if err != nil {
		return UpstreamConfig{}, err
	}

	return UpstreamConfig{
		APIKey:   apiKey,
		BaseURL:  strings.TrimSpace(os.Getenv("SERPAPI_BASE_URL")),
		Location: getEnv("SEARCH_LOCATION", "India"),
		Language: getEnv("SEARCH_LANGUAGE", "en"),
		Country:  getEnv("SEARCH_COUNTRY", "in"),
		Timeout:  time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func intEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
