package app

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	APIBaseURL     string
	WSHost         string
	WSPort         string
	WSSecure       bool
	AuthToken      string
	AuthUsername   string
	AuthPassword   string
	ReconnectDelay time.Duration
	HTTPAddr       string
	LogLevel       string
	LogFormat      string
	SearchRate     float64
}

func LoadConfig() Config {
	cfg := Config{
		APIBaseURL:     strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080"), "/"),
		WSHost:         getEnv("WS_HOST", ""),
		WSPort:         getEnv("WS_PORT", ""),
		AuthToken:      getEnv("AUTH_TOKEN", ""),
		AuthUsername:   getEnv("AUTH_USERNAME", ""),
		AuthPassword:   getEnv("AUTH_PASSWORD", ""),
		ReconnectDelay: time.Duration(getEnvInt64("RECONNECT_DELAY_MS", 2000)) * time.Millisecond,
		HTTPAddr:       getEnv("HTTP_ADDR", ":8090"),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:      strings.ToLower(getEnv("LOG_FORMAT", "text")),
		SearchRate:     getEnvFloat("SEARCH_RATE_PER_SEC", 3),
	}

	// The push channel defaults to the REST origin: same host, scheme
	// matched to the REST scheme (https -> wss).
	if parsed, err := url.Parse(cfg.APIBaseURL); err == nil {
		if cfg.WSHost == "" {
			cfg.WSHost = parsed.Hostname()
		}
		if cfg.WSPort == "" {
			cfg.WSPort = parsed.Port()
		}
		cfg.WSSecure = parsed.Scheme == "https"
	}
	if secure := strings.TrimSpace(os.Getenv("WS_SECURE")); secure != "" {
		cfg.WSSecure = secure == "true" || secure == "1"
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	if parsed < 0 {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
