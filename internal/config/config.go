// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds server configuration.
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string
	TokenTTL  time.Duration
	LogLevel  string
	LogFormat string

	// Currency is the ISO 4217 code reported alongside amounts.
	Currency string
}

// Load reads configuration from environment variables and an optional .env file.
// Variables already set in the environment win over .env.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		Port:      valueOrDefault(k.String("PORT"), "8080"),
		DBPath:    valueOrDefault(k.String("DB_PATH"), "./data/tablepay.db"),
		JWTSecret: k.String("JWT_SECRET"),
		TokenTTL:  parseDuration(k.String("TOKEN_TTL"), "12h"),
		LogLevel:  strings.ToLower(valueOrDefault(k.String("LOG_LEVEL"), "info")),
		LogFormat: strings.ToLower(valueOrDefault(k.String("LOG_FORMAT"), "text")),
		Currency:  strings.ToUpper(valueOrDefault(k.String("CURRENCY"), "USD")),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}
	if len(cfg.Currency) != 3 {
		return nil, fmt.Errorf("CURRENCY must be a 3-letter code, got %q", cfg.Currency)
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}
