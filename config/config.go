// Package config reads service configuration from the environment, with an
// optional .env file for local runs.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	StoreURL     string
	JWTSecret    string
	SessionTTL   time.Duration
	AllowOrigins []string
}

// Load reads .env if present, then the environment. STORE_URL and JWT_SECRET
// are required; everything else has a default.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:         getenv("PORT", "8080"),
		StoreURL:     strings.TrimSuffix(os.Getenv("STORE_URL"), "/"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		SessionTTL:   24 * time.Hour,
		AllowOrigins: []string{"*"},
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.AllowOrigins = strings.Split(origins, ",")
	}
	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid SESSION_TTL: %w", err)
		}
		cfg.SessionTTL = d
	}

	if cfg.StoreURL == "" {
		return Config{}, fmt.Errorf("config: STORE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("config: JWT_SECRET is required")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
