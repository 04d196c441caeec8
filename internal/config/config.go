package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds process-wide settings. It is loaded once at startup and
// passed to component constructors; nothing mutates it afterwards.
type Config struct {
	DBSource      string
	Port          string
	Env           string
	SessionSecret string
	SessionTTL    time.Duration
}

func Load() (*Config, error) {
	dbSource := os.Getenv("DB_SOURCE")
	if dbSource == "" {
		return nil, fmt.Errorf("DB_SOURCE environment variable is required")
	}

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is required")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	ttl := 24 * time.Hour
	if raw := os.Getenv("SESSION_TTL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
		}
		ttl = parsed
	}

	return &Config{
		DBSource:      dbSource,
		Port:          port,
		Env:           env,
		SessionSecret: secret,
		SessionTTL:    ttl,
	}, nil
}
