// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"os"
)

type Config struct {
	DatabaseURL string // ENTITYD_DATABASE_URL (required)
	HTTPAddr    string // ENTITYD_HTTP_ADDR (default ":8080")
	NATSURL     string // ENTITYD_NATS_URL (optional, empty = no events)
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL: os.Getenv("ENTITYD_DATABASE_URL"),
		HTTPAddr:    envOrDefault("ENTITYD_HTTP_ADDR", ":8080"),
		NATSURL:     os.Getenv("ENTITYD_NATS_URL"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("ENTITYD_DATABASE_URL is required")
	}
	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
