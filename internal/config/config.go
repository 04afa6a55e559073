// Package config reads server settings from the environment, with an
// optional .env file for local development.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr     string
	LogLevel string
}

// Load pulls settings from a .env file (if present) and the process
// environment. Missing values get development defaults.
func Load() Config {
	// A missing .env is fine; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	return Config{
		Addr:     getenv("ADDR", ":8080"),
		LogLevel: getenv("LOG_LEVEL", "info"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
