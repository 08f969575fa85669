// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs to run.
type Config struct {
	Addr         string
	RedirectURI  string
	ClientID     string
	ClientSecret string
	DatabaseURL  string
	SessionStore string
	LogLevel     string
	LogFormat    string
}

// Load reads configuration from a .env file (if present) and the process
// environment. Environment variables win over the file.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Addr:         getenv("ADDR", ""),
		RedirectURI:  getenv("SPOTIFY_REDIRECT_URI", ""),
		ClientID:     os.Getenv("SPOTIFY_ID"),
		ClientSecret: os.Getenv("SPOTIFY_SECRET"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		SessionStore: getenv("SESSION_STORE", "postgres"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		LogFormat:    getenv("LOG_FORMAT", "console"),
	}

	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("SPOTIFY_ID and SPOTIFY_SECRET must be set")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
