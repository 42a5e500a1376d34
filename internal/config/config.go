// Package config loads client configuration from the environment, with
// an optional .env file for development.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config holds everything the client needs to reach the bookshelf API.
type Config struct {
	BaseURL   string        `env:"BOOKSHELF_API_URL,default=http://localhost:8080"`
	Timeout   time.Duration `env:"BOOKSHELF_HTTP_TIMEOUT,default=30s"`
	TokenFile string        `env:"BOOKSHELF_TOKEN_FILE"`
	LogLevel  string        `env:"BOOKSHELF_LOG_LEVEL,default=info"`
}

// Load reads the environment (and .env when present) into a Config.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment.
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config from environment: %w", err)
	}

	if cfg.TokenFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate config dir for token file: %w", err)
		}
		cfg.TokenFile = filepath.Join(dir, "bookshelf", "token.json")
	}

	return &cfg, nil
}
