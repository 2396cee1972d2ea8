// Package common provides shared utilities for Fundtrack
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Fundtrack
type Config struct {
	Environment string        `toml:"environment"`
	API         APIConfig     `toml:"api"`
	Storage     StorageConfig `toml:"storage"`
	Logging     LoggingConfig `toml:"logging"`
}

// APIConfig holds fund API client configuration
type APIConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *APIConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// StorageConfig holds local storage configuration.
type StorageConfig struct {
	// Tokens is the directory holding the durable token store.
	Tokens AreaConfig `toml:"tokens"`
}

// AreaConfig holds path configuration for a storage area.
type AreaConfig struct {
	Path string `toml:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		API: APIConfig{
			BaseURL:   "http://localhost:8000/api",
			RateLimit: 10,
			Timeout:   "30s",
		},
		Storage: StorageConfig{
			Tokens: AreaConfig{Path: defaultTokenPath()},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "data/tokens"
	}
	return home + "/.fundtrack/tokens"
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FUNDTRACK_ENV"); env != "" {
		config.Environment = env
	}

	if url := os.Getenv("FUNDTRACK_API_URL"); url != "" {
		config.API.BaseURL = url
	}

	if rl := os.Getenv("FUNDTRACK_API_RATE_LIMIT"); rl != "" {
		if n, err := strconv.Atoi(rl); err == nil && n > 0 {
			config.API.RateLimit = n
		}
	}

	if timeout := os.Getenv("FUNDTRACK_API_TIMEOUT"); timeout != "" {
		config.API.Timeout = timeout
	}

	if path := os.Getenv("FUNDTRACK_TOKEN_PATH"); path != "" {
		config.Storage.Tokens.Path = path
	}

	if level := os.Getenv("FUNDTRACK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
