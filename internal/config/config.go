package config

import (
	"fmt"
	"os"
	"strconv"

	"gomediate/domain/core"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Engine   EngineConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig holds database connection settings. An empty URL disables
// run persistence.
type DatabaseConfig struct {
	URL string
}

// EngineConfig holds permutation engine defaults
type EngineConfig struct {
	DefaultIterations int
	Workers           int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnv("SERVER_PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "release"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Engine: EngineConfig{
			DefaultIterations: getEnvInt("ENGINE_ITERATIONS", 1000),
			Workers:           getEnvInt("ENGINE_WORKERS", 1),
		},
	}

	if config.Engine.DefaultIterations <= 0 {
		return nil, fmt.Errorf("%w: ENGINE_ITERATIONS must be positive, got %d",
			core.ErrInvalidConfiguration, config.Engine.DefaultIterations)
	}
	if config.Engine.Workers <= 0 {
		return nil, fmt.Errorf("%w: ENGINE_WORKERS must be positive, got %d",
			core.ErrInvalidConfiguration, config.Engine.Workers)
	}

	return config, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
