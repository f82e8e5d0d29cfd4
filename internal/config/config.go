package config

import (
	"os"
	"strconv"

	"testworth/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Engine    EngineConfig
	Profiling ProfilingConfig
}

// DatabaseConfig holds the ledger connection settings.
// An empty URL disables persistence; calculations still run.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// EngineConfig holds calculation engine settings
type EngineConfig struct {
	DefaultSamples int
	WorkerCapacity int64
}

// ProfilingConfig holds the operational debug server settings
type ProfilingConfig struct {
	Enabled bool
	Port    string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port:    envOr("PORT", "8080"),
			GinMode: envOr("GIN_MODE", "release"),
		},
		Engine: EngineConfig{
			DefaultSamples: 5000,
			WorkerCapacity: 4,
		},
		Profiling: ProfilingConfig{
			Enabled: os.Getenv("PROFILING_ENABLED") == "true",
			Port:    envOr("PROFILING_PORT", "6060"),
		},
	}

	if v := os.Getenv("ENGINE_DEFAULT_SAMPLES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, errors.ConfigInvalid("ENGINE_DEFAULT_SAMPLES must be a positive integer")
		}
		cfg.Engine.DefaultSamples = n
	}
	if v := os.Getenv("ENGINE_WORKER_CAPACITY"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return nil, errors.ConfigInvalid("ENGINE_WORKER_CAPACITY must be a positive integer")
		}
		cfg.Engine.WorkerCapacity = n
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
