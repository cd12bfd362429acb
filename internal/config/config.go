package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"goab/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Analysis AnalysisConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds database connection settings.
// An empty URL disables persistence.
type DatabaseConfig struct {
	URL string
}

// AnalysisConfig holds significance-testing settings
type AnalysisConfig struct {
	Resamples int
	Seed      int64
	Workers   int
}

// Load reads configuration from environment variables and validates it.
// A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Analysis: AnalysisConfig{
			Resamples: getEnvInt("ANALYSIS_RESAMPLES", 10000),
			Seed:      getEnvInt64("ANALYSIS_SEED", 42),
			Workers:   getEnvInt("ANALYSIS_WORKERS", 4),
		},
	}

	if cfg.Analysis.Resamples < 1 {
		return nil, errors.ConfigInvalid("ANALYSIS_RESAMPLES must be at least 1")
	}
	if cfg.Analysis.Workers < 1 {
		return nil, errors.ConfigInvalid("ANALYSIS_WORKERS must be at least 1")
	}
	if cfg.Server.Port == "" {
		return nil, errors.ConfigInvalid("PORT cannot be empty")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
