package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Batch   BatchConfig
	Extract ExtractConfig
	Export  ExportConfig
	DB      DatabaseConfig
}

// BatchConfig holds batch-processing configuration
type BatchConfig struct {
	Workers    int
	DocTimeout time.Duration
}

// ExtractConfig holds PDF text-extraction configuration
type ExtractConfig struct {
	FirstPageOnly bool
	RulesPath     string // optional classification-rules YAML override
}

// ExportConfig holds output configuration
type ExportConfig struct {
	OutDir string
	Format string // "csv" | "xlsx" | "both"
}

// DatabaseConfig holds optional dataset-store configuration
type DatabaseConfig struct {
	DSN         string // sqlite path or postgres:// URL; empty disables the store
	DialTimeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Batch: BatchConfig{
			Workers:    getEnvAsInt("BEERSTATS_WORKERS", 4),
			DocTimeout: getEnvAsDuration("BEERSTATS_DOC_TIMEOUT", 30*time.Second),
		},
		Extract: ExtractConfig{
			FirstPageOnly: getEnvAsBool("BEERSTATS_FIRST_PAGE_ONLY", true),
			RulesPath:     getEnv("BEERSTATS_RULES_PATH", ""),
		},
		Export: ExportConfig{
			OutDir: getEnv("BEERSTATS_OUT_DIR", "."),
			Format: getEnv("BEERSTATS_FORMAT", "csv"),
		},
		DB: DatabaseConfig{
			DSN:         getEnv("BEERSTATS_DB_DSN", ""),
			DialTimeout: getEnvAsDuration("BEERSTATS_DB_DIAL_TIMEOUT", 3*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Batch.Workers <= 0 {
		return NewAppError("CONFIG_ERROR", "BEERSTATS_WORKERS must be positive", ErrInvalidInput)
	}
	switch c.Export.Format {
	case "csv", "xlsx", "both":
	default:
		return NewAppError("CONFIG_ERROR", "BEERSTATS_FORMAT must be csv, xlsx or both", ErrInvalidInput)
	}
	return nil
}
