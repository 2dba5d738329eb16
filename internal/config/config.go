package config

import (
	"os"
	"strconv"
	"strings"

	"golime/internal/errors"
)

// DefaultSequenceSteps is the explainer's default sequence length
const DefaultSequenceSteps = 2

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Scaling  ScalingConfig
	Paths    PathConfig
	LogLevel string
}

// DatabaseConfig holds the optional archive connection. An empty URL disables archiving.
type DatabaseConfig struct {
	URL string
}

// Enabled reports whether an archive database is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// ScalingConfig describes the scaler and sequence layout explanations were produced with
type ScalingConfig struct {
	ScalerFile    string
	SequenceSteps int
	Columns       []string
}

// PathConfig holds file system paths
type PathConfig struct {
	ReportDir string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	scaling, err := loadScalingConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load scaling configuration")
	}

	config := &Config{
		Database: DatabaseConfig{URL: os.Getenv("DATABASE_URL")},
		Server:   *loadServerConfig(),
		Scaling:  *scaling,
		Paths:    PathConfig{ReportDir: getEnvOrDefault("REPORT_DIR", "./reports")},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "debug"),
	}
}

func loadScalingConfig() (*ScalingConfig, error) {
	steps := DefaultSequenceSteps
	if value := os.Getenv("SEQUENCE_STEPS"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return nil, errors.ConfigInvalid("SEQUENCE_STEPS must be an integer, got " + strconv.Quote(value))
		}
		steps = parsed
	}

	return &ScalingConfig{
		ScalerFile:    os.Getenv("SCALER_FILE"),
		SequenceSteps: steps,
		Columns:       ParseColumns(os.Getenv("DATA_COLUMNS")),
	}, nil
}

// ParseColumns splits a comma separated column list, dropping blanks
func ParseColumns(value string) []string {
	var columns []string
	for _, part := range strings.Split(value, ",") {
		if col := strings.TrimSpace(part); col != "" {
			columns = append(columns, col)
		}
	}
	return columns
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Scaling.SequenceSteps < 0 {
		return errors.ConfigInvalid("SEQUENCE_STEPS cannot be negative")
	}
	seen := make(map[string]bool, len(config.Scaling.Columns))
	for _, col := range config.Scaling.Columns {
		if seen[col] {
			return errors.ConfigInvalid("DATA_COLUMNS lists " + col + " twice")
		}
		seen[col] = true
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
