package config

import (
	"testing"

	"golime/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DATABASE_URL", "PORT", "GIN_MODE", "SCALER_FILE", "SEQUENCE_STEPS", "DATA_COLUMNS", "REPORT_DIR", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.GinMode)
	assert.Equal(t, DefaultSequenceSteps, cfg.Scaling.SequenceSteps)
	assert.Empty(t, cfg.Scaling.Columns)
	assert.False(t, cfg.Database.Enabled())
	assert.Equal(t, "./reports", cfg.Paths.ReportDir)
	assert.Equal(t, "INFO", cfg.LogLevel)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/lime?sslmode=disable")
	t.Setenv("PORT", "9090")
	t.Setenv("SCALER_FILE", "scaler.json")
	t.Setenv("SEQUENCE_STEPS", "12")
	t.Setenv("DATA_COLUMNS", " HR, SPO2 ,,TEMP ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "scaler.json", cfg.Scaling.ScalerFile)
	assert.Equal(t, 12, cfg.Scaling.SequenceSteps)
	assert.Equal(t, []string{"HR", "SPO2", "TEMP"}, cfg.Scaling.Columns)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-integer steps", "SEQUENCE_STEPS", "six"},
		{"negative steps", "SEQUENCE_STEPS", "-1"},
		{"duplicate column", "DATA_COLUMNS", "HR,SPO2,HR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestParseColumns(t *testing.T) {
	assert.Nil(t, ParseColumns(""))
	assert.Equal(t, []string{"A"}, ParseColumns("A"))
	assert.Equal(t, []string{"A", "B"}, ParseColumns("A, B,"))
}
