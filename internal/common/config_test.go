package common

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	// Shield the test from ambient environment.
	for _, key := range []string{
		"JOURNAL_DRIVER", "JOURNAL_DSN", "POPPLER_PATH", "RASTER_DPI",
		"BATCH_WORKERS", "PROCESS_TIMEOUT", "WATCH_ROOTS", "WATCH_INITIAL_SCAN",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	require.Equal(t, "sqlite", cfg.Journal.Driver)
	require.Equal(t, "file:millsheet.db", cfg.Journal.DSN)
	require.Equal(t, "pdftoppm", cfg.Raster.PopplerPath)
	require.Equal(t, 300, cfg.Raster.DPI)
	require.Equal(t, 4, cfg.Batch.Workers)
	require.Equal(t, 2*time.Minute, cfg.Batch.ProcessTimeout)
	require.Empty(t, cfg.Watch.Roots)
	require.True(t, cfg.Watch.InitialScan)

	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("JOURNAL_DRIVER", "postgres")
	t.Setenv("JOURNAL_DSN", "postgres://mill:secret@db:5432/millsheets")
	t.Setenv("DB_MAX_CONNS", "20")
	t.Setenv("RASTER_DPI", "200")
	t.Setenv("BATCH_WORKERS", "8")
	t.Setenv("PROCESS_TIMEOUT", "90s")
	t.Setenv("WATCH_ROOTS", "/mnt/scans, /mnt/inbox ,")
	t.Setenv("WATCH_INITIAL_SCAN", "false")

	cfg := LoadConfig()

	require.Equal(t, "postgres", cfg.Journal.Driver)
	require.Equal(t, "postgres://mill:secret@db:5432/millsheets", cfg.Journal.DSN)
	require.Equal(t, int32(20), cfg.Journal.MaxConns)
	require.Equal(t, 200, cfg.Raster.DPI)
	require.Equal(t, 8, cfg.Batch.Workers)
	require.Equal(t, 90*time.Second, cfg.Batch.ProcessTimeout)
	require.Equal(t, []string{"/mnt/scans", "/mnt/inbox"}, cfg.Watch.Roots)
	require.False(t, cfg.Watch.InitialScan)

	require.NoError(t, cfg.Validate())
}

func TestLoadConfigIgnoresMalformedValues(t *testing.T) {
	t.Setenv("RASTER_DPI", "very high")
	t.Setenv("BATCH_WORKERS", "-")
	t.Setenv("PROCESS_TIMEOUT", "soon")

	cfg := LoadConfig()

	require.Equal(t, 300, cfg.Raster.DPI)
	require.Equal(t, 4, cfg.Batch.Workers)
	require.Equal(t, 2*time.Minute, cfg.Batch.ProcessTimeout)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.Journal.Driver = "oracle" }},
		{"empty dsn", func(c *Config) { c.Journal.DSN = "" }},
		{"dpi too low", func(c *Config) { c.Raster.DPI = 10 }},
		{"dpi too high", func(c *Config) { c.Raster.DPI = 2400 }},
		{"zero workers", func(c *Config) { c.Batch.Workers = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoadConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			require.ErrorIs(t, err, ErrInvalidInput)

			var appErr *AppError
			require.ErrorAs(t, err, &appErr)
			require.Equal(t, "CONFIG_ERROR", appErr.Code)
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewAppError("DB_ERROR", "open journal", cause)

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "DB_ERROR")
	require.Contains(t, err.Error(), "open journal")
	require.Contains(t, err.Error(), "connection refused")

	bare := NewAppError("CONFIG_ERROR", "missing DSN", nil)
	require.Equal(t, "CONFIG_ERROR: missing DSN", bare.Error())
}

func TestWrapError(t *testing.T) {
	require.Nil(t, WrapError(nil, "context"))

	inner := errors.New("boom")
	wrapped := WrapError(inner, "stage failed")
	require.ErrorIs(t, wrapped, inner)
	require.Equal(t, "stage failed: boom", wrapped.Error())
}
