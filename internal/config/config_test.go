package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SHEET_ID", "sheet-123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/methane_project.db", cfg.DBPath)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, SourceSheets, cfg.Source)
	assert.Equal(t, "sheet-123", cfg.SheetID)
	assert.Equal(t, "Form Responses 1!A1:G", cfg.SheetRange)
	assert.Equal(t, 10*time.Second, cfg.PhotoTimeout)
	assert.Equal(t, 10, cfg.PhotoWorkers)
	assert.Equal(t, time.Duration(0), cfg.RunInterval)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/leaks.db")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("SOURCE", "csv")
	t.Setenv("CSV_PATH", "data/raw.csv")
	t.Setenv("PHOTO_TIMEOUT", "5s")
	t.Setenv("PHOTO_WORKERS", "4")
	t.Setenv("RUN_INTERVAL", "15m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/leaks.db", cfg.DBPath)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, SourceCSV, cfg.Source)
	assert.Equal(t, "data/raw.csv", cfg.CSVPath)
	assert.Equal(t, 5*time.Second, cfg.PhotoTimeout)
	assert.Equal(t, 4, cfg.PhotoWorkers)
	assert.Equal(t, 15*time.Minute, cfg.RunInterval)
}

func TestLoad_SheetsRequiresSheetID(t *testing.T) {
	t.Setenv("SOURCE", "sheets")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHEET_ID")
}

func TestLoad_CSVRequiresPath(t *testing.T) {
	t.Setenv("SOURCE", "csv")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CSV_PATH")
}

func TestLoad_InvalidSource(t *testing.T) {
	t.Setenv("SOURCE", "carrier-pigeon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid SOURCE")
}

func TestLoad_InvalidDurations(t *testing.T) {
	t.Setenv("SHEET_ID", "sheet-123")

	t.Run("shutdown timeout", func(t *testing.T) {
		t.Setenv("SHUTDOWN_TIMEOUT", "soon")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("photo timeout must be positive", func(t *testing.T) {
		t.Setenv("PHOTO_TIMEOUT", "0s")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("photo workers must be positive", func(t *testing.T) {
		t.Setenv("PHOTO_WORKERS", "0")
		_, err := Load()
		require.Error(t, err)
	})
}
