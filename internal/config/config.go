package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Source selects where raw observation rows come from.
const (
	SourceSheets = "sheets"
	SourceCSV    = "csv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DBPath          string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Row source configuration.
	Source     string
	SheetID    string
	SheetRange string
	CSVPath    string

	// Photo resolver configuration.
	PhotoTimeout time.Duration
	PhotoWorkers int

	// RunInterval re-runs the batch on a fixed period; zero means run once
	// and exit.
	RunInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	photoTimeout, err := parseDuration("PHOTO_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	runInterval, err := parseInterval("RUN_INTERVAL", "0")
	if err != nil {
		return nil, err
	}

	photoWorkers, err := parseInt("PHOTO_WORKERS", 10)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBPath:          envOrDefault("DB_PATH", "data/methane_project.db"),
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		Source:     envOrDefault("SOURCE", SourceSheets),
		SheetID:    os.Getenv("SHEET_ID"),
		SheetRange: envOrDefault("SHEET_RANGE", "Form Responses 1!A1:G"),
		CSVPath:    os.Getenv("CSV_PATH"),

		PhotoTimeout: photoTimeout,
		PhotoWorkers: photoWorkers,
		RunInterval:  runInterval,
	}

	if cfg.DBPath == "" {
		return nil, errors.New("DB_PATH is required")
	}

	switch cfg.Source {
	case SourceSheets:
		if cfg.SheetID == "" {
			return nil, errors.New("SHEET_ID is required when SOURCE is sheets")
		}
	case SourceCSV:
		if cfg.CSVPath == "" {
			return nil, errors.New("CSV_PATH is required when SOURCE is csv")
		}
	default:
		return nil, fmt.Errorf("invalid SOURCE %q: must be %q or %q", cfg.Source, SourceSheets, SourceCSV)
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

// parseInterval is parseDuration but permits zero.
func parseInterval(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
