package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/methane-leak-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/methane-leak-etl/internal/adapter/drive"
	httpadapter "github.com/couchcryptid/methane-leak-etl/internal/adapter/http"
	"github.com/couchcryptid/methane-leak-etl/internal/adapter/sheets"
	"github.com/couchcryptid/methane-leak-etl/internal/config"
	"github.com/couchcryptid/methane-leak-etl/internal/observability"
	"github.com/couchcryptid/methane-leak-etl/internal/pipeline"
	"github.com/couchcryptid/methane-leak-etl/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(cfg.DBPath, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}

	extractor, err := newExtractor(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to init extractor", "error", err)
		os.Exit(1)
	}

	resolver := drive.NewResolver(db, cfg.PhotoTimeout, cfg.PhotoWorkers, logger, metrics)
	transformer := pipeline.NewTransformer(resolver, logger)
	p := pipeline.New(extractor, transformer, db, logger, metrics)

	// One-shot mode: run a single cycle and exit without the HTTP surface.
	if cfg.RunInterval == 0 {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
			os.Exit(1)
		}
		return
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, db, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go runLoop(ctx, p, cfg.RunInterval, logger)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

// newExtractor picks the batch source from config: the live sheet or a local
// CSV export.
func newExtractor(ctx context.Context, cfg *config.Config, logger *slog.Logger) (pipeline.BatchExtractor, error) {
	if cfg.Source == config.SourceCSV {
		return csvfile.NewExtractor(cfg.CSVPath, logger), nil
	}
	return sheets.NewClient(ctx, cfg.SheetID, cfg.SheetRange, logger)
}

// runLoop runs the pipeline immediately and then on every interval tick until
// the context is cancelled. A failed cycle is logged and retried on the next
// tick.
func runLoop(ctx context.Context, p *pipeline.Pipeline, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
