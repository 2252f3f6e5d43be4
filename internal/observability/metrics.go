package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// methane ETL pipeline.
type Metrics struct {
	RowsFetched     prometheus.Counter
	RowsTransformed prometheus.Counter
	RowsInserted    prometheus.Counter
	RowsSkipped     prometheus.Counter
	TransformErrors prometheus.Counter
	PipelineRunning prometheus.Gauge

	// Batch processing metrics.
	BatchSize     prometheus.Histogram
	BatchDuration prometheus.Histogram

	// Photo resolution metrics.
	PhotoDownloads     prometheus.Counter
	PhotoReuses        prometheus.Counter
	PhotoFetchErrors   prometheus.Counter
	PhotoFetchDuration prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsFetched,
		m.RowsTransformed,
		m.RowsInserted,
		m.RowsSkipped,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchDuration,
		m.PhotoDownloads,
		m.PhotoReuses,
		m.PhotoFetchErrors,
		m.PhotoFetchDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "methane_etl",
			Name:      "rows_fetched_total",
			Help:      "Total raw rows read from the spreadsheet source.",
		}),
		RowsTransformed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "methane_etl",
			Name:      "rows_transformed_total",
			Help:      "Total rows successfully transformed.",
		}),
		RowsInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "methane_etl",
			Name:      "rows_inserted_total",
			Help:      "Total measurements inserted into the store.",
		}),
		RowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "methane_etl",
			Name:      "rows_skipped_total",
			Help:      "Total duplicate measurements skipped by timestamp.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "methane_etl",
			Name:      "transform_errors_total",
			Help:      "Total batch transformation failures.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "methane_etl",
			Name:      "pipeline_running",
			Help:      "1 while a batch run is active, 0 otherwise.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "methane_etl",
			Name:      "batch_size",
			Help:      "Number of raw rows per extracted batch.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "methane_etl",
			Name:      "batch_duration_seconds",
			Help:      "Duration of a complete extract-transform-load cycle.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		PhotoDownloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "methane_etl",
			Name:      "photo_downloads_total",
			Help:      "Total photos fetched over HTTP and stored.",
		}),
		PhotoReuses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "methane_etl",
			Name:      "photo_reuses_total",
			Help:      "Total photo identifiers already present in the store, no fetch needed.",
		}),
		PhotoFetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "methane_etl",
			Name:      "photo_fetch_errors_total",
			Help:      "Total photo downloads that failed with a network error or non-success status.",
		}),
		PhotoFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "methane_etl",
			Name:      "photo_fetch_duration_seconds",
			Help:      "Photo download duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}
