package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// IngestRuns counts ingestion runs by category and terminal status.
	IngestRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_ingest_runs_total",
			Help: "Ingestion runs by category and status",
		},
		[]string{"category", "status"},
	)

	// RowsInserted counts catalog rows inserted per category.
	RowsInserted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_rows_inserted_total",
			Help: "Rows inserted into catalogs",
		},
		[]string{"category"},
	)

	// RowsUpdated counts full-row overwrites per category.
	RowsUpdated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_rows_updated_total",
			Help: "Rows overwritten in catalogs",
		},
		[]string{"category"},
	)

	// RowsSkipped counts duplicate-identifier rows skipped per category.
	RowsSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_rows_skipped_total",
			Help: "Duplicate rows skipped during upsert",
		},
		[]string{"category"},
	)

	// FetchFailures counts failed spreadsheet downloads per category.
	FetchFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_fetch_failures_total",
			Help: "Spreadsheet download failures",
		},
		[]string{"category"},
	)

	// IngestDuration observes end-to-end run time per category.
	IngestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_ingest_duration_seconds",
			Help:    "End-to-end ingestion run duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"category"},
	)
)

var registerOnce sync.Once

// Register installs the collectors on the default registry. Safe to call
// from every entrypoint.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			IngestRuns,
			RowsInserted,
			RowsUpdated,
			RowsSkipped,
			FetchFailures,
			IngestDuration,
		)
	})
}
