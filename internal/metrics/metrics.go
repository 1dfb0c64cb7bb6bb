package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_db_queries_total",
			Help: "Total number of catalog database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_catalog_db_query_duration_seconds",
			Help:    "Catalog database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	DBInsertConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_db_insert_conflicts_total",
			Help: "Total number of inserts rejected because the filepath was already cataloged",
		},
	)
)

// Ingestion metrics
var (
	IngestRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_ingest_runs_total",
			Help: "Total number of ingestion runs",
		},
	)

	IngestState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "media_catalog_ingest_state",
			Help: "Current ingestion pipeline state (1 for the active state)",
		},
		[]string{"state"},
	)

	IngestFilesDiscovered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_ingest_files_discovered_total",
			Help: "Total number of files returned by directory discovery",
		},
	)

	IngestFilesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_ingest_files_processed_total",
			Help: "Total number of files processed, by extractor",
		},
		[]string{"extractor"},
	)

	IngestLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_ingest_last_run_timestamp",
			Help: "Timestamp of the last completed ingestion run",
		},
	)

	IngestLastRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_ingest_last_run_duration_seconds",
			Help: "Duration of the last ingestion run in seconds",
		},
	)
)

// Extraction metrics
var (
	ExtractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_catalog_extraction_duration_seconds",
			Help:    "Metadata extraction duration in seconds, by extractor",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"extractor"},
	)

	ExtractionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_extraction_failures_total",
			Help: "Total number of metadata extraction failures, by extractor",
		},
		[]string{"extractor"},
	)
)

// Catalog contents
var (
	CatalogRecordsTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "media_catalog_records",
			Help: "Number of cataloged records by file type",
		},
		[]string{"filetype"},
	)

	CatalogIncompleteTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_records_incomplete",
			Help: "Number of cataloged records whose extraction did not complete",
		},
	)
)

// HTTP metrics for the query API
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_catalog_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Filesystem metrics
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_filesystem_retry_attempts_total",
			Help: "Total number of filesystem operation retries after stale handle errors",
		},
		[]string{"operation"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_filesystem_retry_failures_total",
			Help: "Total number of filesystem operations that failed after all retries",
		},
		[]string{"operation"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_filesystem_stale_errors_total",
			Help: "Total number of stale file handle errors observed",
		},
		[]string{"operation"},
	)
)

// Runtime metrics
var (
	GoMemLimitBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_go_memory_limit_bytes",
			Help: "Soft memory limit applied to the Go runtime (0 when unset)",
		},
	)
)

// AppInfo exposes build information as labels.
var AppInfo = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "media_catalog_app_info",
		Help: "Application build information",
	},
	[]string{"version", "commit", "go_version"},
)
