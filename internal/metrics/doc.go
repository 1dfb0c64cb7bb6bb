// Package metrics provides Prometheus instrumentation for the media catalog.
//
// All metrics are prefixed with "media_catalog_" and registered with the
// default registry through promauto. The ingestion pipeline records run,
// extraction and insert-conflict metrics; the query API records HTTP metrics;
// the filesystem package reports stale handle retries through the observer
// returned by NewFilesystemObserver.
//
// Expose them by mounting promhttp.Handler():
//
//	r.Handle("/metrics", promhttp.Handler())
//
// Useful queries:
//
// Extraction failure ratio by extractor:
//
//	rate(media_catalog_extraction_failures_total[1h]) /
//	rate(media_catalog_ingest_files_processed_total[1h])
//
// Re-ingest conflicts per run:
//
//	increase(media_catalog_db_insert_conflicts_total[1d]) /
//	increase(media_catalog_ingest_runs_total[1d])
package metrics
