package metrics

// States lists the ingestion pipeline states exported by IngestState.
var States = []string{"idle", "discovering", "processing", "reporting"}

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
func InitializeMetrics() {
	for _, op := range []string{"ensure_schema", "drop_schema", "insert_media", "insert_run",
		"list_media", "get_media", "count_by_type"} {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
		DBQueryDuration.WithLabelValues(op)
	}

	for _, name := range []string{"exif_image", "image", "video", "sidecar", "none"} {
		IngestFilesProcessed.WithLabelValues(name)
		ExtractionDuration.WithLabelValues(name)
		ExtractionFailures.WithLabelValues(name)
	}

	for _, op := range []string{"stat", "readdir", "open"} {
		FilesystemRetryAttempts.WithLabelValues(op)
		FilesystemRetryFailures.WithLabelValues(op)
		FilesystemStaleErrors.WithLabelValues(op)
	}

	SetState("idle")
}

// SetState marks state as the active pipeline state.
func SetState(state string) {
	for _, s := range States {
		v := 0.0
		if s == state {
			v = 1
		}
		IngestState.WithLabelValues(s).Set(v)
	}
}
