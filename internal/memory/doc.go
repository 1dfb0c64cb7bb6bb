// Package memory sizes the Go runtime's soft memory limit for containerized
// ingestion runs.
//
// Decoding a large image for the pixel hash allocates a full frame, so a run
// over a photo library can spike well above its steady state. When the
// container limit is known (MEMORY_LIMIT, typically from the Kubernetes
// Downward API) Apply sets GOMEMLIMIT to a fraction of it so the collector
// works harder before the kernel OOM killer steps in:
//
//	result := memory.Apply(memory.Settings{
//		ContainerLimit: cfg.MemoryLimit,
//		Ratio:          cfg.MemoryRatio,
//	})
//
// An explicit GOMEMLIMIT environment variable is respected and left alone.
// The applied limit is exported as media_catalog_go_memory_limit_bytes.
package memory
