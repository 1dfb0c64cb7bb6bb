package memory

import (
	"math"
	"os"
	"runtime/debug"
	"strconv"

	"media-catalog/internal/logging"
	"media-catalog/internal/metrics"
)

// DefaultRatio is the share of the container limit handed to the Go heap.
// The remainder covers ffprobe and decode buffers outside the heap.
const DefaultRatio = 0.85

// Settings describes the memory budget of the process.
type Settings struct {
	// ContainerLimit is the container memory limit in bytes. Zero disables
	// automatic configuration.
	ContainerLimit int64
	// Ratio is the fraction of ContainerLimit used for GOMEMLIMIT.
	Ratio float64
}

// Result reports what Apply did.
type Result struct {
	Configured     bool
	Source         string // "GOMEMLIMIT", "container" or "none"
	ContainerLimit int64
	GoMemLimit     int64
	Ratio          float64
}

// Apply sets the runtime soft memory limit from s. An explicit GOMEMLIMIT
// environment variable always wins.
func Apply(s Settings) Result {
	if env := os.Getenv("GOMEMLIMIT"); env != "" {
		result := Result{Source: "GOMEMLIMIT"}
		if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
			result.Configured = true
			result.GoMemLimit = limit
		}
		logging.Info("GOMEMLIMIT set via environment: %s", env)
		metrics.GoMemLimitBytes.Set(float64(result.GoMemLimit))
		return result
	}

	if s.ContainerLimit <= 0 {
		logging.Debug("No container memory limit configured, GOMEMLIMIT left unset")
		metrics.GoMemLimitBytes.Set(0)
		return Result{Source: "none"}
	}

	ratio := s.Ratio
	if ratio <= 0 || ratio > 1 {
		if ratio != 0 {
			logging.Warn("Memory ratio %.2f out of range (0.0-1.0], using default %.2f", ratio, DefaultRatio)
		}
		ratio = DefaultRatio
	}

	limit := int64(float64(s.ContainerLimit) * ratio)
	debug.SetMemoryLimit(limit)
	metrics.GoMemLimitBytes.Set(float64(limit))

	logging.Info("Configured GOMEMLIMIT: %s (%.1f%% of %s container limit)",
		FormatBytes(limit), ratio*100, FormatBytes(s.ContainerLimit))

	return Result{
		Configured:     true,
		Source:         "container",
		ContainerLimit: s.ContainerLimit,
		GoMemLimit:     limit,
		Ratio:          ratio,
	}
}

// FormatBytes renders b with a binary unit suffix.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return strconv.FormatFloat(float64(b)/float64(div), 'f', 1, 64) + " " + string("KMGTPE"[exp]) + "iB"
}
