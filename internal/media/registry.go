package media

import (
	"context"
	"errors"
	"fmt"
	"time"

	"media-catalog/internal/logging"
	"media-catalog/internal/mediatypes"
	"media-catalog/internal/metrics"
)

// ErrExtractionFailure wraps every error returned by an extractor.
var ErrExtractionFailure = errors.New("extraction failure")

// Extractor populates metadata for one family of file formats. Extract
// writes into rec; on error the caller discards whatever was written.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, rec *mediatypes.MediaRecord) error
}

type registration struct {
	extensions map[string]bool
	extractor  Extractor
}

// Registry holds an ordered list of (extension set, extractor) pairs. The
// first set containing a file's extension wins.
type Registry struct {
	entries []registration
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends an extractor for the given normalized extensions.
func (r *Registry) Register(extensions map[string]bool, e Extractor) {
	r.entries = append(r.entries, registration{extensions: extensions, extractor: e})
}

// Lookup returns the first extractor registered for ext.
func (r *Registry) Lookup(ext string) (Extractor, bool) {
	for _, entry := range r.entries {
		if entry.extensions[ext] {
			return entry.extractor, true
		}
	}
	return nil, false
}

// Options configures the default extractor set.
type Options struct {
	// ProbeBinary is the ffprobe executable used for video containers.
	ProbeBinary string
	// ProbeTimeout bounds a single video probe; zero means no limit.
	ProbeTimeout time.Duration
}

// DefaultRegistry registers one extractor per entry of mediatypes.KindSets,
// in the same order.
func DefaultRegistry(opts Options) *Registry {
	r := NewRegistry()
	for _, set := range mediatypes.KindSets {
		e, ok := extractorFor(set.Kind, opts)
		if !ok {
			logging.Error("No extractor for kind %q, its extensions will be stored with defaults", set.Kind)
			continue
		}
		r.Register(set.Extensions, e)
	}
	return r
}

func extractorFor(kind mediatypes.Kind, opts Options) (Extractor, bool) {
	switch kind {
	case mediatypes.KindExifImage:
		return &ExifExtractor{}, true
	case mediatypes.KindImage:
		return &ImageExtractor{}, true
	case mediatypes.KindVideo:
		return &VideoExtractor{
			Prober:  &FFProbe{Binary: opts.ProbeBinary},
			Timeout: opts.ProbeTimeout,
		}, true
	case mediatypes.KindSidecar:
		return SidecarExtractor{}, true
	default:
		return nil, false
	}
}

// Dispatcher routes records to extractors for one ingestion run and tallies
// every extension it sees.
type Dispatcher struct {
	registry *Registry
	counts   map[string]int
}

// NewDispatcher creates a Dispatcher with an empty tally.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		counts:   make(map[string]int),
	}
}

// Dispatch tallies rec's extension and runs the matching extractor, if any.
// It always returns a record suitable for persisting: on extractor failure
// the builder defaults are returned with ProcessingComplete=false along with
// an error wrapping ErrExtractionFailure. Unmatched extensions return rec
// unchanged and a nil error.
func (d *Dispatcher) Dispatch(ctx context.Context, rec mediatypes.MediaRecord) (mediatypes.MediaRecord, error) {
	d.counts[rec.FileType]++

	extractor, ok := d.registry.Lookup(rec.FileType)
	if !ok {
		logging.Debug("No extractor for %q (%s), storing defaults", rec.FileType, rec.Filepath)
		metrics.IngestFilesProcessed.WithLabelValues("none").Inc()
		return rec, nil
	}

	name := extractor.Name()
	metrics.IngestFilesProcessed.WithLabelValues(name).Inc()

	start := time.Now()
	scratch := rec
	err := extractor.Extract(ctx, &scratch)
	metrics.ExtractionDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ExtractionFailures.WithLabelValues(name).Inc()
		logging.Error("%s extraction failed for %s: %v", name, rec.Filepath, err)
		rec.ProcessingComplete = false
		return rec, fmt.Errorf("%w: %s: %w", ErrExtractionFailure, name, err)
	}

	scratch.ProcessingComplete = true
	return scratch, nil
}

// Counts returns a copy of the extension tally.
func (d *Dispatcher) Counts() map[string]int {
	out := make(map[string]int, len(d.counts))
	for k, v := range d.counts {
		out[k] = v
	}
	return out
}
