package indexer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"media-catalog/internal/database"
	"media-catalog/internal/logging"
	"media-catalog/internal/media"
	"media-catalog/internal/mediatypes"
	"media-catalog/internal/metrics"
)

// ErrRunInProgress is returned by Run when another run on the same Indexer
// has not finished.
var ErrRunInProgress = errors.New("ingestion run already in progress")

// State is a step of the ingestion state machine.
type State string

const (
	StateIdle        State = "idle"
	StateDiscovering State = "discovering"
	StateProcessing  State = "processing"
	StateReporting   State = "reporting"
)

// Catalog is where processed records are persisted.
type Catalog interface {
	InsertMedia(ctx context.Context, rec *mediatypes.MediaRecord) (int64, error)
}

// Store is a Catalog that also keeps a ledger of runs.
type Store interface {
	Catalog
	InsertRun(ctx context.Context, run database.RunRecord) error
}

// Config is everything a run needs besides the store.
type Config struct {
	// Root is the directory tree to ingest.
	Root string
	// Media configures the default extractors.
	Media media.Options
	// Exclude lists files that are never cataloged, such as the catalog
	// database and log files when they live under Root.
	Exclude []string
}

// Report summarizes one run.
type Report struct {
	RunID              string         `json:"runId,omitempty"`
	Root               string         `json:"root,omitempty"`
	StartedAt          time.Time      `json:"startedAt"`
	Duration           time.Duration  `json:"duration"`
	FilesProcessed     int            `json:"filesProcessed"`
	ExtensionCounts    map[string]int `json:"extensionCounts"`
	ExtractionFailures int            `json:"extractionFailures"`
	InsertConflicts    int            `json:"insertConflicts"`
	InsertFailures     int            `json:"insertFailures"`
	Cancelled          bool           `json:"cancelled,omitempty"`
}

// Indexer drives Idle -> Discovering -> Processing -> Reporting -> Idle for
// one root and one store. Runs on the same Indexer never overlap.
type Indexer struct {
	cfg      Config
	store    Store
	registry *media.Registry
	exclude  map[string]bool

	mu         sync.Mutex
	state      State
	running    bool
	lastReport *Report
}

// New creates an Indexer using the default extractor registry.
func New(cfg Config, store Store) *Indexer {
	return NewWithRegistry(cfg, store, media.DefaultRegistry(cfg.Media))
}

// NewWithRegistry creates an Indexer with a caller-supplied registry.
func NewWithRegistry(cfg Config, store Store, registry *media.Registry) *Indexer {
	return &Indexer{
		cfg:      cfg,
		store:    store,
		registry: registry,
		exclude:  excludeSet(cfg.Exclude),
		state:    StateIdle,
	}
}

func excludeSet(paths []string) map[string]bool {
	if len(paths) == 0 {
		return nil
	}
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			logging.Warn("Cannot exclude %s: %v", p, err)
			continue
		}
		set[abs] = true
	}
	return set
}

// State returns the current pipeline state.
func (idx *Indexer) State() State {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.state
}

// LastReport returns the report of the most recent completed run, or nil.
func (idx *Indexer) LastReport() *Report {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.lastReport == nil {
		return nil
	}
	r := *idx.lastReport
	return &r
}

func (idx *Indexer) setState(s State) {
	idx.mu.Lock()
	idx.state = s
	idx.mu.Unlock()
	metrics.SetState(string(s))
	logging.Debug("Pipeline state: %s", s)
}

// tryStart marks a run as started, returns false if one is already running.
func (idx *Indexer) tryStart() bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.running {
		return false
	}
	idx.running = true
	return true
}

func (idx *Indexer) finish(report *Report) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.running = false
	idx.state = StateIdle
	if report != nil {
		idx.lastReport = report
	}
	metrics.SetState(string(StateIdle))
}

// Run discovers every file under the configured root, processes each one in
// turn and records the run. Discovery failure aborts the run before any file
// is touched. Per-file failures are counted in the report, never returned.
// Cancelling ctx stops after the current file; the partial run is still
// reported and recorded.
func (idx *Indexer) Run(ctx context.Context) (Report, error) {
	if !idx.tryStart() {
		return Report{}, ErrRunInProgress
	}

	var report *Report
	defer func() { idx.finish(report) }()

	metrics.IngestRunsTotal.Inc()
	startedAt := time.Now()

	idx.setState(StateDiscovering)
	logging.Info("Discovering files under %s", idx.cfg.Root)

	paths, err := discover(idx.cfg.Root, idx.exclude)
	if err != nil {
		return Report{}, err
	}
	metrics.IngestFilesDiscovered.Add(float64(len(paths)))
	logging.Info("Discovered %d files", len(paths))

	idx.setState(StateProcessing)
	r := idx.process(ctx, paths, idx.store)
	r.Root = idx.cfg.Root
	r.StartedAt = startedAt
	r.Duration = time.Since(startedAt)
	r.RunID = uuid.NewString()

	idx.setState(StateReporting)
	idx.recordRun(r)
	logReport(r)

	metrics.IngestLastRunTimestamp.Set(float64(time.Now().Unix()))
	metrics.IngestLastRunDuration.Set(r.Duration.Seconds())

	report = &r
	return r, nil
}

// recordRun writes the runs row. It runs even when the run was cancelled.
func (idx *Indexer) recordRun(r Report) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := idx.store.InsertRun(ctx, database.RunRecord{
		ID:                 r.RunID,
		Root:               r.Root,
		StartedAt:          r.StartedAt,
		FinishedAt:         r.StartedAt.Add(r.Duration),
		FilesProcessed:     r.FilesProcessed,
		ExtractionFailures: r.ExtractionFailures,
		InsertConflicts:    r.InsertConflicts,
		InsertFailures:     r.InsertFailures,
	})
	if err != nil {
		logging.Error("Failed to record run %s: %v", r.RunID, err)
	}
}

// Process builds, extracts and persists a record for each path in order,
// using the default extractors. Each file is fully handled before the next
// begins.
func Process(ctx context.Context, paths []string, catalog Catalog) Report {
	idx := NewWithRegistry(Config{}, nil, media.DefaultRegistry(media.Options{}))
	return idx.process(ctx, paths, catalog)
}

// Process runs only the processing step, using this Indexer's registry.
func (idx *Indexer) Process(ctx context.Context, paths []string, catalog Catalog) Report {
	return idx.process(ctx, paths, catalog)
}

func (idx *Indexer) process(ctx context.Context, paths []string, catalog Catalog) Report {
	dispatcher := media.NewDispatcher(idx.registry)
	report := Report{}

	for i, path := range paths {
		if ctx.Err() != nil {
			logging.Warn("Run cancelled after %d of %d files", i, len(paths))
			report.Cancelled = true
			break
		}

		if err := processFile(ctx, dispatcher, catalog, path, &report); err != nil {
			logging.Error("Failed to persist %s: %v", path, err)
			report.InsertFailures++
		}
		report.FilesProcessed++
	}

	report.ExtensionCounts = dispatcher.Counts()
	return report
}

// processFile handles one path. Extraction failures and insert conflicts
// are counted on report; other store errors are returned.
func processFile(ctx context.Context, d *media.Dispatcher, catalog Catalog, path string, report *Report) error {
	rec, err := d.Dispatch(ctx, media.NewRecord(path))
	if err != nil {
		report.ExtractionFailures++
	}

	// The insert is not cancellable so a file that was extracted is always persisted.
	_, err = catalog.InsertMedia(context.WithoutCancel(ctx), &rec)
	switch {
	case err == nil:
		logging.Debug("Cataloged %s (complete=%t)", path, rec.ProcessingComplete)
		return nil
	case errors.Is(err, database.ErrConstraintViolation):
		logging.Warn("Already cataloged, skipping %s", path)
		report.InsertConflicts++
		return nil
	default:
		return fmt.Errorf("insert %s: %w", path, err)
	}
}
