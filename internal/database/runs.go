package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"media-catalog/internal/logging"
)

// InsertRun records a finished ingestion run.
func (d *Database) InsertRun(ctx context.Context, run RunRecord) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("insert_run", start, err) }()

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO runs (id, root, started_at, finished_at, files_processed, extraction_failures, insert_conflicts, insert_failures)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Root,
		run.StartedAt.Unix(),
		run.FinishedAt.Unix(),
		run.FilesProcessed,
		run.ExtractionFailures,
		run.InsertConflicts,
		run.InsertFailures,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}
	return nil
}

// ListRuns returns up to limit runs, most recent first.
func (d *Database) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT id, root, started_at, finished_at, files_processed, extraction_failures, insert_conflicts, insert_failures
		FROM runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			logging.Warn("failed to close rows: %v", closeErr)
		}
	}()

	var runs []RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// CountRuns returns the number of recorded runs.
func (d *Database) CountRuns(ctx context.Context) (int, error) {
	var n int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return n, nil
}

func scanRun(rows *sql.Rows) (RunRecord, error) {
	var (
		run                 RunRecord
		startedAt, finished int64
	)
	if err := rows.Scan(&run.ID, &run.Root, &startedAt, &finished,
		&run.FilesProcessed, &run.ExtractionFailures, &run.InsertConflicts, &run.InsertFailures); err != nil {
		return RunRecord{}, fmt.Errorf("failed to scan run: %w", err)
	}
	run.StartedAt = time.Unix(startedAt, 0)
	run.FinishedAt = time.Unix(finished, 0)
	return run, nil
}
