package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"media-catalog/internal/logging"
	"media-catalog/internal/mediatypes"
	"media-catalog/internal/metrics"
)

const mediaColumns = `id, FILENAME, FILEPATH, HASH, FILETYPE, DATETIME, LATITUDE, LONGITUDE, PROCESSING_COMPLETE`

// InsertMedia persists rec as a new row and sets rec.ID. A record whose
// filepath is already cataloged fails with ErrConstraintViolation and leaves
// the table unchanged. Empty optional fields are stored as NULL.
func (d *Database) InsertMedia(ctx context.Context, rec *mediatypes.MediaRecord) (int64, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("insert_media", start, err) }()

	var res sql.Result
	res, err = d.db.ExecContext(ctx, `
		INSERT INTO media (FILENAME, FILEPATH, HASH, FILETYPE, DATETIME, LATITUDE, LONGITUDE, PROCESSING_COMPLETE)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.Filename,
		rec.Filepath,
		nullString(rec.ContentHash),
		rec.FileType,
		nullString(rec.CaptureTimestamp),
		nullString(rec.Latitude),
		nullString(rec.Longitude),
		rec.ProcessingComplete,
	)
	if err != nil {
		if isConstraintViolation(err) {
			metrics.DBInsertConflicts.Inc()
			return 0, fmt.Errorf("%w: %s: %w", ErrConstraintViolation, rec.Filepath, err)
		}
		return 0, fmt.Errorf("failed to insert %s: %w", rec.Filepath, err)
	}

	var id int64
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read insert id: %w", err)
	}
	rec.ID = id

	logging.Debug("Inserted media %d: %s (%s)", id, rec.Filepath, rec.FileType)
	return id, nil
}

// GetMedia returns the record with the given id. NULL columns come back as
// empty strings.
func (d *Database) GetMedia(ctx context.Context, id int64) (*mediatypes.MediaRecord, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_media", start, err) }()

	row := d.db.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM media WHERE id = ?`, id)

	var m *mediatypes.MediaRecord
	m, err = scanMedia(row)
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
		return nil, fmt.Errorf("media %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get media %d: %w", id, err)
	}
	return m, nil
}

// ListMedia returns one page of rows ordered by id.
func (d *Database) ListMedia(ctx context.Context, filter MediaFilter) (*MediaPage, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("list_media", start, err) }()

	filter = filter.normalized()

	var (
		where []string
		args  []interface{}
	)
	if filter.FileType != "" {
		where = append(where, "FILETYPE = ?")
		args = append(args, strings.ToLower(filter.FileType))
	}
	if filter.Complete != nil {
		where = append(where, "PROCESSING_COMPLETE = ?")
		args = append(args, *filter.Complete)
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	page := &MediaPage{
		Items:  []mediatypes.MediaRecord{},
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	if err = d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM media`+clause, args...).Scan(&page.Total); err != nil {
		return nil, fmt.Errorf("failed to count media: %w", err)
	}

	var rows *sql.Rows
	rows, err = d.db.QueryContext(ctx,
		`SELECT `+mediaColumns+` FROM media`+clause+` ORDER BY id LIMIT ? OFFSET ?`,
		append(args, filter.Limit, filter.Offset)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			logging.Warn("failed to close rows: %v", closeErr)
		}
	}()

	for rows.Next() {
		var m *mediatypes.MediaRecord
		m, err = scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media: %w", err)
		}
		page.Items = append(page.Items, *m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate media: %w", err)
	}

	return page, nil
}

// CountMedia returns the number of cataloged rows.
func (d *Database) CountMedia(ctx context.Context) (int, error) {
	var n int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM media`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count media: %w", err)
	}
	return n, nil
}

// Stats summarizes the catalog and refreshes the catalog gauges.
func (d *Database) Stats(ctx context.Context) (*CatalogStats, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("count_by_type", start, err) }()

	stats := &CatalogStats{ByType: make(map[string]int)}

	var rows *sql.Rows
	rows, err = d.db.QueryContext(ctx, `
		SELECT FILETYPE, COUNT(*), SUM(CASE WHEN PROCESSING_COMPLETE = 0 THEN 1 ELSE 0 END)
		FROM media
		GROUP BY FILETYPE
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count media by type: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			logging.Warn("failed to close rows: %v", closeErr)
		}
	}()

	for rows.Next() {
		var (
			fileType   string
			count      int
			incomplete int
		)
		if err = rows.Scan(&fileType, &count, &incomplete); err != nil {
			return nil, fmt.Errorf("failed to scan type count: %w", err)
		}
		stats.ByType[fileType] = count
		stats.Total += count
		stats.Incomplete += incomplete
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate type counts: %w", err)
	}

	runs, err := d.ListRuns(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) > 0 {
		stats.LastRun = &runs[0]
	}
	if stats.Runs, err = d.CountRuns(ctx); err != nil {
		return nil, err
	}

	metrics.CatalogRecordsTotal.Reset()
	for fileType, count := range stats.ByType {
		metrics.CatalogRecordsTotal.WithLabelValues(fileType).Set(float64(count))
	}
	metrics.CatalogIncompleteTotal.Set(float64(stats.Incomplete))

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMedia(row rowScanner) (*mediatypes.MediaRecord, error) {
	var (
		m                        mediatypes.MediaRecord
		hash, datetime, lat, lon sql.NullString
	)
	if err := row.Scan(&m.ID, &m.Filename, &m.Filepath, &hash, &m.FileType, &datetime, &lat, &lon, &m.ProcessingComplete); err != nil {
		return nil, err
	}
	m.ContentHash = hash.String
	m.CaptureTimestamp = datetime.String
	m.Latitude = lat.String
	m.Longitude = lon.String
	return &m, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
