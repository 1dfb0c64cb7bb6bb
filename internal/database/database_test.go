package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mattn/go-sqlite3"

	"media-catalog/internal/mediatypes"
)

// setupTestDB opens a fresh catalog in a temp dir with the schema in place.
func setupTestDB(t *testing.T) *Database {
	t.Helper()

	ctx := context.Background()
	db, err := New(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})

	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	return db
}

func sampleRecord(path, fileType string) *mediatypes.MediaRecord {
	return &mediatypes.MediaRecord{
		Filename:           filepath.Base(path),
		Filepath:           path,
		FileType:           fileType,
		ContentHash:        "abc123",
		CaptureTimestamp:   "2019:06:01 12:00:00",
		Latitude:           "40.446111",
		Longitude:          "79.982222",
		ProcessingComplete: true,
	}
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New(context.Background(), filepath.Join(t.TempDir(), "missing", "catalog.db"))
	if !errors.Is(err, ErrConnectionFailure) {
		t.Fatalf("New() error = %v, want ErrConnectionFailure", err)
	}
}

func TestFromDBPingFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	mock.ExpectPing().WillReturnError(errors.New("unreachable"))
	mock.ExpectClose()

	_, err = FromDB(context.Background(), db)
	if !errors.Is(err, ErrConnectionFailure) {
		t.Fatalf("FromDB() error = %v, want ErrConnectionFailure", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestInsertMediaUniqueViolationFromDriver(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	mock.ExpectPing()
	mock.ExpectExec("INSERT INTO media").
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique})

	store, err := FromDB(context.Background(), db)
	if err != nil {
		t.Fatalf("FromDB() error = %v", err)
	}

	_, err = store.InsertMedia(context.Background(), sampleRecord("/photos/a.jpg", "jpg"))
	if !errors.Is(err, ErrConstraintViolation) {
		t.Fatalf("InsertMedia() error = %v, want ErrConstraintViolation", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("second EnsureSchema() error = %v", err)
	}

	for _, table := range db.Tables() {
		var count int
		err := db.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table.Name,
		).Scan(&count)
		if err != nil {
			t.Fatalf("query sqlite_master: %v", err)
		}
		if count != 1 {
			t.Errorf("table %s appears %d times, want 1", table.Name, count)
		}
	}
}

func TestEnsureSchemaKeepsExistingRows(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.InsertMedia(ctx, sampleRecord("/photos/keep.jpg", "jpg")); err != nil {
		t.Fatalf("InsertMedia() error = %v", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}

	n, err := db.CountMedia(ctx)
	if err != nil {
		t.Fatalf("CountMedia() error = %v", err)
	}
	if n != 1 {
		t.Errorf("CountMedia() = %d, want 1", n)
	}
}

func TestDropSchema(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.DropSchema(ctx); err != nil {
		t.Fatalf("DropSchema() error = %v", err)
	}
	for _, table := range db.Tables() {
		exists, err := db.TableExists(ctx, table.Name)
		if err != nil {
			t.Fatalf("TableExists() error = %v", err)
		}
		if exists {
			t.Errorf("table %s still exists after DropSchema", table.Name)
		}
	}

	// Dropping an absent schema is tolerated.
	if err := db.DropSchema(ctx); err != nil {
		t.Errorf("DropSchema() on empty catalog error = %v", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() after drop error = %v", err)
	}
}

func TestInsertMediaRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	rec := sampleRecord("/photos/a.jpg", "jpg")
	id, err := db.InsertMedia(ctx, rec)
	if err != nil {
		t.Fatalf("InsertMedia() error = %v", err)
	}
	if id <= 0 || rec.ID != id {
		t.Fatalf("InsertMedia() id = %d, rec.ID = %d", id, rec.ID)
	}

	got, err := db.GetMedia(ctx, id)
	if err != nil {
		t.Fatalf("GetMedia() error = %v", err)
	}
	if got.Filepath != rec.Filepath || got.Filename != "a.jpg" || got.FileType != "jpg" {
		t.Errorf("GetMedia() = %+v", got)
	}
	if got.Latitude != "40.446111" || got.CaptureTimestamp != "2019:06:01 12:00:00" {
		t.Errorf("GetMedia() metadata = %+v", got)
	}
	if !got.ProcessingComplete {
		t.Error("ProcessingComplete = false, want true")
	}
	if *got != *rec {
		t.Errorf("GetMedia() = %+v, want the inserted record %+v", *got, *rec)
	}
}

func TestInsertMediaDefaultsStoredAsNull(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	rec := &mediatypes.MediaRecord{Filename: "notes.txt", Filepath: "/photos/notes.txt", FileType: "txt"}
	id, err := db.InsertMedia(ctx, rec)
	if err != nil {
		t.Fatalf("InsertMedia() error = %v", err)
	}

	var nullHash bool
	if err := db.db.QueryRowContext(ctx, `SELECT HASH IS NULL FROM media WHERE id = ?`, id).Scan(&nullHash); err != nil {
		t.Fatalf("query hash: %v", err)
	}
	if !nullHash {
		t.Error("empty content hash should be stored as NULL")
	}

	got, err := db.GetMedia(ctx, id)
	if err != nil {
		t.Fatalf("GetMedia() error = %v", err)
	}
	if got.ProcessingComplete || got.ContentHash != "" || got.Latitude != "" {
		t.Errorf("GetMedia() = %+v, want defaults", got)
	}
}

func TestInsertMediaDuplicatePath(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.InsertMedia(ctx, sampleRecord("/photos/dup.jpg", "jpg")); err != nil {
		t.Fatalf("first InsertMedia() error = %v", err)
	}

	_, err := db.InsertMedia(ctx, sampleRecord("/photos/dup.jpg", "jpg"))
	if !errors.Is(err, ErrConstraintViolation) {
		t.Fatalf("second InsertMedia() error = %v, want ErrConstraintViolation", err)
	}

	n, err := db.CountMedia(ctx)
	if err != nil {
		t.Fatalf("CountMedia() error = %v", err)
	}
	if n != 1 {
		t.Errorf("CountMedia() = %d, want 1", n)
	}
}

func TestGetMediaNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetMedia(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetMedia() error = %v, want ErrNotFound", err)
	}
}

func TestListMediaFilters(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	records := []*mediatypes.MediaRecord{
		sampleRecord("/p/1.jpg", "jpg"),
		sampleRecord("/p/2.jpg", "jpg"),
		sampleRecord("/p/3.mp4", "mp4"),
		{Filename: "4.txt", Filepath: "/p/4.txt", FileType: "txt"},
	}
	for _, rec := range records {
		if _, err := db.InsertMedia(ctx, rec); err != nil {
			t.Fatalf("InsertMedia(%s) error = %v", rec.Filepath, err)
		}
	}

	incomplete := false
	tests := []struct {
		name      string
		filter    MediaFilter
		wantTotal int
		wantItems int
	}{
		{name: "all", filter: MediaFilter{}, wantTotal: 4, wantItems: 4},
		{name: "by type", filter: MediaFilter{FileType: "JPG"}, wantTotal: 2, wantItems: 2},
		{name: "incomplete", filter: MediaFilter{Complete: &incomplete}, wantTotal: 1, wantItems: 1},
		{name: "paged", filter: MediaFilter{Limit: 3, Offset: 2}, wantTotal: 4, wantItems: 2},
		{name: "no match", filter: MediaFilter{FileType: "gif"}, wantTotal: 0, wantItems: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := db.ListMedia(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListMedia() error = %v", err)
			}
			if page.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", page.Total, tt.wantTotal)
			}
			if len(page.Items) != tt.wantItems {
				t.Errorf("len(Items) = %d, want %d", len(page.Items), tt.wantItems)
			}
		})
	}
}

func TestMediaFilterNormalized(t *testing.T) {
	tests := []struct {
		in        MediaFilter
		wantLimit int
	}{
		{MediaFilter{}, DefaultPageSize},
		{MediaFilter{Limit: 5}, 5},
		{MediaFilter{Limit: MaxPageSize + 1}, MaxPageSize},
	}
	for _, tt := range tests {
		if got := tt.in.normalized().Limit; got != tt.wantLimit {
			t.Errorf("normalized(%+v).Limit = %d, want %d", tt.in, got, tt.wantLimit)
		}
	}
}

func TestStatsAndRuns(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for _, rec := range []*mediatypes.MediaRecord{
		sampleRecord("/p/1.jpg", "jpg"),
		sampleRecord("/p/2.png", "png"),
		{Filename: "3.txt", Filepath: "/p/3.txt", FileType: "txt"},
	} {
		if _, err := db.InsertMedia(ctx, rec); err != nil {
			t.Fatalf("InsertMedia() error = %v", err)
		}
	}

	started := time.Unix(1700000000, 0)
	run := RunRecord{
		ID:                 "run-1",
		Root:               "/p",
		StartedAt:          started,
		FinishedAt:         started.Add(2 * time.Second),
		FilesProcessed:     3,
		ExtractionFailures: 1,
		InsertFailures:     2,
	}
	if err := db.InsertRun(ctx, run); err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}

	stats, err := db.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Total != 3 || stats.Incomplete != 1 {
		t.Errorf("Stats() total/incomplete = %d/%d, want 3/1", stats.Total, stats.Incomplete)
	}
	if stats.ByType["jpg"] != 1 || stats.ByType["txt"] != 1 {
		t.Errorf("Stats().ByType = %v", stats.ByType)
	}
	if stats.Runs != 1 || stats.LastRun == nil || stats.LastRun.ID != "run-1" {
		t.Fatalf("Stats() runs = %d, last = %+v", stats.Runs, stats.LastRun)
	}
	if !stats.LastRun.FinishedAt.Equal(run.FinishedAt) || stats.LastRun.ExtractionFailures != 1 {
		t.Errorf("LastRun = %+v, want %+v", stats.LastRun, run)
	}
	if stats.LastRun.InsertFailures != 2 {
		t.Errorf("LastRun.InsertFailures = %d, want 2", stats.LastRun.InsertFailures)
	}
}

func TestEnsureSchemaAddsMissingColumns(t *testing.T) {
	ctx := context.Background()
	db, err := New(ctx, filepath.Join(t.TempDir(), "old.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	// A runs table as created before insert_failures existed.
	if _, err := db.db.ExecContext(ctx, `CREATE TABLE runs (
		id TEXT PRIMARY KEY,
		root TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		files_processed INTEGER NOT NULL DEFAULT 0,
		extraction_failures INTEGER NOT NULL DEFAULT 0,
		insert_conflicts INTEGER NOT NULL DEFAULT 0
	)`); err != nil {
		t.Fatalf("create old runs table: %v", err)
	}
	if _, err := db.db.ExecContext(ctx,
		`INSERT INTO runs (id, root, started_at, finished_at) VALUES ('old', '/p', 1, 2)`); err != nil {
		t.Fatalf("insert old run: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := db.EnsureSchema(ctx); err != nil {
			t.Fatalf("EnsureSchema() #%d error = %v", i+1, err)
		}
	}

	now := time.Unix(1700000000, 0)
	if err := db.InsertRun(ctx, RunRecord{ID: "new", Root: "/p", StartedAt: now, FinishedAt: now, InsertFailures: 4}); err != nil {
		t.Fatalf("InsertRun() after upgrade error = %v", err)
	}

	runs, err := db.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("ListRuns() returned %d runs, want 2", len(runs))
	}
	if runs[0].ID != "new" || runs[0].InsertFailures != 4 {
		t.Errorf("newest run = %+v, want id new with 4 insert failures", runs[0])
	}
	if runs[1].ID != "old" || runs[1].InsertFailures != 0 {
		t.Errorf("old run = %+v, want insert failures defaulted to 0", runs[1])
	}
}
