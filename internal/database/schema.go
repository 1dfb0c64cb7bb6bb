package database

import (
	"context"
	"fmt"
	"time"

	"media-catalog/internal/logging"
)

// TableDef declares one catalog table. Indexes run only when the table is
// first created. Added lists columns introduced after the table's first
// release; EnsureSchema appends any that an existing table lacks.
type TableDef struct {
	Name    string
	Create  string
	Indexes []string
	Added   []Column
}

// Column is a column definition as it appears in ALTER TABLE ADD COLUMN.
type Column struct {
	Name string
	Def  string
}

// MediaTable holds one row per cataloged file.
var MediaTable = TableDef{
	Name: "media",
	Create: `CREATE TABLE media (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		FILENAME TEXT NOT NULL,
		FILEPATH TEXT NOT NULL UNIQUE,
		HASH TEXT,
		FILETYPE TEXT NOT NULL,
		DATETIME TEXT,
		LATITUDE TEXT,
		LONGITUDE TEXT,
		PROCESSING_COMPLETE INTEGER NOT NULL DEFAULT 0
	)`,
	Indexes: []string{
		`CREATE INDEX IF NOT EXISTS idx_media_filetype ON media(FILETYPE)`,
		`CREATE INDEX IF NOT EXISTS idx_media_complete ON media(PROCESSING_COMPLETE)`,
	},
}

// RunsTable holds one row per ingestion run.
var RunsTable = TableDef{
	Name: "runs",
	Create: `CREATE TABLE runs (
		id TEXT PRIMARY KEY,
		root TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		files_processed INTEGER NOT NULL DEFAULT 0,
		extraction_failures INTEGER NOT NULL DEFAULT 0,
		insert_conflicts INTEGER NOT NULL DEFAULT 0,
		insert_failures INTEGER NOT NULL DEFAULT 0
	)`,
	Indexes: []string{
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,
	},
	Added: []Column{
		{Name: "insert_failures", Def: "INTEGER NOT NULL DEFAULT 0"},
	},
}

// DefaultTables returns the declared catalog tables in creation order.
func DefaultTables() []TableDef {
	return []TableDef{MediaTable, RunsTable}
}

// Tables returns the tables this store manages.
func (d *Database) Tables() []TableDef {
	out := make([]TableDef, len(d.tables))
	copy(out, d.tables)
	return out
}

// TableExists reports whether a table named name is present.
func (d *Database) TableExists(ctx context.Context, name string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var count int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check for table %s: %w", name, err)
	}
	return count > 0, nil
}

// EnsureSchema creates each declared table that does not exist yet. Existing
// tables keep their rows; only missing Added columns are appended. Safe to
// call repeatedly.
func (d *Database) EnsureSchema(ctx context.Context) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("ensure_schema", start, err) }()

	for _, table := range d.tables {
		var exists bool
		exists, err = d.TableExists(ctx, table.Name)
		if err != nil {
			return err
		}
		if exists {
			logging.Debug("Table %s already exists", table.Name)
			if err = d.addMissingColumns(ctx, table); err != nil {
				return err
			}
			continue
		}

		logging.Info("Creating table %s", table.Name)
		if _, err = d.db.ExecContext(ctx, table.Create); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.Name, err)
		}
		for _, stmt := range table.Indexes {
			if _, err = d.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to create index on %s: %w", table.Name, err)
			}
		}
	}

	return nil
}

func (d *Database) addMissingColumns(ctx context.Context, table TableDef) error {
	if len(table.Added) == 0 {
		return nil
	}

	present, err := d.columnNames(ctx, table.Name)
	if err != nil {
		return err
	}
	for _, col := range table.Added {
		if present[col.Name] {
			continue
		}
		logging.Info("Adding column %s.%s", table.Name, col.Name)
		// Names and definitions come from the declared TableDefs.
		stmt := `ALTER TABLE "` + table.Name + `" ADD COLUMN ` + col.Name + ` ` + col.Def
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to add column %s.%s: %w", table.Name, col.Name, err)
		}
	}
	return nil
}

func (d *Database) columnNames(ctx context.Context, table string) (map[string]bool, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			logging.Warn("failed to close rows: %v", closeErr)
		}
	}()

	names := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan column of %s: %w", table, err)
		}
		names[name] = true
	}
	return names, rows.Err()
}

// DropSchema drops each declared table. A table that is already absent is
// logged and skipped.
func (d *Database) DropSchema(ctx context.Context) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("drop_schema", start, err) }()

	for i := len(d.tables) - 1; i >= 0; i-- {
		table := d.tables[i]

		var exists bool
		exists, err = d.TableExists(ctx, table.Name)
		if err != nil {
			return err
		}
		if !exists {
			logging.Warn("Table %s does not exist, nothing to drop", table.Name)
			continue
		}

		logging.Info("Dropping table %s", table.Name)
		// Table names come from the declared TableDefs, never from input.
		if _, err = d.db.ExecContext(ctx, `DROP TABLE "`+table.Name+`"`); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table.Name, err)
		}
	}

	return nil
}
