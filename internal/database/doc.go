// Package database provides the SQLite catalog store for the media catalog.
//
// It handles storage and retrieval of:
//   - Media records (one row per discovered file, unique by path)
//   - Ingestion run summaries
//
// The schema is declared as a list of TableDef values. EnsureSchema creates
// only the tables that are missing and DropSchema removes them again; neither
// alters an existing table. All statements take their values as bound
// parameters.
//
// The database uses WAL mode and a single connection per process.
package database
