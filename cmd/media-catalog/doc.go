// Package main provides the media-catalog command.
//
// media-catalog walks a directory tree, extracts a content hash, capture
// time and location from each media file, and records one row per file in
// a SQLite catalog.
//
// # Commands
//
//	media-catalog ingest [root]    catalog every file under root
//	media-catalog schema ensure    create missing tables
//	media-catalog schema drop      drop every table
//	media-catalog serve            read-only JSON API and /metrics
//	media-catalog version          build information
//
// ingest --dev drops and recreates the schema first, asking for confirmation
// when stdin is a terminal unless --yes is given. ingest --profile writes a
// CPU profile to results.prof in the working directory.
//
// # Configuration
//
// Settings come from built-in defaults, a TOML file (--config or
// CATALOG_CONFIG), a .env file, environment variables and flags, in that
// order of precedence. See package startup for the full list.
//
// # Logging
//
// Warnings and errors go to stderr. A debug log is written to
// media_catalog.log and rotated at 10000 bytes, keeping three old files.
// Set LOG_FILE=none to disable it.
//
// # Concurrency
//
// Files are processed one at a time. A lock file next to the database keeps
// two ingest runs from writing the same catalog. SIGINT stops the run after
// the current file and still prints and records the report.
package main
