// Package logging provides a simple leveled logging interface for the
// media catalog.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// Output goes to one or more sinks, each with its own threshold. By default a
// single stderr sink is used at the level from the LOG_LEVEL (or DEBUG)
// environment variable. Configure installs a stderr sink plus an optional
// size-rotated file sink, mirroring the usual "quiet console, verbose file"
// setup for batch ingestion runs.
package logging
