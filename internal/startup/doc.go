// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// [LoadConfig] layers configuration from, lowest precedence first:
//
//  1. Built-in defaults ([Default])
//  2. A TOML file named by --config or CATALOG_CONFIG
//  3. A .env file (never overriding variables already set)
//  4. Environment variables
//  5. Command-line flags ([Overrides])
//
// The following environment variables are supported:
//
//   - MEDIA_DIR: Root directory to ingest (default: .)
//   - DATABASE_DIR: Directory holding media_catalog.db (default: .)
//   - DEV_MODE: Drop and recreate the schema before ingesting (default: false)
//   - PORT: HTTP port for the query API (default: 8080)
//   - METRICS_ENABLED: Serve /metrics (default: true)
//   - LOG_LEVEL: Console level - debug, info, warn, error (default: warn)
//   - LOG_FILE: Rotating debug log, or "none" (default: media_catalog.log)
//   - LOG_MAX_BYTES: Rotation size in bytes (default: 10000)
//   - LOG_BACKUPS: Rotated files kept (default: 3)
//   - PROBE_BINARY: ffprobe executable (default: ffprobe)
//   - PROBE_TIMEOUT: Per-file probe timeout as Go duration (default: 30s)
//
// A TOML file uses the same settings:
//
//	media_dir = "/photos"
//	database_dir = "/var/lib/media-catalog"
//
//	[log]
//	level = "info"
//	file = "none"
//
//	[probe]
//	binary = "/usr/bin/ffprobe"
//	timeout = "1m"
//
// # Run Lock
//
// [AcquireRunLock] takes an exclusive flock next to the catalog so two
// processes never write the same database.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo].
package startup
