// Package handlers provides the read-only HTTP API over the media catalog.
//
// Routes:
//   - GET /api/media: paged listing, filtered by type and complete
//   - GET /api/media/{id}: a single record
//   - GET /api/stats: totals by file type and the most recent run
//   - GET /api/version: build information
//   - GET /health: catalog reachability
//   - /metrics: Prometheus metrics, when enabled
package handlers
