// Package middleware provides HTTP middleware for the catalog query API.
//
// It includes:
//   - Request logging through the leveled logger, with control characters
//     stripped from client-supplied fields
//   - Prometheus request counters and latency histograms labeled by route
package middleware
