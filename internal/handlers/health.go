package handlers

import (
	"net/http"
	"runtime"
	"time"

	"media-catalog/internal/logging"
	"media-catalog/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	Uptime       string `json:"uptime"`
	GoVersion    string `json:"goVersion"`
	NumGoroutine int    `json:"numGoroutine"`
	TotalMedia   int    `json:"totalMedia"`
	LastRun      string `json:"lastRun,omitempty"`
	Error        string `json:"error,omitempty"`
}

// HealthCheck reports whether the catalog can be queried
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:       statusHealthy,
		Version:      startup.Version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	status := http.StatusOK
	stats, err := h.db.Stats(r.Context())
	if err != nil {
		logging.Warn("health check: catalog unavailable: %v", err)
		response.Status = statusDegraded
		response.Error = "catalog unavailable"
		status = http.StatusServiceUnavailable
	} else {
		response.TotalMedia = stats.Total
		if stats.LastRun != nil {
			response.LastRun = stats.LastRun.FinishedAt.Format(time.RFC3339)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, response)
	}
}
