package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"media-catalog/internal/database"
	"media-catalog/internal/mediatypes"
	"media-catalog/internal/middleware"
)

// Catalog is the read side of the catalog store.
type Catalog interface {
	ListMedia(ctx context.Context, filter database.MediaFilter) (*database.MediaPage, error)
	GetMedia(ctx context.Context, id int64) (*mediatypes.MediaRecord, error)
	Stats(ctx context.Context) (*database.CatalogStats, error)
}

type Handlers struct {
	db        Catalog
	startTime time.Time
}

func New(db Catalog) *Handlers {
	return &Handlers{
		db:        db,
		startTime: time.Now(),
	}
}

// NewRouter registers the query API, health check and, when enabled, the
// Prometheus endpoint.
func (h *Handlers) NewRouter(metricsEnabled bool) *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/media", h.ListMedia).Methods(http.MethodGet).Name("listMedia")
	api.HandleFunc("/media/{id:[0-9]+}", h.GetMedia).Methods(http.MethodGet).Name("getMedia")
	api.HandleFunc("/stats", h.GetStats).Methods(http.MethodGet).Name("stats")
	api.HandleFunc("/version", h.GetVersion).Methods(http.MethodGet).Name("version")

	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet, http.MethodHead).Name("health")
	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler()).Name("metrics")
	}

	r.Use(middleware.Logger(middleware.DefaultLoggingConfig()))
	if metricsEnabled {
		r.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))
	}

	return r
}
