package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"media-catalog/internal/database"
	"media-catalog/internal/logging"
)

// ListMedia returns one page of catalog rows.
//
// Query parameters: type (file extension), complete (true/false), limit,
// offset.
func (h *Handlers) ListMedia(w http.ResponseWriter, r *http.Request) {
	filter, err := parseMediaFilter(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	page, err := h.db.ListMedia(r.Context(), filter)
	if err != nil {
		logging.Error("list media failed: %v", err)
		writeJSONError(w, "failed to list media", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, page)
}

// GetMedia returns a single catalog row by id.
func (h *Handlers) GetMedia(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSONError(w, "invalid id", http.StatusBadRequest)
		return
	}

	row, err := h.db.GetMedia(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "media not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("get media %d failed: %v", id, err)
		writeJSONError(w, "failed to get media", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, row)
}

// GetStats returns catalog totals and the most recent run.
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.db.Stats(r.Context())
	if err != nil {
		logging.Error("catalog stats failed: %v", err)
		writeJSONError(w, "failed to get stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, stats)
}

type filterError string

func (e filterError) Error() string { return string(e) }

func parseMediaFilter(r *http.Request) (database.MediaFilter, error) {
	q := r.URL.Query()
	filter := database.MediaFilter{FileType: q.Get("type")}

	if v := q.Get("complete"); v != "" {
		complete, err := strconv.ParseBool(v)
		if err != nil {
			return filter, filterError("complete must be true or false")
		}
		filter.Complete = &complete
	}

	var err error
	if filter.Limit, err = parseNonNegative(q.Get("limit")); err != nil {
		return filter, filterError("limit must be a non-negative integer")
	}
	if filter.Offset, err = parseNonNegative(q.Get("offset")); err != nil {
		return filter, filterError("offset must be a non-negative integer")
	}
	return filter, nil
}

func parseNonNegative(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}
