package database

import (
	"time"

	"media-catalog/internal/mediatypes"
)

// Page size bounds for ListMedia.
const (
	DefaultPageSize = 100
	MaxPageSize     = 1000
)

// MediaFilter narrows a ListMedia query. Zero values match everything.
type MediaFilter struct {
	FileType string
	Complete *bool
	Limit    int
	Offset   int
}

type MediaPage struct {
	Items  []mediatypes.MediaRecord `json:"items"`
	Total  int                      `json:"total"`
	Limit  int                      `json:"limit"`
	Offset int                      `json:"offset"`
}

type CatalogStats struct {
	Total      int            `json:"total"`
	Incomplete int            `json:"incomplete"`
	ByType     map[string]int `json:"byType"`
	Runs       int            `json:"runs"`
	LastRun    *RunRecord     `json:"lastRun,omitempty"`
}

// RunRecord summarizes one ingestion run.
type RunRecord struct {
	ID                 string    `json:"id"`
	Root               string    `json:"root"`
	StartedAt          time.Time `json:"startedAt"`
	FinishedAt         time.Time `json:"finishedAt"`
	FilesProcessed     int       `json:"filesProcessed"`
	ExtractionFailures int       `json:"extractionFailures"`
	InsertConflicts    int       `json:"insertConflicts"`
	InsertFailures     int       `json:"insertFailures"`
}

func (f MediaFilter) normalized() MediaFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
