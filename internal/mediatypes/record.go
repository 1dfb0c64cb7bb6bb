package mediatypes

// MediaRecord is one cataloged file. Metadata fields are strings so that
// values read from container tags persist exactly as they were found.
type MediaRecord struct {
	ID                 int64  `json:"id"`
	Filename           string `json:"filename"`
	Filepath           string `json:"filepath"`
	ContentHash        string `json:"contentHash,omitempty"`
	FileType           string `json:"fileType"`
	CaptureTimestamp   string `json:"captureTimestamp,omitempty"`
	Latitude           string `json:"latitude,omitempty"`
	Longitude          string `json:"longitude,omitempty"`
	ProcessingComplete bool   `json:"processingComplete"`
}

// CoordinateDefault is written by extractors that ran but found no location.
const CoordinateDefault = "0"

// TimestampLayout is the EXIF date layout, also used for filesystem times.
const TimestampLayout = "2006:01:02 15:04:05"
