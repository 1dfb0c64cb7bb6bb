package media

import (
	"media-catalog/internal/mediatypes"
)

// NewRecord builds the in-progress record for path: filename and file type
// are derived from the path and every metadata field is left empty with
// ProcessingComplete unset. When no extractor matches, this is the record
// that gets persisted.
func NewRecord(path string) mediatypes.MediaRecord {
	return mediatypes.MediaRecord{
		Filename: mediatypes.BaseName(path),
		Filepath: path,
		FileType: mediatypes.Extension(path),
	}
}
