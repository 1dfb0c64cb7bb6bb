// Package indexer runs media ingestion for the media catalog.
//
// A run discovers every non-hidden regular file under a root directory,
// then handles each file in turn: a record is built from the path, handed
// to the first extractor registered for its extension, and inserted into
// the catalog. Files are processed one at a time on the calling goroutine.
//
// Failures on a single file never stop the run:
//   - Extraction errors persist the record with default metadata and
//     ProcessingComplete=false
//   - Paths that are already cataloged are skipped and counted as conflicts
//
// Hidden files and directories (prefixed with '.') are excluded. Symlinked
// directories are followed once; a directory already visited through
// another path is not walked again.
package indexer
