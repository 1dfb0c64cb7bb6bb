// Package media extracts catalog metadata from media files.
//
// NewRecord derives the filename and file type from a path. A Registry maps
// normalized extensions to Extractor strategies, and a Dispatcher runs the
// matching strategy for each record while tallying extensions seen:
//   - ExifExtractor: JPEG/TIFF pixel hash, EXIF DateTime and GPS
//   - ImageExtractor: pixel hash and filesystem creation time
//   - VideoExtractor: "location" and "date" container tags via ffprobe
//   - SidecarExtractor: acknowledges companion files with no metadata
//
// Content hashes are SHA-256 digests of the decoded pixel buffer, not of the
// file bytes. Extraction failures never propagate as fatal errors: the
// Dispatcher logs them and hands back the builder defaults with
// ProcessingComplete=false.
package media
