package mediatypes

import "strings"

// Kind is the extraction category a file extension belongs to.
type Kind string

const (
	// KindExifImage is an image format that may carry an embedded EXIF block.
	KindExifImage Kind = "exif_image"
	// KindImage is an image format without EXIF support.
	KindImage Kind = "image"
	// KindVideo is a video container probed for metadata tags.
	KindVideo Kind = "video"
	// KindSidecar is a companion file that carries no extractable metadata.
	KindSidecar Kind = "sidecar"
)

// ExifImageExtensions lists image formats decoded for EXIF metadata.
var ExifImageExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"tif":  true,
	"tiff": true,
}

// ImageExtensions lists image formats that are hashed but carry no EXIF.
var ImageExtensions = map[string]bool{
	"png":  true,
	"gif":  true,
	"bmp":  true,
	"webp": true,
}

// VideoExtensions lists video containers probed with ffprobe.
var VideoExtensions = map[string]bool{
	"mp4":  true,
	"mov":  true,
	"m4v":  true,
	"3gp":  true,
	"mkv":  true,
	"avi":  true,
	"webm": true,
	"mpg":  true,
	"mpeg": true,
	"mts":  true,
}

// SidecarExtensions lists companion files acknowledged without extraction.
var SidecarExtensions = map[string]bool{
	"aae":  true,
	"xmp":  true,
	"thm":  true,
	"json": true,
}

// Extension returns the lowercased substring after the final '.' in the
// final path segment, or "" when the name has no dot.
func Extension(path string) string {
	name := BaseName(path)
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

// BaseName returns the final segment of a slash- or backslash-separated path.
func BaseName(path string) string {
	if idx := strings.LastIndexAny(path, `/\`); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

// KindSet pairs a Kind with the extensions that belong to it.
type KindSet struct {
	Kind       Kind
	Extensions map[string]bool
}

// KindSets is the classification in match order. The extractor registry is
// built from it, so the first set containing an extension decides how the
// file is handled.
var KindSets = []KindSet{
	{Kind: KindExifImage, Extensions: ExifImageExtensions},
	{Kind: KindImage, Extensions: ImageExtensions},
	{Kind: KindVideo, Extensions: VideoExtensions},
	{Kind: KindSidecar, Extensions: SidecarExtensions},
}
