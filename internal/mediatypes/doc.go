// Package mediatypes provides shared type definitions for classifying files
// by extension across the media catalog.
//
// This package exists as a dependency-free foundation that can be imported by
// other packages without creating import cycles.
//
// # Extensions
//
// Extensions are normalized to lowercase without the leading dot:
//
//	ext := mediatypes.Extension("/photos/IMG_0001.JPG") // "jpg"
//
// KindSets lists the extension sets (ExifImageExtensions, ImageExtensions,
// VideoExtensions, SidecarExtensions) in match order; package media builds
// its default extractor registry from it. The sets are disjoint, so at most
// one Kind matches an extension.
package mediatypes
