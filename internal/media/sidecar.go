package media

import (
	"context"

	"media-catalog/internal/mediatypes"
)

// SidecarExtractor acknowledges companion files (edit lists, XMP) that carry
// nothing to extract. It always succeeds.
type SidecarExtractor struct{}

// Name implements Extractor.
func (SidecarExtractor) Name() string { return string(mediatypes.KindSidecar) }

// Extract implements Extractor.
func (SidecarExtractor) Extract(context.Context, *mediatypes.MediaRecord) error {
	return nil
}
