package media

import (
	"context"
	"strings"
	"time"

	"media-catalog/internal/mediatypes"
)

// VideoExtractor reads the "location" and "date" container tags. No content
// hash is computed for videos.
type VideoExtractor struct {
	Prober  Prober
	Timeout time.Duration
}

// Name implements Extractor.
func (*VideoExtractor) Name() string { return string(mediatypes.KindVideo) }

// Extract implements Extractor.
func (v *VideoExtractor) Extract(ctx context.Context, rec *mediatypes.MediaRecord) error {
	if v.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.Timeout)
		defer cancel()
	}

	tags, err := v.Prober.Tags(ctx, rec.Filepath)
	if err != nil {
		return err
	}

	rec.Latitude, rec.Longitude = SplitLocation(tags["location"])
	rec.CaptureTimestamp = tags["date"]
	return nil
}

// SplitLocation splits a "lat-lon" location tag on its first hyphen. A tag
// that is empty or has no hyphen yields CoordinateDefault for both parts.
func SplitLocation(location string) (lat, lon string) {
	location = strings.TrimSpace(location)
	before, after, found := strings.Cut(location, "-")
	if !found {
		return mediatypes.CoordinateDefault, mediatypes.CoordinateDefault
	}
	return before, after
}
