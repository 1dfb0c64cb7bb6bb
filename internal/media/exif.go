package media

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"media-catalog/internal/filesystem"
	"media-catalog/internal/logging"
	"media-catalog/internal/mediatypes"
)

// ErrNoExif is returned when an EXIF-capable image carries no EXIF block.
var ErrNoExif = errors.New("no EXIF metadata")

// ExifExtractor handles JPEG and TIFF images: pixel hash, the DateTime tag
// and GPS coordinates.
type ExifExtractor struct{}

// Name implements Extractor.
func (ExifExtractor) Name() string { return string(mediatypes.KindExifImage) }

// Extract implements Extractor.
func (ExifExtractor) Extract(_ context.Context, rec *mediatypes.MediaRecord) error {
	hash, err := HashImageFile(rec.Filepath)
	if err != nil {
		return err
	}

	x, err := decodeExif(rec.Filepath)
	if err != nil {
		return err
	}

	rec.ContentHash = hash
	rec.CaptureTimestamp = exifString(x, exif.DateTime)
	rec.Latitude = exifCoordinate(x, exif.GPSLatitude)
	rec.Longitude = exifCoordinate(x, exif.GPSLongitude)
	return nil
}

func decodeExif(path string) (*exif.Exif, error) {
	file, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("failed to close image file %s: %v", path, err)
		}
	}()

	x, err := exif.Decode(file)
	if x == nil {
		if err == nil {
			err = ErrNoExif
		}
		return nil, fmt.Errorf("%w: %w", ErrNoExif, err)
	}
	if err != nil {
		if exif.IsCriticalError(err) {
			return nil, fmt.Errorf("failed to decode EXIF: %w", err)
		}
		logging.Debug("Partial EXIF for %s: %v", path, err)
	}
	return x, nil
}

// exifString returns a string tag's value, or "" when it is absent.
func exifString(x *exif.Exif, field exif.FieldName) string {
	tag, err := x.Get(field)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimRight(strings.TrimSpace(s), "\x00")
}

// exifCoordinate converts a degrees/minutes/seconds rational triplet to a
// decimal string. Absent or malformed tags yield CoordinateDefault.
func exifCoordinate(x *exif.Exif, field exif.FieldName) string {
	tag, err := x.Get(field)
	if err != nil {
		return mediatypes.CoordinateDefault
	}

	dms, err := rationalTriplet(tag)
	if err != nil {
		logging.Debug("Malformed %s tag: %v", field, err)
		return mediatypes.CoordinateDefault
	}

	return FormatCoordinate(DMSToDecimal(dms[0], dms[1], dms[2]))
}

func rationalTriplet(tag *tiff.Tag) ([3]float64, error) {
	var out [3]float64
	if tag.Count < 3 {
		return out, fmt.Errorf("expected 3 values, got %d", tag.Count)
	}
	for i := 0; i < 3; i++ {
		num, den, err := tag.Rat2(i)
		if err != nil {
			return out, err
		}
		if den == 0 {
			return out, fmt.Errorf("zero denominator at index %d", i)
		}
		out[i] = float64(num) / float64(den)
	}
	return out, nil
}

// DMSToDecimal converts degrees, minutes and seconds to decimal degrees,
// rounded to 6 decimal places.
func DMSToDecimal(degrees, minutes, seconds float64) float64 {
	v := degrees + minutes/60 + seconds/3600
	return math.Round(v*1e6) / 1e6
}

// FormatCoordinate renders a decimal coordinate without trailing zeros.
func FormatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
