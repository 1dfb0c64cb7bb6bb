package media

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // BMP format support
	_ "golang.org/x/image/tiff" // TIFF format support
	_ "golang.org/x/image/webp" // WebP format support

	"media-catalog/internal/filesystem"
	"media-catalog/internal/logging"
	"media-catalog/internal/mediatypes"
)

// DecodeImage fully decodes the image at path. Orientation tags are not
// applied so the hash reflects the stored pixels.
func DecodeImage(path string) (image.Image, error) {
	file, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("failed to close image file %s: %v", path, err)
		}
	}()

	img, err := imaging.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// PixelHash returns the hex SHA-256 of img's pixels in NRGBA form. Two files
// with identical pixels hash the same regardless of container or encoder.
func PixelHash(img image.Image) string {
	nrgba := imaging.Clone(img)
	sum := sha256.Sum256(nrgba.Pix)
	return hex.EncodeToString(sum[:])
}

// HashImageFile decodes path and returns its pixel hash.
func HashImageFile(path string) (string, error) {
	img, err := DecodeImage(path)
	if err != nil {
		return "", err
	}
	return PixelHash(img), nil
}

// ImageExtractor handles image formats without EXIF. The capture time falls
// back to the file's creation time.
type ImageExtractor struct{}

// Name implements Extractor.
func (ImageExtractor) Name() string { return string(mediatypes.KindImage) }

// Extract implements Extractor.
func (ImageExtractor) Extract(_ context.Context, rec *mediatypes.MediaRecord) error {
	hash, err := HashImageFile(rec.Filepath)
	if err != nil {
		return err
	}

	info, err := filesystem.StatWithRetry(rec.Filepath, filesystem.DefaultRetryConfig())
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	rec.ContentHash = hash
	rec.CaptureTimestamp = creationTime(rec.Filepath, info).Format(mediatypes.TimestampLayout)
	rec.Latitude = mediatypes.CoordinateDefault
	rec.Longitude = mediatypes.CoordinateDefault
	return nil
}
