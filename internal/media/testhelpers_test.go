package media

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// testImage returns an opaque gradient so lossless encoders round-trip exactly.
func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	return img
}

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}
	return buf.Bytes()
}

type rational struct{ num, den uint32 }

// exifTIFF assembles a little-endian TIFF block holding a DateTime tag and,
// when lat/lon are non-nil, a GPS IFD with latitude and longitude triplets.
func exifTIFF(dateTime string, lat, lon []rational) []byte {
	le := binary.LittleEndian
	buf := new(bytes.Buffer)
	put16 := func(v uint16) { _ = binary.Write(buf, le, v) }
	put32 := func(v uint32) { _ = binary.Write(buf, le, v) }

	withGPS := lat != nil && lon != nil
	dt := append([]byte(dateTime), 0)

	ifd0Entries := 1
	if withGPS {
		ifd0Entries = 2
	}
	ifd0Size := 2 + 12*ifd0Entries + 4
	dtOffset := 8 + ifd0Size
	gpsOffset := dtOffset + len(dt)
	gpsSize := 2 + 12*4 + 4
	latOffset := gpsOffset + gpsSize
	lonOffset := latOffset + 24

	buf.WriteString("II")
	put16(42)
	put32(8)

	put16(uint16(ifd0Entries))
	put16(0x0132) // DateTime
	put16(2)
	put32(uint32(len(dt)))
	put32(uint32(dtOffset))
	if withGPS {
		put16(0x8825) // GPSInfo
		put16(4)
		put32(1)
		put32(uint32(gpsOffset))
	}
	put32(0)
	buf.Write(dt)

	if !withGPS {
		return buf.Bytes()
	}

	put16(4)
	put16(0x0001) // GPSLatitudeRef
	put16(2)
	put32(2)
	buf.Write([]byte{'N', 0, 0, 0})
	put16(0x0002) // GPSLatitude
	put16(5)
	put32(3)
	put32(uint32(latOffset))
	put16(0x0003) // GPSLongitudeRef
	put16(2)
	put32(2)
	buf.Write([]byte{'W', 0, 0, 0})
	put16(0x0004) // GPSLongitude
	put16(5)
	put32(3)
	put32(uint32(lonOffset))
	put32(0)

	for _, r := range append(append([]rational{}, lat...), lon...) {
		put32(r.num)
		put32(r.den)
	}
	return buf.Bytes()
}

// withExif splices an APP1 EXIF segment directly after the JPEG SOI marker.
func withExif(jpegData, tiffData []byte) []byte {
	payload := append([]byte("Exif\x00\x00"), tiffData...)
	seg := []byte{0xFF, 0xE1, 0, 0}
	binary.BigEndian.PutUint16(seg[2:], uint16(len(payload)+2))

	out := make([]byte, 0, len(jpegData)+len(seg)+len(payload))
	out = append(out, jpegData[:2]...)
	out = append(out, seg...)
	out = append(out, payload...)
	out = append(out, jpegData[2:]...)
	return out
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
