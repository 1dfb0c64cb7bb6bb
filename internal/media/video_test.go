package media

import (
	"context"
	"errors"
	"testing"
	"time"

	"media-catalog/internal/mediatypes"
)

type fakeProber struct {
	tags map[string]string
	err  error
	ctx  context.Context
}

func (f *fakeProber) Tags(ctx context.Context, _ string) (map[string]string, error) {
	f.ctx = ctx
	return f.tags, f.err
}

func TestSplitLocation(t *testing.T) {
	tests := []struct {
		name     string
		location string
		wantLat  string
		wantLon  string
	}{
		{name: "Mountain View", location: "37.422-122.084", wantLat: "37.422", wantLon: "122.084"},
		{name: "Splits on first hyphen only", location: "1.5-2.5-3", wantLat: "1.5", wantLon: "2.5-3"},
		{name: "Empty", location: "", wantLat: "0", wantLon: "0"},
		{name: "No hyphen", location: "37.422", wantLat: "0", wantLon: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon := SplitLocation(tt.location)
			if lat != tt.wantLat || lon != tt.wantLon {
				t.Errorf("SplitLocation(%q) = (%q, %q), want (%q, %q)", tt.location, lat, lon, tt.wantLat, tt.wantLon)
			}
		})
	}
}

func TestVideoExtractor(t *testing.T) {
	prober := &fakeProber{tags: map[string]string{
		"location": "37.422-122.084",
		"date":     "2019-07-04",
	}}
	v := &VideoExtractor{Prober: prober}

	rec := NewRecord("/videos/clip.mov")
	if err := v.Extract(context.Background(), &rec); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if rec.Latitude != "37.422" || rec.Longitude != "122.084" {
		t.Errorf("coordinates = (%q, %q), want (37.422, 122.084)", rec.Latitude, rec.Longitude)
	}
	if rec.CaptureTimestamp != "2019-07-04" {
		t.Errorf("CaptureTimestamp = %q, want 2019-07-04", rec.CaptureTimestamp)
	}
	if rec.ContentHash != "" {
		t.Errorf("ContentHash = %q, videos are not hashed", rec.ContentHash)
	}
}

func TestVideoExtractorMissingTags(t *testing.T) {
	v := &VideoExtractor{Prober: &fakeProber{tags: map[string]string{}}}

	rec := NewRecord("/videos/clip.mp4")
	if err := v.Extract(context.Background(), &rec); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if rec.Latitude != mediatypes.CoordinateDefault || rec.Longitude != mediatypes.CoordinateDefault {
		t.Errorf("coordinates = (%q, %q), want defaults", rec.Latitude, rec.Longitude)
	}
	if rec.CaptureTimestamp != "" {
		t.Errorf("CaptureTimestamp = %q, want empty", rec.CaptureTimestamp)
	}
}

func TestVideoExtractorProbeError(t *testing.T) {
	probeErr := errors.New("moov atom not found")
	v := &VideoExtractor{Prober: &fakeProber{err: probeErr}}

	rec := NewRecord("/videos/broken.mp4")
	if err := v.Extract(context.Background(), &rec); !errors.Is(err, probeErr) {
		t.Fatalf("Extract() error = %v, want %v", err, probeErr)
	}
}

func TestVideoExtractorTimeout(t *testing.T) {
	prober := &fakeProber{tags: map[string]string{}}
	v := &VideoExtractor{Prober: prober, Timeout: time.Minute}

	rec := NewRecord("/videos/clip.mp4")
	if err := v.Extract(context.Background(), &rec); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if _, ok := prober.ctx.Deadline(); !ok {
		t.Error("probe context should carry a deadline when Timeout is set")
	}
}

func TestParseProbeTags(t *testing.T) {
	data := []byte(`{"format":{"filename":"a.mov","format_name":"mov,mp4","tags":{"LOCATION":"+1-2","date":"2020"}}}`)

	tags, err := parseProbeTags(data)
	if err != nil {
		t.Fatalf("parseProbeTags() error = %v", err)
	}
	if tags["location"] != "+1-2" {
		t.Errorf("location = %q, keys should be lowercased", tags["location"])
	}
	if tags["date"] != "2020" {
		t.Errorf("date = %q", tags["date"])
	}

	if _, err := parseProbeTags([]byte("not json")); err == nil {
		t.Error("parseProbeTags should fail on invalid JSON")
	}
}

func TestFFProbeEmptyPath(t *testing.T) {
	p := &FFProbe{}
	if _, err := p.Tags(context.Background(), "  "); err == nil {
		t.Error("Tags with empty path should fail")
	}
}

func TestFFProbeMissingBinary(t *testing.T) {
	p := &FFProbe{Binary: "/nonexistent/ffprobe-binary"}
	if _, err := p.Tags(context.Background(), "/videos/a.mp4"); err == nil {
		t.Error("Tags with missing binary should fail")
	}
}
