package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Prober reads container-level metadata tags from a media file.
type Prober interface {
	Tags(ctx context.Context, path string) (map[string]string, error)
}

// FFProbe is a Prober backed by the ffprobe executable.
type FFProbe struct {
	// Binary is the ffprobe executable; "ffprobe" when empty.
	Binary string
}

type probeOutput struct {
	Format struct {
		Filename   string            `json:"filename"`
		FormatName string            `json:"format_name"`
		Tags       map[string]string `json:"tags"`
	} `json:"format"`
}

// Tags runs ffprobe against path and returns the container format tags with
// lowercased keys.
func (p *FFProbe) Tags(ctx context.Context, path string) (map[string]string, error) {
	binary := strings.TrimSpace(p.Binary)
	if binary == "" {
		binary = "ffprobe"
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("ffprobe: empty path")
	}

	cmd := exec.CommandContext(ctx, binary,
		"-v", "error",
		"-hide_banner",
		"-print_format", "json",
		"-show_format",
		"--", path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe error: %w - %s", err, strings.TrimSpace(stderr.String()))
	}

	return parseProbeTags(stdout.Bytes())
}

func parseProbeTags(data []byte) (map[string]string, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("ffprobe parse: %w", err)
	}

	tags := make(map[string]string, len(out.Format.Tags))
	for k, v := range out.Format.Tags {
		tags[strings.ToLower(k)] = v
	}
	return tags, nil
}
