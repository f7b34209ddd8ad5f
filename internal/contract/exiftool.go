package contract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ExifToolDecoder implements the MetadataDecoder interface by executing the
// local 'exiftool' binary installed on the machine.
type ExifToolDecoder struct {
	binPath string
}

var _ MetadataDecoder = &ExifToolDecoder{} // Compile-time check

// NewExifToolDecoder creates a decoder that runs the given binary.
// An empty path falls back to "exiftool" on PATH.
func NewExifToolDecoder(binPath string) *ExifToolDecoder {
	if binPath == "" {
		binPath = "exiftool"
	}
	return &ExifToolDecoder{binPath: binPath}
}

// Available reports whether the decoder binary can be resolved.
func (d *ExifToolDecoder) Available() bool {
	_, err := exec.LookPath(d.binPath)
	return err == nil
}

// Decode runs the decoder against one file and returns its raw tag map.
// The -G flag keeps group prefixes (e.g. "Composite:Aperture") so the reader
// can prefer computed tags over raw EXIF ones.
func (d *ExifToolDecoder) Decode(ctx context.Context, path string) (map[string]any, error) {
	cmd := exec.CommandContext(ctx, d.binPath, "-json", "-G", path)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("decoder failed on %q: %s", path, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("decoder failed: %w. Ensure exiftool is installed and available on your PATH", err)
	}

	// exiftool always emits a JSON array, one object per input file.
	var payload []map[string]any
	if err := json.Unmarshal(out, &payload); err != nil {
		return nil, fmt.Errorf("decoder output for %q is not valid JSON: %w", path, err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("decoder produced no output for %q", path)
	}
	return payload[0], nil
}
