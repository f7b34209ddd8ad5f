package sharp

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/lightbox/schema"

	// Formats the scorer can decode into pixels.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Scorer computes sharpness scores for image files. It is stateless and
// safe for concurrent use across files.
type Scorer struct {
	exts schema.ExtensionSet
	grid int
}

// NewScorer builds a scorer over the decodable extension set with an NxN
// block grid.
func NewScorer(exts schema.ExtensionSet, grid int) *Scorer {
	return &Scorer{exts: exts, grid: grid}
}

// Preload reads just the image header and returns its dimensions. The
// extension gate runs before any file I/O.
func (s *Scorer) Preload(path string) (int, int, error) {
	if !s.exts.Contains(path) {
		return 0, 0, &schema.UnreadableFileError{
			Path:   path,
			Reason: fmt.Errorf("unsupported extension %q", strings.ToLower(filepath.Ext(path))),
		}
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, &schema.UnreadableFileError{Path: path, Reason: err}
	}
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, &schema.UnreadableFileError{Path: path, Reason: fmt.Errorf("decode: %w", err)}
	}
	return cfg.Width, cfg.Height, nil
}

// Score decodes the file's pixels and returns its sharpness score. Every
// failure comes back as UnreadableFileError so batch callers can skip the
// file and continue.
func (s *Scorer) Score(path string) (float64, error) {
	if !s.exts.Contains(path) {
		return 0, &schema.UnreadableFileError{
			Path:   path,
			Reason: fmt.Errorf("unsupported extension %q", strings.ToLower(filepath.Ext(path))),
		}
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, &schema.UnreadableFileError{Path: path, Reason: err}
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return 0, &schema.UnreadableFileError{Path: path, Reason: fmt.Errorf("decode: %w", err)}
	}
	return s.ScoreImage(img), nil
}

// ScoreImage scores a decoded image: grayscale, center 50% crop, NxN block
// grid, and the variance of the busiest block wins. Blurry frames with one
// sharp region therefore still score high.
func (s *Scorer) ScoreImage(img image.Image) float64 {
	gray := toGray(img)
	crop := centerCrop(gray.Bounds())
	return s.maxBlockVariance(gray, crop)
}

// centerCrop returns the middle 50% of the bounds in each dimension. A crop
// too small to score falls back to the full bounds.
func centerCrop(b image.Rectangle) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	crop := image.Rect(
		b.Min.X+w/4,
		b.Min.Y+h/4,
		b.Min.X+(3*w)/4,
		b.Min.Y+(3*h)/4,
	)
	if crop.Dx() < 3 || crop.Dy() < 3 {
		return b
	}
	return crop
}

// maxBlockVariance tiles the crop with a grid x grid block layout and
// returns the highest block variance. Remainder pixels past the last whole
// block are dropped, so tiling stays deterministic. Crops too small for
// meaningful blocks are scored as a single block instead.
func (s *Scorer) maxBlockVariance(gray *image.Gray, crop image.Rectangle) float64 {
	blockW := crop.Dx() / s.grid
	blockH := crop.Dy() / s.grid
	if blockW < schema.MinBlockPixels || blockH < schema.MinBlockPixels {
		return laplacianVariance(gray, crop)
	}

	best := 0.0
	for by := range s.grid {
		for bx := range s.grid {
			block := image.Rect(
				crop.Min.X+bx*blockW,
				crop.Min.Y+by*blockH,
				crop.Min.X+(bx+1)*blockW,
				crop.Min.Y+(by+1)*blockH,
			)
			if v := laplacianVariance(gray, block); v > best {
				best = v
			}
		}
	}
	return best
}
