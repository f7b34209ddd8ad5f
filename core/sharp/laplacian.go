// Package sharp scores image sharpness as the Laplacian variance of the
// most detailed block in the center crop. Pixel decoding and grayscale
// conversion happen lazily at scan time; the pre-load phase only touches
// image headers.
package sharp

import (
	"image"
	"image/draw"
)

// toGray converts any decoded image to 8-bit grayscale. The draw package
// applies the standard luma weights and narrows 16-bit channels, so every
// source color model lands in the same space.
func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(b)
	draw.Draw(gray, b, img, b.Min, draw.Src)
	return gray
}

// laplacianVariance measures edge energy inside one block: the population
// variance of the 4-neighbor Laplacian over the block's interior pixels.
// Blocks too small to hold an interior score 0, as does any flat block.
func laplacianVariance(gray *image.Gray, block image.Rectangle) float64 {
	r := block.Intersect(gray.Bounds())
	if r.Dx() < 3 || r.Dy() < 3 {
		return 0
	}

	var sum, sumSq float64
	n := 0
	for y := r.Min.Y + 1; y < r.Max.Y-1; y++ {
		for x := r.Min.X + 1; x < r.Max.X-1; x++ {
			center := float64(gray.Pix[gray.PixOffset(x, y)])
			up := float64(gray.Pix[gray.PixOffset(x, y-1)])
			down := float64(gray.Pix[gray.PixOffset(x, y+1)])
			left := float64(gray.Pix[gray.PixOffset(x-1, y)])
			right := float64(gray.Pix[gray.PixOffset(x+1, y)])

			lap := up + down + left + right - 4*center
			sum += lap
			sumSq += lap * lap
			n++
		}
	}
	if n == 0 {
		return 0
	}

	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean
	if variance < 0 {
		// Rounding can push a flat block a hair below zero.
		return 0
	}
	return variance
}
