package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/disintegration/gift"
	"golang.org/x/image/tiff"
)

// level maps v from [low, high] to [0, 1], clamped. NaN maps to 0.
func level(v, low, high float64) float64 {
	t := (v - low) / (high - low)
	switch {
	case math.IsNaN(t), t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}

// ToGray maps samples in [low, high] to 8-bit gray; values outside are
// clamped.
func ToGray(g *Grid, low, high float64) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.W, g.H))
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(math.Round(level(g.At(x, y), low, high) * 255))})
		}
	}
	return img
}

// ToGray16 is ToGray with 16 bits per sample, for heightmaps.
func ToGray16(g *Grid, low, high float64) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, g.W, g.H))
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			img.SetGray16(x, y, color.Gray16{Y: uint16(math.Round(level(g.At(x, y), low, high) * 65535))})
		}
	}
	return img
}

// FilterOptions configures Filter. Zero values disable a step.
type FilterOptions struct {
	Blur     float32 // Gaussian sigma in pixels
	Contrast float32 // percentage in [-100, 100]
	Invert   bool
}

func (o FilterOptions) empty() bool {
	return o.Blur <= 0 && o.Contrast == 0 && !o.Invert
}

// Filter post-processes a gray image with gift. The result keeps the bit
// depth of the input.
func Filter(img image.Image, opts FilterOptions) image.Image {
	if opts.empty() {
		return img
	}

	var filters []gift.Filter
	if opts.Blur > 0 {
		filters = append(filters, gift.GaussianBlur(opts.Blur))
	}
	if opts.Contrast != 0 {
		filters = append(filters, gift.Contrast(opts.Contrast))
	}
	if opts.Invert {
		filters = append(filters, gift.Invert())
	}
	g := gift.New(filters...)

	bounds := g.Bounds(img.Bounds())
	var dst draw.Image
	switch img.(type) {
	case *image.Gray16:
		dst = image.NewGray16(bounds)
	case *image.Gray:
		dst = image.NewGray(bounds)
	default:
		dst = image.NewNRGBA(bounds)
	}
	g.Draw(dst, img)
	return dst
}

// EncodePNG writes img as PNG with the given compression level.
func EncodePNG(w io.Writer, img image.Image, level png.CompressionLevel) error {
	enc := png.Encoder{CompressionLevel: level}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// EncodeTIFF writes img as a deflate-compressed TIFF, which keeps 16-bit
// gray samples intact.
func EncodeTIFF(w io.Writer, img image.Image) error {
	if err := tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true}); err != nil {
		return fmt.Errorf("failed to encode tiff: %w", err)
	}
	return nil
}

// ParseCompression maps a name to a PNG compression level.
func ParseCompression(s string) (png.CompressionLevel, error) {
	switch s {
	case "", "default":
		return png.DefaultCompression, nil
	case "speed":
		return png.BestSpeed, nil
	case "best":
		return png.BestCompression, nil
	case "none":
		return png.NoCompression, nil
	}
	return 0, fmt.Errorf("unknown png compression %q (default, speed, best, none)", s)
}
