// Package enhance implements the image transform pipeline: estimate the
// source's DPI, rescale to the requested target DPI, apply a combined
// brightness/contrast color transform, and re-encode as JPEG.
package enhance

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"

	// Browser-decodable raster formats accepted on upload.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"

	"github.com/fpang/image-enhancer/internal/stats"
)

// Source is an uploaded image held in memory: the decoded pixels plus
// the original encoded payload. A Source is immutable once built and is
// replaced wholesale when the user uploads a new file.
type Source struct {
	Image  image.Image
	Format string // decoder-reported format name, e.g. "jpeg", "png"
	Data   []byte // original encoded bytes, served to the "before" panel
	Name   string // sanitized display name of the uploaded file
}

// ByteSize returns the original encoded payload size.
func (s *Source) ByteSize() int64 {
	return int64(len(s.Data))
}

// Stats returns the estimated stats of the original image.
func (s *Source) Stats() stats.ImageStats {
	b := s.Image.Bounds()
	st := stats.Estimate(b.Dx(), b.Dy(), s.ByteSize())
	st.Format = formatLabel(s.Format)
	return st
}

// Result is one completed pipeline run: the JPEG payload plus the stats
// record derived from it. The two always travel together so the UI can
// never show stats for a payload it is not displaying.
type Result struct {
	Data  []byte
	Stats stats.ImageStats
}

// Decode parses an uploaded payload into a Source. The format is
// auto-detected from the payload's magic bytes; any registered raster
// format is accepted.
func Decode(data []byte) (*Source, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image payload")
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() < 1 || b.Dy() < 1 {
		return nil, fmt.Errorf("decoded image has empty bounds")
	}

	log.Debug().
		Str("format", format).
		Int("width", b.Dx()).
		Int("height", b.Dy()).
		Int("size_bytes", len(data)).
		Msg("Source image decoded")

	return &Source{Image: img, Format: format, Data: data}, nil
}

// Run executes the full transform pipeline for one source image and one
// parameter set. The run is a single synchronous pass with no side
// effects beyond the returned payload; a failed run returns an error
// and the caller keeps its previous output.
func Run(src *Source, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	b := src.Image.Bounds()
	srcW, srcH := b.Dx(), b.Dy()

	est := stats.Estimate(srcW, srcH, src.ByteSize())
	scale := float64(p.TargetDPI) / float64(est.DPI)
	newW, newH := scaleDimensions(srcW, srcH, scale)

	// Brightness and contrast are folded into one per-pixel transform,
	// applied before resampling so the filter sees original detail.
	adjusted := imaging.AdjustFunc(src.Image, colorTransform(p.Brightness, p.Contrast))
	resized := imaging.Resize(adjusted, newW, newH, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: p.Quality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	st := stats.ImageStats{
		Width:    newW,
		Height:   newH,
		DPI:      p.TargetDPI,
		FileSize: int64(buf.Len()),
		Format:   "JPEG",
	}

	log.Debug().
		Int("src_width", srcW).
		Int("src_height", srcH).
		Int("original_dpi", est.DPI).
		Int("target_dpi", p.TargetDPI).
		Int("new_width", newW).
		Int("new_height", newH).
		Int("output_bytes", buf.Len()).
		Msg("Enhancement run complete")

	return &Result{Data: buf.Bytes(), Stats: st}, nil
}

// scaleDimensions applies a uniform scale factor to both dimensions,
// rounding to the nearest integer with a floor of one pixel.
func scaleDimensions(width, height int, scale float64) (int, int) {
	newW := int(math.Round(float64(width) * scale))
	newH := int(math.Round(float64(height) * scale))
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	return newW, newH
}

// colorTransform builds the combined brightness/contrast channel
// function. Brightness multiplies each channel; contrast stretches it
// around the mid-point. Alpha is left untouched.
func colorTransform(brightness, contrast int) func(c color.NRGBA) color.NRGBA {
	bm := float64(brightness) / 100
	cm := float64(contrast) / 100
	adjust := func(v uint8) uint8 {
		f := (float64(v)*bm-128)*cm + 128
		return uint8(math.Min(255, math.Max(0, math.Round(f))))
	}
	return func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: adjust(c.R), G: adjust(c.G), B: adjust(c.B), A: c.A}
	}
}

// formatLabel maps a decoder format name to the label shown in the
// stats panel.
func formatLabel(format string) string {
	switch format {
	case "jpeg":
		return "JPEG"
	case "png":
		return "PNG"
	case "gif":
		return "GIF"
	case "webp":
		return "WebP"
	case "bmp":
		return "BMP"
	case "tiff":
		return "TIFF"
	default:
		return format
	}
}
