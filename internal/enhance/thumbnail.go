package enhance

import (
	"image"

	"golang.org/x/image/draw"
)

// DefaultPreviewMaxDimension bounds the previews served to the
// before/after panels so the browser never pulls a full print-size
// render just to show a comparison.
const DefaultPreviewMaxDimension = 1024

// Thumbnail returns img downscaled so neither dimension exceeds maxDim,
// preserving aspect ratio, using Catmull-Rom resampling. Images already
// within bounds are returned unchanged; thumbnails never upscale.
func Thumbnail(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := thumbnailDimensions(w, h, maxDim)
	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// thumbnailDimensions fits width×height inside maxDim×maxDim while
// preserving aspect ratio, with a floor of one pixel per side.
func thumbnailDimensions(width, height, maxDim int) (int, int) {
	if width <= maxDim && height <= maxDim {
		return width, height
	}

	var newW, newH int
	if width > height {
		newW = maxDim
		newH = int(float64(height) * float64(maxDim) / float64(width))
	} else {
		newH = maxDim
		newW = int(float64(width) * float64(maxDim) / float64(height))
	}

	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	return newW, newH
}
