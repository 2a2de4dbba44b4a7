// Package stats derives approximate resolution figures for images.
//
// The DPI value reported here is a coarse heuristic classification
// (72/150/300) inferred from byte density — no EXIF or other metadata
// is consulted. It is a proxy for resolution quality shown in the UI,
// not a measured print resolution.
package stats

// DPI classification buckets.
const (
	DPIScreen = 72  // low byte density, typical web image
	DPIMedium = 150 // mid-range
	DPIPrint  = 300 // high byte density, print-quality scan
)

// Byte-per-pixel thresholds separating the buckets.
const (
	printThreshold  = 3.0
	mediumThreshold = 1.5
)

// ImageStats describes one image as displayed in the stats panels.
// A fresh record is produced on every pipeline run; records are never
// mutated, only replaced wholesale.
type ImageStats struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	DPI      int    `json:"dpi"`
	FileSize int64  `json:"fileSize"`
	Format   string `json:"format"`
}

// Estimate classifies an image's approximate DPI from its pixel
// dimensions and encoded byte size. A zero pixel area would make the
// bytes-per-pixel ratio undefined, so it falls back to the lowest
// classification rather than dividing by zero.
func Estimate(width, height int, byteSize int64) ImageStats {
	dpi := DPIScreen
	if area := width * height; area > 0 {
		bpp := float64(byteSize) / float64(area)
		switch {
		case bpp > printThreshold:
			dpi = DPIPrint
		case bpp > mediumThreshold:
			dpi = DPIMedium
		}
	}

	return ImageStats{
		Width:    width,
		Height:   height,
		DPI:      dpi,
		FileSize: byteSize,
		Format:   "JPEG",
	}
}
