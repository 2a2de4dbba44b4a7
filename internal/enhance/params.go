package enhance

import "fmt"

// Parameter bounds. These match the slider ranges exposed in the UI.
const (
	MinBrightness = 50
	MaxBrightness = 200
	MinContrast   = 50
	MaxContrast   = 200
	MinQuality    = 10
	MaxQuality    = 100
	MinTargetDPI  = 72
	MaxTargetDPI  = 600
)

// Params are the user-tunable enhancement controls. Brightness and
// contrast are percentages applied as multipliers (100 = unchanged),
// quality is the JPEG encoder quality, and TargetDPI drives the rescale
// relative to the source's estimated DPI.
type Params struct {
	Brightness int `json:"brightness"`
	Contrast   int `json:"contrast"`
	Quality    int `json:"quality"`
	TargetDPI  int `json:"targetDpi"`
}

// DefaultParams returns the initial slider positions used for the first
// run after an upload.
func DefaultParams() Params {
	return Params{
		Brightness: 100,
		Contrast:   100,
		Quality:    85,
		TargetDPI:  300,
	}
}

// Validate checks every field against its allowed range.
func (p Params) Validate() error {
	if p.Brightness < MinBrightness || p.Brightness > MaxBrightness {
		return fmt.Errorf("brightness must be between %d and %d, got %d", MinBrightness, MaxBrightness, p.Brightness)
	}
	if p.Contrast < MinContrast || p.Contrast > MaxContrast {
		return fmt.Errorf("contrast must be between %d and %d, got %d", MinContrast, MaxContrast, p.Contrast)
	}
	if p.Quality < MinQuality || p.Quality > MaxQuality {
		return fmt.Errorf("quality must be between %d and %d, got %d", MinQuality, MaxQuality, p.Quality)
	}
	if p.TargetDPI < MinTargetDPI || p.TargetDPI > MaxTargetDPI {
		return fmt.Errorf("targetDpi must be between %d and %d, got %d", MinTargetDPI, MaxTargetDPI, p.TargetDPI)
	}
	return nil
}
