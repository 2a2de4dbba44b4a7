package stats

import "testing"

func TestEstimateClassification(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		height   int
		byteSize int64
		wantDPI  int
	}{
		{
			name:  "low density web image",
			width: 2000, height: 1500, byteSize: 900000, // 0.3 bytes/px
			wantDPI: DPIScreen,
		},
		{
			name:  "exactly at medium threshold stays low",
			width: 100, height: 100, byteSize: 15000, // 1.5 bytes/px
			wantDPI: DPIScreen,
		},
		{
			name:  "just above medium threshold",
			width: 100, height: 100, byteSize: 15001,
			wantDPI: DPIMedium,
		},
		{
			name:  "exactly at print threshold stays medium",
			width: 100, height: 100, byteSize: 30000, // 3.0 bytes/px
			wantDPI: DPIMedium,
		},
		{
			name:  "just above print threshold",
			width: 100, height: 100, byteSize: 30001,
			wantDPI: DPIPrint,
		},
		{
			name:  "dense scan",
			width: 400, height: 300, byteSize: 1000000, // ~8.3 bytes/px
			wantDPI: DPIPrint,
		},
		{
			name:  "one by one pixel",
			width: 1, height: 1, byteSize: 2,
			wantDPI: DPIMedium,
		},
		{
			name:  "zero byte size",
			width: 800, height: 600, byteSize: 0,
			wantDPI: DPIScreen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Estimate(tt.width, tt.height, tt.byteSize)
			if got.DPI != tt.wantDPI {
				t.Errorf("Estimate(%d, %d, %d).DPI = %d, want %d",
					tt.width, tt.height, tt.byteSize, got.DPI, tt.wantDPI)
			}
			if got.Width != tt.width || got.Height != tt.height {
				t.Errorf("dimensions = %dx%d, want %dx%d", got.Width, got.Height, tt.width, tt.height)
			}
			if got.FileSize != tt.byteSize {
				t.Errorf("FileSize = %d, want %d", got.FileSize, tt.byteSize)
			}
			if got.Format != "JPEG" {
				t.Errorf("Format = %q, want %q", got.Format, "JPEG")
			}
		})
	}
}

func TestEstimateZeroArea(t *testing.T) {
	// An empty image must not divide by zero and falls back to the
	// lowest classification.
	tests := []struct {
		name   string
		width  int
		height int
	}{
		{"zero width", 0, 600},
		{"zero height", 800, 0},
		{"both zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Estimate(tt.width, tt.height, 123456)
			if got.DPI != DPIScreen {
				t.Errorf("Estimate(%d, %d, 123456).DPI = %d, want %d",
					tt.width, tt.height, got.DPI, DPIScreen)
			}
		})
	}
}
