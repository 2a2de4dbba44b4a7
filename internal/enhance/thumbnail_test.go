package enhance

import "testing"

func TestThumbnailDimensions(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
		maxDim int
		wantW  int
		wantH  int
	}{
		{"wide image", 2000, 1000, 512, 512, 256},
		{"tall image", 600, 1200, 300, 150, 300},
		{"square image", 900, 900, 450, 450, 450},
		{"already within bounds", 100, 80, 512, 100, 80},
		{"extreme aspect clamps to one", 5000, 2, 10, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotW, gotH := thumbnailDimensions(tt.width, tt.height, tt.maxDim)
			if gotW != tt.wantW || gotH != tt.wantH {
				t.Errorf("thumbnailDimensions(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.width, tt.height, tt.maxDim, gotW, gotH, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestThumbnailDownscales(t *testing.T) {
	img := testImage(800, 600)
	thumb := Thumbnail(img, 200)
	b := thumb.Bounds()
	if b.Dx() != 200 || b.Dy() != 150 {
		t.Errorf("thumbnail = %dx%d, want 200x150", b.Dx(), b.Dy())
	}
}

func TestThumbnailNeverUpscales(t *testing.T) {
	img := testImage(50, 40)
	thumb := Thumbnail(img, 500)
	if thumb != img {
		b := thumb.Bounds()
		if b.Dx() != 50 || b.Dy() != 40 {
			t.Errorf("thumbnail = %dx%d, want unchanged 50x40", b.Dx(), b.Dy())
		}
	}
}
