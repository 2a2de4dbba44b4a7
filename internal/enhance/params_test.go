package enhance

import "testing"

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	if p.Brightness != 100 || p.Contrast != 100 {
		t.Errorf("default brightness/contrast = %d/%d, want 100/100", p.Brightness, p.Contrast)
	}
	if p.Quality != 85 {
		t.Errorf("default quality = %d, want 85", p.Quality)
	}
	if p.TargetDPI != 300 {
		t.Errorf("default targetDpi = %d, want 300", p.TargetDPI)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("DefaultParams().Validate() = %v, want nil", err)
	}
}

func TestParamsValidate(t *testing.T) {
	valid := DefaultParams()

	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr bool
	}{
		{"defaults", func(p *Params) {}, false},
		{"brightness at min", func(p *Params) { p.Brightness = MinBrightness }, false},
		{"brightness at max", func(p *Params) { p.Brightness = MaxBrightness }, false},
		{"brightness below min", func(p *Params) { p.Brightness = MinBrightness - 1 }, true},
		{"brightness above max", func(p *Params) { p.Brightness = MaxBrightness + 1 }, true},
		{"contrast below min", func(p *Params) { p.Contrast = 0 }, true},
		{"contrast above max", func(p *Params) { p.Contrast = 201 }, true},
		{"quality at min", func(p *Params) { p.Quality = MinQuality }, false},
		{"quality below min", func(p *Params) { p.Quality = 9 }, true},
		{"quality above max", func(p *Params) { p.Quality = 101 }, true},
		{"target dpi at bounds", func(p *Params) { p.TargetDPI = MaxTargetDPI }, false},
		{"target dpi below min", func(p *Params) { p.TargetDPI = 71 }, true},
		{"target dpi above max", func(p *Params) { p.TargetDPI = 601 }, true},
		{"zero value params", func(p *Params) { *p = Params{} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
