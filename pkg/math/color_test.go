package math

import "testing"

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#0000ff", Color{0, 0, 255, 255}, false},
		{"50c878", Color{0x50, 0xc8, 0x78, 255}, false},
		{"#11223344", Color{0x11, 0x22, 0x33, 0x44}, false},
		{"#123", Color{}, true},
		{"#zzzzzz", Color{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHexColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLerpHSVEndpoints(t *testing.T) {
	a := Color{255, 0, 0, 255}
	b := Color{0, 0, 255, 255}
	if got := LerpHSV(a, b, 0); got != a {
		t.Errorf("LerpHSV(t=0) = %v, want %v", got, a)
	}
	if got := LerpHSV(a, b, 1); got != b {
		t.Errorf("LerpHSV(t=1) = %v, want %v", got, b)
	}
}

func TestLerpHSVShortestHue(t *testing.T) {
	// Red (0) to blue (240) goes through magenta (300), not green.
	got := LerpHSV(Color{255, 0, 0, 255}, Color{0, 0, 255, 255}, 0.5)
	if got.G != 0 {
		t.Errorf("LerpHSV midpoint = %v, want no green component", got)
	}
	if got.R != 255 || got.B != 255 {
		t.Errorf("LerpHSV midpoint = %v, want magenta", got)
	}
}

func TestLerpHSVGreyscale(t *testing.T) {
	got := LerpHSV(White, Black, 0.5)
	if got.R != got.G || got.G != got.B {
		t.Errorf("LerpHSV(white, black) = %v, want grey", got)
	}
	if got.R < 126 || got.R > 129 {
		t.Errorf("LerpHSV(white, black).R = %v, want ~128", got.R)
	}
}

func TestColorRoundTrip(t *testing.T) {
	for _, c := range []Color{White, Black, Red, {0x50, 0xc8, 0x78, 255}, {12, 200, 99, 30}} {
		if got := c.toHSV().toColor(); got != c {
			t.Errorf("HSV round trip of %v = %v", c, got)
		}
	}
}
