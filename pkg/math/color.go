package math

import (
	"fmt"
	"math"
	"strings"
)

// Color is an 8-bit RGBA vertex color.
type Color struct {
	R, G, B, A uint8
}

// Common colors.
var (
	White = Color{255, 255, 255, 255}
	Black = Color{0, 0, 0, 255}
	Red   = Color{255, 0, 0, 255}
)

// ParseHexColor parses "#rrggbb" or "#rrggbbaa".
func ParseHexColor(s string) (Color, error) {
	s = strings.TrimPrefix(s, "#")
	c := Color{A: 255}
	var err error
	switch len(s) {
	case 6:
		_, err = fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B)
	case 8:
		_, err = fmt.Sscanf(s, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
	default:
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}

// Hex formats the color as "#rrggbbaa".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// hsv holds hue in degrees [0,360) and saturation, value, alpha in [0,1].
type hsv struct {
	H, S, V, A float32
}

func (c Color) toHSV() hsv {
	r := float32(c.R) / 255
	g := float32(c.G) / 255
	b := float32(c.B) / 255

	hi := max(r, g, b)
	lo := min(r, g, b)
	delta := hi - lo

	var h float32
	switch {
	case delta == 0:
		h = 0
	case hi == r:
		h = 60 * float32(math.Mod(float64((g-b)/delta), 6))
	case hi == g:
		h = 60 * ((b-r)/delta + 2)
	default:
		h = 60 * ((r-g)/delta + 4)
	}
	if h < 0 {
		h += 360
	}

	var s float32
	if hi > 0 {
		s = delta / hi
	}
	return hsv{H: h, S: s, V: hi, A: float32(c.A) / 255}
}

func (h hsv) toColor() Color {
	c := h.V * h.S
	hp := h.H / 60
	x := c * (1 - Abs(float32(math.Mod(float64(hp), 2))-1))

	var r, g, b float32
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	m := h.V - c
	return Color{
		R: toByte(r + m),
		G: toByte(g + m),
		B: toByte(b + m),
		A: toByte(h.A),
	}
}

func toByte(v float32) uint8 {
	return uint8(Clamp(v, 0, 1)*255 + 0.5)
}

// LerpHSV blends from a (t=0) to b (t=1) in hue-saturation-value space,
// taking the shorter way around the hue circle.
func LerpHSV(a, b Color, t float32) Color {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	from := a.toHSV()
	to := b.toHSV()

	if Abs(from.H-to.H) > 180 {
		if to.H > from.H {
			from.H += 360
		} else {
			to.H += 360
		}
	}

	h := Lerp(from.H, to.H, t)
	h = float32(math.Mod(float64(h), 360))
	if h < 0 {
		h += 360
	}
	return hsv{
		H: h,
		S: Lerp(from.S, to.S, t),
		V: Lerp(from.V, to.V, t),
		A: Lerp(from.A, to.A, t),
	}.toColor()
}
