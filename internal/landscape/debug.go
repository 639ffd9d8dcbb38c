package landscape

import (
	lmath "github.com/Faultbox/runtime-landscape/pkg/math"
)

// DebugConfig switches patch-level debug coloring. It lives on the surface so
// two surfaces can be debugged independently.
type DebugConfig struct {
	Enabled             bool
	Checkerboard        bool
	IndexGreyscale      bool
	ShowPatchesWithHole bool
	Color1              lmath.Color
	Color2              lmath.Color
}

// DefaultDebugConfig returns the disabled config with the standard palette.
func DefaultDebugConfig() DebugConfig {
	return DebugConfig{
		Color1: lmath.Color{R: 0x00, G: 0x00, B: 0xff, A: 0xff},
		Color2: lmath.Color{R: 0x50, G: 0xc8, B: 0x78, A: 0xff},
	}
}

// patchColor returns the color every vertex of a patch gets, or nil when
// layer colors should be kept. cut marks patches with a hole layer or a hole
// volume.
func (d DebugConfig) patchColor(index, col, row, patchCount int, cut bool) *lmath.Color {
	if !d.Enabled || (!d.Checkerboard && !d.IndexGreyscale) {
		return nil
	}
	var c lmath.Color
	switch {
	case d.Checkerboard:
		if (col%2 == 0) == (row%2 == 0) {
			c = d.Color1
		} else {
			c = d.Color2
		}
		if d.ShowPatchesWithHole && cut {
			c = lmath.Red
		}
	default:
		c = lmath.LerpHSV(lmath.White, lmath.Black, float32(index)/float32(patchCount))
	}
	return &c
}
