package landscape

import (
	"fmt"

	lmath "github.com/Faultbox/runtime-landscape/pkg/math"
)

// EffectKind tags the payload carried by an Effect.
type EffectKind uint8

const (
	EffectHeight EffectKind = iota + 1
	EffectVertexColor
	EffectHole
	EffectGroundTypePaint
)

func (k EffectKind) String() string {
	switch k {
	case EffectHeight:
		return "height"
	case EffectVertexColor:
		return "vertex_color"
	case EffectHole:
		return "hole"
	case EffectGroundTypePaint:
		return "ground_type_paint"
	default:
		return fmt.Sprintf("EffectKind(%d)", k)
	}
}

// Effect is one contribution of a layer. Only the fields belonging to Kind
// are meaningful.
type Effect struct {
	Kind EffectKind

	Height float32     // EffectHeight
	Color  lmath.Color // EffectVertexColor

	// HoleThreshold cuts the surface where the smoothing factor is at or
	// below it. Zero keeps only the unsmoothed interior.
	HoleThreshold float32

	GroundType string  // EffectGroundTypePaint
	Weight     float32 // EffectGroundTypePaint, in [0,1]
}

// HeightEffect sets vertex heights to value.
func HeightEffect(value float32) Effect {
	return Effect{Kind: EffectHeight, Height: value}
}

// ColorEffect tints vertices.
func ColorEffect(c lmath.Color) Effect {
	return Effect{Kind: EffectVertexColor, Color: c}
}

// HoleEffect removes geometry where the smoothing factor is <= threshold.
func HoleEffect(threshold float32) Effect {
	return Effect{Kind: EffectHole, HoleThreshold: threshold}
}

// PaintEffect stamps a ground type weight into the paint targets.
func PaintEffect(groundType string, weight float32) Effect {
	return Effect{Kind: EffectGroundTypePaint, GroundType: groundType, Weight: weight}
}

// applyLayers composites layers, in order, over heights and colors and
// returns the vertices cut by hole effects. points holds the plane position
// of every vertex. The returned mask is nil when no vertex is cut.
func applyLayers(layers []*Layer, points []lmath.Vec2, heights []float32, colors []lmath.Color) []bool {
	var holes []bool
	for _, layer := range layers {
		for i, p := range points {
			factor := layer.Factor(p)
			if factor >= 1 {
				continue
			}
			for _, e := range layer.Effects {
				switch e.Kind {
				case EffectHeight:
					heights[i] = lmath.Lerp(e.Height, heights[i], factor)
				case EffectVertexColor:
					colors[i] = lmath.LerpHSV(e.Color, colors[i], factor)
				case EffectHole:
					if factor <= e.HoleThreshold {
						if holes == nil {
							holes = make([]bool, len(points))
						}
						holes[i] = true
					}
				default:
					// Ground type paint is rasterized separately; unknown
					// kinds contribute nothing.
				}
			}
		}
	}
	return holes
}
