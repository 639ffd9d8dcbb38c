package landscape

import (
	"fmt"
	"math"

	lmath "github.com/Faultbox/runtime-landscape/pkg/math"
)

// SmoothingDirection selects where the fade band sits relative to a layer's
// region boundary.
type SmoothingDirection uint8

const (
	// SmoothInward fades from an inset region out to the true boundary.
	SmoothInward SmoothingDirection = iota
	// SmoothOutward keeps the whole region at full strength and fades
	// outside it.
	SmoothOutward
	// SmoothCentered splits the fade band evenly across the boundary.
	SmoothCentered
)

func (d SmoothingDirection) String() string {
	switch d {
	case SmoothInward:
		return "inward"
	case SmoothOutward:
		return "outward"
	case SmoothCentered:
		return "centered"
	default:
		return fmt.Sprintf("SmoothingDirection(%d)", d)
	}
}

// ParseSmoothingDirection maps a config name to a direction.
func ParseSmoothingDirection(s string) (SmoothingDirection, error) {
	switch s {
	case "inward", "inwards", "":
		return SmoothInward, nil
	case "outward", "outwards":
		return SmoothOutward, nil
	case "centered", "center":
		return SmoothCentered, nil
	}
	return 0, fmt.Errorf("unknown smoothing direction %q", s)
}

// Smoothing describes the fade band of a layer. A zero Distance is a hard
// edge.
type Smoothing struct {
	Distance  float32
	Direction SmoothingDirection
}

// inset is how far the full-strength region shrinks inside the shape.
func (s Smoothing) inset() float32 {
	switch s.Direction {
	case SmoothInward:
		return s.Distance
	case SmoothCentered:
		return s.Distance / 2
	default:
		return 0
	}
}

// outset is how far the fade band reaches past the shape.
func (s Smoothing) outset() float32 {
	return s.Distance - s.inset()
}

// Falloff converts a squared distance from the full-strength region into a
// blend factor: 0 means full effect and 1 means no effect.
//
// smoothDistSq must be positive whenever distSq is.
func Falloff(distSq, smoothDistSq float32) float32 {
	if distSq <= 0 {
		return 0
	}
	if smoothDistSq <= 0 {
		panic(fmt.Sprintf("landscape: Falloff(%v, %v) needs a positive smoothing distance", distSq, smoothDistSq))
	}
	return lmath.Clamp(distSq/smoothDistSq, 0, 1)
}

// smoothingFactor evaluates a shape's fade at point p on the landscape plane.
func smoothingFactor(shape Shape, sm Smoothing, p lmath.Vec2) float32 {
	if sm.Distance <= 0 {
		if shape.contains2D(p) {
			return 0
		}
		return 1
	}
	// The band cannot start deeper than the shape allows, so it always ends
	// exactly outset() past the boundary.
	inset := min(sm.inset(), shape.maxInset())
	band := inset + sm.outset()
	if band <= 0 {
		if shape.contains2D(p) {
			return 0
		}
		return 1
	}
	distSq := shape.distanceSqToInset(p, inset)
	return Falloff(distSq, band*band)
}

func degToRad(deg float32) float32 {
	return deg * math.Pi / 180
}
