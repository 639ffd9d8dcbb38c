package landscape

import (
	"github.com/google/uuid"

	lmath "github.com/Faultbox/runtime-landscape/pkg/math"
)

// HoleID identifies a hole volume registered with a Surface.
type HoleID = uuid.UUID

// HoleVolume cuts the surface wherever a vertex lies inside its shape.
// Membership is binary; there is no smoothing.
type HoleVolume struct {
	ID    HoleID
	Name  string
	Shape Shape
}

// IsLocationInside reports whether p is inside or on the volume.
func (h *HoleVolume) IsLocationInside(p lmath.Vec3) bool {
	return h.Shape.Contains(p)
}

// Bounds returns the plane footprint of the volume.
func (h *HoleVolume) Bounds() lmath.Box2 {
	return h.Shape.Bounds(0)
}

// markInside sets mask[i] for every vertex inside the volume.
func (h *HoleVolume) markInside(vertices []lmath.Vec3, mask []bool) {
	for i, v := range vertices {
		if h.IsLocationInside(v) {
			mask[i] = true
		}
	}
}
