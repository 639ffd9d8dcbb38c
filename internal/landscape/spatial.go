package landscape

import (
	"fmt"
	"math"

	lmath "github.com/Faultbox/runtime-landscape/pkg/math"
)

// Bounds returns the plane rectangle covered by the surface.
func (s *Surface) Bounds() lmath.Box2 {
	return lmath.Box2{Max: lmath.Vec2{
		X: s.patchSize.X * float32(s.cfg.PatchGrid[0]),
		Y: s.patchSize.Y * float32(s.cfg.PatchGrid[1]),
	}}
}

// PatchesInArea returns the indices of every patch overlapping rect, in
// row-major order. A rectangle edge lying exactly on a patch border also
// selects the patch on the far side.
func (s *Surface) PatchesInArea(rect lmath.Box2) []int {
	if !rect.Intersects(s.Bounds()) {
		return nil
	}
	nx, ny := s.cfg.PatchGrid[0], s.cfg.PatchGrid[1]
	c0 := clampIndex(rect.Min.X/s.patchSize.X, nx)
	c1 := clampIndex(rect.Max.X/s.patchSize.X, nx)
	r0 := clampIndex(rect.Min.Y/s.patchSize.Y, ny)
	r1 := clampIndex(rect.Max.Y/s.patchSize.Y, ny)

	out := make([]int, 0, (c1-c0+1)*(r1-r0+1))
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			out = append(out, row*nx+col)
		}
	}
	return out
}

func clampIndex(v float32, n int) int {
	i := int(math.Floor(float64(v)))
	return min(max(i, 0), n-1)
}

// PatchCoordinates maps a patch index to its grid column and row.
func (s *Surface) PatchCoordinates(index int) (col, row int) {
	nx := s.cfg.PatchGrid[0]
	return index % nx, index / nx
}

// PatchIndex maps grid coordinates back to a patch index.
func (s *Surface) PatchIndex(col, row int) (int, error) {
	nx, ny := s.cfg.PatchGrid[0], s.cfg.PatchGrid[1]
	if col < 0 || row < 0 || col >= nx || row >= ny {
		return 0, fmt.Errorf("%w: (%d, %d)", ErrInvalidPatch, col, row)
	}
	return row*nx + col, nil
}

// PatchBounds returns the plane rectangle of a patch. It is derived from the
// grid only, so it is valid at any time.
func (s *Surface) PatchBounds(index int) lmath.Box2 {
	col, row := s.PatchCoordinates(index)
	minP := lmath.Vec2{X: float32(col) * s.patchSize.X, Y: float32(row) * s.patchSize.Y}
	return lmath.Box2{Min: minP, Max: minP.Add(s.patchSize)}
}

// VertexLocation returns the plane position of a patch-local vertex.
func (s *Surface) VertexLocation(patch, vertex int) lmath.Vec2 {
	col, row := s.PatchCoordinates(patch)
	rx := s.patchRes[0]
	x, y := vertex%(rx+1), vertex/(rx+1)
	return lmath.Vec2{
		X: float32(col*rx+x) * s.spacing.X,
		Y: float32(row*s.patchRes[1]+y) * s.spacing.Y,
	}
}

// patchPoints returns the plane position of every vertex of a patch.
func (s *Surface) patchPoints(patch int) []lmath.Vec2 {
	pts := make([]lmath.Vec2, s.VerticesPerPatch())
	for i := range pts {
		pts[i] = s.VertexLocation(patch, i)
	}
	return pts
}

// HeightAt returns the bilinearly interpolated height of the published
// geometry at a plane position. ok is false outside the surface or before
// the covering patch was first built.
func (s *Surface) HeightAt(x, y float32) (h float32, ok bool) {
	p := lmath.Vec2{X: x, Y: y}
	if !s.Bounds().Contains(p) || len(s.patches) == 0 {
		return 0, false
	}
	col := clampIndex(x/s.patchSize.X, s.cfg.PatchGrid[0])
	row := clampIndex(y/s.patchSize.Y, s.cfg.PatchGrid[1])
	index := row*s.cfg.PatchGrid[0] + col
	g := s.patches[index].Geometry()
	if g == nil {
		return 0, false
	}

	rx, ry := s.patchRes[0], s.patchRes[1]
	origin := s.PatchBounds(index).Min
	fx := (x - origin.X) / s.spacing.X
	fy := (y - origin.Y) / s.spacing.Y
	qx := min(max(int(fx), 0), rx-1)
	qy := min(max(int(fy), 0), ry-1)
	tx := lmath.Clamp(fx-float32(qx), 0, 1)
	ty := lmath.Clamp(fy-float32(qy), 0, 1)

	i00 := qy*(rx+1) + qx
	i10 := i00 + 1
	i01 := i00 + rx + 1
	i11 := i01 + 1
	near := lmath.Lerp(g.Vertices[i00].Z, g.Vertices[i10].Z, tx)
	far := lmath.Lerp(g.Vertices[i01].Z, g.Vertices[i11].Z, tx)
	return lmath.Lerp(near, far, ty), true
}
