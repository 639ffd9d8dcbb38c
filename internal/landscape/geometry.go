package landscape

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	lmath "github.com/Faultbox/runtime-landscape/pkg/math"
)

// Geometry is the published mesh of one patch. A published Geometry is never
// mutated; rebuilds replace it as a whole.
type Geometry struct {
	Patch     int
	Vertices  []lmath.Vec3
	Triangles []uint32
	Normals   []lmath.Vec3
	Tangents  []lmath.Vec3
	UV0       []lmath.Vec2
	UV1       []lmath.Vec2
	Colors    []lmath.Color
	Instances []InstanceBatch

	Bounds    lmath.Box2
	MinHeight float32
	MaxHeight float32
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Vertices)
}

// TriangleCount returns the number of triangles.
func (g *Geometry) TriangleCount() int {
	return len(g.Triangles) / 3
}

// InstanceCount returns the number of vegetation instances.
func (g *Geometry) InstanceCount() int {
	n := 0
	for _, b := range g.Instances {
		n += len(b.Transforms)
	}
	return n
}

// SizeBytes estimates the memory held by the buffers.
func (g *Geometry) SizeBytes() uint64 {
	n := uint64(len(g.Vertices)+len(g.Normals)+len(g.Tangents)) * 12
	n += uint64(len(g.UV0)+len(g.UV1)) * 8
	n += uint64(len(g.Colors)) * 4
	n += uint64(len(g.Triangles)) * 4
	n += uint64(g.InstanceCount()) * 64
	return n
}

// generateSequential builds a patch mesh on the calling goroutine. It is the
// reference the row pipeline has to reproduce.
func generateSequential(c *rowCache) *Geometry {
	rx, ry := c.res[0], c.res[1]
	count := (rx + 1) * (ry + 1)
	g := &Geometry{
		Patch:    c.patch,
		Vertices: make([]lmath.Vec3, 0, count),
		UV0:      make([]lmath.Vec2, 0, count),
		UV1:      make([]lmath.Vec2, 0, count),
	}

	for y := 0; y <= ry; y++ {
		for x := 0; x <= rx; x++ {
			g.Vertices = append(g.Vertices, c.position(x, y))
			uv0 := c.uv0(x, y)
			g.UV0 = append(g.UV0, uv0)
			g.UV1 = append(g.UV1, c.uv1(uv0))
		}
	}

	g.Triangles = make([]uint32, 0, rx*ry*6)
	for y := 0; y < ry; y++ {
		for x := 0; x < rx; x++ {
			g.Triangles = c.appendQuad(g.Triangles, x, y)
		}
	}

	if c.veg != nil {
		slots := make([][]mgl32.Mat4, c.veg.slotCount())
		for y := 1; y <= ry; y++ {
			rng := c.rowRand(y)
			for x := 1; x <= rx; x++ {
				c.veg.place(c, rng, x, y, slots)
			}
		}
		g.Instances = c.veg.batches(slots)
	}

	finalize(g, c)
	return g
}

// assemble concatenates finished rows in row order.
func assemble(c *rowCache, rows []rowOutput) *Geometry {
	rx, ry := c.res[0], c.res[1]
	count := (rx + 1) * (ry + 1)
	g := &Geometry{
		Patch:     c.patch,
		Vertices:  make([]lmath.Vec3, 0, count),
		UV0:       make([]lmath.Vec2, 0, count),
		UV1:       make([]lmath.Vec2, 0, count),
		Triangles: make([]uint32, 0, rx*ry*6),
	}
	var slots [][]mgl32.Mat4
	if c.veg != nil {
		slots = make([][]mgl32.Mat4, c.veg.slotCount())
	}
	for i := range rows {
		r := &rows[i]
		g.Vertices = append(g.Vertices, r.vertices...)
		g.UV0 = append(g.UV0, r.uv0...)
		g.UV1 = append(g.UV1, r.uv1...)
		g.Triangles = append(g.Triangles, r.triangles...)
		for s, m := range r.instances {
			slots[s] = append(slots[s], m...)
		}
	}
	if c.veg != nil {
		g.Instances = c.veg.batches(slots)
	}
	finalize(g, c)
	return g
}

// finalize adds the whole-mesh attributes: normals, tangents, colors and
// bounds.
func finalize(g *Geometry, c *rowCache) {
	g.Normals, g.Tangents = computeTangents(g.Vertices, g.Triangles, g.UV0)

	g.Colors = make([]lmath.Color, len(g.Vertices))
	if c.debugColor != nil {
		for i := range g.Colors {
			g.Colors[i] = *c.debugColor
		}
	} else {
		copy(g.Colors, c.colors)
	}

	g.Bounds = c.bounds
	g.MinHeight, g.MaxHeight = math.MaxFloat32, -math.MaxFloat32
	for _, v := range g.Vertices {
		g.MinHeight = min(g.MinHeight, v.Z)
		g.MaxHeight = max(g.MaxHeight, v.Z)
	}
	if len(g.Vertices) == 0 {
		g.MinHeight, g.MaxHeight = 0, 0
	}
}
