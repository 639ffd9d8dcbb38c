package landscape

import (
	"math/rand/v2"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"

	lmath "github.com/Faultbox/runtime-landscape/pkg/math"
)

// rowCache is the read-only input shared by every row of one rebuild.
type rowCache struct {
	patch    int
	col, row int
	res      [2]int
	spacing  lmath.Vec2
	uvStep   lmath.Vec2
	uv1Scale lmath.Vec2
	uv1Off   lmath.Vec2
	bounds   lmath.Box2

	heights    []float32
	colors     []lmath.Color
	layerHoles []bool
	holes      []bool

	paint      *paintSnapshot
	veg        *vegetationPlan
	seed       uint64
	debugColor *lmath.Color
}

func (c *rowCache) vertexIndex(x, y int) int {
	return y*(c.res[0]+1) + x
}

// position uses global integer vertex coordinates so a vertex on a shared
// edge comes out bit-identical in both patches.
func (c *rowCache) position(x, y int) lmath.Vec3 {
	gx := c.col*c.res[0] + x
	gy := c.row*c.res[1] + y
	return lmath.Vec3{
		X: float32(gx) * c.spacing.X,
		Y: float32(gy) * c.spacing.Y,
		Z: c.heights[c.vertexIndex(x, y)],
	}
}

func (c *rowCache) uv0(x, y int) lmath.Vec2 {
	return lmath.Vec2{X: float32(x) * c.uvStep.X, Y: float32(y) * c.uvStep.Y}
}

func (c *rowCache) uv1(uv0 lmath.Vec2) lmath.Vec2 {
	return uv0.Mul(c.uv1Scale).Add(c.uv1Off)
}

func (c *rowCache) inHole(i int) bool {
	return c.holes != nil && c.holes[i]
}

// appendQuad appends the two triangles of quad (x, y) unless one of its
// corners is cut.
func (c *rowCache) appendQuad(dst []uint32, x, y int) []uint32 {
	t1 := c.vertexIndex(x, y)
	t2 := t1 + c.res[0] + 1
	t3 := t1 + 1
	t4 := t2 + 1
	if c.inHole(t1) || c.inHole(t2) || c.inHole(t3) || c.inHole(t4) {
		return dst
	}
	return append(dst,
		uint32(t1), uint32(t2), uint32(t3),
		uint32(t3), uint32(t2), uint32(t4),
	)
}

// rowRand seeds the vegetation generator of one row.
func (c *rowCache) rowRand(y int) *rand.Rand {
	return rand.New(rand.NewPCG(c.seed, uint64(c.patch)<<32|uint64(y)))
}

// rowOutput is the private result slot of one row worker.
type rowOutput struct {
	vertices  []lmath.Vec3
	uv0       []lmath.Vec2
	uv1       []lmath.Vec2
	triangles []uint32
	instances [][]mgl32.Mat4
}

// rowJob is the unit of work handed to the pool.
type rowJob struct {
	row int
	rb  *rebuild
}

// buildRow computes vertex row y: positions, UVs, the quads whose upper-left
// corner is in the row and the vegetation of the row. Row 0 and column 0
// carry no vegetation; the neighbouring patch owns it.
func buildRow(c *rowCache, y int, out *rowOutput) {
	rx := c.res[0]
	out.vertices = make([]lmath.Vec3, 0, rx+1)
	out.uv0 = make([]lmath.Vec2, 0, rx+1)
	out.uv1 = make([]lmath.Vec2, 0, rx+1)
	for x := 0; x <= rx; x++ {
		out.vertices = append(out.vertices, c.position(x, y))
		uv0 := c.uv0(x, y)
		out.uv0 = append(out.uv0, uv0)
		out.uv1 = append(out.uv1, c.uv1(uv0))
	}

	if y < c.res[1] {
		out.triangles = make([]uint32, 0, rx*6)
		for x := 0; x < rx; x++ {
			out.triangles = c.appendQuad(out.triangles, x, y)
		}
	}

	if c.veg != nil && y > 0 {
		out.instances = make([][]mgl32.Mat4, c.veg.slotCount())
		rng := c.rowRand(y)
		for x := 1; x <= rx; x++ {
			c.veg.place(c, rng, x, y, out.instances)
		}
	}
}

// rebuild is the state of one in-flight patch rebuild. It is dropped, never
// reused, when the rebuild is abandoned.
type rebuild struct {
	patch     *Patch
	cache     *rowCache
	layers    []*Layer
	rows      []rowOutput
	pending   atomic.Int32
	abandoned atomic.Bool
}

func (rb *rebuild) run(y int, signal func()) {
	if !rb.abandoned.Load() {
		buildRow(rb.cache, y, &rb.rows[y])
	}
	if rb.pending.Add(-1) == 0 {
		signal()
	}
}
