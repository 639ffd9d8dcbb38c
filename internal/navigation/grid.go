// Package navigation keeps a walkability grid in sync with published
// landscape geometry and finds paths over it.
package navigation

import (
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/runtime-landscape/internal/landscape"
	"github.com/Faultbox/runtime-landscape/internal/logger"
	lmath "github.com/Faultbox/runtime-landscape/pkg/math"
)

// Grid has one cell per surface quad. A cell is walkable when both of its
// triangles exist and neither is steeper than the slope limit. Cells of a
// patch that has not been published yet are blocked.
type Grid struct {
	mu sync.RWMutex

	width, height int
	patchRes      [2]int
	cellSize      lmath.Vec2
	minNormalZ    float32

	walkable []bool
	heights  []float32

	log *zap.Logger
}

// NewGrid creates a grid for a surface made of patchGrid patches of patchRes
// quads each.
func NewGrid(patchGrid, patchRes [2]int, cellSize lmath.Vec2, maxSlopeDegrees float32) *Grid {
	w := patchGrid[0] * patchRes[0]
	h := patchGrid[1] * patchRes[1]
	return &Grid{
		width:      w,
		height:     h,
		patchRes:   patchRes,
		cellSize:   cellSize,
		minNormalZ: float32(math.Cos(float64(maxSlopeDegrees) * math.Pi / 180)),
		walkable:   make([]bool, w*h),
		heights:    make([]float32, w*h),
		log:        logger.Named("navigation"),
	}
}

// ForSurface sizes a grid to match s.
func ForSurface(s *landscape.Surface, maxSlopeDegrees float32) *Grid {
	return NewGrid(s.Config().PatchGrid, s.PatchResolution(), s.QuadSize(), maxSlopeDegrees)
}

// Size returns the grid dimensions in cells.
func (g *Grid) Size() (width, height int) {
	return g.width, g.height
}

// GeometryChanged implements landscape.NavigationUpdater.
func (g *Grid) GeometryChanged(patch int, _ lmath.Box2, geom *landscape.Geometry) {
	rx, ry := g.patchRes[0], g.patchRes[1]
	patchesX := g.width / rx
	col, row := patch%patchesX, patch/patchesX
	stride := rx + 1

	g.mu.Lock()
	defer g.mu.Unlock()

	for y := 0; y < ry; y++ {
		for x := 0; x < rx; x++ {
			g.walkable[g.key(col*rx+x, row*ry+y)] = false
		}
	}

	walkable := 0
	// Each present quad contributes two consecutive triangles whose first
	// index is its upper-left vertex.
	for i := 0; i+5 < len(geom.Triangles); i += 6 {
		t := geom.Triangles[i : i+6]
		x, y := int(t[0])%stride, int(t[0])/stride
		cell := g.key(col*rx+x, row*ry+y)
		v := geom.Vertices
		g.heights[cell] = (v[t[0]].Z + v[t[1]].Z + v[t[2]].Z + v[t[5]].Z) / 4
		if g.flat(v[t[0]], v[t[1]], v[t[2]]) && g.flat(v[t[3]], v[t[4]], v[t[5]]) {
			g.walkable[cell] = true
			walkable++
		}
	}
	g.log.Debug("patch navigation updated",
		zap.Int("patch", patch),
		zap.Int("walkable", walkable),
		zap.Int("cells", rx*ry))
}

func (g *Grid) flat(a, b, c lmath.Vec3) bool {
	n := c.Sub(a).Cross(b.Sub(a)).Normalize()
	return n.Z >= g.minNormalZ
}

// IsWalkable reports whether cell (x, y) can be entered.
func (g *Grid) IsWalkable(x, y int) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.walkableLocked(x, y)
}

func (g *Grid) walkableLocked(x, y int) bool {
	return g.inBounds(x, y) && g.walkable[g.key(x, y)]
}

// WalkableCount returns the number of walkable cells.
func (g *Grid) WalkableCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := 0
	for _, w := range g.walkable {
		if w {
			n++
		}
	}
	return n
}

// CellAt returns the cell containing plane position p.
func (g *Grid) CellAt(p lmath.Vec2) (x, y int, ok bool) {
	x = int(math.Floor(float64(p.X / g.cellSize.X)))
	y = int(math.Floor(float64(p.Y / g.cellSize.Y)))
	return x, y, g.inBounds(x, y)
}

// CellCenter returns the world position of the centre of cell (x, y), at the
// average height of its corners.
func (g *Grid) CellCenter(x, y int) lmath.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.centerLocked(x, y)
}

func (g *Grid) centerLocked(x, y int) lmath.Vec3 {
	c := lmath.Vec3{
		X: (float32(x) + 0.5) * g.cellSize.X,
		Y: (float32(y) + 0.5) * g.cellSize.Y,
	}
	if g.inBounds(x, y) {
		c.Z = g.heights[g.key(x, y)]
	}
	return c
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

func (g *Grid) key(x, y int) int {
	return y*g.width + x
}
