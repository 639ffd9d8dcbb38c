package landscape

import (
	"fmt"
	"slices"
	"sync/atomic"

	lmath "github.com/Faultbox/runtime-landscape/pkg/math"
)

// PatchState is the rebuild state of a patch.
type PatchState int32

const (
	PatchClean PatchState = iota
	PatchStale
	PatchRebuilding
)

func (s PatchState) String() string {
	switch s {
	case PatchClean:
		return "clean"
	case PatchStale:
		return "stale"
	case PatchRebuilding:
		return "rebuilding"
	default:
		return fmt.Sprintf("PatchState(%d)", s)
	}
}

// Patch is one tile of the surface. Everything but Geometry is owned by the
// goroutine driving the surface.
type Patch struct {
	index    int
	col, row int

	initialHeights []float32
	layers         []LayerID
	layerHoles     []bool
	volumeHoles    []bool

	state   PatchState
	restale bool

	geometry atomic.Pointer[Geometry]
}

func newPatch(index, col, row int, heights []float32) *Patch {
	return &Patch{index: index, col: col, row: row, initialHeights: heights}
}

// Index returns the row-major position of the patch.
func (p *Patch) Index() int {
	return p.index
}

// State returns the rebuild state.
func (p *Patch) State() PatchState {
	return p.state
}

// Geometry returns the last published mesh, or nil before the first
// rebuild. Safe to call from any goroutine.
func (p *Patch) Geometry() *Geometry {
	return p.geometry.Load()
}

// Layers returns the IDs of the layers affecting the patch, in application
// order.
func (p *Patch) Layers() []LayerID {
	return slices.Clone(p.layers)
}

// HasLayer reports whether a layer affects the patch.
func (p *Patch) HasLayer(id LayerID) bool {
	return slices.Contains(p.layers, id)
}

// AddLayer appends a layer to the affecting set. It does not rebuild.
func (p *Patch) AddLayer(id LayerID) bool {
	if p.HasLayer(id) {
		return false
	}
	p.layers = append(p.layers, id)
	return true
}

// RemoveLayer drops a layer from the affecting set. It does not rebuild.
func (p *Patch) RemoveLayer(id LayerID) bool {
	i := slices.Index(p.layers, id)
	if i < 0 {
		return false
	}
	p.layers = slices.Delete(p.layers, i, i+1)
	return true
}

// MarkStale requests a rebuild. It returns true only when the patch moved
// to Stale and must be queued; repeated requests before the rebuild starts
// are absorbed. A request during a rebuild is remembered and honoured once
// that rebuild is merged.
func (p *Patch) MarkStale() bool {
	switch p.state {
	case PatchClean:
		p.state = PatchStale
		return true
	case PatchRebuilding:
		p.restale = true
	}
	return false
}

func (p *Patch) beginRebuild() {
	p.state = PatchRebuilding
	p.restale = false
}

// finishRebuild returns the patch to Clean, or to Stale when it was edited
// while rebuilding. The result reports whether it must be queued again.
func (p *Patch) finishRebuild() bool {
	if p.restale {
		p.restale = false
		p.state = PatchStale
		return true
	}
	p.state = PatchClean
	return false
}

func (p *Patch) reset() {
	p.state = PatchClean
	p.restale = false
}

// holeMask merges the published layer holes with the volume holes.
func (p *Patch) holeMask() []bool {
	return mergeHoles(p.layerHoles, p.volumeHoles)
}

// mergeHoles ORs two vertex masks, either of which may be nil. The result
// may alias an input and must not be modified.
func mergeHoles(a, b []bool) []bool {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	out := make([]bool, len(a))
	for i := range out {
		out[i] = a[i] || b[i]
	}
	return out
}

// HoleCount returns the number of vertices currently cut.
func (p *Patch) HoleCount() int {
	n := 0
	for _, h := range p.holeMask() {
		if h {
			n++
		}
	}
	return n
}

// ApplyLayers composites layers over heights and colors and returns the
// vertices cut by hole effects, or nil when none are. points holds the plane
// position of every vertex. The patch itself is not modified; the cut is
// recorded when the resulting geometry is published.
func (p *Patch) ApplyLayers(layers []*Layer, points []lmath.Vec2, heights []float32, colors []lmath.Color) []bool {
	return applyLayers(layers, points, heights, colors)
}
