package landscape

import (
	"image"
	"image/color"
	"maps"
	"math"
	"sync/atomic"

	lmath "github.com/Faultbox/runtime-landscape/pkg/math"
)

// paintSnapshot is an immutable set of ground type masks. Each pixel maps to
// one global vertex.
type paintSnapshot struct {
	masks map[string]*image.Alpha
}

// weight returns the painted weight of a ground type at a global vertex.
func (s *paintSnapshot) weight(groundType string, gx, gy int) float32 {
	if s == nil {
		return 0
	}
	m, ok := s.masks[groundType]
	if !ok {
		return 0
	}
	return float32(m.AlphaAt(gx, gy).A) / 255
}

// PaintTargets holds one alpha raster per ground type, one pixel per global
// vertex. Layers with paint effects are stamped once over their area, with
// no smoothing. Writers publish a new snapshot so readers never see a
// half-drawn mask.
type PaintTargets struct {
	width, height int
	spacing       lmath.Vec2
	current       atomic.Pointer[paintSnapshot]
}

func newPaintTargets(width, height int, spacing lmath.Vec2) *PaintTargets {
	t := &PaintTargets{width: width, height: height, spacing: spacing}
	t.current.Store(&paintSnapshot{masks: map[string]*image.Alpha{}})
	return t
}

func (t *PaintTargets) snapshot() *paintSnapshot {
	return t.current.Load()
}

// Weight samples a ground type at the vertex nearest to p.
func (t *PaintTargets) Weight(groundType string, p lmath.Vec2) float32 {
	gx := int(p.X/t.spacing.X + 0.5)
	gy := int(p.Y/t.spacing.Y + 0.5)
	return t.snapshot().weight(groundType, gx, gy)
}

// Mask returns a copy of a ground type raster, or nil if nothing was
// painted with it.
func (t *PaintTargets) Mask(groundType string) *image.Alpha {
	m, ok := t.snapshot().masks[groundType]
	if !ok {
		return nil
	}
	out := image.NewAlpha(m.Rect)
	copy(out.Pix, m.Pix)
	return out
}

// GroundTypes lists the painted ground types.
func (t *PaintTargets) GroundTypes() []string {
	var names []string
	for name := range t.snapshot().masks {
		names = append(names, name)
	}
	return names
}

// stamp draws the paint effects of one layer.
func (t *PaintTargets) stamp(layer *Layer) {
	if !layer.HasEffect(EffectGroundTypePaint) {
		return
	}
	old := t.snapshot()
	next := &paintSnapshot{masks: maps.Clone(old.masks)}
	cloned := map[string]bool{}
	for _, e := range layer.Effects {
		if e.Kind != EffectGroundTypePaint {
			continue
		}
		dst := next.masks[e.GroundType]
		switch {
		case dst == nil:
			dst = image.NewAlpha(image.Rect(0, 0, t.width, t.height))
		case !cloned[e.GroundType]:
			c := image.NewAlpha(dst.Rect)
			copy(c.Pix, dst.Pix)
			dst = c
		}
		cloned[e.GroundType] = true
		next.masks[e.GroundType] = dst
		t.rasterize(layer.Shape, e.Weight, dst)
	}
	t.current.Store(next)
}

// repaint rebuilds every mask from the given layers, in order.
func (t *PaintTargets) repaint(layers []*Layer) {
	t.current.Store(&paintSnapshot{masks: map[string]*image.Alpha{}})
	for _, l := range layers {
		t.stamp(l)
	}
}

// rasterize stamps weight onto every vertex pixel the shape contains, using
// the same inside-or-on test as a hard-edged layer. Pixels are composited
// with the source-over rule so overlapping stamps accumulate.
func (t *PaintTargets) rasterize(shape Shape, weight float32, dst *image.Alpha) {
	area := shape.Bounds(0)
	x0 := max(int(math.Floor(float64(area.Min.X/t.spacing.X))), 0)
	y0 := max(int(math.Floor(float64(area.Min.Y/t.spacing.Y))), 0)
	x1 := min(int(math.Ceil(float64(area.Max.X/t.spacing.X))), t.width-1)
	y1 := min(int(math.Ceil(float64(area.Max.Y/t.spacing.Y))), t.height-1)

	a := uint32(lmath.Clamp(weight, 0, 1)*255 + 0.5)
	for gy := y0; gy <= y1; gy++ {
		for gx := x0; gx <= x1; gx++ {
			p := lmath.Vec2{X: float32(gx) * t.spacing.X, Y: float32(gy) * t.spacing.Y}
			if !shape.contains2D(p) {
				continue
			}
			d := uint32(dst.AlphaAt(gx, gy).A)
			dst.SetAlpha(gx, gy, color.Alpha{A: uint8(a + (d*(255-a)+127)/255)})
		}
	}
}
