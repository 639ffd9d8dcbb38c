package landscape

import (
	"context"
	"testing"
	"time"

	lmath "github.com/Faultbox/runtime-landscape/pkg/math"
)

type constantHeights struct {
	width, height int
	value         float32
}

func (c constantHeights) HeightValues() (HeightGrid, error) {
	values := make([]float32, c.width*c.height)
	for i := range values {
		values[i] = c.value
	}
	return HeightGrid{Width: c.width, Height: c.height, Values: values}, nil
}

// rampHeights rises along X so normals are not trivially flat.
type rampHeights struct {
	width, height int
}

func (r rampHeights) HeightValues() (HeightGrid, error) {
	values := make([]float32, r.width*r.height)
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			values[y*r.width+x] = float32(x*3 + y)
		}
	}
	return HeightGrid{Width: r.width, Height: r.height, Values: values}, nil
}

const baseHeight = 7

func newTestSurface(t *testing.T, cfg Config, hooks Hooks) *Surface {
	t.Helper()
	return newSurfaceFrom(t, cfg, hooks, constantHeights{cfg.Resolution[0] + 1, cfg.Resolution[1] + 1, baseHeight})
}

func newSurfaceFrom(t *testing.T, cfg Config, hooks Hooks, src HeightProvider) *Surface {
	t.Helper()
	s, err := New(cfg, hooks)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(s.Close)

	if err := s.Initialize(context.Background(), src); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	flush(t, s)
	return s
}

func flush(t *testing.T, s *Surface) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
}

func mustGeometry(t *testing.T, s *Surface, index int) *Geometry {
	t.Helper()
	p, err := s.Patch(index)
	if err != nil {
		t.Fatalf("Patch(%d) error = %v", index, err)
	}
	g := p.Geometry()
	if g == nil {
		t.Fatalf("patch %d has no geometry", index)
	}
	return g
}

func heightLayer(lo, hi lmath.Vec2, height float32) Layer {
	return Layer{
		Name:    "raise",
		Shape:   Box(lo, hi),
		Effects: []Effect{HeightEffect(height)},
	}
}

type recorder struct {
	navigation []int
	collision  []int
	foliage    []lmath.Box2
	instances  map[int]int
}

func newRecorder() *recorder {
	return &recorder{instances: map[int]int{}}
}

func (r *recorder) hooks() Hooks {
	return Hooks{Instances: r, Navigation: r, Collision: r, Foliage: r}
}

func (r *recorder) GeometryChanged(patch int, _ lmath.Box2, _ *Geometry) {
	r.navigation = append(r.navigation, patch)
}

func (r *recorder) CollisionChanged(patch int, _ *Geometry) {
	r.collision = append(r.collision, patch)
}

func (r *recorder) RemoveFoliage(area lmath.Box2, _ func(lmath.Vec2) bool) {
	r.foliage = append(r.foliage, area)
}

func (r *recorder) ReplaceInstances(patch int, batches []InstanceBatch) {
	n := 0
	for _, b := range batches {
		n += len(b.Transforms)
	}
	r.instances[patch] = n
}
