package landscape

import (
	"context"
	"errors"
	"slices"
	"testing"

	lmath "github.com/Faultbox/runtime-landscape/pkg/math"
)

func TestHeightLayerEndToEnd(t *testing.T) {
	s := newTestSurface(t, DefaultConfig(), Hooks{})
	if _, err := s.AddLayer(heightLayer(lmath.Vec2{}, lmath.Vec2{X: 500, Y: 500}, 50)); err != nil {
		t.Fatal(err)
	}
	flush(t, s)

	for i := range s.PatchCount() {
		p, _ := s.Patch(i)
		if len(p.Layers()) != 1 {
			t.Errorf("patch %d has %d layers, want 1", i, len(p.Layers()))
		}
		g := mustGeometry(t, s, i)
		for vi, v := range g.Vertices {
			want := float32(baseHeight)
			if v.X <= 500 && v.Y <= 500 {
				want = 50
			}
			if v.Z != want {
				t.Errorf("patch %d vertex %d at (%v,%v): z = %v, want %v", i, vi, v.X, v.Y, v.Z, want)
			}
		}
	}
	if p, _ := s.Patch(3); p.State() != PatchClean {
		t.Errorf("State() = %v, want clean", p.State())
	}
}

func TestRepeatedInvalidationRebuildsOnce(t *testing.T) {
	s := newTestSurface(t, DefaultConfig(), Hooks{})
	before := s.Stats()

	if err := s.RebuildDeferred(2); err != nil {
		t.Fatal(err)
	}
	if err := s.RebuildDeferred(2); err != nil {
		t.Fatal(err)
	}
	flush(t, s)

	after := s.Stats()
	if got := after.Started - before.Started; got != 1 {
		t.Errorf("rebuilds started = %d, want 1", got)
	}
	if got := after.Published - before.Published; got != 1 {
		t.Errorf("rebuilds published = %d, want 1", got)
	}
}

func TestCancelKeepsPublishedGeometry(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PatchGrid = [2]int{1, 1}
	s := newTestSurface(t, cfg, Hooks{})
	old := mustGeometry(t, s, 0)

	if _, err := s.AddLayer(heightLayer(lmath.Vec2{}, lmath.Vec2{X: 200, Y: 200}, 30)); err != nil {
		t.Fatal(err)
	}
	s.Tick()
	if s.Idle() {
		t.Fatal("Idle() = true right after starting a rebuild")
	}
	s.Cancel()

	if got := s.Stats().Abandoned; got != 1 {
		t.Errorf("Abandoned = %d, want 1", got)
	}
	if !s.Idle() {
		t.Error("Idle() = false after Cancel")
	}
	flush(t, s)
	if mustGeometry(t, s, 0) != old {
		t.Error("abandoned rebuild replaced the published geometry")
	}
	if p, _ := s.Patch(0); p.State() != PatchClean {
		t.Errorf("State() = %v, want clean", p.State())
	}
}

func TestEditDuringRebuildIsNotLost(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PatchGrid = [2]int{1, 1}
	s := newTestSurface(t, cfg, Hooks{})
	before := s.Stats()

	if _, err := s.AddLayer(heightLayer(lmath.Vec2{}, lmath.Vec2{X: 200, Y: 200}, 30)); err != nil {
		t.Fatal(err)
	}
	s.Tick()
	if _, err := s.AddLayer(heightLayer(lmath.Vec2{X: 800, Y: 800}, lmath.Vec2{X: 1000, Y: 1000}, 60)); err != nil {
		t.Fatal(err)
	}
	flush(t, s)

	if got := s.Stats().Started - before.Started; got != 2 {
		t.Errorf("rebuilds started = %d, want 2", got)
	}
	g := mustGeometry(t, s, 0)
	if z := g.Vertices[0].Z; z != 30 {
		t.Errorf("first edit: z = %v, want 30", z)
	}
	if z := g.Vertices[len(g.Vertices)-1].Z; z != 60 {
		t.Errorf("second edit: z = %v, want 60", z)
	}
}

func TestImmediateMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = RebuildImmediate
	s := newTestSurface(t, cfg, Hooks{})

	if _, err := s.AddLayer(heightLayer(lmath.Vec2{}, lmath.Vec2{X: 100, Y: 100}, 25)); err != nil {
		t.Fatal(err)
	}
	if !s.Idle() {
		t.Error("Idle() = false in immediate mode")
	}
	if z := mustGeometry(t, s, 0).Vertices[0].Z; z != 25 {
		t.Errorf("z = %v, want 25 without ticking", z)
	}
	if got := s.Stats().Started; got != 0 {
		t.Errorf("coordinator started %d rebuilds in immediate mode", got)
	}
}

func TestImmediateRebuildSupersedesInflight(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PatchGrid = [2]int{1, 1}
	s := newTestSurface(t, cfg, Hooks{})

	if _, err := s.AddLayer(heightLayer(lmath.Vec2{}, lmath.Vec2{X: 200, Y: 200}, 30)); err != nil {
		t.Fatal(err)
	}
	s.Tick()
	if _, err := s.AddLayer(heightLayer(lmath.Vec2{}, lmath.Vec2{X: 200, Y: 200}, 60)); err != nil {
		t.Fatal(err)
	}
	if err := s.RebuildImmediate(0); err != nil {
		t.Fatal(err)
	}

	g := mustGeometry(t, s, 0)
	if z := g.Vertices[0].Z; z != 60 {
		t.Fatalf("z = %v, want 60 right after RebuildImmediate", z)
	}
	if p, _ := s.Patch(0); p.State() != PatchClean {
		t.Errorf("State() = %v, want clean", p.State())
	}
	if got := s.Stats().Abandoned; got != 1 {
		t.Errorf("Abandoned = %d, want the older rebuild dropped", got)
	}

	flush(t, s)
	if mustGeometry(t, s, 0) != g {
		t.Error("an older rebuild was published over the immediate one")
	}
}

func TestRebuildImmediateCall(t *testing.T) {
	s := newTestSurface(t, DefaultConfig(), Hooks{})
	old := mustGeometry(t, s, 1)
	if err := s.RebuildImmediate(1); err != nil {
		t.Fatal(err)
	}
	if mustGeometry(t, s, 1) == old {
		t.Error("RebuildImmediate() did not publish new geometry")
	}
	if err := s.RebuildImmediate(9); !errors.Is(err, ErrInvalidPatch) {
		t.Errorf("RebuildImmediate(9) error = %v, want ErrInvalidPatch", err)
	}
}

func TestMismatchedHeightBufferIsSkipped(t *testing.T) {
	s, err := New(DefaultConfig(), Hooks{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Close)

	n := s.VerticesPerPatch()
	buffers := make([][]float32, s.PatchCount())
	for i := range buffers {
		buffers[i] = make([]float32, n)
	}
	buffers[2] = make([]float32, n-1)
	if err := s.InitializeFromBuffers(buffers); err != nil {
		t.Fatal(err)
	}
	flush(t, s)

	if got := s.Stats().Skipped; got != 1 {
		t.Errorf("Skipped = %d, want 1", got)
	}
	p, _ := s.Patch(2)
	if p.Geometry() != nil {
		t.Error("skipped patch has geometry")
	}
	if _, err := s.GenerateGeometry(2); err == nil {
		t.Error("GenerateGeometry() on a short buffer should fail")
	}
	for _, i := range []int{0, 1, 3} {
		mustGeometry(t, s, i)
	}
}

func TestInitializeFromBuffersCount(t *testing.T) {
	s, err := New(DefaultConfig(), Hooks{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Close)
	if err := s.InitializeFromBuffers(make([][]float32, 3)); err == nil {
		t.Error("InitializeFromBuffers() with 3 buffers for 4 patches should fail")
	}
	if _, err := s.Patch(0); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Patch(0) error = %v, want ErrNotInitialized", err)
	}
}

func TestResampleOutOfRangeUsesZero(t *testing.T) {
	s := newSurfaceFrom(t, DefaultConfig(), Hooks{}, constantHeights{5, 5, baseHeight})

	g := mustGeometry(t, s, 0)
	if z := g.Vertices[0].Z; z != baseHeight {
		t.Errorf("in-range vertex z = %v, want %d", z, baseHeight)
	}
	if z := g.Vertices[5].Z; z != 0 {
		t.Errorf("out-of-range vertex z = %v, want 0", z)
	}
	for _, v := range mustGeometry(t, s, 3).Vertices {
		if v.Z != 0 {
			t.Fatalf("patch 3 vertex %v, want z = 0", v)
		}
	}
}

func TestHeightScale(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HeightScale = 2
	s := newTestSurface(t, cfg, Hooks{})
	if z := mustGeometry(t, s, 0).Vertices[0].Z; z != 2*baseHeight {
		t.Errorf("z = %v, want %d", z, 2*baseHeight)
	}
}

func TestHooksNotified(t *testing.T) {
	rec := newRecorder()
	s := newTestSurface(t, DefaultConfig(), rec.hooks())

	if got := len(rec.navigation); got != 4 {
		t.Errorf("navigation notified %d times, want 4", got)
	}
	if got := len(rec.collision); got != 4 {
		t.Errorf("collision notified %d times, want 4", got)
	}
	if got := len(rec.instances); got != 4 {
		t.Errorf("instances replaced for %d patches, want 4", got)
	}
	if len(rec.foliage) != 0 {
		t.Errorf("foliage removed without layers: %v", rec.foliage)
	}

	if _, err := s.AddLayer(heightLayer(lmath.Vec2{}, lmath.Vec2{X: 100, Y: 100}, 20)); err != nil {
		t.Fatal(err)
	}
	flush(t, s)
	if got := rec.navigation[len(rec.navigation)-1]; got != 0 {
		t.Errorf("last navigation update for patch %d, want 0", got)
	}
	if len(rec.foliage) != 1 || rec.foliage[0] != s.PatchBounds(0) {
		t.Errorf("foliage areas = %v, want [%v]", rec.foliage, s.PatchBounds(0))
	}
}

func TestHooksRespectUpdateFlags(t *testing.T) {
	rec := newRecorder()
	cfg := DefaultConfig()
	cfg.UpdateCollision = false
	cfg.UpdateNavigation = false
	newTestSurface(t, cfg, rec.hooks())

	if len(rec.navigation) != 0 || len(rec.collision) != 0 {
		t.Errorf("disabled updaters were called: nav=%v col=%v", rec.navigation, rec.collision)
	}
	if len(rec.instances) != 4 {
		t.Errorf("instances replaced for %d patches, want 4", len(rec.instances))
	}
}

func TestUpdateLayerMovesEffect(t *testing.T) {
	s := newTestSurface(t, DefaultConfig(), Hooks{})
	l := heightLayer(lmath.Vec2{}, lmath.Vec2{X: 100, Y: 100}, 50)
	id, err := s.AddLayer(l)
	if err != nil {
		t.Fatal(err)
	}
	flush(t, s)

	l.ID = id
	l.Shape = Box(lmath.Vec2{X: 600, Y: 600}, lmath.Vec2{X: 1000, Y: 1000})
	if err := s.UpdateLayer(l); err != nil {
		t.Fatal(err)
	}
	flush(t, s)

	if z := mustGeometry(t, s, 0).Vertices[0].Z; z != baseHeight {
		t.Errorf("old area z = %v, want %d", z, baseHeight)
	}
	g := mustGeometry(t, s, 3)
	if z := g.Vertices[len(g.Vertices)-1].Z; z != 50 {
		t.Errorf("new area z = %v, want 50", z)
	}
	p0, _ := s.Patch(0)
	p3, _ := s.Patch(3)
	if p0.HasLayer(id) || !p3.HasLayer(id) {
		t.Errorf("layer membership: patch 0 %v, patch 3 %v", p0.Layers(), p3.Layers())
	}
}

func TestRemoveLayerRestoresHeights(t *testing.T) {
	s := newTestSurface(t, DefaultConfig(), Hooks{})
	id, err := s.AddLayer(heightLayer(lmath.Vec2{}, lmath.Vec2{X: 700, Y: 700}, 50))
	if err != nil {
		t.Fatal(err)
	}
	flush(t, s)
	if err := s.RemoveLayer(id); err != nil {
		t.Fatal(err)
	}
	flush(t, s)

	for i := range s.PatchCount() {
		for _, v := range mustGeometry(t, s, i).Vertices {
			if v.Z != baseHeight {
				t.Fatalf("patch %d: z = %v after removal, want %d", i, v.Z, baseHeight)
			}
		}
	}
	if err := s.RemoveLayer(id); !errors.Is(err, ErrUnknownLayer) {
		t.Errorf("second RemoveLayer() error = %v, want ErrUnknownLayer", err)
	}
	if err := s.UpdateLayer(Layer{ID: id}); !errors.Is(err, ErrUnknownLayer) {
		t.Errorf("UpdateLayer() error = %v, want ErrUnknownLayer", err)
	}
}

func TestLayerOrderSurvivesUpdate(t *testing.T) {
	s := newTestSurface(t, DefaultConfig(), Hooks{})
	first := heightLayer(lmath.Vec2{X: 600, Y: 600}, lmath.Vec2{X: 700, Y: 700}, 10)
	second := heightLayer(lmath.Vec2{}, lmath.Vec2{X: 100, Y: 100}, 20)
	id1, _ := s.AddLayer(first)
	id2, _ := s.AddLayer(second)

	// Move the older layer under the newer one; the newer one still wins.
	first.ID = id1
	first.Shape = Box(lmath.Vec2{}, lmath.Vec2{X: 100, Y: 100})
	if err := s.UpdateLayer(first); err != nil {
		t.Fatal(err)
	}
	flush(t, s)

	p, _ := s.Patch(0)
	if got := p.Layers(); !slices.Equal(got, []LayerID{id1, id2}) {
		t.Errorf("Layers() = %v, want [%v %v]", got, id1, id2)
	}
	if z := mustGeometry(t, s, 0).Vertices[0].Z; z != 20 {
		t.Errorf("z = %v, want 20", z)
	}
	ids := []LayerID{}
	for _, l := range s.Layers() {
		ids = append(ids, l.ID)
	}
	if !slices.Equal(ids, []LayerID{id1, id2}) {
		t.Errorf("Surface.Layers() order = %v", ids)
	}
}

func TestLayersCarriedAcrossInitialize(t *testing.T) {
	s := newTestSurface(t, DefaultConfig(), Hooks{})
	if _, err := s.AddLayer(heightLayer(lmath.Vec2{}, lmath.Vec2{X: 100, Y: 100}, 50)); err != nil {
		t.Fatal(err)
	}
	if err := s.Initialize(context.Background(), constantHeights{11, 11, 3}); err != nil {
		t.Fatal(err)
	}
	flush(t, s)
	g := mustGeometry(t, s, 0)
	if g.Vertices[0].Z != 50 || g.Vertices[len(g.Vertices)-1].Z != 3 {
		t.Errorf("z = %v / %v, want 50 / 3", g.Vertices[0].Z, g.Vertices[len(g.Vertices)-1].Z)
	}
}

func TestClosedSurface(t *testing.T) {
	s := newTestSurface(t, DefaultConfig(), Hooks{})
	s.Close()
	s.Close()

	if _, err := s.AddLayer(heightLayer(lmath.Vec2{}, lmath.Vec2{X: 1, Y: 1}, 1)); !errors.Is(err, ErrClosed) {
		t.Errorf("AddLayer() error = %v, want ErrClosed", err)
	}
	if _, err := s.AddHole(HoleVolume{Shape: Sphere(lmath.Vec3{}, 1)}); !errors.Is(err, ErrClosed) {
		t.Errorf("AddHole() error = %v, want ErrClosed", err)
	}
	if err := s.Flush(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Flush() error = %v, want ErrClosed", err)
	}
}

func TestFlushHonoursContext(t *testing.T) {
	s := newTestSurface(t, DefaultConfig(), Hooks{})
	if _, err := s.AddLayer(heightLayer(lmath.Vec2{}, lmath.Vec2{X: 1000, Y: 1000}, 5)); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Either everything finished within the first tick or the context wins.
	if err := s.Flush(ctx); err != nil && !errors.Is(err, context.Canceled) {
		t.Errorf("Flush() error = %v", err)
	}
}
