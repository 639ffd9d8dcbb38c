package landscape

import (
	"errors"
	"reflect"
	"testing"

	lmath "github.com/Faultbox/runtime-landscape/pkg/math"
)

func TestIsLocationInside(t *testing.T) {
	box := HoleVolume{Shape: Box(lmath.Vec2{}, lmath.Vec2{X: 100, Y: 100})}
	ball := HoleVolume{Shape: Sphere(lmath.Vec3{}, 10)}

	tests := []struct {
		name string
		h    HoleVolume
		p    lmath.Vec3
		want bool
	}{
		{"box interior", box, lmath.Vec3{X: 50, Y: 50, Z: 1000}, true},
		{"box edge", box, lmath.Vec3{X: 100, Y: 50}, true},
		{"box corner", box, lmath.Vec3{}, true},
		{"box outside", box, lmath.Vec3{X: 100.5, Y: 50}, false},
		{"sphere surface", ball, lmath.Vec3{X: 10}, true},
		{"sphere above", ball, lmath.Vec3{Z: 10}, true},
		{"sphere diagonal out", ball, lmath.Vec3{X: 8, Y: 8}, false},
		{"sphere too high", ball, lmath.Vec3{X: 8, Z: 7}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.h.IsLocationInside(tt.p); got != tt.want {
				t.Errorf("IsLocationInside(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestHoleVolumeRoundTrip(t *testing.T) {
	s := newTestSurface(t, DefaultConfig(), Hooks{})
	original := mustGeometry(t, s, 0)

	id, err := s.AddHole(HoleVolume{Name: "well", Shape: Box(lmath.Vec2{X: 150, Y: 150}, lmath.Vec2{X: 250, Y: 250})})
	if err != nil {
		t.Fatal(err)
	}
	flush(t, s)

	p, _ := s.Patch(0)
	if p.HoleCount() != 1 {
		t.Errorf("HoleCount() = %d, want 1", p.HoleCount())
	}
	cut := mustGeometry(t, s, 0)
	if got, want := cut.TriangleCount(), original.TriangleCount()-8; got != want {
		t.Errorf("TriangleCount() = %d, want %d", got, want)
	}
	if len(s.Holes()) != 1 || s.Holes()[0].Name != "well" {
		t.Errorf("Holes() = %v", s.Holes())
	}

	if err := s.RemoveHole(id); err != nil {
		t.Fatal(err)
	}
	flush(t, s)
	if !reflect.DeepEqual(mustGeometry(t, s, 0).Triangles, original.Triangles) {
		t.Error("triangles not restored after removing the hole")
	}
	if p.HoleCount() != 0 {
		t.Errorf("HoleCount() = %d after removal", p.HoleCount())
	}
	if err := s.RemoveHole(id); !errors.Is(err, ErrUnknownHole) {
		t.Errorf("RemoveHole() error = %v, want ErrUnknownHole", err)
	}
}

func TestOverlappingHoleVolumes(t *testing.T) {
	s := newTestSurface(t, DefaultConfig(), Hooks{})
	area := Box(lmath.Vec2{X: 150, Y: 150}, lmath.Vec2{X: 250, Y: 250})
	a, _ := s.AddHole(HoleVolume{Shape: area})
	if _, err := s.AddHole(HoleVolume{Shape: area}); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveHole(a); err != nil {
		t.Fatal(err)
	}
	flush(t, s)

	p, _ := s.Patch(0)
	if p.HoleCount() != 1 {
		t.Errorf("HoleCount() = %d, want the remaining volume to keep its cut", p.HoleCount())
	}
}

func TestHoleVolumeAcrossSeam(t *testing.T) {
	s := newTestSurface(t, DefaultConfig(), Hooks{})
	if _, err := s.AddHole(HoleVolume{Shape: Sphere(lmath.Vec3{X: 500, Y: 200, Z: baseHeight}, 10)}); err != nil {
		t.Fatal(err)
	}
	flush(t, s)
	for _, i := range []int{0, 1} {
		p, _ := s.Patch(i)
		if p.HoleCount() != 1 {
			t.Errorf("patch %d HoleCount() = %d, want 1", i, p.HoleCount())
		}
	}
}

func TestGenerateGeometryLeavesPatchUntouched(t *testing.T) {
	s := newTestSurface(t, DefaultConfig(), Hooks{})
	old := mustGeometry(t, s, 0)
	if _, err := s.AddLayer(Layer{
		Shape:   Box(lmath.Vec2{X: 150, Y: 150}, lmath.Vec2{X: 250, Y: 250}),
		Effects: []Effect{HoleEffect(0)},
	}); err != nil {
		t.Fatal(err)
	}

	g, err := s.GenerateGeometry(0)
	if err != nil {
		t.Fatal(err)
	}
	if got := g.TriangleCount(); got != 42 {
		t.Errorf("TriangleCount() = %d, want 42", got)
	}
	p, _ := s.Patch(0)
	if p.HoleCount() != 0 {
		t.Errorf("HoleCount() = %d before the patch was rebuilt", p.HoleCount())
	}
	if p.Geometry() != old || p.State() != PatchStale {
		t.Errorf("patch changed: state %v, geometry replaced %v", p.State(), p.Geometry() != old)
	}

	flush(t, s)
	if p.HoleCount() != 1 {
		t.Errorf("HoleCount() = %d after rebuild, want 1", p.HoleCount())
	}
}

func TestHoleEffectLayer(t *testing.T) {
	cfg := DefaultConfig()
	s := newTestSurface(t, cfg, Hooks{})
	if _, err := s.AddLayer(Layer{
		Shape:   Box(lmath.Vec2{X: 150, Y: 150}, lmath.Vec2{X: 250, Y: 250}),
		Effects: []Effect{HoleEffect(0)},
	}); err != nil {
		t.Fatal(err)
	}
	flush(t, s)

	p, _ := s.Patch(0)
	if p.HoleCount() != 1 {
		t.Errorf("HoleCount() = %d, want 1", p.HoleCount())
	}
	if got := mustGeometry(t, s, 0).TriangleCount(); got != 42 {
		t.Errorf("TriangleCount() = %d, want 42", got)
	}
}
