package landscape

import (
	"math"
	"testing"

	lmath "github.com/Faultbox/runtime-landscape/pkg/math"
)

func TestComputeTangentsSlope(t *testing.T) {
	// One quad rising along X.
	vertices := []lmath.Vec3{{}, {X: 1, Z: 1}, {Y: 1}, {X: 1, Y: 1, Z: 1}}
	uv := []lmath.Vec2{{}, {X: 1}, {Y: 1}, {X: 1, Y: 1}}
	triangles := []uint32{0, 2, 1, 1, 2, 3}

	normals, tangents := computeTangents(vertices, triangles, uv)
	s := float32(1 / math.Sqrt2)
	wantN := lmath.Vec3{X: -s, Z: s}
	wantT := lmath.Vec3{X: s, Z: s}
	for i := range vertices {
		if normals[i].Sub(wantN).Length() > 1e-5 {
			t.Errorf("normal[%d] = %v, want %v", i, normals[i], wantN)
		}
		if tangents[i].Sub(wantT).Length() > 1e-5 {
			t.Errorf("tangent[%d] = %v, want %v", i, tangents[i], wantT)
		}
	}
}

func TestComputeTangentsIsolatedVertex(t *testing.T) {
	vertices := []lmath.Vec3{{}, {X: 1}, {Y: 1}, {X: 5, Y: 5}}
	uv := make([]lmath.Vec2, len(vertices))
	normals, tangents := computeTangents(vertices, []uint32{0, 2, 1}, uv)

	if normals[3] != lmath.Up {
		t.Errorf("isolated normal = %v, want up", normals[3])
	}
	if tangents[3] != (lmath.Vec3{X: 1}) {
		t.Errorf("isolated tangent = %v, want +X", tangents[3])
	}
	if normals[0].Sub(lmath.Up).Length() > 1e-6 {
		t.Errorf("normal[0] = %v, want up", normals[0])
	}
}
