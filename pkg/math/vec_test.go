package math

import (
	gomath "math"
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	got := v.Length()
	want := float32(5)
	if got != want {
		t.Errorf("Vec2.Length() = %v, want %v", got, want)
	}
}

func TestVec2Normalize(t *testing.T) {
	v := Vec2{3, 4}
	n := v.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec2.Normalize().Length() = %v, want ~1", l)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3MGL(t *testing.T) {
	v := Vec3{1, 2, 3}
	m := v.MGL()
	if m.X() != 1 || m.Y() != 2 || m.Z() != 3 {
		t.Errorf("Vec3.MGL() = %v", m)
	}
	if got := Up.MGL().Cross(Vec3{X: 1}.MGL()); got.Y() != 1 {
		t.Errorf("Up x X = %v, want +Y", got)
	}
}

func TestVec2Rotate(t *testing.T) {
	v := Vec2{1, 0}
	got := v.Rotate(float32(gomath.Pi / 2))
	if Abs(got.X) > 1e-6 || Abs(got.Y-1) > 1e-6 {
		t.Errorf("Vec2.Rotate(pi/2) = %v, want {0 1}", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Vec3
		want float32
	}{
		{"unit", Vec3{0, 0, 1}, 1},
		{"long", Vec3{3, 4, 12}, 1},
		{"zero", Vec3{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := tt.in.Normalize().Length()
			if Abs(l-tt.want) > 1e-5 {
				t.Errorf("Normalize().Length() = %v, want %v", l, tt.want)
			}
		})
	}
}

func TestClampLerp(t *testing.T) {
	if got := Clamp(2, 0, 1); got != 1 {
		t.Errorf("Clamp(2,0,1) = %v, want 1", got)
	}
	if got := Clamp(-1, 0, 1); got != 0 {
		t.Errorf("Clamp(-1,0,1) = %v, want 0", got)
	}
	if got := Lerp(50, 10, 0); got != 50 {
		t.Errorf("Lerp(50,10,0) = %v, want 50", got)
	}
	if got := Lerp(50, 10, 1); got != 10 {
		t.Errorf("Lerp(50,10,1) = %v, want 10", got)
	}
}
