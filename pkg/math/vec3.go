package math

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vec3 is a landscape position or direction. X and Y span the plane, Z is
// height.
type Vec3 struct {
	X, Y, Z float32
}

// Up is the normal of flat ground.
var Up = Vec3{Z: 1}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float32 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) LengthSquared() float32 { return v.Dot(v) }

// Cross returns v × o. Face normals are e2.Cross(e1) for edges e1 = b-a and
// e2 = c-a.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the magnitude.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.LengthSquared())))
}

// Normalize returns v scaled to unit length. Vectors shorter than 1e-6
// normalize to zero so callers can detect degenerate faces.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l < 1e-6 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// XY projects v onto the plane.
func (v Vec3) XY() Vec2 {
	return Vec2{v.X, v.Y}
}

// MGL converts v for use with mgl32 transforms.
func (v Vec3) MGL() mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}
