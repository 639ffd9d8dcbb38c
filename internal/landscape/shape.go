package landscape

import (
	"fmt"
	"math"

	lmath "github.com/Faultbox/runtime-landscape/pkg/math"
)

// ShapeKind tags the geometry of a layer or hole region.
type ShapeKind uint8

const (
	ShapeBox ShapeKind = iota + 1
	ShapeSphere
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	case ShapeSphere:
		return "sphere"
	default:
		return fmt.Sprintf("ShapeKind(%d)", k)
	}
}

// Shape is a box (half Extent, rotated by Yaw degrees around Z) or a sphere
// (Radius) centred at Center. Layers only look at the XY plane; holes use
// all three axes.
type Shape struct {
	Kind   ShapeKind
	Center lmath.Vec3
	Extent lmath.Vec3
	Yaw    float32
	Radius float32
}

// Box returns an axis-aligned box shape from min/max corners on the plane.
// The vertical extent is unbounded for practical purposes.
func Box(lo, hi lmath.Vec2) Shape {
	c := lo.Add(hi).Scale(0.5)
	e := hi.Sub(lo).Scale(0.5)
	return Shape{
		Kind:   ShapeBox,
		Center: lmath.Vec3{X: c.X, Y: c.Y},
		Extent: lmath.Vec3{X: e.X, Y: e.Y, Z: math.MaxFloat32 / 4},
	}
}

// Sphere returns a sphere shape.
func Sphere(center lmath.Vec3, radius float32) Shape {
	return Shape{Kind: ShapeSphere, Center: center, Radius: radius}
}

// local maps a plane point into the shape's unrotated frame.
func (s Shape) local(p lmath.Vec2) lmath.Vec2 {
	q := p.Sub(s.Center.XY())
	if s.Yaw != 0 {
		q = q.Rotate(-degToRad(s.Yaw))
	}
	return q
}

func (s Shape) contains2D(p lmath.Vec2) bool {
	switch s.Kind {
	case ShapeBox:
		q := s.local(p).Abs()
		return q.X <= s.Extent.X && q.Y <= s.Extent.Y
	case ShapeSphere:
		return p.Sub(s.Center.XY()).LengthSquared() <= s.Radius*s.Radius
	default:
		return false
	}
}

// maxInset is the deepest the full-strength region can shrink before it
// collapses to a point or a line.
func (s Shape) maxInset() float32 {
	switch s.Kind {
	case ShapeBox:
		return min(s.Extent.X, s.Extent.Y)
	case ShapeSphere:
		return s.Radius
	default:
		return 0
	}
}

// distanceSqToInset is the squared plane distance from p to the shape shrunk
// by inset. Points inside the shrunk shape are at distance zero.
func (s Shape) distanceSqToInset(p lmath.Vec2, inset float32) float32 {
	switch s.Kind {
	case ShapeBox:
		q := s.local(p).Abs()
		ex := max(s.Extent.X-inset, 0)
		ey := max(s.Extent.Y-inset, 0)
		dx := max(q.X-ex, 0)
		dy := max(q.Y-ey, 0)
		return dx*dx + dy*dy
	case ShapeSphere:
		r := max(s.Radius-inset, 0)
		d := max(p.Sub(s.Center.XY()).Length()-r, 0)
		return d * d
	default:
		return math.MaxFloat32
	}
}

// Contains reports whether a 3D point lies inside or on the shape.
func (s Shape) Contains(p lmath.Vec3) bool {
	switch s.Kind {
	case ShapeBox:
		q := s.local(p.XY()).Abs()
		return q.X <= s.Extent.X && q.Y <= s.Extent.Y && lmath.Abs(p.Z-s.Center.Z) <= s.Extent.Z
	case ShapeSphere:
		return p.Sub(s.Center).LengthSquared() <= s.Radius*s.Radius
	default:
		return false
	}
}

// Bounds returns the plane rectangle covering the shape grown by pad.
func (s Shape) Bounds(pad float32) lmath.Box2 {
	c := s.Center.XY()
	switch s.Kind {
	case ShapeBox:
		ex, ey := s.Extent.X, s.Extent.Y
		if s.Yaw != 0 {
			sin, cos := math.Sincos(float64(degToRad(s.Yaw)))
			c64, s64 := math.Abs(cos), math.Abs(sin)
			ex, ey = float32(float64(s.Extent.X)*c64+float64(s.Extent.Y)*s64),
				float32(float64(s.Extent.X)*s64+float64(s.Extent.Y)*c64)
		}
		return lmath.NewBox2(c, lmath.Vec2{X: ex + pad, Y: ey + pad})
	case ShapeSphere:
		r := s.Radius + pad
		return lmath.NewBox2(c, lmath.Vec2{X: r, Y: r})
	default:
		return lmath.Box2{Min: c, Max: c}
	}
}

// corners returns the four plane corners of a box shape in winding order.
func (s Shape) corners() [4]lmath.Vec2 {
	c := s.Center.XY()
	local := [4]lmath.Vec2{
		{X: -s.Extent.X, Y: -s.Extent.Y},
		{X: s.Extent.X, Y: -s.Extent.Y},
		{X: s.Extent.X, Y: s.Extent.Y},
		{X: -s.Extent.X, Y: s.Extent.Y},
	}
	var out [4]lmath.Vec2
	for i, q := range local {
		if s.Yaw != 0 {
			q = q.Rotate(degToRad(s.Yaw))
		}
		out[i] = c.Add(q)
	}
	return out
}

func (s Shape) validate() error {
	switch s.Kind {
	case ShapeBox:
		if s.Extent.X < 0 || s.Extent.Y < 0 || s.Extent.Z < 0 {
			return fmt.Errorf("box extent must not be negative, got %v", s.Extent)
		}
	case ShapeSphere:
		if s.Radius < 0 {
			return fmt.Errorf("sphere radius must not be negative, got %v", s.Radius)
		}
	}
	return nil
}
