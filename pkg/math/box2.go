package math

// Box2 is an axis-aligned rectangle on the landscape plane. Min and Max are
// inclusive.
type Box2 struct {
	Min, Max Vec2
}

// NewBox2 builds a rectangle from a center and half extent.
func NewBox2(center, extent Vec2) Box2 {
	return Box2{Min: center.Sub(extent), Max: center.Add(extent)}
}

// Size returns the width and depth of the rectangle.
func (b Box2) Size() Vec2 {
	return b.Max.Sub(b.Min)
}

// Center returns the rectangle midpoint.
func (b Box2) Center() Vec2 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Contains reports whether p lies inside or on the rectangle.
func (b Box2) Contains(p Vec2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Intersects reports whether two rectangles overlap or touch.
func (b Box2) Intersects(other Box2) bool {
	return b.Min.X <= other.Max.X && b.Max.X >= other.Min.X &&
		b.Min.Y <= other.Max.Y && b.Max.Y >= other.Min.Y
}

// ExpandBy grows the rectangle by d on every side.
func (b Box2) ExpandBy(d float32) Box2 {
	return Box2{Min: Vec2{b.Min.X - d, b.Min.Y - d}, Max: Vec2{b.Max.X + d, b.Max.Y + d}}
}

// Union returns the smallest rectangle covering both.
func (b Box2) Union(other Box2) Box2 {
	return Box2{
		Min: Vec2{min(b.Min.X, other.Min.X), min(b.Min.Y, other.Min.Y)},
		Max: Vec2{max(b.Max.X, other.Max.X), max(b.Max.Y, other.Max.Y)},
	}
}

// Translate moves the rectangle by offset.
func (b Box2) Translate(offset Vec2) Box2 {
	return Box2{Min: b.Min.Add(offset), Max: b.Max.Add(offset)}
}
