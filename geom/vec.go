// Package geom provides the boundary and overlap mathematics for the arena:
// axis-aligned containment with minimal-translation vectors, and oriented
// boxes for impulse contact-point calculations. Everything here is stateless
// and allocation-free on the hot path.
package geom

import "math"

// Vec2 is a 2D vector in grid-cell units. Y grows downward, so "up" is
// negative Y and a floor contact has normal (0, -1).
type Vec2 struct {
	X, Y float32
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Scale returns v scaled by s.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float32 {
	return v.X*o.X + v.Y*o.Y
}

// Length returns the magnitude of v.
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// Perp returns v rotated 90 degrees counter-clockwise (in screen
// coordinates), the tangent direction for a contact normal v.
func (v Vec2) Perp() Vec2 {
	return Vec2{-v.Y, v.X}
}

// Normalized returns v scaled to unit length, or the zero vector if v is
// degenerate.
func (v Vec2) Normalized() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return v.Scale(1 / l)
}
