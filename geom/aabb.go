package geom

import "github.com/pthm-cable/gridarena/components"

// AABB is the axis-aligned rectangular arena limit, in cell units. It is
// immutable for the duration of a simulation run unless the arena is
// reloaded. The bounds constrain an item's pose anchor point; the arena
// loader supplies them already reduced by the item footprint.
type AABB struct {
	MinX, MinY, MaxX, MaxY float32
}

// Contact is the result of a boundary containment test. Normal is the unit
// vector along the minimal translation vector: the direction the pose must
// move to leave the boundary, so a floor contact reports (0, -1).
type Contact struct {
	Overlaps bool
	Normal   Vec2
	MTV      Vec2
}

// Contains reports whether the point (x, y) lies inside the bounds.
func (b AABB) Contains(x, y float32) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// Width returns the horizontal extent of the bounds.
func (b AABB) Width() float32 { return b.MaxX - b.MinX }

// Height returns the vertical extent of the bounds.
func (b AABB) Height() float32 { return b.MaxY - b.MinY }

// Containment tests a pose against the arena boundary and, when the pose
// penetrates it, computes the minimal translation vector that pushes it back
// inside along the axis of least penetration. Ties between the axes resolve
// to Y, so floor contact wins when an item sits in a corner.
//
// With no override the test is against the pose anchor point alone. When an
// override box is given, the test point moves to the box center and the
// bounds shrink by the box half-extents, so the whole contact box must fit.
func Containment(pose *components.Pose, bounds AABB, override *components.CollisionBox) Contact {
	x, y := pose.X, pose.Y
	if override != nil {
		x += override.OffsetX
		y += override.OffsetY
		bounds = AABB{
			MinX: bounds.MinX + override.HalfW,
			MinY: bounds.MinY + override.HalfH,
			MaxX: bounds.MaxX - override.HalfW,
			MaxY: bounds.MaxY - override.HalfH,
		}
	}

	// Per-axis penetration depth and push-back direction.
	var penX, penY float32
	var dirX, dirY float32
	if d := bounds.MinX - x; d > 0 {
		penX, dirX = d, 1
	} else if d := x - bounds.MaxX; d > 0 {
		penX, dirX = d, -1
	}
	if d := bounds.MinY - y; d > 0 {
		penY, dirY = d, 1
	} else if d := y - bounds.MaxY; d > 0 {
		penY, dirY = d, -1
	}

	if penX == 0 && penY == 0 {
		return Contact{}
	}

	// Least-penetration axis; equal penetration prefers Y (floor priority).
	if penX != 0 && (penY == 0 || penX < penY) {
		return Contact{
			Overlaps: true,
			Normal:   Vec2{X: dirX},
			MTV:      Vec2{X: dirX * penX},
		}
	}
	return Contact{
		Overlaps: true,
		Normal:   Vec2{Y: dirY},
		MTV:      Vec2{Y: dirY * penY},
	}
}
