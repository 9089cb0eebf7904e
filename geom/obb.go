package geom

import (
	"math"

	"github.com/pthm-cable/gridarena/components"
)

// OBB is a rotated rectangle derived per-test from a pose and a collision
// box descriptor. It is used only for impulse contact-point and angular
// response calculations, never for boundary containment.
type OBB struct {
	CX, CY       float32 // center in cells
	HalfW, HalfH float32
	Rotation     float32 // degrees
}

// FromPose builds the oriented box for impulse math. A nil descriptor falls
// back to the pose's visual size centered on the anchor, which keeps items
// without an explicit contact box behaving sensibly.
func FromPose(pose *components.Pose, box *components.CollisionBox) OBB {
	if box == nil {
		return OBB{
			CX:       pose.X + pose.W/2,
			CY:       pose.Y + pose.H/2,
			HalfW:    pose.W / 2,
			HalfH:    pose.H / 2,
			Rotation: pose.Rotation,
		}
	}
	return OBB{
		CX:       pose.X + box.OffsetX,
		CY:       pose.Y + box.OffsetY,
		HalfW:    box.HalfW,
		HalfH:    box.HalfH,
		Rotation: pose.Rotation + box.Rotation,
	}
}

// Corners returns the four corners of the box in world coordinates.
func (o OBB) Corners() [4]Vec2 {
	rad := float64(o.Rotation) * math.Pi / 180
	cos := float32(math.Cos(rad))
	sin := float32(math.Sin(rad))

	var out [4]Vec2
	local := [4]Vec2{
		{-o.HalfW, -o.HalfH},
		{o.HalfW, -o.HalfH},
		{o.HalfW, o.HalfH},
		{-o.HalfW, o.HalfH},
	}
	for i, p := range local {
		out[i] = Vec2{
			X: o.CX + p.X*cos - p.Y*sin,
			Y: o.CY + p.X*sin + p.Y*cos,
		}
	}
	return out
}

// SupportExtent returns the distance from the box center to its farthest
// corner along dir. This is the effective contact-point offset used for
// spin-to-slide coupling: a larger extent means the rim moves faster for
// the same angular velocity.
func (o OBB) SupportExtent(dir Vec2) float32 {
	corners := o.Corners()
	center := Vec2{o.CX, o.CY}
	var best float32
	for _, c := range corners {
		d := Vec2{c.X - center.X, c.Y - center.Y}.Dot(dir)
		if d > best {
			best = d
		}
	}
	return best
}
