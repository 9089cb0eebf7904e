package components

// Pose is an item's placement in the arena, in grid-cell units.
// Position is the item's anchor point (top-left cell, y grows downward);
// Rotation is in degrees and monotonic (not wrapped).
// Only the integrator writes a Pose during a tick commit.
type Pose struct {
	X, Y     float32 // position in cells
	W, H     float32 // visual size in cells
	Rotation float32 // degrees
}
