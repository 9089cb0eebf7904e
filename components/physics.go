package components

// PhysicsState holds an item's motion state and material coefficients.
// Velocities are in cells/s (omega in deg/s). Damping coefficients are
// per-second decay factors; restitution and friction are clamped to [0,1]
// at the point of use.
type PhysicsState struct {
	VX, VY float32 // linear velocity (cells/s)
	Omega  float32 // angular velocity (deg/s)

	LinearDamping  float32
	AngularDamping float32
	Restitution    float32
	Friction       float32
}

// CollisionBox describes the rotated rectangle used for impulse contact
// math. It is distinct from the pose's visual size: silhouette and contact
// geometry may legitimately differ. Offset is relative to the pose anchor.
type CollisionBox struct {
	OffsetX, OffsetY float32 // cells, relative to pose position
	HalfW, HalfH     float32 // half-extents in cells
	Rotation         float32 // degrees, relative to pose rotation
}
