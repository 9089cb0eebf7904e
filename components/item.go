package components

// Kind tags the closed set of item kinds. Behavior differences are data
// (material coefficients, collision box), never kind-specific code paths
// in the physics core.
type Kind uint8

const (
	KindObstacle Kind = iota
	KindTarget
	KindAvatar
)

// String returns the kind name for logs and telemetry.
func (k Kind) String() string {
	switch k {
	case KindObstacle:
		return "obstacle"
	case KindTarget:
		return "target"
	case KindAvatar:
		return "avatar"
	}
	return "unknown"
}

// Item identifies a tracked arena item.
type Item struct {
	ID   uint32
	Kind Kind
}

// Spin marks an item driven by the rotator transformer: a constant target
// angular velocity written into the physics state each tick.
type Spin struct {
	RateDegPerSec float32
}

// Drift marks an item driven by the drifter transformer. The drifter picks
// a fresh random direction every retarget interval and reverses a component
// when the item comes within Margin cells of the boundary.
type Drift struct {
	Speed       float32 // cells/s
	RetargetSec float32 // mean seconds between direction changes
	Margin      float32 // boundary proximity that flips direction, in cells

	// Transformer-owned state
	Timer      float32
	DirX, DirY float32
}
