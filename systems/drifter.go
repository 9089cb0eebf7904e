package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/gridarena/components"
	"github.com/pthm-cable/gridarena/geom"
)

// DrifterSystem is the drift transformer: it gives drifting items a
// randomized wander by writing linear velocity into the physics state store.
// It carries its own boundary-avoidance logic (direction flips near the
// walls) independent of the integrator's collision handling, and it reads
// poses but never mutates them.
type DrifterSystem struct {
	filter ecs.Filter3[components.Drift, components.Pose, components.PhysicsState]
	bounds geom.AABB
	rng    *rand.Rand

	retargets   int
	unsubscribe func()
}

// NewDrifterSystem creates a drifter over the given world.
func NewDrifterSystem(w *ecs.World, rng *rand.Rand) *DrifterSystem {
	return &DrifterSystem{
		filter: *ecs.NewFilter3[components.Drift, components.Pose, components.PhysicsState](w),
		rng:    rng,
	}
}

// SetBoundary installs the arena limit used for wall avoidance.
func (s *DrifterSystem) SetBoundary(bounds geom.AABB) {
	s.bounds = bounds
}

// Start subscribes the drifter to a tick source.
func (s *DrifterSystem) Start(src TickSource) {
	if s.unsubscribe != nil {
		return
	}
	s.unsubscribe = src.Subscribe(s.Update)
}

// Stop unsubscribes from the tick source.
func (s *DrifterSystem) Stop() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// Retargets returns the number of direction changes since the last call and
// resets the counter.
func (s *DrifterSystem) Retargets() int {
	n := s.retargets
	s.retargets = 0
	return n
}

// Update advances every drifting item's wander state and writes the
// resulting velocity.
func (s *DrifterSystem) Update(dtSec float32) {
	if dtSec <= 0 {
		return
	}
	query := s.filter.Query()
	for query.Next() {
		drift, pose, st := query.Get()

		drift.Timer -= dtSec
		if drift.Timer <= 0 || (drift.DirX == 0 && drift.DirY == 0) {
			angle := s.rng.Float64() * 2 * math.Pi
			drift.DirX = float32(math.Cos(angle))
			drift.DirY = float32(math.Sin(angle))
			// Jittered interval so the population desynchronizes.
			drift.Timer = drift.RetargetSec * (0.5 + s.rng.Float32())
			s.retargets++
		}

		// Reverse a component heading into a nearby wall.
		if pose.X < s.bounds.MinX+drift.Margin && drift.DirX < 0 {
			drift.DirX = -drift.DirX
		}
		if pose.X > s.bounds.MaxX-drift.Margin && drift.DirX > 0 {
			drift.DirX = -drift.DirX
		}
		if pose.Y < s.bounds.MinY+drift.Margin && drift.DirY < 0 {
			drift.DirY = -drift.DirY
		}
		if pose.Y > s.bounds.MaxY-drift.Margin && drift.DirY > 0 {
			drift.DirY = -drift.DirY
		}

		st.VX = drift.DirX * drift.Speed
		st.VY = drift.DirY * drift.Speed
	}
}
