package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/gridarena/components"
)

// RotatorSystem is the spin transformer: it writes each spinning item's
// target angular velocity into the physics state store every tick. It never
// touches poses; integration is the integrator's job.
type RotatorSystem struct {
	filter      ecs.Filter2[components.Spin, components.PhysicsState]
	unsubscribe func()
}

// NewRotatorSystem creates a rotator over the given world.
func NewRotatorSystem(w *ecs.World) *RotatorSystem {
	return &RotatorSystem{
		filter: *ecs.NewFilter2[components.Spin, components.PhysicsState](w),
	}
}

// Start subscribes the rotator to a tick source.
func (s *RotatorSystem) Start(src TickSource) {
	if s.unsubscribe != nil {
		return
	}
	s.unsubscribe = src.Subscribe(s.Update)
}

// Stop unsubscribes from the tick source.
func (s *RotatorSystem) Stop() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// Update writes the target spin rate of every spinning item. The bounce
// resolver may have bled angular velocity off on impact; the rotator drives
// it back to the target.
func (s *RotatorSystem) Update(dtSec float32) {
	if dtSec <= 0 {
		return
	}
	query := s.filter.Query()
	for query.Next() {
		spin, st := query.Get()
		st.Omega = spin.RateDegPerSec
	}
}
