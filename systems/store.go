package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/gridarena/components"
)

// Material bundles the coefficients applied to a physics state at
// registration.
type Material struct {
	Restitution    float32
	Friction       float32
	LinearDamping  float32
	AngularDamping float32
}

// Store owns the mapping from item entity to PhysicsState. The entity is
// the stable integer handle issued at registration; lookup is O(1) through
// the ark component map. Registration is idempotent: an item has exactly
// one state for its lifetime.
//
// The store is the shared mutable resource between the integrator and the
// transformers. All writes happen on the tick callback, so no locking is
// needed; a parallel port would need one exclusive owner per item's state.
type Store struct {
	states   *ecs.Map1[components.PhysicsState]
	defaults Material
}

// NewStore creates a store over the given world. Items registered without
// an explicit material get the defaults.
func NewStore(w *ecs.World, defaults Material) *Store {
	return &Store{
		states:   ecs.NewMap1[components.PhysicsState](w),
		defaults: defaults,
	}
}

// Register creates the physics state for an item with zeroed velocity and
// the given material (nil = store defaults). Registering an already
// registered item is a no-op.
func (s *Store) Register(e ecs.Entity, mat *Material) {
	if s.states.HasAll(e) {
		return
	}
	if mat == nil {
		mat = &s.defaults
	}
	st := components.PhysicsState{
		Restitution:    mat.Restitution,
		Friction:       mat.Friction,
		LinearDamping:  mat.LinearDamping,
		AngularDamping: mat.AngularDamping,
	}
	s.states.Add(e, &st)
}

// State returns the item's physics state, or nil if the item was never
// registered.
func (s *Store) State(e ecs.Entity) *components.PhysicsState {
	if !s.states.HasAll(e) {
		return nil
	}
	return s.states.Get(e)
}

// SetVelocity writes the item's linear velocity. Unregistered items are
// ignored.
func (s *Store) SetVelocity(e ecs.Entity, vx, vy float32) {
	if st := s.State(e); st != nil {
		st.VX = vx
		st.VY = vy
	}
}

// SetAngular writes the item's angular velocity in deg/s.
func (s *Store) SetAngular(e ecs.Entity, omega float32) {
	if st := s.State(e); st != nil {
		st.Omega = omega
	}
}

// Velocity reads the item's linear velocity. Unregistered items read as
// zero.
func (s *Store) Velocity(e ecs.Entity) (vx, vy float32) {
	if st := s.State(e); st != nil {
		return st.VX, st.VY
	}
	return 0, 0
}

// Defaults returns the material applied when Register gets a nil material.
func (s *Store) Defaults() Material {
	return s.defaults
}
