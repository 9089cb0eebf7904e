package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/gridarena/components"
	"github.com/pthm-cable/gridarena/config"
	"github.com/pthm-cable/gridarena/geom"
)

// BoundaryRestingContact tracks one contiguous contact episode between an
// item and the boundary. It exists only while the item overlaps the boundary
// with a persistent normal; separation or a normal flip discards it.
type BoundaryRestingContact struct {
	Normal        geom.Vec2
	FramesActive  int
	LastVelocityY float32
}

// Tuning holds the integrator thresholds. Distances are grid cells, speeds
// cells/s.
type Tuning struct {
	MaxSpeed           float32
	CorrectionCap      float32
	RestingFrames      int
	RestingSpeed       float32
	Slop               float32
	RestingCorrection  float32
	ContactEpsilon     float32
	TangentialRestDamp float32
	NormalDot          float32
	SpinCoupling       float32
}

// TuningFromConfig converts the loaded physics config into float32 tuning.
func TuningFromConfig(p config.PhysicsConfig) Tuning {
	return Tuning{
		MaxSpeed:           float32(p.MaxSpeed),
		CorrectionCap:      float32(p.CorrectionCap),
		RestingFrames:      p.RestingFrames,
		RestingSpeed:       float32(p.RestingSpeed),
		Slop:               float32(p.Slop),
		RestingCorrection:  float32(p.RestingCorrection),
		ContactEpsilon:     float32(p.ContactEpsilon),
		TangentialRestDamp: float32(p.TangentialRestDamp),
		NormalDot:          float32(p.NormalDot),
		SpinCoupling:       float32(p.SpinCoupling),
	}
}

// TickStats counts integrator events for one Update call, for telemetry.
type TickStats struct {
	Items       int
	Bounces     int
	Resting     int
	SpeedClamps int
	HardClamps  int
	Capped      int
	Skipped     int
}

// IntegratorSystem advances every registered item's pose from its physics
// state each tick and resolves boundary penetration. It is the sole writer
// of poses; transformers only touch the physics state store.
//
// Per item the conceptual state machine is
// Free -> (penetrating) -> Impacting <-> Resting -> Free, re-evaluated every
// tick; the only persistent state is the resting-contact record.
type IntegratorSystem struct {
	filter ecs.Filter2[components.Pose, components.PhysicsState]
	boxes  *ecs.Map1[components.CollisionBox]

	bounds geom.AABB
	bounce bool
	tuning Tuning

	contacts map[ecs.Entity]*BoundaryRestingContact
	scratch  components.Pose // reused candidate pose, avoids per-tick allocation
	stats    TickStats

	unsubscribe func()
}

// NewIntegratorSystem creates an integrator over the given world. The
// boundary starts empty; call SetBoundary before the first tick.
func NewIntegratorSystem(w *ecs.World, tuning Tuning) *IntegratorSystem {
	return &IntegratorSystem{
		filter:   *ecs.NewFilter2[components.Pose, components.PhysicsState](w),
		boxes:    ecs.NewMap1[components.CollisionBox](w),
		tuning:   tuning,
		contacts: make(map[ecs.Entity]*BoundaryRestingContact),
	}
}

// SetBoundary installs the traversable arena limit, supplied once per map
// load. bounce=false activates the legacy clamp-only fallback.
func (s *IntegratorSystem) SetBoundary(bounds geom.AABB, bounce bool) {
	s.bounds = bounds
	s.bounce = bounce
}

// Boundary returns the current arena limit.
func (s *IntegratorSystem) Boundary() geom.AABB {
	return s.bounds
}

// Start subscribes the integrator to a tick source. Stop undoes it.
func (s *IntegratorSystem) Start(src TickSource) {
	if s.unsubscribe != nil {
		return
	}
	s.unsubscribe = src.Subscribe(s.Update)
}

// Stop unsubscribes from the tick source and halts all further mutation.
func (s *IntegratorSystem) Stop() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// Clear drops all resting-contact state, e.g. on map reload.
func (s *IntegratorSystem) Clear() {
	s.contacts = make(map[ecs.Entity]*BoundaryRestingContact)
}

// Contact returns the live resting-contact record for an item, or nil.
func (s *IntegratorSystem) Contact(e ecs.Entity) *BoundaryRestingContact {
	return s.contacts[e]
}

// Stats returns the event counts of the most recent Update.
func (s *IntegratorSystem) Stats() TickStats {
	return s.stats
}

// Update advances all items by dtSec. A zero timestep is an idempotent
// no-op: every pose and state is left untouched.
func (s *IntegratorSystem) Update(dtSec float32) {
	if dtSec == 0 || !isFinite(dtSec) || dtSec < 0 {
		return
	}

	s.stats = TickStats{}

	query := s.filter.Query()
	for query.Next() {
		entity := query.Entity()
		pose, st := query.Get()
		s.stats.Items++

		// A pose with an unusable position cannot be integrated; skip the
		// item this tick rather than committing a partial mutation.
		if !isFinite(pose.X) || !isFinite(pose.Y) {
			s.stats.Skipped++
			continue
		}

		// Degenerate numeric state is coerced to 0 at the point of use.
		st.VX = finiteOrZero(st.VX)
		st.VY = finiteOrZero(st.VY)
		st.Omega = finiteOrZero(st.Omega)

		// Damping first, written back immediately so it is visible to any
		// observer before integration.
		st.VX *= maxf(0, 1-finiteOrZero(st.LinearDamping)*dtSec)
		st.VY *= maxf(0, 1-finiteOrZero(st.LinearDamping)*dtSec)
		st.Omega *= maxf(0, 1-finiteOrZero(st.AngularDamping)*dtSec)

		// Integrate into the scratch candidate; the real pose is only
		// written at commit.
		s.scratch = *pose
		s.scratch.X += st.VX * dtSec
		s.scratch.Y += st.VY * dtSec
		s.scratch.Rotation += st.Omega * dtSec

		res := geom.Containment(&s.scratch, s.bounds, nil)
		if res.Overlaps {
			if s.bounce {
				s.resolveOverlap(entity, st, res)
			} else {
				// Legacy fallback: hard-clamp into the boundary, no impulse.
				s.scratch.X = clampFloat(s.scratch.X, s.bounds.MinX, s.bounds.MaxX)
				s.scratch.Y = clampFloat(s.scratch.Y, s.bounds.MinY, s.bounds.MaxY)
				delete(s.contacts, entity)
				s.stats.HardClamps++
			}
		} else {
			delete(s.contacts, entity)
		}

		// Global velocity clamp: a safety valve against integrator blow-up,
		// independent of boundary logic. Direction is preserved.
		speed := velocityMagnitude(st.VX, st.VY)
		if speed > s.tuning.MaxSpeed {
			k := s.tuning.MaxSpeed / speed
			st.VX *= k
			st.VY *= k
			s.stats.SpeedClamps++
		}

		// Commit: the only step that mutates the pose.
		pose.X = s.scratch.X
		pose.Y = s.scratch.Y
		pose.Rotation = s.scratch.Rotation
	}
}

// resolveOverlap handles a penetrating candidate pose: contact bookkeeping,
// the resting/impacting decision, and the position correction.
func (s *IntegratorSystem) resolveOverlap(entity ecs.Entity, st *components.PhysicsState, res geom.Contact) {
	// Cap the corrective displacement so extreme penetration (fast or
	// freshly spawned items) cannot teleport in a single tick. Both axes
	// scale uniformly.
	corr := res.MTV
	capped := false
	if mag := corr.Length(); mag > s.tuning.CorrectionCap {
		corr = corr.Scale(s.tuning.CorrectionCap / mag)
		capped = true
	}

	// Contact episode lifecycle: same normal extends the episode, a flipped
	// normal starts a new one.
	c := s.contacts[entity]
	if c != nil && c.Normal.Dot(res.Normal) > s.tuning.NormalDot {
		c.FramesActive++
		c.Normal = res.Normal
	} else {
		c = &BoundaryRestingContact{Normal: res.Normal, FramesActive: 1}
		s.contacts[entity] = c
	}
	c.LastVelocityY = st.VY

	vn := res.Normal.X*st.VX + res.Normal.Y*st.VY

	resting := res.Normal.Y < -0.5 &&
		c.FramesActive >= s.tuning.RestingFrames &&
		absf(vn) < s.tuning.RestingSpeed &&
		absf(st.VY) < s.tuning.RestingSpeed

	if resting {
		// Kill the normal-direction velocity outright and damp the tangent
		// for stability; an impulse bounce here is the classic jitter and
		// energy-gain failure mode.
		st.VX -= res.Normal.X * vn
		st.VY -= res.Normal.Y * vn
		st.VX *= s.tuning.TangentialRestDamp
		st.VY *= s.tuning.TangentialRestDamp

		// Slop-tolerant strong correction on the raw penetration.
		pen := res.MTV.Length()
		if pen > s.tuning.Slop {
			push := res.Normal.Scale((pen - s.tuning.Slop) * s.tuning.RestingCorrection)
			s.scratch.X += push.X
			s.scratch.Y += push.Y
		}
		s.stats.Resting++
		return
	}

	box := s.boxes.Get(entity) // nil when the item has no contact box
	obb := geom.FromPose(&s.scratch, box)
	ResolveBoundaryCollision(st, obb, res.Normal, s.tuning.SpinCoupling)

	// Capped correction plus a tiny separation nudge so the very next test
	// does not re-penetrate. The resting branch above uses its own slop
	// correction, so only an impacting item counts as capped.
	s.scratch.X += corr.X + res.Normal.X*s.tuning.ContactEpsilon
	s.scratch.Y += corr.Y + res.Normal.Y*s.tuning.ContactEpsilon
	if capped {
		s.stats.Capped++
	}
	s.stats.Bounces++
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
