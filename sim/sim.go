// Package sim wires the arena world together: the ECS world, the physics
// store and integrator, the transformers, and telemetry. It owns the frame
// loop contract (Step) but contains no rendering; the viewer reads poses
// through EachItem.
package sim

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/gridarena/components"
	"github.com/pthm-cable/gridarena/config"
	"github.com/pthm-cable/gridarena/geom"
	"github.com/pthm-cable/gridarena/systems"
	"github.com/pthm-cable/gridarena/telemetry"
)

// Options configures a simulation run.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	StepsPerUpdate int

	// Config overrides the global config when non-nil (used by the tuner to
	// evaluate candidate parameter sets without touching global state).
	Config *config.Config

	// StatsCallback receives each flushed stats window when set.
	StatsCallback func(telemetry.WindowStats)
}

// Sim holds the complete simulation state.
type Sim struct {
	world *ecs.World
	rng   *rand.Rand
	cfg   *config.Config

	// Component mappers for lookups and spawning
	entityMapper *ecs.Map2[components.Pose, components.Item]
	itemFilter   *ecs.Filter2[components.Pose, components.Item]
	stateFilter  *ecs.Filter1[components.PhysicsState]
	boxMap       *ecs.Map1[components.CollisionBox]
	spinMap      *ecs.Map1[components.Spin]
	driftMap     *ecs.Map1[components.Drift]

	// Physics core
	store      *systems.Store
	integrator *systems.IntegratorSystem
	rotator    *systems.RotatorSystem
	drifter    *systems.DrifterSystem
	collision  systems.CollisionHandler
	clock      *systems.Clock
	registry   *systems.SystemRegistry

	// Telemetry
	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	output    *telemetry.OutputManager

	bounds geom.AABB
	bounce bool

	// State
	tick      int32
	paused    bool
	speed     int // simulation steps per Update call
	nextID    uint32
	itemCount int
	running   bool
	unsubs    []func()

	opts Options
}

// New creates a simulation from the global config, loads the arena, and
// starts the tick subscriptions.
func New(opts Options) (*Sim, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	world := ecs.NewWorld()

	if opts.StepsPerUpdate < 1 {
		opts.StepsPerUpdate = 1
	}
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	s := &Sim{
		world:        world,
		rng:          rand.New(rand.NewSource(opts.Seed)),
		cfg:          cfg,
		entityMapper: ecs.NewMap2[components.Pose, components.Item](world),
		itemFilter:   ecs.NewFilter2[components.Pose, components.Item](world),
		stateFilter:  ecs.NewFilter1[components.PhysicsState](world),
		boxMap:       ecs.NewMap1[components.CollisionBox](world),
		spinMap:      ecs.NewMap1[components.Spin](world),
		driftMap:     ecs.NewMap1[components.Drift](world),
		clock:        systems.NewClock(),
		registry:     systems.NewSystemRegistry(),
		collision:    systems.NopCollisionHandler{},
		perf:         telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		collector:    telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		speed:        1,
		opts:         opts,
	}

	s.store = systems.NewStore(world, systems.Material{
		Restitution: float32(cfg.Physics.RestitutionDefault),
		Friction:    float32(cfg.Physics.FrictionDefault),
	})
	s.integrator = systems.NewIntegratorSystem(world, systems.TuningFromConfig(cfg.Physics))
	s.rotator = systems.NewRotatorSystem(world)
	s.drifter = systems.NewDrifterSystem(world, s.rng)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	s.output = om
	if err := s.output.WriteConfig(cfg); err != nil {
		return nil, err
	}

	s.LoadArena()
	s.Start()

	return s, nil
}

// Start subscribes all systems to the tick source in pipeline order:
// transformers write velocities, the integrator consumes them, telemetry
// reads the outcome. Phase markers interleave so the perf collector can
// attribute time.
func (s *Sim) Start() {
	if s.running {
		return
	}
	s.unsubs = append(s.unsubs, s.clock.Subscribe(func(float32) {
		s.perf.StartPhase(telemetry.PhaseRotator)
	}))
	s.rotator.Start(s.clock)
	s.unsubs = append(s.unsubs, s.clock.Subscribe(func(float32) {
		s.perf.StartPhase(telemetry.PhaseDrifter)
	}))
	s.drifter.Start(s.clock)
	s.unsubs = append(s.unsubs, s.clock.Subscribe(func(float32) {
		s.perf.StartPhase(telemetry.PhaseIntegrator)
	}))
	s.integrator.Start(s.clock)
	s.unsubs = append(s.unsubs, s.clock.Subscribe(func(float32) {
		s.perf.StartPhase(telemetry.PhaseTelemetry)
	}))
	s.unsubs = append(s.unsubs, s.clock.Subscribe(s.collectTick))
	s.collision.Start(s.clock)
	s.running = true
}

// Stop unsubscribes everything from the tick source. In-flight ticks always
// complete; there is no mid-loop cancellation.
func (s *Sim) Stop() {
	if !s.running {
		return
	}
	s.rotator.Stop()
	s.drifter.Stop()
	s.integrator.Stop()
	s.collision.Stop()
	for _, u := range s.unsubs {
		u()
	}
	s.unsubs = nil
	s.running = false
}

// Tick returns the current simulation tick.
func (s *Sim) Tick() int32 {
	return s.tick
}

// Paused reports whether Update advances the simulation.
func (s *Sim) Paused() bool {
	return s.paused
}

// TogglePause flips the pause state.
func (s *Sim) TogglePause() {
	s.paused = !s.paused
}

// Speed returns the simulation speed multiplier.
func (s *Sim) Speed() int {
	return s.speed
}

// SetSpeed sets the steps per Update call, clamped to [1, 10].
func (s *Sim) SetSpeed(n int) {
	if n < 1 {
		n = 1
	}
	if n > 10 {
		n = 10
	}
	s.speed = n
}

// Bounce reports whether impulse bouncing is active.
func (s *Sim) Bounce() bool {
	return s.bounce
}

// SetBounce switches between impulse bouncing and the clamp-only fallback.
func (s *Sim) SetBounce(b bool) {
	s.bounce = b
	s.integrator.SetBoundary(s.bounds, b)
}

// Bounds returns the arena limit for the pose anchor.
func (s *Sim) Bounds() geom.AABB {
	return s.bounds
}

// ItemCount returns the number of tracked items.
func (s *Sim) ItemCount() int {
	return s.itemCount
}

// RestingCount returns how many items took the resting branch last tick.
func (s *Sim) RestingCount() int {
	return s.integrator.Stats().Resting
}

// Contact returns the live boundary contact record for an item, or nil.
func (s *Sim) Contact(e ecs.Entity) *systems.BoundaryRestingContact {
	return s.integrator.Contact(e)
}

// Store exposes the physics state store for transformers and tests.
func (s *Sim) Store() *systems.Store {
	return s.store
}

// Registry returns the system metadata registry.
func (s *Sim) Registry() *systems.SystemRegistry {
	return s.registry
}

// EachItem calls fn for every item with its pose. Rendering reads poses
// through this; nothing outside the integrator may write them.
func (s *Sim) EachItem(fn func(e ecs.Entity, pose *components.Pose, item *components.Item)) {
	query := s.itemFilter.Query()
	for query.Next() {
		pose, item := query.Get()
		fn(query.Entity(), pose, item)
	}
}

// Unload flushes and closes run outputs.
func (s *Sim) Unload() {
	s.Stop()
	if err := s.output.Close(); err != nil {
		Logf("closing output: %v", err)
	}
}
