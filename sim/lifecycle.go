package sim

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/gridarena/components"
	"github.com/pthm-cable/gridarena/config"
	"github.com/pthm-cable/gridarena/geom"
	"github.com/pthm-cable/gridarena/systems"
)

// LoadArena installs the boundary from the configured grid size and spawns
// the item archetypes. The boundary constrains the pose anchor, so the max
// sides sit one cell inside the grid.
func (s *Sim) LoadArena() {
	cfg := s.cfg

	s.bounds = geom.AABB{
		MinX: 0,
		MinY: 0,
		MaxX: float32(cfg.Arena.Width - 1),
		MaxY: float32(cfg.Arena.Height - 1),
	}
	s.bounce = cfg.Arena.Bounce
	s.integrator.SetBoundary(s.bounds, s.bounce)
	s.drifter.SetBoundary(s.bounds)
	s.collision.SetRestitutionDefault(float32(cfg.Physics.RestitutionDefault))

	var spawned []ecs.Entity
	for i := range cfg.Items {
		arch := &cfg.Items[i]
		for n := 0; n < arch.Count; n++ {
			spawned = append(spawned, s.spawnItem(arch))
		}
	}
	s.collision.AddMany(spawned)

	slog.Info("arena loaded",
		"width", cfg.Arena.Width,
		"height", cfg.Arena.Height,
		"bounce", s.bounce,
		"items", s.itemCount,
	)
}

// spawnItem creates one item from an archetype at a random free position.
func (s *Sim) spawnItem(arch *config.ItemConfig) ecs.Entity {
	id := s.nextID
	s.nextID++

	// Sizes are coerced here, at the config edge; the physics core assumes
	// non-negative extents.
	w := float32(arch.Width)
	h := float32(arch.Height)
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	pose := components.Pose{
		X: s.bounds.MinX + s.rng.Float32()*s.bounds.Width(),
		Y: s.bounds.MinY + s.rng.Float32()*s.bounds.Height(),
		W: w,
		H: h,
	}
	item := components.Item{ID: id, Kind: parseKind(arch.Kind)}
	if item.Kind == components.KindAvatar {
		// The avatar starts centered rather than scattered.
		pose.X = s.bounds.MinX + s.bounds.Width()/2
		pose.Y = s.bounds.MinY + s.bounds.Height()/2
	}

	entity := s.entityMapper.NewEntity(&pose, &item)

	var mat *systems.Material
	if m := s.cfg.Material(arch.Material); m != nil {
		mat = &systems.Material{
			Restitution:    float32(m.Restitution),
			Friction:       float32(m.Friction),
			LinearDamping:  float32(m.LinearDamping),
			AngularDamping: float32(m.AngularDamping),
		}
	}
	s.store.Register(entity, mat)

	if arch.CollisionBox != nil {
		box := components.CollisionBox{
			OffsetX:  float32(arch.CollisionBox.OffsetX),
			OffsetY:  float32(arch.CollisionBox.OffsetY),
			HalfW:    float32(arch.CollisionBox.HalfW),
			HalfH:    float32(arch.CollisionBox.HalfH),
			Rotation: float32(arch.CollisionBox.Rotation),
		}
		s.boxMap.Add(entity, &box)
	}
	if arch.Spin != 0 {
		spin := components.Spin{RateDegPerSec: float32(arch.Spin)}
		s.spinMap.Add(entity, &spin)
	}
	if arch.Drift != nil {
		drift := components.Drift{
			Speed:       float32(arch.Drift.Speed),
			RetargetSec: float32(arch.Drift.RetargetSec),
			Margin:      float32(arch.Drift.Margin),
		}
		if drift.Speed == 0 {
			drift.Speed = float32(s.cfg.Drifter.Speed)
		}
		if drift.RetargetSec == 0 {
			drift.RetargetSec = float32(s.cfg.Drifter.RetargetSec)
		}
		if drift.Margin == 0 {
			drift.Margin = float32(s.cfg.Drifter.Margin)
		}
		s.driftMap.Add(entity, &drift)
	}

	s.itemCount++
	return entity
}

// Clear drops all tracked items and resting-contact state, e.g. before a
// map reload.
func (s *Sim) Clear() {
	// Collect first: removal must not race the query iteration.
	var toRemove []ecs.Entity
	query := s.itemFilter.Query()
	for query.Next() {
		toRemove = append(toRemove, query.Entity())
	}
	for _, e := range toRemove {
		s.world.RemoveEntity(e)
	}
	s.itemCount = 0
	s.integrator.Clear()
	s.collision.Clear()
}

// Reload clears the world and loads the arena again from config.
func (s *Sim) Reload() {
	s.Clear()
	s.LoadArena()
}

// parseKind maps a config kind name onto the closed kind set. Unknown names
// fall back to obstacle.
func parseKind(name string) components.Kind {
	switch name {
	case "target":
		return components.KindTarget
	case "avatar":
		return components.KindAvatar
	default:
		return components.KindObstacle
	}
}
