package systems

import "github.com/mlange-42/ark/ecs"

// CollisionHandler is the contract for the item-item collision collaborator.
// The core never resolves item-item contacts itself; it only shares the
// physics state store with a handler and drives its lifecycle: items are
// added as they spawn, Clear is called on map reload, and Start/Stop are
// independent of the integrator's own lifecycle.
type CollisionHandler interface {
	SetRestitutionDefault(r float32)
	Add(e ecs.Entity)
	AddMany(items []ecs.Entity)
	Start(src TickSource)
	Stop()
	Clear()
}

// NopCollisionHandler satisfies CollisionHandler for arenas that run without
// item-item resolution.
type NopCollisionHandler struct{}

func (NopCollisionHandler) SetRestitutionDefault(float32) {}
func (NopCollisionHandler) Add(ecs.Entity)                {}
func (NopCollisionHandler) AddMany([]ecs.Entity)          {}
func (NopCollisionHandler) Start(TickSource)              {}
func (NopCollisionHandler) Stop()                         {}
func (NopCollisionHandler) Clear()                        {}
