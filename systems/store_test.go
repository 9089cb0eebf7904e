package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/gridarena/components"
)

func testDefaults() Material {
	return Material{Restitution: 0.85, Friction: 0.8}
}

func newStoreEntity(t *testing.T) (*ecs.World, *Store, ecs.Entity) {
	t.Helper()
	world := ecs.NewWorld()
	store := NewStore(world, testDefaults())
	poses := ecs.NewMap1[components.Pose](world)
	e := poses.NewEntity(&components.Pose{X: 1, Y: 1, W: 1, H: 1})
	return world, store, e
}

func TestStoreRegisterDefaults(t *testing.T) {
	_, store, e := newStoreEntity(t)

	store.Register(e, nil)

	st := store.State(e)
	if st == nil {
		t.Fatal("expected state after registration")
	}
	if st.Restitution != 0.85 || st.Friction != 0.8 {
		t.Fatalf("expected default material, got restitution=%v friction=%v", st.Restitution, st.Friction)
	}
	if st.VX != 0 || st.VY != 0 || st.Omega != 0 {
		t.Fatalf("expected zeroed velocity, got (%v, %v, %v)", st.VX, st.VY, st.Omega)
	}
}

func TestStoreRegisterMaterial(t *testing.T) {
	_, store, e := newStoreEntity(t)

	store.Register(e, &Material{Restitution: 0.2, Friction: 0.5, LinearDamping: 1.5})

	st := store.State(e)
	if st.Restitution != 0.2 || st.Friction != 0.5 || st.LinearDamping != 1.5 {
		t.Fatalf("material not applied: %+v", st)
	}
}

func TestStoreRegisterIdempotent(t *testing.T) {
	_, store, e := newStoreEntity(t)

	store.Register(e, nil)
	store.SetVelocity(e, 3, 4)

	// Re-registering must not reset the existing state.
	store.Register(e, &Material{Restitution: 0.1})

	st := store.State(e)
	if st.VX != 3 || st.VY != 4 {
		t.Fatalf("re-registration reset velocity: (%v, %v)", st.VX, st.VY)
	}
	if st.Restitution != 0.85 {
		t.Fatalf("re-registration replaced material: %v", st.Restitution)
	}
}

func TestStoreUnregistered(t *testing.T) {
	_, store, e := newStoreEntity(t)

	if st := store.State(e); st != nil {
		t.Fatalf("expected nil state for unregistered item, got %+v", st)
	}

	// Writes to unregistered items are ignored, reads are zero.
	store.SetVelocity(e, 5, 5)
	store.SetAngular(e, 90)
	vx, vy := store.Velocity(e)
	if vx != 0 || vy != 0 {
		t.Fatalf("expected zero velocity for unregistered item, got (%v, %v)", vx, vy)
	}
}

func TestStoreVelocityRoundTrip(t *testing.T) {
	_, store, e := newStoreEntity(t)
	store.Register(e, nil)

	store.SetVelocity(e, -2.5, 7)
	store.SetAngular(e, 45)

	vx, vy := store.Velocity(e)
	if vx != -2.5 || vy != 7 {
		t.Fatalf("velocity round trip failed: (%v, %v)", vx, vy)
	}
	if store.State(e).Omega != 45 {
		t.Fatalf("angular round trip failed: %v", store.State(e).Omega)
	}
}
