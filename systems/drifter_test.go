package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/gridarena/components"
	"github.com/pthm-cable/gridarena/geom"
)

func newDrifterFixture(t *testing.T, drift components.Drift, pose components.Pose) (*DrifterSystem, *ecs.Map1[components.PhysicsState], *ecs.Map1[components.Drift], ecs.Entity) {
	t.Helper()
	world := ecs.NewWorld()
	drifter := NewDrifterSystem(world, rand.New(rand.NewSource(7)))
	drifter.SetBoundary(geom.AABB{MinX: 0, MinY: 0, MaxX: 23, MaxY: 15})

	mapper := ecs.NewMap3[components.Drift, components.Pose, components.PhysicsState](world)
	e := mapper.NewEntity(&drift, &pose, &components.PhysicsState{})

	return drifter, ecs.NewMap1[components.PhysicsState](world), ecs.NewMap1[components.Drift](world), e
}

func TestDrifterPicksInitialDirection(t *testing.T) {
	drifter, states, drifts, e := newDrifterFixture(t,
		components.Drift{Speed: 2, RetargetSec: 5, Margin: 1},
		components.Pose{X: 10, Y: 8, W: 1, H: 1},
	)

	drifter.Update(1.0 / 60)

	st := states.Get(e)
	speed := math.Hypot(float64(st.VX), float64(st.VY))
	if math.Abs(speed-2) > tol {
		t.Fatalf("drift speed = %v, want 2", speed)
	}
	if drifts.Get(e).Timer <= 0 {
		t.Fatal("retarget timer not armed")
	}
	if got := drifter.Retargets(); got != 1 {
		t.Fatalf("retargets = %d, want 1", got)
	}
}

func TestDrifterRetargetsOnTimerExpiry(t *testing.T) {
	drifter, _, drifts, e := newDrifterFixture(t,
		components.Drift{Speed: 2, RetargetSec: 5, Margin: 1},
		components.Pose{X: 10, Y: 8, W: 1, H: 1},
	)

	drifter.Update(1.0 / 60)
	drifter.Retargets()

	// Force expiry and tick again.
	drifts.Get(e).Timer = 0.001
	drifter.Update(1.0 / 60)

	if got := drifter.Retargets(); got != 1 {
		t.Fatalf("retargets after expiry = %d, want 1", got)
	}
	d := drifts.Get(e)
	// Jittered interval stays within [0.5, 1.5] of the mean.
	if d.Timer < 2.5-tol || d.Timer > 7.5+tol {
		t.Fatalf("retarget timer %v outside jitter range", d.Timer)
	}
}

func TestDrifterAvoidsWalls(t *testing.T) {
	tests := []struct {
		name  string
		pose  components.Pose
		dirX  float32
		dirY  float32
		check func(t *testing.T, vx, vy float32)
	}{
		{
			name: "left wall flips x",
			pose: components.Pose{X: 0.5, Y: 8, W: 1, H: 1},
			dirX: -1, dirY: 0,
			check: func(t *testing.T, vx, vy float32) {
				if vx <= 0 {
					t.Fatalf("expected positive VX away from left wall, got %v", vx)
				}
			},
		},
		{
			name: "right wall flips x",
			pose: components.Pose{X: 22.5, Y: 8, W: 1, H: 1},
			dirX: 1, dirY: 0,
			check: func(t *testing.T, vx, vy float32) {
				if vx >= 0 {
					t.Fatalf("expected negative VX away from right wall, got %v", vx)
				}
			},
		},
		{
			name: "floor flips y",
			pose: components.Pose{X: 10, Y: 14.5, W: 1, H: 1},
			dirX: 0, dirY: 1,
			check: func(t *testing.T, vx, vy float32) {
				if vy >= 0 {
					t.Fatalf("expected negative VY away from floor, got %v", vy)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			drifter, states, _, e := newDrifterFixture(t,
				components.Drift{
					Speed: 2, RetargetSec: 5, Margin: 1,
					Timer: 100, DirX: tc.dirX, DirY: tc.dirY,
				},
				tc.pose,
			)

			drifter.Update(1.0 / 60)

			st := states.Get(e)
			tc.check(t, st.VX, st.VY)
		})
	}
}

func TestDrifterZeroDTIsNoOp(t *testing.T) {
	drifter, states, _, e := newDrifterFixture(t,
		components.Drift{Speed: 2, RetargetSec: 5, Margin: 1},
		components.Pose{X: 10, Y: 8, W: 1, H: 1},
	)

	drifter.Update(0)

	st := states.Get(e)
	if st.VX != 0 || st.VY != 0 {
		t.Fatalf("zero dt wrote velocity: (%v, %v)", st.VX, st.VY)
	}
	if got := drifter.Retargets(); got != 0 {
		t.Fatalf("zero dt retargeted: %d", got)
	}
}
