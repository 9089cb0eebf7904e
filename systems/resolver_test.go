package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/gridarena/components"
	"github.com/pthm-cable/gridarena/geom"
)

const tol = 1e-4

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < tol
}

func unitBox() geom.OBB {
	return geom.OBB{CX: 5, CY: 5, HalfW: 1, HalfH: 1}
}

func TestResolveHeadOnReflection(t *testing.T) {
	floor := geom.Vec2{X: 0, Y: -1}

	tests := []struct {
		name        string
		restitution float32
		vy          float32
		wantVY      float32
	}{
		{"perfect bounce", 1.0, 2, -2},
		{"lossy bounce", 0.85, 2, -1.7},
		{"half bounce", 0.5, 10, -5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := &components.PhysicsState{VY: tc.vy, Restitution: tc.restitution}
			ResolveBoundaryCollision(st, unitBox(), floor, 0)

			if !approx(st.VY, tc.wantVY) {
				t.Errorf("VY = %v, want %v", st.VY, tc.wantVY)
			}
			if !approx(st.VX, 0) {
				t.Errorf("VX = %v, want 0", st.VX)
			}
		})
	}
}

func TestResolveSeparatingIsNoOp(t *testing.T) {
	st := &components.PhysicsState{VX: 3, VY: -2, Omega: 30, Restitution: 0.85, Friction: 0.8}
	before := *st

	// Moving away from the floor: nothing to resolve.
	ResolveBoundaryCollision(st, unitBox(), geom.Vec2{X: 0, Y: -1}, 0.25)

	if *st != before {
		t.Fatalf("separating contact mutated state: %+v -> %+v", before, *st)
	}
}

func TestResolveFrictionDampsTangent(t *testing.T) {
	st := &components.PhysicsState{VX: 4, VY: 2, Restitution: 1, Friction: 0.5}

	ResolveBoundaryCollision(st, unitBox(), geom.Vec2{X: 0, Y: -1}, 0)

	// Tangent along the floor is x; half the slide survives.
	if !approx(st.VX, 2) {
		t.Errorf("VX = %v, want 2", st.VX)
	}
	if !approx(st.VY, -2) {
		t.Errorf("VY = %v, want -2", st.VY)
	}
}

func TestResolveSettlesDeadMaterial(t *testing.T) {
	// Near-zero restitution closing slowly: the bounce is suppressed
	// entirely instead of producing a micro-rebound.
	st := &components.PhysicsState{VY: 0.1, Restitution: 0.01}

	ResolveBoundaryCollision(st, unitBox(), geom.Vec2{X: 0, Y: -1}, 0)

	if st.VY != 0 {
		t.Fatalf("expected suppressed rebound, got VY = %v", st.VY)
	}
}

func TestResolveSpinToSlide(t *testing.T) {
	st := &components.PhysicsState{VY: 2, Omega: 90, Restitution: 1}

	ResolveBoundaryCollision(st, unitBox(), geom.Vec2{X: 0, Y: -1}, 0.25)

	// Rim speed at the floor contact: 90 deg/s over a 1-cell extent.
	rim := float32(90 * math.Pi / 180)
	if !approx(st.VX, rim*0.25) {
		t.Errorf("VX = %v, want %v", st.VX, rim*0.25)
	}
	if !approx(st.Omega, 67.5) {
		t.Errorf("Omega = %v, want 67.5", st.Omega)
	}
	if !approx(st.VY, -2) {
		t.Errorf("VY = %v, want -2", st.VY)
	}
}

func TestResolveClampsCoefficients(t *testing.T) {
	// Out-of-range material values are clamped, not trusted.
	st := &components.PhysicsState{VY: 2, Restitution: 1.8, Friction: -0.5}

	ResolveBoundaryCollision(st, unitBox(), geom.Vec2{X: 0, Y: -1}, 0)

	if !approx(st.VY, -2) {
		t.Errorf("restitution not clamped to 1: VY = %v", st.VY)
	}
}

func TestResolveSideWall(t *testing.T) {
	// Right wall pushes in -x; tangent handling must be axis-agnostic.
	st := &components.PhysicsState{VX: 3, VY: 1, Restitution: 0.5, Friction: 0}

	ResolveBoundaryCollision(st, unitBox(), geom.Vec2{X: -1, Y: 0}, 0)

	if !approx(st.VX, -1.5) {
		t.Errorf("VX = %v, want -1.5", st.VX)
	}
	if !approx(st.VY, 1) {
		t.Errorf("VY = %v, want 1", st.VY)
	}
}
