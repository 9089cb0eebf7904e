package systems

import (
	"github.com/pthm-cable/gridarena/components"
	"github.com/pthm-cable/gridarena/geom"
)

// Settling thresholds: a near-dead material closing slowly is not worth a
// bounce, it would only feed the jitter the resting branch exists to kill.
const (
	settleRestitution = 0.05
	settleSpeed       = 0.3 // cells/s
)

// ResolveBoundaryCollision turns a boundary contact into updated linear and
// angular velocity, mutating the state in place. normal is the unit inward
// push direction from the containment test.
//
// The velocity decomposes against the normal: the normal component reflects
// scaled by restitution, the tangential component loses a friction fraction,
// and spin couples into the tangent at the oriented box's contact point while
// the angular velocity bleeds proportionally. Momentum is partially
// conserved, partially dissipated, and some rotational energy turns into
// translation.
func ResolveBoundaryCollision(st *components.PhysicsState, box geom.OBB, normal geom.Vec2, spinCoupling float32) {
	restitution := clamp01(st.Restitution)
	friction := clamp01(st.Friction)

	v := geom.Vec2{X: st.VX, Y: st.VY}
	vn := v.Dot(normal)
	if vn >= 0 {
		// Already separating; nothing to resolve.
		return
	}

	tangent := normal.Perp()
	vt := v.Dot(tangent)

	newVN := -restitution * vn
	if restitution < settleRestitution && -vn < settleSpeed {
		newVN = 0
	}

	newVT := vt * (1 - friction)

	// Spin-to-slide: the rim speed at the contact point slides against the
	// wall, and friction drags the body along the tangent. The contact point
	// offset comes from the oriented box, not the visual size.
	r := box.SupportExtent(normal.Scale(-1))
	rim := st.Omega * degToRad * r
	newVT += rim * spinCoupling
	st.Omega *= 1 - spinCoupling

	st.VX = normal.X*newVN + tangent.X*newVT
	st.VY = normal.Y*newVN + tangent.Y*newVT
}
