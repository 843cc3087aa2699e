package force

import "github.com/san-kum/gravsim/internal/body"

// Kick-drift-kick. The stored acceleration is the force sum already folded
// with dt, so the half-kicks add acc/2 rather than acc*dt/2. Folding dt into
// the sum reproduces the original kernel convention; it is equivalent to
// textbook velocity-Verlet as long as dt is fixed for the run.

// halfKickDrift applies the first half-kick using the previous step's
// acceleration, then drifts the position. Returns drifted position and
// half-kicked velocity.
func halfKickDrift(p body.Particle, dt float32) (pos, vel body.Vec3) {
	vel = p.Vel.Add(p.Acc.Scale(0.5))
	pos = p.Pos.Add(vel.Scale(dt))
	return pos, vel
}

// finishKick applies the second half-kick with the freshly evaluated,
// dt-scaled acceleration.
func finishKick(vel, acc body.Vec3) body.Vec3 {
	return vel.Add(acc.Scale(0.5))
}
