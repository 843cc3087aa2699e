package force

import (
	"math"

	"github.com/san-kum/gravsim/internal/body"
)

// Diagnostics accumulate in float64: the conserved quantities drift at
// float32 resolution over long runs and the metrics should not add noise of
// their own.

// TotalEnergy returns kinetic plus softened potential energy of the system.
func TotalEnergy(ps []body.Particle, g, e float32) float64 {
	ke := 0.0
	pe := 0.0
	soft := math.Cbrt(float64(e))

	for i := range ps {
		v := float64(ps[i].Vel.LengthSq())
		ke += 0.5 * float64(ps[i].Mass) * v

		for j := i + 1; j < len(ps); j++ {
			r := float64(body.Dist(ps[i].Pos, ps[j].Pos))
			pe -= float64(g) * float64(ps[i].Mass) * float64(ps[j].Mass) / (r + soft)
		}
	}
	return ke + pe
}

// Momentum returns the total linear momentum vector.
func Momentum(ps []body.Particle) (px, py, pz float64) {
	for i := range ps {
		m := float64(ps[i].Mass)
		px += m * float64(ps[i].Vel.X)
		py += m * float64(ps[i].Vel.Y)
		pz += m * float64(ps[i].Vel.Z)
	}
	return px, py, pz
}

// AngularMomentum returns the total angular momentum about the origin.
func AngularMomentum(ps []body.Particle) (lx, ly, lz float64) {
	for i := range ps {
		m := float64(ps[i].Mass)
		p := ps[i].Pos
		v := ps[i].Vel
		lx += m * (float64(p.Y)*float64(v.Z) - float64(p.Z)*float64(v.Y))
		ly += m * (float64(p.Z)*float64(v.X) - float64(p.X)*float64(v.Z))
		lz += m * (float64(p.X)*float64(v.Y) - float64(p.Y)*float64(v.X))
	}
	return lx, ly, lz
}
