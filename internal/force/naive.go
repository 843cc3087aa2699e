package force

import (
	"math"

	"github.com/san-kum/gravsim/internal/body"
)

// Naive is the brute-force all-pairs kernel: O(N) per invocation, O(N^2) per
// dispatch. It serves as the accuracy reference for the Barnes-Hut kernel.
type Naive struct {
	Params SimParams
}

func NewNaive(p SimParams) *Naive {
	return &Naive{Params: p}
}

func (k *Naive) Name() string { return "naive" }

// Invoke advances particle gid by one leapfrog step against the full source
// snapshot and writes the result to dst[gid]. Invocations beyond the
// particle count return immediately; the dispatch grid may over-provision.
func (k *Naive) Invoke(gid int, src, dst []body.Particle) {
	p := k.Params
	if gid >= int(p.N) {
		return
	}

	me := src[gid]
	pos, vel := halfKickDrift(me, p.Dt)

	var sum body.Vec3
	for j := 0; j < int(p.N); j++ {
		if j == gid {
			continue
		}
		dr := src[j].Pos.Sub(pos)
		r := dr.Length()
		// g / (r^3 + e) * dr has magnitude g/(r^2 + e/r): inverse-square
		// with the blow-up at r->0 capped by the softening term.
		w := p.G * src[j].Mass / (r*r*r + p.E)
		sum = sum.Add(dr.Scale(w))
	}

	acc := sum.Scale(p.Dt)
	dst[gid] = body.Particle{
		Pos:  pos,
		Vel:  finishKick(vel, acc),
		Acc:  acc,
		Mass: me.Mass,
	}
}

// PairAccel returns the dt-scaled acceleration a single source mass at bpos
// exerts on a body at apos. Exposed for the diagnostics and tests that check
// the force law directly.
func PairAccel(apos, bpos body.Vec3, mass float32, p SimParams) body.Vec3 {
	dr := bpos.Sub(apos)
	r := float32(math.Sqrt(float64(dr.LengthSq())))
	return dr.Scale(p.G * mass / (r*r*r + p.E) * p.Dt)
}
