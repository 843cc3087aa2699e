package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/force"
)

// MomentumDrift tracks the worst absolute deviation of total linear momentum
// from its initial value. Gravity is internal to the system, so momentum is
// conserved up to floating-point rounding.
type MomentumDrift struct {
	initial  [3]float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{}
}

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(ps []body.Particle, t float64) {
	px, py, pz := force.Momentum(ps)
	if m.samples == 0 {
		m.initial = [3]float64{px, py, pz}
	}
	m.samples++

	dx := px - m.initial[0]
	dy := py - m.initial[1]
	dz := pz - m.initial[2]
	drift := math.Sqrt(dx*dx + dy*dy + dz*dz)
	m.maxDrift = math.Max(m.maxDrift, drift)
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = [3]float64{}
	m.maxDrift = 0
	m.samples = 0
}
