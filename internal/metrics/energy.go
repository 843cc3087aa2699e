package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/force"
)

// Energy reports the mean total energy observed over a run.
type Energy struct {
	g, e    float32
	samples int
	total   float64
}

func NewEnergy(g, e float32) *Energy {
	return &Energy{g: g, e: e}
}

func (m *Energy) Name() string { return "energy" }

func (m *Energy) Observe(ps []body.Particle, t float64) {
	m.total += force.TotalEnergy(ps, m.g, m.e)
	m.samples++
}

func (m *Energy) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *Energy) Reset() {
	m.total = 0
	m.samples = 0
}

// EnergyDrift tracks the worst relative deviation from the initial energy.
// Leapfrog is symplectic: this should stay small and bounded, not grow
// without limit, for a stable dt.
type EnergyDrift struct {
	g, e     float32
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(g, e float32) *EnergyDrift {
	return &EnergyDrift{g: g, e: e}
}

func (m *EnergyDrift) Name() string { return "energy_drift" }

func (m *EnergyDrift) Observe(ps []body.Particle, t float64) {
	energy := force.TotalEnergy(ps, m.g, m.e)
	if m.samples == 0 {
		m.initial = energy
	}
	m.samples++

	if m.initial != 0 {
		drift := math.Abs(energy-m.initial) / math.Abs(m.initial)
		m.maxDrift = math.Max(m.maxDrift, drift)
	}
}

func (m *EnergyDrift) Value() float64 { return m.maxDrift }

func (m *EnergyDrift) Reset() {
	m.initial = 0
	m.maxDrift = 0
	m.samples = 0
}
