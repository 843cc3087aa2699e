package compute

import (
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/force"
)

// Backend executes one all-pairs force-integration dispatch. The Barnes-Hut
// kernel always runs on the CPU grid; accelerated backends cover the
// brute-force kernel, where the O(N^2) inner loop dominates.
type Backend interface {
	Name() string
	Available() bool
	// Step reads the source snapshot and fully overwrites dst.
	Step(src, dst []body.Particle, p force.SimParams)
	Cleanup()
}

var activeBackend Backend

func init() {
	activeBackend = AutoSelectBackend()
}

func SetBackend(b Backend) {
	if activeBackend != nil {
		activeBackend.Cleanup()
	}
	activeBackend = b
}

func GetBackend() Backend {
	return activeBackend
}

func AutoSelectBackend() Backend {
	cuda := NewCUDABackend()
	if cuda.Available() {
		return cuda
	}
	return NewCPUBackend()
}
