package force

import (
	"fmt"

	"github.com/san-kum/gravsim/internal/body"
)

// SimParams are the uniform scalars broadcast to every invocation of a
// dispatch. Immutable while a dispatch is in flight.
type SimParams struct {
	N  uint32  // particle count; invocations with gid >= N are no-ops
	G  float32 // gravitational constant
	E  float32 // softening term, must be positive
	Dt float32 // timestep
}

// TreeParams are the Barnes-Hut specific uniforms. RootWidth is rewritten by
// the tree builder every step from the current particle bounds.
type TreeParams struct {
	Theta     float32 // opening-angle threshold; 0 degenerates to all-pairs cost
	RootWidth float32
}

func (p SimParams) Validate() error {
	if p.E <= 0 {
		return fmt.Errorf("%w: softening e=%v must be positive", body.ErrParameterBounds, p.E)
	}
	if p.Dt <= 0 {
		return fmt.Errorf("%w: timestep dt=%v must be positive", body.ErrParameterBounds, p.Dt)
	}
	return nil
}

func (p TreeParams) Validate() error {
	if p.Theta < 0 {
		return fmt.Errorf("%w: theta=%v must be non-negative", body.ErrParameterBounds, p.Theta)
	}
	return nil
}

// Kernel is one force-integration kernel: a pure function from the source
// snapshot to a single destination element. Invoke must write dst[gid] and
// nothing else, and must be a no-op for gid >= N.
type Kernel interface {
	Name() string
	Invoke(gid int, src, dst []body.Particle)
}
