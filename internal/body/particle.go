package body

// Particle is one body of the simulation. Acceleration is persistent state:
// the leapfrog scheme needs the previous step's value for its first
// half-kick, so it is carried in the buffer rather than recomputed.
//
// The stored acceleration is pre-scaled by dt (the force sum is folded with
// the timestep inside the kernels). Kicks therefore add Acc/2, not Acc*dt/2.
type Particle struct {
	Pos  Vec3
	Vel  Vec3
	Acc  Vec3
	Mass float32
}

func (p Particle) IsFinite() bool {
	return p.Pos.IsFinite() && p.Vel.IsFinite() && p.Acc.IsFinite()
}

// Buffers holds the double-buffered particle state. During a step the source
// slice is an immutable snapshot and the destination is write-only, with each
// dispatched invocation writing exactly its own index. Swap after the step
// completes; never mutate in place.
type Buffers struct {
	bufs [2][]Particle
	cur  int
}

func NewBuffers(particles []Particle) *Buffers {
	b := &Buffers{}
	b.bufs[0] = particles
	b.bufs[1] = make([]Particle, len(particles))
	return b
}

func (b *Buffers) Len() int        { return len(b.bufs[0]) }
func (b *Buffers) Src() []Particle { return b.bufs[b.cur] }
func (b *Buffers) Dst() []Particle { return b.bufs[1-b.cur] }

func (b *Buffers) Swap() { b.cur = 1 - b.cur }

// Finite reports whether every particle in the slice holds finite state.
// A NaN or Inf anywhere means a numerical blow-up that would silently
// propagate through all subsequent steps.
func Finite(ps []Particle) bool {
	for i := range ps {
		if !ps[i].IsFinite() {
			return false
		}
	}
	return true
}
