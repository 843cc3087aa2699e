package compute

import "github.com/san-kum/gravsim/internal/body"

// ParticleStride is the number of float32 components per particle in the
// flat device layout: position, velocity, acceleration, mass.
const ParticleStride = 10

// Flatten packs particles into the flat float32 layout shared by the CUDA
// and OpenGL backends. Reuses buf when it is large enough.
func Flatten(ps []body.Particle, buf []float32) []float32 {
	need := len(ps) * ParticleStride
	if cap(buf) < need {
		buf = make([]float32, need)
	}
	buf = buf[:need]
	for i := range ps {
		o := i * ParticleStride
		p := &ps[i]
		buf[o+0], buf[o+1], buf[o+2] = p.Pos.X, p.Pos.Y, p.Pos.Z
		buf[o+3], buf[o+4], buf[o+5] = p.Vel.X, p.Vel.Y, p.Vel.Z
		buf[o+6], buf[o+7], buf[o+8] = p.Acc.X, p.Acc.Y, p.Acc.Z
		buf[o+9] = p.Mass
	}
	return buf
}

// Unflatten unpacks the flat layout back into dst.
func Unflatten(buf []float32, dst []body.Particle) {
	for i := range dst {
		o := i * ParticleStride
		dst[i] = body.Particle{
			Pos:  body.Vec3{X: buf[o+0], Y: buf[o+1], Z: buf[o+2]},
			Vel:  body.Vec3{X: buf[o+3], Y: buf[o+4], Z: buf[o+5]},
			Acc:  body.Vec3{X: buf[o+6], Y: buf[o+7], Z: buf[o+8]},
			Mass: buf[o+9],
		}
	}
}
