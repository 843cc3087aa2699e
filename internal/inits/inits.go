// Package inits generates initial particle distributions. All generators
// are deterministic for a given seed and produce unit masses; callers that
// want non-uniform masses rescale afterwards.
package inits

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/gravsim/internal/body"
)

type Generator func(n int, seed int64) []body.Particle

// Uniform fills the [-1,1] cube with bodies carrying tiny random velocities.
func Uniform(n int, seed int64) []body.Particle {
	rng := rand.New(rand.NewSource(seed))
	ps := make([]body.Particle, n)
	for i := range ps {
		ps[i] = body.Particle{
			Pos: body.Vec3{
				X: unit(rng),
				Y: unit(rng),
				Z: unit(rng),
			},
			Vel: body.Vec3{
				X: unit(rng) * 0.001,
				Y: unit(rng) * 0.001,
				Z: unit(rng) * 0.001,
			},
			Mass: 1,
		}
	}
	return ps
}

// Disc scatters bodies over the unit disc in the z=0 plane with a tangential
// velocity falling off from the center, which settles into slow rotation.
func Disc(n int, seed int64) []body.Particle {
	const coeff = 0.05
	rng := rand.New(rand.NewSource(seed))
	ps := make([]body.Particle, n)
	for i := range ps {
		pos := body.Vec3{X: unit(rng), Y: unit(rng)}
		for pos.Length() > 1 {
			pos = body.Vec3{X: unit(rng), Y: unit(rng)}
		}
		r := pos.Length()
		// Tangent in the plane: r x z.
		tangent := body.Vec3{X: pos.Y, Y: -pos.X}
		if tl := tangent.Length(); tl > 0 {
			tangent = tangent.Scale(1 / tl)
		}
		speed := coeff / (float32(math.Sqrt(float64(r))) + 0.001)
		ps[i] = body.Particle{
			Pos:  pos,
			Vel:  tangent.Scale(speed),
			Mass: 1,
		}
	}
	return ps
}

// TwoBody is the canonical sanity scenario: unit masses at the origin and
// (1,0,0), at rest. With g=1, e=0.01, dt=0.01 they drift symmetrically
// toward each other.
func TwoBody(n int, seed int64) []body.Particle {
	return []body.Particle{
		{Pos: body.Vec3{}, Mass: 1},
		{Pos: body.Vec3{X: 1}, Mass: 1},
	}
}

// Cluster is a Gaussian ball with small isotropic velocities.
func Cluster(n int, seed int64) []body.Particle {
	rng := rand.New(rand.NewSource(seed))
	ps := make([]body.Particle, n)
	for i := range ps {
		ps[i] = body.Particle{
			Pos: body.Vec3{
				X: float32(rng.NormFloat64()) * 0.3,
				Y: float32(rng.NormFloat64()) * 0.3,
				Z: float32(rng.NormFloat64()) * 0.3,
			},
			Vel: body.Vec3{
				X: float32(rng.NormFloat64()) * 0.002,
				Y: float32(rng.NormFloat64()) * 0.002,
				Z: float32(rng.NormFloat64()) * 0.002,
			},
			Mass: 1,
		}
	}
	return ps
}

func Get(name string) (Generator, error) {
	switch name {
	case "uniform":
		return Uniform, nil
	case "disc":
		return Disc, nil
	case "two_body":
		return TwoBody, nil
	case "cluster":
		return Cluster, nil
	default:
		return nil, fmt.Errorf("unknown init %q", name)
	}
}

func unit(rng *rand.Rand) float32 {
	return float32(rng.Float64()*2 - 1)
}
