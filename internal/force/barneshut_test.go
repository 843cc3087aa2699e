package force

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/octree"
)

func randomCluster(n int, seed int64) []body.Particle {
	rng := rand.New(rand.NewSource(seed))
	ps := make([]body.Particle, n)
	for i := range ps {
		ps[i] = body.Particle{
			Pos: body.Vec3{
				X: float32(rng.NormFloat64()) * 0.3,
				Y: float32(rng.NormFloat64()) * 0.3,
				Z: float32(rng.NormFloat64()) * 0.3,
			},
			Mass: 1,
		}
	}
	return ps
}

func maxAccNorm(ps []body.Particle) float64 {
	m := 0.0
	for i := range ps {
		m = math.Max(m, float64(ps[i].Acc.Length()))
	}
	return m
}

// With theta=0 no aggregate ever passes the opening test, so the traversal
// reaches every leaf and the result matches the all-pairs kernel up to
// summation order.
func TestBarnesHutExactAtThetaZero(t *testing.T) {
	const n = 64
	src := randomCluster(n, 7)
	p := SimParams{N: n, G: 1, E: 0.01, Dt: 0.01}

	naiveDst := make([]body.Particle, n)
	dispatchAll(NewNaive(p), src, naiveDst)

	bh := NewBarnesHut(p, TreeParams{Theta: 0})
	bh.SetTree(octree.Build(src, octree.NewArena(n)))
	treeDst := make([]body.Particle, n)
	dispatchAll(bh, src, treeDst)

	scale := maxAccNorm(naiveDst)
	for i := 0; i < n; i++ {
		diff := float64(naiveDst[i].Acc.Sub(treeDst[i].Acc).Length())
		if diff > 1e-4*scale {
			t.Errorf("particle %d: theta=0 diverged from all-pairs by %g", i, diff)
		}
	}
}

func TestBarnesHutApproximatesNaive(t *testing.T) {
	const n = 128
	src := randomCluster(n, 11)
	p := SimParams{N: n, G: 1, E: 0.01, Dt: 0.01}

	naiveDst := make([]body.Particle, n)
	dispatchAll(NewNaive(p), src, naiveDst)

	bh := NewBarnesHut(p, TreeParams{Theta: 0.5})
	bh.SetTree(octree.Build(src, octree.NewArena(n)))
	treeDst := make([]body.Particle, n)
	dispatchAll(bh, src, treeDst)

	scale := maxAccNorm(naiveDst)
	worst := 0.0
	for i := 0; i < n; i++ {
		diff := float64(naiveDst[i].Acc.Sub(treeDst[i].Acc).Length())
		worst = math.Max(worst, diff/scale)
	}
	if worst > 0.05 {
		t.Errorf("theta=0.5 error %f exceeds 5%% of peak acceleration", worst)
	}
}

func TestBarnesHutSelfExclusion(t *testing.T) {
	p := SimParams{N: 1, G: 1, E: 0.01, Dt: 0.01}
	src := []body.Particle{{Pos: body.Vec3{X: 0.4, Z: -0.1}, Mass: 2}}

	bh := NewBarnesHut(p, TreeParams{Theta: 0.5})
	bh.SetTree(octree.Build(src, octree.NewArena(1)))

	dst := make([]body.Particle, 1)
	bh.Invoke(0, src, dst)

	if dst[0].Acc != (body.Vec3{}) {
		t.Errorf("lone body attracted by its own leaf: %+v", dst[0].Acc)
	}
}

func TestBarnesHutCoincidentPair(t *testing.T) {
	// Two bodies at the same position become a merged childless aggregate.
	// Their mutual force is meaningless, but the traversal must neither
	// recurse forever nor emit NaN.
	src := []body.Particle{
		{Pos: body.Vec3{X: 0.25, Y: 0.25}, Mass: 1},
		{Pos: body.Vec3{X: 0.25, Y: 0.25}, Mass: 1},
		{Pos: body.Vec3{X: -0.5}, Mass: 1},
	}
	p := SimParams{N: 3, G: 1, E: 0.01, Dt: 0.01}

	bh := NewBarnesHut(p, TreeParams{Theta: 0.5})
	bh.SetTree(octree.Build(src, octree.NewArena(3)))

	dst := make([]body.Particle, 3)
	dispatchAll(bh, src, dst)

	if !body.Finite(dst) {
		t.Fatal("coincident pair produced non-finite state")
	}
	// The lone third body must still feel the merged pair.
	if dst[2].Acc.X <= 0 {
		t.Errorf("third body not attracted toward the pair: acc.x=%f", dst[2].Acc.X)
	}
}

func TestBarnesHutEmptyTree(t *testing.T) {
	p := SimParams{N: 1, G: 1, E: 0.01, Dt: 0.01}
	src := []body.Particle{{Mass: 1}}
	dst := make([]body.Particle, 1)

	// No SetTree call: the kernel must degrade to a free drift, not panic.
	NewBarnesHut(p, TreeParams{Theta: 0.5}).Invoke(0, src, dst)

	if dst[0].Acc != (body.Vec3{}) {
		t.Errorf("empty hierarchy produced force: %+v", dst[0].Acc)
	}
}

func TestBarnesHutStackStaysBounded(t *testing.T) {
	// A deep, skewed distribution: geometric pile-up toward the origin.
	const n = 256
	ps := make([]body.Particle, n)
	x := float32(1.0)
	for i := range ps {
		ps[i] = body.Particle{Pos: body.Vec3{X: x}, Mass: 1}
		x *= 0.7
	}
	tree := octree.Build(ps, octree.NewArena(n))
	if d := tree.Depth(); d > StackDepth {
		t.Fatalf("tree depth %d exceeds traversal stack %d", d, StackDepth)
	}

	p := SimParams{N: n, G: 1, E: 0.01, Dt: 0.01}
	bh := NewBarnesHut(p, TreeParams{Theta: 0.3})
	bh.SetTree(tree)
	dst := make([]body.Particle, n)
	dispatchAll(bh, ps, dst)

	if !body.Finite(dst) {
		t.Error("skewed distribution produced non-finite state")
	}
}

func BenchmarkNaive(b *testing.B) {
	const n = 1024
	src := randomCluster(n, 3)
	dst := make([]body.Particle, n)
	k := NewNaive(SimParams{N: n, G: 1, E: 0.01, Dt: 0.01})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		dispatchAll(k, src, dst)
	}
}

func BenchmarkBarnesHut(b *testing.B) {
	const n = 1024
	src := randomCluster(n, 3)
	dst := make([]body.Particle, n)
	arena := octree.NewArena(n)
	k := NewBarnesHut(SimParams{N: n, G: 1, E: 0.01, Dt: 0.01}, TreeParams{Theta: 0.5})
	k.SetTree(octree.Build(src, arena))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		dispatchAll(k, src, dst)
	}
}
