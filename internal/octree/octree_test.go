package octree

import (
	"math"
	"testing"

	"github.com/san-kum/gravsim/internal/body"
)

func cubeCorners() []body.Particle {
	ps := make([]body.Particle, 0, 8)
	for _, x := range []float32{-0.5, 0.5} {
		for _, y := range []float32{-0.5, 0.5} {
			for _, z := range []float32{-0.5, 0.5} {
				ps = append(ps, body.Particle{Pos: body.Vec3{X: x, Y: y, Z: z}, Mass: 1})
			}
		}
	}
	return ps
}

func TestBuildEmpty(t *testing.T) {
	tree := Build(nil, NewArena(0))
	if len(tree.Nodes) != 0 {
		t.Errorf("expected no nodes, got %d", len(tree.Nodes))
	}
	if tree.RootWidth != 0 {
		t.Errorf("expected zero root width, got %f", tree.RootWidth)
	}
	if tree.Depth() != 0 {
		t.Errorf("expected zero depth, got %d", tree.Depth())
	}
}

func TestBuildSingle(t *testing.T) {
	ps := []body.Particle{{Pos: body.Vec3{X: 0.3, Y: -0.1, Z: 0.7}, Mass: 2.5}}
	tree := Build(ps, NewArena(1))

	if len(tree.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(tree.Nodes))
	}
	root := tree.Nodes[0]
	if root.Bodies != 1 || root.Mass != 2.5 {
		t.Errorf("root should hold the single body: %+v", root)
	}
	if root.COG != ps[0].Pos {
		t.Errorf("root COG %+v, want %+v", root.COG, ps[0].Pos)
	}
	for i, c := range root.Children {
		if c != 0 {
			t.Errorf("leaf child %d should be the sentinel, got %d", i, c)
		}
	}
}

func TestBuildCubeCorners(t *testing.T) {
	ps := cubeCorners()
	tree := Build(ps, NewArena(len(ps)))

	root := tree.Nodes[0]
	if root.Bodies != 8 {
		t.Errorf("root bodies = %d, want 8", root.Bodies)
	}
	if root.Mass != 8 {
		t.Errorf("root mass = %f, want 8", root.Mass)
	}
	if root.COG.Length() > 1e-6 {
		t.Errorf("symmetric corners should balance at the origin, COG=%+v", root.COG)
	}
	if tree.RootWidth != 2 {
		t.Errorf("root width = %f, want 2", tree.RootWidth)
	}

	// One corner per octant, so each child is a leaf.
	for i, c := range root.Children {
		if c == 0 {
			t.Errorf("octant %d empty, every corner should claim one", i)
			continue
		}
		child := tree.Nodes[c]
		if child.Bodies != 1 {
			t.Errorf("octant %d bodies = %d, want 1", i, child.Bodies)
		}
	}
	if d := tree.Depth(); d != 2 {
		t.Errorf("depth = %d, want 2", d)
	}
}

func TestBuildMassWeightedCOG(t *testing.T) {
	ps := []body.Particle{
		{Pos: body.Vec3{X: -0.5}, Mass: 1},
		{Pos: body.Vec3{X: 0.5}, Mass: 3},
	}
	tree := Build(ps, NewArena(2))

	root := tree.Nodes[0]
	if root.Mass != 4 {
		t.Errorf("root mass = %f, want 4", root.Mass)
	}
	if math.Abs(float64(root.COG.X)-0.25) > 1e-6 {
		t.Errorf("COG.X = %f, want 0.25", root.COG.X)
	}
}

func TestBuildRootWidthFromBounds(t *testing.T) {
	ps := []body.Particle{
		{Pos: body.Vec3{X: 3}, Mass: 1},
		{Pos: body.Vec3{Y: -5}, Mass: 1},
	}
	tree := Build(ps, NewArena(2))
	if tree.RootWidth != 10 {
		t.Errorf("root width = %f, want 10 (bound 5)", tree.RootWidth)
	}

	// Bodies inside the unit cube get the floor bound of 1.
	small := Build([]body.Particle{
		{Pos: body.Vec3{X: 0.1}, Mass: 1},
		{Pos: body.Vec3{X: -0.1}, Mass: 1},
	}, NewArena(2))
	if small.RootWidth != 2 {
		t.Errorf("root width = %f, want floor of 2", small.RootWidth)
	}
}

func TestBuildCoincidentBodiesMerge(t *testing.T) {
	pos := body.Vec3{X: 0.123, Y: -0.456, Z: 0.789}
	ps := []body.Particle{
		{Pos: pos, Mass: 1},
		{Pos: pos, Mass: 2},
		{Pos: pos, Mass: 4},
	}
	tree := Build(ps, NewArena(len(ps)))

	root := tree.Nodes[0]
	if root.Bodies != 3 {
		t.Errorf("root bodies = %d, want 3", root.Bodies)
	}
	if math.Abs(float64(root.Mass)-7) > 1e-6 {
		t.Errorf("merged mass = %f, want 7 (nothing orphaned)", root.Mass)
	}
	if d := tree.Depth(); d > MaxSubdivide+2 {
		t.Errorf("depth %d exceeds the subdivision cap", d)
	}
}

func TestBuildDepthCap(t *testing.T) {
	// A geometric pile-up toward the origin needs ever deeper cells to
	// separate; the cap must hold the tree height regardless.
	const n = 200
	ps := make([]body.Particle, n)
	x := float32(1.0)
	for i := range ps {
		ps[i] = body.Particle{Pos: body.Vec3{X: x}, Mass: 1}
		x *= 0.7
	}
	tree := Build(ps, NewArena(n))

	if d := tree.Depth(); d > MaxSubdivide+2 {
		t.Errorf("depth %d exceeds cap %d", d, MaxSubdivide+2)
	}
	root := tree.Nodes[0]
	if root.Bodies != n {
		t.Errorf("root bodies = %d, want %d", root.Bodies, n)
	}
	if math.Abs(float64(root.Mass)-n) > 1e-3 {
		t.Errorf("root mass = %f, want %d (merging must not drop mass)", root.Mass, n)
	}
}

func TestBuildArenaReuse(t *testing.T) {
	arena := NewArena(8)

	first := Build(cubeCorners(), arena)
	firstLen := len(first.Nodes)

	// Rebuilding with fewer bodies must not leak stale nodes.
	second := Build([]body.Particle{
		{Pos: body.Vec3{X: 0.5}, Mass: 1},
		{Pos: body.Vec3{X: -0.5}, Mass: 1},
	}, arena)

	if len(second.Nodes) >= firstLen {
		t.Errorf("rebuild kept %d nodes, first build had %d", len(second.Nodes), firstLen)
	}
	if second.Nodes[0].Bodies != 2 {
		t.Errorf("rebuilt root bodies = %d, want 2", second.Nodes[0].Bodies)
	}
}

func TestChildIndicesInBounds(t *testing.T) {
	ps := cubeCorners()
	tree := Build(ps, NewArena(len(ps)))
	for i := range tree.Nodes {
		for _, c := range tree.Nodes[i].Children {
			if int(c) >= len(tree.Nodes) {
				t.Fatalf("node %d references child %d past arena end %d", i, c, len(tree.Nodes))
			}
		}
	}
}

func BenchmarkBuild(b *testing.B) {
	ps := make([]body.Particle, 4096)
	x := float32(-1)
	for i := range ps {
		ps[i] = body.Particle{
			Pos:  body.Vec3{X: x, Y: -x * 0.5, Z: x * x},
			Mass: 1,
		}
		x += 2.0 / float32(len(ps))
	}
	arena := NewArena(len(ps))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Build(ps, arena)
	}
}
