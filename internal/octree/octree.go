// Package octree builds the flat, arena-backed spatial hierarchy consumed by
// the Barnes-Hut kernel. Nodes reference children by index into a shared
// slice; index 0 holds the root and doubles as the "no child" sentinel, so a
// real node other than the root must never be placed at index 0.
package octree

import (
	"github.com/san-kum/gravsim/internal/body"
)

// Octant is one node of the hierarchy.
//
// Child octant positions:
//
//	Front: -z   Back: +z
//	|---|---|   |---|---|
//	| 2 | 3 |   | 6 | 7 |
//	|---|---|   |---|---|
//	| 0 | 1 |   | 4 | 5 |
//	|---|---|   |---|---|
type Octant struct {
	COG      body.Vec3 // mass-weighted center of all contained bodies
	Mass     float32
	Bodies   uint32
	Children [8]uint32 // arena indices, 0 = absent
}

// ArenaFactor sizes the node arena relative to the particle count.
const ArenaFactor = 4

// MaxSubdivide caps the absolute depth of the hierarchy. Keeps every tree
// safely inside the traversal stack of the kernel; bodies that would need
// deeper subdivision are merged into one childless aggregate node.
const MaxSubdivide = 48

// Tree is a built hierarchy plus the root extent the kernel needs to seed
// its traversal.
type Tree struct {
	Nodes     []Octant
	RootWidth float32
}

// NewArena allocates a reusable node arena for n particles.
func NewArena(n int) []Octant {
	return make([]Octant, n*ArenaFactor)
}

// Build constructs the hierarchy for the given particles into arena,
// reusing its storage. The returned Tree aliases arena.
func Build(particles []body.Particle, arena []Octant) Tree {
	if len(particles) == 0 {
		return Tree{Nodes: arena[:0], RootWidth: 0}
	}

	// Root extent: the particles live inside [-bound, bound]^3.
	bound := float32(1.0)
	for i := range particles {
		p := particles[i].Pos
		bound = max32(bound, max32(abs32(p.X), max32(abs32(p.Y), abs32(p.Z))))
	}
	rootWidth := bound * 2

	arena[0] = Octant{
		COG:    particles[0].Pos,
		Mass:   particles[0].Mass,
		Bodies: 1,
	}
	nodes := arena[:1]

	for pi := 1; pi < len(particles); pi++ {
		pos := particles[pi].Pos
		pm := particles[pi].Mass

		nodeIx := 0
		center := body.Vec3{}
		width := rootWidth
		depth := 0
		absorbed := false

		// Descend through internal nodes, folding the new body into each
		// aggregate on the way down.
		for nodes[nodeIx].Bodies > 1 {
			nodes[nodeIx].Bodies++
			nodes[nodeIx].COG = balanceCOG(nodes[nodeIx].COG, nodes[nodeIx].Mass, pos, pm)
			nodes[nodeIx].Mass += pm

			if !hasChildren(&nodes[nodeIx]) {
				// Depth-capped aggregate: the body is folded in and stays
				// here. Growing children under it would orphan the mass of
				// the bodies already merged.
				absorbed = true
				break
			}

			oct := decideOctant(center, pos)
			child := nodes[nodeIx].Children[oct]
			if child == 0 {
				nodes = append(nodes, Octant{})
				nodes[nodeIx].Children[oct] = uint32(len(nodes) - 1)
				nodeIx = len(nodes) - 1
			} else {
				nodeIx = int(child)
				center, width = shiftNodeCenter(center, width, oct)
				depth++
			}
		}
		if absorbed {
			continue
		}

		if nodes[nodeIx].Bodies == 0 {
			// Fresh slot claimed for this body alone.
			nodes[nodeIx] = Octant{COG: pos, Mass: pm, Bodies: 1}
			continue
		}

		// Occupied leaf: subdivide until the resident body and the new one
		// fall into different octants, or the depth cap merges them.
		bPos := nodes[nodeIx].COG
		bMass := nodes[nodeIx].Mass
		nodes[nodeIx].COG = balanceCOG(nodes[nodeIx].COG, nodes[nodeIx].Mass, pos, pm)
		nodes[nodeIx].Bodies = 2
		nodes[nodeIx].Mass += pm

		aOct := decideOctant(center, pos)
		bOct := decideOctant(center, bPos)
		merged := false
		for ; aOct == bOct; depth++ {
			if depth >= MaxSubdivide {
				merged = true
				break
			}
			nodes = append(nodes, Octant{
				COG:    nodes[nodeIx].COG,
				Mass:   nodes[nodeIx].Mass,
				Bodies: 2,
			})
			nodes[nodeIx].Children[aOct] = uint32(len(nodes) - 1)
			nodeIx = len(nodes) - 1
			center, width = shiftNodeCenter(center, width, aOct)
			aOct = decideOctant(center, pos)
			bOct = decideOctant(center, bPos)
		}
		if merged {
			// Near-coincident pair: leave the combined aggregate childless.
			// The kernel treats a childless node as a point mass.
			continue
		}

		nodes = append(nodes, Octant{COG: pos, Mass: pm, Bodies: 1})
		nodes[nodeIx].Children[aOct] = uint32(len(nodes) - 1)
		nodes = append(nodes, Octant{COG: bPos, Mass: bMass, Bodies: 1})
		nodes[nodeIx].Children[bOct] = uint32(len(nodes) - 1)
	}

	return Tree{Nodes: nodes, RootWidth: rootWidth}
}

// Depth walks the built tree and returns its height in nodes. Used to verify
// the builder keeps every tree inside the kernel's fixed traversal stack.
func (t Tree) Depth() int {
	if len(t.Nodes) == 0 {
		return 0
	}
	type frame struct {
		node  uint32
		depth int
	}
	maxDepth := 0
	stack := []frame{{0, 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.depth > maxDepth {
			maxDepth = f.depth
		}
		for _, c := range t.Nodes[f.node].Children {
			if c != 0 {
				stack = append(stack, frame{c, f.depth + 1})
			}
		}
	}
	return maxDepth
}

// decideOctant packs the three "greater than center" comparisons into a
// child index: bit0 = x, bit1 = y, bit2 = z.
func decideOctant(center, point body.Vec3) int {
	oct := 0
	if point.X > center.X {
		oct |= 1
	}
	if point.Y > center.Y {
		oct |= 2
	}
	if point.Z > center.Z {
		oct |= 4
	}
	return oct
}

// balanceCOG folds a new body into a running mass-weighted center.
func balanceCOG(cog body.Vec3, mass float32, pos body.Vec3, pm float32) body.Vec3 {
	return cog.Add(pos.Sub(cog).Scale(pm / (mass + pm)))
}

// shiftNodeCenter moves the node center into the given child octant and
// halves the width.
func shiftNodeCenter(center body.Vec3, width float32, oct int) (body.Vec3, float32) {
	width /= 2
	half := width / 2
	center.X += sign(oct&1 != 0) * half
	center.Y += sign(oct&2 != 0) * half
	center.Z += sign(oct&4 != 0) * half
	return center, width
}

func hasChildren(n *Octant) bool {
	for _, c := range n.Children {
		if c != 0 {
			return true
		}
	}
	return false
}

func sign(positive bool) float32 {
	if positive {
		return 1
	}
	return -1
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
