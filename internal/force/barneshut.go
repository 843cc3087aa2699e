package force

import (
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/octree"
)

// StackDepth is the fixed capacity of the per-invocation traversal stack.
// The octree builder guarantees trees no taller than this; a taller tree
// would silently drop far-field contributions.
const StackDepth = 64

// selfEps: a one-body node this close to the evaluating position is the
// evaluating particle itself.
const selfEps = 1e-6

type frame struct {
	node  uint32
	width float32
}

// BarnesHut approximates the far field by walking an externally built
// hierarchy with an explicit stack, no recursion. Cost is O(log N) per
// invocation at moderate theta; theta -> 0 degenerates to the exact
// all-pairs result at all-pairs cost.
type BarnesHut struct {
	Params SimParams
	Tree   TreeParams
	nodes  []octree.Octant
}

func NewBarnesHut(p SimParams, tp TreeParams) *BarnesHut {
	return &BarnesHut{Params: p, Tree: tp}
}

func (k *BarnesHut) Name() string { return "barnes-hut" }

// SetTree installs the hierarchy for the next dispatch. The nodes slice is
// read-only until every invocation of that dispatch has completed.
func (k *BarnesHut) SetTree(t octree.Tree) {
	k.nodes = t.Nodes
	k.Tree.RootWidth = t.RootWidth
}

func (k *BarnesHut) Invoke(gid int, src, dst []body.Particle) {
	p := k.Params
	if gid >= int(p.N) {
		return
	}

	me := src[gid]
	pos, vel := halfKickDrift(me, p.Dt)

	var sum body.Vec3
	if len(k.nodes) > 0 {
		var stack [StackDepth]frame
		stack[0] = frame{node: 0, width: k.Tree.RootWidth}
		sp := 1

		for sp > 0 {
			sp--
			f := stack[sp]
			n := &k.nodes[f.node]

			dr := n.COG.Sub(pos)
			d := dr.Length()

			if n.Bodies == 1 {
				if d < selfEps {
					// The evaluating particle's own leaf.
					continue
				}
				sum = sum.Add(dr.Scale(p.G * n.Mass / (d*d*d + p.E)))
				continue
			}

			if f.width/d < k.Tree.Theta {
				// Far enough: the whole subtree as one point mass.
				sum = sum.Add(dr.Scale(p.G * n.Mass / (d*d*d + p.E)))
				continue
			}

			pushed := false
			for _, c := range n.Children {
				if c == 0 || sp == StackDepth {
					continue
				}
				stack[sp] = frame{node: c, width: f.width / 2}
				sp++
				pushed = true
			}
			if !pushed {
				// Childless aggregate: a depth-capped merge of
				// near-coincident bodies. Take it as a point mass rather
				// than lose its contribution.
				sum = sum.Add(dr.Scale(p.G * n.Mass / (d*d*d + p.E)))
			}
		}
	}

	acc := sum.Scale(p.Dt)
	dst[gid] = body.Particle{
		Pos:  pos,
		Vel:  finishKick(vel, acc),
		Acc:  acc,
		Mass: me.Mass,
	}
}
