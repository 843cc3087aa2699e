package sim

import (
	"context"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/compute"
	"github.com/san-kum/gravsim/internal/dispatch"
	"github.com/san-kum/gravsim/internal/force"
	"github.com/san-kum/gravsim/internal/octree"
)

// Metric observes the authoritative particle state between steps.
type Metric interface {
	Name() string
	Observe(ps []body.Particle, t float64)
	Value() float64
	Reset()
}

// Observer receives the completed state after every step.
type Observer interface {
	OnStep(ps []body.Particle, t float64)
}

type Config struct {
	Steps int
	// ValidateState aborts the run when a step produces NaN or Inf.
	// Numerical blow-up is silent at the kernel level; this is the host's
	// guard against it propagating.
	ValidateState bool
	// TreeRebuildEvery stretches the hierarchy rebuild over several steps
	// for the Barnes-Hut kernel. 0 or 1 rebuilds every step.
	TreeRebuildEvery int
}

type Result struct {
	Times      []float64
	Energy     []float64
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Simulator owns the double-buffered particle state and drives the per-step
// cycle: rebuild hierarchy (tree kernel), dispatch one invocation per
// particle, wait, swap.
type Simulator struct {
	kernel       force.Kernel
	tree         *force.BarnesHut // nil for the all-pairs kernel
	arena        []octree.Octant
	grid         *dispatch.Grid
	backend      compute.Backend // accelerates the all-pairs kernel when set
	bufs         *body.Buffers
	params       force.SimParams
	rebuildEvery int
	metrics      []Metric
	observers    []Observer
	t            float64
	step         int
}

func New(kernel force.Kernel, grid *dispatch.Grid, particles []body.Particle, params force.SimParams) *Simulator {
	s := &Simulator{
		kernel:       kernel,
		grid:         grid,
		bufs:         body.NewBuffers(particles),
		params:       params,
		rebuildEvery: 1,
	}
	if bh, ok := kernel.(*force.BarnesHut); ok {
		s.tree = bh
		s.arena = octree.NewArena(len(particles))
	}
	return s
}

// SetBackend routes all-pairs dispatches through an accelerated backend.
// Ignored for the Barnes-Hut kernel, which always runs on the CPU grid.
func (s *Simulator) SetBackend(b compute.Backend) { s.backend = b }

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Particles returns the authoritative state of the last completed step.
func (s *Simulator) Particles() []body.Particle { return s.bufs.Src() }

func (s *Simulator) Params() force.SimParams { return s.params }
func (s *Simulator) Time() float64           { return s.t }

// Step advances the system by one dt. The hierarchy and parameter inputs
// stay immutable until the dispatch barrier has passed, then the buffers
// swap; nothing is ever mutated in place.
func (s *Simulator) Step() error {
	if err := s.params.Validate(); err != nil {
		return err
	}
	src, dst := s.bufs.Src(), s.bufs.Dst()
	if len(src) != len(dst) {
		return body.ErrBufferMismatch
	}

	if s.tree != nil {
		if err := s.tree.Tree.Validate(); err != nil {
			return err
		}
		if s.step%s.rebuildEvery == 0 {
			s.tree.SetTree(octree.Build(src, s.arena))
		}
	}

	if s.backend != nil && s.tree == nil {
		s.backend.Step(src, dst, s.params)
	} else {
		s.grid.Run(len(src), func(gid int) {
			s.kernel.Invoke(gid, src, dst)
		})
	}

	s.bufs.Swap()
	s.step++
	s.t += float64(s.params.Dt)
	return nil
}

// Run executes cfg.Steps steps, observing metrics between them. A
// cancellation or a non-finite state stops the run; whatever completed is
// returned alongside the recorded errors.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.params.Validate(); err != nil {
		return nil, err
	}
	if cfg.TreeRebuildEvery > 1 {
		s.rebuildEvery = cfg.TreeRebuildEvery
	}

	res := &Result{
		Times:   make([]float64, 0, cfg.Steps+1),
		Energy:  make([]float64, 0, cfg.Steps+1),
		Metrics: make(map[string]float64),
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	observe := func() {
		ps := s.Particles()
		res.Times = append(res.Times, s.t)
		res.Energy = append(res.Energy, force.TotalEnergy(ps, s.params.G, s.params.E))
		for _, m := range s.metrics {
			m.Observe(ps, s.t)
		}
		for _, o := range s.observers {
			o.OnStep(ps, s.t)
		}
	}
	observe()

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(res)
			return res, ctx.Err()
		default:
		}

		if err := s.Step(); err != nil {
			res.Errors = append(res.Errors, &body.StepError{Step: i, Time: s.t, Wrapped: err})
			break
		}
		res.StepsTaken++

		if cfg.ValidateState && !body.Finite(s.Particles()) {
			res.Errors = append(res.Errors, &body.StepError{Step: i, Time: s.t, Wrapped: body.ErrNonFinite})
			break
		}
		observe()
	}

	s.finish(res)
	return res, nil
}

func (s *Simulator) finish(res *Result) {
	for _, m := range s.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
}
