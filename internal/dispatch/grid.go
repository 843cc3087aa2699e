// Package dispatch fans a per-particle invocation out over a goroutine
// worker pool. Invocations are independent by contract (each reads only the
// shared immutable inputs and writes only its own destination slot), so no
// locking is needed; Run is the host-side barrier at the step boundary.
package dispatch

import (
	"runtime"
	"sync"
)

// GroupSize is the work-group granularity: indices are handed to workers in
// blocks of 64 invocations. A performance parameter, not a correctness one.
const GroupSize = 64

type Grid struct {
	Workers int
}

func NewGrid() *Grid {
	return &Grid{Workers: runtime.NumCPU()}
}

// Run invokes fn(gid) for every gid in [0, n) and returns after all
// invocations have completed. The grid may be over-provisioned relative to
// the particle count; kernels bounds-check and no-op past it.
func (g *Grid) Run(n int, fn func(gid int)) {
	if n <= 0 {
		return
	}
	workers := g.Workers
	if workers < 1 {
		workers = 1
	}
	if n <= GroupSize || workers == 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	groups := (n + GroupSize - 1) / GroupSize
	if workers > groups {
		workers = groups
	}
	groupsPerWorker := (groups + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		start := w * groupsPerWorker * GroupSize
		end := start + groupsPerWorker*GroupSize
		if end > n {
			end = n
		}
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(i)
			}
		}(start, end)
	}
	wg.Wait()
}
