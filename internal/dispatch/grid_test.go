package dispatch

import (
	"sync/atomic"
	"testing"
)

func TestRunCoversEveryIndexOnce(t *testing.T) {
	for _, n := range []int{1, GroupSize - 1, GroupSize, GroupSize + 1, 1000, 4096} {
		hits := make([]int32, n)
		NewGrid().Run(n, func(gid int) {
			atomic.AddInt32(&hits[gid], 1)
		})
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("n=%d: gid %d invoked %d times", n, i, h)
			}
		}
	}
}

func TestRunEmpty(t *testing.T) {
	called := false
	NewGrid().Run(0, func(gid int) { called = true })
	if called {
		t.Error("zero-sized dispatch must not invoke")
	}
	NewGrid().Run(-1, func(gid int) { called = true })
	if called {
		t.Error("negative dispatch must not invoke")
	}
}

func TestRunSingleWorker(t *testing.T) {
	g := &Grid{Workers: 1}
	order := make([]int, 0, 200)
	g.Run(200, func(gid int) {
		order = append(order, gid)
	})
	// One worker runs serially, in order, so no synchronization was needed
	// for the append above.
	for i, gid := range order {
		if gid != i {
			t.Fatalf("serial dispatch out of order at %d: got %d", i, gid)
		}
	}
}

func TestRunMoreWorkersThanGroups(t *testing.T) {
	g := &Grid{Workers: 64}
	n := GroupSize + 3 // two groups
	hits := make([]int32, n)
	g.Run(n, func(gid int) {
		atomic.AddInt32(&hits[gid], 1)
	})
	for i, h := range hits {
		if h != 1 {
			t.Fatalf("gid %d invoked %d times", i, h)
		}
	}
}

func TestRunDisjointWrites(t *testing.T) {
	// Each invocation owns exactly its own slot; a full dispatch must fill
	// the destination with no slot written twice or skipped.
	const n = 10000
	dst := make([]int, n)
	NewGrid().Run(n, func(gid int) {
		dst[gid] = gid + 1
	})
	for i, v := range dst {
		if v != i+1 {
			t.Fatalf("slot %d holds %d", i, v)
		}
	}
}
