package compute

import (
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/dispatch"
	"github.com/san-kum/gravsim/internal/force"
)

type CPUBackend struct {
	grid *dispatch.Grid
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{grid: dispatch.NewGrid()}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}

func (c *CPUBackend) Step(src, dst []body.Particle, p force.SimParams) {
	kernel := force.NewNaive(p)
	c.grid.Run(len(src), func(gid int) {
		kernel.Invoke(gid, src, dst)
	})
}
