//go:build cuda

package compute

/*
#cgo CFLAGS: -I/opt/cuda/include
#cgo LDFLAGS: -L/opt/cuda/lib64 -L${SRCDIR} -lcudart -lkernels -lstdc++
#include <stdlib.h>

extern int cuda_device_count();
extern const char* cuda_device_name_get();
extern void nbody_leapfrog_gpu(float* particles, int n, float g, float e, float dt);
*/
import "C"
import (
	"unsafe"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/force"
)

type CUDABackend struct {
	available  bool
	deviceName string
}

func NewCUDABackend() *CUDABackend {
	count := int(C.cuda_device_count())
	name := ""
	if count > 0 {
		name = C.GoString(C.cuda_device_name_get())
	}
	return &CUDABackend{
		available:  count > 0,
		deviceName: name,
	}
}

func (c *CUDABackend) Name() string {
	if c.available {
		return "cuda (" + c.deviceName + ")"
	}
	return "cuda (not available)"
}

func (c *CUDABackend) Available() bool { return c.available }
func (c *CUDABackend) Cleanup()        {}

func (c *CUDABackend) Step(src, dst []body.Particle, p force.SimParams) {
	if !c.available || len(src) == 0 {
		NewCPUBackend().Step(src, dst, p)
		return
	}

	// Particle is ten packed float32s; the device kernel updates in place on
	// a copy, preserving the host-side src snapshot.
	flat := Flatten(src, nil)
	C.nbody_leapfrog_gpu(
		(*C.float)(unsafe.Pointer(&flat[0])),
		C.int(len(src)),
		C.float(p.G),
		C.float(p.E),
		C.float(p.Dt),
	)
	Unflatten(flat, dst)
}
