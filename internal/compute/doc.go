// Package compute provides hardware-accelerated execution of the all-pairs
// force-integration kernel.
//
// The package automatically selects the best available backend:
//
//   - CUDA: device-resident leapfrog step (build with -tags cuda)
//   - CPU: goroutine work-group dispatch, always available
//
// An OpenGL 4.3 compute backend is also provided for contexts that already
// own a GL window (the gui); it keeps the particle buffers resident in two
// SSBOs and ping-pongs the bind points each step.
package compute
