package body

import (
	"errors"
	"fmt"
)

// Domain errors for simulation state and parameters.
var (
	// ErrNonFinite indicates particle state containing NaN or Inf.
	ErrNonFinite = errors.New("body: non-finite particle state (NaN or Inf detected)")

	// ErrParameterBounds indicates a simulation parameter outside its valid range.
	ErrParameterBounds = errors.New("body: parameter out of valid bounds")

	// ErrBufferMismatch indicates source and destination buffers of unequal length.
	ErrBufferMismatch = errors.New("body: source and destination buffer lengths differ")
)

// StepError wraps an error with the step at which it occurred.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
