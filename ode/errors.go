package ode

import (
	"errors"
	"fmt"

	"github.com/notargets/gobedform/types"
)

var (
	ErrStepTooSmall = errors.New("ode: required step size is less than the spacing between numbers")
	ErrMaxSteps     = errors.New("ode: maximum number of steps exceeded")
	ErrNonFinite    = errors.New("ode: state is no longer finite")
	ErrSpan         = errors.New("ode: integration span must be finite and increasing")
	ErrOutOfRange   = errors.New("ode: evaluation point outside the integrated span")
	ErrDimension    = errors.New("ode: dimension mismatch")
	ErrTolerance    = errors.New("ode: tolerances must be positive")
)

// IntegrationError reports where an integration stopped.
type IntegrationError struct {
	Method types.METHOD
	T      float64 // furthest point reached
	Step   int
	Err    error
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("%s integration stopped at t = %g after %d steps: %v",
		e.Method, e.T, e.Step, e.Err)
}

func (e *IntegrationError) Unwrap() error {
	return e.Err
}
