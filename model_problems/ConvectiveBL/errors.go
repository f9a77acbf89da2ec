package ConvectiveBL

import (
	"errors"
	"fmt"
)

var (
	ErrDomain         = errors.New("ConvectiveBL: parameter outside its valid domain")
	ErrSingular       = errors.New("ConvectiveBL: boundary matching system is singular")
	ErrIllConditioned = errors.New("ConvectiveBL: boundary matching system is ill-conditioned")
	ErrResidual       = errors.New("ConvectiveBL: combined solution misses the top boundary conditions")
	ErrOutOfDomain    = errors.New("ConvectiveBL: height outside the integrated domain")
)

// Parameters is the full parameter set of one solve, carried by every error
// so that a failing point of a parameter sweep can be identified.
type Parameters struct {
	Eta0, EtaH, EtaB, Fr, Kappa, MaxZ float64
}

func (p Parameters) String() string {
	return fmt.Sprintf("eta0=%g etaH=%g etaB=%g Fr=%g kappa=%g maxZ=%g",
		p.Eta0, p.EtaH, p.EtaB, p.Fr, p.Kappa, p.MaxZ)
}

type DomainError struct {
	Param  string
	Value  float64
	Params Parameters
	Err    error // optional cause
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s = %g: %v [%s]", e.Param, e.Value, e.Err, e.Params)
	}
	return fmt.Sprintf("invalid %s = %g [%s]", e.Param, e.Value, e.Params)
}

func (e *DomainError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrDomain, e.Err}
	}
	return []error{ErrDomain}
}

// IntegrationError reports a fundamental solution whose integration failed.
// Solution is the 1-based slot number.
type IntegrationError struct {
	Solution int
	Reached  float64
	Params   Parameters
	Err      error
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("fundamental solution %d failed at eta = %g: %v [%s]",
		e.Solution, e.Reached, e.Err, e.Params)
}

func (e *IntegrationError) Unwrap() error {
	return e.Err
}

type MatchingError struct {
	Cond     float64
	Residual float64
	Params   Parameters
	Err      error
}

func (e *MatchingError) Error() string {
	return fmt.Sprintf("%v: condition number %.3e, residual %.3e [%s]",
		e.Err, e.Cond, e.Residual, e.Params)
}

func (e *MatchingError) Unwrap() error {
	return e.Err
}
