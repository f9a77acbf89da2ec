// Package closure supplies the base flow profile of the turbulent boundary
// layer and its vertical derivative in dimensionless height eta = k z.
package closure

import (
	"errors"
	"fmt"
	"math"
)

var ErrParameter = errors.New("closure: invalid parameter")

// Closure is the turbulence closure consumed by the perturbation model.
// MuPrime must be the analytic derivative of Mu with respect to eta.
type Closure interface {
	Mu(eta, eta0, kappa float64) float64
	MuPrime(eta, eta0, kappa float64) float64
}

// LogLaw is the logarithmic velocity profile above a bed of roughness eta0:
//
//	mu(eta) = ln(1 + eta/eta0) / kappa
type LogLaw struct{}

func (LogLaw) Mu(eta, eta0, kappa float64) float64 {
	return math.Log1p(eta/eta0) / kappa
}

func (LogLaw) MuPrime(eta, eta0, kappa float64) float64 {
	return 1 / (kappa * (eta + eta0))
}

func Validate(eta0, kappa float64) (err error) {
	switch {
	case !(eta0 > 0) || math.IsInf(eta0, 1):
		err = fmt.Errorf("eta0 = %g must be positive and finite: %w", eta0, ErrParameter)
	case !(kappa > 0) || math.IsInf(kappa, 1):
		err = fmt.Errorf("kappa = %g must be positive and finite: %w", kappa, ErrParameter)
	}
	return
}
