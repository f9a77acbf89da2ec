package ConvectiveBL

import (
	"fmt"
	"math"
)

// Regime of the internal gravity waves in the free atmosphere
type Regime uint8

const (
	Propagating Regime = iota // etaB <= 1
	Decaying                  // etaB > 1
)

func (r Regime) String() string {
	switch r {
	case Propagating:
		return "Propagating"
	case Decaying:
		return "Decaying"
	}
	return fmt.Sprintf("Regime(%d)", r)
}

// RadiationCondition is the upper boundary condition of the free atmosphere
// as a tagged value. Magnitude is never negative.
type RadiationCondition struct {
	Regime    Regime
	Magnitude float64
}

func NewRadiationCondition(etaB float64) (rc RadiationCondition) {
	inv2 := 1 / (etaB * etaB)
	if etaB > 1 {
		rc = RadiationCondition{Regime: Decaying, Magnitude: math.Sqrt(1 - inv2)}
	} else {
		rc = RadiationCondition{Regime: Propagating, Magnitude: math.Sqrt(inv2 - 1)}
	}
	return
}

// Q1 is the complex form: purely imaginary while propagating, real and
// negative while decaying.
func (rc RadiationCondition) Q1() complex128 {
	if rc.Regime == Decaying {
		return complex(-rc.Magnitude, 0)
	}
	return complex(0, rc.Magnitude)
}

func (rc RadiationCondition) String() string {
	return fmt.Sprintf("%s(%g)", rc.Regime, rc.Magnitude)
}

func Q1(etaB float64) complex128 {
	return NewRadiationCondition(etaB).Q1()
}

func Q1Array(etaBs []float64) (q []complex128) {
	q = make([]complex128, len(etaBs))
	for k, etaB := range etaBs {
		q[k] = Q1(etaB)
	}
	return
}
