package utils

import (
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

// Linspace returns N evenly spaced values from min to max inclusive. The
// end points are exact.
func Linspace(min, max float64, N int) (v []float64) {
	if N < 1 {
		return
	}
	if N == 1 {
		return []float64{min}
	}
	v = floats.Span(make([]float64, N), min, max)
	v[N-1] = max
	return
}

func CAbsMax(v []complex128) (m float64) {
	for _, z := range v {
		if a := cmplx.Abs(z); a > m {
			m = a
		}
	}
	return
}

func AllFinite(v []float64) bool {
	for _, x := range v {
		if x != x || x > maxFloat || x < -maxFloat {
			return false
		}
	}
	return true
}

const maxFloat = 1.7976931348623157e308
