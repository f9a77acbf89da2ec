package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMathHelpers(t *testing.T) {
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, Linspace(0, 1, 5))
	assert.Equal(t, []float64{2}, Linspace(2, 3, 1))
	for _, n := range []int{3, 33, 57, 101} {
		v := Linspace(0, 0.9999, n)
		assert.Equal(t, 0.9999, v[n-1])
		assert.LessOrEqual(t, v[n-2], v[n-1])
	}
	assert.Nil(t, Linspace(0, 1, 0))
	assert.Equal(t, 5., CAbsMax([]complex128{1, 3 + 4i, -2i}))
	assert.True(t, AllFinite([]float64{0, -1e308, 1e308}))
	assert.False(t, AllFinite([]float64{0, math.NaN()}))
	assert.False(t, AllFinite([]float64{math.Inf(-1)}))
}
