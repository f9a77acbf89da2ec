package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypes(t *testing.T) {
	{ // Method labels
		tokens := []string{"DOP853", "dop853", " rk45 ", ""}
		flags := []METHOD{DOP853, DOP853, RK45, DOP853}
		for i, token := range tokens {
			m, err := NewMETHOD(token)
			assert.NoError(t, err)
			assert.Equal(t, flags[i], m)
		}
		_, err := NewMETHOD("LSODA")
		assert.Error(t, err)
		assert.Equal(t, "RK45", RK45.String())
		assert.Equal(t, "METHOD(9)", METHOD(9).String())
	}
	{ // Strategy labels
		s, err := NewSTRATEGY("Batched")
		assert.NoError(t, err)
		assert.Equal(t, Batched, s)
		s, err = NewSTRATEGY("")
		assert.NoError(t, err)
		assert.Equal(t, Parallel, s)
		_, err = NewSTRATEGY("vectorized")
		assert.Error(t, err)
		assert.Equal(t, "Parallel", Parallel.String())
	}
}
