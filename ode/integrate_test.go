package ode

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gobedform/types"
)

func oscillator(t float64, y, dydt []complex128) {
	dydt[0] = y[1]
	dydt[1] = -y[0]
}

func TestIntegrateDense(t *testing.T) {
	for _, method := range []types.METHOD{types.DOP853, types.RK45} {
		var (
			cfg = NewConfig()
			tol = map[types.METHOD]float64{types.DOP853: 1e-8, types.RK45: 1e-7}[method]
		)
		cfg.Method = method
		sol, stats, err := Integrate(oscillator, 0, 10, []complex128{1, 0}, cfg)
		require.NoError(t, err)
		assert.Equal(t, 10., stats.T)
		assert.True(t, stats.Steps > 0)
		assert.True(t, stats.Evaluations > stats.Steps)
		t0, t1 := sol.Span()
		assert.Equal(t, 0., t0)
		assert.Equal(t, 10., t1)
		assert.Equal(t, 2, sol.Dim())
		assert.Equal(t, stats.Steps+1, len(sol.Breakpoints()))
		y := make([]complex128, 2)
		for _, tq := range []float64{0, 0.3, 2.5, 7.77, 9.999, 10} {
			require.NoError(t, sol.Eval(tq, y))
			assert.InDelta(t, math.Cos(tq), real(y[0]), tol, method.String())
			assert.InDelta(t, -math.Sin(tq), real(y[1]), tol, method.String())
			assert.InDelta(t, 0, imag(y[0]), tol)
		}
	}
}

func TestIntegrateComplexRotation(t *testing.T) {
	// y' = i y, y(0) = 1 has y = exp(i t)
	rot := func(t float64, y, dydt []complex128) {
		dydt[0] = 1i * y[0]
	}
	sol, _, err := Integrate(rot, 0, 2*math.Pi, []complex128{1}, nil)
	require.NoError(t, err)
	y := make([]complex128, 1)
	for _, tq := range []float64{0.1, 1, math.Pi, 5.5} {
		require.NoError(t, sol.Eval(tq, y))
		assert.Less(t, cmplx.Abs(y[0]-cmplx.Exp(complex(0, tq))), 1e-8)
	}
}

func TestIntegrateZeroState(t *testing.T) {
	zero := func(t float64, y, dydt []complex128) {
		for i := range y {
			dydt[i] = 0
		}
	}
	sol, stats, err := Integrate(zero, 0, 100, make([]complex128, 4), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Rejected)
	y := make([]complex128, 4)
	for _, tq := range []float64{0, 1e-7, 50, 100} {
		require.NoError(t, sol.Eval(tq, y))
		assert.Equal(t, make([]complex128, 4), y)
	}
}

func TestIntegrateErrors(t *testing.T) {
	var (
		ierr *IntegrationError
	)
	{ // Reversed span
		_, _, err := Integrate(oscillator, 1, 0, []complex128{1, 0}, nil)
		assert.True(t, errors.Is(err, ErrSpan))
	}
	{ // Bad tolerances
		cfg := NewConfig()
		cfg.RelTol = 0
		_, _, err := Integrate(oscillator, 0, 1, []complex128{1, 0}, cfg)
		assert.True(t, errors.Is(err, ErrTolerance))
	}
	{ // Step budget
		cfg := NewConfig()
		cfg.MaxSteps = 3
		_, _, err := Integrate(oscillator, 0, 100, []complex128{1, 0}, cfg)
		require.True(t, errors.As(err, &ierr))
		assert.True(t, errors.Is(err, ErrMaxSteps))
		assert.Equal(t, 3, ierr.Step)
		assert.True(t, ierr.T > 0 && ierr.T < 100)
	}
	{ // Non-finite right hand side
		bad := func(t float64, y, dydt []complex128) {
			dydt[0] = y[0]
			if t > 0.5 {
				dydt[0] = complex(math.NaN(), 0)
			}
		}
		_, _, err := Integrate(bad, 0, 1, []complex128{1}, nil)
		require.True(t, errors.As(err, &ierr))
		assert.True(t, errors.Is(err, ErrNonFinite))
		assert.True(t, ierr.T <= 0.5)
		assert.Contains(t, err.Error(), "DOP853")
	}
	{ // Evaluation outside the span
		sol, _, err := Integrate(oscillator, 0, 1, []complex128{1, 0}, nil)
		require.NoError(t, err)
		y := make([]complex128, 2)
		assert.True(t, errors.Is(sol.Eval(1.5, y), ErrOutOfRange))
		assert.True(t, errors.Is(sol.Eval(-0.1, y), ErrOutOfRange))
		assert.True(t, errors.Is(sol.Eval(0.5, y[:1]), ErrDimension))
	}
}

func TestFixedFirstAndMaxStep(t *testing.T) {
	cfg := NewConfig()
	cfg.FirstStep = 1e-3
	cfg.MaxStep = 0.05
	sol, stats, err := Integrate(oscillator, 0, 1, []complex128{1, 0}, cfg)
	require.NoError(t, err)
	assert.True(t, stats.Steps >= 20)
	ts := sol.Breakpoints()
	assert.InDelta(t, 1e-3, ts[1]-ts[0], 1e-15)
	for i := 1; i < len(ts); i++ {
		assert.True(t, ts[i]-ts[i-1] <= 0.05+1e-12)
	}
}
