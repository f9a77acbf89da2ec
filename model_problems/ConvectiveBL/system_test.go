package ConvectiveBL

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gobedform/closure"
	"github.com/notargets/gobedform/utils"
)

func newTestSystem(t *testing.T, etaH float64) *System {
	sys, err := NewSystem(1e-5, etaH, 0.4, closure.LogLaw{})
	require.NoError(t, err)
	return sys
}

func TestSystemEntries(t *testing.T) {
	var (
		sys    = newTestSystem(t, 1)
		eta    = 0.5
		tp     = 1 - eta
		mu     = math.Log(1+eta/1e-5) / 0.4
		mp     = 1 / (0.4 * (eta + 1e-5))
		P      = sys.P(eta)
		S, Sd  = sys.S(eta), sys.SDelta(eta)
		closeC = func(want, got complex128) {
			assert.InDelta(t, 0, cmplx.Abs(want-got), 1e-12*math.Max(1, cmplx.Abs(want)))
		}
	)
	{ // Row U
		closeC(0, P[IU][IU])
		closeC(-1i, P[IU][IW])
		closeC(complex(mp/(2*tp), 0), P[IU][ISt])
		closeC(0, P[IU][ISn])
	}
	{ // Row W
		assert.Equal(t, [4]complex128{-1i, 0, 0, 0}, P[IW])
	}
	{ // Row St
		closeC(complex(4*tp/mp, mu), P[ISt][IU])
		closeC(complex(mp, 0), P[ISt][IW])
		closeC(0, P[ISt][ISt])
		closeC(1i, P[ISt][ISn])
	}
	{ // Row Sn
		closeC(0, P[ISn][IU])
		closeC(complex(0, -mu), P[ISn][IW])
		closeC(1i, P[ISn][ISt])
		closeC(0, P[ISn][ISn])
	}
	{ // Sources
		closeC(complex(0.4*mp*mp-mp/2, 0), S[IU])
		closeC(complex(-eta*mp/(2*tp), 0), Sd[IU])
		for i := 1; i < 4; i++ {
			assert.Equal(t, complex128(0), S[i])
			assert.Equal(t, complex128(0), Sd[i])
		}
	}
}

func TestSystemFinite(t *testing.T) {
	for _, etaH := range []float64{0.5, 1, 10, 1000} {
		sys := newTestSystem(t, etaH)
		for _, eta := range utils.Linspace(0, DefaultCeiling*etaH, 101) {
			assert.True(t, sys.Finite(eta), "etaH = %g, eta = %g", etaH, eta)
		}
		// the coordinate singularity
		assert.False(t, sys.Finite(etaH))
	}
}

func TestSystemStacks(t *testing.T) {
	var (
		sys  = newTestSystem(t, 2)
		etas = utils.Linspace(0.1, 1.9, 7)
		Ps   = sys.PStack(etas)
		Ss   = sys.SStack(etas)
		Sds  = sys.SDeltaStack(etas)
	)
	require.Equal(t, len(etas), len(Ps))
	require.Equal(t, len(etas), len(Ss))
	require.Equal(t, len(etas), len(Sds))
	for k, eta := range etas {
		assert.Equal(t, sys.P(eta), Ps[k])
		assert.Equal(t, sys.S(eta), Ss[k])
		assert.Equal(t, sys.SDelta(eta), Sds[k])
	}
	assert.Empty(t, sys.PStack(nil))
}

func TestMulVec(t *testing.T) {
	var (
		m   = Matrix4{{1, 2, 0, 0}, {0, 1i, 0, 0}, {0, 0, 0, 1}, {1, 1, 1, 1}}
		x   = []complex128{1, 2, 3, 4i}
		dst = make([]complex128, 4)
	)
	m.MulVec(x, dst)
	assert.Equal(t, []complex128{5, 2i, 4i, 6 + 4i}, dst)
}

func TestNewSystemDomain(t *testing.T) {
	{
		_, err := NewSystem(0, 1, 0.4, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDomain))
		assert.True(t, errors.Is(err, closure.ErrParameter))
		var de *DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "eta0", de.Param)
	}
	{
		_, err := NewSystem(1e-5, 1, -0.4, nil)
		var de *DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "kappa", de.Param)
	}
	{
		_, err := NewSystem(1e-5, -1, 0.4, nil)
		var de *DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "etaH", de.Param)
		assert.True(t, errors.Is(err, ErrDomain))
	}
	{
		sys, err := NewSystem(1e-5, 1, 0.4, nil)
		require.NoError(t, err)
		assert.Equal(t, closure.LogLaw{}, sys.Closure)
	}
}
