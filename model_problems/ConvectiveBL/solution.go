package ConvectiveBL

import (
	"fmt"
	"math/cmplx"
	"runtime"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gobedform/ode"
	"github.com/notargets/gobedform/utils"
)

// Solution is the matched perturbation of one parameter set. It is immutable
// and safe for concurrent use.
type Solution struct {
	fs      *FundamentalSolutions
	sys     *System
	params  Parameters
	rad     RadiationCondition
	coeffs  [4]complex128
	weights [NumSolutions]complex128
	cond    float64
	resid   float64
}

// At evaluates the combined perturbation [U, W, St, Sn] at height eta.
func (s *Solution) At(eta float64) (X Vector4, err error) {
	var (
		Y Vector4
	)
	for slot := 0; slot < NumSolutions; slot++ {
		if Y, err = s.fs.At(slot, eta); err != nil {
			return
		}
		for i := range X {
			X[i] += s.weights[slot] * Y[i]
		}
	}
	return
}

// AtHeights evaluates the perturbation at every height, one column per
// height, sharding the heights across the available CPUs.
func (s *Solution) AtHeights(etas []float64) (X *mat.CDense, err error) {
	var (
		n = len(etas)
	)
	if n == 0 {
		err = fmt.Errorf("AtHeights: no heights requested: %w", ErrOutOfDomain)
		return
	}
	X = mat.NewCDense(4, n, nil)
	pm := utils.NewPartitionMap(min(runtime.NumCPU(), n), n)
	err = pm.Run(func(bn, kMin, kMax int) (err error) {
		var (
			v Vector4
		)
		for k := kMin; k < kMax; k++ {
			if v, err = s.At(etas[k]); err != nil {
				return
			}
			for i := range v {
				X.Set(i, k, v[i])
			}
		}
		return
	})
	if err != nil {
		X = nil
	}
	return
}

// StreamFunctionFA is the stream function of the free atmosphere on the grid
// etaFA x kx, for a bed of amplitude kxi. Rows follow etaFA.
func (s *Solution) StreamFunctionFA(etaFA, kx []float64, kxi float64) (psi *mat.Dense, err error) {
	if len(etaFA) == 0 || len(kx) == 0 {
		err = fmt.Errorf("StreamFunctionFA: empty grid %dx%d: %w", len(etaFA), len(kx), ErrOutOfDomain)
		return
	}
	var (
		etaH = s.params.EtaH
		muH  = s.sys.Closure.Mu(etaH, s.params.Eta0, s.params.Kappa)
		psi1 = s.TopVerticalVelocity() / complex(0, -etaH)
		amp  = make([]complex128, len(kx))
	)
	for j, phase := range kx {
		amp[j] = complex(kxi, 0) * cmplx.Exp(complex(0, phase)) * psi1
	}
	psi = mat.NewDense(len(etaFA), len(kx), nil)
	for i, eta := range etaFA {
		base := muH * (eta/etaH - 1)
		for j := range kx {
			psi.Set(i, j, base+real(amp[j]))
		}
	}
	if !utils.AllFinite(psi.RawMatrix().Data) {
		err = fmt.Errorf("StreamFunctionFA: non-finite values for kxi = %v: %w", kxi, ErrDomain)
		psi = nil
	}
	return
}

// TopVerticalVelocity is W at the top of the boundary layer, i mu(etaH) delta.
func (s *Solution) TopVerticalVelocity() complex128 {
	muH := s.sys.Closure.Mu(s.params.EtaH, s.params.Eta0, s.params.Kappa)
	return complex(0, muH) * s.coeffs[3]
}

// Coefficients are the weights of the forced, shear, normal and delta
// solutions. The first is always 1.
func (s *Solution) Coefficients() [4]complex128 { return s.coeffs }

// Delta is the displacement of the boundary layer top per unit bed amplitude
func (s *Solution) Delta() complex128 { return s.coeffs[3] }

func (s *Solution) Radiation() RadiationCondition { return s.rad }

func (s *Solution) Condition() float64 { return s.cond }

func (s *Solution) Residual() float64 { return s.resid }

func (s *Solution) Parameters() Parameters { return s.params }

func (s *Solution) MaxZ() float64 { return s.params.MaxZ }

func (s *Solution) Statistics() [NumSolutions]ode.Statistics { return s.fs.Statistics }

func (s *Solution) Fundamental() *FundamentalSolutions { return s.fs }
