package ConvectiveBL

import (
	"math"

	"github.com/notargets/gobedform/closure"
)

// State components of the perturbation vector X = [U, W, St, Sn]
const (
	IU = iota
	IW
	ISt
	ISn
)

type (
	Vector4 [4]complex128
	Matrix4 [4][4]complex128
)

// MulVec writes m*x into dst
func (m *Matrix4) MulVec(x, dst []complex128) {
	for i := 0; i < 4; i++ {
		dst[i] = m[i][0]*x[0] + m[i][1]*x[1] + m[i][2]*x[2] + m[i][3]*x[3]
	}
}

// System builds the coefficients of the linear system dX/deta = P X + S for
// a boundary layer of dimensionless roughness Eta0 and depth EtaH.
type System struct {
	Eta0, EtaH, Kappa float64
	Closure           closure.Closure
}

func NewSystem(eta0, etaH, kappa float64, cl closure.Closure) (s *System, err error) {
	var (
		p = Parameters{Eta0: eta0, EtaH: etaH, Kappa: kappa, MaxZ: DefaultCeiling * etaH}
	)
	if err = p.validateSystem(); err != nil {
		return
	}
	if cl == nil {
		cl = closure.LogLaw{}
	}
	s = &System{Eta0: eta0, EtaH: etaH, Kappa: kappa, Closure: cl}
	return
}

func (s *System) mu(eta float64) (mu, mp float64) {
	mu = s.Closure.Mu(eta, s.Eta0, s.Kappa)
	mp = s.Closure.MuPrime(eta, s.Eta0, s.Kappa)
	return
}

// P is singular at eta = EtaH, where the thickness factor 1 - eta/EtaH vanishes.
func (s *System) P(eta float64) (P Matrix4) {
	var (
		tp     = 1 - eta/s.EtaH
		mu, mp = s.mu(eta)
	)
	P[IU] = [4]complex128{0, -1i, complex(mp/(2*tp), 0), 0}
	P[IW] = [4]complex128{-1i, 0, 0, 0}
	P[ISt] = [4]complex128{complex(4*tp/mp, mu), complex(mp, 0), 0, 1i}
	P[ISn] = [4]complex128{0, complex(0, -mu), 1i, 0}
	return
}

// S is the forcing of the bed perturbation. Only the U component is nonzero.
func (s *System) S(eta float64) (S Vector4) {
	_, mp := s.mu(eta)
	S[IU] = complex(s.Kappa*mp*mp-mp/(2*s.EtaH), 0)
	return
}

// SDelta is the forcing of the displacement of the boundary layer top.
func (s *System) SDelta(eta float64) (S Vector4) {
	var (
		tp    = 1 - eta/s.EtaH
		_, mp = s.mu(eta)
	)
	S[IU] = complex(-eta*mp/(2*s.EtaH*s.EtaH*tp), 0)
	return
}

func (s *System) PStack(etas []float64) (Ps []Matrix4) {
	Ps = make([]Matrix4, len(etas))
	for k, eta := range etas {
		Ps[k] = s.P(eta)
	}
	return
}

func (s *System) SStack(etas []float64) (Ss []Vector4) {
	Ss = make([]Vector4, len(etas))
	for k, eta := range etas {
		Ss[k] = s.S(eta)
	}
	return
}

func (s *System) SDeltaStack(etas []float64) (Ss []Vector4) {
	Ss = make([]Vector4, len(etas))
	for k, eta := range etas {
		Ss[k] = s.SDelta(eta)
	}
	return
}

// Finite reports whether every entry of the coefficients at eta is finite.
func (s *System) Finite(eta float64) bool {
	var (
		P    = s.P(eta)
		S, D = s.S(eta), s.SDelta(eta)
	)
	ok := func(z complex128) bool {
		return !math.IsNaN(real(z)) && !math.IsNaN(imag(z)) &&
			!math.IsInf(real(z), 0) && !math.IsInf(imag(z), 0)
	}
	for i := 0; i < 4; i++ {
		if !ok(S[i]) || !ok(D[i]) {
			return false
		}
		for j := 0; j < 4; j++ {
			if !ok(P[i][j]) {
				return false
			}
		}
	}
	return true
}
