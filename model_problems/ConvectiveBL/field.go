package ConvectiveBL

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gobedform/ode"
)

type Forcing uint8

const (
	Homogeneous Forcing = iota
	Forced              // P X + S
	ForcedDelta         // P X + SDelta
)

var forcingNames = []string{"Homogeneous", "Forced", "ForcedDelta"}

func (f Forcing) String() string {
	if int(f) >= len(forcingNames) {
		return fmt.Sprintf("Forcing(%d)", f)
	}
	return forcingNames[f]
}

// Evaluator computes dX/deta for a single state or a 4xN batch of states
// stored column-wise.
type Evaluator interface {
	EvaluateSingle(eta float64, X, dXdEta []complex128)
	EvaluateBatch(eta float64, X, dXdEta *mat.CDense)
}

type VectorField struct {
	Sys     *System
	Forcing Forcing
}

func NewVectorField(sys *System, forcing Forcing) *VectorField {
	return &VectorField{Sys: sys, Forcing: forcing}
}

func (vf *VectorField) source(eta float64) (S Vector4, ok bool) {
	switch vf.Forcing {
	case Forced:
		return vf.Sys.S(eta), true
	case ForcedDelta:
		return vf.Sys.SDelta(eta), true
	}
	return
}

func (vf *VectorField) EvaluateSingle(eta float64, X, dXdEta []complex128) {
	P := vf.Sys.P(eta)
	P.MulVec(X, dXdEta)
	if S, ok := vf.source(eta); ok {
		for i := range S {
			dXdEta[i] += S[i]
		}
	}
}

// EvaluateBatch applies the same P (and source) to every column of X.
func (vf *VectorField) EvaluateBatch(eta float64, X, dXdEta *mat.CDense) {
	var (
		P     = vf.Sys.P(eta)
		S, ok = vf.source(eta)
		nr, n = X.Dims()
		x, d  = X.RawCMatrix(), dXdEta.RawCMatrix()
	)
	if nr != 4 {
		panic(fmt.Errorf("EvaluateBatch: state batch has %d rows, want 4", nr))
	}
	if r, c := dXdEta.Dims(); r != 4 || c != n {
		panic(fmt.Errorf("EvaluateBatch: derivative batch is %dx%d, want 4x%d", r, c, n))
	}
	for j := 0; j < n; j++ {
		for i := 0; i < 4; i++ {
			var sum complex128
			for k := 0; k < 4; k++ {
				sum += P[i][k] * x.Data[k*x.Stride+j]
			}
			if ok {
				sum += S[i]
			}
			d.Data[i*d.Stride+j] = sum
		}
	}
}

// Func adapts the single-state evaluation to the integrator.
func (vf *VectorField) Func() ode.Func {
	return func(t float64, y, dydt []complex128) {
		vf.EvaluateSingle(t, y, dydt)
	}
}

// BatchFunc adapts the batch evaluation to the integrator. The integrator
// state is the row-major storage of a 4xn matrix.
func (vf *VectorField) BatchFunc(n int) ode.Func {
	return func(t float64, y, dydt []complex128) {
		vf.EvaluateBatch(t, mat.NewCDense(4, n, y), mat.NewCDense(4, n, dydt))
	}
}
