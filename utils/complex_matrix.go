package utils

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var ErrSingular = errors.New("utils: matrix is singular")

// CLUSolve solves A x = b for a square complex A. The system is factored
// through its real embedding
//
//	[ Re(A) -Im(A) ] [ Re(x) ]   [ Re(b) ]
//	[ Im(A)  Re(A) ] [ Im(x) ] = [ Im(b) ]
//
// whose singular values are those of A, each repeated twice, so the
// returned 1-norm condition estimate tracks the conditioning of A.
func CLUSolve(A *mat.CDense, b []complex128) (x []complex128, cond float64, err error) {
	var (
		nr, nc = A.Dims()
		R      = mat.NewDense(2*nr, 2*nr, nil)
		rhs    = mat.NewVecDense(2*nr, nil)
		sol    = mat.NewVecDense(2*nr, nil)
		lu     mat.LU
	)
	if nr != nc || len(b) != nr {
		err = fmt.Errorf("CLUSolve: dimension mismatch, A is %dx%d, b has %d entries", nr, nc, len(b))
		return
	}
	for i := 0; i < nr; i++ {
		for j := 0; j < nr; j++ {
			a := A.At(i, j)
			R.Set(i, j, real(a))
			R.Set(i, j+nr, -imag(a))
			R.Set(i+nr, j, imag(a))
			R.Set(i+nr, j+nr, real(a))
		}
		rhs.SetVec(i, real(b[i]))
		rhs.SetVec(i+nr, imag(b[i]))
	}
	lu.Factorize(R)
	cond = lu.Cond()
	if math.IsInf(cond, 1) || math.IsNaN(cond) {
		err = ErrSingular
		return
	}
	if err = lu.SolveVecTo(sol, false, rhs); err != nil {
		// mat.Condition is returned for numerically singular systems
		err = fmt.Errorf("CLUSolve: %v: %w", err, ErrSingular)
		return
	}
	x = make([]complex128, nr)
	for i := range x {
		x[i] = complex(sol.AtVec(i), sol.AtVec(i+nr))
	}
	return
}

// CMatVec returns A x
func CMatVec(A *mat.CDense, x []complex128) (y []complex128) {
	var (
		nr, nc = A.Dims()
	)
	if len(x) != nc {
		panic(fmt.Errorf("CMatVec: dimension mismatch, A has %d columns, x has %d entries", nc, len(x)))
	}
	y = make([]complex128, nr)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			y[i] += A.At(i, j) * x[j]
		}
	}
	return
}
