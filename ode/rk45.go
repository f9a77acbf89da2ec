package ode

import (
	"math"
	"math/cmplx"
)

type rk45 struct {
	f    Func
	n    int
	k    [rkStages + 1][]complex128
	yTmp []complex128
	e    []float64
}

func newRK45(f Func, n int) (r *rk45) {
	r = &rk45{
		f:    f,
		n:    n,
		yTmp: make([]complex128, n),
		e:    make([]float64, n),
	}
	for s := range r.k {
		r.k[s] = make([]complex128, n)
	}
	return
}

func (r *rk45) errorOrder() int { return 4 }

func (r *rk45) attempt(t, h float64, y, fy, yNew, fNew []complex128, atol, rtol float64) float64 {
	var (
		hc = complex(h, 0)
	)
	copy(r.k[0], fy)
	for s := 1; s < rkStages; s++ {
		for i := 0; i < r.n; i++ {
			var dy complex128
			for j := 0; j < s; j++ {
				dy += r.k[j][i] * complex(rkA[s][j], 0)
			}
			r.yTmp[i] = y[i] + dy*hc
		}
		r.f(t+rkC[s]*h, r.yTmp, r.k[s])
	}
	for i := 0; i < r.n; i++ {
		var dy complex128
		for j := 0; j < rkStages; j++ {
			dy += r.k[j][i] * complex(rkB[j], 0)
		}
		yNew[i] = y[i] + hc*dy
	}
	r.f(t+h, yNew, fNew)
	copy(r.k[rkStages], fNew)
	for i := 0; i < r.n; i++ {
		var err complex128
		for j := range rkE {
			err += r.k[j][i] * complex(rkE[j], 0)
		}
		scale := atol + math.Max(cmplx.Abs(y[i]), cmplx.Abs(yNew[i]))*rtol
		r.e[i] = cmplx.Abs(err*hc) / scale
	}
	return rms(r.e)
}

func (r *rk45) interpolant(t, h float64, y, fy, yNew, fNew []complex128) segment {
	var (
		seg = &rkSegment{t0: t, h: h, y0: make([]complex128, r.n)}
	)
	copy(seg.y0, y)
	for p := range seg.q {
		seg.q[p] = make([]complex128, r.n)
		for i := 0; i < r.n; i++ {
			var sum complex128
			for j := range rkP {
				sum += r.k[j][i] * complex(rkP[j][p], 0)
			}
			seg.q[p][i] = sum
		}
	}
	return seg
}

type rkSegment struct {
	t0, h float64
	y0    []complex128
	q     [4][]complex128
}

func (s *rkSegment) eval(t float64, dst []complex128) {
	var (
		x  = (t - s.t0) / s.h
		pw [4]complex128
	)
	pw[0] = complex(x, 0)
	for p := 1; p < 4; p++ {
		pw[p] = pw[p-1] * complex(x, 0)
	}
	for i := range dst {
		var v complex128
		for p := range s.q {
			v += s.q[p][i] * pw[p]
		}
		dst[i] = s.y0[i] + complex(s.h, 0)*v
	}
}
