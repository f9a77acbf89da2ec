package ode

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

type dop853 struct {
	f    Func
	n    int
	k    [dopStagesExtended][]complex128
	yTmp []complex128
	e3   []float64
	e5   []float64
}

func newDOP853(f Func, n int) (d *dop853) {
	d = &dop853{
		f:    f,
		n:    n,
		yTmp: make([]complex128, n),
		e3:   make([]float64, n),
		e5:   make([]float64, n),
	}
	for s := range d.k {
		d.k[s] = make([]complex128, n)
	}
	return
}

func (d *dop853) errorOrder() int { return 7 }

// stage evaluates stage s from the already computed stages 0..s-1
func (d *dop853) stage(s int, t, h float64, y []complex128) {
	var (
		a = dopA[s]
	)
	for i := 0; i < d.n; i++ {
		var dy complex128
		for j := 0; j < s; j++ {
			if a[j] != 0 {
				dy += d.k[j][i] * complex(a[j], 0)
			}
		}
		d.yTmp[i] = y[i] + dy*complex(h, 0)
	}
	d.f(t+dopC[s]*h, d.yTmp, d.k[s])
}

func (d *dop853) attempt(t, h float64, y, fy, yNew, fNew []complex128, atol, rtol float64) float64 {
	var (
		b      = dopA[dopStages]
		e3, e5 float64
	)
	copy(d.k[0], fy)
	for s := 1; s < dopStages; s++ {
		d.stage(s, t, h, y)
	}
	for i := 0; i < d.n; i++ {
		var dy complex128
		for j := 0; j < dopStages; j++ {
			dy += d.k[j][i] * complex(b[j], 0)
		}
		yNew[i] = y[i] + complex(h, 0)*dy
	}
	d.f(t+h, yNew, fNew)
	copy(d.k[dopStages], fNew)
	for i := 0; i < d.n; i++ {
		var err3, err5 complex128
		for j := 0; j <= dopStages; j++ {
			err3 += d.k[j][i] * complex(dopE3[j], 0)
			err5 += d.k[j][i] * complex(dopE5[j], 0)
		}
		scale := atol + math.Max(cmplx.Abs(y[i]), cmplx.Abs(yNew[i]))*rtol
		d.e3[i] = cmplx.Abs(err3) / scale
		d.e5[i] = cmplx.Abs(err5) / scale
	}
	e3 = floats.Norm(d.e3, 2)
	e5 = floats.Norm(d.e5, 2)
	e3, e5 = e3*e3, e5*e5
	if e5 == 0 && e3 == 0 {
		return 0
	}
	return math.Abs(h) * e5 / math.Sqrt((e5+0.01*e3)*float64(d.n))
}

func (d *dop853) interpolant(t, h float64, y, fy, yNew, fNew []complex128) segment {
	var (
		seg = &dopSegment{t0: t, h: h, y0: make([]complex128, d.n)}
		hc  = complex(h, 0)
	)
	copy(seg.y0, y)
	for s := dopStages + 1; s < dopStagesExtended; s++ {
		d.stage(s, t, h, y)
	}
	for r := range seg.f {
		seg.f[r] = make([]complex128, d.n)
	}
	for i := 0; i < d.n; i++ {
		dy := yNew[i] - y[i]
		seg.f[0][i] = dy
		seg.f[1][i] = hc*fy[i] - dy
		seg.f[2][i] = 2*dy - hc*(fNew[i]+fy[i])
		for r := 0; r < dopInterpPower-3; r++ {
			var sum complex128
			for j, dd := range dopD[r] {
				if dd != 0 {
					sum += d.k[j][i] * complex(dd, 0)
				}
			}
			seg.f[r+3][i] = hc * sum
		}
	}
	return seg
}

type dopSegment struct {
	t0, h float64
	y0    []complex128
	f     [dopInterpPower][]complex128
}

func (s *dopSegment) eval(t float64, dst []complex128) {
	var (
		x  = (t - s.t0) / s.h
		xc = complex(x, 0)
		xm = complex(1-x, 0)
	)
	for i := range dst {
		var v complex128
		for r := dopInterpPower - 1; r >= 0; r-- {
			v += s.f[r][i]
			if (dopInterpPower-1-r)%2 == 0 {
				v *= xc
			} else {
				v *= xm
			}
		}
		dst[i] = s.y0[i] + v
	}
}
