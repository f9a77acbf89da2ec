package ode

import (
	"sort"
)

type segment interface {
	eval(t float64, dst []complex128)
}

// Dense is the continuous output of an integration: one interpolating
// polynomial per accepted step. It is immutable and safe for concurrent
// evaluation.
type Dense struct {
	n    int
	ts   []float64 // step boundaries, len(segs)+1
	segs []segment
}

func (d *Dense) Dim() int { return d.n }

func (d *Dense) Span() (t0, t1 float64) {
	return d.ts[0], d.ts[len(d.ts)-1]
}

func (d *Dense) Breakpoints() (ts []float64) {
	ts = make([]float64, len(d.ts))
	copy(ts, d.ts)
	return
}

// Eval writes y(t) into dst.
func (d *Dense) Eval(t float64, dst []complex128) (err error) {
	var (
		t0, t1 = d.Span()
	)
	if len(dst) != d.n {
		return ErrDimension
	}
	if t < t0 || t > t1 || t != t {
		return ErrOutOfRange
	}
	d.segs[d.find(t)].eval(t, dst)
	return
}

func (d *Dense) find(t float64) (k int) {
	k = sort.SearchFloat64s(d.ts, t) - 1
	if k < 0 {
		k = 0
	}
	if k > len(d.segs)-1 {
		k = len(d.segs) - 1
	}
	return
}
