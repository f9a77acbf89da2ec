package ode

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gobedform/types"
)

// Func evaluates dydt = f(t, y). dydt is owned by the caller and must be
// fully overwritten.
type Func func(t float64, y, dydt []complex128)

type Config struct {
	Method    types.METHOD
	AbsTol    float64
	RelTol    float64
	FirstStep float64 // zero selects the initial step automatically
	MaxStep   float64 // zero leaves the step unbounded
	MaxSteps  int     // zero leaves the step count unbounded
}

func NewConfig() *Config {
	return &Config{
		Method: types.DOP853,
		AbsTol: 1e-10,
		RelTol: 1e-10,
	}
}

type Statistics struct {
	Steps       int
	Rejected    int
	Evaluations int
	LastStep    float64
	T           float64
}

const (
	safety    = 0.9
	minFactor = 0.2
	maxFactor = 10.
)

// stepper is one embedded Runge-Kutta pair with a continuous extension.
type stepper interface {
	errorOrder() int
	// attempt advances y by h into yNew/fNew, fy holds f(t, y), and returns
	// the scaled error norm of the step
	attempt(t, h float64, y, fy, yNew, fNew []complex128, atol, rtol float64) float64
	// interpolant builds the dense output of the last accepted attempt
	interpolant(t, h float64, y, fy, yNew, fNew []complex128) segment
}

func newStepper(method types.METHOD, f Func, n int) (s stepper) {
	switch method {
	case types.RK45:
		s = newRK45(f, n)
	case types.DOP853:
		fallthrough
	default:
		s = newDOP853(f, n)
	}
	return
}

// Integrate solves y' = f(t, y), y(t0) = y0 on [t0, t1] with an adaptive
// explicit Runge-Kutta pair and returns a dense solution valid on the whole
// span.
func Integrate(f Func, t0, t1 float64, y0 []complex128, cfg *Config) (sol *Dense, stats Statistics, err error) {
	var (
		n            = len(y0)
		atol, rtol   float64
		y, fy        = make([]complex128, n), make([]complex128, n)
		yNew, fNew   = make([]complex128, n), make([]complex128, n)
		step         stepper
		hAbs, maxStp float64
		t            = t0
	)
	if cfg == nil {
		cfg = NewConfig()
	}
	fail := func(e error) error {
		return &IntegrationError{Method: cfg.Method, T: t, Step: stats.Steps, Err: e}
	}
	if n == 0 {
		err = fail(ErrDimension)
		return
	}
	if !(t1 > t0) || math.IsInf(t0, 0) || math.IsInf(t1, 0) {
		err = fail(ErrSpan)
		return
	}
	if atol, rtol, err = tolerances(cfg); err != nil {
		err = fail(err)
		return
	}
	counted := func(t float64, y, dydt []complex128) {
		stats.Evaluations++
		f(t, y, dydt)
	}
	step = newStepper(cfg.Method, counted, n)
	maxStp = math.Inf(1)
	if cfg.MaxStep > 0 {
		maxStp = cfg.MaxStep
	}
	copy(y, y0)
	counted(t, y, fy)
	if !finite(fy) || !finite(y) {
		err = fail(ErrNonFinite)
		return
	}
	if cfg.FirstStep > 0 {
		hAbs = math.Min(cfg.FirstStep, t1-t0)
	} else {
		hAbs = initialStep(counted, t0, t1, y, fy, step.errorOrder(), maxStp, atol, rtol)
	}
	sol = &Dense{n: n, ts: []float64{t0}}
	errExp := -1. / float64(step.errorOrder()+1)
	for t < t1 {
		if cfg.MaxSteps > 0 && stats.Steps >= cfg.MaxSteps {
			err = fail(ErrMaxSteps)
			return
		}
		minStep := 10 * math.Abs(math.Nextafter(t, math.Inf(1))-t)
		if hAbs > maxStp {
			hAbs = maxStp
		} else if hAbs < minStep {
			hAbs = minStep
		}
		var (
			rejected bool
			h, tNew  float64
		)
		for {
			if hAbs < minStep {
				err = fail(ErrStepTooSmall)
				return
			}
			tNew = t + hAbs
			if tNew > t1 {
				tNew = t1
			}
			h = tNew - t
			hAbs = math.Abs(h)
			errNorm := step.attempt(t, h, y, fy, yNew, fNew, atol, rtol)
			if math.IsNaN(errNorm) || math.IsInf(errNorm, 0) || !finite(yNew) {
				err = fail(ErrNonFinite)
				return
			}
			if errNorm < 1 {
				factor := maxFactor
				if errNorm != 0 {
					factor = math.Min(maxFactor, safety*math.Pow(errNorm, errExp))
				}
				if rejected {
					factor = math.Min(1, factor)
				}
				hAbs *= factor
				break
			}
			hAbs *= math.Max(minFactor, safety*math.Pow(errNorm, errExp))
			rejected = true
			stats.Rejected++
		}
		sol.segs = append(sol.segs, step.interpolant(t, h, y, fy, yNew, fNew))
		sol.ts = append(sol.ts, tNew)
		t = tNew
		y, yNew = yNew, y
		fy, fNew = fNew, fy
		stats.Steps++
		stats.LastStep = h
	}
	stats.T = t
	return
}

func tolerances(cfg *Config) (atol, rtol float64, err error) {
	atol, rtol = cfg.AbsTol, cfg.RelTol
	if !(atol > 0) || !(rtol > 0) {
		err = ErrTolerance
		return
	}
	if floor := 100 * epsilon; rtol < floor {
		rtol = floor
	}
	return
}

const epsilon = 2.220446049250313e-16

// initialStep follows Hairer, Norsett & Wanner, "Solving Ordinary
// Differential Equations I", sec. II.4.
func initialStep(f Func, t0, t1 float64, y0, f0 []complex128, order int, maxStep, atol, rtol float64) (h float64) {
	var (
		n        = len(y0)
		span     = t1 - t0
		buf      = make([]float64, n)
		y1, f1   = make([]complex128, n), make([]complex128, n)
		d0, d1   float64
		d2, h0   float64
		h1, dMax float64
	)
	scale := func(i int) float64 { return atol + cmplx.Abs(y0[i])*rtol }
	for i := range y0 {
		buf[i] = cmplx.Abs(y0[i]) / scale(i)
	}
	d0 = rms(buf)
	for i := range f0 {
		buf[i] = cmplx.Abs(f0[i]) / scale(i)
	}
	d1 = rms(buf)
	if d0 < 1e-5 || d1 < 1e-5 {
		h0 = 1e-6
	} else {
		h0 = 0.01 * d0 / d1
	}
	h0 = math.Min(h0, span)
	for i := range y0 {
		y1[i] = y0[i] + complex(h0, 0)*f0[i]
	}
	f(t0+h0, y1, f1)
	for i := range f1 {
		buf[i] = cmplx.Abs(f1[i]-f0[i]) / scale(i)
	}
	d2 = rms(buf) / h0
	if d1 <= 1e-15 && d2 <= 1e-15 {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		dMax = math.Max(d1, d2)
		h1 = math.Pow(0.01/dMax, 1./float64(order+1))
	}
	h = math.Min(math.Min(100*h0, h1), math.Min(span, maxStep))
	return
}

func rms(v []float64) float64 {
	return floats.Norm(v, 2) / math.Sqrt(float64(len(v)))
}

func finite(v []complex128) bool {
	for _, z := range v {
		if cmplx.IsNaN(z) || cmplx.IsInf(z) {
			return false
		}
	}
	return true
}
