package ConvectiveBL

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gobedform/ode"
	"github.com/notargets/gobedform/types"
	"github.com/notargets/gobedform/utils"
)

// Fundamental solution slots. SolutionReserved is integrated from a zero
// initial state under the homogeneous system and stays identically zero.
const (
	SolutionForced = iota
	SolutionShear
	SolutionNormal
	SolutionReserved
	SolutionDelta
	NumSolutions
)

var slotForcing = [NumSolutions]Forcing{Forced, Homogeneous, Homogeneous, Homogeneous, ForcedDelta}

// InitialConditions returns the states of the fundamental solutions at the bed
func InitialConditions(sys *System) (ics [NumSolutions]Vector4) {
	ics[SolutionForced][IU] = complex(-sys.Closure.MuPrime(0, sys.Eta0, sys.Kappa), 0)
	ics[SolutionShear][ISt] = 1
	ics[SolutionNormal][ISn] = 1
	return
}

type interpolant interface {
	Eval(t float64, dst []complex128) error
}

// column exposes one state of a batched integration
type column struct {
	d       *ode.Dense
	j, nCol int
}

func (c column) Eval(t float64, dst []complex128) (err error) {
	buf := make([]complex128, c.d.Dim())
	if err = c.d.Eval(t, buf); err != nil {
		return
	}
	for i := range dst {
		dst[i] = buf[i*c.nCol+c.j]
	}
	return
}

// FundamentalSolutions holds the dense trajectories of the five fundamental
// solutions on [0, MaxZ]. Solutions integrated together share Statistics.
type FundamentalSolutions struct {
	MaxZ       float64
	Statistics [NumSolutions]ode.Statistics
	traj       [NumSolutions]interpolant
}

func (fs *FundamentalSolutions) At(slot int, eta float64) (X Vector4, err error) {
	if slot < 0 || slot >= NumSolutions {
		err = fmt.Errorf("At: no fundamental solution %d", slot)
		return
	}
	if !(eta >= 0 && eta <= fs.MaxZ) {
		err = fmt.Errorf("At: eta = %g outside [0, %g]: %w", eta, fs.MaxZ, ErrOutOfDomain)
		return
	}
	err = fs.traj[slot].Eval(eta, X[:])
	return
}

// IntegrateFundamentalSolutions integrates the five fundamental solutions of
// a boundary layer from the bed up to maxZ. A zero maxZ selects
// DefaultCeiling*etaH.
func IntegrateFundamentalSolutions(eta0, etaH, maxZ float64, cfg *Config) (fs *FundamentalSolutions, err error) {
	var (
		c   = cfg.resolve()
		p   = Parameters{Eta0: eta0, EtaH: etaH, Kappa: c.Kappa, MaxZ: maxZ}
		sys *System
	)
	if p.MaxZ == 0 {
		p.MaxZ = DefaultCeiling * etaH
	}
	if err = p.validateSystem(); err != nil {
		return
	}
	if sys, err = NewSystem(eta0, etaH, c.Kappa, c.Closure); err != nil {
		return
	}
	return integrate(sys, p, &c)
}

type job struct {
	slots []int
	f     ode.Func
	y0    []complex128
}

func integrate(sys *System, p Parameters, c *Config) (fs *FundamentalSolutions, err error) {
	var (
		oc   *ode.Config
		ics  = InitialConditions(sys)
		jobs []job
	)
	if oc, err = c.integratorConfig(p); err != nil {
		return
	}
	single := func(slot int) job {
		y0 := make([]complex128, 4)
		copy(y0, ics[slot][:])
		return job{slots: []int{slot}, f: NewVectorField(sys, slotForcing[slot]).Func(), y0: y0}
	}
	switch c.Strategy {
	case types.Batched:
		homog := []int{SolutionShear, SolutionNormal, SolutionReserved}
		n := len(homog)
		y0 := make([]complex128, 4*n)
		X0 := mat.NewCDense(4, n, y0)
		for j, slot := range homog {
			for i := 0; i < 4; i++ {
				X0.Set(i, j, ics[slot][i])
			}
		}
		jobs = []job{
			single(SolutionForced),
			{slots: homog, f: NewVectorField(sys, Homogeneous).BatchFunc(n), y0: y0},
			single(SolutionDelta),
		}
	case types.Parallel:
		for slot := 0; slot < NumSolutions; slot++ {
			jobs = append(jobs, single(slot))
		}
	default:
		err = fmt.Errorf("integrate: unknown strategy %s", c.Strategy)
		return
	}
	fs = &FundamentalSolutions{MaxZ: p.MaxZ}
	if err = fs.run(jobs, oc, p); err != nil {
		fs = nil
	}
	return
}

// run integrates every job on its own goroutine and reports the failure of
// the lowest numbered solution.
func (fs *FundamentalSolutions) run(jobs []job, oc *ode.Config, p Parameters) (err error) {
	var (
		wg   = sync.WaitGroup{}
		errs = make([]error, len(jobs))
	)
	for k := range jobs {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			jb := jobs[k]
			d, stats, e := ode.Integrate(jb.f, 0, p.MaxZ, jb.y0, oc)
			if e != nil {
				reached := stats.T
				var ie *ode.IntegrationError
				if errors.As(e, &ie) {
					reached = ie.T
				}
				errs[k] = &IntegrationError{Solution: jb.slots[0] + 1, Reached: reached, Params: p, Err: e}
				return
			}
			for j, slot := range jb.slots {
				if len(jb.slots) == 1 {
					fs.traj[slot] = d
				} else {
					fs.traj[slot] = column{d: d, j: j, nCol: len(jb.slots)}
				}
				fs.Statistics[slot] = stats
			}
		}(k)
	}
	wg.Wait()
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return
}

// Boundary conditions at the top of the boundary layer, rows W, St, Sn:
//
//	W  = i mu delta
//	St = delta / eta
//	Sn = mu^2 (q1 + 1/(etaH Fr^2)) delta
func topConditions(muTop, etaTop, etaH, Fr float64, q1 complex128) (b [3]complex128) {
	b[0] = complex(0, muTop)
	b[1] = complex(1/etaTop, 0)
	b[2] = complex(muTop*muTop, 0) * (q1 + complex(1/(etaH*Fr*Fr), 0))
	return
}

// match solves for the combination
//
//	X = X_forced + c1 X_shear + c2 X_normal + delta X_delta
//
// meeting the top conditions b*delta, and returns {1, c1, c2, delta}. The
// 3x3 system is solved with the forced coefficient as unknown and
// renormalized afterwards. Columns are equilibrated to unit max modulus
// before factoring, so cond is the condition number of the scaled system.
// The backward residual is checked before the condition number.
func match(top [NumSolutions]Vector4, b [3]complex128, maxCond, tol float64) (coeffs [4]complex128, cond, resid float64, err error) {
	var (
		M      = mat.NewCDense(3, 3, nil)
		rhs    = make([]complex128, 3)
		active = [3]int{SolutionForced, SolutionShear, SolutionNormal}
		scale  [3]float64
		x      []complex128
	)
	for c, slot := range active {
		scale[c] = utils.CAbsMax(top[slot][1:])
		if !(scale[c] > 0) || math.IsInf(scale[c], 1) {
			err = fmt.Errorf("match: column %d has modulus %v: %w", c, scale[c], ErrSingular)
			resid = math.NaN()
			return
		}
		scale[c] = 1 / scale[c]
	}
	for r := 0; r < 3; r++ {
		for c, slot := range active {
			M.Set(r, c, top[slot][r+1]*complex(scale[c], 0))
		}
		rhs[r] = b[r] - top[SolutionDelta][r+1]
	}
	if x, cond, err = utils.CLUSolve(M, rhs); err != nil {
		err = fmt.Errorf("%w: %w", ErrSingular, err)
		resid = math.NaN()
		return
	}
	for c := range x {
		x[c] *= complex(scale[c], 0)
	}
	if x[0] == 0 || cmplx.IsNaN(x[0]) || cmplx.IsInf(x[0]) {
		err = fmt.Errorf("match: forced solution drops out of the combination: %w", ErrSingular)
		resid = math.NaN()
		return
	}
	coeffs = [4]complex128{1, x[1] / x[0], x[2] / x[0], 1 / x[0]}
	resid = residual(top, b, coeffs)
	switch {
	case !(resid <= tol):
		err = ErrResidual
	case !(cond <= maxCond):
		err = ErrIllConditioned
	}
	return
}

// residual is the largest componentwise backward error of the combined
// solution against the top conditions:
//
//	|got_r - want_r| / (|want_r| + sum_k |c_k top_k,r|)
func residual(top [NumSolutions]Vector4, b [3]complex128, coeffs [4]complex128) (resid float64) {
	var (
		T     = mat.NewCDense(3, 4, nil)
		slots = [4]int{SolutionForced, SolutionShear, SolutionNormal, SolutionDelta}
	)
	for r := 0; r < 3; r++ {
		for k, slot := range slots {
			T.Set(r, k, top[slot][r+1])
		}
	}
	got := utils.CMatVec(T, coeffs[:])
	for r := 0; r < 3; r++ {
		var (
			want  = coeffs[3] * b[r]
			miss  = cmplx.Abs(got[r] - want)
			scale = cmplx.Abs(want)
		)
		for k := range slots {
			scale += cmplx.Abs(coeffs[k] * T.At(r, k))
		}
		if miss == 0 {
			continue
		}
		rel := miss / scale
		if math.IsNaN(rel) {
			return math.Inf(1)
		}
		resid = math.Max(resid, rel)
	}
	return
}

// CalculateSolution solves the perturbation of a boundary layer of depth
// etaH over a bed of roughness eta0, capped by a free atmosphere of
// stratification etaB and Froude number Fr.
func CalculateSolution(eta0, etaH, etaB, Fr float64, cfg *Config) (sol *Solution, err error) {
	var (
		c   = cfg.resolve()
		p   = Parameters{Eta0: eta0, EtaH: etaH, EtaB: etaB, Fr: Fr, Kappa: c.Kappa, MaxZ: c.MaxZ}
		sys *System
		fs  *FundamentalSolutions
		top [NumSolutions]Vector4
	)
	if p.MaxZ == 0 {
		p.MaxZ = DefaultCeiling * etaH
	}
	if err = p.validate(); err != nil {
		return
	}
	if sys, err = NewSystem(eta0, etaH, c.Kappa, c.Closure); err != nil {
		return
	}
	if !sys.Finite(0) || !sys.Finite(p.MaxZ) {
		err = &DomainError{Param: "maxZ", Value: p.MaxZ, Params: p,
			Err: errors.New("system coefficients are not finite on the integration span")}
		return
	}
	if fs, err = integrate(sys, p, &c); err != nil {
		return
	}
	for slot := 0; slot < NumSolutions; slot++ {
		if top[slot], err = fs.At(slot, p.MaxZ); err != nil {
			return
		}
	}
	var (
		rad   = NewRadiationCondition(etaB)
		muTop = sys.Closure.Mu(p.MaxZ, eta0, c.Kappa)
		b     = topConditions(muTop, p.MaxZ, etaH, Fr, rad.Q1())
	)
	coeffs, cond, resid, err := match(top, b, c.MaxCondition, c.ResidualTolerance)
	if err != nil {
		err = &MatchingError{Cond: cond, Residual: resid, Params: p, Err: err}
		return
	}
	sol = &Solution{
		fs:     fs,
		sys:    sys,
		params: p,
		rad:    rad,
		coeffs: coeffs,
		cond:   cond,
		resid:  resid,
	}
	sol.weights = [NumSolutions]complex128{coeffs[0], coeffs[1], coeffs[2], 0, coeffs[3]}
	return
}
