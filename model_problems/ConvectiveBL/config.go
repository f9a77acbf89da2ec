package ConvectiveBL

import (
	"fmt"
	"math"
	"sort"

	"github.com/notargets/gobedform/closure"
	"github.com/notargets/gobedform/ode"
	"github.com/notargets/gobedform/types"
)

// DefaultCeiling places the top of the integration just below the
// coordinate singularity at eta = EtaH.
const DefaultCeiling = 0.9999

type Config struct {
	MaxZ              float64 // zero selects DefaultCeiling*EtaH
	Kappa             float64
	AbsTol, RelTol    float64
	Method            types.METHOD
	Strategy          types.STRATEGY
	MaxCondition      float64 // largest accepted condition number of the matching system
	ResidualTolerance float64 // largest accepted relative miss of the top boundary conditions
	// Options are forwarded to the integrator. Recognized keys are
	// first_step, max_step and max_steps.
	Options map[string]float64
	Closure closure.Closure
}

func NewConfig() *Config {
	return &Config{
		Kappa:             0.4,
		AbsTol:            1e-10,
		RelTol:            1e-10,
		Method:            types.DOP853,
		Strategy:          types.Parallel,
		MaxCondition:      1e14,
		ResidualTolerance: 1e-6,
		Closure:           closure.LogLaw{},
	}
}

// resolve returns a copy of cfg with unset fields replaced by defaults
func (cfg *Config) resolve() (c Config) {
	var (
		def = NewConfig()
	)
	if cfg == nil {
		return *def
	}
	c = *cfg
	if c.Kappa == 0 {
		c.Kappa = def.Kappa
	}
	if c.AbsTol == 0 {
		c.AbsTol = def.AbsTol
	}
	if c.RelTol == 0 {
		c.RelTol = def.RelTol
	}
	if c.MaxCondition == 0 {
		c.MaxCondition = def.MaxCondition
	}
	if c.ResidualTolerance == 0 {
		c.ResidualTolerance = def.ResidualTolerance
	}
	if c.Closure == nil {
		c.Closure = def.Closure
	}
	return
}

func (cfg *Config) integratorConfig(p Parameters) (oc *ode.Config, err error) {
	oc = &ode.Config{
		Method: cfg.Method,
		AbsTol: cfg.AbsTol,
		RelTol: cfg.RelTol,
	}
	keys := make([]string, 0, len(cfg.Options))
	for key := range cfg.Options {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		val := cfg.Options[key]
		if !(val > 0) || math.IsInf(val, 1) {
			return nil, &DomainError{Param: "option " + key, Value: val, Params: p}
		}
		switch key {
		case "first_step":
			oc.FirstStep = val
		case "max_step":
			oc.MaxStep = val
		case "max_steps":
			oc.MaxSteps = int(val)
		default:
			return nil, &DomainError{Param: "option " + key, Value: val, Params: p,
				Err: fmt.Errorf("unknown integrator option %q", key)}
		}
	}
	return
}

func (p Parameters) validateSystem() (err error) {
	if err = closure.Validate(p.Eta0, p.Kappa); err != nil {
		name, val := "eta0", p.Eta0
		if !(p.Kappa > 0) || math.IsInf(p.Kappa, 1) {
			name, val = "kappa", p.Kappa
		}
		return &DomainError{Param: name, Value: val, Params: p, Err: err}
	}
	switch {
	case !(p.EtaH > 0) || math.IsInf(p.EtaH, 1):
		err = &DomainError{Param: "etaH", Value: p.EtaH, Params: p}
	case !(p.MaxZ > 0) || !(p.MaxZ < p.EtaH):
		err = &DomainError{Param: "maxZ", Value: p.MaxZ, Params: p}
	}
	return
}

func (p Parameters) validate() (err error) {
	if err = p.validateSystem(); err != nil {
		return
	}
	switch {
	case !(p.EtaB > 0) || math.IsInf(p.EtaB, 1):
		err = &DomainError{Param: "etaB", Value: p.EtaB, Params: p}
	case p.Fr == 0 || math.IsNaN(p.Fr) || math.IsInf(p.Fr, 0):
		err = &DomainError{Param: "Fr", Value: p.Fr, Params: p}
	}
	return
}
