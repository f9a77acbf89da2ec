package InputParameters

import (
	"fmt"
	"io"
	"sort"

	"github.com/ghodss/yaml"

	"github.com/notargets/gobedform/model_problems/ConvectiveBL"
	"github.com/notargets/gobedform/types"
)

// Parameters obtained from the YAML case file. ghodss/yaml converts to JSON
// before decoding, so the field names come from the json tags.
type CaseParameters struct {
	Title             string             `json:"Title"`
	Eta0              float64            `json:"Eta0"`
	EtaH              float64            `json:"EtaH"`
	EtaB              float64            `json:"EtaB"`
	Fr                float64            `json:"Fr"`
	Kappa             float64            `json:"Kappa,omitempty"`
	MaxZ              float64            `json:"MaxZ,omitempty"` // zero selects 0.9999*EtaH
	AbsTol            float64            `json:"AbsTol,omitempty"`
	RelTol            float64            `json:"RelTol,omitempty"`
	Method            string             `json:"Method,omitempty"`   // DOP853 or RK45
	Strategy          string             `json:"Strategy,omitempty"` // Parallel or Batched
	MaxCondition      float64            `json:"MaxCondition,omitempty"`
	ResidualTolerance float64            `json:"ResidualTolerance,omitempty"`
	Options           map[string]float64 `json:"Options,omitempty"` // forwarded to the integrator
}

func (cp *CaseParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, cp)
}

func (cp *CaseParameters) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", cp.Title)
	fmt.Fprintf(w, "%12.5e\t\t= Eta0\n", cp.Eta0)
	fmt.Fprintf(w, "%12.5e\t\t= EtaH\n", cp.EtaH)
	fmt.Fprintf(w, "%12.5e\t\t= EtaB\n", cp.EtaB)
	fmt.Fprintf(w, "%12.5e\t\t= Fr\n", cp.Fr)
	if cp.Kappa != 0 {
		fmt.Fprintf(w, "%12.5e\t\t= Kappa\n", cp.Kappa)
	}
	if cp.MaxZ != 0 {
		fmt.Fprintf(w, "%12.5e\t\t= MaxZ\n", cp.MaxZ)
	}
	if len(cp.Method) != 0 {
		fmt.Fprintf(w, "[%s]\t\t\t= Method\n", cp.Method)
	}
	if len(cp.Strategy) != 0 {
		fmt.Fprintf(w, "[%s]\t\t= Strategy\n", cp.Strategy)
	}
	keys := make([]string, len(cp.Options))
	i := 0
	for k := range cp.Options {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(w, "Options[%s] = %v\n", key, cp.Options[key])
	}
}

// Config converts the case into a solver configuration. Unset fields keep
// the solver defaults.
func (cp *CaseParameters) Config() (cfg *ConvectiveBL.Config, err error) {
	cfg = ConvectiveBL.NewConfig()
	if cfg.Method, err = types.NewMETHOD(cp.Method); err != nil {
		return nil, err
	}
	if cfg.Strategy, err = types.NewSTRATEGY(cp.Strategy); err != nil {
		return nil, err
	}
	cfg.MaxZ = cp.MaxZ
	if cp.Kappa != 0 {
		cfg.Kappa = cp.Kappa
	}
	if cp.AbsTol != 0 {
		cfg.AbsTol = cp.AbsTol
	}
	if cp.RelTol != 0 {
		cfg.RelTol = cp.RelTol
	}
	if cp.MaxCondition != 0 {
		cfg.MaxCondition = cp.MaxCondition
	}
	if cp.ResidualTolerance != 0 {
		cfg.ResidualTolerance = cp.ResidualTolerance
	}
	if len(cp.Options) != 0 {
		cfg.Options = make(map[string]float64, len(cp.Options))
		for k, v := range cp.Options {
			cfg.Options[k] = v
		}
	}
	return
}

// Solve runs the case
func (cp *CaseParameters) Solve() (sol *ConvectiveBL.Solution, err error) {
	var (
		cfg *ConvectiveBL.Config
	)
	if cfg, err = cp.Config(); err != nil {
		return
	}
	return ConvectiveBL.CalculateSolution(cp.Eta0, cp.EtaH, cp.EtaB, cp.Fr, cfg)
}

func (cp *CaseParameters) Marshal() ([]byte, error) {
	return yaml.Marshal(cp)
}
