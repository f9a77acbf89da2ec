package types

import (
	"fmt"
	"strings"
)

type METHOD uint8

const (
	DOP853 METHOD = iota
	RK45
)

var (
	MethodNames = map[string]METHOD{
		"dop853": DOP853,
		"rk45":   RK45,
	}
	MethodPrintNames = []string{"DOP853", "RK45"}
)

func (m METHOD) String() string {
	if int(m) >= len(MethodPrintNames) {
		return fmt.Sprintf("METHOD(%d)", m)
	}
	return MethodPrintNames[m]
}

func NewMETHOD(label string) (m METHOD, err error) {
	var (
		ok bool
	)
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return DOP853, nil
	}
	if m, ok = MethodNames[label]; !ok {
		err = fmt.Errorf("unable to use integration method named %s", label)
	}
	return
}

// STRATEGY selects how the fundamental solutions are integrated
type STRATEGY uint8

const (
	Parallel STRATEGY = iota
	Batched
)

var (
	StrategyNames = map[string]STRATEGY{
		"parallel": Parallel,
		"batched":  Batched,
	}
	StrategyPrintNames = []string{"Parallel", "Batched"}
)

func (s STRATEGY) String() string {
	if int(s) >= len(StrategyPrintNames) {
		return fmt.Sprintf("STRATEGY(%d)", s)
	}
	return StrategyPrintNames[s]
}

func NewSTRATEGY(label string) (s STRATEGY, err error) {
	var (
		ok bool
	)
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return Parallel, nil
	}
	if s, ok = StrategyNames[label]; !ok {
		err = fmt.Errorf("unable to use integration strategy named %s", label)
	}
	return
}
