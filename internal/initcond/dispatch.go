package initcond

import (
	"fmt"

	"github.com/san-kum/odelab/internal/diffeq"
	"github.com/san-kum/odelab/internal/nlsolve"
)

// Strategy selects how initial values are established. One strategy is
// chosen per invocation; there are no transitions between them within
// a call, and no silent fallback from one to another.
type Strategy int

const (
	// Skip adopts the provider's current values unconditionally.
	Skip Strategy = iota
	// Check verifies the current values satisfy the governing residual.
	Check
	// Override solves the attached auxiliary subproblem and maps its
	// solution into the full state/parameter space.
	Override
)

func (s Strategy) String() string {
	switch s {
	case Skip:
		return "skip"
	case Check:
		return "check"
	case Override:
		return "override"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy maps the option-bag spelling to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "skip":
		return Skip, nil
	case "check":
		return Check, nil
	case "override":
		return Override, nil
	default:
		return 0, fmt.Errorf("initcond: unknown strategy %q", s)
	}
}

// Options configures a single initialization call.
type Options struct {
	AbsTol    float64
	RelTol    float64
	Algorithm nlsolve.Algorithm // required only by Override on non-trivial subproblems
}

func (o Options) withDefaults() Options {
	if o.AbsTol == 0 && o.RelTol == 0 {
		o.AbsTol = DefaultAbsTol
		o.RelTol = DefaultRelTol
	}
	return o
}

// Result is the uniform outcome of GetInitialValues. Success false
// without an error means the override solve did not converge; the
// caller decides whether that is fatal.
type Result struct {
	State   diffeq.State
	Params  diffeq.Params
	Success bool
}

// GetInitialValues establishes the starting (state, params) pair for
// prob from the provider's current values, according to strategy. It
// is a single blocking call; the only unbounded work is the override
// path's delegation to the nonlinear-solve engine, which owns its own
// iteration limits.
func GetInitialValues(prob *diffeq.Problem, prov diffeq.ValueProvider, strategy Strategy, opts Options) (Result, error) {
	switch strategy {
	case Skip:
		return Result{
			State:   prov.CurrentState(),
			Params:  prov.CurrentParams(),
			Success: true,
		}, nil

	case Check:
		if err := CheckConsistency(prob, prov, opts); err != nil {
			return Result{}, err
		}
		return Result{
			State:   prov.CurrentState(),
			Params:  prov.CurrentParams(),
			Success: true,
		}, nil

	case Override:
		return solveOverride(prob, prov, opts)

	default:
		return Result{}, fmt.Errorf("initcond: unknown strategy %d", strategy)
	}
}
