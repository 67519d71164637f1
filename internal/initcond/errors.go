package initcond

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoAlgorithm indicates the override strategy was asked to
	// solve a non-trivial subproblem with no nonlinear algorithm
	// supplied. No default is ever attempted.
	ErrNoAlgorithm = errors.New("initcond: override requires a nonlinear-solve algorithm")

	// ErrNoInitSpec indicates the override strategy was selected on a
	// problem with no initialization data attached.
	ErrNoInitSpec = errors.New("initcond: override requires InitSpec on the problem")

	// ErrNoDerivative indicates a residual check that needs the
	// current state derivative from a provider that tracks none.
	ErrNoDerivative = errors.New("initcond: provider supplies no state derivative")

	// ErrUncheckable indicates a problem form the consistency check
	// does not cover.
	ErrUncheckable = errors.New("initcond: no residual defined for this problem form")
)

// ConsistencyError reports a failed consistency check. It carries the
// full residual vector and the tolerances used so the caller can see
// which components violated and by how much.
type ConsistencyError struct {
	Strategy Strategy
	Residual []float64
	Bad      []int // indices of components over tolerance
	AbsTol   float64
	RelTol   float64
}

func (e *ConsistencyError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "initcond: %s failed (atol=%.3g rtol=%.3g): components", e.Strategy, e.AbsTol, e.RelTol)
	for _, i := range e.Bad {
		fmt.Fprintf(&b, " [%d]=%.6g", i, e.Residual[i])
	}
	return b.String()
}

// MaxViolation returns the largest residual magnitude among the
// violating components.
func (e *ConsistencyError) MaxViolation() float64 {
	m := 0.0
	for _, i := range e.Bad {
		if v := e.Residual[i]; v > m {
			m = v
		} else if -v > m {
			m = -v
		}
	}
	return m
}
