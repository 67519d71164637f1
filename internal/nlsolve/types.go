package nlsolve

import "fmt"

// ResidualFunc writes the residual of the system at x into out.
// Both slices have length System.Size(); p is read-only.
type ResidualFunc func(out, x, p []float64)

// System is a square nonlinear system F(x; p) = 0.
//
// X0 doubles as the initial guess and as the system's remembered state:
// callers that re-solve a System without resetting X0 start from
// wherever the last construction or refresh left it.
type System struct {
	F  ResidualFunc
	X0 []float64
	P  []float64
}

// Size returns the number of unknowns.
func (s *System) Size() int { return len(s.X0) }

// Trivial reports whether there is nothing to solve for.
func (s *System) Trivial() bool { return s == nil || len(s.X0) == 0 }

// Eval writes F(x; p) into out.
func (s *System) Eval(out, x []float64) { s.F(out, x, s.P) }

// Status classifies the outcome of a solve.
type Status int

const (
	Converged Status = iota
	MaxIterations
	SingularJacobian
	Stalled
)

func (st Status) String() string {
	switch st {
	case Converged:
		return "converged"
	case MaxIterations:
		return "max iterations exceeded"
	case SingularJacobian:
		return "singular jacobian"
	case Stalled:
		return "line search stalled"
	default:
		return fmt.Sprintf("status(%d)", int(st))
	}
}

// Result is the outcome of Algorithm.Solve.
type Result struct {
	Root       []float64
	Converged  bool
	Status     Status
	Iterations int
	ResidNorm  float64
}

// Algorithm solves a System starting from System.X0. Implementations
// must not mutate the System; the solution is returned in Result.Root.
type Algorithm interface {
	Name() string
	Solve(sys *System) Result
}
