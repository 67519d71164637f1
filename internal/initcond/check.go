package initcond

import (
	"math"

	"github.com/san-kum/odelab/internal/diffeq"
)

// Default tolerances for the consistency check. The test is always the
// combined form |r_i| <= atol + rtol*scale_i with scale_i =
// max(|u_i|, |du_i|); a purely absolute tolerance (rtol = 0) can be
// requested but is never the default, because it produces false
// failures on badly scaled states.
const (
	DefaultAbsTol = 1e-8
	DefaultRelTol = 1e-6
)

// CheckConsistency evaluates the governing residual at the provider's
// current (state, derivative, params, time) and returns nil when every
// checked component is within tolerance, or a *ConsistencyError
// otherwise. The provider is never mutated.
//
// Fully implicit problems check every component of F(du, u, p, t).
// Mass-matrix problems check only the algebraic rows: where M has an
// all-zero row the equation reads 0 = f_i(u, p, t), so the residual
// there is f_i. Differential rows are satisfied by construction and
// excluded. Problems with an identity mass matrix have nothing to
// check and always pass.
func CheckConsistency(prob *diffeq.Problem, prov diffeq.ValueProvider, opts Options) error {
	opts = opts.withDefaults()

	u := prov.CurrentState()
	p := prov.CurrentParams()
	t := prov.CurrentTime()
	dim := prob.Dim()

	switch {
	case prob.Kind() == diffeq.KindDAEImplicit:
		du := prov.CurrentDerivative()
		if du == nil {
			return ErrNoDerivative
		}
		r := make(diffeq.State, dim)
		prob.EvalResidual(r, du, u, p, t)
		return verdict(r, allIndices(dim), u, du, opts)

	case prob.Mass != nil:
		algebraic := prob.Mass.ZeroRows()
		if len(algebraic) == 0 {
			return nil
		}
		f := make(diffeq.State, dim)
		prob.EvalDrift(f, u, prob.History.Accessor(dim), p, t)
		du := prov.CurrentDerivative()
		return verdict(f, algebraic, u, du, opts)

	case prob.Kind() == diffeq.KindODE, prob.Kind() == diffeq.KindDDE, prob.Kind() == diffeq.KindSDE:
		// Explicit problems with identity mass have no algebraic rows.
		return nil

	default:
		return ErrUncheckable
	}
}

// verdict applies the combined tolerance test to the checked rows of r.
func verdict(r diffeq.State, rows []int, u, du diffeq.State, opts Options) error {
	var bad []int
	for _, i := range rows {
		scale := math.Abs(u[i])
		if du != nil && math.Abs(du[i]) > scale {
			scale = math.Abs(du[i])
		}
		if math.Abs(r[i]) > opts.AbsTol+opts.RelTol*scale {
			bad = append(bad, i)
		}
	}
	if bad == nil {
		return nil
	}
	return &ConsistencyError{
		Strategy: Check,
		Residual: append([]float64(nil), r...),
		Bad:      bad,
		AbsTol:   opts.AbsTol,
		RelTol:   opts.RelTol,
	}
}

func allIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
