package initcond

import (
	"fmt"

	"github.com/san-kum/odelab/internal/diffeq"
)

// solveOverride runs the override path:
//
//  1. Refresh the subproblem from the provider, if a refresh hook
//     exists. Without one the subproblem is solved with whatever state
//     it was last constructed or left with.
//  2. Refuse a non-trivial subproblem when no algorithm was supplied.
//  3. Delegate to the nonlinear-solve engine.
//  4. Map the solution to the full state (required map) and to the
//     parameters (optional map; absent means the provider's current
//     parameters pass through untouched, even when the subproblem
//     solved for a parameter-like unknown).
//  5. Report the engine's convergence flag as Success.
func solveOverride(prob *diffeq.Problem, prov diffeq.ValueProvider, opts Options) (Result, error) {
	spec := prob.Init
	if spec == nil || spec.Sub == nil || spec.MapState == nil {
		return Result{}, fmt.Errorf("%s strategy: %w", Override, ErrNoInitSpec)
	}
	sub := spec.Sub

	if spec.Refresh != nil {
		spec.Refresh(sub, prov)
	}

	var sol []float64
	converged := true
	if !sub.Trivial() {
		if opts.Algorithm == nil {
			return Result{}, fmt.Errorf("%s strategy: %w", Override, ErrNoAlgorithm)
		}
		res := opts.Algorithm.Solve(sub)
		sol = res.Root
		converged = res.Converged
	} else {
		sol = append([]float64(nil), sub.X0...)
	}

	state := spec.MapState(sub, sol)
	var params diffeq.Params
	if spec.MapParams != nil {
		params = spec.MapParams(sub, sol)
	} else {
		params = prov.CurrentParams()
	}

	return Result{State: state, Params: params, Success: converged}, nil
}
