package initcond

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/odelab/internal/diffeq"
	"github.com/san-kum/odelab/internal/nlsolve"
)

// overrideProblem attaches the showcase subproblem: unknowns (u2, p),
// subproblem parameter u1, constraints u1^2 - u2^2 = 0 and
// p^2 - 2p + 1 = 0. The full state is (u1, u2).
func overrideProblem(t *testing.T, withRefresh, withParamMap bool) *diffeq.Problem {
	t.Helper()

	sub := &nlsolve.System{
		F: func(out, x, p []float64) {
			out[0] = p[0]*p[0] - x[0]*x[0]
			out[1] = x[1]*x[1] - 2*x[1] + 1
		},
		X0: []float64{1, 0},
		P:  []float64{1}, // u1 as last constructed
	}

	spec := &diffeq.InitSpec{
		Sub: sub,
		MapState: func(sub *nlsolve.System, sol []float64) diffeq.State {
			return diffeq.State{sub.P[0], sol[0]}
		},
	}
	if withRefresh {
		spec.Refresh = func(sub *nlsolve.System, prov diffeq.ValueProvider) {
			sub.P[0] = prov.CurrentState()[0]
		}
	}
	if withParamMap {
		spec.MapParams = func(sub *nlsolve.System, sol []float64) diffeq.Params {
			return diffeq.Params{sol[1]}
		}
	}

	f := diffeq.RHS{Value: func(u diffeq.State, p diffeq.Params, t float64) diffeq.State {
		return diffeq.State{-u[0], -u[1]}
	}}
	prob, err := diffeq.NewProblem(diffeq.ProblemSpec{
		Drift: f,
		U0:    diffeq.State{2, 0},
		TSpan: [2]float64{0, 1},
		P:     diffeq.Params{0.5},
		Init:  spec,
	})
	require.NoError(t, err)
	return prob
}

func showcaseProvider() *Snapshot {
	return NewSnapshot(diffeq.State{2, 0}, nil, diffeq.Params{0.5}, 0)
}

func TestOverride_FullMapping(t *testing.T) {
	prob := overrideProblem(t, true, true)
	res, err := GetInitialValues(prob, showcaseProvider(), Override, Options{Algorithm: nlsolve.NewNewton()})
	require.NoError(t, err)

	assert.True(t, res.Success)
	require.Len(t, res.State, 2)
	assert.InDelta(t, 2, res.State[0], 1e-6)
	assert.InDelta(t, 2, res.State[1], 1e-6)
	require.Len(t, res.Params, 1)
	assert.InDelta(t, 1, res.Params[0], 1e-4)
}

func TestOverride_NoParamMapPassesThrough(t *testing.T) {
	prob := overrideProblem(t, true, false)
	res, err := GetInitialValues(prob, showcaseProvider(), Override, Options{Algorithm: nlsolve.NewNewton()})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.InDelta(t, 2, res.State[0], 1e-6)
	assert.InDelta(t, 2, res.State[1], 1e-6)
	// The subproblem solved for a parameter-like unknown, but without a
	// parameter map the caller's value must pass through untouched.
	assert.Equal(t, diffeq.Params{0.5}, res.Params)
}

func TestOverride_NoRefreshUsesStoredSubproblem(t *testing.T) {
	prob := overrideProblem(t, false, true)
	res, err := GetInitialValues(prob, showcaseProvider(), Override, Options{Algorithm: nlsolve.NewNewton()})
	require.NoError(t, err)

	// No refresh hook: the subproblem keeps its last-set u1 = 1, so the
	// result ignores the provider's u1 = 2 entirely.
	assert.True(t, res.Success)
	assert.InDelta(t, 1, res.State[0], 1e-6)
	assert.InDelta(t, 1, res.State[1], 1e-6)
}

func TestOverride_MissingAlgorithmIsFatal(t *testing.T) {
	prob := overrideProblem(t, true, true)
	_, err := GetInitialValues(prob, showcaseProvider(), Override, Options{})
	require.ErrorIs(t, err, ErrNoAlgorithm)
	assert.Contains(t, err.Error(), "override")
}

func TestOverride_MissingInitSpecIsFatal(t *testing.T) {
	f := diffeq.RHS{Value: func(u diffeq.State, p diffeq.Params, t float64) diffeq.State {
		return diffeq.State{-u[0]}
	}}
	prob, err := diffeq.NewODEProblem(f, diffeq.State{1}, [2]float64{0, 1}, nil)
	require.NoError(t, err)

	_, err = GetInitialValues(prob, NewSnapshot(diffeq.State{1}, nil, nil, 0), Override,
		Options{Algorithm: nlsolve.NewNewton()})
	require.ErrorIs(t, err, ErrNoInitSpec)
}

func TestOverride_TrivialSubproblemNeedsNoAlgorithm(t *testing.T) {
	f := diffeq.RHS{Value: func(u diffeq.State, p diffeq.Params, t float64) diffeq.State {
		return diffeq.State{-u[0]}
	}}
	prob, err := diffeq.NewProblem(diffeq.ProblemSpec{
		Drift: f,
		U0:    diffeq.State{1},
		TSpan: [2]float64{0, 1},
		Init: &diffeq.InitSpec{
			Sub: &nlsolve.System{F: func(out, x, p []float64) {}, P: []float64{3}},
			MapState: func(sub *nlsolve.System, sol []float64) diffeq.State {
				return diffeq.State{sub.P[0]}
			},
		},
	})
	require.NoError(t, err)

	res, err := GetInitialValues(prob, NewSnapshot(diffeq.State{1}, nil, diffeq.Params{9}, 0), Override, Options{})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, diffeq.State{3}, res.State)
	assert.Equal(t, diffeq.Params{9}, res.Params)
}

func TestOverride_NonConvergenceIsNotAnError(t *testing.T) {
	// x^2 + 1 = 0 has no real root; the engine reports failure through
	// the success flag, never through the error return.
	prob := overrideProblem(t, true, true)
	prob.Init.Sub.F = func(out, x, p []float64) {
		out[0] = x[0]*x[0] + 1
		out[1] = x[1]
	}

	res, err := GetInitialValues(prob, showcaseProvider(), Override, Options{Algorithm: nlsolve.NewNewton()})
	require.NoError(t, err)
	assert.False(t, res.Success)
}
