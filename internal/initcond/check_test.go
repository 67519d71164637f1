package initcond

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/odelab/internal/diffeq"
)

// massProblem is a 3-state system whose third mass row is zero: the
// algebraic constraint reads u0 + u1 - u2 = 0.
func massProblem(t *testing.T) *diffeq.Problem {
	t.Helper()
	mass, err := diffeq.NewMassMatrix(3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 0,
	})
	require.NoError(t, err)

	f := diffeq.RHS{
		Buffer: func(dst diffeq.State, u diffeq.State, p diffeq.Params, t float64) {
			dst[0] = u[1]
			dst[1] = -u[0]
			dst[2] = u[0] + u[1] - u[2]
		},
	}
	prob, err := diffeq.NewMassMatrixProblem(f, mass, diffeq.State{1, 2, 3}, [2]float64{0, 1}, nil)
	require.NoError(t, err)
	return prob
}

func TestCheck_MassMatrixAlgebraicRows(t *testing.T) {
	prob := massProblem(t)

	t.Run("consistent state passes", func(t *testing.T) {
		snap := NewSnapshot(diffeq.State{1, 2, 3}, nil, nil, 0)
		res, err := GetInitialValues(prob, snap, Check, Options{})
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, diffeq.State{1, 2, 3}, res.State)
	})

	t.Run("perturbed constrained component fails deterministically", func(t *testing.T) {
		snap := NewSnapshot(diffeq.State{1, 2, 3.5}, nil, nil, 0)
		_, err := GetInitialValues(prob, snap, Check, Options{})

		var cerr *ConsistencyError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, Check, cerr.Strategy)
		assert.Equal(t, []int{2}, cerr.Bad)
		assert.Len(t, cerr.Residual, 3)
		assert.InDelta(t, -0.5, cerr.Residual[2], 1e-12)
		assert.InDelta(t, 0.5, cerr.MaxViolation(), 1e-12)

		// Same input, same verdict.
		_, err2 := GetInitialValues(prob, snap, Check, Options{})
		var cerr2 *ConsistencyError
		require.ErrorAs(t, err2, &cerr2)
		assert.Equal(t, cerr.Bad, cerr2.Bad)
	})

	t.Run("differential rows are never checked", func(t *testing.T) {
		// u1' = -u0 is wildly violated by any du, but only row 2 counts.
		snap := NewSnapshot(diffeq.State{1, 2, 3}, diffeq.State{100, 100, 100}, nil, 0)
		_, err := GetInitialValues(prob, snap, Check, Options{})
		require.NoError(t, err)
	})
}

func TestCheck_FullyImplicitTwoAxes(t *testing.T) {
	// F = (du0 - u1, du1 + u0): consistent iff du matches u.
	f := diffeq.ImplicitRHS{
		Value: func(du, u diffeq.State, p diffeq.Params, t float64) diffeq.State {
			return diffeq.State{du[0] - u[1], du[1] + u[0]}
		},
	}
	prob, err := diffeq.NewDAEProblem(f, diffeq.State{1, 0}, [2]float64{0, 1}, nil)
	require.NoError(t, err)

	goodU := diffeq.State{1, 0}
	goodDu := diffeq.State{0, -1}

	tests := []struct {
		name    string
		u, du   diffeq.State
		wantErr bool
	}{
		{"both consistent", goodU, goodDu, false},
		{"wrong state", diffeq.State{1, 5}, goodDu, true},
		{"wrong derivative", goodU, diffeq.State{3, -1}, true},
		{"both wrong", diffeq.State{1, 5}, diffeq.State{3, -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := NewSnapshot(tt.u, tt.du, nil, 0)
			_, err := GetInitialValues(prob, snap, Check, Options{})
			if tt.wantErr {
				var cerr *ConsistencyError
				require.ErrorAs(t, err, &cerr)
				assert.NotEmpty(t, cerr.Bad)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCheck_ImplicitNeedsDerivative(t *testing.T) {
	f := diffeq.ImplicitRHS{
		Value: func(du, u diffeq.State, p diffeq.Params, t float64) diffeq.State {
			return diffeq.State{du[0] - u[0]}
		},
	}
	prob, err := diffeq.NewDAEProblem(f, diffeq.State{1}, [2]float64{0, 1}, nil)
	require.NoError(t, err)

	snap := NewSnapshot(diffeq.State{1}, nil, nil, 0)
	_, err = GetInitialValues(prob, snap, Check, Options{})
	assert.ErrorIs(t, err, ErrNoDerivative)
}

func TestCheck_RelativeToleranceScales(t *testing.T) {
	// Residual 1e-3 on a state of magnitude 1e6: an absolute-only
	// tolerance would reject it, the combined default must not.
	mass, err := diffeq.NewMassMatrix(1, []float64{0})
	require.NoError(t, err)
	f := diffeq.RHS{
		Buffer: func(dst diffeq.State, u diffeq.State, p diffeq.Params, t float64) {
			dst[0] = u[0] - 1e6 + 1e-3
		},
	}
	prob, err := diffeq.NewMassMatrixProblem(f, mass, diffeq.State{1e6}, [2]float64{0, 1}, nil)
	require.NoError(t, err)

	snap := NewSnapshot(diffeq.State{1e6}, nil, nil, 0)
	_, err = GetInitialValues(prob, snap, Check, Options{})
	require.NoError(t, err)

	// Absolute-only at the same magnitude fails.
	_, err = GetInitialValues(prob, snap, Check, Options{AbsTol: 1e-8, RelTol: 0})
	var cerr *ConsistencyError
	require.ErrorAs(t, err, &cerr)
}

func TestSkip_IsTrueNoOp(t *testing.T) {
	// Even a violently inconsistent state sails through Skip.
	prob := massProblem(t)
	u := diffeq.State{9, 9, -100}
	p := diffeq.Params{7}
	snap := NewSnapshot(u, nil, p, 0)

	res, err := GetInitialValues(prob, snap, Skip, Options{})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, u, res.State)
	assert.Equal(t, p, res.Params)
	// No residual evaluation, no mutation.
	assert.Equal(t, diffeq.State{9, 9, -100}, snap.U)
}

func TestCheck_ExplicitODEAlwaysPasses(t *testing.T) {
	f := diffeq.RHS{Value: func(u diffeq.State, p diffeq.Params, t float64) diffeq.State {
		return diffeq.State{-u[0]}
	}}
	prob, err := diffeq.NewODEProblem(f, diffeq.State{4}, [2]float64{0, 1}, nil)
	require.NoError(t, err)

	snap := NewSnapshot(diffeq.State{123}, nil, nil, 0)
	res, err := GetInitialValues(prob, snap, Check, Options{})
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestDispatch_UnknownStrategy(t *testing.T) {
	prob := massProblem(t)
	snap := NewSnapshot(prob.U0, nil, nil, 0)
	_, err := GetInitialValues(prob, snap, Strategy(99), Options{})
	require.Error(t, err)

	_, err = ParseStrategy("nonsense")
	require.Error(t, err)
	for _, s := range []string{"skip", "check", "override"} {
		got, err := ParseStrategy(s)
		require.NoError(t, err)
		assert.Equal(t, s, got.String())
	}
}

func TestConsistencyError_Message(t *testing.T) {
	err := &ConsistencyError{
		Strategy: Check,
		Residual: []float64{0, 0.5},
		Bad:      []int{1},
		AbsTol:   1e-8,
		RelTol:   1e-6,
	}
	msg := err.Error()
	assert.Contains(t, msg, "check")
	assert.Contains(t, msg, "[1]")

	var target *ConsistencyError
	assert.True(t, errors.As(err, &target))
}
