package nlsolve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewton_Linear(t *testing.T) {
	// 2x + y = 5, x - y = 1  =>  (2, 1)
	sys := &System{
		F: func(out, x, p []float64) {
			out[0] = 2*x[0] + x[1] - 5
			out[1] = x[0] - x[1] - 1
		},
		X0: []float64{0, 0},
	}

	res := NewNewton().Solve(sys)
	require.True(t, res.Converged)
	assert.Equal(t, Converged, res.Status)
	assert.InDelta(t, 2, res.Root[0], 1e-8)
	assert.InDelta(t, 1, res.Root[1], 1e-8)
}

func TestNewton_Nonlinear(t *testing.T) {
	// Intersection of the unit circle with y = x in the first quadrant.
	sys := &System{
		F: func(out, x, p []float64) {
			out[0] = x[0]*x[0] + x[1]*x[1] - 1
			out[1] = x[1] - x[0]
		},
		X0: []float64{1, 0.5},
	}

	res := NewNewton().Solve(sys)
	require.True(t, res.Converged)
	want := math.Sqrt(0.5)
	assert.InDelta(t, want, res.Root[0], 1e-8)
	assert.InDelta(t, want, res.Root[1], 1e-8)
}

func TestNewton_UsesParams(t *testing.T) {
	sys := &System{
		F: func(out, x, p []float64) {
			out[0] = x[0]*x[0] - p[0]
		},
		X0: []float64{1},
		P:  []float64{9},
	}

	res := NewNewton().Solve(sys)
	require.True(t, res.Converged)
	assert.InDelta(t, 3, res.Root[0], 1e-7)
}

func TestNewton_DoesNotMutateSystem(t *testing.T) {
	sys := &System{
		F: func(out, x, p []float64) {
			out[0] = x[0] - 4
		},
		X0: []float64{0},
	}
	NewNewton().Solve(sys)
	assert.Equal(t, []float64{0}, sys.X0, "guess must survive the solve")
}

func TestNewton_NoRealRoot(t *testing.T) {
	sys := &System{
		F: func(out, x, p []float64) {
			out[0] = x[0]*x[0] + 1
		},
		X0: []float64{1},
	}

	res := NewNewton().Solve(sys)
	assert.False(t, res.Converged)
	assert.NotEqual(t, Converged, res.Status)
	assert.Greater(t, res.ResidNorm, 0.5)
}

func TestNewton_EmptySystemIsTriviallyConverged(t *testing.T) {
	sys := &System{F: func(out, x, p []float64) {}}
	require.True(t, sys.Trivial())

	res := NewNewton().Solve(sys)
	assert.True(t, res.Converged)
	assert.Empty(t, res.Root)
}

func TestNewton_AlreadyAtRoot(t *testing.T) {
	calls := 0
	sys := &System{
		F: func(out, x, p []float64) {
			calls++
			out[0] = x[0] - 2
		},
		X0: []float64{2},
	}

	res := NewNewton().Solve(sys)
	require.True(t, res.Converged)
	assert.Equal(t, 0, res.Iterations)
	assert.Equal(t, 1, calls, "a consistent guess needs a single evaluation")
}

func TestStatus_String(t *testing.T) {
	tests := []struct {
		st   Status
		want string
	}{
		{Converged, "converged"},
		{MaxIterations, "max iterations exceeded"},
		{SingularJacobian, "singular jacobian"},
		{Stalled, "line search stalled"},
	}
	for _, tt := range tests {
		if got := tt.st.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.st, got, tt.want)
		}
	}
}
