// Package demo provides named, ready-to-run problems for the CLI, one
// per governing-equation form.
package demo

import (
	"fmt"
	"math"

	"github.com/san-kum/odelab/internal/diffeq"
	"github.com/san-kum/odelab/internal/nlsolve"
)

// Names lists the problems New accepts.
func Names() []string {
	return []string{"pendulum", "constrained_pendulum", "delayed_logistic", "override_showcase"}
}

func New(name string) (*diffeq.Problem, error) {
	switch name {
	case "pendulum":
		return Pendulum()
	case "constrained_pendulum":
		return ConstrainedPendulum()
	case "delayed_logistic":
		return DelayedLogistic()
	case "override_showcase":
		return OverrideShowcase()
	default:
		return nil, fmt.Errorf("demo: unknown problem %q", name)
	}
}

// Pendulum is a damped pendulum ODE. State (theta, omega), params
// (damping, gravity/length).
func Pendulum() (*diffeq.Problem, error) {
	f := diffeq.RHS{
		Buffer: func(dst diffeq.State, u diffeq.State, p diffeq.Params, t float64) {
			dst[0] = u[1]
			dst[1] = -p[0]*u[1] - p[1]*math.Sin(u[0])
		},
	}
	return diffeq.NewODEProblem(f, diffeq.State{0.5, 0}, [2]float64{0, 10}, diffeq.Params{0.1, 9.81})
}

// ConstrainedPendulum is the pendulum in Cartesian coordinates, a
// mass-matrix DAE. State (x, y, vx, vy, lambda); the last mass row is
// zero, so the length constraint x^2 + y^2 - L^2 = 0 is algebraic and
// must hold at the start time. Params (gravity, length).
func ConstrainedPendulum() (*diffeq.Problem, error) {
	f := diffeq.RHS{
		Buffer: func(dst diffeq.State, u diffeq.State, p diffeq.Params, t float64) {
			x, y, vx, vy, lam := u[0], u[1], u[2], u[3], u[4]
			dst[0] = vx
			dst[1] = vy
			dst[2] = -lam * x
			dst[3] = -lam*y - p[0]
			dst[4] = x*x + y*y - p[1]*p[1]
		},
	}
	mass, err := diffeq.NewMassMatrix(5, []float64{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
		0, 0, 0, 0, 0,
	})
	if err != nil {
		return nil, err
	}
	u0 := diffeq.State{1, 0, 0, 0, 0} // on the constraint for L=1
	return diffeq.NewMassMatrixProblem(f, mass, u0, [2]float64{0, 5}, diffeq.Params{9.81, 1})
}

// DelayedLogistic is the delayed logistic (Hutchinson) equation
// du/dt = r*u(t)*(1 - u(t - tau)) with one constant lag and a constant
// pre-start history.
func DelayedLogistic() (*diffeq.Problem, error) {
	const tau = 1.0
	f := diffeq.DelayRHS{
		Value: func(u diffeq.State, h diffeq.HistoryAccessor, p diffeq.Params, t float64) diffeq.State {
			lagged := h.Value(p, t-tau)
			return diffeq.State{p[0] * u[0] * (1 - lagged[0])}
		},
	}
	hist := diffeq.ConstantHistory(diffeq.State{0.5})
	return diffeq.NewDDEProblem(f, hist, []float64{tau}, nil, [2]float64{0, 10}, diffeq.Params{1.5})
}

// OverrideShowcase is a two-state problem whose starting values come
// from an auxiliary system rather than a plain check: unknowns
// (u2, p) subject to u1^2 - u2^2 = 0 and p^2 - 2p + 1 = 0, with u1
// promoted from the provider's first state component at refresh time.
func OverrideShowcase() (*diffeq.Problem, error) {
	f := diffeq.RHS{
		Buffer: func(dst diffeq.State, u diffeq.State, p diffeq.Params, t float64) {
			dst[0] = -p[0] * u[0]
			dst[1] = -p[0] * u[1]
		},
	}

	sub := &nlsolve.System{
		F: func(out, x, p []float64) {
			out[0] = p[0]*p[0] - x[0]*x[0]
			out[1] = x[1]*x[1] - 2*x[1] + 1
		},
		X0: []float64{1, 0}, // (u2, p) guess
		P:  []float64{1},    // u1, last-set value
	}

	spec := diffeq.ProblemSpec{
		Drift: f,
		U0:    diffeq.State{2, 0},
		TSpan: [2]float64{0, 1},
		P:     diffeq.Params{0.5},
		Init: &diffeq.InitSpec{
			Sub: sub,
			Refresh: func(sub *nlsolve.System, prov diffeq.ValueProvider) {
				sub.P[0] = prov.CurrentState()[0]
			},
			MapState: func(sub *nlsolve.System, sol []float64) diffeq.State {
				return diffeq.State{sub.P[0], sol[0]}
			},
			MapParams: func(sub *nlsolve.System, sol []float64) diffeq.Params {
				return diffeq.Params{sol[1]}
			},
		},
	}
	return diffeq.NewProblem(spec)
}
