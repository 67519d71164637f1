package integrators

import "github.com/san-kum/odelab/internal/diffeq"

type Euler struct {
	k diffeq.State
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(prob *diffeq.Problem, h diffeq.HistoryAccessor, u diffeq.State, p diffeq.Params, t, dt float64) diffeq.State {
	n := len(u)
	if len(e.k) != n {
		e.k = make(diffeq.State, n)
	}
	prob.EvalDrift(e.k, u, h, p, t)

	result := make(diffeq.State, n)
	for i := 0; i < n; i++ {
		result[i] = u[i] + dt*e.k[i]
	}
	return result
}
