package integrators

import "github.com/san-kum/odelab/internal/diffeq"

type RK4 struct {
	k1, k2, k3, k4 diffeq.State
	scratch        diffeq.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(diffeq.State, n)
		r.k2 = make(diffeq.State, n)
		r.k3 = make(diffeq.State, n)
		r.k4 = make(diffeq.State, n)
		r.scratch = make(diffeq.State, n)
	}
}

func (r *RK4) Step(prob *diffeq.Problem, h diffeq.HistoryAccessor, u diffeq.State, p diffeq.Params, t, dt float64) diffeq.State {
	n := len(u)
	r.ensureScratch(n)
		prob.EvalDrift(r.k1, u, h, p, t)

	for i := 0; i < n; i++ {
		r.scratch[i] = u[i] + dt*0.5*r.k1[i]
	}
	prob.EvalDrift(r.k2, r.scratch, h, p, t+dt*0.5)

	for i := 0; i < n; i++ {
		r.scratch[i] = u[i] + dt*0.5*r.k2[i]
	}
	prob.EvalDrift(r.k3, r.scratch, h, p, t+dt*0.5)

	for i := 0; i < n; i++ {
		r.scratch[i] = u[i] + dt*r.k3[i]
	}
	prob.EvalDrift(r.k4, r.scratch, h, p, t+dt)

	result := make(diffeq.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = u[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}
	return result
}
