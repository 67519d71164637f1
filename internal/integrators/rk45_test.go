package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/odelab/internal/diffeq"
)

func TestRK45_Step(t *testing.T) {
	prob := harmonicProblem(t)
	integ := NewRK45()

	u := prob.U0.Clone()
	dt := 0.01
	for i := 0; i < 1000; i++ {
		u = integ.Step(prob, nil, u, prob.P, float64(i)*dt, dt)
	}

	if !u.IsValid() {
		t.Error("RK45 produced invalid state")
	}
	if math.Abs(u[0]-math.Cos(10)) > 1e-6 {
		t.Errorf("RK45 position: got %.8f, expected %.8f", u[0], math.Cos(10))
	}
}

func TestRK45_EnergyConservation(t *testing.T) {
	prob := harmonicProblem(t)
	integ := NewRK45()
	energy := func(u diffeq.State) float64 {
		return 0.5 * (u[0]*u[0] + u[1]*u[1])
	}

	u := prob.U0.Clone()
	initial := energy(u)
	dt := 0.01
	for i := 0; i < 10000; i++ {
		u = integ.Step(prob, nil, u, prob.P, float64(i)*dt, dt)
	}

	drift := math.Abs(energy(u)-initial) / initial
	if drift > 1e-6 {
		t.Errorf("RK45 energy drift too high: %e", drift)
	}
}

func TestRK45_AdaptiveStepProposal(t *testing.T) {
	prob := harmonicProblem(t)
	integ := NewRK45()
	u := prob.U0.Clone()

	// A tiny step on a smooth problem should be accepted and grown.
	_, dtNext, err := integ.StepAdaptive(prob, nil, u, prob.P, 0, 1e-4, 1e-8, 1e-6)
	if err != nil {
		t.Fatalf("StepAdaptive() error = %v", err)
	}
	if dtNext <= 1e-4 {
		t.Errorf("expected step growth, got dtNext = %v", dtNext)
	}

	// A huge step should be cut down.
	_, dtNext, err = integ.StepAdaptive(prob, nil, u, prob.P, 0, 2.0, 1e-12, 1e-12)
	if err != nil {
		t.Fatalf("StepAdaptive() error = %v", err)
	}
	if dtNext >= 2.0 {
		t.Errorf("expected step reduction, got dtNext = %v", dtNext)
	}
}
