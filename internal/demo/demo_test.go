package demo

import (
	"math"
	"testing"

	"github.com/san-kum/odelab/internal/diffeq"
	"github.com/san-kum/odelab/internal/initcond"
	"github.com/san-kum/odelab/internal/nlsolve"
)

func TestNew_AllNamesConstruct(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			prob, err := New(name)
			if err != nil {
				t.Fatalf("New(%q) error = %v", name, err)
			}
			if prob.Dim() == 0 {
				t.Error("constructed problem has zero dimension")
			}
		})
	}
}

func TestNew_UnknownName(t *testing.T) {
	if _, err := New("lorenz"); err == nil {
		t.Error("expected error for unknown name")
	}
}

func TestConstrainedPendulum_StartIsConsistent(t *testing.T) {
	prob, err := ConstrainedPendulum()
	if err != nil {
		t.Fatalf("ConstrainedPendulum() error = %v", err)
	}
	if prob.Kind() != diffeq.KindDAEMass {
		t.Fatalf("Kind() = %v, want mass-matrix DAE", prob.Kind())
	}
	prov := initcond.NewSnapshot(prob.U0.Clone(), nil, prob.P.Clone(), prob.TSpan[0])
	res, err := initcond.GetInitialValues(prob, prov, initcond.Check, initcond.Options{})
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !res.Success {
		t.Error("the hanging pendulum start state must satisfy the length constraint")
	}
}

func TestOverrideShowcase_SolvesToStart(t *testing.T) {
	prob, err := OverrideShowcase()
	if err != nil {
		t.Fatalf("OverrideShowcase() error = %v", err)
	}
	prov := initcond.NewSnapshot(prob.U0.Clone(), nil, prob.P.Clone(), prob.TSpan[0])
	res, err := initcond.GetInitialValues(prob, prov, initcond.Override, initcond.Options{
		Algorithm: nlsolve.NewNewton(),
	})
	if err != nil {
		t.Fatalf("override failed: %v", err)
	}
	if !res.Success {
		t.Fatal("override must converge for the showcase problem")
	}
	// u2 solves u1^2 - u2^2 = 0 with u1 = 2; p solves (p-1)^2 = 0.
	if math.Abs(math.Abs(res.State[1])-2) > 1e-6 {
		t.Errorf("State[1] = %g, want magnitude 2", res.State[1])
	}
	if res.State[0] != 2 {
		t.Errorf("State[0] = %g, want promoted value 2", res.State[0])
	}
	if math.Abs(res.Params[0]-1) > 1e-4 {
		t.Errorf("Params[0] = %g, want 1", res.Params[0])
	}
}
