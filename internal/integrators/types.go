// Package integrators provides explicit steppers for the solve driver.
// They advance explicit (identity-mass) problems only; implicit and
// singular-mass problems are initialization-only in this module.
package integrators

import (
	"fmt"

	"github.com/san-kum/odelab/internal/diffeq"
)

// Stepper advances the state by one step of size dt. h serves lagged
// values for delay problems and may be nil otherwise.
type Stepper interface {
	Name() string
	Step(prob *diffeq.Problem, h diffeq.HistoryAccessor, u diffeq.State, p diffeq.Params, t, dt float64) diffeq.State
}

// Adaptive steppers also estimate local error and propose the next
// step size.
type Adaptive interface {
	Stepper
	StepAdaptive(prob *diffeq.Problem, h diffeq.HistoryAccessor, u diffeq.State, p diffeq.Params, t, dt, atol, rtol float64) (diffeq.State, float64, error)
}

// New builds a stepper by its option-bag name.
func New(name string) (Stepper, error) {
	switch name {
	case "euler":
		return NewEuler(), nil
	case "rk4", "":
		return NewRK4(), nil
	case "rk45":
		return NewRK45(), nil
	default:
		return nil, fmt.Errorf("integrators: unknown stepper %q", name)
	}
}
