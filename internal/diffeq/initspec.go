package diffeq

import "github.com/san-kum/odelab/internal/nlsolve"

// ValueProvider is a uniform read accessor over "current state",
// satisfied both by a live stepping engine and by an inert snapshot.
// Downstream code must not depend on which is behind it.
//
// CurrentDerivative is meaningful only for implicit/DAE forms and may
// return nil when the producer tracks no derivative. The *Into
// variants are the buffer-writing convention for callers that must not
// allocate.
type ValueProvider interface {
	CurrentState() State
	CurrentStateInto(dst State)
	CurrentParams() Params
	CurrentTime() float64
	CurrentDerivative() State
	CurrentDerivativeInto(dst State)
}

// InitSpec attaches an override-initialization recipe to a problem: an
// auxiliary nonlinear subproblem plus the callbacks that connect it to
// the full state/parameter space. Consumed only by the override
// initialization strategy.
type InitSpec struct {
	// Sub is the auxiliary system solved in place of a plain residual
	// check. Its X0 holds whatever unknowns it was last constructed or
	// refreshed with.
	Sub *nlsolve.System

	// Refresh, when set, copies relevant current-provider values into
	// Sub before solving (typically promoting a state component to a
	// subproblem parameter). When nil, Sub is solved exactly as-is; no
	// implicit refresh happens.
	Refresh func(sub *nlsolve.System, prov ValueProvider)

	// MapState maps the subproblem solution back to the full state.
	// Required.
	MapState func(sub *nlsolve.System, sol []float64) State

	// MapParams maps the subproblem solution to the full parameter
	// vector. Optional: when nil the caller's current parameters pass
	// through untouched, even if the subproblem internally solved for
	// a parameter-like unknown.
	MapParams func(sub *nlsolve.System, sol []float64) Params
}
