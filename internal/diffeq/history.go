package diffeq

// HistoryCaps is the set of call shapes a history function implements.
type HistoryCaps uint8

const (
	CapValue HistoryCaps = 1 << iota
	CapValueBuffer
	CapDerivative
	CapDerivativeBuffer
	CapIndexed
)

// Has reports whether every capability in need is present.
func (c HistoryCaps) Has(need HistoryCaps) bool { return c&need == need }

// HistoryAccessor serves solution values at lagged times. Before the
// problem's start time the answers come from the user history function;
// during a solve the stepping engine extends it with its own
// interpolant. Drift and diffusion functions see only this interface.
type HistoryAccessor interface {
	// Value returns the solution at time t.
	Value(p Params, t float64) State
	// ValueInto writes the solution at time t into dst.
	ValueInto(dst State, p Params, t float64)
	// Derivative returns the i-th time derivative at time t (i >= 1).
	Derivative(i int, p Params, t float64) State
	// DerivativeInto writes the i-th derivative at time t into dst.
	DerivativeInto(dst State, i int, p Params, t float64)
	// Indexed returns only the named components at time t, in the
	// order given by idxs.
	Indexed(idxs []int, p Params, t float64) State
}

// History is a user-supplied history function as a bundle of optional
// call shapes. Only the shapes the active drift/diffusion declares via
// ProblemSpec.HistoryNeeds must be set; coverage is checked once at
// construction.
type History struct {
	Value          func(p Params, t float64) State
	ValueInto      func(dst State, p Params, t float64)
	Derivative     func(i int, p Params, t float64) State
	DerivativeInto func(dst State, i int, p Params, t float64)
	Indexed        func(idxs []int, p Params, t float64) State
}

func (h History) Defined() bool {
	return h.Value != nil || h.ValueInto != nil
}

// Caps reports which call shapes are implemented.
func (h History) Caps() HistoryCaps {
	var c HistoryCaps
	if h.Value != nil {
		c |= CapValue
	}
	if h.ValueInto != nil {
		c |= CapValueBuffer
	}
	if h.Derivative != nil {
		c |= CapDerivative
	}
	if h.DerivativeInto != nil {
		c |= CapDerivativeBuffer
	}
	if h.Indexed != nil {
		c |= CapIndexed
	}
	return c
}

// Eval returns the history value at t, preferring the value form and
// falling back to the buffer form with dim-sized allocation.
func (h History) Eval(p Params, t float64, dim int) State {
	if h.Value != nil {
		return h.Value(p, t)
	}
	dst := make(State, dim)
	h.ValueInto(dst, p, t)
	return dst
}

// Accessor adapts h to the HistoryAccessor interface. dim is the state
// dimension, needed when a value-returning shape is synthesized from a
// buffer-writing one. Shapes the user never implemented panic when
// called; the construction-time capability check keeps declared needs
// and actual calls in agreement.
func (h History) Accessor(dim int) HistoryAccessor {
	return histAccessor{h: h, dim: dim}
}

type histAccessor struct {
	h   History
	dim int
}

func (a histAccessor) Value(p Params, t float64) State {
	if a.h.Value != nil {
		return a.h.Value(p, t)
	}
	if a.h.ValueInto != nil {
		dst := make(State, a.dim)
		a.h.ValueInto(dst, p, t)
		return dst
	}
	panic("diffeq: history value shape not implemented")
}

func (a histAccessor) ValueInto(dst State, p Params, t float64) {
	if a.h.ValueInto != nil {
		a.h.ValueInto(dst, p, t)
		return
	}
	if a.h.Value != nil {
		copy(dst, a.h.Value(p, t))
		return
	}
	panic("diffeq: history value shape not implemented")
}

func (a histAccessor) Derivative(i int, p Params, t float64) State {
	if a.h.Derivative != nil {
		return a.h.Derivative(i, p, t)
	}
	if a.h.DerivativeInto != nil {
		dst := make(State, a.dim)
		a.h.DerivativeInto(dst, i, p, t)
		return dst
	}
	panic("diffeq: history derivative shape not implemented")
}

func (a histAccessor) DerivativeInto(dst State, i int, p Params, t float64) {
	if a.h.DerivativeInto != nil {
		a.h.DerivativeInto(dst, i, p, t)
		return
	}
	if a.h.Derivative != nil {
		copy(dst, a.h.Derivative(i, p, t))
		return
	}
	panic("diffeq: history derivative shape not implemented")
}

func (a histAccessor) Indexed(idxs []int, p Params, t float64) State {
	if a.h.Indexed != nil {
		return a.h.Indexed(idxs, p, t)
	}
	full := a.Value(p, t)
	out := make(State, len(idxs))
	for k, i := range idxs {
		out[k] = full[i]
	}
	return out
}

// ConstantHistory builds a History pinned at u for all past times. All
// derivative shapes return zero; handy for tests and steady pre-start
// conditions.
func ConstantHistory(u State) History {
	return History{
		Value: func(_ Params, _ float64) State { return u.Clone() },
		ValueInto: func(dst State, _ Params, _ float64) {
			copy(dst, u)
		},
		Derivative: func(_ int, _ Params, _ float64) State {
			return make(State, len(u))
		},
		DerivativeInto: func(dst State, _ int, _ Params, _ float64) {
			for i := range dst {
				dst[i] = 0
			}
		},
		Indexed: func(idxs []int, _ Params, _ float64) State {
			out := make(State, len(idxs))
			for k, i := range idxs {
				out[k] = u[i]
			}
			return out
		},
	}
}
