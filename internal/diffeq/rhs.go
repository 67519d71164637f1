package diffeq

// Convention identifies how a user function produces its output.
type Convention int

const (
	// ValueForm functions allocate and return a new vector.
	ValueForm Convention = iota
	// BufferForm functions write into a caller-supplied buffer.
	BufferForm
)

func (c Convention) String() string {
	if c == BufferForm {
		return "buffer"
	}
	return "value"
}

// RHS is the drift (or diffusion) of a non-delay problem,
// du/dt = f(u, p, t), in exactly one of the two conventions.
type RHS struct {
	Value  func(u State, p Params, t float64) State
	Buffer func(dst State, u State, p Params, t float64)
}

func (f RHS) Defined() bool { return f.Value != nil || f.Buffer != nil }

func (f RHS) Convention() Convention {
	if f.Value == nil && f.Buffer != nil {
		return BufferForm
	}
	return ValueForm
}

// Eval writes f(u, p, t) into dst regardless of the underlying
// convention. dst must have the state dimension.
func (f RHS) Eval(dst State, u State, p Params, t float64) {
	if f.Buffer != nil {
		f.Buffer(dst, u, p, t)
		return
	}
	copy(dst, f.Value(u, p, t))
}

// DelayRHS is the drift of a delay problem. The accessor h serves
// lagged solution values; implementations may only query it at times
// up to t.
type DelayRHS struct {
	Value  func(u State, h HistoryAccessor, p Params, t float64) State
	Buffer func(dst State, u State, h HistoryAccessor, p Params, t float64)
}

func (f DelayRHS) Defined() bool { return f.Value != nil || f.Buffer != nil }

func (f DelayRHS) Convention() Convention {
	if f.Value == nil && f.Buffer != nil {
		return BufferForm
	}
	return ValueForm
}

func (f DelayRHS) Eval(dst State, u State, h HistoryAccessor, p Params, t float64) {
	if f.Buffer != nil {
		f.Buffer(dst, u, h, p, t)
		return
	}
	copy(dst, f.Value(u, h, p, t))
}

// ImplicitRHS is a fully implicit residual F(du, u, p, t). The system
// is F = 0; there is no explicit drift.
type ImplicitRHS struct {
	Value  func(du, u State, p Params, t float64) State
	Buffer func(dst State, du, u State, p Params, t float64)
}

func (f ImplicitRHS) Defined() bool { return f.Value != nil || f.Buffer != nil }

func (f ImplicitRHS) Convention() Convention {
	if f.Value == nil && f.Buffer != nil {
		return BufferForm
	}
	return ValueForm
}

// Eval writes F(du, u, p, t) into dst.
func (f ImplicitRHS) Eval(dst State, du, u State, p Params, t float64) {
	if f.Buffer != nil {
		f.Buffer(dst, du, u, p, t)
		return
	}
	copy(dst, f.Value(du, u, p, t))
}

// LagFunc computes a state-dependent lag. Lags must be nonnegative;
// the value is recomputed on every drift evaluation.
type LagFunc func(u State, p Params, t float64) float64
