package sim

import (
	"fmt"
	"sort"

	"github.com/san-kum/odelab/internal/diffeq"
)

// historyAccessor returns the accessor served to delay drifts: queries
// at or before the start time go to the problem's history function,
// later queries are answered by cubic Hermite interpolation of the
// recorded trajectory.
func (s *Solver) historyAccessor() diffeq.HistoryAccessor {
	return &solutionHistory{s: s}
}

type solutionHistory struct {
	s *Solver
}

func (h *solutionHistory) user() diffeq.HistoryAccessor {
	return h.s.prob.History.Accessor(h.s.prob.Dim())
}

func (h *solutionHistory) Value(p diffeq.Params, t float64) diffeq.State {
	if t <= h.s.prob.TSpan[0] || len(h.s.past) == 0 {
		return h.user().Value(p, t)
	}
	dst := make(diffeq.State, h.s.prob.Dim())
	h.interpolate(dst, t, 0)
	return dst
}

func (h *solutionHistory) ValueInto(dst diffeq.State, p diffeq.Params, t float64) {
	if t <= h.s.prob.TSpan[0] || len(h.s.past) == 0 {
		h.user().ValueInto(dst, p, t)
		return
	}
	h.interpolate(dst, t, 0)
}

func (h *solutionHistory) Derivative(i int, p diffeq.Params, t float64) diffeq.State {
	if t <= h.s.prob.TSpan[0] || len(h.s.past) == 0 {
		return h.user().Derivative(i, p, t)
	}
	if i != 1 {
		panic(fmt.Sprintf("sim: interpolant supports first derivatives only, asked for order %d", i))
	}
	dst := make(diffeq.State, h.s.prob.Dim())
	h.interpolate(dst, t, 1)
	return dst
}

func (h *solutionHistory) DerivativeInto(dst diffeq.State, i int, p diffeq.Params, t float64) {
	if t <= h.s.prob.TSpan[0] || len(h.s.past) == 0 {
		h.user().DerivativeInto(dst, i, p, t)
		return
	}
	if i != 1 {
		panic(fmt.Sprintf("sim: interpolant supports first derivatives only, asked for order %d", i))
	}
	h.interpolate(dst, t, 1)
}

func (h *solutionHistory) Indexed(idxs []int, p diffeq.Params, t float64) diffeq.State {
	full := h.Value(p, t)
	out := make(diffeq.State, len(idxs))
	for k, i := range idxs {
		out[k] = full[i]
	}
	return out
}

// interpolate evaluates the cubic Hermite interpolant (deriv 0) or its
// time derivative (deriv 1) over the bracketing recorded samples.
// Queries past the newest sample extrapolate from the last interval,
// which steppers hit when a lag shrinks below the step size.
func (h *solutionHistory) interpolate(dst diffeq.State, t float64, deriv int) {
	past := h.s.past
	if len(past) == 1 {
		// Only the initial sample exists: extend it linearly.
		s0 := past[0]
		for i := range dst {
			if deriv == 0 {
				dst[i] = s0.u[i] + s0.du[i]*(t-s0.t)
			} else {
				dst[i] = s0.du[i]
			}
		}
		return
	}
	hi := sort.Search(len(past), func(i int) bool { return past[i].t >= t })
	if hi <= 0 {
		hi = 1
	}
	if hi >= len(past) {
		hi = len(past) - 1
	}
	a, b := past[hi-1], past[hi]

	dt := b.t - a.t
	if dt == 0 {
		copy(dst, b.u)
		return
	}
	x := (t - a.t) / dt

	if deriv == 0 {
		h00 := (1 + 2*x) * (1 - x) * (1 - x)
		h10 := x * (1 - x) * (1 - x)
		h01 := x * x * (3 - 2*x)
		h11 := x * x * (x - 1)
		for i := range dst {
			dst[i] = h00*a.u[i] + h10*dt*a.du[i] + h01*b.u[i] + h11*dt*b.du[i]
		}
		return
	}

	d00 := 6 * x * (x - 1)
	d10 := (1 - x) * (1 - 3*x)
	d01 := 6 * x * (1 - x)
	d11 := x * (3*x - 2)
	for i := range dst {
		dst[i] = (d00*a.u[i]+d01*b.u[i])/dt + d10*a.du[i] + d11*b.du[i]
	}
}
