package initcond

import "github.com/san-kum/odelab/internal/diffeq"

// Snapshot is an inert diffeq.ValueProvider over frozen values. It is
// created per initialization call and must not be shared between
// concurrent calls; write ownership belongs to the caller.
type Snapshot struct {
	U  diffeq.State
	Du diffeq.State // nil when no derivative is tracked
	P  diffeq.Params
	T  float64
}

// NewSnapshot freezes the given values without copying; the caller
// keeps ownership of the slices.
func NewSnapshot(u, du diffeq.State, p diffeq.Params, t float64) *Snapshot {
	return &Snapshot{U: u, Du: du, P: p, T: t}
}

func (s *Snapshot) CurrentState() diffeq.State { return s.U }

func (s *Snapshot) CurrentStateInto(dst diffeq.State) { copy(dst, s.U) }

func (s *Snapshot) CurrentParams() diffeq.Params { return s.P }

func (s *Snapshot) CurrentTime() float64 { return s.T }

func (s *Snapshot) CurrentDerivative() diffeq.State { return s.Du }

func (s *Snapshot) CurrentDerivativeInto(dst diffeq.State) {
	if s.Du == nil {
		for i := range dst {
			dst[i] = 0
		}
		return
	}
	copy(dst, s.Du)
}
