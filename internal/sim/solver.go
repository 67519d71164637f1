// Package sim drives a solve: it owns the live state, runs the
// initialization protocol before the first step, and advances explicit
// problems with a stepper while serving delay-history queries from its
// own past trajectory.
package sim

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/san-kum/odelab/internal/diffeq"
	"github.com/san-kum/odelab/internal/initcond"
	"github.com/san-kum/odelab/internal/integrators"
	"github.com/san-kum/odelab/internal/nlsolve"
)

var (
	// ErrInitFailed indicates the override initialization did not
	// converge. The initcond package reports this via Success=false;
	// the driver treats it as fatal.
	ErrInitFailed = errors.New("sim: initialization did not converge")

	// ErrUnsupported indicates a problem form the stepping loop cannot
	// advance (fully implicit, or a non-identity mass matrix). Such
	// problems remain valid for initialization via a snapshot.
	ErrUnsupported = errors.New("sim: problem form not steppable")

	// ErrDiverged indicates the state left the representable range.
	ErrDiverged = errors.New("sim: state diverged (NaN or Inf)")
)

type Config struct {
	Dt            float64
	Adaptive      bool
	AbsTol        float64
	RelTol        float64
	MinDt         float64
	MaxSteps      int
	Strategy      initcond.Strategy
	InitAlgorithm nlsolve.Algorithm
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		AbsTol:        1e-8,
		RelTol:        1e-6,
		MinDt:         1e-10,
		MaxSteps:      1_000_000,
		Strategy:      initcond.Check,
		ValidateState: true,
	}
}

type Result struct {
	Times      []float64
	States     []diffeq.State
	StepsTaken int
	Init       initcond.Result
	DiscOrder  diffeq.Rational
	DiscPoints []float64
}

// sample is one recorded point of the solution, kept for Hermite
// interpolation of lagged queries.
type sample struct {
	t     float64
	u, du diffeq.State
}

// Solver advances one problem. It is the live diffeq.ValueProvider:
// the initialization protocol reads the solver's own current values
// through the same interface a frozen snapshot would satisfy.
//
// A Solver is single-threaded; one Run owns it end to end.
type Solver struct {
	prob    *diffeq.Problem
	stepper integrators.Stepper
	log     *zap.Logger

	t    float64
	u    diffeq.State
	du   diffeq.State
	p    diffeq.Params
	past []sample
}

type Option func(*Solver)

func WithLogger(log *zap.Logger) Option {
	return func(s *Solver) { s.log = log }
}

func New(prob *diffeq.Problem, stepper integrators.Stepper, opts ...Option) *Solver {
	s := &Solver{
		prob:    prob,
		stepper: stepper,
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ValueProvider implementation over the live state.

func (s *Solver) CurrentState() diffeq.State          { return s.u }
func (s *Solver) CurrentStateInto(dst diffeq.State)   { copy(dst, s.u) }
func (s *Solver) CurrentParams() diffeq.Params        { return s.p }
func (s *Solver) CurrentTime() float64                { return s.t }
func (s *Solver) CurrentDerivative() diffeq.State     { return s.du }
func (s *Solver) CurrentDerivativeInto(dst diffeq.State) {
	if s.du == nil {
		for i := range dst {
			dst[i] = 0
		}
		return
	}
	copy(dst, s.du)
}

func (s *Solver) validate(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("sim: dt must be positive, got %f", cfg.Dt)
	}
	if cfg.MaxSteps <= 0 {
		return fmt.Errorf("sim: max steps must be positive, got %d", cfg.MaxSteps)
	}
	if s.prob.Kind() == diffeq.KindDAEImplicit {
		return fmt.Errorf("%w: fully implicit", ErrUnsupported)
	}
	if s.prob.Mass != nil {
		return fmt.Errorf("%w: mass matrix", ErrUnsupported)
	}
	return nil
}

// Run initializes and advances the problem across its time span.
// Non-convergent override initialization surfaces as ErrInitFailed;
// consistency failures surface as the initcond error unchanged.
func (s *Solver) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validate(cfg); err != nil {
		return nil, err
	}

	prob := s.prob
	t0, t1 := prob.TSpan[0], prob.TSpan[1]
	dim := prob.Dim()

	s.t = t0
	s.u = prob.U0.Clone()
	s.p = prob.P
	hist := s.historyAccessor()

	s.du = make(diffeq.State, dim)
	prob.EvalDrift(s.du, s.u, hist, s.p, s.t)

	init, err := initcond.GetInitialValues(prob, s, cfg.Strategy, initcond.Options{
		AbsTol:    cfg.AbsTol,
		RelTol:    cfg.RelTol,
		Algorithm: cfg.InitAlgorithm,
	})
	if err != nil {
		return nil, err
	}
	if !init.Success {
		return nil, fmt.Errorf("%w (strategy %s)", ErrInitFailed, cfg.Strategy)
	}
	s.u = init.State.Clone()
	s.p = init.Params
	prob.EvalDrift(s.du, s.u, hist, s.p, s.t)
	s.log.Debug("initialized",
		zap.Stringer("strategy", cfg.Strategy),
		zap.Stringer("kind", prob.Kind()),
		zap.Float64("t0", t0))

	targets := s.discontinuityTargets(t0, t1)
	result := &Result{
		DiscOrder:  prob.DiscontinuityOrder(),
		DiscPoints: targets,
		Init:       init,
	}

	s.past = append(s.past[:0], sample{t: s.t, u: s.u.Clone(), du: s.du.Clone()})
	result.Times = append(result.Times, s.t)
	result.States = append(result.States, s.u.Clone())

	dt := cfg.Dt
	nextTarget := 0
	for s.t < t1 && result.StepsTaken < cfg.MaxSteps {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		// Land exactly on scheduled discontinuity points and t1.
		step := dt
		for nextTarget < len(targets) && targets[nextTarget] <= s.t+1e-12 {
			nextTarget++
		}
		if nextTarget < len(targets) && s.t+step > targets[nextTarget] {
			step = targets[nextTarget] - s.t
		}
		if s.t+step > t1 {
			step = t1 - s.t
		}
		if step < cfg.MinDt {
			step = cfg.MinDt
		}

		var newU diffeq.State
		if cfg.Adaptive {
			ad, ok := s.stepper.(integrators.Adaptive)
			if !ok {
				return nil, fmt.Errorf("sim: stepper %s is not adaptive", s.stepper.Name())
			}
			var dtNext float64
			newU, dtNext, err = ad.StepAdaptive(prob, hist, s.u, s.p, s.t, step, cfg.AbsTol, cfg.RelTol)
			if err != nil {
				return result, err
			}
			dt = dtNext
		} else {
			newU = s.stepper.Step(prob, hist, s.u, s.p, s.t, step)
		}

		if cfg.ValidateState && !newU.IsValid() {
			return result, fmt.Errorf("%w at t=%.6g step %d", ErrDiverged, s.t, result.StepsTaken)
		}

		s.t += step
		s.u = newU
		prob.EvalDrift(s.du, s.u, hist, s.p, s.t)
		result.StepsTaken++

		s.past = append(s.past, sample{t: s.t, u: s.u.Clone(), du: s.du.Clone()})
		result.Times = append(result.Times, s.t)
		result.States = append(result.States, s.u.Clone())
	}

	return result, nil
}

// discontinuityTargets schedules lag-induced breakpoints: every
// multiple of each constant lag inside the span. Constant lags are
// known before solving, so no extra computation happens per step;
// dependent lags cannot be scheduled and are handled purely through
// interpolation.
func (s *Solver) discontinuityTargets(t0, t1 float64) []float64 {
	var targets []float64
	for _, lag := range s.prob.ConstLags {
		if lag <= 0 {
			continue
		}
		for t := t0 + lag; t < t1; t += lag {
			targets = append(targets, t)
		}
	}
	sort.Float64s(targets)
	dedup := targets[:0]
	for _, t := range targets {
		if len(dedup) == 0 || t-dedup[len(dedup)-1] > 1e-12 {
			dedup = append(dedup, t)
		}
	}
	return dedup
}
