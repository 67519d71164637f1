package diffeq

// Kind classifies a problem by its governing-equation form.
type Kind int

const (
	KindODE Kind = iota
	KindDAEMass
	KindDAEImplicit
	KindDDE
	KindSDE
)

func (k Kind) String() string {
	switch k {
	case KindODE:
		return "ode"
	case KindDAEMass:
		return "dae(mass)"
	case KindDAEImplicit:
		return "dae(implicit)"
	case KindDDE:
		return "dde"
	case KindSDE:
		return "sde"
	default:
		return "unknown"
	}
}

// NoiseSpec describes the noise process of a stochastic problem.
type NoiseSpec struct {
	// RatePrototype fixes the shape of the diffusion output when the
	// noise is not diagonal. Nil means diagonal noise of state shape.
	RatePrototype State
	Seed          int64
}

// ProblemSpec is the canonical constructor input for NewProblem.
// Exactly one of Drift, DelayDrift, Implicit must be set.
type ProblemSpec struct {
	Drift      RHS
	DelayDrift DelayRHS
	Implicit   ImplicitRHS
	Diffusion  RHS
	Mass       *MassMatrix

	U0    State // nil adopts History at TSpan[0]
	TSpan [2]float64
	P     Params

	History      History
	HistoryNeeds HistoryCaps
	ConstLags    []float64
	DepLags      []LagFunc

	// Neutral marks delay terms inside derivative arguments. Nil
	// derives it: mass matrix singular or |det| != 1.
	Neutral *bool

	// DiscOrder is the solution's smoothness class at the start time.
	// Nil defaults to 0, or 1 when U0 is adopted from history; an
	// explicit value below 1 is likewise raised on adoption.
	DiscOrder *Rational

	Noise *NoiseSpec
	Init  *InitSpec
	Alias AliasSpecifier
}

// Problem is an immutable differential problem. Build it with
// NewProblem or a per-kind factory; treat every field as read-only
// afterwards.
type Problem struct {
	ProblemSpec

	kind    Kind
	dim     int
	neutral bool
	order   Rational
}

func (p *Problem) Kind() Kind { return p.kind }

// Dim returns the state dimension.
func (p *Problem) Dim() int { return p.dim }

// IsNeutral reports whether delay terms appear inside derivative
// arguments, which obliges initialization to check history derivatives
// as well as values.
func (p *Problem) IsNeutral() bool { return p.neutral }

// DiscontinuityOrder returns the smoothness class at the start time,
// consumed by the stepping engine's discontinuity tracking.
func (p *Problem) DiscontinuityOrder() Rational { return p.order }

// HasDelays reports whether any lag, constant or dependent, is present.
func (p *Problem) HasDelays() bool {
	return len(p.ConstLags) > 0 || len(p.DepLags) > 0
}

// EvalDrift writes the drift at (u, t) into dst. h is consulted only
// by delay problems and may be nil otherwise.
func (p *Problem) EvalDrift(dst State, u State, h HistoryAccessor, par Params, t float64) {
	if p.DelayDrift.Defined() {
		p.DelayDrift.Eval(dst, u, h, par, t)
		return
	}
	p.Drift.Eval(dst, u, par, t)
}

// EvalResidual writes the implicit residual F(du, u, p, t) into dst.
// Only valid for fully implicit problems.
func (p *Problem) EvalResidual(dst State, du, u State, par Params, t float64) {
	p.Implicit.Eval(dst, du, u, par, t)
}

// NewProblem validates spec and returns a fully valid problem, or an
// error naming the offending field. It never returns a partially valid
// instance.
func NewProblem(spec ProblemSpec) (*Problem, error) {
	forms := 0
	if spec.Drift.Defined() {
		forms++
	}
	if spec.DelayDrift.Defined() {
		forms++
	}
	if spec.Implicit.Defined() {
		forms++
	}
	if forms != 1 {
		return nil, problemErr("rhs", ErrNoRHS)
	}

	if !(spec.TSpan[0] < spec.TSpan[1]) {
		return nil, problemErr("tspan", ErrBadTimeSpan)
	}

	for _, lag := range spec.ConstLags {
		if lag < 0 {
			return nil, problemErr("constant lags", ErrNegativeLag)
		}
	}
	for _, lag := range spec.DepLags {
		if lag == nil {
			return nil, problemErr("dependent lags", ErrNilLag)
		}
	}

	hasDelays := len(spec.ConstLags) > 0 || len(spec.DepLags) > 0
	if hasDelays && !spec.DelayDrift.Defined() {
		return nil, problemErr("rhs", ErrNoRHS)
	}
	if spec.DelayDrift.Defined() {
		if !spec.History.Defined() {
			return nil, problemErr("history", ErrNoHistory)
		}
		if spec.HistoryNeeds == 0 {
			spec.HistoryNeeds = CapValue
		}
		if !spec.History.Caps().Has(spec.HistoryNeeds) {
			return nil, problemErr("history", ErrHistoryCaps)
		}
	}
	if spec.Diffusion.Defined() && spec.Implicit.Defined() {
		return nil, problemErr("diffusion", ErrNoRHS)
	}

	adopted := false
	u0 := spec.U0
	if u0 == nil {
		if spec.History.Value == nil {
			return nil, problemErr("u0", ErrNoInitialState)
		}
		u0 = spec.History.Value(spec.P, spec.TSpan[0])
		adopted = true
	} else if !spec.Alias.U0OrDefault(false) {
		u0 = u0.Clone()
	}
	if len(u0) == 0 {
		return nil, problemErr("u0", ErrBadDimension)
	}
	dim := len(u0)

	par := spec.P
	if par != nil && !spec.Alias.POrDefault(false) {
		par = par.Clone()
	}

	if spec.Mass != nil && spec.Mass.Dim() != dim {
		return nil, problemErr("mass matrix", ErrBadDimension)
	}

	if err := probeShapes(&spec, u0, par, dim); err != nil {
		return nil, err
	}

	neutral := false
	if spec.Neutral != nil {
		neutral = *spec.Neutral
	} else if spec.Mass != nil {
		det := spec.Mass.Det()
		neutral = det == 0 || det != 1 && det != -1
	}

	order := Whole(0)
	if spec.DiscOrder != nil {
		if spec.DiscOrder.Den <= 0 || spec.DiscOrder.Num < 0 {
			return nil, problemErr("discontinuity order", ErrBadDimension)
		}
		order = *spec.DiscOrder
	}
	if adopted && !order.AtLeast(1) {
		order = Whole(1)
	}

	spec.U0 = u0
	spec.P = par
	return &Problem{
		ProblemSpec: spec,
		kind:        classify(&spec),
		dim:         dim,
		neutral:     neutral,
		order:       order,
	}, nil
}

func classify(spec *ProblemSpec) Kind {
	switch {
	case spec.Implicit.Defined():
		return KindDAEImplicit
	case spec.DelayDrift.Defined():
		return KindDDE
	case spec.Diffusion.Defined():
		return KindSDE
	case spec.Mass != nil:
		return KindDAEMass
	default:
		return KindODE
	}
}

// probeShapes evaluates the value-form functions once at the start
// time and checks the output dimension. Buffer forms fill a
// caller-sized slice and cannot mismatch.
func probeShapes(spec *ProblemSpec, u0 State, par Params, dim int) error {
	t0 := spec.TSpan[0]
	switch {
	case spec.Drift.Value != nil:
		if len(spec.Drift.Value(u0, par, t0)) != dim {
			return problemErr("drift", ErrBadDimension)
		}
	case spec.DelayDrift.Value != nil:
		h := spec.History.Accessor(dim)
		if len(spec.DelayDrift.Value(u0, h, par, t0)) != dim {
			return problemErr("drift", ErrBadDimension)
		}
	case spec.Implicit.Value != nil:
		du0 := make(State, dim)
		if len(spec.Implicit.Value(du0, u0, par, t0)) != dim {
			return problemErr("implicit residual", ErrBadDimension)
		}
	}
	if spec.Diffusion.Value != nil {
		want := dim
		if spec.Noise != nil && spec.Noise.RatePrototype != nil {
			want = len(spec.Noise.RatePrototype)
		}
		if len(spec.Diffusion.Value(u0, par, t0)) != want {
			return problemErr("diffusion", ErrBadDimension)
		}
	}
	return nil
}

// NewODEProblem is the convenience shape for du/dt = f(u, p, t).
func NewODEProblem(f RHS, u0 State, tspan [2]float64, p Params) (*Problem, error) {
	return NewProblem(ProblemSpec{Drift: f, U0: u0, TSpan: tspan, P: p})
}

// NewMassMatrixProblem is the convenience shape for M·du/dt = f.
func NewMassMatrixProblem(f RHS, mass *MassMatrix, u0 State, tspan [2]float64, p Params) (*Problem, error) {
	return NewProblem(ProblemSpec{Drift: f, Mass: mass, U0: u0, TSpan: tspan, P: p})
}

// NewDAEProblem is the convenience shape for F(du, u, p, t) = 0.
func NewDAEProblem(f ImplicitRHS, u0 State, tspan [2]float64, p Params) (*Problem, error) {
	return NewProblem(ProblemSpec{Implicit: f, U0: u0, TSpan: tspan, P: p})
}

// NewDDEProblem is the convenience shape for a delay problem with
// constant lags. Pass u0 nil to adopt history at the start time.
func NewDDEProblem(f DelayRHS, hist History, lags []float64, u0 State, tspan [2]float64, p Params) (*Problem, error) {
	return NewProblem(ProblemSpec{
		DelayDrift: f,
		History:    hist,
		ConstLags:  lags,
		U0:         u0,
		TSpan:      tspan,
		P:          p,
	})
}

// NewSDEProblem is the convenience shape for drift + diffusion.
func NewSDEProblem(f, g RHS, u0 State, tspan [2]float64, p Params, noise *NoiseSpec) (*Problem, error) {
	return NewProblem(ProblemSpec{Drift: f, Diffusion: g, U0: u0, TSpan: tspan, P: p, Noise: noise})
}
