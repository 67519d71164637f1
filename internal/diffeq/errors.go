package diffeq

import (
	"errors"
	"fmt"
)

// Construction errors. NewProblem fails fast: a Problem either
// constructs fully valid or not at all.
var (
	// ErrNoRHS indicates no drift, delay drift, or implicit residual
	// was supplied, or more than one of them was.
	ErrNoRHS = errors.New("diffeq: exactly one right-hand-side form required")

	// ErrBadTimeSpan indicates a time span whose endpoints are not
	// strictly increasing.
	ErrBadTimeSpan = errors.New("diffeq: time span must be strictly increasing")

	// ErrNegativeLag indicates a constant lag below zero.
	ErrNegativeLag = errors.New("diffeq: constant lags must be nonnegative")

	// ErrNilLag indicates a nil dependent-lag function.
	ErrNilLag = errors.New("diffeq: dependent lag function is nil")

	// ErrBadDimension indicates mismatched vector or matrix dimensions.
	ErrBadDimension = errors.New("diffeq: dimension mismatch")

	// ErrNoHistory indicates a delay problem without a usable history
	// function.
	ErrNoHistory = errors.New("diffeq: delay problem requires a history function")

	// ErrHistoryCaps indicates the history function does not implement
	// every call shape the active function declared it needs.
	ErrHistoryCaps = errors.New("diffeq: history function missing required call shapes")

	// ErrNoInitialState indicates neither an initial state nor a
	// history function to adopt one from.
	ErrNoInitialState = errors.New("diffeq: initial state required (no history to adopt it from)")
)

// ProblemError wraps a construction failure with the offending field.
type ProblemError struct {
	Field   string
	Wrapped error
}

func (e *ProblemError) Error() string {
	return fmt.Sprintf("problem %s: %v", e.Field, e.Wrapped)
}

func (e *ProblemError) Unwrap() error { return e.Wrapped }

func problemErr(field string, err error) error {
	return &ProblemError{Field: field, Wrapped: err}
}
