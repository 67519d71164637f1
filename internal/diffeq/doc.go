// Package diffeq defines the problem data model for differential
// systems: ordinary (ODE), mass-matrix and fully-implicit
// differential-algebraic (DAE), delay (DDE) and stochastic (SDE)
// problems.
//
// The central type is [Problem], an immutable record built by
// [NewProblem] (or one of the per-kind factories). Construction
// validates everything up front: time-span ordering, lag signs, shape
// compatibility between the initial state and the right-hand side, and
// history capability coverage. A Problem that constructs is fully
// valid; downstream components share it by reference and never mutate
// it.
//
// Right-hand sides come in two calling conventions, carried as data on
// [RHS], [DelayRHS] and [ImplicitRHS]: value-returning (the function
// allocates and returns) and buffer-writing (the function fills a
// caller-supplied slice). Consumers dispatch on whichever is set.
//
// # Thread Safety
//
// A constructed Problem is safe for concurrent read-only use. Sharing
// of the mutable containers it references (initial state, parameters)
// is governed by [AliasSpecifier].
package diffeq
