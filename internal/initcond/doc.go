// Package initcond implements the initial-value consistency and
// correction protocol run before a differential problem is advanced.
//
// The entry point is [GetInitialValues]. The caller picks one of three
// strategies per invocation:
//
//   - [Skip]: adopt the provider's current state and parameters as-is.
//   - [Check]: evaluate the governing residual at the current values
//     and fail with a [ConsistencyError] if any checked component
//     exceeds tolerance.
//   - [Override]: solve the auxiliary nonlinear subproblem attached to
//     the problem via diffeq.InitSpec and map its solution back into
//     the full state/parameter space.
//
// Strategies never fall back to one another: a fatal condition names
// the strategy that was active and what was implicated.
//
// The protocol reads current values through diffeq.ValueProvider,
// satisfied equally by a live stepping engine and by the inert
// [Snapshot] here; nothing in this package depends on which.
package initcond
