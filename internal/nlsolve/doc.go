// Package nlsolve provides root finding for small dense nonlinear systems.
//
// The package defines the contract between a caller holding a nonlinear
// system and an algorithm that solves it:
//
//   - [System]: residual function, unknown vector, fixed parameters
//   - [Algorithm]: solves a System, reports a [Result]
//   - [Newton]: damped Newton iteration with a finite-difference Jacobian
//
// Algorithms own their convergence and iteration limits. Failure to
// converge is reported through [Result.Converged] and [Result.Status],
// never through an error return, so callers decide severity.
package nlsolve
