package prover

import "errors"

// ErrUnsupported is the sentinel for a transition system feature an
// engine does not implement (e.g. a relational trans handed to an
// engine that only accepts functional form). No engine in this module
// returns it: each accepts both forms.
var ErrUnsupported = errors.New("prover: transition system feature unsupported by this engine")

// ErrSolverFailure wraps an underlying smt.Solver error (including the
// reference backend's ErrDomainTooLarge) so callers can distinguish an
// engine defect from a query the backing solver could not decide.
var ErrSolverFailure = errors.New("prover: solver query failed")

// ErrInternal marks a broken invariant inside an engine (a proof
// obligation that should have been dischargeable, a frame that should
// have been monotone, and so on) as opposed to a solver or input
// problem.
var ErrInternal = errors.New("prover: internal invariant violated")

// ErrNotImplemented is the sentinel for an engine operation that has
// no behavior. Every engine in this module implements the whole
// Prover interface, so none returns it.
var ErrNotImplemented = errors.New("prover: not implemented")
