// Package smt defines the abstract SMT back-end contract every prover
// engine programs against (spec §6) and ships one concrete, reference
// implementation of it.
//
// The reference implementation in this package is explicitly NOT a
// production SMT solver — spec §1 places "the SMT solver
// implementations themselves" out of scope for the core, consuming
// only their interface. It exists so the core has something real to
// run against in tests and in the CLI; a production backend (Z3,
// Bitwuzla, a remote solving service) can be substituted by
// implementing Solver without touching internal/term, internal/tsys,
// internal/kind, internal/ic3, or internal/cegar.
package smt

import "github.com/log-when/pono/internal/term"

// Result is the outcome of a CheckSat/CheckSatAssuming call.
type Result uint8

const (
	Unknown Result = iota
	Sat
	Unsat
)

func (r Result) String() string {
	switch r {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	default:
		return "unknown"
	}
}

// Solver is the uniform handle to a push/pop SMT context (spec §3 L0,
// §6 back-end contract): term construction, incremental assertion,
// satisfiability queries, model extraction, unsat-core extraction,
// and cross-solver term transfer.
type Solver interface {
	// Ctx returns the term arena backing this solver. Every Term
	// passed to any other Solver method must have been built through
	// this Context (or transferred in via TransferTerm).
	Ctx() *term.Context

	// Push opens a new, poppable assertion scope.
	Push()

	// Pop discards every assertion made since the matching Push.
	Pop()

	// Assert adds f to the current scope, persisting across Push/Pop
	// boundaries above the scope it was asserted in.
	Assert(f *term.Term)

	// CheckSat decides satisfiability of the conjunction of every
	// assertion currently in scope.
	CheckSat() (Result, error)

	// CheckSatAssuming decides satisfiability of the current scope
	// conjoined with assumptions, without permanently asserting them.
	CheckSatAssuming(assumptions []*term.Term) (Result, error)

	// GetValue returns t's value in the model produced by the most
	// recent Sat result. Calling it after any other result is an error.
	GetValue(t *term.Term) (Value, error)

	// UnsatCore returns the subset of the assumptions passed to the
	// most recent CheckSatAssuming sufficient to derive unsatisfiability.
	// Calling it after any other result is an error.
	UnsatCore() ([]*term.Term, error)

	// TransferTerm rebuilds t bottom-up in dst, a solver over the
	// same logic fragment. Used directly for one-off moves; CEGAR's
	// bidirectional cached translator (internal/cegar) performs the
	// same rebuild through term.Rebuild with a persistent cache for
	// repeated, cache-preserving moves.
	TransferTerm(dst Solver, t *term.Term) *term.Term
}
