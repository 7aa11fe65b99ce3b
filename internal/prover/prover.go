// Package prover defines the stable external interface (spec §6) that
// every engine — k-induction, the IC3 family, and CEGAR — implements,
// plus the verdict, witness, and option types shared across them.
package prover

import (
	"context"

	"github.com/log-when/pono/internal/smt"
	"github.com/log-when/pono/internal/tsys"
)

// Verdict is the three-valued outcome of a CheckUntil call.
type Verdict uint8

const (
	Unknown Verdict = iota
	Safe
	Unsafe
)

func (v Verdict) String() string {
	switch v {
	case Safe:
		return "SAFE"
	case Unsafe:
		return "UNSAFE"
	default:
		return "UNKNOWN"
	}
}

// StateAssignment assigns values to the state and input variables at
// one step of a witness trace. An input variable the engine's model
// did not determine at that step (for k-induction, any input at the
// final step) has no entry.
type StateAssignment map[string]smt.Value

// Witness is a finite counterexample trace: step 0 satisfies init,
// consecutive steps are related by trans, and the final step violates
// the property (spec §6).
type Witness []StateAssignment

// Prover is the stable interface every engine exposes (spec §6).
type Prover interface {
	// Initialize prepares the engine to answer CheckUntil; idempotent.
	Initialize() error

	// CheckUntil is blocking and may be called repeatedly with a
	// non-decreasing k.
	CheckUntil(ctx context.Context, k int) (Verdict, error)

	// Witness is available after an Unsafe verdict.
	Witness() (Witness, bool)
}

// Property is re-exported for callers that only need internal/prover
// plus a concrete engine package, without importing internal/tsys
// directly for this one type.
type Property = tsys.Property
