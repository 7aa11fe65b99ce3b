// Package pono is a symbolic model checker over a quantifier-free SMT
// logical kernel.
//
// It proves or refutes safety properties of finite-state transition
// systems using three complementary engines:
//
//	internal/kind  — bounded k-induction with a simple-path constraint
//	internal/ic3   — property-directed reachability (IC3/PDR)
//	internal/cegar — counterexample-guided abstraction refinement,
//	                 driving either engine above over a value-abstracted
//	                 transition system
//
// Everything below the engines sits on a shared foundation:
//
//	internal/term    — hash-consed terms over Bool, bit-vector, Int, and
//	                    array sorts, plus the operator builders every
//	                    engine uses to construct formulas
//	internal/tsys    — TransitionSystem and Property, the (init, trans,
//	                    prop) data model every engine checks
//	internal/unroll  — at_time(s, i) bounded unrolling, shared by
//	                    k-induction and CEGAR's round-trip translation
//	internal/smt     — the reference SMT backend engines solve against
//	internal/prover  — the Prover interface, Verdict/Witness types, and
//	                    engine-selection Options every engine implements
//	internal/problem — a small YAML problem file format (init/next/
//	                    trans/prop as text) so a transition system can
//	                    be described without writing Go
//
// cmd/modelcheck is a thin CLI wrapping internal/problem and the three
// engines: it has no logic of its own beyond reading a problem file,
// picking an engine, and rendering a verdict or witness.
package pono
