// Package ic3 implements property-directed reachability (spec §4.4):
// a monotone vector of frames, a smallest-frame-first proof-goal
// queue, and a pluggable UnitHandler that decides what shape of
// literal a frame's units are built from (spec §4.3).
package ic3

import (
	"errors"

	"github.com/log-when/pono/internal/smt"
	"github.com/log-when/pono/internal/term"
	"github.com/log-when/pono/internal/tsys"
)

// ErrEmptyUnit is returned by Create/CreateNegated when called with no
// children: a handler has nothing to build a unit's invariant from.
var ErrEmptyUnit = errors.New("ic3: unit requires at least one literal")

// Kind distinguishes a disjunction of literals (Clause — the shape
// frames store) from a conjunction (Cube — the shape proof goals and
// models store); spec §4.3 requires both and a handler must preserve
// the distinction across Negate.
type Kind uint8

const (
	Clause Kind = iota
	Cube
)

// Unit is a handler-built clause or cube: spec §4.3's "unit or its
// negation". Literals is never empty for a Unit returned by Create or
// CreateNegated.
type Unit struct {
	Kind     Kind
	Literals []*term.Term
}

// AsTerm folds Literals into a single formula: And for a Cube, Or for
// a Clause.
func (u *Unit) AsTerm(ctx *term.Context) *term.Term {
	if u.Kind == Cube {
		return ctx.AndAll(u.Literals...)
	}
	return ctx.OrAll(u.Literals...)
}

// Negate produces the dual unit: ¬(clause) is the cube of negated
// literals and vice versa (De Morgan), the "clause ↔ cube" duality
// spec §4.3 calls for.
func Negate(ctx *term.Context, u *Unit) *Unit {
	negated := make([]*term.Term, len(u.Literals))
	for i, l := range u.Literals {
		negated[i] = negateLiteral(ctx, l)
	}
	dual := Clause
	if u.Kind == Clause {
		dual = Cube
	}
	return &Unit{Kind: dual, Literals: negated}
}

// negateLiteral strips a leading Not instead of wrapping a double
// negation, keeping literal lists free of Not(Not(x)) buildup across
// repeated Negate calls.
func negateLiteral(ctx *term.Context, l *term.Term) *term.Term {
	if l.Op == term.Not {
		return l.Children[0]
	}
	return ctx.Not(l)
}

// UnitHandler is the pluggable strategy of spec §4.3: it decides what
// a literal is allowed to be (bits, theory atoms, syntax-guided
// equalities) and how a SAT model is turned into a predecessor unit
// during generalize_predecessor (spec §4.4).
type UnitHandler interface {
	// Create builds a Clause from children, interpreted as literals
	// under the handler's invariant.
	Create(children []*term.Term) (*Unit, error)
	// CreateNegated builds the Cube dual of Create(children) directly,
	// without an intermediate Negate round-trip.
	CreateNegated(children []*term.Term) (*Unit, error)
	// CheckValid is a debug-time structural check of u's invariant.
	CheckValid(u *Unit) bool
	// GeneralizePredecessor extracts a predecessor unit from a SAT
	// model obtained by get_predecessor, over the given state
	// variables (spec §4.4's "Predecessor generalization (variants)").
	GeneralizePredecessor(ctx *term.Context, vars []tsys.Var, model map[string]smt.Value) *Unit
}
