package ic3

import (
	"github.com/log-when/pono/internal/smt"
	"github.com/log-when/pono/internal/term"
	"github.com/log-when/pono/internal/tsys"
)

// PredicateHandler builds units whose literals are arbitrary theory
// atoms from a fixed predicate set (spec §4.3's "Predicate" kind),
// rather than bare booleans. Generalization is identical to the
// bit-level handler's: the spec does not define a distinct
// generalize_predecessor variant for predicate handlers, only for
// syntax-guided ones.
type PredicateHandler struct {
	// Predicates is the fixed atom set this handler is allowed to use
	// as literals; Create/CreateNegated validate membership.
	Predicates []*term.Term
}

func (h PredicateHandler) Create(children []*term.Term) (*Unit, error) {
	if len(children) == 0 {
		return nil, ErrEmptyUnit
	}
	for _, c := range children {
		if !h.allowed(c) {
			return nil, ErrEmptyUnit
		}
	}
	return &Unit{Kind: Clause, Literals: append([]*term.Term(nil), children...)}, nil
}

func (h PredicateHandler) CreateNegated(children []*term.Term) (*Unit, error) {
	u, err := h.Create(children)
	if err != nil {
		return nil, err
	}
	return &Unit{Kind: Cube, Literals: u.Literals}, nil
}

// allowed reports whether c (or its negation, for a literal built from
// Not) is a member of the handler's predicate set; an empty set
// disables the restriction and accepts any atom, matching a handler
// configured without a fixed predicate catalogue.
func (h PredicateHandler) allowed(c *term.Term) bool {
	if len(h.Predicates) == 0 {
		return true
	}
	target := c
	if c.Op == term.Not {
		target = c.Children[0]
	}
	for _, p := range h.Predicates {
		if p == target {
			return true
		}
	}
	return false
}

func (PredicateHandler) CheckValid(u *Unit) bool {
	return u != nil && len(u.Literals) > 0
}

func (PredicateHandler) GeneralizePredecessor(ctx *term.Context, vars []tsys.Var, model map[string]smt.Value) *Unit {
	return modelCube(ctx, vars, model)
}
