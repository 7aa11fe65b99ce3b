package cegar

import (
	"github.com/log-when/pono/internal/smt"
	"github.com/log-when/pono/internal/term"
)

// Translator moves terms between a concrete and an abstract solver,
// caching every subterm it has already rebuilt so repeated moves of
// overlapping formulas share structure instead of re-walking from
// scratch each time (spec §3's "CEGAR translator"). Driver does not
// use it: every refinement round builds its terms directly in the
// abstract arena.
type Translator struct {
	concrete smt.Solver
	abstract smt.Solver

	toAbstract map[*term.Term]*term.Term
	toConcrete map[*term.Term]*term.Term
}

// NewTranslator builds a Translator between concrete and abstract.
func NewTranslator(concrete, abstract smt.Solver) *Translator {
	return &Translator{
		concrete:   concrete,
		abstract:   abstract,
		toAbstract: make(map[*term.Term]*term.Term),
		toConcrete: make(map[*term.Term]*term.Term),
	}
}

// ToAbstract rebuilds a concrete-arena term in the abstract arena.
func (tr *Translator) ToAbstract(t *term.Term) *term.Term {
	return term.Rebuild(tr.abstract.Ctx(), t, nil, tr.toAbstract)
}

// ToConcrete rebuilds an abstract-arena term in the concrete arena.
func (tr *Translator) ToConcrete(t *term.Term) *term.Term {
	return term.Rebuild(tr.concrete.Ctx(), t, nil, tr.toConcrete)
}
