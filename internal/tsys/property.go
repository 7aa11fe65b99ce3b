package tsys

import (
	"fmt"

	"github.com/log-when/pono/internal/term"
)

// Property pairs a TransitionSystem with a boolean-valued term over
// its state variables (spec §3). Bad is its negation.
type Property struct {
	TS   *TransitionSystem
	Prop *term.Term
}

// NewProperty validates and wraps prop for ts.
func NewProperty(ts *TransitionSystem, prop *term.Term) (*Property, error) {
	if !prop.Sort.Equal(term.BoolSort) {
		return nil, fmt.Errorf("%w: property is not boolean", ErrSortMismatch)
	}
	for name := range term.Symbols(prop) {
		if !ts.IsStateVar(name) {
			return nil, fmt.Errorf("%w: property mentions %q, not a state variable", ErrUnknownSymbolInInit, name)
		}
	}

	return &Property{TS: ts, Prop: prop}, nil
}

// Bad returns ¬Prop, the predicate a counterexample must satisfy.
func (p *Property) Bad() *term.Term {
	return p.TS.ctx.Not(p.Prop)
}
