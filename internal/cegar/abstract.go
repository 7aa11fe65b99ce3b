// Package cegar implements the value-abstraction CEGAR driver (spec
// §4.5): it wraps an inner prover over an abstracted transition
// system, classifies an abstract counterexample as real or spurious
// by re-concretizing it, and on a spurious one refines the abstract
// system with unsat-core-derived equalities. The concrete system is
// never modified.
package cegar

import (
	"fmt"

	"github.com/log-when/pono/internal/term"
	"github.com/log-when/pono/internal/tsys"
)

// ValueMap records, for each fresh abstraction variable, the concrete
// value literal it stands in for.
type ValueMap map[string]*term.Term

// Abstraction is the result of abstracting one concrete Property: a
// fresh transition system and property built in their own term
// arena, plus the value map needed to re-concretize a witness.
type Abstraction struct {
	TS     *tsys.TransitionSystem
	Prop   *tsys.Property
	Values ValueMap
}

// abstractor carries the per-run state of one abstraction pass: the
// destination arena, the fresh TS being built, a counter for unique
// abs_<n> names, and the literal->variable cache so the same concrete
// constant always maps to the same abstraction variable.
type abstractor struct {
	dst     *term.Context
	ts      *tsys.TransitionSystem
	values  ValueMap
	sorts   map[string]term.Sort
	litVars map[*term.Term]*term.Term
	nextID  int
}

// Abstract builds an Abstraction of prop (spec §4.5's "Abstraction").
// Every concrete state and input variable is carried over unchanged
// into the new arena; every leaf value literal not nested inside a
// non-linearising operator application is replaced by a fresh, frozen
// state variable abs_<n> of the same sort, and init/trans/prop are
// rebuilt against the substitution.
func Abstract(prop *tsys.Property) (*Abstraction, error) {
	concrete := prop.TS
	dst := term.NewContext()
	absTS := tsys.New(dst, concrete.Functional())

	a := &abstractor{
		dst:     dst,
		ts:      absTS,
		values:  ValueMap{},
		sorts:   map[string]term.Sort{},
		litVars: map[*term.Term]*term.Term{},
	}

	for _, v := range concrete.StateVars() {
		if _, _, err := absTS.AddStateVar(v.Name, v.Sort); err != nil {
			return nil, fmt.Errorf("cegar: carrying state var %q: %w", v.Name, err)
		}
	}
	for _, v := range concrete.InputVars() {
		if _, err := absTS.AddInputVar(v.Name, v.Sort); err != nil {
			return nil, fmt.Errorf("cegar: carrying input var %q: %w", v.Name, err)
		}
	}

	absInit := a.abstract(concrete.Init())

	var absNext map[string]*term.Term
	var absTrans *term.Term
	if concrete.Functional() {
		absNext = make(map[string]*term.Term, len(concrete.StateVars()))
		for _, v := range concrete.StateVars() {
			next, err := concrete.NextFunction(v.Name)
			if err != nil {
				return nil, fmt.Errorf("cegar: missing next(%s): %w", v.Name, err)
			}
			absNext[v.Name] = a.abstract(next)
		}
	} else {
		absTrans = a.abstract(concrete.Trans())
	}

	absPropTerm := a.abstract(prop.Prop)

	if err := absTS.SetInit(absInit); err != nil {
		return nil, fmt.Errorf("cegar: abstract init: %w", err)
	}

	// Freeze every abstraction variable minted across init/trans/prop,
	// including ones that only appear in the property itself (e.g. a
	// bare `x != 5` property with no matching literal in init/trans).
	for name := range a.values {
		if err := absTS.Freeze(name); err != nil {
			return nil, fmt.Errorf("cegar: freeze %q: %w", name, err)
		}
	}

	if concrete.Functional() {
		for name, next := range absNext {
			if err := absTS.SetNext(name, next); err != nil {
				return nil, fmt.Errorf("cegar: abstract next(%s): %w", name, err)
			}
		}
	} else {
		// Relational Freeze only records the flag; unlike the
		// functional branch (where Freeze rewrites nextFuncs and
		// Trans() picks it up automatically) a relational trans
		// predicate needs its frozen-variable conjuncts spelled out
		// explicitly here.
		conjuncts := make([]*term.Term, 0, len(a.values)+1)
		conjuncts = append(conjuncts, absTrans)
		for name := range a.values {
			sort := a.sorts[name]
			conjuncts = append(conjuncts, dst.Equal(dst.Symbol(name+"'", sort), dst.Symbol(name, sort)))
		}
		if err := absTS.SetTransRelational(dst.AndAll(conjuncts...)); err != nil {
			return nil, fmt.Errorf("cegar: abstract trans: %w", err)
		}
	}

	absProp, err := tsys.NewProperty(absTS, absPropTerm)
	if err != nil {
		return nil, fmt.Errorf("cegar: abstract property: %w", err)
	}

	return &Abstraction{TS: absTS, Prop: absProp, Values: a.values}, nil
}

// abstract rebuilds t in the destination arena, replacing leaf value
// literals with frozen abstraction variables except inside the
// subtree of a non-linearising operator application, which is kept
// verbatim (spec §4.5).
func (a *abstractor) abstract(t *term.Term) *term.Term {
	switch t.Kind {
	case term.SymbolKind:
		return a.dst.Symbol(t.Name, t.Sort)
	case term.LitKind:
		return a.liftLiteral(t)
	default: // AppKind
		if term.IsNonLinearizing(t.Op) {
			return a.copyVerbatim(t)
		}
		children := make([]*term.Term, len(t.Children))
		for i, c := range t.Children {
			children[i] = a.abstract(c)
		}
		return a.dst.App(t.Op, t.Sort, children, t.ExtractHi, t.ExtractLo, t.Ext)
	}
}

// liftLiteral returns the (possibly cached) abstraction variable
// standing in for literal t, minting a fresh one on first sight.
func (a *abstractor) liftLiteral(t *term.Term) *term.Term {
	if t.Sort.Kind == term.ArrayKind {
		return a.copyVerbatim(t)
	}
	if v, ok := a.litVars[t]; ok {
		return v
	}

	name := fmt.Sprintf("abs_%d", a.nextID)
	a.nextID++
	if _, _, err := a.ts.AddStateVar(name, t.Sort); err != nil {
		// names are generated sequentially and never collide with a
		// carried-over concrete variable's name space by construction
		panic(fmt.Sprintf("cegar: abstraction variable %q: %v", name, err))
	}
	v := a.dst.Symbol(name, t.Sort)
	a.litVars[t] = v
	a.values[name] = a.copyVerbatim(t)
	a.sorts[name] = t.Sort

	return v
}

// copyVerbatim rebuilds t in the destination arena with no
// substitution at all, used for non-linearising subtrees and array
// literals that must keep their concrete values.
func (a *abstractor) copyVerbatim(t *term.Term) *term.Term {
	return term.Rebuild(a.dst, t, nil, nil)
}
