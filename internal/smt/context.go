package smt

import (
	"errors"
	"fmt"

	"github.com/log-when/pono/internal/term"
)

// ErrNoModel is returned by GetValue when the last CheckSat(Assuming)
// call did not return Sat.
var ErrNoModel = errors.New("smt: no model available")

// ErrNoCore is returned by UnsatCore when the last CheckSatAssuming
// call did not return Unsat.
var ErrNoCore = errors.New("smt: no unsat core available")

// Context is the reference Solver implementation (package doc). It
// keeps a flat, checkpointed list of persistent assertions plus the
// model/core produced by the most recent check, guarded by nothing
// beyond Go's single-goroutine-per-engine usage discipline (spec §5:
// the engine that owns a solver is its exclusive caller).
type Context struct {
	ctx *term.Context

	assertions  []*term.Term
	checkpoints []int // Push() records len(assertions) here

	lastModel map[string]Value
	lastSat   Result
	lastCore  []*term.Term
}

// NewContext allocates a fresh reference solver over a new term arena.
func NewContext() *Context {
	return &Context{ctx: term.NewContext()}
}

func (c *Context) Ctx() *term.Context { return c.ctx }

// Push opens a new assertion scope (spec §5 solver_context_ discipline).
func (c *Context) Push() {
	c.checkpoints = append(c.checkpoints, len(c.assertions))
}

// Pop discards every assertion made since the matching Push. Popping
// past the base level is a no-op, matching a defensive "balanced by
// construction" stance rather than panicking on a caller bug that
// cannot affect soundness.
func (c *Context) Pop() {
	if len(c.checkpoints) == 0 {
		return
	}
	n := len(c.checkpoints) - 1
	cp := c.checkpoints[n]
	c.checkpoints = c.checkpoints[:n]
	c.assertions = c.assertions[:cp]
}

// Depth reports the current push/pop nesting depth.
func (c *Context) Depth() int { return len(c.checkpoints) }

// Assert adds f (and its top-level And-conjuncts, flattened for
// sharper forward-checking) to the current scope.
func (c *Context) Assert(f *term.Term) {
	c.assertions = append(c.assertions, flatten(f)...)
}

// flatten splits top-level conjunctions into independent clauses so
// the backtracking search can prune on each one as soon as it becomes
// decidable, instead of waiting for one giant And to fully resolve.
func flatten(t *term.Term) []*term.Term {
	if t.Op == term.And {
		return append(flatten(t.Children[0]), flatten(t.Children[1])...)
	}
	return []*term.Term{t}
}

func (c *Context) CheckSat() (Result, error) {
	return c.CheckSatAssuming(nil)
}

func (c *Context) CheckSatAssuming(assumptions []*term.Term) (Result, error) {
	clauses := append(append([]*term.Term(nil), c.assertions...), assumptions...)

	vars, err := collectVars(clauses)
	if err != nil {
		c.lastSat = Unknown
		return Unknown, err
	}

	model, ok := search(clauses, vars)
	if !ok {
		c.lastSat = Unsat
		c.lastModel = nil
		c.lastCore = minimizeCore(c.assertions, assumptions)
		return Unsat, nil
	}

	c.lastSat = Sat
	c.lastModel = model
	c.lastCore = nil

	return Sat, nil
}

// minimizeCore performs a linear shrink over assumptions: an
// assumption is dropped from the core if the base assertions plus the
// remaining assumptions are still unsatisfiable without it. This is
// the standard "delta-debugging" construction of an unsat core for a
// solver with no internal resolution trace to mine one from directly.
func minimizeCore(base, assumptions []*term.Term) []*term.Term {
	core := append([]*term.Term(nil), assumptions...)
	for i := 0; i < len(core); {
		trial := append(append([]*term.Term(nil), core[:i]...), core[i+1:]...)
		clauses := append(append([]*term.Term(nil), base...), trial...)
		vars, err := collectVars(clauses)
		if err != nil {
			i++
			continue
		}
		if _, sat := search(clauses, vars); !sat {
			core = trial
			continue
		}
		i++
	}

	return core
}

func (c *Context) GetValue(t *term.Term) (Value, error) {
	if c.lastSat != Sat || c.lastModel == nil {
		return Value{}, ErrNoModel
	}
	v, ok := evalTerm(t, c.lastModel)
	if !ok {
		return Value{}, fmt.Errorf("%w: term mentions a symbol outside the model", ErrNoModel)
	}

	return v, nil
}

func (c *Context) UnsatCore() ([]*term.Term, error) {
	if c.lastSat != Unsat {
		return nil, ErrNoCore
	}

	return append([]*term.Term(nil), c.lastCore...), nil
}

// TransferTerm rebuilds t bottom-up in dst's arena. A single call uses
// a fresh, call-local cache; repeated cross-solver moves that should
// share structure go through internal/cegar.Translator instead.
func (c *Context) TransferTerm(dst Solver, t *term.Term) *term.Term {
	return term.Rebuild(dst.Ctx(), t, nil, nil)
}
