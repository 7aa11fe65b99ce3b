// Package unroll implements the time-indexed rewriting (spec §4.1)
// that every prover engine uses to turn a formula over current/next
// state and input variables into a formula over step-indexed copies
// of those variables.
package unroll

import (
	"errors"
	"fmt"
	"sync"

	"github.com/log-when/pono/internal/term"
)

// ErrUnrollUnknownSymbol is returned when a term mentions a symbol
// that is neither a state, input, nor primed-state variable of the
// associated transition system (spec §4.1, UnrollError).
var ErrUnrollUnknownSymbol = errors.New("unroll: term mentions a symbol outside the transition system")

// Vars is the minimal view of a transition system's variable sets the
// unroller needs; tsys.TransitionSystem satisfies it directly.
type Vars interface {
	// IsStateVar reports whether name is a current-step state variable.
	IsStateVar(name string) bool
	// IsInputVar reports whether name is an input variable.
	IsInputVar(name string) bool
	// IsNextVar reports whether name is the primed (next-state) form
	// of a state variable, returning that state variable's unprimed
	// name when ok is true.
	IsNextVar(name string) (unprimed string, ok bool)
}

type unrollKey struct {
	name string
	step int
}

// Unroller produces time-indexed copies of terms and caches them so
// that (symbol, step) always maps to the identical *term.Term, the
// discipline spec §4.1 mandates and spec §8 invariant 5 tests.
//
// The cache is a flat map guarded by a single RWMutex, the same shape
// the teacher's core.Graph uses for its vertex catalog: repeated
// at_time calls for an already-seen (symbol, step) take the read-lock
// fast path.
type Unroller struct {
	ctx  *term.Context
	vars Vars

	mu    sync.RWMutex
	cache map[unrollKey]*term.Term
}

// New builds an Unroller bound to ctx (the term arena of the owning
// solver) and vars (the transition system's variable classification).
func New(ctx *term.Context, vars Vars) *Unroller {
	return &Unroller{
		ctx:   ctx,
		vars:  vars,
		cache: make(map[unrollKey]*term.Term),
	}
}

// AtTime rewrites t, replacing every state variable s with s@i, every
// input variable v with v@i, and every next(s) with s@(i+1). Returns
// ErrUnrollUnknownSymbol if t mentions a symbol outside the bound
// transition system.
func (u *Unroller) AtTime(t *term.Term, i int) (*term.Term, error) {
	subst := make(map[*term.Term]*term.Term)
	for name, sym := range term.Symbols(t) {
		switch {
		case u.vars.IsStateVar(name):
			subst[sym] = u.indexed(name, sym.Sort, i)
		case u.vars.IsInputVar(name):
			subst[sym] = u.indexed(name, sym.Sort, i)
		default:
			if unprimed, ok := u.vars.IsNextVar(name); ok {
				subst[sym] = u.indexed(unprimed, sym.Sort, i+1)
				continue
			}
			return nil, fmt.Errorf("%w: %q", ErrUnrollUnknownSymbol, name)
		}
	}

	return term.Rebuild(u.ctx, t, subst, nil), nil
}

// indexed returns the cached step-indexed copy of (name, s), building
// and caching it on first use.
func (u *Unroller) indexed(name string, s term.Sort, step int) *term.Term {
	key := unrollKey{name: name, step: step}

	u.mu.RLock()
	if t, ok := u.cache[key]; ok {
		u.mu.RUnlock()
		return t
	}
	u.mu.RUnlock()

	u.mu.Lock()
	defer u.mu.Unlock()
	if t, ok := u.cache[key]; ok {
		return t
	}
	t := u.ctx.Symbol(fmt.Sprintf("%s@%d", name, step), s)
	u.cache[key] = t

	return t
}

// At returns the cached step-indexed copy of a bare variable name
// without rewriting a whole term; used by engines that need to refer
// to s@i directly (e.g. to build the simple-path constraint).
func (u *Unroller) At(name string, s term.Sort, step int) *term.Term {
	return u.indexed(name, s, step)
}
