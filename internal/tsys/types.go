// Package tsys implements the transition-system and property data
// model of spec §3: state/input variable partitioning, init/trans in
// functional or relational form, and the derived "bad" predicate of a
// Property.
package tsys

import (
	"fmt"
	"sync"

	"github.com/log-when/pono/internal/term"
)

// Var names a state or input variable and its Sort.
type Var struct {
	Name string
	Sort term.Sort
}

// TransitionSystem is the tuple (S, I, init, trans) of spec §3. All
// mutation happens through the Add*/Set* methods below; a
// TransitionSystem is otherwise read-only once handed to a prover
// engine, the same "construct then freeze" discipline the teacher
// applies to core.Graph via its GraphOption constructor arguments.
//
// A TransitionSystem is valid only for the lifetime of the Context
// that built its terms (spec §3 Lifecycles); it must never be reused
// against a different Context.
type TransitionSystem struct {
	mu sync.RWMutex

	ctx *term.Context

	stateVars []Var
	inputVars []Var
	stateSet  map[string]Var
	inputSet  map[string]Var

	init *term.Term

	functional bool
	nextFuncs  map[string]*term.Term // state var name -> f_s(S,I), functional form only
	transRel   *term.Term            // relational form only

	frozen map[string]bool // state vars s for which next(s) = s holds
}

// New constructs an empty TransitionSystem bound to ctx. functional
// selects whether Trans is later supplied per-variable (SetNext) or
// as a single relational predicate (SetTransRelational); spec §6's
// functional_ts option selects this at the prover boundary.
func New(ctx *term.Context, functional bool) *TransitionSystem {
	return &TransitionSystem{
		ctx:        ctx,
		stateSet:   make(map[string]Var),
		inputSet:   make(map[string]Var),
		functional: functional,
		nextFuncs:  make(map[string]*term.Term),
		frozen:     make(map[string]bool),
	}
}

// Ctx returns the term arena this system's formulas were built in.
func (ts *TransitionSystem) Ctx() *term.Context { return ts.ctx }

// Functional reports whether this system presents trans in functional form.
func (ts *TransitionSystem) Functional() bool { return ts.functional }

// AddStateVar declares a new state variable, returning its primed
// ("next") symbol for use when building a relational trans predicate.
func (ts *TransitionSystem) AddStateVar(name string, s term.Sort) (Var, *term.Term, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if _, ok := ts.stateSet[name]; ok {
		return Var{}, nil, fmt.Errorf("%w: %q", ErrDuplicateVar, name)
	}
	if _, ok := ts.inputSet[name]; ok {
		return Var{}, nil, fmt.Errorf("%w: %q", ErrDuplicateVar, name)
	}

	v := Var{Name: name, Sort: s}
	ts.stateVars = append(ts.stateVars, v)
	ts.stateSet[name] = v

	next := ts.ctx.Symbol(name+"'", s)

	return v, next, nil
}

// AddInputVar declares a new input variable (no primed counterpart).
func (ts *TransitionSystem) AddInputVar(name string, s term.Sort) (Var, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if _, ok := ts.stateSet[name]; ok {
		return Var{}, fmt.Errorf("%w: %q", ErrDuplicateVar, name)
	}
	if _, ok := ts.inputSet[name]; ok {
		return Var{}, fmt.Errorf("%w: %q", ErrDuplicateVar, name)
	}

	v := Var{Name: name, Sort: s}
	ts.inputVars = append(ts.inputVars, v)
	ts.inputSet[name] = v

	return v, nil
}

// StateVars returns the declared state variables in declaration order.
func (ts *TransitionSystem) StateVars() []Var {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	return append([]Var(nil), ts.stateVars...)
}

// InputVars returns the declared input variables in declaration order.
func (ts *TransitionSystem) InputVars() []Var {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	return append([]Var(nil), ts.inputVars...)
}

// IsStateVar satisfies unroll.Vars.
func (ts *TransitionSystem) IsStateVar(name string) bool {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	_, ok := ts.stateSet[name]

	return ok
}

// IsInputVar satisfies unroll.Vars.
func (ts *TransitionSystem) IsInputVar(name string) bool {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	_, ok := ts.inputSet[name]

	return ok
}

// IsNextVar satisfies unroll.Vars: a name of the form "<state-var>'"
// resolves to that state variable's unprimed name.
func (ts *TransitionSystem) IsNextVar(name string) (string, bool) {
	if len(name) < 2 || name[len(name)-1] != '\'' {
		return "", false
	}
	base := name[:len(name)-1]

	ts.mu.RLock()
	defer ts.mu.RUnlock()
	if _, ok := ts.stateSet[base]; ok {
		return base, true
	}

	return "", false
}

// SetInit installs the initial-state predicate. Every symbol in init
// must be a state variable.
func (ts *TransitionSystem) SetInit(p *term.Term) error {
	if !p.Sort.Equal(term.BoolSort) {
		return fmt.Errorf("%w: init is not boolean", ErrSortMismatch)
	}
	for name := range term.Symbols(p) {
		if !ts.IsStateVar(name) {
			return fmt.Errorf("%w: %q", ErrUnknownSymbolInInit, name)
		}
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.init = p

	return nil
}

// Init returns the installed initial-state predicate, or nil if unset.
func (ts *TransitionSystem) Init() *term.Term {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	return ts.init
}

// SetTransRelational installs trans as a single predicate over
// S ∪ next(S) ∪ I. Requires the system was built with functional=false.
func (ts *TransitionSystem) SetTransRelational(p *term.Term) error {
	if ts.functional {
		return fmt.Errorf("%w: system built as functional", ErrNotFunctional)
	}
	if !p.Sort.Equal(term.BoolSort) {
		return fmt.Errorf("%w: trans is not boolean", ErrSortMismatch)
	}
	for name := range term.Symbols(p) {
		if ts.IsStateVar(name) || ts.IsInputVar(name) {
			continue
		}
		if _, ok := ts.IsNextVar(name); ok {
			continue
		}
		return fmt.Errorf("%w: %q", ErrUnknownSymbolInTrans, name)
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.transRel = p

	return nil
}

// SetNext installs the per-variable next-state function f_s(S,I) for
// state variable name, inducing "next(s) = f_s" conjunctively.
// Requires the system was built with functional=true.
func (ts *TransitionSystem) SetNext(name string, f *term.Term) error {
	if !ts.functional {
		return fmt.Errorf("%w: system built as relational", ErrNotFunctional)
	}
	ts.mu.RLock()
	v, ok := ts.stateSet[name]
	ts.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownVar, name)
	}
	if !f.Sort.Equal(v.Sort) {
		return fmt.Errorf("%w: next(%s) sort %s != %s", ErrSortMismatch, name, f.Sort, v.Sort)
	}
	for sym := range term.Symbols(f) {
		if ts.IsStateVar(sym) || ts.IsInputVar(sym) {
			continue
		}
		return fmt.Errorf("%w: %q", ErrUnknownSymbolInTrans, sym)
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.nextFuncs[name] = f

	return nil
}

// Freeze marks state variable name as frozen. In a functional system
// it installs next(name) = name as name's next function, so Trans
// includes that equation (spec §3's frozen-variable invariant); in a
// relational system it records the flag only and trans is unchanged.
// Value abstraction (§4.5) relies on this to keep introduced
// abstraction variables constant across steps.
func (ts *TransitionSystem) Freeze(name string) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	v, ok := ts.stateSet[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownVar, name)
	}
	ts.frozen[name] = true
	if ts.functional {
		ts.nextFuncs[name] = ts.ctx.Symbol(name, v.Sort)
	}

	return nil
}

// IsFrozen reports whether name was marked frozen via Freeze.
func (ts *TransitionSystem) IsFrozen(name string) bool {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	return ts.frozen[name]
}

// Trans returns the single boolean predicate form of trans: the
// installed relational predicate, or for functional systems the
// conjunction over all declared state variables of next(s) = f_s,
// ANDed with next(s) = s for every frozen variable lacking an
// explicit SetNext call.
func (ts *TransitionSystem) Trans() *term.Term {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	if !ts.functional {
		return ts.transRel
	}

	conjuncts := make([]*term.Term, 0, len(ts.stateVars))
	for _, v := range ts.stateVars {
		f, ok := ts.nextFuncs[v.Name]
		if !ok {
			continue // unconstrained: no equation contributed
		}
		next := ts.ctx.Symbol(v.Name+"'", v.Sort)
		conjuncts = append(conjuncts, ts.ctx.Equal(next, f))
	}

	return ts.ctx.AndAll(conjuncts...)
}

// NextFunction returns the next-state function installed for state
// variable name in a functional system.
func (ts *TransitionSystem) NextFunction(name string) (*term.Term, error) {
	if !ts.functional {
		return nil, ErrNotFunctional
	}
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	f, ok := ts.nextFuncs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVar, name)
	}

	return f, nil
}
