package smt

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/log-when/pono/internal/term"
)

// ErrDomainTooLarge is returned (surfaced as SolverFailure by callers)
// when a query mentions a bit-vector wider than MaxEnumerableWidth:
// the reference backend enumerates domains exhaustively and refuses
// to pretend it can decide a space it would never finish searching.
var ErrDomainTooLarge = errors.New("smt: variable domain too large for the reference backend to enumerate")

// MaxEnumerableWidth bounds the bit-vector width this backend's
// brute-force search will enumerate. Hardware designs with wider
// datapaths need a real solver (spec §1: solver implementations are
// out of scope for the core; this backend is a stand-in for tests).
const MaxEnumerableWidth = 16

// DefaultIntBound bounds the symmetric range a mathematical-integer
// variable is searched over, in the absence of any tighter
// information. Like MaxEnumerableWidth, this is a reference-backend
// scope limitation, not a core-engine one.
const DefaultIntBound = 64

type varSpec struct {
	name string
	sort term.Sort
	step int // parsed trailing "@n" suffix, -1 if none; used for search order
}

// collectVars gathers every distinct symbol reachable from clauses,
// ordered by (step, name) so that earlier time-steps are resolved
// before later ones — trans is usually a deterministic function of
// the previous step, so this ordering lets forward-checking pin each
// variable's value almost immediately instead of enumerating blindly.
func collectVars(clauses []*term.Term) ([]varSpec, error) {
	seen := make(map[string]term.Sort)
	for _, c := range clauses {
		for name, sym := range term.Symbols(c) {
			seen[name] = sym.Sort
		}
	}

	specs := make([]varSpec, 0, len(seen))
	for name, s := range seen {
		if s.Kind == term.BVKind && s.Width > MaxEnumerableWidth {
			return nil, fmt.Errorf("%w: %q has width %d", ErrDomainTooLarge, name, s.Width)
		}
		specs = append(specs, varSpec{name: name, sort: s, step: parseStep(name)})
	}
	sort.Slice(specs, func(i, j int) bool {
		if specs[i].step != specs[j].step {
			return specs[i].step < specs[j].step
		}
		return specs[i].name < specs[j].name
	})

	return specs, nil
}

func parseStep(name string) int {
	idx := strings.LastIndexByte(name, '@')
	if idx < 0 {
		return -1
	}
	n, err := strconv.Atoi(name[idx+1:])
	if err != nil {
		return -1
	}
	return n
}

func domain(s term.Sort) []Value {
	switch s.Kind {
	case term.BoolKind:
		return []Value{boolVal(false), boolVal(true)}
	case term.BVKind:
		n := int64(1) << uint(s.Width)
		out := make([]Value, 0, n)
		for i := int64(0); i < n; i++ {
			out = append(out, bvVal(s.Width, big.NewInt(i)))
		}
		return out
	default: // IntKind
		out := make([]Value, 0, 2*DefaultIntBound+1)
		for i := -DefaultIntBound; i <= DefaultIntBound; i++ {
			out = append(out, intVal(big.NewInt(int64(i))))
		}
		return out
	}
}

// closureHolds reports whether every clause fully decidable under env
// evaluates to true. A clause with a symbol missing from env is
// skipped (not yet decidable), matching the forward-checking
// discipline: we only prune on what we can already prove false.
func closureHolds(clauses []*term.Term, env map[string]Value) bool {
	for _, c := range clauses {
		v, ok := evalTerm(c, env)
		if !ok {
			continue
		}
		if !v.Bool {
			return false
		}
	}
	return true
}

// search performs a deterministic depth-first backtracking CSP search
// for an assignment to vars satisfying every clause, in the spirit of
// the teacher's tsp/bb.go: a dedicated recursive routine over explicit
// state, deterministic branching order, pruning as early as possible.
func search(clauses []*term.Term, vars []varSpec) (map[string]Value, bool) {
	env := make(map[string]Value, len(vars))
	return searchFrom(clauses, vars, 0, env)
}

func searchFrom(clauses []*term.Term, vars []varSpec, idx int, env map[string]Value) (map[string]Value, bool) {
	if idx == len(vars) {
		if closureHolds(clauses, env) {
			result := make(map[string]Value, len(env))
			for k, v := range env {
				result[k] = v
			}
			return result, true
		}
		return nil, false
	}

	v := vars[idx]
	for _, candidate := range domain(v.sort) {
		env[v.name] = candidate
		if closureHolds(clauses, env) {
			if result, ok := searchFrom(clauses, vars, idx+1, env); ok {
				return result, true
			}
		}
		delete(env, v.name)
	}

	return nil, false
}
