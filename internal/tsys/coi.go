package tsys

import "github.com/log-when/pono/internal/term"

// COI computes the cone-of-influence (spec §4.6): the transitive set
// of state variables reachable from seed through trans and,
// recursively, through the defining expressions of those variables.
// It is a breadth-first reachability walk over the variable-dependency
// graph induced by trans, grounded on the teacher's bfs package: a
// visited set plus a work queue, processed to a fixed point.
//
// For a functional system, the defining expression of state variable
// v is its installed next function f_v; for a relational system trans
// does not decompose per variable, so every state variable mentioned
// anywhere in trans is treated as depending on every other one (a
// sound over-approximation of the true per-equation dependency).
func (ts *TransitionSystem) COI(seed *term.Term) map[string]bool {
	visited := make(map[string]bool)
	var queue []string

	enqueue := func(name string) {
		if !visited[name] && ts.IsStateVar(name) {
			visited[name] = true
			queue = append(queue, name)
		}
	}

	for name := range term.Symbols(seed) {
		if unprimed, ok := ts.IsNextVar(name); ok {
			enqueue(unprimed)
			continue
		}
		enqueue(name)
	}

	relationalDeps := ts.relationalStateDeps()

	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]

		if ts.functional {
			f, err := ts.NextFunction(v)
			if err != nil {
				continue
			}
			for name := range term.Symbols(f) {
				enqueue(name)
			}
			continue
		}

		for name := range relationalDeps {
			enqueue(name)
		}
	}

	return visited
}

// relationalStateDeps returns the set of state variable names
// mentioned anywhere in a relational trans predicate, or nil for a
// functional system.
func (ts *TransitionSystem) relationalStateDeps() map[string]bool {
	ts.mu.RLock()
	rel := ts.transRel
	functional := ts.functional
	ts.mu.RUnlock()

	if functional || rel == nil {
		return nil
	}

	out := make(map[string]bool)
	for name := range term.Symbols(rel) {
		if ts.IsStateVar(name) {
			out[name] = true
			continue
		}
		if unprimed, ok := ts.IsNextVar(name); ok {
			out[unprimed] = true
		}
	}

	return out
}
