// Package problem loads a transition-system problem description from
// YAML into an internal/tsys.TransitionSystem and Property. The core
// checker has no wire or file format of its own (every engine is
// handed a TransitionSystem already built in Go); this loader exists
// so cmd/modelcheck and tests have a textual problem form instead of
// hand-building term ASTs at every call site.
package problem

// VarSpec declares one state or input variable: a name and a sort
// string ("bool", "int", or "bv<width>", e.g. "bv8").
type VarSpec struct {
	Name string `yaml:"name"`
	Sort string `yaml:"sort"`
}

// Spec is the YAML document shape. Functional selects which of Next
// or Trans is used: Functional systems give one next-state expression
// per state variable (Next); relational systems give a single
// predicate over current, next (primed with '), and input variables
// (Trans).
type Spec struct {
	Functional bool              `yaml:"functional"`
	Vars       []VarSpec         `yaml:"vars"`
	Inputs     []VarSpec         `yaml:"inputs,omitempty"`
	Init       string            `yaml:"init"`
	Next       map[string]string `yaml:"next,omitempty"`
	Trans      string            `yaml:"trans,omitempty"`
	Prop       string            `yaml:"prop"`
}
