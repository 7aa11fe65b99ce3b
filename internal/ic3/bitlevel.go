package ic3

import (
	"github.com/log-when/pono/internal/smt"
	"github.com/log-when/pono/internal/term"
	"github.com/log-when/pono/internal/tsys"
)

// BitLevelHandler treats every child as an opaque boolean literal: a
// Unit is exactly the disjunction (or, negated, conjunction) of the
// literals it was built from, with no restriction on their shape
// (spec §4.3's "Boolean / bit-level" kind).
type BitLevelHandler struct{}

func (BitLevelHandler) Create(children []*term.Term) (*Unit, error) {
	if len(children) == 0 {
		return nil, ErrEmptyUnit
	}
	return &Unit{Kind: Clause, Literals: append([]*term.Term(nil), children...)}, nil
}

func (h BitLevelHandler) CreateNegated(children []*term.Term) (*Unit, error) {
	u, err := h.Create(children)
	if err != nil {
		return nil, err
	}
	return &Unit{Kind: Cube, Literals: u.Literals}, nil
}

func (BitLevelHandler) CheckValid(u *Unit) bool {
	return u != nil && len(u.Literals) > 0
}

// GeneralizePredecessor returns the model-derived cube unchanged
// (spec §4.4: "Bit-level: return the model-derived cube unchanged").
func (BitLevelHandler) GeneralizePredecessor(ctx *term.Context, vars []tsys.Var, model map[string]smt.Value) *Unit {
	return modelCube(ctx, vars, model)
}

// modelCube builds the conjunction ⋀ (s = model[s]) over vars, the
// shared "read every state variable's value straight out of the
// model" cube extraction every handler variant starts from.
func modelCube(ctx *term.Context, vars []tsys.Var, model map[string]smt.Value) *Unit {
	lits := make([]*term.Term, 0, len(vars))
	for _, v := range vars {
		val, ok := model[v.Name]
		if !ok {
			continue
		}
		lit := val.Term(ctx)
		if lit == nil {
			continue
		}
		sym := ctx.Symbol(v.Name, v.Sort)
		lits = append(lits, ctx.Equal(sym, lit))
	}
	return &Unit{Kind: Cube, Literals: lits}
}
