package ic3

import (
	"github.com/log-when/pono/internal/smt"
	"github.com/log-when/pono/internal/term"
	"github.com/log-when/pono/internal/tsys"
)

// SyntaxGuidedHandler builds units from equality/disequality literals
// of the form t = u, t ≠ u, or bare boolean symbols (spec §4.3's
// "Syntax-guided equalities" kind), the shape IC3SA generalization
// consumes.
type SyntaxGuidedHandler struct {
	// TS supplies the cone-of-influence computation GeneralizePredecessor
	// restricts literals by.
	TS *tsys.TransitionSystem
}

func (SyntaxGuidedHandler) Create(children []*term.Term) (*Unit, error) {
	if len(children) == 0 {
		return nil, ErrEmptyUnit
	}
	return &Unit{Kind: Clause, Literals: append([]*term.Term(nil), children...)}, nil
}

func (h SyntaxGuidedHandler) CreateNegated(children []*term.Term) (*Unit, error) {
	u, err := h.Create(children)
	if err != nil {
		return nil, err
	}
	return &Unit{Kind: Cube, Literals: u.Literals}, nil
}

func (SyntaxGuidedHandler) CheckValid(u *Unit) bool {
	return u != nil && len(u.Literals) > 0
}

// GeneralizePredecessor restricts the model-derived cube to the
// literals whose state variables lie in the structural cone-of-
// influence of target (spec §4.4 restriction (a)). The model-
// equivalence-class complement the full IC3SA scheme adds on top
// (pairwise equalities/disequalities within subterm equivalence
// classes, spec §4.4 (b)-(c)) is not implemented: it requires a
// term-equivalence index this reference engine does not maintain, and
// is gated out rather than silently approximated (see DESIGN.md).
func (h SyntaxGuidedHandler) GeneralizePredecessor(ctx *term.Context, vars []tsys.Var, model map[string]smt.Value) *Unit {
	full := modelCube(ctx, vars, model)
	if h.TS == nil {
		return full
	}

	seed := full.AsTerm(ctx)
	influence := h.TS.COI(seed)

	restricted := make([]*term.Term, 0, len(full.Literals))
	for _, lit := range full.Literals {
		name := ""
		if len(lit.Children) > 0 && lit.Children[0].Kind == term.SymbolKind {
			name = lit.Children[0].Name
		}
		if name == "" || influence[name] {
			restricted = append(restricted, lit)
		}
	}
	if len(restricted) == 0 {
		return full
	}

	return &Unit{Kind: Cube, Literals: restricted}
}
