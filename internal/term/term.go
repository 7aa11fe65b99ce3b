package term

import (
	"fmt"
	"math/big"
)

// Kind tags what a Term actually is, independent of its Sort.
type Kind uint8

const (
	// SymbolKind is a named symbolic constant (a state/input variable
	// or a time-indexed copy produced by the unroller).
	SymbolKind Kind = iota
	// LitKind is a value literal.
	LitKind
	// AppKind is an operator application over ordered children.
	AppKind
)

// Term is an immutable, hash-consed expression DAG node. Term
// equality is pointer identity: the owning Context never constructs
// two distinct *Term values for the same (Kind, Sort, Op, children,
// payload) tuple.
type Term struct {
	Kind Kind
	Sort Sort

	// Symbol name, set only for SymbolKind.
	Name string

	// Literal payload, set only for LitKind.
	Bool bool
	BV   *big.Int // two's-complement-agnostic magnitude; width comes from Sort
	Int  *big.Int

	// Operator application, set only for AppKind.
	Op       Op
	Children []*Term

	// ExtractHi/ExtractLo parametrize BVExtract; Ext parametrizes
	// BVZeroExtend/BVSignExtend (number of bits to add).
	ExtractHi uint32
	ExtractLo uint32
	Ext       uint32

	hash uint64
}

// IsSymbol reports whether t is a symbolic constant.
func (t *Term) IsSymbol() bool { return t.Kind == SymbolKind }

// IsLit reports whether t is a value literal.
func (t *Term) IsLit() bool { return t.Kind == LitKind }

// IsApp reports whether t is an operator application.
func (t *Term) IsApp() bool { return t.Kind == AppKind }

func (t *Term) String() string {
	switch t.Kind {
	case SymbolKind:
		return t.Name
	case LitKind:
		switch t.Sort.Kind {
		case BoolKind:
			return fmt.Sprintf("%v", t.Bool)
		case BVKind:
			return fmt.Sprintf("#b%d[%d]", t.BV, t.Sort.Width)
		default:
			return t.Int.String()
		}
	default:
		s := "(" + t.Op.String()
		for _, c := range t.Children {
			s += " " + c.String()
		}
		return s + ")"
	}
}

// key is the structural hash-cons key for an operator application.
// Symbol/literal keys are computed inline in Context methods since
// they need no child identities.
func appKey(sortKey string, op Op, hi, lo, ext uint32, children []*Term) string {
	k := sortKey + "#" + op.String()
	if op == BVExtract {
		k += fmt.Sprintf("[%d:%d]", hi, lo)
	}
	if op == BVZeroExtend || op == BVSignExtend {
		k += fmt.Sprintf("+%d", ext)
	}
	for _, c := range children {
		k += fmt.Sprintf("|%p", c)
	}
	return k
}
