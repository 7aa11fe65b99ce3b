package smt

import (
	"fmt"
	"math/big"

	"github.com/log-when/pono/internal/term"
)

// Value is a concrete model value for one Term, as produced by
// GetValue. Exactly one of the fields is meaningful, selected by Sort.Kind.
type Value struct {
	Sort term.Sort
	Bool bool
	BV   *big.Int
	Int  *big.Int
	Arr  map[string]Value // array value: literal index key -> element value
	Dflt *Value           // default element for indices outside Arr
}

// Term rebuilds v as a literal in ctx.
func (v Value) Term(ctx *term.Context) *term.Term {
	switch v.Sort.Kind {
	case term.BoolKind:
		return ctx.BoolLit(v.Bool)
	case term.BVKind:
		return ctx.BVLit(v.Sort.Width, v.BV)
	case term.IntKind:
		return ctx.IntLit(v.Int)
	default:
		// Arrays have no literal syntax in this reference backend;
		// callers needing an array model value use Select directly.
		return nil
	}
}

func (v Value) String() string {
	switch v.Sort.Kind {
	case term.BoolKind:
		return fmt.Sprintf("%v", v.Bool)
	case term.BVKind:
		return fmt.Sprintf("#b%s[%d]", v.BV, v.Sort.Width)
	case term.IntKind:
		return v.Int.String()
	default:
		return "<array>"
	}
}

// Equal reports value equality, used by the evaluator for Equal/Distinct.
func (v Value) Equal(o Value) bool {
	if !v.Sort.Equal(o.Sort) {
		return false
	}
	switch v.Sort.Kind {
	case term.BoolKind:
		return v.Bool == o.Bool
	case term.BVKind:
		return v.BV.Cmp(o.BV) == 0
	case term.IntKind:
		return v.Int.Cmp(o.Int) == 0
	case term.ArrayKind:
		if len(v.Arr) != len(o.Arr) {
			return false
		}
		for k, ev := range v.Arr {
			ov, ok := o.Arr[k]
			if !ok || !ev.Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func boolVal(b bool) Value  { return Value{Sort: term.BoolSort, Bool: b} }
func bvVal(w uint32, n *big.Int) Value {
	mod := new(big.Int).Lsh(big.NewInt(1), uint(w))
	v := new(big.Int).Mod(n, mod)
	return Value{Sort: term.BVSort(w), BV: v}
}
func intVal(n *big.Int) Value { return Value{Sort: term.IntSort, Int: n} }

// signed reinterprets a BV value's magnitude as a two's-complement
// signed integer of the given width.
func signed(w uint32, n *big.Int) *big.Int {
	half := new(big.Int).Lsh(big.NewInt(1), uint(w-1))
	if n.Cmp(half) < 0 {
		return new(big.Int).Set(n)
	}
	mod := new(big.Int).Lsh(big.NewInt(1), uint(w))
	return new(big.Int).Sub(n, mod)
}

// unsign reduces a (possibly negative) signed value back to its
// unsigned magnitude modulo 2^w.
func unsign(w uint32, n *big.Int) *big.Int {
	mod := new(big.Int).Lsh(big.NewInt(1), uint(w))
	v := new(big.Int).Mod(n, mod)
	if v.Sign() < 0 {
		v.Add(v, mod)
	}
	return v
}
