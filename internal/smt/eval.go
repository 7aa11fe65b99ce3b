package smt

import (
	"fmt"
	"math/big"

	"github.com/log-when/pono/internal/term"
)

// evalTerm evaluates t under env (symbol name -> Value), returning ok
// = false if some symbol reachable from t has no entry in env yet
// (used by the backtracking search to detect which clauses are
// decidable from a partial assignment).
func evalTerm(t *term.Term, env map[string]Value) (Value, bool) {
	switch t.Kind {
	case term.SymbolKind:
		v, ok := env[t.Name]
		return v, ok
	case term.LitKind:
		switch t.Sort.Kind {
		case term.BoolKind:
			return boolVal(t.Bool), true
		case term.BVKind:
			return bvVal(t.Sort.Width, t.BV), true
		default:
			return intVal(t.Int), true
		}
	case term.AppKind:
		return evalApp(t, env)
	}
	return Value{}, false
}

func evalApp(t *term.Term, env map[string]Value) (Value, bool) {
	children := make([]Value, len(t.Children))
	for i, c := range t.Children {
		v, ok := evalTerm(c, env)
		if !ok {
			return Value{}, false
		}
		children[i] = v
	}

	switch t.Op {
	case term.Not:
		return boolVal(!children[0].Bool), true
	case term.And:
		return boolVal(children[0].Bool && children[1].Bool), true
	case term.Or:
		return boolVal(children[0].Bool || children[1].Bool), true
	case term.Xor:
		return boolVal(children[0].Bool != children[1].Bool), true
	case term.Implies:
		return boolVal(!children[0].Bool || children[1].Bool), true
	case term.Ite:
		if children[0].Bool {
			return children[1], true
		}
		return children[2], true
	case term.Equal:
		return boolVal(children[0].Equal(children[1])), true
	case term.Distinct:
		return boolVal(!children[0].Equal(children[1])), true

	case term.BVNot:
		return bvBitwise(t.Sort.Width, children[0].BV, nil, func(a, _ bool) bool { return !a }), true
	case term.BVAnd:
		return bvBitwise(t.Sort.Width, children[0].BV, children[1].BV, func(a, b bool) bool { return a && b }), true
	case term.BVOr:
		return bvBitwise(t.Sort.Width, children[0].BV, children[1].BV, func(a, b bool) bool { return a || b }), true
	case term.BVXor:
		return bvBitwise(t.Sort.Width, children[0].BV, children[1].BV, func(a, b bool) bool { return a != b }), true
	case term.BVComp:
		if children[0].BV.Cmp(children[1].BV) == 0 {
			return bvVal(1, big.NewInt(1)), true
		}
		return bvVal(1, big.NewInt(0)), true

	case term.BVNeg:
		return bvVal(t.Sort.Width, new(big.Int).Neg(children[0].BV)), true
	case term.BVAdd:
		return bvVal(t.Sort.Width, new(big.Int).Add(children[0].BV, children[1].BV)), true
	case term.BVSub:
		return bvVal(t.Sort.Width, new(big.Int).Sub(children[0].BV, children[1].BV)), true
	case term.BVMul:
		return bvVal(t.Sort.Width, new(big.Int).Mul(children[0].BV, children[1].BV)), true

	case term.BVUdiv:
		if children[1].BV.Sign() == 0 {
			return bvVal(t.Sort.Width, allOnes(t.Sort.Width)), true
		}
		return bvVal(t.Sort.Width, new(big.Int).Div(children[0].BV, children[1].BV)), true
	case term.BVUrem:
		if children[1].BV.Sign() == 0 {
			return bvVal(t.Sort.Width, children[0].BV), true
		}
		return bvVal(t.Sort.Width, new(big.Int).Mod(children[0].BV, children[1].BV)), true

	case term.BVSdiv, term.BVSrem, term.BVSmod:
		w := t.Sort.Width
		a, b := signed(w, children[0].BV), signed(w, children[1].BV)
		return evalSignedDivLike(t.Op, w, a, b), true

	case term.BVShl:
		shift := uint(children[1].BV.Int64())
		return bvVal(t.Sort.Width, new(big.Int).Lsh(children[0].BV, shift)), true
	case term.BVLshr:
		shift := uint(children[1].BV.Int64())
		return bvVal(t.Sort.Width, new(big.Int).Rsh(children[0].BV, shift)), true
	case term.BVAshr:
		w := t.Sort.Width
		shift := uint(children[1].BV.Int64())
		a := signed(w, children[0].BV)
		return bvVal(w, unsign(w, new(big.Int).Rsh(a, shift))), true

	case term.BVUlt:
		return boolVal(children[0].BV.Cmp(children[1].BV) < 0), true
	case term.BVUle:
		return boolVal(children[0].BV.Cmp(children[1].BV) <= 0), true
	case term.BVUgt:
		return boolVal(children[0].BV.Cmp(children[1].BV) > 0), true
	case term.BVUge:
		return boolVal(children[0].BV.Cmp(children[1].BV) >= 0), true
	case term.BVSlt, term.BVSle, term.BVSgt, term.BVSge:
		w := children[0].Sort.Width
		a, b := signed(w, children[0].BV), signed(w, children[1].BV)
		return boolVal(signedCompare(t.Op, a, b)), true

	case term.BVConcat:
		w1 := children[1].Sort.Width
		v := new(big.Int).Lsh(children[0].BV, uint(w1))
		v.Or(v, children[1].BV)
		return bvVal(t.Sort.Width, v), true
	case term.BVExtract:
		mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(t.ExtractHi-t.ExtractLo+1)), big.NewInt(1))
		v := new(big.Int).Rsh(children[0].BV, uint(t.ExtractLo))
		v.And(v, mask)
		return bvVal(t.Sort.Width, v), true
	case term.BVZeroExtend:
		return bvVal(t.Sort.Width, children[0].BV), true
	case term.BVSignExtend:
		w0 := children[0].Sort.Width
		return bvVal(t.Sort.Width, unsign(t.Sort.Width, signed(w0, children[0].BV))), true

	case term.Plus:
		return intVal(new(big.Int).Add(children[0].Int, children[1].Int)), true
	case term.Minus:
		return intVal(new(big.Int).Sub(children[0].Int, children[1].Int)), true
	case term.Mult:
		return intVal(new(big.Int).Mul(children[0].Int, children[1].Int)), true
	case term.Div, term.IntDiv:
		if children[1].Int.Sign() == 0 {
			return Value{}, false
		}
		return intVal(euclideanDiv(children[0].Int, children[1].Int)), true
	case term.Mod:
		if children[1].Int.Sign() == 0 {
			return Value{}, false
		}
		return intVal(euclideanMod(children[0].Int, children[1].Int)), true
	case term.Abs:
		return intVal(new(big.Int).Abs(children[0].Int)), true
	case term.Pow:
		if children[1].Int.Sign() < 0 {
			return Value{}, false
		}
		return intVal(new(big.Int).Exp(children[0].Int, children[1].Int, nil)), true
	case term.Lt:
		return boolVal(children[0].Int.Cmp(children[1].Int) < 0), true
	case term.Le:
		return boolVal(children[0].Int.Cmp(children[1].Int) <= 0), true
	case term.Gt:
		return boolVal(children[0].Int.Cmp(children[1].Int) > 0), true
	case term.Ge:
		return boolVal(children[0].Int.Cmp(children[1].Int) >= 0), true

	case term.Select:
		key := indexKey(children[1])
		if v, ok := children[0].Arr[key]; ok {
			return v, true
		}
		if children[0].Dflt != nil {
			return *children[0].Dflt, true
		}
		return zeroValue(t.Sort), true
	case term.Store:
		out := make(map[string]Value, len(children[0].Arr)+1)
		for k, v := range children[0].Arr {
			out[k] = v
		}
		out[indexKey(children[1])] = children[2]
		return Value{Sort: children[0].Sort, Arr: out, Dflt: children[0].Dflt}, true
	}

	return Value{}, false
}

func bvBitwise(w uint32, a, b *big.Int, f func(a, b bool) bool) Value {
	out := new(big.Int)
	for i := uint(0); i < uint(w); i++ {
		av := a.Bit(int(i)) == 1
		bv := false
		if b != nil {
			bv = b.Bit(int(i)) == 1
		}
		if f(av, bv) {
			out.SetBit(out, int(i), 1)
		}
	}
	return bvVal(w, out)
}

func allOnes(w uint32) *big.Int {
	return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(w)), big.NewInt(1))
}

func evalSignedDivLike(op term.Op, w uint32, a, b *big.Int) Value {
	if b.Sign() == 0 {
		switch op {
		case term.BVSdiv:
			if a.Sign() >= 0 {
				return bvVal(w, allOnes(w))
			}
			return bvVal(w, big.NewInt(1))
		default:
			return bvVal(w, unsign(w, a))
		}
	}
	switch op {
	case term.BVSdiv:
		q := new(big.Int).Quo(a, b)
		return bvVal(w, unsign(w, q))
	case term.BVSrem:
		r := new(big.Int).Rem(a, b)
		return bvVal(w, unsign(w, r))
	default: // BVSmod: result takes the sign of the divisor
		r := euclideanMod(a, b)
		if r.Sign() != 0 && (r.Sign() < 0) != (b.Sign() < 0) {
			r.Add(r, b)
		}
		return bvVal(w, unsign(w, r))
	}
}

func signedCompare(op term.Op, a, b *big.Int) bool {
	c := a.Cmp(b)
	switch op {
	case term.BVSlt:
		return c < 0
	case term.BVSle:
		return c <= 0
	case term.BVSgt:
		return c > 0
	default:
		return c >= 0
	}
}

func euclideanDiv(a, b *big.Int) *big.Int {
	q, m := new(big.Int), new(big.Int)
	q.DivMod(a, b, m)
	if b.Sign() < 0 && m.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

func euclideanMod(a, b *big.Int) *big.Int {
	m := new(big.Int).Mod(a, new(big.Int).Abs(b))
	return m
}

func indexKey(v Value) string {
	return fmt.Sprintf("%v", v)
}

func zeroValue(s term.Sort) Value {
	switch s.Kind {
	case term.BoolKind:
		return boolVal(false)
	case term.BVKind:
		return bvVal(s.Width, big.NewInt(0))
	case term.IntKind:
		return intVal(big.NewInt(0))
	default:
		return Value{Sort: s, Arr: map[string]Value{}}
	}
}
