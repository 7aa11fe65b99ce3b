package term_test

import (
	"math/big"
	"testing"

	"github.com/log-when/pono/internal/term"
)

// TestSymbolInterning verifies that the same (name, sort) pair always
// yields the identical *Term, the property the unroller's determinism
// invariant (spec §8 invariant 5) ultimately rests on.
func TestSymbolInterning(t *testing.T) {
	ctx := term.NewContext()
	a1 := ctx.Symbol("x", term.BVSort(8))
	a2 := ctx.Symbol("x", term.BVSort(8))
	if a1 != a2 {
		t.Fatalf("Symbol(x) returned distinct terms on repeated calls")
	}

	b := ctx.Symbol("x", term.BoolSort)
	if a1 == b {
		t.Fatalf("Symbol(x) at different sorts must not be interned together")
	}
}

func TestLiteralInterning(t *testing.T) {
	ctx := term.NewContext()
	l1 := ctx.BVLit(4, big.NewInt(3))
	l2 := ctx.BVLit(4, big.NewInt(3))
	if l1 != l2 {
		t.Fatalf("BVLit(3) returned distinct terms on repeated calls")
	}

	// value is reduced modulo 2^width
	l3 := ctx.BVLit(4, big.NewInt(19)) // 19 mod 16 == 3
	if l1 != l3 {
		t.Fatalf("BVLit did not reduce modulo 2^width")
	}
}

func TestAppInterning(t *testing.T) {
	ctx := term.NewContext()
	x := ctx.Symbol("x", term.BoolSort)
	y := ctx.Symbol("y", term.BoolSort)

	a1 := ctx.And(x, y)
	a2 := ctx.And(x, y)
	if a1 != a2 {
		t.Fatalf("And(x,y) returned distinct terms on repeated calls")
	}

	a3 := ctx.And(y, x)
	if a1 == a3 {
		t.Fatalf("And(x,y) and And(y,x) must not be interned together (children order matters)")
	}
}

func TestIsNonLinearizing(t *testing.T) {
	cases := map[term.Op]bool{
		term.BVMul: true,
		term.BVAdd: false,
		term.Mult:  true,
		term.Plus:  false,
	}
	for op, want := range cases {
		if got := term.IsNonLinearizing(op); got != want {
			t.Errorf("IsNonLinearizing(%v) = %v, want %v", op, got, want)
		}
	}
}

func TestSymbolsCollectsReachableVars(t *testing.T) {
	ctx := term.NewContext()
	x := ctx.Symbol("x", term.BVSort(4))
	y := ctx.Symbol("y", term.BVSort(4))
	expr := ctx.BVAdd(x, ctx.BVAdd(y, x)) // x appears twice, shared sub-dag

	syms := term.Symbols(expr)
	if len(syms) != 2 {
		t.Fatalf("Symbols() = %v, want 2 entries", syms)
	}
	if _, ok := syms["x"]; !ok {
		t.Errorf("Symbols() missing x")
	}
	if _, ok := syms["y"]; !ok {
		t.Errorf("Symbols() missing y")
	}
}

func TestRebuildSubstitutes(t *testing.T) {
	src := term.NewContext()
	dst := term.NewContext()

	x := src.Symbol("x", term.BVSort(4))
	one := src.BVLit(4, big.NewInt(1))
	expr := src.BVAdd(x, one)

	xPrime := dst.Symbol("x@0", term.BVSort(4))
	rebuilt := term.Rebuild(dst, expr, map[*term.Term]*term.Term{x: xPrime}, nil)

	if rebuilt.Op != term.BVAdd {
		t.Fatalf("Rebuild produced wrong op: %v", rebuilt.Op)
	}
	if rebuilt.Children[0] != xPrime {
		t.Errorf("Rebuild did not substitute x")
	}
	if rebuilt.Children[1].Sort.Kind != term.BVKind {
		t.Errorf("Rebuild dropped literal sort")
	}
}
