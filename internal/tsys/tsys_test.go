package tsys_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/log-when/pono/internal/term"
	"github.com/log-when/pono/internal/tsys"
)

// twoBitCounter builds scenario S1/S2's transition system: a BV(2)
// counter c with init c=0, trans c'=c+1.
func twoBitCounter(t *testing.T, functional bool) (*term.Context, *tsys.TransitionSystem, *term.Term) {
	t.Helper()
	ctx := term.NewContext()
	ts := tsys.New(ctx, functional)
	c, cNext, err := ts.AddStateVar("c", term.BVSort(2))
	if err != nil {
		t.Fatalf("AddStateVar: %v", err)
	}
	cSym := ctx.Symbol(c.Name, c.Sort)

	if err := ts.SetInit(ctx.Equal(cSym, ctx.BVLit(2, big.NewInt(0)))); err != nil {
		t.Fatalf("SetInit: %v", err)
	}

	one := ctx.BVLit(2, big.NewInt(1))
	if functional {
		if err := ts.SetNext("c", ctx.BVAdd(cSym, one)); err != nil {
			t.Fatalf("SetNext: %v", err)
		}
	} else {
		if err := ts.SetTransRelational(ctx.Equal(cNext, ctx.BVAdd(cSym, one))); err != nil {
			t.Fatalf("SetTransRelational: %v", err)
		}
	}

	return ctx, ts, cSym
}

func TestTransFunctionalAndRelationalAgree(t *testing.T) {
	_, tsF, _ := twoBitCounter(t, true)
	_, tsR, _ := twoBitCounter(t, false)

	if tsF.Trans() == nil || tsR.Trans() == nil {
		t.Fatalf("Trans() returned nil")
	}
	if tsF.Trans().Op != term.Equal {
		t.Errorf("functional Trans() = %v, want a single Equal conjunct", tsF.Trans())
	}
	if tsF.Trans().String() != tsR.Trans().String() {
		t.Errorf("functional Trans() = %v, relational Trans() = %v, want the same predicate", tsF.Trans(), tsR.Trans())
	}
}

func TestDuplicateVarRejected(t *testing.T) {
	ctx := term.NewContext()
	ts := tsys.New(ctx, true)
	if _, _, err := ts.AddStateVar("x", term.BoolSort); err != nil {
		t.Fatalf("AddStateVar: %v", err)
	}
	if _, _, err := ts.AddStateVar("x", term.BoolSort); !errors.Is(err, tsys.ErrDuplicateVar) {
		t.Fatalf("AddStateVar duplicate: got %v, want ErrDuplicateVar", err)
	}
	if _, err := ts.AddInputVar("x", term.BoolSort); !errors.Is(err, tsys.ErrDuplicateVar) {
		t.Fatalf("AddInputVar shadowing state var: got %v, want ErrDuplicateVar", err)
	}
}

func TestSetInitRejectsForeignSymbol(t *testing.T) {
	ctx := term.NewContext()
	ts := tsys.New(ctx, true)
	if _, _, err := ts.AddStateVar("x", term.BoolSort); err != nil {
		t.Fatalf("AddStateVar: %v", err)
	}
	ghost := ctx.Symbol("ghost", term.BoolSort)
	if err := ts.SetInit(ghost); !errors.Is(err, tsys.ErrUnknownSymbolInInit) {
		t.Fatalf("SetInit(ghost): got %v, want ErrUnknownSymbolInInit", err)
	}
}

func TestFreezeAddsSelfLoopInFunctionalForm(t *testing.T) {
	ctx := term.NewContext()
	ts := tsys.New(ctx, true)
	if _, _, err := ts.AddStateVar("abs_v", term.BVSort(8)); err != nil {
		t.Fatalf("AddStateVar: %v", err)
	}
	if err := ts.Freeze("abs_v"); err != nil {
		t.Fatalf("Freeze: %v", err)
	}
	f, err := ts.NextFunction("abs_v")
	if err != nil {
		t.Fatalf("NextFunction: %v", err)
	}
	if f.Name != "abs_v" {
		t.Errorf("frozen next function = %v, want identity symbol abs_v", f)
	}
}

func TestCOIFunctionalTransitiveClosure(t *testing.T) {
	ctx := term.NewContext()
	ts := tsys.New(ctx, true)
	if _, _, err := ts.AddStateVar("a", term.BVSort(4)); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ts.AddStateVar("b", term.BVSort(4)); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ts.AddStateVar("c", term.BVSort(4)); err != nil {
		t.Fatal(err)
	}
	aSym := ctx.Symbol("a", term.BVSort(4))
	bSym := ctx.Symbol("b", term.BVSort(4))
	// c depends on b, b depends on a, a is self-sustaining.
	_ = ts.SetNext("a", aSym)
	_ = ts.SetNext("b", aSym)
	_ = ts.SetNext("c", bSym)

	cSym := ctx.Symbol("c", term.BVSort(4))
	coi := ts.COI(cSym)
	for _, want := range []string{"a", "b", "c"} {
		if !coi[want] {
			t.Errorf("COI(c) missing %q: %v", want, coi)
		}
	}
}
