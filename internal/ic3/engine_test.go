package ic3_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/log-when/pono/internal/ic3"
	"github.com/log-when/pono/internal/prover"
	"github.com/log-when/pono/internal/term"
	"github.com/log-when/pono/internal/tsys"
)

// evenCounter builds a functional-form system where x starts at 0 and
// increments by 2 each step (mod 16): "x is even" is a genuine
// inductive invariant.
func evenCounter(t *testing.T) *tsys.Property {
	t.Helper()
	ctx := term.NewContext()
	ts := tsys.New(ctx, true)

	xv, _, err := ts.AddStateVar("x", term.BVSort(4))
	if err != nil {
		t.Fatalf("AddStateVar: %v", err)
	}
	x := ctx.Symbol(xv.Name, xv.Sort)
	if err := ts.SetInit(ctx.Equal(x, ctx.BVLit(4, big.NewInt(0)))); err != nil {
		t.Fatalf("SetInit: %v", err)
	}
	next := ctx.BVAdd(x, ctx.BVLit(4, big.NewInt(2)))
	if err := ts.SetNext("x", next); err != nil {
		t.Fatalf("SetNext: %v", err)
	}

	prop := ctx.Equal(ctx.BVAnd(x, ctx.BVLit(4, big.NewInt(1))), ctx.BVLit(4, big.NewInt(0)))
	p, err := tsys.NewProperty(ts, prop)
	if err != nil {
		t.Fatalf("NewProperty: %v", err)
	}

	return p
}

// wrappingCounter is the same "simple-path essential" system kind's
// tests use: x (BV3) wraps 0..7, and x ≠ 4 is violated at step 4.
func wrappingCounter(t *testing.T) *tsys.Property {
	t.Helper()
	ctx := term.NewContext()
	ts := tsys.New(ctx, true)

	xv, _, err := ts.AddStateVar("x", term.BVSort(3))
	if err != nil {
		t.Fatalf("AddStateVar: %v", err)
	}
	x := ctx.Symbol(xv.Name, xv.Sort)
	if err := ts.SetInit(ctx.Equal(x, ctx.BVLit(3, big.NewInt(0)))); err != nil {
		t.Fatalf("SetInit: %v", err)
	}
	wraps := ctx.Ite(
		ctx.Equal(x, ctx.BVLit(3, big.NewInt(7))),
		ctx.BVLit(3, big.NewInt(0)),
		ctx.BVAdd(x, ctx.BVLit(3, big.NewInt(1))),
	)
	if err := ts.SetNext("x", wraps); err != nil {
		t.Fatalf("SetNext: %v", err)
	}

	prop := ctx.Distinct(x, ctx.BVLit(3, big.NewInt(4)))
	p, err := tsys.NewProperty(ts, prop)
	if err != nil {
		t.Fatalf("NewProperty: %v", err)
	}

	return p
}

func TestIC3ProvesSafeInvariant(t *testing.T) {
	p := evenCounter(t)
	e, err := ic3.New(p, ic3.BitLevelHandler{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	verdict, err := e.CheckUntil(context.Background(), 6)
	if err != nil {
		t.Fatalf("CheckUntil: %v", err)
	}
	if verdict != prover.Safe {
		t.Fatalf("CheckUntil(6) = %v, want Safe", verdict)
	}
}

func TestIC3FindsCounterexample(t *testing.T) {
	p := wrappingCounter(t)
	e, err := ic3.New(p, ic3.BitLevelHandler{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	verdict, err := e.CheckUntil(context.Background(), 6)
	if err != nil {
		t.Fatalf("CheckUntil: %v", err)
	}
	if verdict != prover.Unsafe {
		t.Fatalf("CheckUntil(6) = %v, want Unsafe", verdict)
	}

	w, ok := e.Witness()
	if !ok {
		t.Fatalf("Witness() ok = false after Unsafe verdict")
	}
	if len(w) == 0 {
		t.Fatalf("witness is empty")
	}
	last := w[len(w)-1]
	xv, ok := last["x"]
	if !ok {
		t.Fatalf("witness final step missing assignment to x")
	}
	if xv.BV.Cmp(big.NewInt(4)) != 0 {
		t.Errorf("witness final step: x = %v, want 4", xv.BV)
	}
}

func TestIC3SyntaxGuidedHandlerProvesSafeInvariant(t *testing.T) {
	p := evenCounter(t)
	e, err := ic3.New(p, ic3.SyntaxGuidedHandler{TS: p.TS})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	verdict, err := e.CheckUntil(context.Background(), 6)
	if err != nil {
		t.Fatalf("CheckUntil: %v", err)
	}
	if verdict != prover.Safe {
		t.Fatalf("CheckUntil(6) with syntax-guided handler = %v, want Safe", verdict)
	}
}

func TestIC3RejectsNilProperty(t *testing.T) {
	if _, err := ic3.New(nil, nil); err == nil {
		t.Fatalf("expected error for nil property")
	}
}
