package kind_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/log-when/pono/internal/kind"
	"github.com/log-when/pono/internal/prover"
	"github.com/log-when/pono/internal/term"
	"github.com/log-when/pono/internal/tsys"
)

// evenCounter builds a functional-form system where x starts at 0 and
// increments by 2 each step (mod 16): "x is even" is a genuine
// inductive invariant, not merely a bounded fact.
func evenCounter(t *testing.T) (*tsys.TransitionSystem, *tsys.Property) {
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

	return ts, p
}

// wrappingCounter builds the functional-form system of scenario
// "simple-path essential": x (BV3) increments by 1 and wraps to 0 at
// 7. Without the simple-path constraint, an engine that only checked
// the inductive step could be fooled by the wraparound loop; the base
// step still finds the real counterexample at step 4.
func wrappingCounter(t *testing.T) (*tsys.TransitionSystem, *tsys.Property) {
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

	return ts, p
}

func TestKInductionProvesSafeInvariant(t *testing.T) {
	_, p := evenCounter(t)
	e, err := kind.New(p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	verdict, err := e.CheckUntil(context.Background(), 2)
	if err != nil {
		t.Fatalf("CheckUntil: %v", err)
	}
	if verdict != prover.Safe {
		t.Fatalf("CheckUntil(2) = %v, want Safe", verdict)
	}
}

func TestKInductionResumesAcrossCalls(t *testing.T) {
	_, p := evenCounter(t)
	e, err := kind.New(p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if v, err := e.CheckUntil(context.Background(), 0); err != nil || v == prover.Unsafe {
		t.Fatalf("CheckUntil(0) = %v, %v", v, err)
	}
	v, err := e.CheckUntil(context.Background(), 3)
	if err != nil {
		t.Fatalf("CheckUntil: %v", err)
	}
	if v != prover.Safe {
		t.Fatalf("resumed CheckUntil(3) = %v, want Safe", v)
	}
}

func TestKInductionFindsCounterexample(t *testing.T) {
	_, p := wrappingCounter(t)
	e, err := kind.New(p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	verdict, err := e.CheckUntil(context.Background(), 4)
	if err != nil {
		t.Fatalf("CheckUntil: %v", err)
	}
	if verdict != prover.Unsafe {
		t.Fatalf("CheckUntil(4) = %v, want Unsafe", verdict)
	}

	w, ok := e.Witness()
	if !ok {
		t.Fatalf("Witness() ok = false after Unsafe verdict")
	}
	if len(w) != 5 {
		t.Fatalf("witness length = %d, want 5 (steps 0..4)", len(w))
	}
	last := w[len(w)-1]
	xv, ok := last["x"]
	if !ok {
		t.Fatalf("witness step 4 missing assignment to x")
	}
	if xv.BV.Cmp(big.NewInt(4)) != 0 {
		t.Errorf("witness step 4: x = %v, want 4", xv.BV)
	}
}

func TestKInductionRejectsWrongBound(t *testing.T) {
	_, p := evenCounter(t)
	_, err := kind.New(p, prover.WithBound(-1))
	if err == nil {
		t.Fatalf("expected ErrOptionViolation")
	}
}
