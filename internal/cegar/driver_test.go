package cegar_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/log-when/pono/internal/cegar"
	"github.com/log-when/pono/internal/kind"
	"github.com/log-when/pono/internal/prover"
	"github.com/log-when/pono/internal/term"
	"github.com/log-when/pono/internal/tsys"
)

// constantCounter builds a system where x is pinned to 3 at init and
// never changes: prop (x != 5) is safe only once the abstraction
// variables standing in for the literals 3 and 5 are refined apart,
// since the unrefined abstraction lets them coincide freely.
func constantCounter(t *testing.T) *tsys.Property {
	t.Helper()
	ctx := term.NewContext()
	ts := tsys.New(ctx, true)

	xv, _, err := ts.AddStateVar("x", term.BVSort(4))
	if err != nil {
		t.Fatalf("AddStateVar: %v", err)
	}
	x := ctx.Symbol(xv.Name, xv.Sort)
	if err := ts.SetInit(ctx.Equal(x, ctx.BVLit(4, big.NewInt(3)))); err != nil {
		t.Fatalf("SetInit: %v", err)
	}
	if err := ts.SetNext("x", x); err != nil {
		t.Fatalf("SetNext: %v", err)
	}

	prop := ctx.Distinct(x, ctx.BVLit(4, big.NewInt(5)))
	p, err := tsys.NewProperty(ts, prop)
	if err != nil {
		t.Fatalf("NewProperty: %v", err)
	}

	return p
}

func TestCEGARRefinesSpuriousTraceToSafe(t *testing.T) {
	p := constantCounter(t)
	d, err := cegar.New(p, func(roundProp *tsys.Property) (prover.Prover, error) {
		return kind.New(roundProp)
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	verdict, err := d.CheckUntil(context.Background(), 1)
	if err != nil {
		t.Fatalf("CheckUntil: %v", err)
	}
	if verdict != prover.Safe {
		t.Fatalf("CheckUntil(1) = %v, want Safe", verdict)
	}
}

func TestCEGARRejectsNilProperty(t *testing.T) {
	if _, err := cegar.New(nil, nil); err == nil {
		t.Fatalf("expected error for nil property")
	}
}
