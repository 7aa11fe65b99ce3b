package problem

import (
	"math/big"
	"testing"

	"github.com/log-when/pono/internal/term"
)

func TestParseArithmeticAndComparisonPrecedence(t *testing.T) {
	ctx := term.NewContext()
	sorts := map[string]term.Sort{"x": term.IntSort, "y": term.IntSort}
	p := newParser(ctx, sorts)

	got, err := p.parse("x + 1 < y * 2")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := ctx.Lt(
		ctx.Plus(ctx.Symbol("x", term.IntSort), ctx.IntLit(big.NewInt(1))),
		ctx.Mult(ctx.Symbol("y", term.IntSort), ctx.IntLit(big.NewInt(2))),
	)
	if got != want {
		t.Errorf("parse(%q) built a different term than the hand-built equivalent", "x + 1 < y * 2")
	}
}

func TestParseRejectsUnknownVariable(t *testing.T) {
	ctx := term.NewContext()
	p := newParser(ctx, map[string]term.Sort{"x": term.BoolSort})
	if _, err := p.parse("x and z"); err == nil {
		t.Fatalf("expected error resolving undeclared variable z")
	}
}

func TestParseRejectsTrailingInput(t *testing.T) {
	ctx := term.NewContext()
	p := newParser(ctx, map[string]term.Sort{"x": term.BoolSort})
	if _, err := p.parse("x and x )"); err == nil {
		t.Fatalf("expected error for unconsumed trailing ')'")
	}
}

func TestParseBitVectorLiteralsAndOps(t *testing.T) {
	ctx := term.NewContext()
	sorts := map[string]term.Sort{"x": term.BVSort(4)}
	p := newParser(ctx, sorts)

	got, err := p.parse("(x + 1bv4) = 0bv4")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Sort.Kind != term.BoolKind {
		t.Fatalf("expected boolean result, got %s", got.Sort)
	}
}
