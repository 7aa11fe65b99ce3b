// Package integration exercises the end-to-end scenarios against the
// real engines rather than against any single package's internals,
// the same way the teacher's algorithms/example_test.go builds a
// handful of named fixture graphs (buildSimpleChain, buildMediumDiamond,
// buildWeightedTriangle, ...) and runs each through multiple
// algorithms instead of unit-testing one function in isolation.
package integration_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/log-when/pono/internal/cegar"
	"github.com/log-when/pono/internal/ic3"
	"github.com/log-when/pono/internal/kind"
	"github.com/log-when/pono/internal/prover"
	"github.com/log-when/pono/internal/term"
	"github.com/log-when/pono/internal/tsys"
)

func bv(ctx *term.Context, width uint32, v int64) *term.Term {
	return ctx.BVLit(width, big.NewInt(v))
}

// twoBitCounterSafe builds S1: a 2-bit counter whose property is kept
// trivially true by an "or true" disjunct, so every engine should
// report Safe regardless of whether it reasons about the counter at
// all.
func twoBitCounterSafe(t *testing.T) *tsys.Property {
	t.Helper()
	ctx := term.NewContext()
	ts := tsys.New(ctx, true)

	c, _, err := ts.AddStateVar("c", term.BVSort(2))
	require.NoError(t, err)
	require.NoError(t, ts.SetInit(ctx.Equal(ctx.Symbol("c", c.Sort), bv(ctx, 2, 0))))
	require.NoError(t, ts.SetNext("c", ctx.BVAdd(ctx.Symbol("c", c.Sort), bv(ctx, 2, 1))))

	notThree := ctx.Distinct(ctx.Symbol("c", c.Sort), bv(ctx, 2, 3))
	prop := ctx.Or(notThree, ctx.Equal(ctx.BoolLit(true), ctx.BoolLit(true)))

	p, err := tsys.NewProperty(ts, prop)
	require.NoError(t, err)
	return p
}

// twoBitCounterUnsafe is S2: the same counter without the tautological
// disjunct, violated the moment c wraps to 0b11.
func twoBitCounterUnsafe(t *testing.T) *tsys.Property {
	t.Helper()
	ctx := term.NewContext()
	ts := tsys.New(ctx, true)

	c, _, err := ts.AddStateVar("c", term.BVSort(2))
	require.NoError(t, err)
	require.NoError(t, ts.SetInit(ctx.Equal(ctx.Symbol("c", c.Sort), bv(ctx, 2, 0))))
	require.NoError(t, ts.SetNext("c", ctx.BVAdd(ctx.Symbol("c", c.Sort), bv(ctx, 2, 1))))

	prop := ctx.Distinct(ctx.Symbol("c", c.Sort), bv(ctx, 2, 3))

	p, err := tsys.NewProperty(ts, prop)
	require.NoError(t, err)
	return p
}

// freeLatch is S3: an unconstrained input forces x true on the very
// first step.
func freeLatch(t *testing.T) *tsys.Property {
	t.Helper()
	ctx := term.NewContext()
	ts := tsys.New(ctx, true)

	x, _, err := ts.AddStateVar("x", term.BoolSort)
	require.NoError(t, err)
	_, err = ts.AddInputVar("i", term.BoolSort)
	require.NoError(t, err)
	require.NoError(t, ts.SetInit(ctx.Equal(ctx.Symbol("x", x.Sort), ctx.BoolLit(false))))
	require.NoError(t, ts.SetNext("x", ctx.Symbol("i", term.BoolSort)))

	prop := ctx.Not(ctx.Symbol("x", x.Sort))

	p, err := tsys.NewProperty(ts, prop)
	require.NoError(t, err)
	return p
}

// mutuallyExclusiveLatches is S4: a pair of latches that always flip
// in lockstep out of phase, so a ≠ b is a one-step inductive invariant.
func mutuallyExclusiveLatches(t *testing.T) *tsys.Property {
	t.Helper()
	ctx := term.NewContext()
	ts := tsys.New(ctx, true)

	a, _, err := ts.AddStateVar("a", term.BoolSort)
	require.NoError(t, err)
	b, _, err := ts.AddStateVar("b", term.BoolSort)
	require.NoError(t, err)

	init := ctx.And(ctx.Equal(ctx.Symbol("a", a.Sort), ctx.BoolLit(true)),
		ctx.Equal(ctx.Symbol("b", b.Sort), ctx.BoolLit(false)))
	require.NoError(t, ts.SetInit(init))
	require.NoError(t, ts.SetNext("a", ctx.Not(ctx.Symbol("a", a.Sort))))
	require.NoError(t, ts.SetNext("b", ctx.Not(ctx.Symbol("b", b.Sort))))

	prop := ctx.Distinct(ctx.Symbol("a", a.Sort), ctx.Symbol("b", b.Sort))

	p, err := tsys.NewProperty(ts, prop)
	require.NoError(t, err)
	return p
}

// valueAbstractionInvariant is S5. spec.md states the property as
// "y != 2*x", but the given trans relation (x increments by 1, y by 2,
// both starting at 0) keeps y = 2x an invariant at every reachable
// state, and spec.md's own expected verdict for this scenario is Safe
// across every engine including plain concrete k-induction. Taking
// "y != 2x" literally would make the property false already at init,
// forcing an immediate Unsafe verdict and contradicting that expected
// outcome, so the negation is read here as a transcription slip and
// the property under test is the invariant spec.md's text was
// evidently pointing at: y = 2x (recorded as an interpretation
// decision in DESIGN.md's Open Questions).
func valueAbstractionInvariant(t *testing.T) *tsys.Property {
	t.Helper()
	ctx := term.NewContext()
	ts := tsys.New(ctx, true)

	x, _, err := ts.AddStateVar("x", term.BVSort(8))
	require.NoError(t, err)
	y, _, err := ts.AddStateVar("y", term.BVSort(8))
	require.NoError(t, err)

	init := ctx.And(ctx.Equal(ctx.Symbol("x", x.Sort), bv(ctx, 8, 0)),
		ctx.Equal(ctx.Symbol("y", y.Sort), bv(ctx, 8, 0)))
	require.NoError(t, ts.SetInit(init))
	require.NoError(t, ts.SetNext("x", ctx.BVAdd(ctx.Symbol("x", x.Sort), bv(ctx, 8, 1))))
	require.NoError(t, ts.SetNext("y", ctx.BVAdd(ctx.Symbol("y", y.Sort), bv(ctx, 8, 2))))

	doubledX := ctx.BVAdd(ctx.Symbol("x", x.Sort), ctx.Symbol("x", x.Sort))
	prop := ctx.Equal(ctx.Symbol("y", y.Sort), doubledX)

	p, err := tsys.NewProperty(ts, prop)
	require.NoError(t, err)
	return p
}

// simplePathEssential is S6: x wraps at 7 back to 0 via an explicit
// ite, so without the simple-path constraint an unrolling engine could
// loop around forever instead of finding the cex at step 4.
func simplePathEssential(t *testing.T) *tsys.Property {
	t.Helper()
	ctx := term.NewContext()
	ts := tsys.New(ctx, true)

	x, _, err := ts.AddStateVar("x", term.BVSort(3))
	require.NoError(t, err)
	require.NoError(t, ts.SetInit(ctx.Equal(ctx.Symbol("x", x.Sort), bv(ctx, 3, 0))))

	atMax := ctx.Equal(ctx.Symbol("x", x.Sort), bv(ctx, 3, 7))
	incremented := ctx.BVAdd(ctx.Symbol("x", x.Sort), bv(ctx, 3, 1))
	next := ctx.Ite(atMax, bv(ctx, 3, 0), incremented)
	require.NoError(t, ts.SetNext("x", next))

	prop := ctx.Distinct(ctx.Symbol("x", x.Sort), bv(ctx, 3, 4))

	p, err := tsys.NewProperty(ts, prop)
	require.NoError(t, err)
	return p
}

func checkKInduction(t *testing.T, p *tsys.Property, bound int) (prover.Verdict, prover.Prover) {
	t.Helper()
	eng, err := kind.New(p, prover.WithBound(bound))
	require.NoError(t, err)
	require.NoError(t, eng.Initialize())
	v, err := eng.CheckUntil(context.Background(), bound)
	require.NoError(t, err)
	return v, eng
}

func checkIC3(t *testing.T, p *tsys.Property, handler ic3.UnitHandler, bound int) (prover.Verdict, prover.Prover) {
	t.Helper()
	eng, err := ic3.New(p, handler, prover.WithBound(bound))
	require.NoError(t, err)
	require.NoError(t, eng.Initialize())
	v, err := eng.CheckUntil(context.Background(), bound)
	require.NoError(t, err)
	return v, eng
}

func TestS1TwoBitCounterTautologySafe(t *testing.T) {
	p := twoBitCounterSafe(t)

	v, _ := checkKInduction(t, p, 3)
	require.Equal(t, prover.Safe, v, "k-induction")

	v, _ = checkIC3(t, p, ic3.BitLevelHandler{}, 5)
	require.Equal(t, prover.Safe, v, "ic3")
}

func TestS2TwoBitCounterWrapsUnsafe(t *testing.T) {
	p := twoBitCounterUnsafe(t)

	v, eng := checkKInduction(t, p, 5)
	require.Equal(t, prover.Unsafe, v)

	w, ok := eng.Witness()
	require.True(t, ok, "expected a witness")
	require.Len(t, w, 4, "0b00 -> 0b01 -> 0b10 -> 0b11")
}

func TestS3FreeLatchUnsafeAtBoundOne(t *testing.T) {
	p := freeLatch(t)

	v, eng := checkKInduction(t, p, 1)
	require.Equal(t, prover.Unsafe, v)

	w, ok := eng.Witness()
	require.True(t, ok, "expected a witness")
	require.Len(t, w, 2, "x=false,i=true -> x=true")
}

func TestS4MutuallyExclusiveLatchesSafe(t *testing.T) {
	p := mutuallyExclusiveLatches(t)

	v, _ := checkKInduction(t, p, 1)
	require.Equal(t, prover.Safe, v, "k-induction")

	v, _ = checkIC3(t, p, ic3.BitLevelHandler{}, 5)
	require.Equal(t, prover.Safe, v, "ic3")
}

func TestS5ValueAbstractionNecessarySafe(t *testing.T) {
	p := valueAbstractionInvariant(t)

	v, _ := checkKInduction(t, p, 1)
	require.Equal(t, prover.Safe, v, "concrete k-induction at k=1")

	v, _ = checkIC3(t, p, ic3.BitLevelHandler{}, 5)
	require.Equal(t, prover.Safe, v, "plain bit-level ic3")

	driver, err := cegar.New(p, func(round *tsys.Property) (prover.Prover, error) {
		return ic3.New(round, ic3.BitLevelHandler{}, prover.WithBound(5))
	})
	require.NoError(t, err)
	require.NoError(t, driver.Initialize())
	v, err = driver.CheckUntil(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, prover.Safe, v, "cegar-wrapped ic3")
}

func TestS6SimplePathEssentialUnsafe(t *testing.T) {
	p := simplePathEssential(t)

	v, eng := checkKInduction(t, p, 6)
	require.Equal(t, prover.Unsafe, v)

	w, ok := eng.Witness()
	require.True(t, ok, "expected a witness")
	require.Len(t, w, 5, "steps 0..4, reaching x=4 at step 4")
}
