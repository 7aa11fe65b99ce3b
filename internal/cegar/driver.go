package cegar

import (
	"context"
	"fmt"

	"github.com/log-when/pono/internal/prover"
	"github.com/log-when/pono/internal/smt"
	"github.com/log-when/pono/internal/term"
	"github.com/log-when/pono/internal/tsys"
	"github.com/log-when/pono/internal/unroll"
)

// InnerFactory builds the engine a Driver drives each refinement round
// (internal/kind.New or internal/ic3.New bound to prop.TS), so the
// driver stays agnostic to which concrete search strategy it wraps.
type InnerFactory func(prop *tsys.Property) (prover.Prover, error)

// Driver is the CEGAR loop of spec §4.5: it reruns InnerFactory's
// engine against an abstract property that gets one step sharper each
// time a counterexample turns out to be spurious.
type Driver struct {
	concrete *tsys.Property
	abs      *Abstraction
	newInner InnerFactory

	lemmas []*term.Term // abstract-arena abs_N = value equalities folded into init each round

	witness    prover.Witness
	hasWitness bool
}

// New abstracts prop (spec §4.5's value abstraction) and returns a
// Driver ready to drive newInner against it.
func New(prop *tsys.Property, newInner InnerFactory) (*Driver, error) {
	if prop == nil || prop.TS == nil {
		return nil, fmt.Errorf("%w: nil property", prover.ErrInternal)
	}
	abs, err := Abstract(prop)
	if err != nil {
		return nil, err
	}

	return &Driver{concrete: prop, abs: abs, newInner: newInner}, nil
}

// Initialize is a no-op: each refinement round builds its own inner
// prover from scratch against the round's abstract property.
func (d *Driver) Initialize() error { return nil }

// CheckUntil runs the refinement loop: call the inner prover, and on
// UNSAFE decide whether the abstract counterexample is real (return
// it) or spurious (extend d.lemmas and retry) (spec §4.5).
func (d *Driver) CheckUntil(pctx context.Context, k int) (prover.Verdict, error) {
	for {
		select {
		case <-pctx.Done():
			return prover.Unknown, pctx.Err()
		default:
		}

		roundProp, err := d.currentAbstractProperty()
		if err != nil {
			return prover.Unknown, fmt.Errorf("%w: %v", prover.ErrInternal, err)
		}

		inner, err := d.newInner(roundProp)
		if err != nil {
			return prover.Unknown, err
		}
		if err := inner.Initialize(); err != nil {
			return prover.Unknown, err
		}

		verdict, err := inner.CheckUntil(pctx, k)
		if err != nil || verdict != prover.Unsafe {
			return verdict, err
		}

		w, ok := inner.Witness()
		if !ok {
			return prover.Unknown, fmt.Errorf("%w: unsafe verdict without a witness", prover.ErrInternal)
		}

		real, newLemmas, err := d.classify(roundProp, w)
		if err != nil {
			return prover.Unknown, err
		}
		if real {
			d.witness = w
			d.hasWitness = true
			return prover.Unsafe, nil
		}
		if len(newLemmas) == 0 {
			// nothing distinguishes this spurious trace from the last;
			// refining again would loop forever without narrowing anything.
			return prover.Unknown, fmt.Errorf("%w: refinement produced no new lemma", prover.ErrInternal)
		}
		d.lemmas = append(d.lemmas, newLemmas...)
	}
}

// Witness returns the concretized counterexample from the most recent
// genuinely-real Unsafe verdict, if any: the inner engine's trace with
// its values replaced by classify's model, in which every abs_N holds
// its concrete value.
func (d *Driver) Witness() (prover.Witness, bool) {
	return d.witness, d.hasWitness
}

// currentAbstractProperty rebuilds a relational snapshot of the
// abstract system with every lemma discovered so far folded into
// init, the system the next refinement round's inner prover runs
// against. Lemmas are plain abs_N = value equalities over frozen
// abstraction variables (spec §4.5): since Abstract froze every
// abs_N (next(abs_N) = abs_N), a value pinned at init holds at every
// step of the trace, so strengthening init alone is enough to rule
// the spurious trace's abstract-variable assignment out everywhere —
// there's no need to also fold the lemma into trans.
func (d *Driver) currentAbstractProperty() (*tsys.Property, error) {
	ctx := d.abs.TS.Ctx()
	ts := tsys.New(ctx, false)

	for _, v := range d.abs.TS.StateVars() {
		if _, _, err := ts.AddStateVar(v.Name, v.Sort); err != nil {
			return nil, err
		}
	}
	for _, v := range d.abs.TS.InputVars() {
		if _, err := ts.AddInputVar(v.Name, v.Sort); err != nil {
			return nil, err
		}
	}

	init := d.abs.TS.Init()
	if len(d.lemmas) > 0 {
		init = ctx.AndAll(append([]*term.Term{init}, d.lemmas...)...)
	}
	if err := ts.SetInit(init); err != nil {
		return nil, err
	}

	if err := ts.SetTransRelational(d.abs.TS.Trans()); err != nil {
		return nil, err
	}

	return tsys.NewProperty(ts, d.abs.Prop.Prop)
}

// classify builds the BMC formula of the abstract trace w's exact
// length and checks, under one assumption label per abstraction
// variable forcing it back to its true concrete value at time 0,
// whether the trace survives (spec §4.5's refinement loop). SAT means
// the trace is realizable even with every abs_var pinned to its real
// value — a genuine counterexample — and the values of that model
// overwrite the ones in w, step by step. UNSAT means the unsat core's
// labels name the subset of value-equalities that jointly rule this
// trace out; the corresponding *un-indexed* abs_N = value equalities
// (over the frozen abstraction variable itself, not its time-0
// unrolling) become the round's new lemmas, since it is those plain
// symbols that a later round's init predicate can actually reference.
func (d *Driver) classify(roundProp *tsys.Property, w prover.Witness) (bool, []*term.Term, error) {
	ctx := roundProp.TS.Ctx()
	u := unroll.New(ctx, roundProp.TS)
	solver := smt.NewContext()

	n := len(w)
	init0, err := u.AtTime(roundProp.TS.Init(), 0)
	if err != nil {
		return false, nil, fmt.Errorf("%w: %v", prover.ErrInternal, err)
	}
	solver.Assert(init0)

	for i := 0; i < n-1; i++ {
		transI, err := u.AtTime(roundProp.TS.Trans(), i)
		if err != nil {
			return false, nil, fmt.Errorf("%w: %v", prover.ErrInternal, err)
		}
		solver.Assert(transI)
	}

	if n > 0 {
		badLast, err := u.AtTime(roundProp.Bad(), n-1)
		if err != nil {
			return false, nil, fmt.Errorf("%w: %v", prover.ErrInternal, err)
		}
		solver.Assert(badLast)
	}

	labels := make([]*term.Term, 0, len(d.abs.Values))
	labelLemma := make(map[*term.Term]*term.Term, len(d.abs.Values))
	for name, val := range d.abs.Values {
		sym0 := u.At(name, val.Sort, 0)
		eq := ctx.Equal(sym0, val)
		lbl := ctx.Symbol("__cegar_lbl_"+name, term.BoolSort)
		solver.Assert(ctx.Implies(lbl, eq))
		labels = append(labels, lbl)
		labelLemma[lbl] = ctx.Equal(ctx.Symbol(name, val.Sort), val)
	}

	res, err := solver.CheckSatAssuming(labels)
	if err != nil {
		return false, nil, fmt.Errorf("%w: %v", prover.ErrSolverFailure, err)
	}

	switch res {
	case smt.Sat:
		for i, step := range w {
			for name, val := range step {
				if v, gerr := solver.GetValue(u.At(name, val.Sort, i)); gerr == nil {
					step[name] = v
				}
			}
		}
		return true, nil, nil
	case smt.Unknown:
		return false, nil, fmt.Errorf("%w: cegar classification returned unknown", prover.ErrSolverFailure)
	default: // Unsat
		core, cerr := solver.UnsatCore()
		if cerr != nil {
			return false, nil, fmt.Errorf("%w: %v", prover.ErrSolverFailure, cerr)
		}
		lemmas := make([]*term.Term, 0, len(core))
		for _, lbl := range core {
			if eq, ok := labelLemma[lbl]; ok {
				lemmas = append(lemmas, eq)
			}
		}
		return false, lemmas, nil
	}
}
