// Package ic3 (continued): the property-directed reachability engine
// itself. Frames are stored delta-encoded — frames[i] holds only the
// units first placed at index i, and the semantic content of F_i is
// the conjunction of frames[i..top] (spec §4.4) — so each frame has a
// boolean activation label and "activating F_i" means assuming every
// label from i up to the last frame.
package ic3

import (
	"container/heap"
	"context"
	"fmt"

	"github.com/log-when/pono/internal/prover"
	"github.com/log-when/pono/internal/smt"
	"github.com/log-when/pono/internal/term"
	"github.com/log-when/pono/internal/tsys"
)

// Engine drives the state machine of spec §4.4 over a single
// UnitHandler. Not safe for concurrent use.
type Engine struct {
	prop    *tsys.Property
	opts    prover.Options
	handler UnitHandler
	solver  *smt.Context
	ctx     *term.Context
	vars    []tsys.Var

	labelInit   *term.Term
	labelTrans  *term.Term
	frameLabels []*term.Term
	frames      [][]*Unit // frames[0] is unused (frame 0 is init, no learned units)

	initialized bool
	step0Done   bool

	witness    prover.Witness
	hasWitness bool
}

// New constructs an Engine for prop using handler (BitLevelHandler if
// nil), applying opts over prover.DefaultOptions().
func New(prop *tsys.Property, handler UnitHandler, opts ...prover.Option) (*Engine, error) {
	if prop == nil || prop.TS == nil {
		return nil, fmt.Errorf("%w: nil property", prover.ErrInternal)
	}
	o, err := prover.Apply(opts...)
	if err != nil {
		return nil, err
	}
	if handler == nil {
		handler = BitLevelHandler{}
	}

	return &Engine{
		prop:    prop,
		opts:    o,
		handler: handler,
		solver:  smt.NewContext(),
		ctx:     prop.TS.Ctx(),
		vars:    prop.TS.StateVars(),
	}, nil
}

// Initialize builds the init/trans activation labels, asserts
// label_init -> init and label_trans -> trans, and seeds frame 0.
// Idempotent.
func (e *Engine) Initialize() error {
	if e.initialized {
		return nil
	}

	e.labelInit = e.ctx.Symbol("__ic3_label_init", term.BoolSort)
	e.labelTrans = e.ctx.Symbol("__ic3_label_trans", term.BoolSort)
	e.solver.Assert(e.ctx.Implies(e.labelInit, e.prop.TS.Init()))
	e.solver.Assert(e.ctx.Implies(e.labelTrans, e.prop.TS.Trans()))

	e.frameLabels = []*term.Term{e.labelInit}
	e.frames = [][]*Unit{nil}
	e.initialized = true

	return nil
}

// CheckUntil runs step with the topmost frame at each index 1..k,
// so an inconclusive call leaves k+1 frames above frame 0, following
// the initialize -> step_0 -> step -> propagate state machine of spec
// §4.4.
func (e *Engine) CheckUntil(pctx context.Context, k int) (prover.Verdict, error) {
	if !e.initialized {
		if err := e.Initialize(); err != nil {
			return prover.Unknown, err
		}
	}

	if !e.step0Done {
		verdict, err := e.step0()
		if verdict != prover.Unknown || err != nil {
			return verdict, err
		}
		e.step0Done = true
	}

	for len(e.frames)-1 <= k {
		select {
		case <-pctx.Done():
			return prover.Unknown, pctx.Err()
		default:
		}

		verdict, err := e.step()
		if verdict != prover.Unknown || err != nil {
			return verdict, err
		}
	}

	return prover.Unknown, nil
}

// step0 checks init ∧ bad directly; SAT means a one-state
// counterexample, UNSAT pushes frame 1 (spec §4.4).
func (e *Engine) step0() (prover.Verdict, error) {
	bad := e.prop.Bad()

	e.solver.Push()
	e.solver.Assert(bad)
	res, err := e.solver.CheckSatAssuming([]*term.Term{e.labelInit})
	if err != nil {
		e.solver.Pop()
		return prover.Unknown, fmt.Errorf("%w: %v", prover.ErrSolverFailure, err)
	}

	switch res {
	case smt.Sat:
		model, merr := e.readModel()
		e.solver.Pop()
		if merr != nil {
			return prover.Unknown, fmt.Errorf("%w: %v", prover.ErrInternal, merr)
		}
		head := &goalNode{cube: modelCube(e.ctx, e.vars, model), model: model, frame: 0}
		w, werr := e.buildWitness(head)
		if werr != nil {
			return prover.Unknown, fmt.Errorf("%w: %v", prover.ErrInternal, werr)
		}
		e.witness = w
		e.hasWitness = true
		return prover.Unsafe, nil
	case smt.Unknown:
		e.solver.Pop()
		return prover.Unknown, nil
	default: // Unsat
		e.solver.Pop()
		e.pushFrame()
		return prover.Unknown, nil
	}
}

// step drains every bad-intersecting state at the topmost frame via
// block_all, propagates, and pushes a new frame once the topmost
// frame is clear (spec §4.4's `step i`).
func (e *Engine) step() (prover.Verdict, error) {
	bad := e.prop.Bad()

	for {
		top := len(e.frames) - 1
		res, model, err := e.checkIntersects(top, bad)
		if err != nil {
			return prover.Unknown, err
		}
		if res == smt.Unknown {
			return prover.Unknown, nil
		}
		if res != smt.Sat {
			break
		}

		goal := &goalNode{cube: modelCube(e.ctx, e.vars, model), model: model, frame: top}
		unsafeLeaf, err := e.blockAll(goal)
		if err != nil {
			return prover.Unknown, err
		}
		if unsafeLeaf != nil {
			w, werr := e.buildWitness(unsafeLeaf)
			if werr != nil {
				return prover.Unknown, fmt.Errorf("%w: %v", prover.ErrInternal, werr)
			}
			e.witness = w
			e.hasWitness = true
			return prover.Unsafe, nil
		}
	}

	safe, err := e.propagate()
	if err != nil {
		return prover.Unknown, err
	}
	if safe {
		return prover.Safe, nil
	}

	e.pushFrame()
	return prover.Unknown, nil
}

// checkIntersects tests whether F_frame ∧ target is satisfiable,
// returning the model's state-variable assignment when it is.
func (e *Engine) checkIntersects(frame int, target *term.Term) (smt.Result, map[string]smt.Value, error) {
	e.solver.Push()
	defer e.solver.Pop()

	e.solver.Assert(target)
	res, err := e.solver.CheckSatAssuming(e.frameLabels[frame:])
	if err != nil {
		return smt.Unknown, nil, fmt.Errorf("%w: %v", prover.ErrSolverFailure, err)
	}
	if res != smt.Sat {
		return res, nil, nil
	}
	model, err := e.readModel()
	if err != nil {
		return smt.Unknown, nil, fmt.Errorf("%w: %v", prover.ErrInternal, err)
	}

	return res, model, nil
}

// readModel pulls the current-step value of every state and input
// variable out of the solver's last model.
func (e *Engine) readModel() (map[string]smt.Value, error) {
	out := make(map[string]smt.Value, len(e.vars)+len(e.prop.TS.InputVars()))
	for _, v := range e.vars {
		val, err := e.solver.GetValue(e.ctx.Symbol(v.Name, v.Sort))
		if err != nil {
			return nil, err
		}
		out[v.Name] = val
	}
	for _, v := range e.prop.TS.InputVars() {
		val, err := e.solver.GetValue(e.ctx.Symbol(v.Name, v.Sort))
		if err != nil {
			continue // inputs need not be determined by every query
		}
		out[v.Name] = val
	}

	return out, nil
}

// pushFrame appends a new, initially empty frame with a fresh
// activation label.
func (e *Engine) pushFrame() {
	idx := len(e.frameLabels)
	lbl := e.ctx.Symbol(fmt.Sprintf("__ic3_label_frame_%d", idx), term.BoolSort)
	e.frameLabels = append(e.frameLabels, lbl)
	e.frames = append(e.frames, nil)
}

// addUnitToFrame records u in frames[h] and asserts
// label_h -> u permanently.
func (e *Engine) addUnitToFrame(h int, u *Unit) {
	e.frames[h] = append(e.frames[h], u)
	e.solver.Assert(e.ctx.Implies(e.frameLabels[h], u.AsTerm(e.ctx)))
}

// shiftToNext rewrites t's state variables to their primed form,
// leaving input variables (which have no next-state identity) alone.
func shiftToNext(ctx *term.Context, ts *tsys.TransitionSystem, t *term.Term) *term.Term {
	subst := make(map[*term.Term]*term.Term)
	for name, sym := range term.Symbols(t) {
		if ts.IsStateVar(name) {
			subst[sym] = ctx.Symbol(name+"'", sym.Sort)
		}
	}

	return term.Rebuild(ctx, t, subst, nil)
}

// goalNode is a proof goal: a cube c that must be shown unreachable
// at frame, together with the concrete model it was extracted from
// and a forward link to the goal it is a predecessor of (spec §4.4's
// "(c, i, next)"), used to reconstruct a witness once a goal at frame
// 0 is found to already intersect init.
type goalNode struct {
	cube  *Unit
	model map[string]smt.Value
	frame int
	next  *goalNode
}

type goalPQ []*goalNode

func (pq goalPQ) Len() int            { return len(pq) }
func (pq goalPQ) Less(i, j int) bool  { return pq[i].frame < pq[j].frame }
func (pq goalPQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *goalPQ) Push(x interface{}) { *pq = append(*pq, x.(*goalNode)) }
func (pq *goalPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}

// blockAll drains the proof-goal queue smallest-frame-first (spec
// §4.4's proof-goal discipline). It returns the frame-0 goal once one
// is found — by construction (get_predecessor's frame-0 query always
// assumes label_init) any such goal already intersects init, so its
// chain is a genuine witness — or nil once every goal is blocked.
func (e *Engine) blockAll(g *goalNode) (*goalNode, error) {
	pq := &goalPQ{g}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*goalNode)
		if cur.frame == 0 {
			return cur, nil
		}

		model, reduced, err := e.getPredecessor(cur.frame, cur.cube)
		if err != nil {
			return nil, err
		}

		if model != nil {
			predUnit := e.handler.GeneralizePredecessor(e.ctx, e.vars, model)
			heap.Push(pq, &goalNode{cube: predUnit, model: model, frame: cur.frame - 1, next: cur})
			continue
		}

		clause := e.inductiveGeneralization(cur.frame, reduced)
		h := e.findHighestFrame(cur.frame, clause)
		e.addUnitToFrame(h, clause)
	}

	return nil, nil
}

// getPredecessor looks for a predecessor of c one frame below i (spec
// §4.4's get_predecessor): F_{i-1} ∧ T ∧ c' is checked for a state that
// disagrees with c on at least one literal (¬c = ⋁¬ℓ, asserted as a
// single disjunction, not the far stronger ⋀¬ℓ that would force
// disagreement on every literal) so self-loops already inside c are
// excluded without over-constraining the search for a real
// predecessor. Each primed literal of c' carries its own assumption so
// that, on UNSAT, the returned unsat core identifies exactly the
// literals of c the conflict needed — the "reduced c" the proof-goal
// loop generalizes from.
func (e *Engine) getPredecessor(i int, c *Unit) (model map[string]smt.Value, reduced *Unit, err error) {
	lo := i - 1
	if lo < 0 {
		lo = 0
	}

	notC := e.ctx.Not(c.AsTerm(e.ctx))

	primedLits := make([]*term.Term, len(c.Literals))
	for idx, l := range c.Literals {
		primedLits[idx] = shiftToNext(e.ctx, e.prop.TS, l)
	}

	e.solver.Push()
	defer e.solver.Pop()
	e.solver.Assert(notC)

	assumptions := append([]*term.Term{e.labelTrans}, e.frameLabels[lo:]...)
	assumptions = append(assumptions, primedLits...)

	res, cerr := e.solver.CheckSatAssuming(assumptions)
	if cerr != nil {
		return nil, nil, fmt.Errorf("%w: %v", prover.ErrSolverFailure, cerr)
	}

	if res == smt.Sat {
		m, merr := e.readModel()
		if merr != nil {
			return nil, nil, fmt.Errorf("%w: %v", prover.ErrInternal, merr)
		}
		return m, nil, nil
	}
	if res == smt.Unknown {
		return nil, nil, fmt.Errorf("%w: get_predecessor returned unknown", prover.ErrSolverFailure)
	}

	core, cerr := e.solver.UnsatCore()
	if cerr != nil {
		return nil, nil, fmt.Errorf("%w: %v", prover.ErrSolverFailure, cerr)
	}
	inCore := make(map[*term.Term]bool, len(core))
	for _, t := range core {
		inCore[t] = true
	}

	keep := make([]*term.Term, 0, len(c.Literals))
	for idx, l := range c.Literals {
		if inCore[primedLits[idx]] {
			keep = append(keep, l)
		}
	}
	if len(keep) == 0 {
		keep = append([]*term.Term(nil), c.Literals...) // core extraction found nothing sharper; keep c whole
	}

	return nil, &Unit{Kind: Cube, Literals: keep}, nil
}

// inductiveGeneralization greedily drops literals of c while c∖{ℓ}
// remains relatively inductive to F_{i−1} (spec §4.4), returning the
// negation of the surviving cube as the learned clause.
func (e *Engine) inductiveGeneralization(i int, c *Unit) *Unit {
	remaining := append([]*term.Term(nil), c.Literals...)

	for idx := 0; idx < len(remaining); {
		if len(remaining) == 1 {
			break // never drop the last literal
		}
		trial := append(append([]*term.Term(nil), remaining[:idx]...), remaining[idx+1:]...)
		if e.relativelyInductive(i-1, trial) {
			remaining = trial
			continue
		}
		idx++
	}

	return Negate(e.ctx, &Unit{Kind: Cube, Literals: remaining})
}

// relativelyInductive checks F_frame ∧ ¬cube ∧ T ∧ cube' for UNSAT,
// the relative-induction test spec §4.4 uses during generalization.
func (e *Engine) relativelyInductive(frame int, lits []*term.Term) bool {
	if frame < 0 {
		frame = 0
	}
	cube := e.ctx.AndAll(lits...)
	cubePrimed := shiftToNext(e.ctx, e.prop.TS, cube)

	e.solver.Push()
	defer e.solver.Pop()
	e.solver.Assert(e.ctx.Not(cube))
	e.solver.Assert(cubePrimed)

	assumptions := append([]*term.Term{e.labelTrans}, e.frameLabels[frame:]...)
	res, err := e.solver.CheckSatAssuming(assumptions)
	if err != nil {
		return false
	}

	return res == smt.Unsat
}

// findHighestFrame returns the highest h ≥ i such that F_h ∧ T ∧ ¬u'
// is UNSAT (spec §4.4), so u benefits every frame ≤ h once placed at h
// (frames are delta-encoded, so membership at h propagates down to
// every lower-indexed aggregate frame).
func (e *Engine) findHighestFrame(i int, u *Unit) int {
	h := i
	for cand := i + 1; cand < len(e.frames); cand++ {
		if !e.unitHoldsNextFrame(cand, u) {
			break
		}
		h = cand
	}

	return h
}

// unitHoldsNextFrame tests F_h ∧ T ∧ ¬u' for UNSAT.
func (e *Engine) unitHoldsNextFrame(h int, u *Unit) bool {
	negUPrimed := shiftToNext(e.ctx, e.prop.TS, Negate(e.ctx, u).AsTerm(e.ctx))

	e.solver.Push()
	defer e.solver.Pop()
	e.solver.Assert(negUPrimed)

	assumptions := append([]*term.Term{e.labelTrans}, e.frameLabels[h:]...)
	res, err := e.solver.CheckSatAssuming(assumptions)
	if err != nil {
		return false
	}

	return res == smt.Unsat
}

// propagate pushes each frame's units forward one frame wherever they
// remain inductive there, and reports SAFE once the delta of a frame
// strictly between frame 0 and the top is empty after this pass,
// including one that held no units to begin with — a fixed point,
// F_i ≡ F_{i+1} (spec §4.4).
func (e *Engine) propagate() (bool, error) {
	for i := 1; i < len(e.frames)-1; i++ {
		before := len(e.frames[i])
		keep := make([]*Unit, 0, before)
		for _, u := range e.frames[i] {
			if e.unitHoldsNextFrame(i, u) {
				e.addUnitToFrame(i+1, u)
			} else {
				keep = append(keep, u)
			}
		}
		e.frames[i] = keep

		if len(keep) == 0 {
			return true, nil
		}
	}

	return false, nil
}

// buildWitness walks the goal chain from a frame-0 goal (already
// known to intersect init) forward via next, reading off a total
// state/input assignment at each step (spec §6's Witness contract).
func (e *Engine) buildWitness(head *goalNode) (prover.Witness, error) {
	var w prover.Witness
	for g := head; g != nil; g = g.next {
		assign := make(prover.StateAssignment, len(g.model))
		for name, val := range g.model {
			assign[name] = val
		}
		w = append(w, assign)
	}

	return w, nil
}

// Witness returns the counterexample trace produced by the most
// recent Unsafe verdict, if any.
func (e *Engine) Witness() (prover.Witness, bool) {
	return e.witness, e.hasWitness
}
