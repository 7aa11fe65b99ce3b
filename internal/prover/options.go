package prover

import (
	"context"
	"fmt"
)

// ErrOptionViolation is returned when an invalid Option is supplied.
var ErrOptionViolation = fmt.Errorf("prover: invalid option supplied")

// Engine names a concrete verification strategy an Options value can
// select (spec §6's engine parameter).
type Engine string

const (
	// EngineKInduction runs base/inductive k-induction (internal/kind).
	EngineKInduction Engine = "k-induction"
	// EngineIC3 runs property-directed reachability (internal/ic3).
	EngineIC3 Engine = "ic3"
	// EngineCEGAR wraps an inner engine with abstraction refinement
	// (internal/cegar).
	EngineCEGAR Engine = "cegar"
)

// Option configures an Options value via functional arguments. An
// invalid Option (e.g. a negative bound) is recorded internally and
// surfaced as ErrOptionViolation when the engine is constructed.
type Option func(*Options)

// Options holds the tunable parameters shared by every engine (spec
// §6): which engine to run, how far to unroll, the source of
// randomness for tie-breaking, how verbose to log, and whether the
// transition system is in functional or relational form.
type Options struct {
	// Ctx records a caller's context. The engines do not read it: they
	// take cancellation from the ctx argument of CheckUntil.
	Ctx context.Context

	// Engine selects the verification strategy.
	Engine Engine

	// Bound records the step bound, 0 by default. The engines do not
	// read it: the k argument of CheckUntil sets how far they unroll.
	Bound int

	// RandomSeed records a seed for tie-breaking; 0 is a valid seed.
	// The engines break ties deterministically and do not read it.
	RandomSeed int64

	// Verbosity is a 0 (silent) .. 3 (trace) logging level. The
	// engines do no logging and do not read it.
	Verbosity int

	// FunctionalTS records whether the caller's transition system uses
	// the functional next-state form rather than the relational trans
	// predicate. The engines do not read it; TransitionSystem.Trans
	// gives them a single predicate in either form.
	FunctionalTS bool

	err error
}

// DefaultOptions returns an Options with sane defaults: k-induction,
// bound 0, seed 0, verbosity 0, and relational form.
func DefaultOptions() Options {
	return Options{
		Ctx:          context.Background(),
		Engine:       EngineKInduction,
		Bound:        0,
		RandomSeed:   0,
		Verbosity:    0,
		FunctionalTS: false,
		err:          nil,
	}
}

// Apply folds opts onto DefaultOptions() and reports the first option
// violation encountered, if any.
func Apply(opts ...Option) (Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return Options{}, o.err
	}
	return o, nil
}

// WithContext sets Options.Ctx; a nil ctx is ignored.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithEngine selects the verification strategy.
func WithEngine(e Engine) Option {
	return func(o *Options) {
		switch e {
		case EngineKInduction, EngineIC3, EngineCEGAR:
			o.Engine = e
		default:
			o.err = fmt.Errorf("%w: unknown engine %q", ErrOptionViolation, e)
		}
	}
}

// WithBound sets Options.Bound.
//
//	b >= 0: stored as given
//	b < 0: invalid option -> ErrOptionViolation
func WithBound(b int) Option {
	return func(o *Options) {
		switch {
		case b < 0:
			o.err = fmt.Errorf("%w: Bound cannot be negative (%d)", ErrOptionViolation, b)
		default:
			o.Bound = b
		}
	}
}

// WithRandomSeed sets Options.RandomSeed.
func WithRandomSeed(seed int64) Option {
	return func(o *Options) {
		o.RandomSeed = seed
	}
}

// WithVerbosity sets the 0..3 logging level; out-of-range values are
// clamped rather than rejected, since they don't affect soundness.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		switch {
		case v < 0:
			o.Verbosity = 0
		case v > 3:
			o.Verbosity = 3
		default:
			o.Verbosity = v
		}
	}
}

// WithFunctionalTS sets Options.FunctionalTS.
func WithFunctionalTS(functional bool) Option {
	return func(o *Options) {
		o.FunctionalTS = functional
	}
}
