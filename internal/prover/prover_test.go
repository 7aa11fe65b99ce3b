package prover_test

import (
	"errors"
	"testing"

	"github.com/log-when/pono/internal/prover"
)

func TestVerdictString(t *testing.T) {
	cases := map[prover.Verdict]string{
		prover.Safe:    "SAFE",
		prover.Unsafe:  "UNSAFE",
		prover.Unknown: "UNKNOWN",
	}
	for v, want := range cases {
		if got := v.String(); got != want {
			t.Errorf("Verdict(%d).String() = %q, want %q", v, got, want)
		}
	}
}

func TestDefaultOptions(t *testing.T) {
	o, err := prover.Apply()
	if err != nil {
		t.Fatalf("Apply(): %v", err)
	}
	if o.Engine != prover.EngineKInduction {
		t.Errorf("default Engine = %v, want EngineKInduction", o.Engine)
	}
	if o.Bound != 0 || o.FunctionalTS {
		t.Errorf("unexpected non-zero defaults: %+v", o)
	}
}

func TestWithBoundRejectsNegative(t *testing.T) {
	_, err := prover.Apply(prover.WithBound(-1))
	if !errors.Is(err, prover.ErrOptionViolation) {
		t.Fatalf("Apply(WithBound(-1)) error = %v, want ErrOptionViolation", err)
	}
}

func TestWithEngineRejectsUnknown(t *testing.T) {
	_, err := prover.Apply(prover.WithEngine(prover.Engine("bogus")))
	if !errors.Is(err, prover.ErrOptionViolation) {
		t.Fatalf("Apply(WithEngine(bogus)) error = %v, want ErrOptionViolation", err)
	}
}

func TestWithVerbosityClamps(t *testing.T) {
	o, err := prover.Apply(prover.WithVerbosity(99))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if o.Verbosity != 3 {
		t.Errorf("Verbosity = %d, want clamped to 3", o.Verbosity)
	}
}

func TestWithEngineSelectsIC3(t *testing.T) {
	o, err := prover.Apply(prover.WithEngine(prover.EngineIC3), prover.WithBound(10))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if o.Engine != prover.EngineIC3 || o.Bound != 10 {
		t.Errorf("unexpected options: %+v", o)
	}
}
