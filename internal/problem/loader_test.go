package problem_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/log-when/pono/internal/problem"
)

const functionalYAML = `
functional: true
vars:
  - name: x
    sort: bv4
init: "x = 0bv4"
next:
  x: "x + 1bv4"
prop: "not (x = 15bv4)"
`

const relationalYAML = `
functional: false
vars:
  - name: x
    sort: int
inputs:
  - name: inc
    sort: bool
init: "x = 0"
trans: "ite(inc, x' = x + 1, x' = x)"
prop: "x >= 0"
`

func TestLoadFunctionalProblem(t *testing.T) {
	prop, err := problem.Load(strings.NewReader(functionalYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !prop.TS.Functional() {
		t.Fatalf("expected functional transition system")
	}
	if prop.TS.Init() == nil {
		t.Fatalf("expected init to be set")
	}
	if _, err := prop.TS.NextFunction("x"); err != nil {
		t.Fatalf("NextFunction(x): %v", err)
	}
}

func TestLoadRelationalProblemWithInputAndIte(t *testing.T) {
	prop, err := problem.Load(strings.NewReader(relationalYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if prop.TS.Functional() {
		t.Fatalf("expected relational transition system")
	}
	if prop.TS.Trans() == nil {
		t.Fatalf("expected trans to be set")
	}
	inputs := prop.TS.InputVars()
	if len(inputs) != 1 || inputs[0].Name != "inc" {
		t.Fatalf("unexpected input vars: %+v", inputs)
	}
}

func TestLoadRejectsUnknownField(t *testing.T) {
	const bad = `
functional: true
vars:
  - name: x
    sort: bool
init: "x"
prop: "x"
bogus_field: 1
`
	_, err := problem.Load(strings.NewReader(bad))
	if !errors.Is(err, problem.ErrParse) {
		t.Fatalf("Load error = %v, want ErrParse", err)
	}
}

func TestLoadRejectsUnknownSort(t *testing.T) {
	const bad = `
functional: true
vars:
  - name: x
    sort: float
init: "x"
prop: "x"
`
	_, err := problem.Load(strings.NewReader(bad))
	if !errors.Is(err, problem.ErrParse) {
		t.Fatalf("Load error = %v, want ErrParse", err)
	}
}

func TestLoadRejectsUndeclaredVariable(t *testing.T) {
	const bad = `
functional: true
vars:
  - name: x
    sort: bool
init: "y"
next:
  x: "x"
prop: "x"
`
	_, err := problem.Load(strings.NewReader(bad))
	if err == nil {
		t.Fatalf("expected error for undeclared variable y")
	}
}

func TestLoadRejectsSortMismatch(t *testing.T) {
	const bad = `
functional: true
vars:
  - name: x
    sort: bv4
  - name: y
    sort: int
init: "x = y"
next:
  x: "x"
prop: "true"
`
	_, err := problem.Load(strings.NewReader(bad))
	if err == nil {
		t.Fatalf("expected error for sort mismatch between bv4 and int")
	}
}
