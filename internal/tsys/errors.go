package tsys

import "errors"

// Sentinel errors for transition-system construction and queries,
// following the teacher's core package convention of one exported
// sentinel per failure mode rather than ad hoc string errors.
var (
	// ErrDuplicateVar indicates a variable name was declared twice,
	// once as a state variable and once as an input (or vice versa).
	ErrDuplicateVar = errors.New("tsys: variable declared more than once")

	// ErrUnknownSymbolInInit indicates init mentions a symbol that is
	// not a state variable (spec §3 invariant).
	ErrUnknownSymbolInInit = errors.New("tsys: init mentions a symbol outside the state variables")

	// ErrUnknownSymbolInTrans indicates trans mentions a symbol that
	// is not in state ∪ next(state) ∪ input (spec §3 invariant).
	ErrUnknownSymbolInTrans = errors.New("tsys: trans mentions a symbol outside state, next(state), or input")

	// ErrNotFunctional is returned by NextFunction and SetNext when the
	// system was built in relational form, and by SetTransRelational
	// when it was built in functional form.
	ErrNotFunctional = errors.New("tsys: transition system is relational, not functional")

	// ErrSortMismatch indicates init/prop is not boolean or trans
	// relates variables of incompatible sorts.
	ErrSortMismatch = errors.New("tsys: sort mismatch")

	// ErrUnknownVar is returned when a caller references a variable
	// name the transition system never declared.
	ErrUnknownVar = errors.New("tsys: unknown variable")
)
