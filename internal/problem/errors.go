package problem

import "errors"

// ErrParse is returned for a malformed YAML document or one that fails
// schema validation (unknown field, missing required section).
var ErrParse = errors.New("problem: malformed problem document")

// ErrUnknownSort is returned for a sort string that is neither "bool",
// "int", nor "bv<width>".
var ErrUnknownSort = errors.New("problem: unknown sort")

// ErrExpr is returned for a textual expression that fails to lex,
// parse, or type-check against the declared variables.
var ErrExpr = errors.New("problem: invalid expression")
