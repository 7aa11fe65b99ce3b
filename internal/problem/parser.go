package problem

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/log-when/pono/internal/term"
)

// parser builds term.Term values from the tokens of one expression,
// precedence-climbing over the fixed operator table below. sorts maps
// every declared variable's base name (unprimed) to its Sort, used to
// resolve identifiers and to pick the Int-vs-BV overload of a
// polymorphic operator from its already-parsed operand.
type parser struct {
	ctx   *term.Context
	sorts map[string]term.Sort
	toks  []token
	pos   int
}

func newParser(ctx *term.Context, sorts map[string]term.Sort) *parser {
	return &parser{ctx: ctx, sorts: sorts}
}

// parse parses src as a single expression and returns its term.
func (p *parser) parse(src string) (*term.Term, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p.toks = toks
	p.pos = 0

	t, err := p.parseImplies()
	if err != nil {
		return nil, err
	}
	if p.cur().kind != tokEOF {
		return nil, fmt.Errorf("%w: trailing input at position %d in %q", ErrExpr, p.cur().pos, src)
	}
	return t, nil
}

func (p *parser) cur() token { return p.toks[p.pos] }
func (p *parser) advance()   { p.pos++ }

func (p *parser) curIsIdent(kw string) bool {
	return p.cur().kind == tokIdent && isKeyword(p.cur().text, kw)
}

// parseImplies: right-associative "implies".
func (p *parser) parseImplies() (*term.Term, error) {
	lhs, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.curIsIdent("implies") {
		p.advance()
		rhs, err := p.parseImplies()
		if err != nil {
			return nil, err
		}
		if err := requireBool(lhs, rhs); err != nil {
			return nil, err
		}
		return p.ctx.Implies(lhs, rhs), nil
	}
	return lhs, nil
}

func (p *parser) parseOr() (*term.Term, error) {
	lhs, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.curIsIdent("or") {
		p.advance()
		rhs, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		lhs, err = dispatchBoolOrBV(p.ctx, lhs, rhs, p.ctx.Or, term.BVOr)
		if err != nil {
			return nil, err
		}
	}
	return lhs, nil
}

func (p *parser) parseAnd() (*term.Term, error) {
	lhs, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.curIsIdent("and") {
		p.advance()
		rhs, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		lhs, err = dispatchBoolOrBV(p.ctx, lhs, rhs, p.ctx.And, term.BVAnd)
		if err != nil {
			return nil, err
		}
	}
	return lhs, nil
}

func (p *parser) parseNot() (*term.Term, error) {
	if p.curIsIdent("not") {
		p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		switch operand.Sort.Kind {
		case term.BoolKind:
			return p.ctx.Not(operand), nil
		case term.BVKind:
			return p.ctx.BVNot(operand), nil
		default:
			return nil, fmt.Errorf("%w: 'not' requires bool or bit-vector, got %s", ErrExpr, operand.Sort)
		}
	}
	return p.parseEquality()
}

func (p *parser) parseEquality() (*term.Term, error) {
	lhs, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	switch p.cur().kind {
	case tokEq:
		p.advance()
		rhs, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		if !lhs.Sort.Equal(rhs.Sort) {
			return nil, fmt.Errorf("%w: sort mismatch in '=': %s vs %s", ErrExpr, lhs.Sort, rhs.Sort)
		}
		return p.ctx.Equal(lhs, rhs), nil
	case tokNeq:
		p.advance()
		rhs, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		if !lhs.Sort.Equal(rhs.Sort) {
			return nil, fmt.Errorf("%w: sort mismatch in '!=': %s vs %s", ErrExpr, lhs.Sort, rhs.Sort)
		}
		return p.ctx.Distinct(lhs, rhs), nil
	default:
		return lhs, nil
	}
}

func (p *parser) parseComparison() (*term.Term, error) {
	lhs, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	var op term.Op
	switch p.cur().kind {
	case tokLt:
		op = term.Lt
	case tokLe:
		op = term.Le
	case tokGt:
		op = term.Gt
	case tokGe:
		op = term.Ge
	default:
		return lhs, nil
	}
	p.advance()
	rhs, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	return dispatchCompare(p.ctx, op, lhs, rhs)
}

func (p *parser) parseAdditive() (*term.Term, error) {
	lhs, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().kind {
		case tokPlus:
			p.advance()
			rhs, err := p.parseMultiplicative()
			if err != nil {
				return nil, err
			}
			lhs, err = dispatchArith(p.ctx, term.Plus, lhs, rhs)
			if err != nil {
				return nil, err
			}
		case tokMinus:
			p.advance()
			rhs, err := p.parseMultiplicative()
			if err != nil {
				return nil, err
			}
			lhs, err = dispatchArith(p.ctx, term.Minus, lhs, rhs)
			if err != nil {
				return nil, err
			}
		default:
			return lhs, nil
		}
	}
}

func (p *parser) parseMultiplicative() (*term.Term, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur().kind == tokStar {
		p.advance()
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lhs, err = dispatchArith(p.ctx, term.Mult, lhs, rhs)
		if err != nil {
			return nil, err
		}
	}
	return lhs, nil
}

func (p *parser) parseUnary() (*term.Term, error) {
	if p.cur().kind == tokMinus {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		switch operand.Sort.Kind {
		case term.IntKind:
			return p.ctx.Minus(p.ctx.IntLit(big.NewInt(0)), operand), nil
		case term.BVKind:
			return p.ctx.BVNeg(operand), nil
		default:
			return nil, fmt.Errorf("%w: unary '-' requires int or bit-vector, got %s", ErrExpr, operand.Sort)
		}
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (*term.Term, error) {
	tok := p.cur()
	switch tok.kind {
	case tokLParen:
		p.advance()
		t, err := p.parseImplies()
		if err != nil {
			return nil, err
		}
		if p.cur().kind != tokRParen {
			return nil, fmt.Errorf("%w: expected ')' at position %d", ErrExpr, p.cur().pos)
		}
		p.advance()
		return t, nil
	case tokNumber:
		p.advance()
		return parseNumberLiteral(p.ctx, tok.text)
	case tokIdent:
		return p.parseIdentOrCall(tok)
	default:
		return nil, fmt.Errorf("%w: unexpected token at position %d", ErrExpr, tok.pos)
	}
}

func (p *parser) parseIdentOrCall(tok token) (*term.Term, error) {
	switch {
	case isKeyword(tok.text, "true"):
		p.advance()
		return p.ctx.BoolLit(true), nil
	case isKeyword(tok.text, "false"):
		p.advance()
		return p.ctx.BoolLit(false), nil
	case isKeyword(tok.text, "ite"):
		p.advance()
		return p.parseIte()
	default:
		p.advance()
		return p.symbolFor(tok.text, tok.pos)
	}
}

func (p *parser) parseIte() (*term.Term, error) {
	if p.cur().kind != tokLParen {
		return nil, fmt.Errorf("%w: expected '(' after 'ite'", ErrExpr)
	}
	p.advance()
	cond, err := p.parseImplies()
	if err != nil {
		return nil, err
	}
	if cond.Sort.Kind != term.BoolKind {
		return nil, fmt.Errorf("%w: ite condition must be bool, got %s", ErrExpr, cond.Sort)
	}
	if p.cur().kind != tokComma {
		return nil, fmt.Errorf("%w: expected ',' in ite", ErrExpr)
	}
	p.advance()
	then, err := p.parseImplies()
	if err != nil {
		return nil, err
	}
	if p.cur().kind != tokComma {
		return nil, fmt.Errorf("%w: expected ',' in ite", ErrExpr)
	}
	p.advance()
	els, err := p.parseImplies()
	if err != nil {
		return nil, err
	}
	if p.cur().kind != tokRParen {
		return nil, fmt.Errorf("%w: expected ')' closing ite", ErrExpr)
	}
	p.advance()
	if !then.Sort.Equal(els.Sort) {
		return nil, fmt.Errorf("%w: ite branches have different sorts: %s vs %s", ErrExpr, then.Sort, els.Sort)
	}
	return p.ctx.Ite(cond, then, els), nil
}

// symbolFor resolves an identifier (possibly trailing ') to a symbol
// of its declared sort.
func (p *parser) symbolFor(name string, pos int) (*term.Term, error) {
	base := name
	primed := strings.HasSuffix(name, "'")
	if primed {
		base = name[:len(name)-1]
	}
	sort, ok := p.sorts[base]
	if !ok {
		return nil, fmt.Errorf("%w: undeclared variable %q at position %d", ErrExpr, base, pos)
	}
	if primed {
		return p.ctx.Symbol(base+"'", sort), nil
	}
	return p.ctx.Symbol(base, sort), nil
}

// parseNumberLiteral turns a lexed number token ("5" or "5bv4") into
// an Int or bit-vector literal.
func parseNumberLiteral(ctx *term.Context, text string) (*term.Term, error) {
	idx := strings.Index(text, "bv")
	if idx < 0 {
		n, ok := new(big.Int).SetString(text, 10)
		if !ok {
			return nil, fmt.Errorf("%w: malformed integer literal %q", ErrExpr, text)
		}
		return ctx.IntLit(n), nil
	}
	valueText, widthText := text[:idx], text[idx+2:]
	n, ok := new(big.Int).SetString(valueText, 10)
	if !ok {
		return nil, fmt.Errorf("%w: malformed bit-vector literal %q", ErrExpr, text)
	}
	width, err := strconv.ParseUint(widthText, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed bit-vector width in %q: %v", ErrExpr, text, err)
	}
	return ctx.BVLit(uint32(width), n), nil
}

func requireBool(ts ...*term.Term) error {
	for _, t := range ts {
		if t.Sort.Kind != term.BoolKind {
			return fmt.Errorf("%w: expected bool, got %s", ErrExpr, t.Sort)
		}
	}
	return nil
}

// dispatchBoolOrBV picks the boolean or bit-vector form of a
// connective by the operands' shared sort.
func dispatchBoolOrBV(ctx *term.Context, lhs, rhs *term.Term, boolOp func(a, b *term.Term) *term.Term, bvOp term.Op) (*term.Term, error) {
	if !lhs.Sort.Equal(rhs.Sort) {
		return nil, fmt.Errorf("%w: sort mismatch: %s vs %s", ErrExpr, lhs.Sort, rhs.Sort)
	}
	switch lhs.Sort.Kind {
	case term.BoolKind:
		return boolOp(lhs, rhs), nil
	case term.BVKind:
		return ctx.App(bvOp, lhs.Sort, []*term.Term{lhs, rhs}, 0, 0, 0), nil
	default:
		return nil, fmt.Errorf("%w: expected bool or bit-vector, got %s", ErrExpr, lhs.Sort)
	}
}

// dispatchArith picks the Int or bit-vector overload of +, -, * by the
// operands' shared sort.
func dispatchArith(ctx *term.Context, op term.Op, lhs, rhs *term.Term) (*term.Term, error) {
	if !lhs.Sort.Equal(rhs.Sort) {
		return nil, fmt.Errorf("%w: sort mismatch: %s vs %s", ErrExpr, lhs.Sort, rhs.Sort)
	}
	switch lhs.Sort.Kind {
	case term.IntKind:
		switch op {
		case term.Plus:
			return ctx.Plus(lhs, rhs), nil
		case term.Minus:
			return ctx.Minus(lhs, rhs), nil
		default:
			return ctx.Mult(lhs, rhs), nil
		}
	case term.BVKind:
		bvOp := map[term.Op]term.Op{term.Plus: term.BVAdd, term.Minus: term.BVSub, term.Mult: term.BVMul}[op]
		return ctx.App(bvOp, lhs.Sort, []*term.Term{lhs, rhs}, 0, 0, 0), nil
	default:
		return nil, fmt.Errorf("%w: expected int or bit-vector, got %s", ErrExpr, lhs.Sort)
	}
}

// dispatchCompare picks the Int or unsigned bit-vector overload of
// <, <=, >, >= by the operands' shared sort.
func dispatchCompare(ctx *term.Context, op term.Op, lhs, rhs *term.Term) (*term.Term, error) {
	if !lhs.Sort.Equal(rhs.Sort) {
		return nil, fmt.Errorf("%w: sort mismatch: %s vs %s", ErrExpr, lhs.Sort, rhs.Sort)
	}
	switch lhs.Sort.Kind {
	case term.IntKind:
		switch op {
		case term.Lt:
			return ctx.Lt(lhs, rhs), nil
		case term.Le:
			return ctx.Le(lhs, rhs), nil
		case term.Gt:
			return ctx.Gt(lhs, rhs), nil
		default:
			return ctx.Ge(lhs, rhs), nil
		}
	case term.BVKind:
		bvOp := map[term.Op]term.Op{term.Lt: term.BVUlt, term.Le: term.BVUle, term.Gt: term.BVUgt, term.Ge: term.BVUge}[op]
		return ctx.App(bvOp, term.BoolSort, []*term.Term{lhs, rhs}, 0, 0, 0), nil
	default:
		return nil, fmt.Errorf("%w: expected int or bit-vector, got %s", ErrExpr, lhs.Sort)
	}
}
