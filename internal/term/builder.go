package term

// This file layers convenience constructors over Context.App so
// callers never compute result sorts or op codes by hand. The
// constructors do not check operand sorts: a call with mismatched
// operands builds the term as given, with no panic and no error.

func (c *Context) Not(a *Term) *Term     { return c.App(Not, BoolSort, []*Term{a}, 0, 0, 0) }
func (c *Context) And(a, b *Term) *Term  { return c.App(And, BoolSort, []*Term{a, b}, 0, 0, 0) }
func (c *Context) Or(a, b *Term) *Term   { return c.App(Or, BoolSort, []*Term{a, b}, 0, 0, 0) }
func (c *Context) Xor(a, b *Term) *Term  { return c.App(Xor, BoolSort, []*Term{a, b}, 0, 0, 0) }
func (c *Context) Implies(a, b *Term) *Term {
	return c.App(Implies, BoolSort, []*Term{a, b}, 0, 0, 0)
}

// AndAll folds And over zero or more terms, returning BoolLit(true) for
// an empty slice (the identity for conjunction).
func (c *Context) AndAll(ts ...*Term) *Term {
	if len(ts) == 0 {
		return c.BoolLit(true)
	}
	acc := ts[0]
	for _, t := range ts[1:] {
		acc = c.And(acc, t)
	}

	return acc
}

// OrAll folds Or over zero or more terms, returning BoolLit(false) for
// an empty slice (the identity for disjunction).
func (c *Context) OrAll(ts ...*Term) *Term {
	if len(ts) == 0 {
		return c.BoolLit(false)
	}
	acc := ts[0]
	for _, t := range ts[1:] {
		acc = c.Or(acc, t)
	}

	return acc
}

func (c *Context) Ite(cond, then, els *Term) *Term {
	return c.App(Ite, then.Sort, []*Term{cond, then, els}, 0, 0, 0)
}

func (c *Context) Equal(a, b *Term) *Term {
	return c.App(Equal, BoolSort, []*Term{a, b}, 0, 0, 0)
}

func (c *Context) Distinct(a, b *Term) *Term {
	return c.App(Distinct, BoolSort, []*Term{a, b}, 0, 0, 0)
}

func (c *Context) bvBinary(op Op, a, b *Term) *Term {
	return c.App(op, a.Sort, []*Term{a, b}, 0, 0, 0)
}

func (c *Context) bvCompare(op Op, a, b *Term) *Term {
	return c.App(op, BoolSort, []*Term{a, b}, 0, 0, 0)
}

func (c *Context) BVAdd(a, b *Term) *Term  { return c.bvBinary(BVAdd, a, b) }
func (c *Context) BVSub(a, b *Term) *Term  { return c.bvBinary(BVSub, a, b) }
func (c *Context) BVMul(a, b *Term) *Term  { return c.bvBinary(BVMul, a, b) }
func (c *Context) BVAnd(a, b *Term) *Term  { return c.bvBinary(BVAnd, a, b) }
func (c *Context) BVOr(a, b *Term) *Term   { return c.bvBinary(BVOr, a, b) }
func (c *Context) BVXor(a, b *Term) *Term  { return c.bvBinary(BVXor, a, b) }
func (c *Context) BVShl(a, b *Term) *Term  { return c.bvBinary(BVShl, a, b) }
func (c *Context) BVLshr(a, b *Term) *Term { return c.bvBinary(BVLshr, a, b) }
func (c *Context) BVAshr(a, b *Term) *Term { return c.bvBinary(BVAshr, a, b) }
func (c *Context) BVNeg(a *Term) *Term     { return c.App(BVNeg, a.Sort, []*Term{a}, 0, 0, 0) }
func (c *Context) BVNot(a *Term) *Term     { return c.App(BVNot, a.Sort, []*Term{a}, 0, 0, 0) }

func (c *Context) BVUlt(a, b *Term) *Term { return c.bvCompare(BVUlt, a, b) }
func (c *Context) BVUle(a, b *Term) *Term { return c.bvCompare(BVUle, a, b) }
func (c *Context) BVUgt(a, b *Term) *Term { return c.bvCompare(BVUgt, a, b) }
func (c *Context) BVUge(a, b *Term) *Term { return c.bvCompare(BVUge, a, b) }
func (c *Context) BVSlt(a, b *Term) *Term { return c.bvCompare(BVSlt, a, b) }
func (c *Context) BVSle(a, b *Term) *Term { return c.bvCompare(BVSle, a, b) }

func (c *Context) Plus(a, b *Term) *Term  { return c.App(Plus, IntSort, []*Term{a, b}, 0, 0, 0) }
func (c *Context) Minus(a, b *Term) *Term { return c.App(Minus, IntSort, []*Term{a, b}, 0, 0, 0) }
func (c *Context) Mult(a, b *Term) *Term  { return c.App(Mult, IntSort, []*Term{a, b}, 0, 0, 0) }
func (c *Context) Lt(a, b *Term) *Term    { return c.App(Lt, BoolSort, []*Term{a, b}, 0, 0, 0) }
func (c *Context) Le(a, b *Term) *Term    { return c.App(Le, BoolSort, []*Term{a, b}, 0, 0, 0) }
func (c *Context) Gt(a, b *Term) *Term    { return c.App(Gt, BoolSort, []*Term{a, b}, 0, 0, 0) }
func (c *Context) Ge(a, b *Term) *Term    { return c.App(Ge, BoolSort, []*Term{a, b}, 0, 0, 0) }

func (c *Context) Select(arr, idx *Term) *Term {
	return c.App(Select, *arr.Sort.Elem, []*Term{arr, idx}, 0, 0, 0)
}

func (c *Context) Store(arr, idx, val *Term) *Term {
	return c.App(Store, arr.Sort, []*Term{arr, idx, val}, 0, 0, 0)
}

func (c *Context) BVExtract(a *Term, hi, lo uint32) *Term {
	return c.App(BVExtract, BVSort(hi-lo+1), []*Term{a}, hi, lo, 0)
}

func (c *Context) BVZeroExtend(a *Term, bits uint32) *Term {
	return c.App(BVZeroExtend, BVSort(a.Sort.Width+bits), []*Term{a}, 0, 0, bits)
}

func (c *Context) BVSignExtend(a *Term, bits uint32) *Term {
	return c.App(BVSignExtend, BVSort(a.Sort.Width+bits), []*Term{a}, 0, 0, bits)
}

func (c *Context) BVConcat(a, b *Term) *Term {
	return c.App(BVConcat, BVSort(a.Sort.Width+b.Sort.Width), []*Term{a, b}, 0, 0, 0)
}
