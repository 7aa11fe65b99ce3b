package term

// Op identifies an operator applied to a Term's children. The set is
// fixed by the back-end contract (spec §6): every op below must be
// constructible via Context.App regardless of which Solver
// implementation owns the Context.
type Op uint8

const (
	// NoOp marks a Term that is not an operator application (a
	// symbolic constant or a value literal).
	NoOp Op = iota

	// Boolean connectives.
	Not
	And
	Or
	Xor
	Implies
	Ite

	// Core theory.
	Equal
	Distinct

	// Bit-vector theory.
	BVComp
	BVNot
	BVAnd
	BVOr
	BVXor
	BVNeg
	BVAdd
	BVSub
	BVMul
	BVUdiv
	BVSdiv
	BVUrem
	BVSrem
	BVSmod
	BVShl
	BVLshr
	BVAshr
	BVUlt
	BVUle
	BVUgt
	BVUge
	BVSlt
	BVSle
	BVSgt
	BVSge
	BVConcat
	BVExtract // params: Hi, Lo (see Term.ExtractHi/ExtractLo)
	BVZeroExtend
	BVSignExtend

	// Linear/non-linear arithmetic (Int).
	Plus
	Minus
	Mult
	Div
	IntDiv
	Mod
	Abs
	Pow
	Lt
	Le
	Gt
	Ge

	// Arrays.
	Select
	Store
)

// nonLinearizing is the set of operators §4.5 forbids substituting a
// frozen abstraction variable into, because doing so would turn a
// linear query into a non-linear one the reference back-end cannot
// decide.
var nonLinearizing = map[Op]bool{
	Mult:   true,
	Div:    true,
	Mod:    true,
	Abs:    true,
	Pow:    true,
	IntDiv: true,
	BVMul:  true,
	BVUdiv: true,
	BVSdiv: true,
	BVUrem: true,
	BVSrem: true,
	BVSmod: true,
}

// IsNonLinearizing reports whether op belongs to the non-linearising
// set referenced by the value-abstraction pass (§4.5).
func IsNonLinearizing(op Op) bool {
	return nonLinearizing[op]
}

func (o Op) String() string {
	names := map[Op]string{
		NoOp: "noop", Not: "not", And: "and", Or: "or", Xor: "xor", Implies: "=>", Ite: "ite",
		Equal: "=", Distinct: "distinct",
		BVComp: "bvcomp", BVNot: "bvnot", BVAnd: "bvand", BVOr: "bvor", BVXor: "bvxor", BVNeg: "bvneg",
		BVAdd: "bvadd", BVSub: "bvsub", BVMul: "bvmul", BVUdiv: "bvudiv", BVSdiv: "bvsdiv",
		BVUrem: "bvurem", BVSrem: "bvsrem", BVSmod: "bvsmod",
		BVShl: "bvshl", BVLshr: "bvlshr", BVAshr: "bvashr",
		BVUlt: "bvult", BVUle: "bvule", BVUgt: "bvugt", BVUge: "bvuge",
		BVSlt: "bvslt", BVSle: "bvsle", BVSgt: "bvsgt", BVSge: "bvsge",
		BVConcat: "concat", BVExtract: "extract", BVZeroExtend: "zero_extend", BVSignExtend: "sign_extend",
		Plus: "+", Minus: "-", Mult: "*", Div: "/", IntDiv: "div", Mod: "mod", Abs: "abs", Pow: "^",
		Lt: "<", Le: "<=", Gt: ">", Ge: ">=",
		Select: "select", Store: "store",
	}
	if n, ok := names[o]; ok {
		return n
	}
	return "?"
}
