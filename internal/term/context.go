package term

import (
	"math/big"
	"sync"
)

// Context is the hash-consing arena that owns every Term it
// constructs. One Context belongs to exactly one Solver (see the
// Lifecycles note in spec §3): Terms built by distinct Contexts are
// never comparable for identity and must be moved across a
// translator instead.
//
// The intern table is guarded by a single RWMutex, the same shape the
// teacher's core.Graph uses for its vertex/edge catalogs: readers
// (App on an already-seen key) take the fast RLock path, writers
// (first-ever construction of a key) escalate to the write lock.
type Context struct {
	mu      sync.RWMutex
	symbols map[string]*Term
	apps    map[string]*Term
	lits    map[string]*Term
}

// NewContext allocates an empty term arena.
func NewContext() *Context {
	return &Context{
		symbols: make(map[string]*Term),
		apps:    make(map[string]*Term),
		lits:    make(map[string]*Term),
	}
}

// Symbol returns the interned symbolic constant named name at sort s,
// creating it on first use. Repeated calls with the same (name, s)
// return the identical *Term (invariant exercised directly by the
// unroller determinism property, spec §8 invariant 5).
func (c *Context) Symbol(name string, s Sort) *Term {
	key := s.key() + "#sym#" + name

	c.mu.RLock()
	if t, ok := c.symbols[key]; ok {
		c.mu.RUnlock()
		return t
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.symbols[key]; ok {
		return t
	}
	t := &Term{Kind: SymbolKind, Sort: s, Name: name}
	c.symbols[key] = t

	return t
}

// BoolLit returns the interned boolean literal.
func (c *Context) BoolLit(v bool) *Term {
	key := "bool#lit#"
	if v {
		key += "true"
	} else {
		key += "false"
	}

	return c.internLit(key, func() *Term { return &Term{Kind: LitKind, Sort: BoolSort, Bool: v} })
}

// BVLit returns the interned bit-vector literal of the given width,
// reducing value modulo 2^width.
func (c *Context) BVLit(width uint32, value *big.Int) *Term {
	mod := new(big.Int).Lsh(big.NewInt(1), uint(width))
	v := new(big.Int).Mod(value, mod)
	s := BVSort(width)
	key := s.key() + "#lit#" + v.String()

	return c.internLit(key, func() *Term { return &Term{Kind: LitKind, Sort: s, BV: v} })
}

// IntLit returns the interned mathematical-integer literal.
func (c *Context) IntLit(value *big.Int) *Term {
	v := new(big.Int).Set(value)
	key := "int#lit#" + v.String()

	return c.internLit(key, func() *Term { return &Term{Kind: LitKind, Sort: IntSort, Int: v} })
}

func (c *Context) internLit(key string, build func() *Term) *Term {
	c.mu.RLock()
	if t, ok := c.lits[key]; ok {
		c.mu.RUnlock()
		return t
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.lits[key]; ok {
		return t
	}
	t := build()
	c.lits[key] = t

	return t
}

// App returns the interned operator application of op to children at
// result sort s. Extract/ZeroExtend/SignExtend parameters are threaded
// through hi/lo/ext and ignored for every other op.
func (c *Context) App(op Op, s Sort, children []*Term, hi, lo, ext uint32) *Term {
	kids := append([]*Term(nil), children...)
	key := appKey(s.key(), op, hi, lo, ext, kids)

	c.mu.RLock()
	if t, ok := c.apps[key]; ok {
		c.mu.RUnlock()
		return t
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.apps[key]; ok {
		return t
	}
	t := &Term{Kind: AppKind, Sort: s, Op: op, Children: kids, ExtractHi: hi, ExtractLo: lo, Ext: ext}
	c.apps[key] = t

	return t
}
