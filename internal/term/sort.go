// Package term provides the hash-consed expression DAG (Sort, Term,
// operator application) consumed by every higher layer of the checker.
//
// Terms are immutable once built and owned by whichever *Context built
// them; identity equality on a *Term is valid structural equality
// because construction always goes through the owning Context's
// intern table (the same discipline the teacher's core.Graph applies
// to vertex/edge IDs, generalized here to structural term hashes).
package term

import "fmt"

// SortKind tags the value space a Sort describes.
type SortKind uint8

const (
	// BoolKind is the sort of boolean values.
	BoolKind SortKind = iota
	// BVKind is the sort of fixed-width bit-vectors.
	BVKind
	// IntKind is the sort of unbounded mathematical integers.
	IntKind
	// ArrayKind is the sort of arrays from an index sort to an element sort.
	ArrayKind
	// FunctionKind is the sort of uninterpreted functions.
	FunctionKind
)

// Sort identifies a value space. Equality and hash are structural:
// two Sorts describe the same space iff their fields match, as
// compared by Equal. Array and function sorts hold their component
// Sorts through pointers and a slice, so Sort values are compared
// with Equal rather than == (the Args slice makes Sort not comparable
// with == at all).
type Sort struct {
	Kind SortKind

	// Width is meaningful only for BVKind.
	Width uint32

	// Index/Elem are meaningful only for ArrayKind.
	Index *Sort
	Elem  *Sort

	// Args/Result are meaningful only for FunctionKind.
	Args   []Sort
	Result *Sort
}

// BoolSort is the singleton boolean sort.
var BoolSort = Sort{Kind: BoolKind}

// IntSort is the singleton mathematical-integer sort.
var IntSort = Sort{Kind: IntKind}

// BVSort returns the bit-vector sort of the given width.
func BVSort(width uint32) Sort {
	return Sort{Kind: BVKind, Width: width}
}

// ArraySort returns the sort of arrays from idx to elem.
func ArraySort(idx, elem Sort) Sort {
	i, e := idx, elem
	return Sort{Kind: ArrayKind, Index: &i, Elem: &e}
}

// FunctionSort returns the sort of a function from args to result.
func FunctionSort(args []Sort, result Sort) Sort {
	r := result
	return Sort{Kind: FunctionKind, Args: append([]Sort(nil), args...), Result: &r}
}

// Equal reports structural equality between two Sorts.
func (s Sort) Equal(o Sort) bool {
	if s.Kind != o.Kind {
		return false
	}
	switch s.Kind {
	case BVKind:
		return s.Width == o.Width
	case ArrayKind:
		return s.Index.Equal(*o.Index) && s.Elem.Equal(*o.Elem)
	case FunctionKind:
		if len(s.Args) != len(o.Args) || !s.Result.Equal(*o.Result) {
			return false
		}
		for i := range s.Args {
			if !s.Args[i].Equal(o.Args[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// key returns a comparable representation suitable for use as a map key.
func (s Sort) key() string {
	switch s.Kind {
	case BVKind:
		return fmt.Sprintf("bv%d", s.Width)
	case ArrayKind:
		return fmt.Sprintf("arr(%s,%s)", s.Index.key(), s.Elem.key())
	case FunctionKind:
		k := "fn("
		for _, a := range s.Args {
			k += a.key() + ","
		}
		return k + ")->" + s.Result.key()
	case IntKind:
		return "int"
	default:
		return "bool"
	}
}

func (s Sort) String() string {
	switch s.Kind {
	case BoolKind:
		return "Bool"
	case IntKind:
		return "Int"
	case BVKind:
		return fmt.Sprintf("BV(%d)", s.Width)
	case ArrayKind:
		return fmt.Sprintf("Array(%s,%s)", s.Index, s.Elem)
	case FunctionKind:
		return fmt.Sprintf("Function(%v)->%s", s.Args, s.Result)
	default:
		return "?"
	}
}
