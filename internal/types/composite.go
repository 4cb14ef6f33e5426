package types

import (
	"strconv"
	"strings"
)

// PtrType is `*T`. Ptr(T) != BufPtr(T) always — the distinction is
// load-bearing for arithmetic (spec §3.1).
type PtrType struct{ Pointee Type }

func (t *PtrType) Kind() Kind     { return KindPtr }
func (t *PtrType) String() string { return "*" + t.Pointee.String() }

// BufPtrType is `[*]T`, a buffer pointer: unlike PtrType it permits
// pointer+integer arithmetic.
type BufPtrType struct{ Pointee Type }

func (t *BufPtrType) Kind() Kind     { return KindBufPtr }
func (t *BufPtrType) String() string { return "[*]" + t.Pointee.String() }

// ArrayType is `[N; T]`, a fixed-length array.
type ArrayType struct {
	Elem Type
	Len  int64
}

func (t *ArrayType) Kind() Kind { return KindArray }
func (t *ArrayType) String() string {
	return "[" + strconv.FormatInt(t.Len, 10) + "; " + t.Elem.String() + "]"
}

// ArrayOpenType is `[; T]`, an array of T with unknown length — the result
// of Join-ing a literal against a length-known array (spec §4.1).
type ArrayOpenType struct{ Elem Type }

func (t *ArrayOpenType) Kind() Kind     { return KindArrayOpen }
func (t *ArrayOpenType) String() string { return "[; " + t.Elem.String() + "]" }

// TupleType is an ordered product. Tup({T}) == T (spec §3.1 invariant);
// the Interner enforces this at construction so a *TupleType of length 1
// never exists in practice.
type TupleType struct{ Elems []Type }

func (t *TupleType) Kind() Kind { return KindTuple }
func (t *TupleType) String() string {
	if len(t.Elems) == 0 {
		return "()"
	}
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// VariantType is an unordered set of alternatives after normalization:
// flattened, deduplicated, sorted by handle (spec §3.1). Var({T}) == T;
// Var{} is illegal and must never be constructed (enforced by Interner.Var).
type VariantType struct{ Members []Type }

func (t *VariantType) Kind() Kind { return KindVariant }
func (t *VariantType) String() string {
	parts := make([]string, len(t.Members))
	for i, m := range t.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

// Has reports whether m is (pointer-identically) one of the variant's
// members.
func (t *VariantType) Has(m Type) bool {
	for _, member := range t.Members {
		if member == m {
			return true
		}
	}
	return false
}

// FuncType is `(in) -> (out)`.
type FuncType struct {
	In  *TupleType
	Out *TupleType
}

func (t *FuncType) Kind() Kind { return KindFunc }
func (t *FuncType) String() string {
	return t.In.String() + " -> " + t.Out.String()
}

// SliceType is a runtime view over a backing ArrayType.
type SliceType struct{ Elem *ArrayType }

func (t *SliceType) Kind() Kind     { return KindSlice }
func (t *SliceType) String() string { return "[]" + t.Elem.Elem.String() }

// RangeType is the type of `a..b`, an iterable half-open range over End's
// element type.
type RangeType struct{ End Type }

func (t *RangeType) Kind() Kind     { return KindRange }
func (t *RangeType) String() string { return "Range(" + t.End.String() + ")" }

// ScopeType is the type of a user-defined control construct's state value
// (spec §3.1, §4.7 "Scope lowering").
type ScopeType struct{ State Type }

func (t *ScopeType) Kind() Kind     { return KindScope }
func (t *ScopeType) String() string { return "Scope(" + t.State.String() + ")" }
