// Package types implements the Icarus type lattice: the TypeInterner that
// hash-conses every constructed type (spec §3.1, §4.1) plus the Join/Meet
// decision procedures that drive implicit-cast checking, argument binding,
// and overload dispatch.
package types

import "fmt"

// Kind discriminates the tagged sum of type constructors (spec §3.1).
type Kind int

const (
	KindPrimitive Kind = iota
	KindPtr
	KindBufPtr
	KindArray      // Arr(T, n): known length
	KindArrayOpen  // Arr(T): unknown length
	KindTuple
	KindVariant
	KindFunc
	KindSlice
	KindRange
	KindScope
	KindEnum
	KindFlags
	KindStruct
	KindGenericStruct
	KindGenericFunction
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "Primitive"
	case KindPtr:
		return "Ptr"
	case KindBufPtr:
		return "BufPtr"
	case KindArray:
		return "Array"
	case KindArrayOpen:
		return "ArrayOpen"
	case KindTuple:
		return "Tuple"
	case KindVariant:
		return "Variant"
	case KindFunc:
		return "Func"
	case KindSlice:
		return "Slice"
	case KindRange:
		return "Range"
	case KindScope:
		return "Scope"
	case KindEnum:
		return "Enum"
	case KindFlags:
		return "Flags"
	case KindStruct:
		return "Struct"
	case KindGenericStruct:
		return "GenericStruct"
	case KindGenericFunction:
		return "GenericFunction"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Type is implemented by every value the TypeInterner can produce. Interned
// constructors (Ptr, BufPtr, Arr, Tuple, Variant, Func, Slice, Range, Scope,
// and the primitives) return the same handle for structurally equal
// arguments, so these may be compared with Go's `==` for pointer identity.
// Struct/Enum/Flags/Generic* are identity types: each call to their
// constructor produces a distinct handle, mutated only through the
// completion protocol (internal/types/struct.go).
type Type interface {
	Kind() Kind
	String() string
}

// IsBig reports whether t is passed and returned by hidden pointer rather
// than by value (spec §3.1 "is_big(T)"). Pure function of the handle, so
// stable under repeated calls (Testable Properties, §8).
func IsBig(t Type) bool {
	switch t.Kind() {
	case KindArray, KindArrayOpen, KindStruct, KindGenericStruct, KindVariant, KindTuple:
		return true
	default:
		return false
	}
}

// Inferrable reports whether a declaration with no type annotation may
// legally take its type from t (spec §4.1). False for NullPtr, EmptyArray,
// and any composite whose leaves contain either.
func Inferrable(t Type) bool {
	switch t {
	case NullPtr, EmptyArray:
		return false
	}
	switch v := t.(type) {
	case *PtrType:
		return Inferrable(v.Pointee)
	case *BufPtrType:
		return Inferrable(v.Pointee)
	case *ArrayType:
		return Inferrable(v.Elem)
	case *ArrayOpenType:
		return Inferrable(v.Elem)
	case *TupleType:
		for _, e := range v.Elems {
			if !Inferrable(e) {
				return false
			}
		}
		return true
	case *VariantType:
		for _, e := range v.Members {
			if !Inferrable(e) {
				return false
			}
		}
		return true
	case *SliceType:
		return Inferrable(v.Elem.Elem)
	case *RangeType:
		return Inferrable(v.End)
	}
	return true
}
