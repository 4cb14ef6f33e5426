package types

// PrimitiveKind enumerates the ~15 primitive leaves (spec §3.1).
type PrimitiveKind int

const (
	PrimBool PrimitiveKind = iota
	PrimChar
	PrimI8
	PrimI16
	PrimI32
	PrimI64
	PrimU8
	PrimU16
	PrimU32
	PrimU64
	PrimF32
	PrimF64
	PrimType   // the type of a type-valued expression
	PrimModule // the type of an imported module handle
	PrimNullPtr
	PrimEmptyArray
	PrimGeneric // placeholder type for an as-yet-unresolved generic parameter
)

var primitiveNames = map[PrimitiveKind]string{
	PrimBool:       "Bool",
	PrimChar:       "Char",
	PrimI8:         "I8",
	PrimI16:        "I16",
	PrimI32:        "I32",
	PrimI64:        "I64",
	PrimU8:         "U8",
	PrimU16:        "U16",
	PrimU32:        "U32",
	PrimU64:        "U64",
	PrimF32:        "F32",
	PrimF64:        "F64",
	PrimType:       "Type",
	PrimModule:     "Module",
	PrimNullPtr:    "NullPtr",
	PrimEmptyArray: "EmptyArray",
	PrimGeneric:    "Generic",
}

// Primitive is a leaf type singleton.
type Primitive struct {
	kind PrimitiveKind
}

func (p *Primitive) Kind() Kind      { return KindPrimitive }
func (p *Primitive) String() string  { return primitiveNames[p.kind] }
func (p *Primitive) Leaf() PrimitiveKind { return p.kind }

// IsSigned reports whether p is one of the signed integer primitives.
func (p *Primitive) IsSigned() bool {
	switch p.kind {
	case PrimI8, PrimI16, PrimI32, PrimI64:
		return true
	default:
		return false
	}
}

// IsUnsigned reports whether p is one of the unsigned integer primitives.
func (p *Primitive) IsUnsigned() bool {
	switch p.kind {
	case PrimU8, PrimU16, PrimU32, PrimU64:
		return true
	default:
		return false
	}
}

// IsInteger reports whether p is any integer primitive, signed or not.
func (p *Primitive) IsInteger() bool { return p.IsSigned() || p.IsUnsigned() }

// IsFloat reports whether p is F32 or F64.
func (p *Primitive) IsFloat() bool { return p.kind == PrimF32 || p.kind == PrimF64 }

// Singletons, constructed once per process and shared by every Interner
// (spec §3.1: "Also owns the singletons for primitives").
var (
	Bool       = &Primitive{PrimBool}
	Char       = &Primitive{PrimChar}
	I8         = &Primitive{PrimI8}
	I16        = &Primitive{PrimI16}
	I32        = &Primitive{PrimI32}
	I64        = &Primitive{PrimI64}
	U8         = &Primitive{PrimU8}
	U16        = &Primitive{PrimU16}
	U32        = &Primitive{PrimU32}
	U64        = &Primitive{PrimU64}
	F32        = &Primitive{PrimF32}
	F64        = &Primitive{PrimF64}
	TypeType   = &Primitive{PrimType}
	ModuleType = &Primitive{PrimModule}
	NullPtr    = &Primitive{PrimNullPtr}
	EmptyArray = &Primitive{PrimEmptyArray}
	Generic    = &Primitive{PrimGeneric}
)

// Void is Tup{}, the empty tuple — not a distinct primitive (spec §3.1
// invariant "Void == Tup{}").
var Void = &TupleType{Elems: nil}

var integerRank = map[PrimitiveKind]int{
	PrimI8: 1, PrimU8: 1,
	PrimI16: 2, PrimU16: 2,
	PrimI32: 3, PrimU32: 3,
	PrimI64: 4, PrimU64: 4,
}

// IntegerRank orders integer primitives by storage width; signed and
// unsigned types of one width share a rank. Join does not consult it.
func IntegerRank(p *Primitive) int { return integerRank[p.kind] }
