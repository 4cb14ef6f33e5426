package interp

import "github.com/icarus-lang/icarus/internal/types"

// storageSize repeats internal/ir's per-type size rule (internal/compiler's
// fieldStorageSize agrees except for tuples, which it sizes as a pointer),
// used here to decide how many bytes OpLoad/OpStore move. Each package
// keeping its own primitive-width table is the price of keeping internal/types free of a
// dependency on either internal/compiler or internal/ir. Field offsets
// within a struct are not recomputed here: OpField bakes them into its
// FieldAux at lowering time, so the interpreter only ever reads Aux.Offset.
func storageSize(t types.Type) int64 {
	switch tt := t.(type) {
	case *types.Primitive:
		return primitiveWidth(tt)
	case *types.PtrType, *types.BufPtrType:
		return types.DefaultArchitecture.PointerSize
	case *types.ArrayType:
		return storageSize(tt.Elem) * tt.Len
	case *types.Struct:
		return tt.Size
	case *types.TupleType:
		var total int64
		for _, e := range tt.Elems {
			total += storageSize(e)
		}
		return total
	default:
		return types.DefaultArchitecture.PointerSize
	}
}

func primitiveWidth(p *types.Primitive) int64 {
	switch p {
	case types.Bool, types.Char, types.I8, types.U8:
		return 1
	case types.I16, types.U16:
		return 2
	case types.I32, types.U32, types.F32:
		return 4
	case types.I64, types.U64, types.F64:
		return 8
	default:
		return types.DefaultArchitecture.PointerSize
	}
}
