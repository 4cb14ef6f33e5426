package interp

import (
	"testing"

	"github.com/icarus-lang/icarus/internal/types"
)

func TestPrimitiveWidth(t *testing.T) {
	tests := []struct {
		t    *types.Primitive
		want int64
	}{
		{types.Bool, 1},
		{types.Char, 1},
		{types.I8, 1},
		{types.U8, 1},
		{types.I16, 2},
		{types.U16, 2},
		{types.I32, 4},
		{types.U32, 4},
		{types.F32, 4},
		{types.I64, 8},
		{types.U64, 8},
		{types.F64, 8},
	}
	for _, tt := range tests {
		if got := primitiveWidth(tt.t); got != tt.want {
			t.Errorf("primitiveWidth(%v) = %d, want %d", tt.t, got, tt.want)
		}
	}
}

func TestStorageSizeArray(t *testing.T) {
	in := types.NewInterner()
	arr := in.Array(types.I32, 4)
	if got := storageSize(arr); got != 16 {
		t.Fatalf("storageSize([4; I32]) = %d, want 16", got)
	}
}

func TestStorageSizeTuple(t *testing.T) {
	tup := &types.TupleType{Elems: []types.Type{types.I64, types.Bool, types.I32}}
	if got := storageSize(tup); got != 13 {
		t.Fatalf("storageSize((I64, Bool, I32)) = %d, want 13", got)
	}
}

func TestStorageSizePointerUsesArchitecturePointerSize(t *testing.T) {
	in := types.NewInterner()
	p := in.Ptr(types.I64)
	if got := storageSize(p); got != types.DefaultArchitecture.PointerSize {
		t.Fatalf("storageSize(*I64) = %d, want %d", got, types.DefaultArchitecture.PointerSize)
	}
}
