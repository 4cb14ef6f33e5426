package types

import "testing"

func TestInternerPtrIdentity(t *testing.T) {
	in := NewInterner()
	a := in.Ptr(I64)
	b := in.Ptr(I64)
	if a != b {
		t.Fatalf("Ptr(I64) returned distinct handles: %p != %p", a, b)
	}
	c := in.Ptr(F64)
	if Type(a) == Type(c) {
		t.Fatalf("Ptr(I64) and Ptr(F64) must not share a handle")
	}
}

func TestInternerArrayDistinguishesLenAndZero(t *testing.T) {
	in := NewInterner()
	a1 := in.Array(I64, 3)
	a2 := in.Array(I64, 3)
	if a1 != a2 {
		t.Fatalf("Array(I64, 3) returned distinct handles")
	}
	a0 := in.Array(I64, 0)
	if Type(a0) == Type(EmptyArray) {
		t.Fatalf("Array(T, 0) must be distinct from the EmptyArray singleton")
	}
	other := in.Array(I64, 4)
	if Type(a1) == Type(other) {
		t.Fatalf("Array(I64, 3) and Array(I64, 4) must not share a handle")
	}
}

func TestInternerTupleCollapsesSingleton(t *testing.T) {
	in := NewInterner()
	got := in.Tuple([]Type{I64})
	if got != Type(I64) {
		t.Fatalf("Tuple([T]) = %v, want T itself", got)
	}
}

func TestInternerVariantNormalizesOrderAndDupes(t *testing.T) {
	in := NewInterner()
	a := in.Variant([]Type{I64, Bool, I64})
	b := in.Variant([]Type{Bool, I64})
	if a != b {
		t.Fatalf("Variant(normalize(...)) must be order- and duplicate-insensitive: %v != %v", a, b)
	}
}

func TestInternerVariantFlattensNested(t *testing.T) {
	in := NewInterner()
	inner := in.Variant([]Type{I64, Bool})
	flat := in.Variant([]Type{inner, F64})
	direct := in.Variant([]Type{I64, Bool, F64})
	if flat != direct {
		t.Fatalf("nested Variant must flatten: %v != %v", flat, direct)
	}
}

func TestInternerVariantSingletonCollapses(t *testing.T) {
	in := NewInterner()
	got := in.Variant([]Type{I64})
	if got != Type(I64) {
		t.Fatalf("Variant({T}) = %v, want T itself", got)
	}
}

func TestInternerVariantEmptyPanics(t *testing.T) {
	in := NewInterner()
	defer func() {
		if recover() == nil {
			t.Fatal("Variant{} should panic")
		}
	}()
	in.Variant(nil)
}

func TestInternerFuncIdentity(t *testing.T) {
	in := NewInterner()
	a := in.Func([]Type{I64, Bool}, []Type{F64})
	b := in.Func([]Type{I64, Bool}, []Type{F64})
	if a != b {
		t.Fatalf("Func(...) with equal signatures returned distinct handles")
	}
	c := in.Func([]Type{I64}, []Type{F64})
	if Type(a) == Type(c) {
		t.Fatalf("Func with different params must not share a handle")
	}
}
