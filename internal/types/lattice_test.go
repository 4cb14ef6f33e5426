package types

import "testing"

func TestJoinIdentitySentinel(t *testing.T) {
	in := NewInterner()
	got, ok := in.Join(nil, I64)
	if !ok || got != Type(I64) {
		t.Fatalf("Join(nil, I64) = (%v, %v), want (I64, true)", got, ok)
	}
	got, ok = in.Join(I64, nil)
	if !ok || got != Type(I64) {
		t.Fatalf("Join(I64, nil) = (%v, %v), want (I64, true)", got, ok)
	}
}

func TestJoinSameTypeIsIdentity(t *testing.T) {
	in := NewInterner()
	got, ok := in.Join(I64, I64)
	if !ok || got != Type(I64) {
		t.Fatalf("Join(I64, I64) = (%v, %v), want (I64, true)", got, ok)
	}
}

func TestJoinEmptyArrayWithKnownArray(t *testing.T) {
	in := NewInterner()
	arr := in.Array(I64, 3)
	got, ok := in.Join(EmptyArray, arr)
	if !ok {
		t.Fatal("Join(EmptyArray, Arr(I64,3)) should succeed")
	}
	want := in.ArrayOpen(I64)
	if got != Type(want) {
		t.Fatalf("Join(EmptyArray, Arr(I64,3)) = %v, want %v", got, want)
	}
}

func TestJoinArraysSameLength(t *testing.T) {
	in := NewInterner()
	a := in.Array(I64, 3)
	b := in.Array(I64, 3)
	got, ok := in.Join(a, b)
	if !ok || got != Type(a) {
		t.Fatalf("Join(Arr(I64,3), Arr(I64,3)) = (%v, %v), want (Arr(I64,3), true)", got, ok)
	}
}

func TestJoinArraysDifferentLengthOpens(t *testing.T) {
	in := NewInterner()
	a := in.Array(I64, 3)
	b := in.Array(I64, 4)
	got, ok := in.Join(a, b)
	want := in.ArrayOpen(I64)
	if !ok || got != Type(want) {
		t.Fatalf("Join(Arr(I64,3), Arr(I64,4)) = (%v, %v), want (%v, true)", got, ok, want)
	}
}

func TestJoinNullPtrWithPtr(t *testing.T) {
	in := NewInterner()
	p := in.Ptr(I64)
	got, ok := in.Join(NullPtr, p)
	if !ok || got != Type(p) {
		t.Fatalf("Join(NullPtr, *I64) = (%v, %v), want (*I64, true)", got, ok)
	}
	got, ok = in.Join(p, NullPtr)
	if !ok || got != Type(p) {
		t.Fatalf("Join(*I64, NullPtr) = (%v, %v), want (*I64, true)", got, ok)
	}
}

func TestJoinConcreteTypesFormVariant(t *testing.T) {
	in := NewInterner()
	got, ok := in.Join(I64, Bool)
	if !ok {
		t.Fatal("Join(I64, Bool) should succeed by forming a Variant")
	}
	want := in.Variant([]Type{I64, Bool})
	if got != want {
		t.Fatalf("Join(I64, Bool) = %v, want %v", got, want)
	}
}

func TestJoinFunctionTypesFail(t *testing.T) {
	in := NewInterner()
	f := in.Func([]Type{I64}, []Type{Bool})
	g := in.Func([]Type{Bool}, []Type{I64})
	if _, ok := in.Join(f, g); ok {
		t.Fatal("Join of two distinct function types must fail: functions are not joinable")
	}
}

func TestJoinVariantAbsorbsMember(t *testing.T) {
	in := NewInterner()
	v := in.Variant([]Type{I64, Bool})
	got, ok := in.Join(v, F64)
	if !ok {
		t.Fatal("Join(Var{I64,Bool}, F64) should succeed")
	}
	want := in.Variant([]Type{I64, Bool, F64})
	if got != want {
		t.Fatalf("Join(Var{I64,Bool}, F64) = %v, want %v", got, want)
	}
}

func TestMeetIdenticalTypes(t *testing.T) {
	in := NewInterner()
	if got := in.Meet(I64, I64); got != Type(I64) {
		t.Fatalf("Meet(I64, I64) = %v, want I64", got)
	}
}

func TestMeetEmptyArrayIntoArrayParam(t *testing.T) {
	in := NewInterner()
	arr := in.Array(I64, 0)
	if got := in.Meet(EmptyArray, arr); got != Type(arr) {
		t.Fatalf("Meet(EmptyArray, Arr(I64,0)) = %v, want Arr(I64,0)", got)
	}
}

func TestMeetNullPtrIntoPtrParam(t *testing.T) {
	in := NewInterner()
	p := in.Ptr(I64)
	if got := in.Meet(NullPtr, p); got != Type(p) {
		t.Fatalf("Meet(NullPtr, *I64) = %v, want *I64", got)
	}
}

func TestMeetArgIntoVariantParam(t *testing.T) {
	in := NewInterner()
	v := in.Variant([]Type{I64, Bool})
	if got := in.Meet(I64, v); got != Type(I64) {
		t.Fatalf("Meet(I64, Var{I64,Bool}) = %v, want I64", got)
	}
	if got := in.Meet(F64, v); got != nil {
		t.Fatalf("Meet(F64, Var{I64,Bool}) = %v, want nil", got)
	}
}

func TestMeetVariantArgIntoParam(t *testing.T) {
	in := NewInterner()
	v := in.Variant([]Type{I64, Bool})
	// every member of v must reach paramT for the meet to succeed
	wide := in.Variant([]Type{I64, Bool, F64})
	if got := in.Meet(v, wide); got != Type(wide) {
		t.Fatalf("Meet(Var{I64,Bool}, Var{I64,Bool,F64}) = %v, want %v", got, wide)
	}
	if got := in.Meet(v, I64); got != nil {
		t.Fatalf("Meet(Var{I64,Bool}, I64) = %v, want nil (Bool can't reach I64)", got)
	}
}

func TestMeetIncompatibleFails(t *testing.T) {
	in := NewInterner()
	if got := in.Meet(I64, Bool); got != nil {
		t.Fatalf("Meet(I64, Bool) = %v, want nil", got)
	}
}

func TestCanCastImplicitly(t *testing.T) {
	in := NewInterner()
	v := in.Variant([]Type{I64, Bool})
	if !in.CanCastImplicitly(I64, v) {
		t.Fatal("CanCastImplicitly(I64, Var{I64,Bool}) should be true: Join(I64, Var{...}) == Var{...}")
	}
	if in.CanCastImplicitly(I64, Bool) {
		t.Fatal("CanCastImplicitly(I64, Bool) should be false: joining forms a new Variant, not Bool")
	}
	if !in.CanCastImplicitly(I64, I64) {
		t.Fatal("CanCastImplicitly(I64, I64) should be true")
	}
}
