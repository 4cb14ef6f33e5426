package types

// Join computes the least upper bound of two candidate types (spec §4.1),
// used for typing heterogeneous literals like `[3, true]`. The first
// candidate in a left fold is represented by a nil Type (the "no candidate
// yet" sentinel, written ⊥ in the spec): Join(nil, T) == T.
//
// Join returns (result, true) on success or (nil, false) when no common
// supertype exists — callers treat the latter as the error sentinel and
// poison the enclosing expression (spec §7).
func (in *Interner) Join(t, u Type) (Type, bool) {
	if t == nil {
		return u, true
	}
	if u == nil {
		return t, true
	}
	if t == u {
		return t, true
	}

	if t == EmptyArray {
		if arr, ok := u.(*ArrayType); ok {
			return in.ArrayOpen(arr.Elem), true
		}
		if open, ok := u.(*ArrayOpenType); ok {
			return open, true
		}
	}
	if u == EmptyArray {
		return in.Join(u, t)
	}

	if ta, aOK := t.(*ArrayType); aOK {
		if ua, uOK := u.(*ArrayType); uOK {
			elem, ok := in.Join(ta.Elem, ua.Elem)
			if !ok {
				return nil, false
			}
			if ta.Len == ua.Len {
				return in.Array(elem, ta.Len), true
			}
			return in.ArrayOpen(elem), true
		}
	}
	if ta, aOK := t.(*ArrayOpenType); aOK {
		if elemFromOther, ok := arrayElem(u); ok {
			elem, ok := in.Join(ta.Elem, elemFromOther)
			if !ok {
				return nil, false
			}
			return in.ArrayOpen(elem), true
		}
	}
	if ua, uOK := u.(*ArrayOpenType); uOK {
		if elemFromOther, ok := arrayElem(t); ok {
			elem, ok := in.Join(ua.Elem, elemFromOther)
			if !ok {
				return nil, false
			}
			return in.ArrayOpen(elem), true
		}
	}

	if t == NullPtr {
		switch p := u.(type) {
		case *PtrType:
			return p, true
		case *BufPtrType:
			return p, true
		}
	}
	if u == NullPtr {
		return in.Join(u, t)
	}

	if v, ok := t.(*VariantType); ok {
		return in.Variant(append(append([]Type(nil), v.Members...), u)), true
	}
	if v, ok := u.(*VariantType); ok {
		return in.Variant(append(append([]Type(nil), v.Members...), t)), true
	}

	if joinable(t) && joinable(u) {
		return in.Variant([]Type{t, u}), true
	}

	return nil, false
}

func arrayElem(t Type) (Type, bool) {
	switch a := t.(type) {
	case *ArrayType:
		return a.Elem, true
	case *ArrayOpenType:
		return a.Elem, true
	default:
		return nil, false
	}
}

// joinable reports whether t is a concrete non-function non-scope type,
// eligible to participate in an implicit Var{} formed by Join (spec §4.1:
// "Var(normalized({T,U})) if both are concrete non-function non-scope
// types; else the join fails").
func joinable(t Type) bool {
	switch t.Kind() {
	case KindFunc, KindScope, KindGenericFunction, KindGenericStruct:
		return false
	default:
		return true
	}
}

// Meet computes the greatest lower bound: Meet(argT, paramT) succeeds
// (non-nil) iff there is a value of argT that can reach paramT (spec §4.1).
// Used to check that a call-site argument is accepted at a parameter
// position.
func (in *Interner) Meet(argT, paramT Type) Type {
	if argT == paramT {
		return argT
	}

	if argT == EmptyArray {
		switch paramT.(type) {
		case *ArrayType, *ArrayOpenType:
			return paramT
		}
	}

	if ta, ok := argT.(*ArrayType); ok {
		if tp, ok := paramT.(*ArrayType); ok {
			if ta.Len != tp.Len {
				return nil
			}
			elem := in.Meet(ta.Elem, tp.Elem)
			if elem == nil {
				return nil
			}
			return in.Array(elem, ta.Len)
		}
		if tp, ok := paramT.(*ArrayOpenType); ok {
			elem := in.Meet(ta.Elem, tp.Elem)
			if elem == nil {
				return nil
			}
			return in.ArrayOpen(elem)
		}
	}
	if ta, ok := argT.(*ArrayOpenType); ok {
		if tp, ok := paramT.(*ArrayOpenType); ok {
			elem := in.Meet(ta.Elem, tp.Elem)
			if elem == nil {
				return nil
			}
			return in.ArrayOpen(elem)
		}
	}

	if argT == NullPtr {
		switch paramT.(type) {
		case *PtrType, *BufPtrType:
			return paramT
		}
	}

	if v, ok := argT.(*VariantType); ok {
		for _, m := range v.Members {
			if in.Meet(m, paramT) == nil {
				return nil
			}
		}
		return paramT
	}

	if v, ok := paramT.(*VariantType); ok {
		if v.Has(argT) {
			return argT
		}
		return nil
	}

	return nil
}

// CanCastImplicitly is the one-line contract Binop::= relies on (spec
// §4.1): `from` may be used wherever `to` is expected iff joining the two
// yields `to` unchanged.
func (in *Interner) CanCastImplicitly(from, to Type) bool {
	joined, ok := in.Join(from, to)
	return ok && joined == to
}
