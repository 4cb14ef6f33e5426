package compiler

import (
	"fmt"

	"github.com/icarus-lang/icarus/internal/ast"
	"github.com/icarus-lang/icarus/internal/types"
)

// verifyStructLiteral implements the struct completion state machine of
// spec §4.3: an Incomplete identity is created immediately (so recursive
// fields like `next: *List` can reference it), then VerifyStructBody,
// CompleteStructData, and CompleteStruct are scheduled to run in order.
// Dependents that only need Ptr(S) block on VerifyStructBody, never on
// CompleteStruct — the caller achieves this by requesting the struct
// identity (available immediately) rather than the layout.
func (v *TypeVerifier) verifyStructLiteral(s *Scheduler, ctx *Context, lit *ast.StructLiteral) (types.QualType, error) {
	strct, ok := ctx.StructFor(lit)
	if !ok {
		strct = types.NewIncompleteStruct(lit.Name, 0, lit)
		ctx.SetStruct(lit, strct)
		s.Enqueue(Item{Kind: VerifyStructBody, Node: lit, Ctx: ctx})
		s.Enqueue(Item{Kind: CompleteStructData, Node: lit, Ctx: ctx}, Item{Kind: VerifyStructBody, Node: lit, Ctx: ctx})
		s.Enqueue(Item{Kind: CompleteStruct, Node: lit, Ctx: ctx}, Item{Kind: CompleteStructData, Node: lit, Ctx: ctx})
	}
	return types.QualType{Type: strct, Quals: types.Const}, nil
}

func (v *TypeVerifier) handleVerifyStructBody(s *Scheduler, item Item) error {
	lit, ok := item.Node.(*ast.StructLiteral)
	if !ok {
		return nil
	}
	ctx := item.Ctx
	strct, ok := ctx.StructFor(lit)
	if !ok {
		return fmt.Errorf("compiler: VerifyStructBody on unregistered struct literal")
	}
	fields := make([]types.Field, len(lit.Fields))
	for i, f := range lit.Fields {
		qt, err := v.verifyExpr(s, ctx, f.TypeExpr)
		if err != nil {
			return err
		}
		fields[i] = types.Field{Name: f.Name, Type: qt.Type, Hashtags: f.Hashtags}
	}
	strct.SetDataComplete(fields)
	return nil
}

func (v *TypeVerifier) handleCompleteStructData(s *Scheduler, item Item) error {
	lit, ok := item.Node.(*ast.StructLiteral)
	if !ok {
		return nil
	}
	ctx := item.Ctx
	strct, ok := ctx.StructFor(lit)
	if !ok {
		return nil
	}
	values := make(map[string][]byte)
	for _, f := range lit.Fields {
		if f.InitVal == nil {
			continue
		}
		qt, err := v.verifyExpr(s, ctx, f.InitVal)
		if err != nil {
			return err
		}
		if !qt.IsConstant() {
			continue
		}
		if cv, ok := ctx.LoadConstant(f); ok {
			values[f.Name] = cv.Bytes
		}
	}
	strct.SetFieldInitialValues(values)
	return nil
}

func (v *TypeVerifier) handleCompleteStruct(s *Scheduler, item Item) error {
	lit, ok := item.Node.(*ast.StructLiteral)
	if !ok {
		return nil
	}
	ctx := item.Ctx
	strct, ok := ctx.StructFor(lit)
	if !ok {
		return nil
	}
	strct.CompleteLayout(v.Architecture, fieldStorageSize, fieldStorageAlign)
	return nil
}

// fieldStorageSize/fieldStorageAlign give CompleteLayout the per-type
// size/alignment rules; big types (structs, arrays) recurse, primitives
// use their width, and pointers (and any other type) take
// types.DefaultArchitecture.PointerSize here.
func fieldStorageSize(t types.Type) int64 {
	switch tt := t.(type) {
	case *types.Primitive:
		return primitiveSize(tt)
	case *types.PtrType, *types.BufPtrType:
		return types.DefaultArchitecture.PointerSize
	case *types.ArrayType:
		return fieldStorageSize(tt.Elem) * tt.Len
	case *types.Struct:
		return tt.Size
	default:
		return types.DefaultArchitecture.PointerSize
	}
}

func fieldStorageAlign(t types.Type) int64 {
	switch tt := t.(type) {
	case *types.Primitive:
		return primitiveSize(tt)
	case *types.PtrType, *types.BufPtrType:
		return types.DefaultArchitecture.PointerSize
	case *types.ArrayType:
		return fieldStorageAlign(tt.Elem)
	case *types.Struct:
		return tt.Align
	default:
		return types.DefaultArchitecture.PointerSize
	}
}

func primitiveSize(p *types.Primitive) int64 {
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

// verifyEnumLiteral assigns discriminants/bitmasks (explicit from `X ::= k`
// bindings, implicit: lowest unused nonnegative integer / bit) per spec
// §4.3 "CompleteEnum".
func (v *TypeVerifier) verifyEnumLiteral(s *Scheduler, ctx *Context, lit *ast.EnumLiteral) (types.QualType, error) {
	if lit.Kind == ast.EnumKindFlags {
		f, ok := ctx.FlagsFor(lit)
		if !ok {
			f = &types.Flags{Name: lit.Name, Definition: lit}
			ctx.SetFlags(lit, f)
			for _, m := range lit.Members {
				val := f.NextImplicitBit()
				if m.Value != nil {
					if k, ok := evalIntLiteral(m.Value); ok {
						val = k
					}
				}
				f.Members = append(f.Members, types.Enumerator{Name: m.Name, Value: val})
			}
			f.Complete = true
		}
		return types.QualType{Type: types.TypeType, Quals: types.Const}, nil
	}
	e, ok := ctx.EnumFor(lit)
	if !ok {
		e = &types.Enum{Name: lit.Name, Definition: lit}
		ctx.SetEnum(lit, e)
		for _, m := range lit.Members {
			val := e.NextImplicitDiscriminant()
			if m.Value != nil {
				if k, ok := evalIntLiteral(m.Value); ok {
					val = k
				}
			}
			e.Members = append(e.Members, types.Enumerator{Name: m.Name, Value: val})
		}
		e.Complete = true
	}
	return types.QualType{Type: types.TypeType, Quals: types.Const}, nil
}

func (v *TypeVerifier) handleVerifyEnumBody(s *Scheduler, item Item) error {
	lit, ok := item.Node.(*ast.EnumLiteral)
	if !ok {
		return nil
	}
	_, err := v.verifyEnumLiteral(s, item.Ctx, lit)
	return err
}

func (v *TypeVerifier) handleCompleteEnum(s *Scheduler, item Item) error {
	return v.handleVerifyEnumBody(s, item)
}

func evalIntLiteral(e ast.Expr) (int64, bool) {
	t, ok := e.(*ast.Terminal)
	if !ok || t.Lit != ast.LitInteger {
		return 0, false
	}
	k, ok := t.Value.(int64)
	return k, ok
}

// handleVerifyFunctionBody verifies a function's parameters, outputs, and
// statement list in a fresh function scope (spec §4).
func (v *TypeVerifier) handleVerifyFunctionBody(s *Scheduler, item Item) error {
	ctx := item.Ctx
	switch fn := item.Node.(type) {
	case *ast.FunctionLiteral:
		for _, p := range fn.Params {
			if err := v.verifyDeclaration(s, ctx, p); err != nil {
				return err
			}
		}
		for _, o := range fn.Outputs {
			if o.TypeExpr != nil {
				if _, err := v.verifyExpr(s, ctx, o.TypeExpr); err != nil {
					return err
				}
			}
		}
		for _, stmt := range fn.Stmts {
			if err := v.verifyAny(s, ctx, stmt); err != nil {
				return err
			}
		}
	case *ast.ShortFunctionLiteral:
		for _, p := range fn.Params {
			if err := v.verifyDeclaration(s, ctx, p); err != nil {
				return err
			}
		}
		if _, err := v.verifyExpr(s, ctx, fn.Body); err != nil {
			return err
		}
	}
	return nil
}
