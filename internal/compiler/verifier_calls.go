package compiler

import (
	"fmt"

	"github.com/icarus-lang/icarus/internal/ast"
	"github.com/icarus-lang/icarus/internal/diag"
	"github.com/icarus-lang/icarus/internal/types"
)

// verifyCall implements spec §4.5: build the overload set, match each
// candidate's parameters against the call's arguments, Meet-check the
// types, and — if any argument is Variant-typed — expand a dispatch table
// over the Cartesian product of members.
func (v *TypeVerifier) verifyCall(s *Scheduler, ctx *Context, call *ast.Call) (types.QualType, error) {
	id, isIdent := call.Callee.(*ast.Identifier)
	if !isIdent {
		calleeQT, err := v.verifyExpr(s, ctx, call.Callee)
		if err != nil {
			return types.QualType{}, err
		}
		if calleeQT.Poisoned() {
			return types.ErrorQualType(nil), nil
		}
		fn, ok := calleeQT.Type.(*types.FuncType)
		if !ok {
			v.emit(diag.Diagnostic{
				Category: diag.CategoryTypeError,
				Name:     diag.NameNonCallableInOverloadSet,
				Severity: diag.SeverityError,
				Message:  fmt.Sprintf("%s is not callable", calleeQT.Type),
			})
			return types.ErrorQualType(nil), nil
		}
		for _, a := range call.Args {
			if _, err := v.verifyExpr(s, ctx, a.Value); err != nil {
				return types.QualType{}, err
			}
		}
		return types.QualType{Type: resultOf(fn)}, nil
	}

	if decl, pe, ok := genericDeclOf(ctx, id); ok {
		return v.instantiateGenericCall(s, ctx, call, decl, pe)
	}

	argTypes := make([]types.Type, len(call.Args))
	for i, a := range call.Args {
		qt, err := v.verifyExpr(s, ctx, a.Value)
		if err != nil {
			return types.QualType{}, err
		}
		if qt.Poisoned() {
			return types.ErrorQualType(nil), nil
		}
		argTypes[i] = qt.Type
	}

	var exports ModuleExports
	if v.Importer != nil {
		exports = NewModuleExports(v.Importer)
	}
	overloads := BuildOverloadSet(id.Scope, id.Name, argTypes, exports)
	if len(overloads) == 0 {
		v.emit(diag.Diagnostic{
			Category: diag.CategoryTypeError,
			Name:     diag.NameUndeclaredIdentifier,
			Severity: diag.SeverityError,
			Message:  "undeclared identifier: " + id.Name,
		})
		return types.ErrorQualType(nil), nil
	}

	var candidates []*Binding
	for _, decl := range overloads {
		fnLit, ok := declFunctionLiteral(decl)
		if !ok {
			continue
		}
		bound, err := MatchArguments(fnLit.Params, call.Args)
		if err != nil {
			continue
		}
		binding := &Binding{Callee: decl}
		ok = true
		for _, bp := range bound {
			formalQT, err := v.formalParamType(s, ctx, bp.Formal)
			if err != nil {
				return types.QualType{}, err
			}
			if bp.Arg == nil {
				// defaulted parameter: trust the declared type, no Meet
				// against a real argument is possible.
				binding.Params = append(binding.Params, BoundParam{Formal: bp.Formal, Type: formalQT, Default: bp.Default})
				continue
			}
			var arg types.Type
			for j, a := range call.Args {
				if a.Value == bp.Arg {
					arg = argTypes[j]
				}
			}
			if v.Interner.Meet(arg, formalQT) == nil {
				ok = false
				break
			}
			binding.Params = append(binding.Params, BoundParam{Formal: bp.Formal, Type: formalQT, Arg: bp.Arg})
		}
		if ok {
			candidates = append(candidates, binding)
		}
	}

	table, err := BuildDispatchTable(v.Interner, argTypes, candidates)
	if err != nil {
		v.emit(diag.Diagnostic{
			Category: diag.CategoryTypeError,
			Name:     diag.NameNonCallableInOverloadSet,
			Severity: diag.SeverityError,
			Message:  err.Error(),
		})
		return types.ErrorQualType(nil), nil
	}
	ctx.SetCallMetadata(call, &CallMetadata{Table: table})

	var result types.Type
	for _, combo := range table.Combinations {
		fnLit, _ := declFunctionLiteral(combo.Binding.Callee)
		ret := v.functionReturnType(s, ctx, fnLit)
		if result == nil {
			result = ret
		} else if joined, ok := v.Interner.Join(result, ret); ok {
			result = joined
		}
	}
	return types.QualType{Type: result}, nil
}

func resultOf(fn *types.FuncType) types.Type {
	if fn.Out == nil {
		return types.Void
	}
	return fn.Out
}

// declFunctionLiteral extracts the FunctionLiteral/ShortFunctionLiteral a
// Declaration's InitVal holds, the shape every callable declaration has.
func declFunctionLiteral(d *ast.Declaration) (*funcShape, bool) {
	switch fn := d.InitVal.(type) {
	case *ast.FunctionLiteral:
		return &funcShape{Params: fn.Params, Outputs: fn.Outputs}, true
	case *ast.ShortFunctionLiteral:
		return &funcShape{Params: fn.Params, Body: fn.Body}, true
	default:
		return nil, false
	}
}

// funcShape normalizes FunctionLiteral and ShortFunctionLiteral to the
// handful of fields overload resolution needs, since they share no common
// interface beyond ParameterizedExpression.
type funcShape struct {
	Params  []*ast.Declaration
	Outputs []*ast.Declaration
	Body    ast.Expr
}

func (v *TypeVerifier) formalParamType(s *Scheduler, ctx *Context, p *ast.Declaration) (types.Type, error) {
	if p.TypeExpr == nil {
		return types.Generic, nil
	}
	qt, err := v.verifyExpr(s, ctx, p.TypeExpr)
	if err != nil {
		return nil, err
	}
	return qt.Type, nil
}

func (v *TypeVerifier) functionReturnType(s *Scheduler, ctx *Context, fn *funcShape) types.Type {
	if fn == nil {
		return types.Void
	}
	if len(fn.Outputs) > 0 {
		outs := make([]types.Type, len(fn.Outputs))
		for i, o := range fn.Outputs {
			qt, err := v.formalParamType(s, ctx, o)
			if err != nil || qt == nil {
				return types.Void
			}
			outs[i] = qt
		}
		return v.Interner.Tuple(outs)
	}
	if fn.Body != nil {
		qt, err := v.verifyExpr(s, ctx, fn.Body)
		if err != nil {
			return types.Void
		}
		return qt.Type
	}
	return types.Void
}
