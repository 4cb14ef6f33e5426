package compiler

import (
	"fmt"

	"github.com/icarus-lang/icarus/internal/ast"
	"github.com/icarus-lang/icarus/internal/diag"
	"github.com/icarus-lang/icarus/internal/types"
)

// genericParamsOf projects a ParameterizedExpression's formal parameters
// into the type-level GenericParam shape (spec §4.6), used to give a
// not-yet-instantiated generic struct or function a describable type.
func genericParamsOf(params []*ast.Declaration) []types.GenericParam {
	out := make([]types.GenericParam, len(params))
	for i, p := range params {
		gp := types.GenericParam{Name: p.Name, Const: p.Flags.Has(ast.FlagConst)}
		if at, ok := p.TypeExpr.(*ast.ArgumentType); ok {
			gp.Dependent = true
			gp.DependsOn = at.DependsOn
		}
		out[i] = gp
	}
	return out
}

// verifyParameterizedStructLiteral types a `struct(...)` literal itself
// (spec §4.6): it is never completed directly, only through
// instantiateGenericCall at a use site, so its own type is the
// not-yet-applied GenericStruct.
func (v *TypeVerifier) verifyParameterizedStructLiteral(lit *ast.ParameterizedStructLiteral) (types.QualType, error) {
	return types.QualType{Type: &types.GenericStruct{
		Name:       lit.Name,
		Params:     genericParamsOf(lit.Params),
		Definition: lit,
	}, Quals: types.Const}, nil
}

// verifyFunctionLiteralType types a FunctionLiteral/ShortFunctionLiteral
// value: a GenericFunction if it takes compile-time parameters (spec
// §4.6), otherwise its concrete *types.FuncType.
func (v *TypeVerifier) verifyFunctionLiteralType(s *Scheduler, ctx *Context, pe *ast.ParameterizedExpression, params, outputs []*ast.Declaration, body ast.Expr) (types.QualType, error) {
	if pe.IsGeneric() {
		return types.QualType{Type: &types.GenericFunction{
			Params:     genericParamsOf(params),
			Definition: pe,
		}, Quals: types.Const}, nil
	}
	fn, err := v.concreteFuncType(s, ctx, params, outputs, body)
	if err != nil {
		return types.QualType{}, err
	}
	return types.QualType{Type: fn, Quals: types.Const}, nil
}

// concreteFuncType verifies a non-generic function literal's parameters
// and return type(s), reusing any binding a generic instantiation already
// wrote for a parameter (so this doubles as the instantiated-body typer
// for a generic FunctionLiteral/ShortFunctionLiteral, spec §4.6).
func (v *TypeVerifier) concreteFuncType(s *Scheduler, ctx *Context, params, outputs []*ast.Declaration, body ast.Expr) (types.Type, error) {
	paramTypes := make([]types.Type, len(params))
	for i, p := range params {
		if qt, ok := ctx.QualTypeOf(p); ok {
			paramTypes[i] = qt.Type
			continue
		}
		if err := v.verifyDeclaration(s, ctx, p); err != nil {
			return nil, err
		}
		qt, _ := ctx.QualTypeOf(p)
		paramTypes[i] = qt.Type
	}

	var outTypes []types.Type
	switch {
	case len(outputs) > 0:
		outTypes = make([]types.Type, len(outputs))
		for i, o := range outputs {
			qt, err := v.verifyExpr(s, ctx, o.TypeExpr)
			if err != nil {
				return nil, err
			}
			outTypes[i] = qt.Type
		}
	case body != nil:
		qt, err := v.verifyExpr(s, ctx, body)
		if err != nil {
			return nil, err
		}
		outTypes = []types.Type{qt.Type}
	}
	return v.Interner.Func(paramTypes, outTypes), nil
}

// genericBinding is one parameter's resolved binding, replayed onto the
// instantiation's child Context once it is created (spec §4.6.1).
type genericBinding struct {
	decl     *ast.Declaration
	qt       types.QualType
	bytes    []byte
	setConst bool
}

// resolveGenericParams binds pe's parameters against a call's arguments
// in dependency order (spec §4.6.1, supplemented dependency graph from
// BuildDependencyGraph): type-valued and value-valued Const parameters
// contribute to the instantiation cache key; `$`/`$x` dependent
// parameters take their type from the actual argument and are bound but
// not keyed, since the Const parameters they depend on already are.
func (v *TypeVerifier) resolveGenericParams(s *Scheduler, ctx *Context, pe *ast.ParameterizedExpression, bound []BoundParam) ([]genericBinding, []BoundValue, error) {
	order := make([]int, len(pe.Params))
	for i := range order {
		order[i] = i
	}
	if pe.Dependency != nil {
		order = pe.Dependency.Order
	}

	resolved := make([]genericBinding, len(pe.Params))
	var key []BoundValue

	for _, idx := range order {
		p := pe.Params[idx]
		argExpr := bound[idx].Arg
		if argExpr == nil {
			argExpr = bound[idx].Default
		}
		if argExpr == nil {
			return nil, nil, fmt.Errorf("compiler: generic parameter %s has no argument or default", p.Name)
		}

		if _, dependent := p.TypeExpr.(*ast.ArgumentType); dependent {
			argQT, err := v.verifyExpr(s, ctx, argExpr)
			if err != nil {
				return nil, nil, err
			}
			resolved[idx] = genericBinding{decl: p, qt: argQT}
			continue
		}

		if !p.Flags.Has(ast.FlagConst) {
			continue
		}

		formalT, err := v.formalParamType(s, ctx, p)
		if err != nil {
			return nil, nil, err
		}
		if formalT == types.TypeType {
			// A `T: type const` parameter: its argument is itself a
			// type-valued expression. constBytes (internal/ir) has no
			// case for a bare type literal, so this never goes through
			// the byte-level Evaluator; the type's own rendering is the
			// cache-key bytes instead.
			argQT, err := v.verifyExpr(s, ctx, argExpr)
			if err != nil {
				return nil, nil, err
			}
			b := []byte(argQT.Type.String())
			resolved[idx] = genericBinding{decl: p, qt: argQT, bytes: b}
			key = append(key, BoundValue{Name: p.Name, Bytes: b, Qual: argQT})
			continue
		}

		if _, err := v.verifyExpr(s, ctx, argExpr); err != nil {
			return nil, nil, err
		}
		if v.Instantiator == nil || v.Instantiator.EvaluateConst == nil {
			return nil, nil, fmt.Errorf("compiler: no constant evaluator wired in for generic parameter %s", p.Name)
		}
		bytes, qual, err := v.Instantiator.EvaluateConst(ctx, argExpr)
		if err != nil {
			return nil, nil, err
		}
		resolved[idx] = genericBinding{decl: p, qt: qual, bytes: bytes, setConst: true}
		key = append(key, BoundValue{Name: p.Name, Bytes: bytes, Qual: qual})
	}
	return resolved, key, nil
}

// applyGenericBindings replays resolved bindings onto child: the bound
// QualType (and, for value constants, the folded bytes) are written
// directly rather than left for the normal VerifyType handler to derive,
// since a Const parameter's own TypeExpr (`type`, or an ArgumentType with
// no computeExpr case) can't be re-derived the ordinary way. Pre-seeding
// the scheduler's memo for each bound parameter keeps a later identifier
// lookup's s.Execute(VerifyType, decl, child) from clobbering the binding
// (Scheduler.Execute is a no-op once memo[item] is true).
func applyGenericBindings(s *Scheduler, child *Context, resolved []genericBinding) {
	for _, rb := range resolved {
		if rb.decl == nil {
			continue
		}
		child.SetQualType(rb.decl, rb.qt)
		if rb.setConst {
			child.SetConstant(rb.decl, rb.bytes, true)
		}
		s.memo[Item{Kind: VerifyType, Node: rb.decl, Ctx: child}] = true
	}
}

// genericDeclOf reports whether id resolves to exactly one declaration
// whose InitVal is a generic ParameterizedStructLiteral/FunctionLiteral/
// ShortFunctionLiteral (spec §4.6 "Trigger"), returning the shared
// ParameterizedExpression driving its instantiation.
func genericDeclOf(ctx *Context, id *ast.Identifier) (*ast.Declaration, *ast.ParameterizedExpression, bool) {
	decls, ok := ctx.ResolveIdentifier(id)
	if !ok {
		decls = id.Scope.Lookup(id.Name)
		if len(decls) == 0 {
			return nil, nil, false
		}
		ctx.BindIdentifier(id, decls)
	}
	if len(decls) != 1 {
		return nil, nil, false
	}
	decl := decls[0]
	switch lit := decl.InitVal.(type) {
	case *ast.ParameterizedStructLiteral:
		return decl, &lit.ParameterizedExpression, true
	case *ast.FunctionLiteral:
		if lit.IsGeneric() {
			return decl, &lit.ParameterizedExpression, true
		}
	case *ast.ShortFunctionLiteral:
		if lit.IsGeneric() {
			return decl, &lit.ParameterizedExpression, true
		}
	}
	return nil, nil, false
}

// instantiateGenericCall implements spec §4.6 end to end for a call site
// whose callee names a generic struct or function literal: bind the
// call's arguments, compute the cache key, and either reuse a memoized
// instantiation or verify the literal's body under a fresh child context.
func (v *TypeVerifier) instantiateGenericCall(s *Scheduler, ctx *Context, call *ast.Call, decl *ast.Declaration, pe *ast.ParameterizedExpression) (types.QualType, error) {
	if v.Instantiator == nil {
		v.emit(diag.Diagnostic{
			Category: diag.CategoryTypeError,
			Name:     diag.NameNonCallableInOverloadSet,
			Severity: diag.SeverityError,
			Message:  "generic instantiation is unavailable in this verification pass",
		})
		return types.ErrorQualType(nil), nil
	}

	bound, err := MatchArguments(pe.Params, call.Args)
	if err != nil {
		v.emit(diag.Diagnostic{
			Category: diag.CategoryTypeError,
			Name:     diag.NameNonCallableInOverloadSet,
			Severity: diag.SeverityError,
			Message:  err.Error(),
		})
		return types.ErrorQualType(nil), nil
	}

	resolved, key, err := v.resolveGenericParams(s, ctx, pe, bound)
	if err != nil {
		return types.QualType{}, err
	}

	owner := decl.InitVal
	result, _, err := v.Instantiator.Instantiate(ctx, owner, InstantiationKey(key), func(child *Context) (types.Type, error) {
		applyGenericBindings(s, child, resolved)
		return v.instantiateGenericBody(s, child, decl)
	})
	if err != nil {
		return types.QualType{}, err
	}
	if result == nil {
		return types.ErrorQualType(nil), nil
	}
	return types.QualType{Type: result, Quals: types.Const}, nil
}

func (v *TypeVerifier) instantiateGenericBody(s *Scheduler, child *Context, decl *ast.Declaration) (types.Type, error) {
	switch lit := decl.InitVal.(type) {
	case *ast.ParameterizedStructLiteral:
		qt, err := v.verifyStructLiteral(s, child, lit.Body)
		if err != nil {
			return nil, err
		}
		return qt.Type, nil
	case *ast.FunctionLiteral:
		return v.concreteFuncType(s, child, lit.Params, lit.Outputs, nil)
	case *ast.ShortFunctionLiteral:
		return v.concreteFuncType(s, child, lit.Params, nil, lit.Body)
	default:
		return nil, fmt.Errorf("compiler: unsupported generic literal %T", decl.InitVal)
	}
}
