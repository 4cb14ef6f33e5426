package compiler

import (
	"fmt"

	"github.com/icarus-lang/icarus/internal/ast"
	"github.com/icarus-lang/icarus/internal/diag"
	"github.com/icarus-lang/icarus/internal/types"
)

// TypeVerifier is the visitor described in spec §4: it consumes/produces
// QualTypes, reading from and writing to the active Context, and
// scheduling follow-up work on the Scheduler as it discovers more nodes
// that need verification (struct bodies, function bodies, generic
// instantiations).
type TypeVerifier struct {
	Interner     *types.Interner
	Architecture types.Architecture
	Consumer     diag.Consumer
	Importer     Importer
	Instantiator *Instantiator
	// Evaluate folds a verified expression to its compile-time value (spec
	// §4.7.1), wired in by the embedder (internal/interp.Evaluator) to avoid
	// this package importing the IR/interpreter. nil in tests that never
	// declare a Const binding.
	Evaluate func(ctx *Context, expr ast.Expr) (ConstValue, error)
}

func NewTypeVerifier(sc *SharedContext, consumer diag.Consumer, importer Importer, inst *Instantiator, evaluate func(ctx *Context, expr ast.Expr) (ConstValue, error)) *TypeVerifier {
	return &TypeVerifier{Interner: sc.Interner, Architecture: sc.Architecture, Consumer: consumer, Importer: importer, Instantiator: inst, Evaluate: evaluate}
}

// Install registers every Kind handler this verifier implements onto s.
func (v *TypeVerifier) Install(s *Scheduler) {
	s.RegisterHandler(VerifyType, v.handleVerifyType)
	s.RegisterHandler(VerifyStructBody, v.handleVerifyStructBody)
	s.RegisterHandler(CompleteStructData, v.handleCompleteStructData)
	s.RegisterHandler(CompleteStruct, v.handleCompleteStruct)
	s.RegisterHandler(VerifyEnumBody, v.handleVerifyEnumBody)
	s.RegisterHandler(CompleteEnum, v.handleCompleteEnum)
	s.RegisterHandler(VerifyFunctionBody, v.handleVerifyFunctionBody)
}

func (v *TypeVerifier) emit(d diag.Diagnostic) {
	v.Consumer.Consume(d)
}

// handleVerifyType dispatches on node kind. Declarations recurse into
// their type/init expressions; every other node is handled by
// verifyExpr/verifyStmt below.
func (v *TypeVerifier) handleVerifyType(s *Scheduler, item Item) error {
	ctx := item.Ctx
	switch n := item.Node.(type) {
	case *ast.Declaration:
		return v.verifyDeclaration(s, ctx, n)
	case ast.Stmt:
		return v.verifyStmt(s, ctx, n)
	case ast.Expr:
		_, err := v.verifyExpr(s, ctx, n)
		return err
	default:
		return nil
	}
}

func (v *TypeVerifier) verifyDeclaration(s *Scheduler, ctx *Context, d *ast.Declaration) error {
	release, ok := s.PushDependency(d.Name)
	if !ok {
		ctx.SetQualType(d, types.ErrorQualType(nil))
		return nil
	}
	defer release()

	var declaredType types.Type
	if d.TypeExpr != nil {
		tqt, err := v.verifyExpr(s, ctx, d.TypeExpr)
		if err != nil {
			return err
		}
		declaredType = tqt.Type
	}

	var initQT types.QualType
	if d.InitVal != nil {
		qt, err := v.verifyExpr(s, ctx, d.InitVal)
		if err != nil {
			return err
		}
		initQT = qt
	}

	final := declaredType
	if final == nil {
		final = initQT.Type
	} else if d.InitVal != nil {
		if v.Interner.Meet(initQT.Type, final) == nil {
			v.emit(diag.Diagnostic{
				Category: diag.CategoryTypeError,
				Name:     diag.NameInvalidCast,
				Severity: diag.SeverityError,
				Message:  fmt.Sprintf("cannot initialize %s with value of type %s", final, initQT.Type),
			})
			final = nil
		}
	}
	qual := types.Qualifiers(0)
	if d.Flags.Has(ast.FlagConst) {
		qual = qual.With(types.Const)
	}
	if final == nil {
		ctx.SetQualType(d, types.ErrorQualType(nil))
		return nil
	}
	ctx.SetQualType(d, types.QualType{Type: final, Quals: qual})

	// Fold Const declarations' init value so later generic-parameter and
	// pattern-match uses see a concrete value instead of re-evaluating the
	// expression tree each time (spec §4.7.1).
	if d.InitVal != nil && qual.Has(types.Const) && v.Evaluate != nil {
		if cv, err := v.Evaluate(ctx, d.InitVal); err == nil {
			ctx.SetConstant(d, cv.Bytes, true)
		}
	}
	return nil
}

func (v *TypeVerifier) verifyStmt(s *Scheduler, ctx *Context, n ast.Stmt) error {
	switch st := n.(type) {
	case *ast.IfStmt:
		if _, err := v.verifyExpr(s, ctx, st.Cond); err != nil {
			return err
		}
		for _, b := range st.Then {
			if err := v.verifyAny(s, ctx, b); err != nil {
				return err
			}
		}
		for _, b := range st.Else {
			if err := v.verifyAny(s, ctx, b); err != nil {
				return err
			}
		}
	case *ast.WhileStmt:
		if _, err := v.verifyExpr(s, ctx, st.Cond); err != nil {
			return err
		}
		for _, b := range st.Body {
			if err := v.verifyAny(s, ctx, b); err != nil {
				return err
			}
		}
	case *ast.ReturnStmt:
		for _, e := range st.Exprs {
			if _, err := v.verifyExpr(s, ctx, e); err != nil {
				return err
			}
		}
	case *ast.YieldStmt:
		for _, e := range st.Exprs {
			if _, err := v.verifyExpr(s, ctx, e); err != nil {
				return err
			}
		}
	case *ast.Assignment:
		for _, e := range st.RHS {
			if _, err := v.verifyExpr(s, ctx, e); err != nil {
				return err
			}
		}
		for _, e := range st.LHS {
			qt, err := v.verifyExpr(s, ctx, e)
			if err != nil {
				return err
			}
			if !qt.Quals.Has(types.Ref) {
				v.emit(diag.Diagnostic{
					Category: diag.CategoryValueCatErr,
					Name:     diag.NameNonAddressableExpression,
					Severity: diag.SeverityError,
					Message:  "left-hand side of assignment is not addressable",
				})
			} else if qt.Quals.Has(types.Const) {
				v.emit(diag.Diagnostic{
					Category: diag.CategoryValueCatErr,
					Name:     diag.NameAssigningToConstant,
					Severity: diag.SeverityError,
					Message:  "cannot assign to a constant",
				})
			}
		}
	}
	return nil
}

func (v *TypeVerifier) verifyAny(s *Scheduler, ctx *Context, n ast.Node) error {
	switch x := n.(type) {
	case *ast.Declaration:
		return v.verifyDeclaration(s, ctx, x)
	case ast.Stmt:
		return v.verifyStmt(s, ctx, x)
	case ast.Expr:
		_, err := v.verifyExpr(s, ctx, x)
		return err
	}
	return nil
}

// verifyExpr is the core expression visitor. It memoizes through
// ctx.QualTypeOf so repeat verification of an already-verified node is a
// no-op (spec §8 "Verifying an already-verified AST is a no-op").
func (v *TypeVerifier) verifyExpr(s *Scheduler, ctx *Context, e ast.Expr) (types.QualType, error) {
	if qt, ok := ctx.QualTypeOf(e); ok {
		return qt, nil
	}
	qt, err := v.computeExpr(s, ctx, e)
	if err != nil {
		return types.QualType{}, err
	}
	ctx.SetQualType(e, qt)
	return qt, nil
}

func (v *TypeVerifier) computeExpr(s *Scheduler, ctx *Context, e ast.Expr) (types.QualType, error) {
	switch n := e.(type) {
	case *ast.Terminal:
		if n.Lit == ast.LitType {
			t, ok := n.Value.(types.Type)
			if !ok {
				return types.ErrorQualType(nil), nil
			}
			return types.QualType{Type: t, Quals: types.Const}, nil
		}
		t := ast.TerminalType(n)
		if t == nil {
			return types.ErrorQualType(nil), nil
		}
		return types.QualType{Type: t, Quals: types.Const}, nil

	case *ast.Identifier:
		return v.verifyIdentifier(s, ctx, n)

	case *ast.Binop:
		return v.verifyBinop(s, ctx, n)

	case *ast.Unop:
		return v.verifyUnop(s, ctx, n)

	case *ast.Call:
		return v.verifyCall(s, ctx, n)

	case *ast.Access:
		return v.verifyAccess(s, ctx, n)

	case *ast.ArrayLiteral:
		return v.verifyArrayLiteral(s, ctx, n)

	case *ast.Tuple:
		return v.verifyTuple(s, ctx, n)

	case *ast.Cast:
		return v.verifyCast(s, ctx, n)

	case *ast.StructLiteral:
		return v.verifyStructLiteral(s, ctx, n)

	case *ast.EnumLiteral:
		return v.verifyEnumLiteral(s, ctx, n)

	case *ast.Import:
		return v.verifyImport(s, ctx, n)

	case *ast.ParameterizedStructLiteral:
		return v.verifyParameterizedStructLiteral(n)

	case *ast.FunctionLiteral:
		return v.verifyFunctionLiteralType(s, ctx, &n.ParameterizedExpression, n.Params, n.Outputs, nil)

	case *ast.ShortFunctionLiteral:
		return v.verifyFunctionLiteralType(s, ctx, &n.ParameterizedExpression, n.Params, nil, n.Body)

	case *ast.PatternMatch:
		return v.verifyPatternMatch(s, ctx, n)

	case *ast.Hole:
		return types.QualType{Type: types.Void}, nil

	default:
		return types.QualType{Type: types.Void}, nil
	}
}

func (v *TypeVerifier) verifyIdentifier(s *Scheduler, ctx *Context, id *ast.Identifier) (types.QualType, error) {
	decls, ok := ctx.ResolveIdentifier(id)
	if !ok {
		decls = id.Scope.Lookup(id.Name)
		if len(decls) == 0 {
			v.emit(diag.Diagnostic{
				Category: diag.CategoryTypeError,
				Name:     diag.NameUndeclaredIdentifier,
				Severity: diag.SeverityError,
				Message:  "undeclared identifier: " + id.Name,
			})
			return types.ErrorQualType(nil), nil
		}
		ctx.BindIdentifier(id, decls)
	}
	if len(decls) > 1 {
		// an overload set; the identifier's own type is only meaningful
		// when used directly as a value, which isn't well-defined for more
		// than one candidate until a Call resolves it. Report Void so a
		// bare reference to an overloaded name doesn't crash downstream,
		// while Call sites resolve overloads themselves (verifyCall).
		return types.QualType{Type: types.Void}, nil
	}
	decl := decls[0]
	if err := s.Execute(Item{Kind: VerifyType, Node: decl, Ctx: ctx}); err != nil {
		return types.QualType{}, err
	}
	qt, _ := ctx.QualTypeOf(decl)
	if !decl.Flags.Has(ast.FlagConst) {
		qt.Quals = qt.Quals.With(types.Ref)
	}
	return qt, nil
}

func (v *TypeVerifier) verifyBinop(s *Scheduler, ctx *Context, b *ast.Binop) (types.QualType, error) {
	lhs, err := v.verifyExpr(s, ctx, b.LHS)
	if err != nil {
		return types.QualType{}, err
	}
	rhs, err := v.verifyExpr(s, ctx, b.RHS)
	if err != nil {
		return types.QualType{}, err
	}
	if lhs.Poisoned() || rhs.Poisoned() {
		return types.ErrorQualType(nil), nil
	}
	switch b.Op {
	case ast.OpEq, ast.OpNe, ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		return types.QualType{Type: types.Bool, Quals: lhs.Quals & rhs.Quals & types.Const}, nil
	default:
		joined, ok := v.Interner.Join(lhs.Type, rhs.Type)
		if !ok {
			v.emit(diag.Diagnostic{
				Category: diag.CategoryTypeError,
				Name:     diag.NameInvalidCast,
				Severity: diag.SeverityError,
				Message:  fmt.Sprintf("no common type for %s and %s", lhs.Type, rhs.Type),
			})
			return types.ErrorQualType(nil), nil
		}
		return types.QualType{Type: joined, Quals: lhs.Quals & rhs.Quals & types.Const}, nil
	}
}

func (v *TypeVerifier) verifyUnop(s *Scheduler, ctx *Context, u *ast.Unop) (types.QualType, error) {
	operand, err := v.verifyExpr(s, ctx, u.Operand)
	if err != nil {
		return types.QualType{}, err
	}
	if operand.Poisoned() {
		return types.ErrorQualType(nil), nil
	}
	switch u.Op {
	case ast.OpDeref:
		switch p := operand.Type.(type) {
		case *types.PtrType:
			return types.QualType{Type: p.Pointee, Quals: types.Ref}, nil
		case *types.BufPtrType:
			return types.QualType{Type: p.Pointee, Quals: types.Ref | types.Buf}, nil
		default:
			v.emit(diag.Diagnostic{
				Category: diag.CategoryTypeError,
				Name:     diag.NameDereferencingNonPointer,
				Severity: diag.SeverityError,
				Message:  fmt.Sprintf("cannot dereference non-pointer type %s", operand.Type),
			})
			return types.ErrorQualType(nil), nil
		}
	case ast.OpAddr:
		if !operand.Quals.Has(types.Ref) {
			v.emit(diag.Diagnostic{
				Category: diag.CategoryValueCatErr,
				Name:     diag.NameNonAddressableExpression,
				Severity: diag.SeverityError,
				Message:  "cannot take the address of a non-addressable expression",
			})
			return types.ErrorQualType(nil), nil
		}
		return types.QualType{Type: v.Interner.Ptr(operand.Type), Quals: types.Const & operand.Quals}, nil
	case ast.OpNeg:
		if prim, ok := operand.Type.(*types.Primitive); ok && prim.IsUnsigned() {
			v.emit(diag.Diagnostic{
				Category: diag.CategoryTypeError,
				Name:     diag.NameNegatingUnsignedInteger,
				Severity: diag.SeverityError,
				Message:  fmt.Sprintf("cannot negate unsigned type %s", operand.Type),
			})
			return types.ErrorQualType(nil), nil
		}
		return operand, nil
	default:
		return operand, nil
	}
}

func (v *TypeVerifier) verifyAccess(s *Scheduler, ctx *Context, a *ast.Access) (types.QualType, error) {
	operandQT, err := v.verifyExpr(s, ctx, a.Operand)
	if err != nil {
		return types.QualType{}, err
	}
	if operandQT.Poisoned() {
		return types.ErrorQualType(nil), nil
	}
	if imp, ok := a.Operand.(*ast.Import); ok {
		modID, ok := ctx.ImportedModule(imp)
		if !ok {
			return types.ErrorQualType(nil), nil
		}
		mod, ok := v.Importer.Get(modID)
		if !ok {
			return types.ErrorQualType(nil), nil
		}
		decls := mod.Exports[a.MemberName]
		if len(decls) == 0 {
			v.emit(diag.Diagnostic{
				Category: diag.CategoryTypeError,
				Name:     diag.NameUndeclaredIdentifier,
				Severity: diag.SeverityError,
				Message:  "module has no export named " + a.MemberName,
			})
			return types.ErrorQualType(nil), nil
		}
		return types.QualType{Type: types.Void}, nil
	}
	strct, isStruct := operandQT.Type.(*types.Struct)
	if !isStruct {
		if p, ok := operandQT.Type.(*types.PtrType); ok {
			strct, isStruct = p.Pointee.(*types.Struct)
		}
	}
	if !isStruct {
		v.emit(diag.Diagnostic{
			Category: diag.CategoryTypeError,
			Name:     diag.NameNotAType,
			Severity: diag.SeverityError,
			Message:  fmt.Sprintf("%s has no member %s", operandQT.Type, a.MemberName),
		})
		return types.ErrorQualType(nil), nil
	}
	field, ok := strct.FieldByName(a.MemberName)
	if !ok {
		v.emit(diag.Diagnostic{
			Category: diag.CategoryTypeError,
			Name:     diag.NameNotAType,
			Severity: diag.SeverityError,
			Message:  fmt.Sprintf("struct %s has no field %s", strct.Name, a.MemberName),
		})
		return types.ErrorQualType(nil), nil
	}
	return types.QualType{Type: field.Type, Quals: operandQT.Quals & types.Ref}, nil
}

func (v *TypeVerifier) verifyArrayLiteral(s *Scheduler, ctx *Context, a *ast.ArrayLiteral) (types.QualType, error) {
	if len(a.Elems) == 0 {
		return types.QualType{Type: types.EmptyArray, Quals: types.Const}, nil
	}
	var elemType types.Type
	constant := types.Const
	for _, e := range a.Elems {
		qt, err := v.verifyExpr(s, ctx, e)
		if err != nil {
			return types.QualType{}, err
		}
		if elemType == nil {
			elemType = qt.Type
		} else if joined, ok := v.Interner.Join(elemType, qt.Type); ok {
			elemType = joined
		} else {
			v.emit(diag.Diagnostic{
				Category: diag.CategoryTypeError,
				Name:     diag.NameInvalidCast,
				Severity: diag.SeverityError,
				Message:  "array literal elements have incompatible types",
			})
			return types.ErrorQualType(nil), nil
		}
		constant &= qt.Quals
	}
	return types.QualType{Type: v.Interner.Array(elemType, int64(len(a.Elems))), Quals: constant}, nil
}

func (v *TypeVerifier) verifyTuple(s *Scheduler, ctx *Context, t *ast.Tuple) (types.QualType, error) {
	elems := make([]types.Type, len(t.Elems))
	constant := types.Const
	for i, e := range t.Elems {
		qt, err := v.verifyExpr(s, ctx, e)
		if err != nil {
			return types.QualType{}, err
		}
		elems[i] = qt.Type
		constant &= qt.Quals
	}
	return types.QualType{Type: v.Interner.Tuple(elems), Quals: constant}, nil
}

func (v *TypeVerifier) verifyCast(s *Scheduler, ctx *Context, c *ast.Cast) (types.QualType, error) {
	valueQT, err := v.verifyExpr(s, ctx, c.Value)
	if err != nil {
		return types.QualType{}, err
	}
	targetQT, err := v.verifyExpr(s, ctx, c.TypeExpr)
	if err != nil {
		return types.QualType{}, err
	}
	// TypeExpr evaluates to a type-valued expression (LitType terminal, a
	// type name, or a composite type expression); its own QualType.Type
	// names the destination. Legality of the specific from->to pair is
	// Meet/Join's job, not the cast's.
	return types.QualType{Type: targetQT.Type, Quals: valueQT.Quals &^ types.Ref}, nil
}

// verifyPatternMatch implements spec §4.8: the scrutinee is folded to a
// compile-time value, then matched structurally against pattern, binding
// each BinderPattern's concrete value into ctx as it goes. A successful
// match types as Bool; a failed one reports the pattern-error diagnostic
// Match chose and poisons the expression.
func (v *TypeVerifier) verifyPatternMatch(s *Scheduler, ctx *Context, pm *ast.PatternMatch) (types.QualType, error) {
	valueQT, err := v.verifyExpr(s, ctx, pm.Value)
	if err != nil {
		return types.QualType{}, err
	}
	if valueQT.Poisoned() {
		return types.ErrorQualType(nil), nil
	}
	if v.Evaluate == nil {
		v.emit(diag.Diagnostic{
			Category: diag.CategoryPatternError,
			Name:     diag.NamePatternMatchingFailed,
			Severity: diag.SeverityError,
			Message:  "pattern matching requires a compile-time evaluator, none is configured",
		})
		return types.ErrorQualType(nil), nil
	}
	cv, err := v.Evaluate(ctx, pm.Value)
	if err != nil {
		v.emit(diag.Diagnostic{
			Category: diag.CategoryPatternError,
			Name:     diag.NamePatternMatchingFailed,
			Severity: diag.SeverityError,
			Message:  err.Error(),
		})
		return types.ErrorQualType(nil), nil
	}

	binders := map[string]*ast.Declaration{}
	collectBinders(pm.Pattern, binders)
	declFor := func(name string) *ast.Declaration { return binders[name] }

	matchErr := Match(ctx, v.Interner, pm.Pattern, ConstValue{Type: cv.Type, Bytes: cv.Bytes, Int: cv.Int}, declFor)
	if matchErr != nil {
		name := diag.NamePatternMatchingFailed
		if mf, ok := matchErr.(*MatchFailure); ok {
			name = mf.Name
		}
		v.emit(diag.Diagnostic{
			Category: diag.CategoryPatternError,
			Name:     name,
			Severity: diag.SeverityError,
			Message:  matchErr.Error(),
		})
		return types.ErrorQualType(nil), nil
	}
	for _, decl := range binders {
		s.memo[Item{Kind: VerifyType, Node: decl, Ctx: ctx}] = true
	}
	return types.QualType{Type: types.Bool, Quals: types.Const}, nil
}

// collectBinders walks pattern gathering every BinderPattern's synthetic
// Declaration by name, the lookup table Match's declFor callback consults.
func collectBinders(pattern ast.Pattern, out map[string]*ast.Declaration) {
	switch p := pattern.(type) {
	case *ast.BinderPattern:
		out[p.Name] = p.Decl
	case *ast.ArithmeticPattern:
		collectBinders(p.Sub, out)
	case *ast.TypePattern:
		collectBinders(p.Sub, out)
		if p.Len != nil {
			collectBinders(p.Len, out)
		}
	}
}

func (v *TypeVerifier) verifyImport(s *Scheduler, ctx *Context, imp *ast.Import) (types.QualType, error) {
	modID, err := v.Importer.Import(imp.Locator)
	if err != nil {
		v.emit(diag.Diagnostic{
			Category: diag.CategoryValueError,
			Name:     diag.NameInvalidImport,
			Severity: diag.SeverityError,
			Message:  err.Error(),
		})
		return types.ErrorQualType(nil), nil
	}
	ctx.SetImportedModule(imp, modID)
	return types.QualType{Type: types.ModuleType, Quals: types.Const}, nil
}
