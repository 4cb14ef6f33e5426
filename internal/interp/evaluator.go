package interp

import (
	"fmt"

	"github.com/icarus-lang/icarus/internal/ast"
	"github.com/icarus-lang/icarus/internal/compiler"
	"github.com/icarus-lang/icarus/internal/ir"
	"github.com/icarus-lang/icarus/internal/types"
)

// Evaluator is the compile-time constant folder: it lowers a bare
// expression through internal/ir's Builder and interprets the result,
// giving internal/compiler a way to evaluate expressions (array lengths,
// generic const-parameters, enum initializers) without that package
// depending on this one. pkg/icarus wires Evaluate/EvaluateConst onto the
// Instantiator and WorkResources this evaluates for.
type Evaluator struct {
	Machine  *Machine
	Interner *types.Interner
}

func NewEvaluator(m *Machine) *Evaluator {
	return &Evaluator{Machine: m, Interner: m.Interner}
}

// Evaluate matches compiler.WorkResources.Evaluate's signature.
func (e *Evaluator) Evaluate(ctx *compiler.Context, expr ast.Expr) (compiler.ConstValue, error) {
	bytes, qt, err := e.EvaluateConst(ctx, expr)
	if err != nil {
		return compiler.ConstValue{}, err
	}
	cv := compiler.ConstValue{Type: qt.Type, Bytes: bytes}
	if p, ok := qt.Type.(*types.Primitive); ok && p.IsInteger() {
		cv.Int = decodeInt(bytes, p.IsSigned())
	}
	return cv, nil
}

// EvaluateConst matches compiler.Instantiator.EvaluateConst's signature.
func (e *Evaluator) EvaluateConst(ctx *compiler.Context, expr ast.Expr) ([]byte, types.QualType, error) {
	qt, ok := ctx.QualTypeOf(expr)
	if !ok {
		return nil, types.QualType{}, fmt.Errorf("interp: no static type recorded for constant expression")
	}
	if qt.Poisoned() {
		return nil, qt, fmt.Errorf("interp: cannot evaluate a poisoned expression")
	}
	nameGen := func(d *ast.Declaration) string { return e.Machine.BindCallee(ctx, d) }
	builder := ir.NewBuilder(e.Interner, ctx, fmt.Sprintf("const@%p", expr), nameGen)
	sub, err := builder.BuildExpr(expr)
	if err != nil {
		return nil, qt, err
	}
	ret, err := e.Machine.Run(sub, &heap{}, nil)
	if err != nil {
		return nil, qt, err
	}
	return ret, qt, nil
}
