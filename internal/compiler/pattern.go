package compiler

import (
	"fmt"

	"github.com/icarus-lang/icarus/internal/ast"
	"github.com/icarus-lang/icarus/internal/types"
)

// ConstValue is a compile-time value produced by the Evaluator, passed
// into pattern matching without this package depending on internal/interp
// (spec §4.7 evaluator results feed §4.8 pattern matching).
type ConstValue struct {
	Type  types.Type
	Bytes []byte
	Int   int64 // decoded integer form, when Type is an integer primitive
}

// MatchFailure is returned (never panicked) when a pattern cannot match;
// it carries the diag name to report, distinguishing "not sufficiently
// simple" arithmetic patterns from plain type mismatches (spec §4.8).
type MatchFailure struct {
	Name    string
	Message string
}

func (m *MatchFailure) Error() string { return m.Message }

// Match recursively walks pattern against value, binding each binder's
// concrete value into ctx.constants on success (spec §4.8: "records each
// binder's concrete value into the current Context.constants").
// declFor supplies the synthetic Declaration a BinderPattern's name should
// bind to (the verifier passes back the Decl that ast.Initialize attached
// to each BinderPattern, so later lookups resolve to it).
func Match(ctx *Context, interner *types.Interner, pattern ast.Pattern, value ConstValue, declFor func(name string) *ast.Declaration) error {
	switch p := pattern.(type) {
	case *ast.BinderPattern:
		decl := declFor(p.Name)
		ctx.SetQualType(decl, types.QualType{Type: value.Type, Quals: types.Const})
		ctx.SetConstant(decl, value.Bytes, true)
		return nil

	case *ast.LiteralPattern:
		lit, ok := p.Value.(*ast.Terminal)
		if !ok {
			return &MatchFailure{Name: "pattern-matching-failed", Message: "literal pattern value is not a terminal"}
		}
		if !literalEquals(lit, value) {
			return &MatchFailure{Name: "pattern-matching-failed", Message: "value does not equal literal pattern"}
		}
		return nil

	case *ast.ArithmeticPattern:
		return matchArithmetic(ctx, interner, p, value, declFor)

	case *ast.TypePattern:
		return matchType(ctx, interner, p, value, declFor)

	default:
		return &MatchFailure{Name: "pattern-matching-failed", Message: fmt.Sprintf("unhandled pattern %T", pattern)}
	}
}

func literalEquals(lit *ast.Terminal, value ConstValue) bool {
	switch v := lit.Value.(type) {
	case int64:
		return value.Int == v
	default:
		return false
	}
}

// matchArithmetic inverts `sub OP constant` (or `constant OP sub`) around
// the known constant operand, then recurses into Sub with the inverted
// value (spec §4.8 "invert the operation when one side is a known
// constant, else diagnose 'pattern not sufficiently simple'").
func matchArithmetic(ctx *Context, interner *types.Interner, p *ast.ArithmeticPattern, value ConstValue, declFor func(string) *ast.Declaration) error {
	constLit, ok := p.Constant.(*ast.Terminal)
	if !ok {
		return &MatchFailure{Name: "pattern-matching-failed", Message: "pattern not sufficiently simple: non-constant operand"}
	}
	k, ok := constLit.Value.(int64)
	if !ok {
		return &MatchFailure{Name: "pattern-matching-failed", Message: "pattern not sufficiently simple: non-integer constant"}
	}

	var inverted int64
	switch p.Op {
	case ast.OpAdd:
		inverted = value.Int - k
	case ast.OpSub:
		if p.ConstOnLeft {
			inverted = k - value.Int
		} else {
			inverted = value.Int + k
		}
	case ast.OpMul:
		if k == 0 || value.Int%k != 0 {
			return &MatchFailure{Name: "pattern-matching-failed", Message: "value not evenly divisible by pattern factor"}
		}
		inverted = value.Int / k
	default:
		return &MatchFailure{Name: "pattern-matching-failed", Message: "pattern not sufficiently simple: uninvertible operator"}
	}

	return Match(ctx, interner, p.Sub, ConstValue{Type: value.Type, Int: inverted}, declFor)
}

func matchType(ctx *Context, interner *types.Interner, p *ast.TypePattern, value ConstValue, declFor func(string) *ast.Declaration) error {
	switch p.Shape {
	case ast.TypePatternPtr:
		ptr, ok := value.Type.(*types.PtrType)
		if !ok {
			return &MatchFailure{Name: "pattern-type-mismatch", Message: "expected a pointer type"}
		}
		return Match(ctx, interner, p.Sub, ConstValue{Type: ptr.Pointee}, declFor)

	case ast.TypePatternSlice:
		sl, ok := value.Type.(*types.SliceType)
		if !ok {
			return &MatchFailure{Name: "pattern-type-mismatch", Message: "expected a slice type"}
		}
		return Match(ctx, interner, p.Sub, ConstValue{Type: sl.Elem.Elem}, declFor)

	case ast.TypePatternArrayFixed:
		arr, ok := value.Type.(*types.ArrayType)
		if !ok {
			return &MatchFailure{Name: "pattern-type-mismatch", Message: "expected a fixed-length array type"}
		}
		if p.Len != nil {
			if err := Match(ctx, interner, p.Len, ConstValue{Type: types.I64, Int: arr.Len}, declFor); err != nil {
				return err
			}
		}
		return Match(ctx, interner, p.Sub, ConstValue{Type: arr.Elem}, declFor)

	default:
		return &MatchFailure{Name: "pattern-type-mismatch", Message: "unknown type pattern shape"}
	}
}
