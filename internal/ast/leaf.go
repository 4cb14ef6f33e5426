package ast

import "github.com/icarus-lang/icarus/internal/types"

// LiteralKind tags the handful of literal forms a Terminal can hold.
type LiteralKind int

const (
	LitBool LiteralKind = iota
	LitChar
	LitInteger
	LitFloat
	LitString
	LitNullPtr
	LitType // a type-valued literal, e.g. `i64` used as an expression
)

// Terminal is a typed literal (spec §3.3).
type Terminal struct {
	NodeBase
	Lit   LiteralKind
	Value any // bool, rune, int64, float64, string, or types.Type for LitType
}

func (t *Terminal) exprNode()       {}
func (t *Terminal) setScope(s *Scope) { t.Scope = s }

// TerminalType maps a literal straight to its primitive type without
// requiring full verification (spec §4.6.1 original-source supplement,
// SPEC_FULL.md "TerminalType"). Used by the Evaluator when constant-folding
// a literal subexpression.
func TerminalType(t *Terminal) types.Type {
	switch t.Lit {
	case LitBool:
		return types.Bool
	case LitChar:
		return types.Char
	case LitInteger:
		return types.I64
	case LitFloat:
		return types.F64
	case LitString:
		return types.Void // string literals have no string type here; they type as Void
	case LitNullPtr:
		return types.NullPtr
	case LitType:
		return types.TypeType
	default:
		return nil
	}
}

// Identifier is a name reference resolved against the enclosing scope.
type Identifier struct {
	NodeBase
	Name string
}

func (i *Identifier) exprNode()         {}
func (i *Identifier) setScope(s *Scope) { i.Scope = s }

// BuiltinFn references one of the small set of compiler-known builtins
// (e.g. `foreign`, `debug_ir`) that are not ordinary declarations.
type BuiltinFn struct {
	NodeBase
	Name string
}

func (b *BuiltinFn) exprNode()         {}
func (b *BuiltinFn) setScope(s *Scope) { b.Scope = s }

// Label names a jump target for Goto/YieldStmt.
type Label struct {
	NodeBase
	Name string
}

func (l *Label) exprNode()         {}
func (l *Label) setScope(s *Scope) { l.Scope = s }

// Hole is the `--` uninitialized marker.
type Hole struct {
	NodeBase
}

func (h *Hole) exprNode()         {}
func (h *Hole) setScope(s *Scope) { h.Scope = s }
