package ast

// ArrayLiteral is `[e1, e2, ...]`; its type is the Join of its elements'
// types (spec §4.1).
type ArrayLiteral struct {
	NodeBase
	Elems []Expr
}

func (a *ArrayLiteral) exprNode() {}

// ArrayType is a type expression `[n1, n2, ...; DataType]` — one or more
// length expressions (possibly compile-time-dependent) applied to an
// element type expression.
type ArrayType struct {
	NodeBase
	Lengths  []Expr
	DataType Expr
}

func (a *ArrayType) exprNode() {}

// FunctionType is a type expression `(params) -> (outputs)`.
type FunctionType struct {
	NodeBase
	Params  []Expr
	Outputs []Expr
}

func (f *FunctionType) exprNode() {}

// StructLiteral is `struct { field: Type = init; ... }` with no compile-time
// parameters.
type StructLiteral struct {
	NodeBase
	Name   string
	Fields []*Declaration
	Inner  *Scope
}

func (s *StructLiteral) exprNode() {}

// ParameterizedStructLiteral is `struct(T: type, ...) { ... }`: a generic
// struct literal (spec §3.3, §4.6).
type ParameterizedStructLiteral struct {
	NodeBase
	ParameterizedExpression
	Name  string
	Body  *StructLiteral
	Inner *Scope
}

func (s *ParameterizedStructLiteral) exprNode() {}

// EnumLiteralKind distinguishes a plain Enum from a Flags (bitset) literal.
type EnumLiteralKind int

const (
	EnumKindEnum EnumLiteralKind = iota
	EnumKindFlags
)

// EnumLiteral is `enum { A; B = 4; ... }` or `flags { A; B; ... }`.
type EnumLiteral struct {
	NodeBase
	Kind    EnumLiteralKind
	Name    string
	Members []EnumMember
}

func (e *EnumLiteral) exprNode() {}

// EnumMember is one `Name` or `Name = expr` entry inside an EnumLiteral.
type EnumMember struct {
	Name  string
	Value Expr // nil for an implicitly-assigned discriminant
}

// SliceType is a type expression `[]ElemType`.
type SliceType struct {
	NodeBase
	ElemType Expr
}

func (s *SliceType) exprNode() {}

// Tuple is a type or value expression `(e1, e2, ...)` of more than one
// element (a single-element parenthesized expression is not a Tuple node,
// matching the Tup({T})==T normalization rule, spec §4.1).
type Tuple struct {
	NodeBase
	Elems []Expr
}

func (t *Tuple) exprNode() {}
