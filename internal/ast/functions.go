package ast

// FunctionLiteral is `(params) -> (outputs) { stmts }`. Embeds
// ParameterizedExpression so that a Const or dependently-typed parameter
// makes it generic (spec §4.6).
type FunctionLiteral struct {
	NodeBase
	ParameterizedExpression
	Outputs []*Declaration // nil if the output types are inferred from ReturnStmts
	Stmts   []Node
	Inner   *Scope
}

func (f *FunctionLiteral) exprNode() {}

// ShortFunctionLiteral is `(params) => expr`, a single-expression-bodied
// lambda form.
type ShortFunctionLiteral struct {
	NodeBase
	ParameterizedExpression
	Body  Expr
	Inner *Scope
}

func (f *ShortFunctionLiteral) exprNode() {}
