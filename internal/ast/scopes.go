package ast

// ScopeLiteral defines a user-defined control construct (`if`, `while`,
// `for_each`, ...): an `init` jump, a `done` function, and named blocks
// each with `before`/`after` overload sets (spec §3.3, §4.7 "Scope
// lowering"). A ScopeLiteral *defines* the construct; a ScopeNode *uses*
// one (spec GLOSSARY).
type ScopeLiteral struct {
	NodeBase
	StateType Expr // nil if the scope carries no state
	Decls     []Node
	Inner     *Scope
}

func (s *ScopeLiteral) exprNode() {}

// BlockReference is one named block invocation inside a ScopeNode, e.g.
// `body { ... }` or `body(x, y) { ... }`.
type BlockReference struct {
	Name  string
	Args  []Argument // empty when the block reference has no argument list
	Block *BlockNode
}

// ScopeNode *uses* a previously-defined ScopeLiteral: it evaluates its own
// arguments, stack-allocates optional state, and inline-expands the
// matching named blocks (spec §4.7 "Scope lowering").
type ScopeNode struct {
	NodeBase
	Name   Expr // the scope literal being invoked, usually an Identifier
	Args   []Argument
	Blocks []BlockReference
}

func (s *ScopeNode) exprNode() {}

// BlockLiteral is the `before`/`after` overload-set pair attached to one
// named block of a ScopeLiteral.
type BlockLiteral struct {
	NodeBase
	Before []Node
	After  []Node
}

func (b *BlockLiteral) exprNode() {}

// BlockNode is one body block inside a ScopeNode use-site. Per spec §9's
// resolved open question, BlockNode always carries a parameter list (the
// parameterized form); a block reference supplying no argument list passes
// `()` — Params is simply empty in that case, not nil-vs-empty-distinguished.
type BlockNode struct {
	NodeBase
	Name   string
	Params []*Declaration
	Stmts  []Node
}

func (b *BlockNode) stmtNode() {}

// Jump transfers control into a ScopeLiteral's `init`, or between named
// blocks. Embeds ParameterizedExpression because a jump literal may itself
// take compile-time parameters (spec §3.3, §4.6 "function literals, struct
// literals, and scope literals").
type Jump struct {
	NodeBase
	ParameterizedExpression
	Options []Goto
}

func (j *Jump) stmtNode() {}

// Goto is one candidate destination of a Jump, guarded by an optional
// condition.
type Goto struct {
	Cond Expr // nil for an unconditional option
	To   string
	Args []Argument
}
