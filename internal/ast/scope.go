package ast

// ScopeKind distinguishes the handful of scope flavors that matter to name
// resolution (spec §3.3).
type ScopeKind int

const (
	ModuleScopeKind ScopeKind = iota
	FunctionScopeKind
	BlockScopeKind
	ScopeLiteralScopeKind
)

// Scope is a node in the tree rooted at the module scope (spec §3.3). Each
// scope holds a multimap from identifier text to owning declarations, plus
// a list of embedded modules whose exports are transparently visible as if
// declared locally (spec GLOSSARY "Embedded module").
type Scope struct {
	Kind     ScopeKind
	Parent   *Scope
	Decls    map[string][]*Declaration
	Embedded []*Scope
}

// NewScope creates a scope of the given kind as a child of parent (nil for
// the root module scope).
func NewScope(kind ScopeKind, parent *Scope) *Scope {
	return &Scope{Kind: kind, Parent: parent, Decls: make(map[string][]*Declaration)}
}

// Declare registers decl under its identifier's text in s. Multiple
// declarations may share a name (overload sets, spec §4.5); all are kept.
func (s *Scope) Declare(name string, decl *Declaration) {
	s.Decls[name] = append(s.Decls[name], decl)
}

// Embed adds embedded as a transparently-visible source of names for s
// (an `import`'s module scope, for instance).
func (s *Scope) Embed(embedded *Scope) {
	s.Embedded = append(s.Embedded, embedded)
}

// Lookup walks from s toward the root, and at each level also consults
// embedded scopes, collecting every declaration visible under name. This is
// the core name-resolution rule used to build overload sets (spec §4.5).
func (s *Scope) Lookup(name string) []*Declaration {
	var found []*Declaration
	for cur := s; cur != nil; cur = cur.Parent {
		found = append(found, cur.Decls[name]...)
		for _, emb := range cur.Embedded {
			found = append(found, emb.Decls[name]...)
		}
	}
	return found
}

// LookupLocal returns only the declarations made directly in s (not walking
// to the parent), used when checking for illegal local redeclaration.
func (s *Scope) LookupLocal(name string) []*Declaration {
	return s.Decls[name]
}

// Initialize wires scope pointers over an AST rooted at nodes, assigning
// each node's NodeBase.Scope before any verification work begins (spec
// §3.3: "Every node stores a non-owning pointer to its enclosing scope,
// written by Initialize(scope) before verification."). It also declares
// every top-level Declaration.Name into scope, since name resolution for
// forward references depends on every sibling having been declared first
// (spec §4.4 "Dependency order for declarations").
func Initialize(scope *Scope, nodes []Node) {
	for _, n := range nodes {
		initializeNode(scope, n)
	}
}

func initializeNode(scope *Scope, n Node) {
	switch v := n.(type) {
	case *Declaration:
		v.Scope = scope
		scope.Declare(v.Name, v)
		if v.TypeExpr != nil {
			initializeNode(scope, v.TypeExpr)
		}
		if v.InitVal != nil {
			initializeNode(scope, v.InitVal)
		}
	case *Assignment:
		v.Scope = scope
		for _, lhs := range v.LHS {
			initializeNode(scope, lhs)
		}
		for _, rhs := range v.RHS {
			initializeNode(scope, rhs)
		}
	case *IfStmt:
		v.Scope = scope
		initializeNode(scope, v.Cond)
		inner := NewScope(BlockScopeKind, scope)
		Initialize(inner, v.Then)
		if v.Else != nil {
			elseScope := NewScope(BlockScopeKind, scope)
			Initialize(elseScope, v.Else)
		}
	case *WhileStmt:
		v.Scope = scope
		initializeNode(scope, v.Cond)
		inner := NewScope(BlockScopeKind, scope)
		Initialize(inner, v.Body)
	case *FunctionLiteral:
		v.Scope = scope
		inner := NewScope(FunctionScopeKind, scope)
		v.Inner = inner
		v.Dependency, _ = BuildDependencyGraph(v.Params)
		for _, p := range v.Params {
			initializeNode(inner, p)
		}
		for _, o := range v.Outputs {
			initializeNode(inner, o)
		}
		Initialize(inner, v.Stmts)
	case *ShortFunctionLiteral:
		v.Scope = scope
		inner := NewScope(FunctionScopeKind, scope)
		v.Inner = inner
		v.Dependency, _ = BuildDependencyGraph(v.Params)
		for _, p := range v.Params {
			initializeNode(inner, p)
		}
		initializeNode(inner, v.Body)
	case *ScopeLiteral:
		v.Scope = scope
		inner := NewScope(ScopeLiteralScopeKind, scope)
		v.Inner = inner
		Initialize(inner, v.Decls)
	case *StructLiteral:
		v.Scope = scope
		inner := NewScope(BlockScopeKind, scope)
		v.Inner = inner
		for i := range v.Fields {
			v.Fields[i].Scope = inner
			if v.Fields[i].TypeExpr != nil {
				initializeNode(inner, v.Fields[i].TypeExpr)
			}
			if v.Fields[i].InitVal != nil {
				initializeNode(inner, v.Fields[i].InitVal)
			}
		}
	case *ParameterizedStructLiteral:
		v.Scope = scope
		inner := NewScope(BlockScopeKind, scope)
		v.Inner = inner
		v.Dependency, _ = BuildDependencyGraph(v.Params)
		for _, p := range v.Params {
			initializeNode(inner, p)
		}
		initializeNode(inner, v.Body)
	case *Binop:
		v.Scope = scope
		initializeNode(scope, v.LHS)
		initializeNode(scope, v.RHS)
	case *Unop:
		v.Scope = scope
		initializeNode(scope, v.Operand)
	case *ChainOp:
		v.Scope = scope
		for _, e := range v.Exprs {
			initializeNode(scope, e)
		}
	case *Call:
		v.Scope = scope
		initializeNode(scope, v.Callee)
		for _, a := range v.Args {
			initializeNode(scope, a.Value)
		}
	case *Access:
		v.Scope = scope
		initializeNode(scope, v.Operand)
	case *Cast:
		v.Scope = scope
		initializeNode(scope, v.Value)
		initializeNode(scope, v.TypeExpr)
	case *ArrayLiteral:
		v.Scope = scope
		for _, e := range v.Elems {
			initializeNode(scope, e)
		}
	case *ReturnStmt:
		v.Scope = scope
		for _, e := range v.Exprs {
			initializeNode(scope, e)
		}
	case *YieldStmt:
		v.Scope = scope
		for _, e := range v.Exprs {
			initializeNode(scope, e)
		}
	case *Import:
		v.Scope = scope
	case *PatternMatch:
		v.Scope = scope
		initializeNode(scope, v.Value)
		initializePattern(scope, v.Pattern)
	case *Switch:
		v.Scope = scope
		initializeNode(scope, v.Scrutinee)
		for _, c := range v.Cases {
			if c.Pattern != nil {
				initializeNode(scope, c.Pattern)
			}
			Initialize(scope, c.Stmts)
		}
	case *DesignatedInitializer:
		v.Scope = scope
		initializeNode(scope, v.TypeExpr)
		for _, f := range v.Fields {
			initializeNode(scope, f.Value)
		}
	case *Tuple:
		v.Scope = scope
		for _, e := range v.Elems {
			initializeNode(scope, e)
		}
	case *SliceType:
		v.Scope = scope
		initializeNode(scope, v.ElemType)
	case *ArrayType:
		v.Scope = scope
		for _, l := range v.Lengths {
			initializeNode(scope, l)
		}
		initializeNode(scope, v.DataType)
	case *FunctionType:
		v.Scope = scope
		for _, p := range v.Params {
			initializeNode(scope, p)
		}
		for _, o := range v.Outputs {
			initializeNode(scope, o)
		}
	case *EnumLiteral:
		v.Scope = scope
		for _, m := range v.Members {
			if m.Value != nil {
				initializeNode(scope, m.Value)
			}
		}
	case *ScopeNode:
		v.Scope = scope
		initializeNode(scope, v.Name)
		for _, a := range v.Args {
			initializeNode(scope, a.Value)
		}
		for i := range v.Blocks {
			for _, a := range v.Blocks[i].Args {
				initializeNode(scope, a.Value)
			}
			if v.Blocks[i].Block != nil {
				initializeNode(scope, v.Blocks[i].Block)
			}
		}
	case *BlockNode:
		v.Scope = scope
		inner := NewScope(BlockScopeKind, scope)
		for _, p := range v.Params {
			initializeNode(inner, p)
		}
		Initialize(inner, v.Stmts)
	case *Jump:
		v.Scope = scope
		v.Dependency, _ = BuildDependencyGraph(v.Params)
		for _, p := range v.Params {
			initializeNode(scope, p)
		}
		for _, g := range v.Options {
			if g.Cond != nil {
				initializeNode(scope, g.Cond)
			}
			for _, a := range g.Args {
				initializeNode(scope, a.Value)
			}
		}
	case *ArgumentType:
		v.Scope = scope
	default:
		if settable, ok := n.(scopeSetter); ok {
			settable.setScope(scope)
		}
	}
}

// scopeSetter lets leaf nodes with no children opt into the default case
// above without an explicit switch arm each.
type scopeSetter interface {
	setScope(*Scope)
}

func initializePattern(scope *Scope, p Pattern) {
	switch v := p.(type) {
	case *BinderPattern:
		v.Scope = scope
		v.Decl = &Declaration{NodeBase: v.NodeBase, Name: v.Name, Flags: FlagConst}
		v.Decl.Scope = scope
		scope.Declare(v.Name, v.Decl)
	case *LiteralPattern:
		v.Scope = scope
		initializeNode(scope, v.Value)
	case *ArithmeticPattern:
		v.Scope = scope
		initializePattern(scope, v.Sub)
		initializeNode(scope, v.Constant)
	case *TypePattern:
		v.Scope = scope
		initializePattern(scope, v.Sub)
		if v.Len != nil {
			initializePattern(scope, v.Len)
		}
	}
}
