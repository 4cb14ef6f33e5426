package ast

// Argument is one ordered (and possibly named) call-site argument.
type Argument struct {
	Name  string // "" for a positional argument
	Value Expr
}

// Call is `callee(orderedArgs)`.
type Call struct {
	NodeBase
	Callee Expr
	Args   []Argument
}

func (c *Call) exprNode() {}

// ParameterizedExpression is the struct-of-common-fields shared by every
// literal that can take compile-time parameters — function, struct, scope,
// and jump literals embed it by composition rather than inheritance (spec
// §3.3, §9 "Deep inheritance in AST": "ParameterizedExpression is a
// struct-of-common-fields, not a base class").
type ParameterizedExpression struct {
	Params     []*Declaration
	Dependency *DependencyGraph
}

// IsGeneric reports whether any parameter is Const or carries a dependent
// type, the trigger condition for instantiation (spec §4.6 "Trigger").
func (p *ParameterizedExpression) IsGeneric() bool {
	for _, param := range p.Params {
		if param.Flags.Has(FlagConst) {
			return true
		}
		if dep, ok := param.TypeExpr.(*ArgumentType); ok {
			_ = dep
			return true
		}
	}
	return false
}

// ArgumentType is the `$` / `$x` dependent-type-parameter syntax (spec
// §4.6.1): "infer this parameter's type from the actual argument's type;
// if named, require equality with the named parameter's inferred type."
type ArgumentType struct {
	NodeBase
	DependsOn string // "" for bare `$`, else the name of another parameter
}

func (a *ArgumentType) exprNode() {}

// DependencyGraph orders a ParameterizedExpression's parameters so that a
// `$x`-typed parameter is verified after the parameter `x` it depends on
// (spec §4.6.1; supplemented from original_source's
// ast/build_param_dependency_graph.h and src/DependencySystem.cpp, see
// SPEC_FULL.md).
type DependencyGraph struct {
	// Order lists parameter indices in a valid verification order: a
	// topological sort of the "depends on" edges built from ArgumentType
	// parameters.
	Order []int
}

// BuildDependencyGraph computes a verification order for params: any
// parameter whose TypeExpr is an *ArgumentType naming another parameter
// must be ordered after that parameter. Otherwise parameters follow their
// declared order, except that a depended-on parameter is placed as soon as
// its first dependent is reached, which can put it ahead of earlier
// independent parameters. Returns an error if the graph has a cycle
// (e.g. two parameters depending on each other).
func BuildDependencyGraph(params []*Declaration) (*DependencyGraph, error) {
	n := len(params)
	indexOf := make(map[string]int, n)
	for i, p := range params {
		indexOf[p.Name] = i
	}

	deps := make([][]int, n)
	for i, p := range params {
		if at, ok := p.TypeExpr.(*ArgumentType); ok && at.DependsOn != "" {
			if j, ok := indexOf[at.DependsOn]; ok {
				deps[i] = append(deps[i], j)
			}
		}
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make([]int, n)
	order := make([]int, 0, n)
	var visit func(i int) error
	visit = func(i int) error {
		switch color[i] {
		case black:
			return nil
		case gray:
			return dependencyCycleError{param: params[i].Name}
		}
		color[i] = gray
		for _, j := range deps[i] {
			if err := visit(j); err != nil {
				return err
			}
		}
		color[i] = black
		order = append(order, i)
		return nil
	}
	for i := range params {
		if err := visit(i); err != nil {
			return nil, err
		}
	}
	return &DependencyGraph{Order: order}, nil
}

type dependencyCycleError struct{ param string }

func (e dependencyCycleError) Error() string {
	return "ast: dependent-parameter cycle through `" + e.param + "`"
}
