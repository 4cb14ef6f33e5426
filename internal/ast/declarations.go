package ast

// DeclFlags are the flag bits a Declaration can carry (spec §3.3).
type DeclFlags uint8

const (
	FlagFnParam DeclFlags = 1 << iota
	FlagOutput
	FlagConst
	FlagInitIsHole
)

func (f DeclFlags) Has(bit DeclFlags) bool { return f&bit != 0 }

// Declaration binds a name to an optional type expression and/or initial
// value (spec §3.3). The same struct represents a local variable, a
// top-level constant, a function parameter, and a named output.
type Declaration struct {
	NodeBase
	Name     string
	TypeExpr Expr // nil if the type is to be inferred from InitVal
	InitVal  Expr // nil if uninitialized (see HasNoInitializer)
	Flags    DeclFlags
	Hashtags []string

	// Default, for a function-parameter Declaration, is the expression
	// supplied when the caller omits this argument. nil means the
	// parameter has no default (see HasNoDefault).
	Default Expr
}

func (d *Declaration) exprNode() {}
func (d *Declaration) stmtNode() {}

// HasNoInitializer reports whether this declaration was written without an
// initial value — distinct from HasNoDefault, which asks the same question
// about a *function argument's* default (spec §9 "IsDefaultInitialized
// naming": the two concepts are kept separate and given separate names).
func (d *Declaration) HasNoInitializer() bool {
	return d.InitVal == nil || d.Flags.Has(FlagInitIsHole)
}

// HasNoDefault reports whether a function-parameter Declaration supplies no
// default expression for an omitted argument.
func (d *Declaration) HasNoDefault() bool {
	return d.Default == nil
}

// HasHashtag reports whether tag is attached to the declaration (e.g.
// "Export", spec §6.4).
func (d *Declaration) HasHashtag(tag string) bool {
	for _, h := range d.Hashtags {
		if h == tag {
			return true
		}
	}
	return false
}
