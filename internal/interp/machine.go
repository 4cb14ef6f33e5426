package interp

import (
	"fmt"

	"github.com/icarus-lang/icarus/internal/ast"
	"github.com/icarus-lang/icarus/internal/compiler"
	"github.com/icarus-lang/icarus/internal/ir"
	"github.com/icarus-lang/icarus/internal/types"
)

// Machine owns the growing set of lowered Subroutines a running program
// can call into, and lazily lowers a callee Declaration's body the first
// time a CallCombo names it. One Machine backs a whole compilation; its
// Program, if set, already holds Subroutines emitted ahead of time by the
// scheduler's EmitFunctionBody/EmitShortFunctionBody/EmitScopeBody items —
// Lower only runs for callees the scheduler never reached on its own, which
// in practice is every ordinary (non-entry-point) function, since only the
// executable's synthesized entry point is scheduled for emission eagerly.
type Machine struct {
	Interner *types.Interner
	Program  *ir.Program

	names  map[*ast.Declaration]string
	declOf map[string]*ast.Declaration
	ctxOf  map[string]*compiler.Context
	subs   map[string]*ir.Subroutine
	seq    int
}

func NewMachine(interner *types.Interner) *Machine {
	return &Machine{
		Interner: interner,
		names:    make(map[*ast.Declaration]string),
		declOf:   make(map[string]*ast.Declaration),
		ctxOf:    make(map[string]*compiler.Context),
		subs:     make(map[string]*ir.Subroutine),
	}
}

// NameFor assigns a stable name to decl, minting one on first use.
func (m *Machine) NameFor(decl *ast.Declaration) string {
	if n, ok := m.names[decl]; ok {
		return n
	}
	n := fmt.Sprintf("%s$%d", decl.Name, m.seq)
	m.seq++
	m.names[decl] = n
	return n
}

// BindCallee implements ir.BindCallee: it names decl and remembers ctx
// alongside that name, so a later OpCall naming it by string (the only
// information a CallCombo carries at runtime) can still find its way back
// to decl for lazy lowering.
func (m *Machine) BindCallee(ctx *compiler.Context, decl *ast.Declaration) string {
	name := m.NameFor(decl)
	if _, ok := m.declOf[name]; !ok {
		m.declOf[name] = decl
		m.ctxOf[name] = ctx
	}
	return name
}

// resolveCallee returns the Subroutine a CallCombo's Callee name refers to,
// lowering it on first reference.
func (m *Machine) resolveCallee(name string) (*ir.Subroutine, error) {
	if sub, ok := m.subs[name]; ok {
		return sub, nil
	}
	decl, ok := m.declOf[name]
	if !ok {
		return nil, fmt.Errorf("interp: unresolved callee %q", name)
	}
	if m.Program != nil {
		if sub, ok := m.Program.SubroutineFor(decl.InitVal); ok {
			m.subs[name] = sub
			return sub, nil
		}
	}
	return m.Lower(m.ctxOf[name], decl)
}

// Lower returns the Subroutine named name, lowering decl's body under ctx
// on first request and caching the result.
func (m *Machine) Lower(ctx *compiler.Context, decl *ast.Declaration) (*ir.Subroutine, error) {
	name := m.NameFor(decl)
	if sub, ok := m.subs[name]; ok {
		return sub, nil
	}
	if m.Program != nil {
		if sub, ok := m.Program.SubroutineFor(decl.InitVal); ok {
			m.subs[name] = sub
			return sub, nil
		}
	}
	nameGen := func(d *ast.Declaration) string { return m.BindCallee(ctx, d) }
	builder := ir.NewBuilder(m.Interner, ctx, name, nameGen)
	var sub *ir.Subroutine
	var err error
	switch fn := decl.InitVal.(type) {
	case *ast.FunctionLiteral:
		sub, err = builder.BuildFunction(fn)
	case *ast.ShortFunctionLiteral:
		sub, err = builder.BuildShortFunction(fn)
	default:
		return nil, fmt.Errorf("interp: declaration %q has no lowerable body", decl.Name)
	}
	if err != nil {
		return nil, err
	}
	m.subs[name] = sub
	return sub, nil
}
