package ir

import (
	"fmt"

	"github.com/icarus-lang/icarus/internal/ast"
	"github.com/icarus-lang/icarus/internal/compiler"
	"github.com/icarus-lang/icarus/internal/types"
)

// BindCallee assigns a call-site name to a callee Declaration under ctx and
// records enough to lower that declaration's body later if it was never
// scheduled for emission ahead of time. internal/interp.Machine implements
// this; every Builder this package or internal/interp constructs shares the
// same BindCallee so a name minted while lowering one body resolves to the
// same Subroutine when referenced from another.
type BindCallee func(ctx *compiler.Context, decl *ast.Declaration) string

// Program collects the Subroutines lowered while draining a Scheduler's
// EmitFunctionBody/EmitShortFunctionBody/EmitScopeBody work items. One
// Program is created per compiled module.
type Program struct {
	Interner   *types.Interner
	BindCallee BindCallee

	subs map[ast.Node]*Subroutine
}

// NewProgram creates an empty Program. bindCallee must be shared with every
// Builder the caller constructs directly (e.g. internal/interp's on-demand
// callee lowering) so names stay consistent across the whole compilation.
func NewProgram(interner *types.Interner, bindCallee BindCallee) *Program {
	return &Program{Interner: interner, BindCallee: bindCallee, subs: make(map[ast.Node]*Subroutine)}
}

// SubroutineFor returns the Subroutine lowered for node, if any.
func (p *Program) SubroutineFor(node ast.Node) (*Subroutine, bool) {
	sub, ok := p.subs[node]
	return sub, ok
}

// Subroutines returns every Subroutine lowered so far, in no particular
// order. cmd/icarusc's emit command uses this to print a whole program's
// IR after verification completes.
func (p *Program) Subroutines() []*Subroutine {
	out := make([]*Subroutine, 0, len(p.subs))
	for _, sub := range p.subs {
		out = append(out, sub)
	}
	return out
}

// RegisterHandlers installs this Program's Emit* handlers onto s.
func (p *Program) RegisterHandlers(s *compiler.Scheduler) {
	s.RegisterHandler(compiler.EmitFunctionBody, p.handleFunctionBody)
	s.RegisterHandler(compiler.EmitShortFunctionBody, p.handleShortFunctionBody)
	s.RegisterHandler(compiler.EmitScopeBody, p.handleScopeBody)
}

func (p *Program) nameFuncFor(ctx *compiler.Context) NameFunc {
	return func(decl *ast.Declaration) string { return p.BindCallee(ctx, decl) }
}

func (p *Program) handleFunctionBody(_ *compiler.Scheduler, item compiler.Item) error {
	fn, ok := item.Node.(*ast.FunctionLiteral)
	if !ok {
		return fmt.Errorf("ir: EmitFunctionBody on %T", item.Node)
	}
	b := NewBuilder(p.Interner, item.Ctx, fmt.Sprintf("fn@%p", item.Node), p.nameFuncFor(item.Ctx))
	sub, err := b.BuildFunction(fn)
	if err != nil {
		return err
	}
	p.subs[item.Node] = sub
	return nil
}

func (p *Program) handleShortFunctionBody(_ *compiler.Scheduler, item compiler.Item) error {
	fn, ok := item.Node.(*ast.ShortFunctionLiteral)
	if !ok {
		return fmt.Errorf("ir: EmitShortFunctionBody on %T", item.Node)
	}
	b := NewBuilder(p.Interner, item.Ctx, fmt.Sprintf("shortfn@%p", item.Node), p.nameFuncFor(item.Ctx))
	sub, err := b.BuildShortFunction(fn)
	if err != nil {
		return err
	}
	p.subs[item.Node] = sub
	return nil
}

// handleScopeBody lowers a ScopeLiteral's declaration list as a flat
// sequential body. Full scope lowering (inline expansion of named blocks at
// each use-site, driven by the Jump/Goto graph of the scope's `init`) is not
// implemented — this handler only covers scopes whose Decls are ordinary
// statements with no named-block jumps, which is enough for a scope used
// purely as a grouping construct.
func (p *Program) handleScopeBody(_ *compiler.Scheduler, item compiler.Item) error {
	lit, ok := item.Node.(*ast.ScopeLiteral)
	if !ok {
		return fmt.Errorf("ir: EmitScopeBody on %T", item.Node)
	}
	b := NewBuilder(p.Interner, item.Ctx, fmt.Sprintf("scope@%p", item.Node), p.nameFuncFor(item.Ctx))
	b.cur = b.sub.NewBlock("entry")
	b.sub.ParamRegsStart = b.sub.nextReg
	if err := b.emitBlock(lit.Decls); err != nil {
		return err
	}
	b.terminateFallthrough()
	p.subs[item.Node] = b.sub
	return nil
}
