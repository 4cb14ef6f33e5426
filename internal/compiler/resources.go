package compiler

import (
	"github.com/icarus-lang/icarus/internal/ast"
	"github.com/icarus-lang/icarus/internal/diag"
	"github.com/icarus-lang/icarus/internal/types"
)

// SharedContext is the one piece of process-wide state the core needs:
// the type interner and whatever string/integer pooling the embedder
// wants shared across modules. It is always passed explicitly — there is
// no hidden package-level singleton (spec §9 "Global mutable state").
type SharedContext struct {
	Interner     *types.Interner
	Architecture types.Architecture
}

func NewSharedContext() *SharedContext {
	return &SharedContext{Interner: types.NewInterner(), Architecture: types.DefaultArchitecture}
}

// PersistentResources bundles the resources that live for the whole
// compiler invocation, handed to CompileLibrary/CompileExecutable (spec
// §6.3).
type PersistentResources struct {
	DiagnosticConsumer diag.Consumer
	Importer           Importer
	SharedContext      *SharedContext
	Module             *Module
}

// WorkResources is the scheduler-facing surface exposed to work-item
// handlers (spec §6.3): enqueue further work, evaluate a typed expression
// at compile time, and drain the queue.
type WorkResources struct {
	Scheduler *Scheduler
	Evaluate  func(ctx *Context, expr ast.Expr) (ConstValue, error)
}

func (w *WorkResources) Enqueue(item Item, prereqs ...Item) {
	w.Scheduler.Enqueue(item, prereqs...)
}

func (w *WorkResources) Complete() error {
	return w.Scheduler.Complete()
}

// CompiledModule is the result of CompileLibrary/CompileExecutable: the
// root context (for later IR emission) plus whether compilation failed
// (spec §7 "A module is reported as failed to compile iff the diagnostic
// consumer's error count is nonzero at complete() time").
type CompiledModule struct {
	Root   *Context
	Nodes  []ast.Node
	Failed bool

	// Entry is the synthesized entry-point FunctionLiteral CompileExecutable
	// wrapped top-level statements in, nil for a CompileLibrary result.
	Entry *ast.FunctionLiteral
}

// CompileLibrary verifies nodes as a library module: every top-level
// declaration is verified and nothing extra is synthesized. It schedules
// no body emission, so no Subroutine is lowered for a library.
func CompileLibrary(res *PersistentResources, work *WorkResources, nodes []ast.Node) (*CompiledModule, error) {
	root := NewRootContext(res.SharedContext.Interner)
	scope := ast.NewScope(ast.ModuleScopeKind, nil)
	ast.Initialize(scope, nodes)

	for _, n := range nodes {
		work.Enqueue(Item{Kind: VerifyType, Node: n, Ctx: root})
	}
	if err := work.Complete(); err != nil {
		return nil, err
	}

	failed := false
	if bc, ok := res.DiagnosticConsumer.(*diag.BufferingConsumer); ok {
		failed = bc.Failed()
	}
	return &CompiledModule{Root: root, Nodes: nodes, Failed: failed}, nil
}

// CompileExecutable does the same as CompileLibrary, then wraps the
// top-level statements (any node that is an ast.Stmt rather than a
// Declaration) in a synthesized entry-point FunctionLiteral so the IR
// Builder has a single Subroutine to start from (spec §6.3 "plus wrap
// top-level statements in an entry-point subroutine").
func CompileExecutable(res *PersistentResources, work *WorkResources, nodes []ast.Node) (*CompiledModule, error) {
	mod, err := CompileLibrary(res, work, nodes)
	if err != nil {
		return nil, err
	}
	if mod.Failed {
		return mod, nil
	}

	var stmts []ast.Node
	for _, n := range nodes {
		if _, isDecl := n.(*ast.Declaration); !isDecl {
			stmts = append(stmts, n)
		}
	}
	entry := &ast.FunctionLiteral{Stmts: stmts}
	work.Enqueue(Item{Kind: EmitFunctionBody, Node: entry, Ctx: mod.Root})
	if err := work.Complete(); err != nil {
		return nil, err
	}
	mod.Entry = entry
	return mod, nil
}
