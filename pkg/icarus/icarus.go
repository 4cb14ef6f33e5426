// Package icarus is the embedder-facing facade: it wires
// internal/compiler's verifier and scheduler to internal/ir's Builder and
// internal/interp's Machine, breaking the import cycle those two packages
// would otherwise need to evaluate constants at verification time. It
// plays the role the teacher's pkg/dwscript facade plays over
// internal/lexer, internal/parser, internal/semantic, internal/interp: the
// internal packages hold the engine, this package holds the embedder API.
package icarus

import (
	"fmt"

	"github.com/icarus-lang/icarus/internal/ast"
	"github.com/icarus-lang/icarus/internal/compiler"
	"github.com/icarus-lang/icarus/internal/config"
	"github.com/icarus-lang/icarus/internal/diag"
	"github.com/icarus-lang/icarus/internal/interp"
	"github.com/icarus-lang/icarus/internal/ir"
	"github.com/icarus-lang/icarus/internal/types"
)

// Engine bundles one compilation's process-wide state: the type interner,
// the Machine that lowers and interprets IR, and the Importer library
// modules resolve against.
type Engine struct {
	Shared   *compiler.SharedContext
	Machine  *interp.Machine
	Program  *ir.Program
	Importer compiler.Importer
	Consumer *diag.BufferingConsumer
}

// NewEngine wires a fresh Engine. project supplies search paths and the
// target architecture; pass config.Default() for the built-in defaults.
func NewEngine(project *config.Project) *Engine {
	shared := compiler.NewSharedContext()
	shared.Architecture = project.ArchitectureOrDefault()

	machine := interp.NewMachine(shared.Interner)
	program := ir.NewProgram(shared.Interner, machine.BindCallee)
	machine.Program = program

	return &Engine{
		Shared:   shared,
		Machine:  machine,
		Program:  program,
		Importer: NewFileImporter(project.SearchPaths),
		Consumer: diag.NewBufferingConsumer(),
	}
}

// resources assembles one CompileLibrary/CompileExecutable call's
// PersistentResources/WorkResources, gluing the Instantiator's and
// WorkResources' Evaluate hooks to this Engine's Machine-backed Evaluator.
func (e *Engine) resources() (*compiler.PersistentResources, *compiler.WorkResources) {
	evaluator := interp.NewEvaluator(e.Machine)

	inst := &compiler.Instantiator{Interner: e.Shared.Interner, EvaluateConst: evaluator.EvaluateConst}
	verifier := compiler.NewTypeVerifier(e.Shared, e.Consumer, e.Importer, inst, evaluator.Evaluate)

	sched := compiler.NewScheduler(e.Consumer)
	verifier.Install(sched)
	e.Program.RegisterHandlers(sched)

	persistent := &compiler.PersistentResources{
		DiagnosticConsumer: e.Consumer,
		Importer:           e.Importer,
		SharedContext:      e.Shared,
	}
	work := &compiler.WorkResources{Scheduler: sched, Evaluate: evaluator.Evaluate}
	return persistent, work
}

// CompileLibrary verifies nodes as a library module (internal/compiler's
// CompileLibrary) using this Engine's shared state.
func (e *Engine) CompileLibrary(nodes []ast.Node) (*compiler.CompiledModule, error) {
	res, work := e.resources()
	return compiler.CompileLibrary(res, work, nodes)
}

// CompileExecutable verifies nodes and lowers its synthesized entry point
// to IR (internal/compiler's CompileExecutable), returning the module plus
// the entry point's Subroutine for Run.
func (e *Engine) CompileExecutable(nodes []ast.Node) (*compiler.CompiledModule, *ir.Subroutine, error) {
	res, work := e.resources()
	mod, err := compiler.CompileExecutable(res, work, nodes)
	if err != nil || mod.Failed || mod.Entry == nil {
		return mod, nil, err
	}
	sub, ok := e.Program.SubroutineFor(mod.Entry)
	if !ok {
		return mod, nil, fmt.Errorf("icarus: entry point was never emitted")
	}
	return mod, sub, nil
}

// Run executes sub to completion and returns the bytes its last OpSetRet
// stored, if any.
func (e *Engine) Run(sub *ir.Subroutine, args ...[]byte) ([]byte, error) {
	return e.Machine.Run(sub, nil, args)
}
