package compiler

import (
	"github.com/icarus-lang/icarus/internal/ast"
	"github.com/icarus-lang/icarus/internal/types"
)

// Module is the compiled form of one imported unit, opaque to the core
// beyond the handful of accessors it needs to resolve `M.name` access
// expressions (spec §6.1).
type Module struct {
	ID      ModuleID
	Exports map[string][]*ast.Declaration
	Scope   *ast.Scope
}

// Importer is implemented by the embedder, never by the core (spec §6.1):
// it resolves a module path against a search list, parses the module,
// invokes the core on it, and caches the resulting Module handle.
type Importer interface {
	Import(locator string) (ModuleID, error)
	Get(id ModuleID) (*Module, bool)
}

// moduleExportsAdapter implements ModuleExports over an Importer, so
// overload resolution's argument-dependent lookup (spec §4.5) can reach
// imported declarations without depending on Importer directly.
type moduleExportsAdapter struct {
	importer Importer
}

func NewModuleExports(importer Importer) ModuleExports {
	return &moduleExportsAdapter{importer: importer}
}

func (a *moduleExportsAdapter) ProvenanceModule(t types.Type) (ModuleID, bool) {
	// No type carries a provenance module, so this always reports false
	// and argument-dependent lookup contributes no candidates.
	return 0, false
}

func (a *moduleExportsAdapter) Exports(id ModuleID, name string) []*ast.Declaration {
	mod, ok := a.importer.Get(id)
	if !ok {
		return nil
	}
	return mod.Exports[name]
}
