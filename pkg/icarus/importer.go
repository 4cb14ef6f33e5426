package icarus

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/icarus-lang/icarus/internal/ast"
	"github.com/icarus-lang/icarus/internal/compiler"
)

// ModuleLoader parses one resolved file into its top-level AST nodes. A
// caller supplies one (there is no parser in this module — §1 declares
// lexing and parsing out of scope, see internal/ast's doc comment); tests
// and cmd/icarusc's --ast flag both supply nodes that were decoded some
// other way (a JSON fixture, in cmd/icarusc's case).
type ModuleLoader func(path string) ([]ast.Node, error)

// FileImporter resolves a module locator against a list of search
// directories, the same ordered-search-path behavior the teacher's
// internal/units gives DWScript's uses clause, caching each compiled
// Module by its resolved path the way the original's
// legacy/module/module_map.cc caches by canonical path.
type FileImporter struct {
	SearchPaths []string
	Loader      ModuleLoader
	Compile     func(nodes []ast.Node) (*compiler.CompiledModule, error)

	mu      sync.Mutex
	nextID  compiler.ModuleID
	byPath  map[string]compiler.ModuleID
	modules map[compiler.ModuleID]*compiler.Module
}

// NewFileImporter creates a FileImporter with no Loader/Compile set; the
// embedder fills those in (they need the Engine compiling the importing
// module to resolve imports recursively with the same SharedContext).
func NewFileImporter(searchPaths []string) *FileImporter {
	return &FileImporter{
		SearchPaths: searchPaths,
		byPath:      make(map[string]compiler.ModuleID),
		modules:     make(map[compiler.ModuleID]*compiler.Module),
	}
}

// resolve finds locator on the search path, preferring an exact match to
// the first entry that contains it.
func (f *FileImporter) resolve(locator string) (string, error) {
	if filepath.IsAbs(locator) {
		if _, err := os.Stat(locator); err == nil {
			return locator, nil
		}
	}
	for _, dir := range f.SearchPaths {
		candidate := filepath.Join(dir, locator)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("icarus: module %q not found on search path", locator)
}

// Import implements compiler.Importer.
func (f *FileImporter) Import(locator string) (compiler.ModuleID, error) {
	path, err := f.resolve(locator)
	if err != nil {
		return 0, err
	}

	f.mu.Lock()
	if id, ok := f.byPath[path]; ok {
		f.mu.Unlock()
		return id, nil
	}
	f.mu.Unlock()

	if f.Loader == nil || f.Compile == nil {
		return 0, fmt.Errorf("icarus: FileImporter has no Loader/Compile wired in")
	}
	nodes, err := f.Loader(path)
	if err != nil {
		return 0, fmt.Errorf("icarus: loading %s: %w", path, err)
	}
	mod, err := f.Compile(nodes)
	if err != nil {
		return 0, err
	}
	if mod.Failed {
		return 0, fmt.Errorf("icarus: module %s failed to compile", path)
	}

	exports := make(map[string][]*ast.Declaration)
	for _, n := range nodes {
		if d, ok := n.(*ast.Declaration); ok {
			exports[d.Name] = append(exports[d.Name], d)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := f.nextID
	f.byPath[path] = id
	f.modules[id] = &compiler.Module{ID: id, Exports: exports}
	return id, nil
}

// Get implements compiler.Importer.
func (f *FileImporter) Get(id compiler.ModuleID) (*compiler.Module, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	mod, ok := f.modules[id]
	return mod, ok
}
