package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/icarus-lang/icarus/internal/types"
)

func TestDefaultHasNoSearchPaths(t *testing.T) {
	p := Default()
	if len(p.SearchPaths) != 0 {
		t.Fatalf("Default().SearchPaths = %v, want empty", p.SearchPaths)
	}
	if got := p.ArchitectureOrDefault(); got != types.DefaultArchitecture {
		t.Fatalf("Default().ArchitectureOrDefault() = %+v, want %+v", got, types.DefaultArchitecture)
	}
}

func TestLoadResolvesRelativeSearchPaths(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "icarus.yaml")
	content := "search_paths:\n  - vendor\n  - /abs/lib\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load(%s): %v", cfgPath, err)
	}
	if len(p.SearchPaths) != 2 {
		t.Fatalf("SearchPaths = %v, want 2 entries", p.SearchPaths)
	}
	wantFirst := filepath.Join(dir, "vendor")
	if p.SearchPaths[0] != wantFirst {
		t.Fatalf("SearchPaths[0] = %q, want %q (relative path resolved against config dir)", p.SearchPaths[0], wantFirst)
	}
	if p.SearchPaths[1] != "/abs/lib" {
		t.Fatalf("SearchPaths[1] = %q, want unchanged absolute path", p.SearchPaths[1])
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Load of a missing file should error")
	}
}

func TestArchitectureOrDefaultOverridesOnlySetFields(t *testing.T) {
	p := &Project{}
	p.Architecture.PointerSize = 4
	arch := p.ArchitectureOrDefault()
	if arch.PointerSize != 4 {
		t.Fatalf("PointerSize = %d, want 4 (overridden)", arch.PointerSize)
	}
	if arch.MaxAlign != types.DefaultArchitecture.MaxAlign {
		t.Fatalf("MaxAlign = %d, want default %d (left unset)", arch.MaxAlign, types.DefaultArchitecture.MaxAlign)
	}
}
