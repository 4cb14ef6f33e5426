package icarus_test

import (
	"testing"

	"github.com/icarus-lang/icarus/internal/astfixture"
	"github.com/icarus-lang/icarus/internal/config"
	"github.com/icarus-lang/icarus/pkg/icarus"
)

func TestCompileLibraryAcceptsWellTypedDeclaration(t *testing.T) {
	nodes, err := astfixture.Decode([]byte(`[
		{"kind": "decl", "name": "x", "const": true,
		 "type": {"kind": "terminal", "lit": "type", "value": "i64"},
		 "init": {"kind": "terminal", "lit": "int", "value": 5}}
	]`))
	if err != nil {
		t.Fatalf("astfixture.Decode: %v", err)
	}

	engine := icarus.NewEngine(config.Default())
	mod, err := engine.CompileLibrary(nodes)
	if err != nil {
		t.Fatalf("CompileLibrary: %v", err)
	}
	if mod.Failed {
		t.Fatalf("CompileLibrary reported failure; diagnostics: %+v", engine.Consumer.Diagnostics)
	}
}

func TestCompileLibraryRejectsTypeMismatch(t *testing.T) {
	nodes, err := astfixture.Decode([]byte(`[
		{"kind": "decl", "name": "x",
		 "type": {"kind": "terminal", "lit": "type", "value": "bool"},
		 "init": {"kind": "terminal", "lit": "int", "value": 5}}
	]`))
	if err != nil {
		t.Fatalf("astfixture.Decode: %v", err)
	}

	engine := icarus.NewEngine(config.Default())
	mod, err := engine.CompileLibrary(nodes)
	if err != nil {
		t.Fatalf("CompileLibrary: %v", err)
	}
	if !mod.Failed {
		t.Fatal("CompileLibrary should report failure for a bool declaration initialized with an integer")
	}
	if engine.Consumer.ErrorCount() == 0 {
		t.Fatal("expected at least one diagnostic for the type mismatch")
	}
}

func TestCompileLibraryRejectsUndeclaredIdentifier(t *testing.T) {
	nodes, err := astfixture.Decode([]byte(`[
		{"kind": "decl", "name": "x", "init": {"kind": "ident", "name": "y"}}
	]`))
	if err != nil {
		t.Fatalf("astfixture.Decode: %v", err)
	}

	engine := icarus.NewEngine(config.Default())
	mod, err := engine.CompileLibrary(nodes)
	if err != nil {
		t.Fatalf("CompileLibrary: %v", err)
	}
	if !mod.Failed {
		t.Fatal("CompileLibrary should report failure for an undeclared identifier")
	}
}
