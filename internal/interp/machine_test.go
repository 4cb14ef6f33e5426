package interp

import (
	"testing"

	"github.com/icarus-lang/icarus/internal/ast"
	"github.com/icarus-lang/icarus/internal/types"
)

func TestNameForIsStablePerDeclaration(t *testing.T) {
	m := NewMachine(types.NewInterner())
	decl := &ast.Declaration{Name: "fib"}
	a := m.NameFor(decl)
	b := m.NameFor(decl)
	if a != b {
		t.Fatalf("NameFor(decl) returned %q then %q, want the same name both times", a, b)
	}
	other := &ast.Declaration{Name: "fib"}
	c := m.NameFor(other)
	if a == c {
		t.Fatalf("NameFor must distinguish distinct declarations even when Name collides: both got %q", a)
	}
}

func TestBindCalleeRegistersOnce(t *testing.T) {
	m := NewMachine(types.NewInterner())
	decl := &ast.Declaration{Name: "fib"}
	name1 := m.BindCallee(nil, decl)
	name2 := m.BindCallee(nil, decl)
	if name1 != name2 {
		t.Fatalf("BindCallee(decl) returned %q then %q, want the same name", name1, name2)
	}
	if _, ok := m.declOf[name1]; !ok {
		t.Fatalf("BindCallee did not register decl under %q", name1)
	}
}

func TestResolveCalleeUnknownNameErrors(t *testing.T) {
	m := NewMachine(types.NewInterner())
	if _, err := m.resolveCallee("nonexistent$0"); err == nil {
		t.Fatal("resolveCallee of an unregistered name should error")
	}
}
