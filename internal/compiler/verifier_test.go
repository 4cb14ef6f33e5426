package compiler

import (
	"testing"

	"github.com/icarus-lang/icarus/internal/ast"
	"github.com/icarus-lang/icarus/internal/diag"
	"github.com/icarus-lang/icarus/internal/types"
)

func newTestVerifier() (*TypeVerifier, *Scheduler, *diag.BufferingConsumer) {
	sc := NewSharedContext()
	consumer := diag.NewBufferingConsumer()
	inst := &Instantiator{Interner: sc.Interner}
	v := NewTypeVerifier(sc, consumer, nil, inst, nil)
	sched := NewScheduler(consumer)
	v.Install(sched)
	return v, sched, consumer
}

// TestDeclaredTypeResolvesToNamedType is a regression test for a bug where
// a Declaration's TypeExpr (a bare LitType terminal naming a type, e.g.
// `x: i64`) resolved to types.TypeType instead of the type it names.
func TestDeclaredTypeResolvesToNamedType(t *testing.T) {
	v, sched, consumer := newTestVerifier()
	root := NewRootContext(v.Interner)

	decl := &ast.Declaration{
		Name:     "x",
		TypeExpr: &ast.Terminal{Lit: ast.LitType, Value: types.I64},
		InitVal:  &ast.Terminal{Lit: ast.LitInteger, Value: int64(5)},
	}

	sched.Enqueue(Item{Kind: VerifyType, Node: decl, Ctx: root})
	if err := sched.Complete(); err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if consumer.Failed() {
		t.Fatalf("unexpected diagnostics: %+v", consumer.Diagnostics)
	}

	qt, ok := root.QualTypeOf(decl)
	if !ok {
		t.Fatal("declaration was never assigned a QualType")
	}
	if qt.Poisoned() {
		t.Fatalf("declaration's QualType is poisoned: %+v", qt)
	}
	if qt.Type != types.Type(types.I64) {
		t.Fatalf("declared type = %v, want I64 (got TypeType if the LitType terminal fix regressed)", qt.Type)
	}
}

func TestCastResolvesToNamedTargetType(t *testing.T) {
	v, sched, consumer := newTestVerifier()
	root := NewRootContext(v.Interner)

	cast := &ast.Cast{
		Value:    &ast.Terminal{Lit: ast.LitInteger, Value: int64(3)},
		TypeExpr: &ast.Terminal{Lit: ast.LitType, Value: types.F64},
	}

	sched.Enqueue(Item{Kind: VerifyType, Node: cast, Ctx: root})
	if err := sched.Complete(); err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if consumer.Failed() {
		t.Fatalf("unexpected diagnostics: %+v", consumer.Diagnostics)
	}

	qt, ok := root.QualTypeOf(cast)
	if !ok {
		t.Fatal("cast was never assigned a QualType")
	}
	if qt.Type != types.Type(types.F64) {
		t.Fatalf("cast's result type = %v, want F64 (got TypeType if the LitType terminal fix regressed)", qt.Type)
	}
}

func TestDeclarationInitTypeMismatchIsDiagnosed(t *testing.T) {
	v, sched, consumer := newTestVerifier()
	root := NewRootContext(v.Interner)

	decl := &ast.Declaration{
		Name:     "x",
		TypeExpr: &ast.Terminal{Lit: ast.LitType, Value: types.Bool},
		InitVal:  &ast.Terminal{Lit: ast.LitInteger, Value: int64(5)},
	}

	sched.Enqueue(Item{Kind: VerifyType, Node: decl, Ctx: root})
	if err := sched.Complete(); err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if !consumer.Failed() {
		t.Fatal("expected a diagnostic for initializing a bool declaration with an integer literal")
	}

	qt, ok := root.QualTypeOf(decl)
	if !ok {
		t.Fatal("declaration was never assigned a QualType")
	}
	if !qt.Poisoned() {
		t.Fatalf("declaration's QualType should be poisoned after a type mismatch: %+v", qt)
	}
}

func TestSchedulerPushDependencyDetectsCycle(t *testing.T) {
	consumer := diag.NewBufferingConsumer()
	sched := NewScheduler(consumer)

	releaseA, ok := sched.PushDependency("a")
	if !ok {
		t.Fatal("first PushDependency(a) should succeed")
	}
	releaseB, ok := sched.PushDependency("b")
	if !ok {
		t.Fatal("first PushDependency(b) should succeed")
	}
	_, ok = sched.PushDependency("a")
	if ok {
		t.Fatal("re-entering PushDependency(a) while still on the stack should report a cycle")
	}
	if !consumer.Failed() {
		t.Fatal("expected a cyclic-dependency diagnostic")
	}
	found := false
	for _, d := range consumer.Diagnostics {
		if d.Name == diag.NameCyclicDependency {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a %s diagnostic, got %+v", diag.NameCyclicDependency, consumer.Diagnostics)
	}
	releaseB()
	releaseA()
}
