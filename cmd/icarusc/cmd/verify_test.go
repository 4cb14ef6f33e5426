package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFixture(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.json")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestRunVerifySucceedsOnWellTypedDeclaration(t *testing.T) {
	verifyASTPath = writeFixture(t, `[
		{"kind": "decl", "name": "x", "const": true,
		 "type": {"kind": "terminal", "lit": "type", "value": "i64"},
		 "init": {"kind": "terminal", "lit": "int", "value": 5}}
	]`)
	verifyConfigPath = ""
	verifyExecutable = false
	verifyFormat = "text"
	verifyFilter = ""

	if err := runVerify(verifyCmd, nil); err != nil {
		t.Fatalf("runVerify: %v", err)
	}
}

func TestRunVerifyFailsOnTypeMismatch(t *testing.T) {
	verifyASTPath = writeFixture(t, `[
		{"kind": "decl", "name": "x",
		 "type": {"kind": "terminal", "lit": "type", "value": "bool"},
		 "init": {"kind": "terminal", "lit": "int", "value": 5}}
	]`)
	verifyConfigPath = ""
	verifyExecutable = false
	verifyFormat = "text"
	verifyFilter = ""

	if err := runVerify(verifyCmd, nil); err == nil {
		t.Fatal("runVerify should fail for a bool declaration initialized with an integer")
	}
}

func TestRunVerifyMissingASTFlag(t *testing.T) {
	verifyASTPath = ""
	if err := runVerify(verifyCmd, nil); err == nil {
		t.Fatal("runVerify with an empty --ast path should error")
	}
}

func TestHumanCategory(t *testing.T) {
	if got := humanCategory("type-error"); got != "Type Error" {
		t.Fatalf("humanCategory(type-error) = %q, want %q", got, "Type Error")
	}
	if got := humanCategory("cyclic-dependency"); got != "Cyclic Dependency" {
		t.Fatalf("humanCategory(cyclic-dependency) = %q, want %q", got, "Cyclic Dependency")
	}
}

func TestRunVerifyFailsEvenWhenFilterNarrowsOutput(t *testing.T) {
	verifyASTPath = writeFixture(t, `[{"kind": "decl", "name": "x", "init": {"kind": "ident", "name": "y"}}]`)
	verifyConfigPath = ""
	verifyExecutable = false
	verifyFormat = "text"
	verifyFilter = "undeclared-identifier"

	if err := runVerify(verifyCmd, nil); err == nil {
		t.Fatal("runVerify should still fail even when --filter narrows the printed diagnostics")
	}
}
