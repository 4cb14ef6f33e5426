package astfixture

import (
	"testing"

	"github.com/icarus-lang/icarus/internal/ast"
	"github.com/icarus-lang/icarus/internal/types"
)

func decodeOne(t *testing.T, jsonSrc string) ast.Node {
	t.Helper()
	nodes, err := Decode([]byte("[" + jsonSrc + "]"))
	if err != nil {
		t.Fatalf("Decode(%s) error: %v", jsonSrc, err)
	}
	if len(nodes) != 1 {
		t.Fatalf("Decode(%s) returned %d nodes, want 1", jsonSrc, len(nodes))
	}
	return nodes[0]
}

func TestDecodeDeclarationWithTypeLiteralAndInit(t *testing.T) {
	n := decodeOne(t, `{
		"kind": "decl", "name": "x", "const": true,
		"type": {"kind": "terminal", "lit": "type", "value": "i64"},
		"init": {"kind": "terminal", "lit": "int", "value": 5}
	}`)
	d, ok := n.(*ast.Declaration)
	if !ok {
		t.Fatalf("Decode returned %T, want *ast.Declaration", n)
	}
	if d.Name != "x" || !d.Flags.Has(ast.FlagConst) {
		t.Fatalf("decoded declaration = %+v, want Name=x, FlagConst set", d)
	}
	term, ok := d.TypeExpr.(*ast.Terminal)
	if !ok || term.Lit != ast.LitType || term.Value != types.Type(types.I64) {
		t.Fatalf("TypeExpr = %+v, want a LitType terminal naming I64", d.TypeExpr)
	}
	init, ok := d.InitVal.(*ast.Terminal)
	if !ok || init.Lit != ast.LitInteger || init.Value != int64(5) {
		t.Fatalf("InitVal = %+v, want a LitInteger terminal with value 5", d.InitVal)
	}
}

func TestDecodeBinop(t *testing.T) {
	n := decodeOne(t, `{
		"kind": "binop", "op": "add",
		"lhs": {"kind": "terminal", "lit": "int", "value": 3},
		"rhs": {"kind": "terminal", "lit": "int", "value": 4}
	}`)
	b, ok := n.(*ast.Binop)
	if !ok || b.Op != ast.OpAdd {
		t.Fatalf("Decode returned %+v, want an OpAdd Binop", n)
	}
}

func TestDecodeCall(t *testing.T) {
	n := decodeOne(t, `{
		"kind": "call",
		"callee": {"kind": "ident", "name": "f"},
		"args": [{"name": "", "value": {"kind": "terminal", "lit": "int", "value": 1}}]
	}`)
	c, ok := n.(*ast.Call)
	if !ok {
		t.Fatalf("Decode returned %T, want *ast.Call", n)
	}
	callee, ok := c.Callee.(*ast.Identifier)
	if !ok || callee.Name != "f" {
		t.Fatalf("Callee = %+v, want identifier f", c.Callee)
	}
	if len(c.Args) != 1 {
		t.Fatalf("Args = %+v, want 1 argument", c.Args)
	}
}

func TestDecodeCastSharesValueKeyWithTerminal(t *testing.T) {
	n := decodeOne(t, `{
		"kind": "cast",
		"value": {"kind": "terminal", "lit": "int", "value": 3},
		"typeExpr": {"kind": "terminal", "lit": "type", "value": "f64"}
	}`)
	c, ok := n.(*ast.Cast)
	if !ok {
		t.Fatalf("Decode returned %T, want *ast.Cast", n)
	}
	val, ok := c.Value.(*ast.Terminal)
	if !ok || val.Lit != ast.LitInteger {
		t.Fatalf("Cast.Value = %+v, want a LitInteger terminal", c.Value)
	}
	target, ok := c.TypeExpr.(*ast.Terminal)
	if !ok || target.Value != types.Type(types.F64) {
		t.Fatalf("Cast.TypeExpr = %+v, want a LitType terminal naming F64", c.TypeExpr)
	}
}

func TestDecodeIfWithElse(t *testing.T) {
	n := decodeOne(t, `{
		"kind": "if",
		"cond": {"kind": "terminal", "lit": "bool", "value": true},
		"then": [{"kind": "return", "exprs": []}],
		"else": [{"kind": "return", "exprs": []}]
	}`)
	ifs, ok := n.(*ast.IfStmt)
	if !ok {
		t.Fatalf("Decode returned %T, want *ast.IfStmt", n)
	}
	if len(ifs.Then) != 1 || len(ifs.Else) != 1 {
		t.Fatalf("IfStmt = %+v, want one Then and one Else statement", ifs)
	}
}

func TestDecodeShortFunctionLiteral(t *testing.T) {
	n := decodeOne(t, `{
		"kind": "shortFunc",
		"params": [{"kind": "decl", "name": "n", "param": true, "type": {"kind": "terminal", "lit": "type", "value": "i64"}}],
		"body": {"kind": "ident", "name": "n"}
	}`)
	fn, ok := n.(*ast.ShortFunctionLiteral)
	if !ok {
		t.Fatalf("Decode returned %T, want *ast.ShortFunctionLiteral", n)
	}
	if len(fn.Params) != 1 || !fn.Params[0].Flags.Has(ast.FlagFnParam) {
		t.Fatalf("Params = %+v, want one FlagFnParam declaration", fn.Params)
	}
	if _, ok := fn.Body.(*ast.Identifier); !ok {
		t.Fatalf("Body = %+v, want an identifier", fn.Body)
	}
}

func TestDecodeUnknownKindErrors(t *testing.T) {
	_, err := Decode([]byte(`[{"kind": "nonsense"}]`))
	if err == nil {
		t.Fatal("Decode of an unknown kind should error")
	}
}

func TestDecodeTopLevelMustBeArray(t *testing.T) {
	_, err := Decode([]byte(`{"kind": "ident", "name": "x"}`))
	if err == nil {
		t.Fatal("Decode of a non-array top level should error")
	}
}
