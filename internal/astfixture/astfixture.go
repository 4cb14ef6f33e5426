// Package astfixture decodes a JSON-encoded AST fixture into the node
// types internal/ast defines, standing in for the parser this module
// declares out of scope (internal/ast's doc comment: "the core consumes a
// pre-built AST"). cmd/icarusc's --ast flag and test fixtures are the only
// callers; nothing in internal/compiler, internal/ir, or internal/interp
// depends on this package.
//
// The grammar covered here is a deliberately restricted subset of what
// internal/ast can represent: top-level declarations and statements,
// function and short-function literals, identifiers, literals, the
// arithmetic/comparison/logical operators, calls, access, cast, if/return/
// assignment. Generics, structs, enums, scopes, jumps, and pattern
// matching are not representable in a fixture; a real front end would
// produce the AST directly rather than through this package.
package astfixture

import (
	"encoding/json"
	"fmt"

	"github.com/icarus-lang/icarus/internal/ast"
	"github.com/icarus-lang/icarus/internal/types"
)

// Decode parses a JSON array of node fixtures into top-level AST nodes.
func Decode(data []byte) ([]ast.Node, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("astfixture: top level must be a JSON array: %w", err)
	}
	nodes := make([]ast.Node, len(raws))
	for i, raw := range raws {
		n, err := decodeNode(raw)
		if err != nil {
			return nil, fmt.Errorf("astfixture: node %d: %w", i, err)
		}
		nodes[i] = n
	}
	return nodes, nil
}

// envelope is every fixture node's common shape: a "kind" discriminator
// plus whatever fields that kind needs, left raw until the kind is known.
type envelope struct {
	Kind string `json:"kind"`

	Name   string          `json:"name"`
	Type   json.RawMessage `json:"type"`
	Init   json.RawMessage `json:"init"`
	Const  bool            `json:"const"`
	Output bool            `json:"output"`
	Param  bool            `json:"param"`

	Params  []json.RawMessage `json:"params"`
	Outputs []json.RawMessage `json:"outputs"`
	Stmts   []json.RawMessage `json:"stmts"`
	Body    json.RawMessage   `json:"body"`

	Lit   string          `json:"lit"`
	Value json.RawMessage `json:"value"`

	Op  string          `json:"op"`
	LHS json.RawMessage `json:"lhs"`
	RHS json.RawMessage `json:"rhs"`

	Operand json.RawMessage `json:"operand"`

	Callee json.RawMessage `json:"callee"`
	Args   []fixtureArg    `json:"args"`

	Exprs []json.RawMessage `json:"exprs"`
	Cond  json.RawMessage   `json:"cond"`
	Then  []json.RawMessage `json:"then"`
	Else  []json.RawMessage `json:"else"`

	LHSList []json.RawMessage `json:"lhsList"`
	RHSList []json.RawMessage `json:"rhsList"`

	Member   string          `json:"member"`
	TypeExpr json.RawMessage `json:"typeExpr"`
}

type fixtureArg struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

func decodeNode(raw json.RawMessage) (ast.Node, error) {
	var e envelope
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, err
	}
	switch e.Kind {
	case "decl":
		return decodeDecl(e)
	case "func":
		return decodeFunc(e)
	case "shortFunc":
		return decodeShortFunc(e)
	case "ident":
		return &ast.Identifier{Name: e.Name}, nil
	case "hole":
		return &ast.Hole{}, nil
	case "terminal":
		return decodeTerminal(e)
	case "binop":
		return decodeBinop(e)
	case "unop":
		return decodeUnop(e)
	case "call":
		return decodeCall(e)
	case "access":
		operand, err := decodeExpr(e.Operand)
		if err != nil {
			return nil, err
		}
		return &ast.Access{Operand: operand, MemberName: e.Member}, nil
	case "cast":
		value, err := decodeExpr(e.Value)
		if err != nil {
			return nil, err
		}
		typeExpr, err := decodeExpr(e.TypeExpr)
		if err != nil {
			return nil, err
		}
		return &ast.Cast{Value: value, TypeExpr: typeExpr}, nil
	case "return":
		exprs, err := decodeExprList(e.Exprs)
		if err != nil {
			return nil, err
		}
		return &ast.ReturnStmt{Exprs: exprs}, nil
	case "if":
		return decodeIf(e)
	case "assign":
		lhs, err := decodeExprList(e.LHSList)
		if err != nil {
			return nil, err
		}
		rhs, err := decodeExprList(e.RHSList)
		if err != nil {
			return nil, err
		}
		return &ast.Assignment{LHS: lhs, RHS: rhs}, nil
	default:
		return nil, fmt.Errorf("unknown node kind %q", e.Kind)
	}
}

func decodeExpr(raw json.RawMessage) (ast.Expr, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	n, err := decodeNode(raw)
	if err != nil {
		return nil, err
	}
	expr, ok := n.(ast.Expr)
	if !ok {
		return nil, fmt.Errorf("expected an expression node, got %T", n)
	}
	return expr, nil
}

func decodeExprList(raws []json.RawMessage) ([]ast.Expr, error) {
	out := make([]ast.Expr, len(raws))
	for i, raw := range raws {
		e, err := decodeExpr(raw)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func decodeNodeList(raws []json.RawMessage) ([]ast.Node, error) {
	out := make([]ast.Node, len(raws))
	for i, raw := range raws {
		n, err := decodeNode(raw)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func decodeDeclList(raws []json.RawMessage) ([]*ast.Declaration, error) {
	out := make([]*ast.Declaration, len(raws))
	for i, raw := range raws {
		n, err := decodeNode(raw)
		if err != nil {
			return nil, err
		}
		d, ok := n.(*ast.Declaration)
		if !ok {
			return nil, fmt.Errorf("expected a decl node, got %T", n)
		}
		out[i] = d
	}
	return out, nil
}

func decodeDecl(e envelope) (*ast.Declaration, error) {
	d := &ast.Declaration{Name: e.Name}
	if e.Const {
		d.Flags |= ast.FlagConst
	}
	if e.Output {
		d.Flags |= ast.FlagOutput
	}
	if e.Param {
		d.Flags |= ast.FlagFnParam
	}
	if len(e.Type) > 0 {
		typeExpr, err := decodeExpr(e.Type)
		if err != nil {
			return nil, err
		}
		d.TypeExpr = typeExpr
	}
	if len(e.Init) > 0 {
		initVal, err := decodeExpr(e.Init)
		if err != nil {
			return nil, err
		}
		d.InitVal = initVal
	}
	return d, nil
}

func decodeFunc(e envelope) (*ast.FunctionLiteral, error) {
	params, err := decodeDeclList(e.Params)
	if err != nil {
		return nil, err
	}
	outputs, err := decodeDeclList(e.Outputs)
	if err != nil {
		return nil, err
	}
	stmts, err := decodeNodeList(e.Stmts)
	if err != nil {
		return nil, err
	}
	return &ast.FunctionLiteral{
		ParameterizedExpression: ast.ParameterizedExpression{Params: params},
		Outputs:                 outputs,
		Stmts:                   stmts,
	}, nil
}

func decodeShortFunc(e envelope) (*ast.ShortFunctionLiteral, error) {
	params, err := decodeDeclList(e.Params)
	if err != nil {
		return nil, err
	}
	body, err := decodeExpr(e.Body)
	if err != nil {
		return nil, err
	}
	return &ast.ShortFunctionLiteral{
		ParameterizedExpression: ast.ParameterizedExpression{Params: params},
		Body:                    body,
	}, nil
}

var primitiveNames = map[string]types.Type{
	"bool":    types.Bool,
	"char":    types.Char,
	"i8":      types.I8,
	"i16":     types.I16,
	"i32":     types.I32,
	"i64":     types.I64,
	"u8":      types.U8,
	"u16":     types.U16,
	"u32":     types.U32,
	"u64":     types.U64,
	"f32":     types.F32,
	"f64":     types.F64,
	"type":    types.TypeType,
	"module":  types.ModuleType,
	"nullptr": types.NullPtr,
	"void":    types.Void,
}

func decodeTerminal(e envelope) (*ast.Terminal, error) {
	switch e.Lit {
	case "bool":
		var v bool
		if err := json.Unmarshal(e.Value, &v); err != nil {
			return nil, err
		}
		return &ast.Terminal{Lit: ast.LitBool, Value: v}, nil
	case "char":
		var v string
		if err := json.Unmarshal(e.Value, &v); err != nil {
			return nil, err
		}
		if len(v) == 0 {
			return nil, fmt.Errorf("empty char literal")
		}
		return &ast.Terminal{Lit: ast.LitChar, Value: rune(v[0])}, nil
	case "int":
		var v int64
		if err := json.Unmarshal(e.Value, &v); err != nil {
			return nil, err
		}
		return &ast.Terminal{Lit: ast.LitInteger, Value: v}, nil
	case "float":
		var v float64
		if err := json.Unmarshal(e.Value, &v); err != nil {
			return nil, err
		}
		return &ast.Terminal{Lit: ast.LitFloat, Value: v}, nil
	case "string":
		var v string
		if err := json.Unmarshal(e.Value, &v); err != nil {
			return nil, err
		}
		return &ast.Terminal{Lit: ast.LitString, Value: v}, nil
	case "nullptr":
		return &ast.Terminal{Lit: ast.LitNullPtr}, nil
	case "type":
		var name string
		if err := json.Unmarshal(e.Value, &name); err != nil {
			return nil, err
		}
		t, ok := primitiveNames[name]
		if !ok {
			return nil, fmt.Errorf("unknown primitive type name %q", name)
		}
		return &ast.Terminal{Lit: ast.LitType, Value: t}, nil
	default:
		return nil, fmt.Errorf("unknown literal kind %q", e.Lit)
	}
}

var binOps = map[string]ast.Operator{
	"add": ast.OpAdd, "sub": ast.OpSub, "mul": ast.OpMul, "div": ast.OpDiv, "mod": ast.OpMod,
	"eq": ast.OpEq, "ne": ast.OpNe, "lt": ast.OpLt, "le": ast.OpLe, "gt": ast.OpGt, "ge": ast.OpGe,
	"and": ast.OpAnd, "or": ast.OpOr, "xor": ast.OpXor,
}

var unOps = map[string]ast.Operator{
	"neg": ast.OpNeg, "not": ast.OpNot, "deref": ast.OpDeref, "addr": ast.OpAddr,
}

func decodeBinop(e envelope) (*ast.Binop, error) {
	op, ok := binOps[e.Op]
	if !ok {
		return nil, fmt.Errorf("unknown binary operator %q", e.Op)
	}
	lhs, err := decodeExpr(e.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := decodeExpr(e.RHS)
	if err != nil {
		return nil, err
	}
	return &ast.Binop{Op: op, LHS: lhs, RHS: rhs}, nil
}

func decodeUnop(e envelope) (*ast.Unop, error) {
	op, ok := unOps[e.Op]
	if !ok {
		return nil, fmt.Errorf("unknown unary operator %q", e.Op)
	}
	operand, err := decodeExpr(e.Operand)
	if err != nil {
		return nil, err
	}
	return &ast.Unop{Op: op, Operand: operand}, nil
}

func decodeCall(e envelope) (*ast.Call, error) {
	callee, err := decodeExpr(e.Callee)
	if err != nil {
		return nil, err
	}
	args := make([]ast.Argument, len(e.Args))
	for i, a := range e.Args {
		val, err := decodeExpr(a.Value)
		if err != nil {
			return nil, err
		}
		args[i] = ast.Argument{Name: a.Name, Value: val}
	}
	return &ast.Call{Callee: callee, Args: args}, nil
}

func decodeIf(e envelope) (*ast.IfStmt, error) {
	cond, err := decodeExpr(e.Cond)
	if err != nil {
		return nil, err
	}
	then, err := decodeNodeList(e.Then)
	if err != nil {
		return nil, err
	}
	var elseNodes []ast.Node
	if len(e.Else) > 0 {
		elseNodes, err = decodeNodeList(e.Else)
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStmt{Cond: cond, Then: then, Else: elseNodes}, nil
}
