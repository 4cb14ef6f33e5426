package ir

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/icarus-lang/icarus/internal/ast"
	"github.com/icarus-lang/icarus/internal/compiler"
	"github.com/icarus-lang/icarus/internal/types"
)

// Builder lowers a verified AST function/scope/jump body into a Subroutine.
// One Builder lowers exactly one Subroutine; a fresh Builder is created per
// function, jump, or scope body being lowered.
type Builder struct {
	Interner *types.Interner
	Ctx      *compiler.Context

	sub     *Subroutine
	cur     *BasicBlock
	locals  map[*ast.Declaration]Reg
	nameGen func(*ast.Declaration) string
}

// NameFunc assigns a stable Subroutine name to a callee Declaration,
// disambiguating overloads. Callers (pkg/icarus) own the registry since it
// must be shared across every Builder invocation in one compilation.
type NameFunc func(*ast.Declaration) string

// NewBuilder creates a Builder for one Subroutine named name.
func NewBuilder(interner *types.Interner, ctx *compiler.Context, name string, nameGen NameFunc) *Builder {
	return &Builder{
		Interner: interner,
		Ctx:      ctx,
		sub:     NewSubroutine(name),
		locals:  make(map[*ast.Declaration]Reg),
		nameGen: nameGen,
	}
}

// BuildFunction lowers a FunctionLiteral's parameters, outputs, and
// statement list into a complete Subroutine.
func (b *Builder) BuildFunction(fn *ast.FunctionLiteral) (*Subroutine, error) {
	b.cur = b.sub.NewBlock("entry")
	b.sub.ParamRegsStart = b.sub.nextReg
	for _, p := range fn.Params {
		b.declareLocal(p)
	}
	b.sub.OutRegsStart = b.sub.nextReg
	for _, o := range fn.Outputs {
		b.declareLocal(o)
	}
	for _, stmt := range fn.Stmts {
		if err := b.emitNode(stmt); err != nil {
			return nil, err
		}
	}
	b.terminateFallthrough()
	return b.sub, nil
}

// BuildShortFunction lowers a ShortFunctionLiteral `(params) => expr` into a
// Subroutine that evaluates expr and returns it.
func (b *Builder) BuildShortFunction(fn *ast.ShortFunctionLiteral) (*Subroutine, error) {
	b.cur = b.sub.NewBlock("entry")
	b.sub.ParamRegsStart = b.sub.nextReg
	for _, p := range fn.Params {
		b.declareLocal(p)
	}
	op, err := b.emitExpr(fn.Body)
	if err != nil {
		return nil, err
	}
	qt, _ := b.Ctx.QualTypeOf(fn.Body)
	b.emit(Cmd{Op: OpSetRet, Args: []Operand{op}, ResultType: qt.Type})
	b.terminateFallthrough()
	return b.sub, nil
}

// BuildExpr lowers a single bare expression as a one-Subroutine body that
// evaluates expr and returns it, for contexts with no enclosing function
// (constant evaluation).
func (b *Builder) BuildExpr(expr ast.Expr) (*Subroutine, error) {
	b.cur = b.sub.NewBlock("entry")
	b.sub.ParamRegsStart = b.sub.nextReg
	op, err := b.emitExpr(expr)
	if err != nil {
		return nil, err
	}
	qt, _ := b.Ctx.QualTypeOf(expr)
	b.emit(Cmd{Op: OpSetRet, Args: []Operand{op}, ResultType: qt.Type})
	b.terminateFallthrough()
	return b.sub, nil
}

// terminateFallthrough closes off a block left with the zero Exit (would
// otherwise read as ExitUncond with no Next) by making the implicit
// fall-off-the-end a Return.
func (b *Builder) terminateFallthrough() {
	if b.cur.Exit.Kind == ExitUncond && b.cur.Exit.Next == nil {
		b.cur.Exit = Exit{Kind: ExitReturn}
	}
}

func (b *Builder) declareLocal(d *ast.Declaration) Reg {
	qt, _ := b.Ctx.QualTypeOf(d)
	size := storageSize(qt.Type)
	r := b.sub.AllocReg(qt.Type, size)
	b.locals[d] = r
	b.emit(Cmd{Op: OpAlloca, Result: r, HasResult: true, ResultType: qt.Type, Aux: AllocaAux{Size: size}})
	if d.InitVal != nil && !d.Flags.Has(ast.FlagConst) {
		val, err := b.emitExpr(d.InitVal)
		if err == nil {
			b.emit(Cmd{Op: OpStore, Args: []Operand{RegOperand(r), val}, ResultType: qt.Type})
		}
	}
	return r
}

// AllocaAux is OpAlloca's Aux payload: the byte size of the reserved slot.
type AllocaAux struct{ Size int64 }

func (b *Builder) emit(c Cmd) Reg {
	b.cur.Append(c)
	return c.Result
}

func (b *Builder) newBlock(label string) *BasicBlock {
	return b.sub.NewBlock(label)
}

// emitNode lowers one statement-or-declaration-or-expression-statement.
func (b *Builder) emitNode(n ast.Node) error {
	switch v := n.(type) {
	case *ast.Declaration:
		if v.Flags.Has(ast.FlagConst) {
			return nil // compile-time only, nothing to emit
		}
		b.declareLocal(v)
		return nil
	case *ast.IfStmt:
		return b.emitIf(v)
	case *ast.WhileStmt:
		return b.emitWhile(v)
	case *ast.ReturnStmt:
		return b.emitReturn(v)
	case *ast.Assignment:
		return b.emitAssignment(v)
	case *ast.YieldStmt:
		for _, e := range v.Exprs {
			if _, err := b.emitExpr(e); err != nil {
				return err
			}
		}
		return nil
	case ast.Expr:
		_, err := b.emitExpr(v)
		return err
	default:
		return nil
	}
}

func (b *Builder) emitBlock(nodes []ast.Node) error {
	for _, n := range nodes {
		if err := b.emitNode(n); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) emitIf(st *ast.IfStmt) error {
	cond, err := b.emitExpr(st.Cond)
	if err != nil {
		return err
	}
	thenBlock := b.newBlock("if.then")
	landing := b.newBlock("if.end")
	var elseBlock *BasicBlock
	if st.Else != nil {
		elseBlock = b.newBlock("if.else")
	} else {
		elseBlock = landing
	}
	b.cur.Exit = Exit{Kind: ExitCond, Cond: cond, True: thenBlock, False: elseBlock}

	b.cur = thenBlock
	if err := b.emitBlock(st.Then); err != nil {
		return err
	}
	if b.cur.Exit.Kind == ExitUncond && b.cur.Exit.Next == nil {
		b.cur.Exit = Exit{Kind: ExitUncond, Next: landing}
	}

	if st.Else != nil {
		b.cur = elseBlock
		if err := b.emitBlock(st.Else); err != nil {
			return err
		}
		if b.cur.Exit.Kind == ExitUncond && b.cur.Exit.Next == nil {
			b.cur.Exit = Exit{Kind: ExitUncond, Next: landing}
		}
	}
	b.cur = landing
	return nil
}

func (b *Builder) emitWhile(st *ast.WhileStmt) error {
	header := b.newBlock("while.header")
	body := b.newBlock("while.body")
	landing := b.newBlock("while.end")

	b.cur.Exit = Exit{Kind: ExitUncond, Next: header}
	b.cur = header
	cond, err := b.emitExpr(st.Cond)
	if err != nil {
		return err
	}
	header.Exit = Exit{Kind: ExitCond, Cond: cond, True: body, False: landing}

	b.cur = body
	if err := b.emitBlock(st.Body); err != nil {
		return err
	}
	if b.cur.Exit.Kind == ExitUncond && b.cur.Exit.Next == nil {
		b.cur.Exit = Exit{Kind: ExitUncond, Next: header}
	}
	b.cur = landing
	return nil
}

func (b *Builder) emitReturn(st *ast.ReturnStmt) error {
	for _, e := range st.Exprs {
		op, err := b.emitExpr(e)
		if err != nil {
			return err
		}
		qt, _ := b.Ctx.QualTypeOf(e)
		b.emit(Cmd{Op: OpSetRet, Args: []Operand{op}, ResultType: qt.Type})
	}
	b.cur.Exit = Exit{Kind: ExitReturn}
	b.cur = b.newBlock("after.return")
	return nil
}

func (b *Builder) emitAssignment(st *ast.Assignment) error {
	vals := make([]Operand, len(st.RHS))
	for i, rhs := range st.RHS {
		op, err := b.emitExpr(rhs)
		if err != nil {
			return err
		}
		vals[i] = op
	}
	for i, lhs := range st.LHS {
		if i >= len(vals) {
			break
		}
		ref, err := b.emitRef(lhs)
		if err != nil {
			return err
		}
		qt, _ := b.Ctx.QualTypeOf(lhs)
		b.emit(Cmd{Op: OpStore, Args: []Operand{RegOperand(ref), vals[i]}, ResultType: qt.Type})
	}
	return nil
}

// emitRef produces a register holding the address of an lvalue (spec
// §4.7 "EmitRef(expr)... only defined for lvalues"): identifiers bound to
// a local/alloca, Access into a struct, or a dereferenced pointer. Any
// other expression, Index included, is reported as not addressable.
func (b *Builder) emitRef(e ast.Expr) (Reg, error) {
	switch v := e.(type) {
	case *ast.Identifier:
		decls, _ := b.Ctx.ResolveIdentifier(v)
		if len(decls) != 1 {
			return 0, fmt.Errorf("ir: EmitRef on unresolved or overloaded identifier %s", v.Name)
		}
		r, ok := b.locals[decls[0]]
		if !ok {
			return 0, fmt.Errorf("ir: EmitRef on identifier %s with no local storage", v.Name)
		}
		return r, nil
	case *ast.Access:
		baseQT, _ := b.Ctx.QualTypeOf(v.Operand)
		baseRef, err := b.emitRef(v.Operand)
		if err != nil {
			return 0, err
		}
		strctType := baseQT.Type
		addr := RegOperand(baseRef)
		if ptr, ok := strctType.(*types.PtrType); ok {
			strctType = ptr.Pointee
			loaded := b.sub.AllocReg(strctType, types.DefaultArchitecture.PointerSize)
			b.emit(Cmd{Op: OpLoad, Args: []Operand{addr}, Result: loaded, HasResult: true, ResultType: strctType})
			addr = RegOperand(loaded)
		}
		strct, ok := strctType.(*types.Struct)
		if !ok {
			return 0, fmt.Errorf("ir: Access base has non-struct type %v", strctType)
		}
		offset, ok := fieldOffset(strct, v.MemberName)
		if !ok {
			return 0, fmt.Errorf("ir: struct %s has no field %q", strct.Name, v.MemberName)
		}
		qt, _ := b.Ctx.QualTypeOf(v)
		r := b.sub.AllocReg(qt.Type, types.DefaultArchitecture.PointerSize)
		b.emit(Cmd{Op: OpField, Args: []Operand{addr}, Result: r, HasResult: true, ResultType: qt.Type, Aux: FieldAux{Name: v.MemberName, Offset: offset}})
		return r, nil
	case *ast.Unop:
		if v.Op == ast.OpDeref {
			op, err := b.emitExpr(v.Operand)
			if err != nil {
				return 0, err
			}
			if op.IsImm {
				return 0, fmt.Errorf("ir: cannot dereference an immediate operand")
			}
			return op.Reg, nil
		}
	}
	return 0, fmt.Errorf("ir: %T is not an addressable expression", e)
}

// emitExpr lowers expr to an Operand holding its value (spec §4.7
// "Lowering of expressions is syntax-directed").
func (b *Builder) emitExpr(e ast.Expr) (Operand, error) {
	qt, _ := b.Ctx.QualTypeOf(e)

	switch v := e.(type) {
	case *ast.Terminal:
		bytes, ok := constBytes(v)
		if !ok {
			return Operand{}, fmt.Errorf("ir: unsupported literal kind %v", v.Lit)
		}
		return ImmOperand(ast.TerminalType(v), bytes), nil

	case *ast.Identifier:
		decls, _ := b.Ctx.ResolveIdentifier(v)
		if len(decls) == 1 {
			if cv, ok := b.Ctx.LoadConstant(decls[0]); ok && cv.Complete {
				return ImmOperand(qt.Type, cv.Bytes), nil
			}
			if r, ok := b.locals[decls[0]]; ok {
				loaded := b.sub.AllocReg(qt.Type, storageSize(qt.Type))
				b.emit(Cmd{Op: OpLoad, Args: []Operand{RegOperand(r)}, Result: loaded, HasResult: true, ResultType: qt.Type})
				return RegOperand(loaded), nil
			}
		}
		return Operand{}, fmt.Errorf("ir: identifier %s has no storage to load", v.Name)

	case *ast.Binop:
		return b.emitBinop(v, qt.Type)

	case *ast.Unop:
		return b.emitUnop(v, qt.Type)

	case *ast.Call:
		return b.emitCall(v, qt.Type)

	case *ast.Access:
		addr, err := b.emitRef(v)
		if err != nil {
			return Operand{}, err
		}
		loaded := b.sub.AllocReg(qt.Type, storageSize(qt.Type))
		b.emit(Cmd{Op: OpLoad, Args: []Operand{RegOperand(addr)}, Result: loaded, HasResult: true, ResultType: qt.Type})
		return RegOperand(loaded), nil

	case *ast.Cast:
		val, err := b.emitExpr(v.Value)
		if err != nil {
			return Operand{}, err
		}
		r := b.sub.AllocReg(qt.Type, storageSize(qt.Type))
		b.emit(Cmd{Op: OpCast, Args: []Operand{val}, Result: r, HasResult: true, ResultType: qt.Type})
		return RegOperand(r), nil

	case *ast.ArrayLiteral:
		return b.emitAggregate(v.Elems, qt.Type)

	case *ast.Tuple:
		return b.emitAggregate(v.Elems, qt.Type)

	case *ast.Hole:
		return ImmOperand(types.Void, nil), nil

	case *ast.ChainOp:
		return b.emitChainOp(v)

	default:
		return Operand{}, fmt.Errorf("ir: lowering of %T is not implemented", e)
	}
}

// emitChainOp lowers an n-ary comparison chain `a < b < c` into the
// pairwise conjunction `(a < b) && (b < c)`, evaluating each operand once.
func (b *Builder) emitChainOp(v *ast.ChainOp) (Operand, error) {
	operands := make([]Operand, len(v.Exprs))
	for i, e := range v.Exprs {
		op, err := b.emitExpr(e)
		if err != nil {
			return Operand{}, err
		}
		operands[i] = op
	}
	var result Operand
	for i, op := range v.Ops {
		irOp, ok := binaryOp(op)
		if !ok {
			return Operand{}, fmt.Errorf("ir: unsupported chain comparison operator %v", op)
		}
		r := b.sub.AllocReg(types.Bool, 1)
		b.emit(Cmd{Op: irOp, Args: []Operand{operands[i], operands[i+1]}, Result: r, HasResult: true, ResultType: types.Bool})
		pair := RegOperand(r)
		if i == 0 {
			result = pair
			continue
		}
		joined := b.sub.AllocReg(types.Bool, 1)
		b.emit(Cmd{Op: OpAnd, Args: []Operand{result, pair}, Result: joined, HasResult: true, ResultType: types.Bool})
		result = RegOperand(joined)
	}
	return result, nil
}

func (b *Builder) emitAggregate(elems []ast.Expr, ty types.Type) (Operand, error) {
	r := b.sub.AllocReg(ty, storageSize(ty))
	b.emit(Cmd{Op: OpCreateAggregate, Result: r, HasResult: true, ResultType: ty})
	for i, e := range elems {
		val, err := b.emitExpr(e)
		if err != nil {
			return Operand{}, err
		}
		b.emit(Cmd{Op: OpAppendAggregate, Args: []Operand{RegOperand(r), val}, Aux: AggregateIndexAux{Index: i}})
	}
	b.emit(Cmd{Op: OpFinalizeAggregate, Args: []Operand{RegOperand(r)}})
	return RegOperand(r), nil
}

// AggregateIndexAux is OpAppendAggregate's Aux payload.
type AggregateIndexAux struct{ Index int }

func (b *Builder) emitBinop(v *ast.Binop, resultType types.Type) (Operand, error) {
	lhs, err := b.emitExpr(v.LHS)
	if err != nil {
		return Operand{}, err
	}
	rhs, err := b.emitExpr(v.RHS)
	if err != nil {
		return Operand{}, err
	}
	op, ok := binaryOp(v.Op)
	if !ok {
		return Operand{}, fmt.Errorf("ir: unsupported binary operator %v", v.Op)
	}
	r := b.sub.AllocReg(resultType, storageSize(resultType))
	b.emit(Cmd{Op: op, Args: []Operand{lhs, rhs}, Result: r, HasResult: true, ResultType: resultType})
	return RegOperand(r), nil
}

func (b *Builder) emitUnop(v *ast.Unop, resultType types.Type) (Operand, error) {
	switch v.Op {
	case ast.OpAddr:
		r, err := b.emitRef(v.Operand)
		if err != nil {
			return Operand{}, err
		}
		return RegOperand(r), nil
	case ast.OpDeref:
		addr, err := b.emitExpr(v.Operand)
		if err != nil {
			return Operand{}, err
		}
		r := b.sub.AllocReg(resultType, storageSize(resultType))
		b.emit(Cmd{Op: OpLoad, Args: []Operand{addr}, Result: r, HasResult: true, ResultType: resultType})
		return RegOperand(r), nil
	}
	operand, err := b.emitExpr(v.Operand)
	if err != nil {
		return Operand{}, err
	}
	var op Op
	switch v.Op {
	case ast.OpNeg:
		op = OpNeg
	case ast.OpNot:
		op = OpNot
	default:
		return Operand{}, fmt.Errorf("ir: unsupported unary operator %v", v.Op)
	}
	r := b.sub.AllocReg(resultType, storageSize(resultType))
	b.emit(Cmd{Op: op, Args: []Operand{operand}, Result: r, HasResult: true, ResultType: resultType})
	return RegOperand(r), nil
}

// emitCall implements spec §4.5 "Emission": a single Binding skips the
// comparator chain; a multi-row table emits one CallCombo per row, and the
// interpreter (internal/interp) is responsible for testing discriminants
// at runtime and picking the matching row.
func (b *Builder) emitCall(call *ast.Call, resultType types.Type) (Operand, error) {
	args := make([]Operand, len(call.Args))
	for i, a := range call.Args {
		op, err := b.emitExpr(a.Value)
		if err != nil {
			return Operand{}, err
		}
		args[i] = op
	}
	meta, ok := b.Ctx.CallMetadataOf(call)
	if !ok || meta.Table == nil {
		return Operand{}, fmt.Errorf("ir: call has no resolved dispatch table")
	}
	aux := CallAux{VariantArgs: meta.Table.VariantArgs}
	for _, combo := range meta.Table.Combinations {
		name := b.nameGen(combo.Binding.Callee)
		aux.Combos = append(aux.Combos, CallCombo{Types: combo.Types, Callee: name})
	}
	if meta.Table.SingleBinding() {
		aux.Callee = aux.Combos[0].Callee
	}
	r := b.sub.AllocReg(resultType, storageSize(resultType))
	b.emit(Cmd{Op: OpCall, Args: args, Result: r, HasResult: true, ResultType: resultType, Aux: aux})
	return RegOperand(r), nil
}

func binaryOp(op ast.Operator) (Op, bool) {
	switch op {
	case ast.OpAdd:
		return OpAdd, true
	case ast.OpSub:
		return OpSub, true
	case ast.OpMul:
		return OpMul, true
	case ast.OpDiv:
		return OpDiv, true
	case ast.OpMod:
		return OpMod, true
	case ast.OpEq:
		return OpEq, true
	case ast.OpNe:
		return OpNe, true
	case ast.OpLt:
		return OpLt, true
	case ast.OpLe:
		return OpLe, true
	case ast.OpGt:
		return OpGt, true
	case ast.OpGe:
		return OpGe, true
	case ast.OpAnd:
		return OpAnd, true
	case ast.OpOr:
		return OpOr, true
	case ast.OpXor:
		return OpXor, true
	default:
		return 0, false
	}
}

// constBytes encodes a Terminal's literal value into its storage bytes.
func constBytes(t *ast.Terminal) ([]byte, bool) {
	switch t.Lit {
	case ast.LitBool:
		v, _ := t.Value.(bool)
		if v {
			return []byte{1}, true
		}
		return []byte{0}, true
	case ast.LitChar:
		v, _ := t.Value.(rune)
		return encodeInt(int64(v), 1), true
	case ast.LitInteger:
		v, _ := t.Value.(int64)
		return encodeInt(v, 8), true
	case ast.LitFloat:
		v, _ := t.Value.(float64)
		return encodeFloat(v), true
	case ast.LitNullPtr:
		return encodeInt(0, 8), true
	default:
		return nil, false
	}
}

// encodeInt little-endian encodes v into width bytes.
func encodeInt(v int64, width int) []byte {
	buf := make([]byte, width)
	u := uint64(v)
	for i := 0; i < width; i++ {
		buf[i] = byte(u)
		u >>= 8
	}
	return buf
}

// encodeFloat little-endian encodes v as an IEEE-754 double.
func encodeFloat(v float64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
	return buf
}

// storageSize is the byte width a register holding a value of t needs.
// Follows internal/compiler's fieldStorageSize rules with its own copy of
// the primitive-width table, since that function is unexported; unlike
// fieldStorageSize, a tuple here is the sum of its elements' sizes.
func storageSize(t types.Type) int64 {
	if t == nil {
		return 0
	}
	switch tt := t.(type) {
	case *types.Primitive:
		switch tt {
		case types.Bool, types.Char, types.I8, types.U8:
			return 1
		case types.I16, types.U16:
			return 2
		case types.I32, types.U32, types.F32:
			return 4
		case types.I64, types.U64, types.F64:
			return 8
		default:
			return types.DefaultArchitecture.PointerSize
		}
	case *types.PtrType, *types.BufPtrType:
		return types.DefaultArchitecture.PointerSize
	case *types.ArrayType:
		return storageSize(tt.Elem) * tt.Len
	case *types.Struct:
		return tt.Size
	case *types.TupleType:
		var total int64
		for _, e := range tt.Elems {
			total += storageSize(e)
		}
		return total
	default:
		return types.DefaultArchitecture.PointerSize
	}
}

func storageAlign(t types.Type) int64 {
	switch tt := t.(type) {
	case *types.Primitive:
		return storageSize(tt)
	case *types.ArrayType:
		return storageAlign(tt.Elem)
	case *types.Struct:
		return tt.Align
	default:
		return types.DefaultArchitecture.PointerSize
	}
}

// fieldOffset recomputes a struct field's byte offset by walking its Fields
// in order, since Field itself does not carry a stored offset. Struct
// layout is finalized by the time a well-typed AST reaches IR lowering, so
// this reproduces exactly what CompleteLayout already derived.
func fieldOffset(s *types.Struct, name string) (int64, bool) {
	var cur int64
	for _, f := range s.Fields {
		align := storageAlign(f.Type)
		if align > types.DefaultArchitecture.MaxAlign {
			align = types.DefaultArchitecture.MaxAlign
		}
		if rem := cur % align; align > 1 && rem != 0 {
			cur += align - rem
		}
		if f.Name == name {
			return cur, true
		}
		cur += storageSize(f.Type)
	}
	return 0, false
}
