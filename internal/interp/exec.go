package interp

import (
	"fmt"

	"github.com/icarus-lang/icarus/internal/ir"
	"github.com/icarus-lang/icarus/internal/types"
)

// heap is the interpreter's own flat byte arena. OpAlloca reserves a slot
// by appending to mem; addresses are offsets into this slice, never real
// pointers, and never shrink (no free list) — long-running interpretation
// of a Malloc-heavy program would grow unboundedly, which is fine for a
// compile-time evaluator and a reference bytecode interpreter, not for a
// production allocator.
type heap struct {
	mem []byte
}

func (h *heap) alloc(size int64) int64 {
	if size < 0 {
		size = 0
	}
	addr := int64(len(h.mem))
	h.mem = append(h.mem, make([]byte, size)...)
	return addr
}

func (h *heap) read(addr, size int64) []byte {
	if addr < 0 || addr+size > int64(len(h.mem)) {
		return make([]byte, size)
	}
	out := make([]byte, size)
	copy(out, h.mem[addr:addr+size])
	return out
}

func (h *heap) write(addr int64, data []byte) {
	if addr < 0 || addr+int64(len(data)) > int64(len(h.mem)) {
		return
	}
	copy(h.mem[addr:addr+int64(len(data))], data)
}

// frame holds one activation's register file. Every register holds its
// RegInfo.Size bytes verbatim: an OpAlloca result's bytes are an encoded
// heap address, everything else is the value itself in its storage
// encoding.
type frame struct {
	sub  *ir.Subroutine
	regs map[ir.Reg][]byte
	ret  []byte
}

func newFrame(sub *ir.Subroutine) *frame {
	return &frame{sub: sub, regs: make(map[ir.Reg][]byte, len(sub.Regs))}
}

func (f *frame) set(r ir.Reg, b []byte) { f.regs[r] = b }

func (f *frame) value(op ir.Operand) []byte {
	if op.IsImm {
		return op.Imm
	}
	return f.regs[op.Reg]
}

func (f *frame) typeOf(op ir.Operand) types.Type {
	if op.IsImm {
		return op.ImmType
	}
	return f.sub.Regs[op.Reg].Type
}

func addrOf(b []byte) int64 { return decodeInt(padTo(b, 8), false) }

func encodeAddr(v int64) []byte { return encodeInt(v, int(types.DefaultArchitecture.PointerSize)) }

func padTo(b []byte, n int) []byte {
	if len(b) >= n {
		return b[:n]
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// Run executes sub with args bound to its leading parameter registers and
// returns the bytes OpSetRet last stored, if any.
func (m *Machine) Run(sub *ir.Subroutine, h *heap, args [][]byte) ([]byte, error) {
	if h == nil {
		h = &heap{}
	}
	f := newFrame(sub)
	block := sub.Blocks[0]
	for block != nil {
		for _, cmd := range block.Cmds {
			if err := m.exec(f, h, cmd, args); err != nil {
				return nil, fmt.Errorf("interp: in %s: %w", sub.Name, err)
			}
		}
		switch block.Exit.Kind {
		case ir.ExitReturn:
			return f.ret, nil
		case ir.ExitUncond:
			block = block.Exit.Next
		case ir.ExitCond:
			cond := f.value(block.Exit.Cond)
			if len(cond) > 0 && cond[0] != 0 {
				block = block.Exit.True
			} else {
				block = block.Exit.False
			}
		case ir.ExitBlockSeqJump:
			return nil, fmt.Errorf("interp: block-sequence exits are not supported by this interpreter")
		default:
			return nil, fmt.Errorf("interp: unterminated block %q", block.Label)
		}
	}
	return f.ret, nil
}

func (m *Machine) exec(f *frame, h *heap, cmd ir.Cmd, args [][]byte) error {
	switch cmd.Op {
	case ir.OpAlloca:
		aux := cmd.Aux.(ir.AllocaAux)
		addr := h.alloc(aux.Size)
		paramIdx := int(cmd.Result - f.sub.ParamRegsStart)
		if paramIdx >= 0 && cmd.Result < f.sub.OutRegsStart && paramIdx < len(args) {
			h.write(addr, padTo(args[paramIdx], int(aux.Size)))
		}
		f.set(cmd.Result, encodeAddr(addr))
		return nil

	case ir.OpLoad:
		addr := addrOf(f.value(cmd.Args[0]))
		size := storageSize(cmd.ResultType)
		f.set(cmd.Result, h.read(addr, size))
		return nil

	case ir.OpStore:
		addr := addrOf(f.value(cmd.Args[0]))
		h.write(addr, f.value(cmd.Args[1]))
		return nil

	case ir.OpField:
		aux := cmd.Aux.(ir.FieldAux)
		base := addrOf(f.value(cmd.Args[0]))
		f.set(cmd.Result, encodeAddr(base+aux.Offset))
		return nil

	case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpDiv, ir.OpMod:
		return m.execArith(f, cmd)

	case ir.OpNeg:
		return m.execNeg(f, cmd)

	case ir.OpEq, ir.OpNe, ir.OpLt, ir.OpLe, ir.OpGt, ir.OpGe:
		return m.execCompare(f, cmd)

	case ir.OpAnd, ir.OpOr, ir.OpXor:
		return m.execBitwise(f, cmd)

	case ir.OpNot:
		v := f.value(cmd.Args[0])
		if len(v) == 0 || v[0] == 0 {
			f.set(cmd.Result, []byte{1})
		} else {
			f.set(cmd.Result, []byte{0})
		}
		return nil

	case ir.OpCast:
		return m.execCast(f, cmd)

	case ir.OpSetRet:
		f.ret = f.value(cmd.Args[0])
		return nil

	case ir.OpCall:
		return m.execCall(f, h, cmd)

	case ir.OpCreateAggregate:
		f.set(cmd.Result, nil)
		return nil

	case ir.OpAppendAggregate:
		base := cmd.Args[0].Reg
		f.regs[base] = append(f.regs[base], f.value(cmd.Args[1])...)
		return nil

	case ir.OpFinalizeAggregate:
		return nil

	default:
		return fmt.Errorf("op %v is not implemented by this interpreter", cmd.Op)
	}
}

func (m *Machine) execArith(f *frame, cmd ir.Cmd) error {
	lt, rt := f.typeOf(cmd.Args[0]), f.typeOf(cmd.Args[1])
	if isFloat(lt) || isFloat(rt) {
		a := decodeFloat(f.value(cmd.Args[0]))
		b := decodeFloat(f.value(cmd.Args[1]))
		var r float64
		switch cmd.Op {
		case ir.OpAdd:
			r = a + b
		case ir.OpSub:
			r = a - b
		case ir.OpMul:
			r = a * b
		case ir.OpDiv:
			r = a / b
		default:
			return fmt.Errorf("modulo is not defined on float operands")
		}
		f.set(cmd.Result, encodeFloat(r, int(storageSize(cmd.ResultType))))
		return nil
	}
	signed := isSigned(cmd.ResultType)
	a := decodeInt(f.value(cmd.Args[0]), signed)
	b := decodeInt(f.value(cmd.Args[1]), signed)
	var r int64
	switch cmd.Op {
	case ir.OpAdd:
		r = a + b
	case ir.OpSub:
		r = a - b
	case ir.OpMul:
		r = a * b
	case ir.OpDiv:
		if b == 0 {
			return fmt.Errorf("integer division by zero")
		}
		r = a / b
	case ir.OpMod:
		if b == 0 {
			return fmt.Errorf("integer division by zero")
		}
		r = a % b
	}
	f.set(cmd.Result, encodeInt(r, int(storageSize(cmd.ResultType))))
	return nil
}

func (m *Machine) execNeg(f *frame, cmd ir.Cmd) error {
	if isFloat(cmd.ResultType) {
		f.set(cmd.Result, encodeFloat(-decodeFloat(f.value(cmd.Args[0])), int(storageSize(cmd.ResultType))))
		return nil
	}
	f.set(cmd.Result, encodeInt(-decodeInt(f.value(cmd.Args[0]), true), int(storageSize(cmd.ResultType))))
	return nil
}

func (m *Machine) execCompare(f *frame, cmd ir.Cmd) error {
	lt := f.typeOf(cmd.Args[0])
	var cmp int
	switch {
	case isFloat(lt) || isFloat(f.typeOf(cmd.Args[1])):
		a, b := decodeFloat(f.value(cmd.Args[0])), decodeFloat(f.value(cmd.Args[1]))
		cmp = floatCompare(a, b)
	default:
		signed := isSigned(lt) || isSigned(f.typeOf(cmd.Args[1]))
		a, b := decodeInt(f.value(cmd.Args[0]), signed), decodeInt(f.value(cmd.Args[1]), signed)
		cmp = intCompare(a, b)
	}
	var result bool
	switch cmd.Op {
	case ir.OpEq:
		result = cmp == 0
	case ir.OpNe:
		result = cmp != 0
	case ir.OpLt:
		result = cmp < 0
	case ir.OpLe:
		result = cmp <= 0
	case ir.OpGt:
		result = cmp > 0
	case ir.OpGe:
		result = cmp >= 0
	}
	if result {
		f.set(cmd.Result, []byte{1})
	} else {
		f.set(cmd.Result, []byte{0})
	}
	return nil
}

func intCompare(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func floatCompare(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (m *Machine) execBitwise(f *frame, cmd ir.Cmd) error {
	if isBool(cmd.ResultType) {
		a := f.value(cmd.Args[0])
		b := f.value(cmd.Args[1])
		av := len(a) > 0 && a[0] != 0
		bv := len(b) > 0 && b[0] != 0
		var r bool
		switch cmd.Op {
		case ir.OpAnd:
			r = av && bv
		case ir.OpOr:
			r = av || bv
		case ir.OpXor:
			r = av != bv
		}
		if r {
			f.set(cmd.Result, []byte{1})
		} else {
			f.set(cmd.Result, []byte{0})
		}
		return nil
	}
	a := decodeInt(f.value(cmd.Args[0]), false)
	b := decodeInt(f.value(cmd.Args[1]), false)
	var r int64
	switch cmd.Op {
	case ir.OpAnd:
		r = a & b
	case ir.OpOr:
		r = a | b
	case ir.OpXor:
		r = a ^ b
	}
	f.set(cmd.Result, encodeInt(r, int(storageSize(cmd.ResultType))))
	return nil
}

func (m *Machine) execCast(f *frame, cmd ir.Cmd) error {
	srcType := f.typeOf(cmd.Args[0])
	dstWidth := int(storageSize(cmd.ResultType))
	switch {
	case isFloat(srcType) && isFloat(cmd.ResultType):
		f.set(cmd.Result, encodeFloat(decodeFloat(f.value(cmd.Args[0])), dstWidth))
	case isFloat(srcType):
		v := decodeFloat(f.value(cmd.Args[0]))
		f.set(cmd.Result, encodeInt(int64(v), dstWidth))
	case isFloat(cmd.ResultType):
		v := decodeInt(f.value(cmd.Args[0]), isSigned(srcType))
		f.set(cmd.Result, encodeFloat(float64(v), dstWidth))
	default:
		v := decodeInt(f.value(cmd.Args[0]), isSigned(srcType))
		f.set(cmd.Result, encodeInt(v, dstWidth))
	}
	return nil
}

// execCall resolves which Subroutine a call targets and runs it on a fresh
// frame sharing the caller's heap. When the callee was resolved to more
// than one binding, the argument register whose static type matches a
// combo row's type wins; this approximates the dispatch comparator chain
// without a true tagged Variant runtime representation, which this
// interpreter does not implement (OpVariantType/OpVariantValue are never
// emitted by the IR builder for the same reason).
func (m *Machine) execCall(f *frame, h *heap, cmd ir.Cmd) error {
	aux := cmd.Aux.(ir.CallAux)
	callee := aux.Callee
	if callee == "" {
		callee = m.pickCombo(f, cmd, aux)
		if callee == "" {
			return fmt.Errorf("no dispatch combination matched at runtime")
		}
	}
	sub, err := m.resolveCallee(callee)
	if err != nil {
		return err
	}
	argVals := make([][]byte, len(cmd.Args))
	for i, a := range cmd.Args {
		argVals[i] = f.value(a)
	}
	ret, err := m.Run(sub, h, argVals)
	if err != nil {
		return err
	}
	if cmd.HasResult {
		f.set(cmd.Result, ret)
	}
	return nil
}

func (m *Machine) pickCombo(f *frame, cmd ir.Cmd, aux ir.CallAux) string {
	for _, combo := range aux.Combos {
		match := true
		for i, argIdx := range aux.VariantArgs {
			if argIdx >= len(cmd.Args) || i >= len(combo.Types) {
				match = false
				break
			}
			if f.typeOf(cmd.Args[argIdx]) != combo.Types[i] {
				match = false
				break
			}
		}
		if match {
			return combo.Callee
		}
	}
	if len(aux.Combos) > 0 {
		return aux.Combos[0].Callee
	}
	return ""
}
