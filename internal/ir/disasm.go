package ir

import (
	"fmt"
	"io"
)

// Disassembler renders a Subroutine's basic blocks as human-readable text,
// the register-machine analogue of the teacher's bytecode disassembler.
type Disassembler struct {
	writer io.Writer
	sub    *Subroutine
}

// NewDisassembler creates a Disassembler for sub that writes to w.
func NewDisassembler(sub *Subroutine, w io.Writer) *Disassembler {
	return &Disassembler{writer: w, sub: sub}
}

// Disassemble prints every block of the Subroutine in order.
func (d *Disassembler) Disassemble() {
	fmt.Fprintf(d.writer, "== %s ==\n", d.sub.Name)
	fmt.Fprintf(d.writer, "params: r%d-r%d  outputs: r%d-\n\n", d.sub.ParamRegsStart, d.sub.OutRegsStart-1, d.sub.OutRegsStart)
	for _, b := range d.sub.Blocks {
		d.disassembleBlock(b)
	}
}

func (d *Disassembler) disassembleBlock(b *BasicBlock) {
	fmt.Fprintf(d.writer, "%s:\n", b.Label)
	for _, c := range b.Cmds {
		d.disassembleCmd(c)
	}
	d.disassembleExit(b.Exit)
	fmt.Fprintln(d.writer)
}

func (d *Disassembler) disassembleCmd(c Cmd) {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = operandString(a)
	}
	line := fmt.Sprintf("    %-20s %s", opNames[c.Op], joinWithAux(args, c.Aux))
	if c.HasResult {
		line = fmt.Sprintf("    r%-4d = %-20s %s", c.Result, opNames[c.Op], joinWithAux(args, c.Aux))
	}
	fmt.Fprintln(d.writer, line)
}

func joinWithAux(args []string, aux any) string {
	s := ""
	for i, a := range args {
		if i > 0 {
			s += ", "
		}
		s += a
	}
	if aux != nil {
		if s != "" {
			s += "  "
		}
		s += fmt.Sprintf("aux=%+v", aux)
	}
	return s
}

func operandString(op Operand) string {
	if op.IsImm {
		return fmt.Sprintf("imm(%v:%x)", op.ImmType, op.Imm)
	}
	return fmt.Sprintf("r%d", op.Reg)
}

func (d *Disassembler) disassembleExit(e Exit) {
	switch e.Kind {
	case ExitReturn:
		fmt.Fprintln(d.writer, "    return")
	case ExitUncond:
		fmt.Fprintf(d.writer, "    jump %s\n", e.Next.Label)
	case ExitCond:
		fmt.Fprintf(d.writer, "    branch %s, %s, %s\n", operandString(e.Cond), e.True.Label, e.False.Label)
	case ExitBlockSeqJump:
		labels := make([]string, len(e.Seq))
		for i, b := range e.Seq {
			labels[i] = b.Label
		}
		fmt.Fprintf(d.writer, "    seqjump %v\n", labels)
	}
}

var opNames = map[Op]string{
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDiv: "div", OpMod: "mod", OpNeg: "neg",
	OpEq: "eq", OpNe: "ne", OpLt: "lt", OpLe: "le", OpGt: "gt", OpGe: "ge",
	OpAnd: "and", OpOr: "or", OpXor: "xor", OpNot: "not",
	OpLoad: "load", OpStore: "store", OpAlloca: "alloca", OpMalloc: "malloc", OpFree: "free", OpPtrIncr: "ptrincr",
	OpField: "field", OpIndex: "index", OpVariantType: "varianttype", OpVariantValue: "variantvalue",
	OpCast: "cast", OpPhi: "phi", OpCall: "call", OpSetRet: "setret",
	OpCreateAggregate: "create_agg", OpAppendAggregate: "append_agg", OpFinalizeAggregate: "finalize_agg",
	OpPrint: "print", OpDebugIr: "debug_ir", OpGenerateStruct: "generate_struct",
}
