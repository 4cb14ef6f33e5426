package ir

import (
	"strings"
	"testing"

	"github.com/icarus-lang/icarus/internal/types"
)

func TestDisassembleRendersBlocksAndExit(t *testing.T) {
	sub := NewSubroutine("add")
	sub.ParamRegsStart = 0
	a := sub.AllocReg(types.I64, 8)
	b := sub.AllocReg(types.I64, 8)
	sub.OutRegsStart = b + 1
	result := sub.AllocReg(types.I64, 8)

	entry := sub.NewBlock("entry")
	entry.Append(Cmd{
		Op:         OpAdd,
		Args:       []Operand{RegOperand(a), RegOperand(b)},
		Result:     result,
		HasResult:  true,
		ResultType: types.I64,
	})
	entry.Exit = Exit{Kind: ExitReturn}

	var buf strings.Builder
	NewDisassembler(sub, &buf).Disassemble()
	out := buf.String()

	for _, want := range []string{"== add ==", "entry:", "add", "return"} {
		if !strings.Contains(out, want) {
			t.Fatalf("Disassemble() output missing %q; got:\n%s", want, out)
		}
	}
}

func TestDisassembleRendersBranchExit(t *testing.T) {
	sub := NewSubroutine("cond")
	cond := sub.AllocReg(types.Bool, 1)
	entry := sub.NewBlock("entry")
	thenB := sub.NewBlock("then")
	elseB := sub.NewBlock("else")
	entry.Exit = Exit{Kind: ExitCond, Cond: RegOperand(cond), True: thenB, False: elseB}
	thenB.Exit = Exit{Kind: ExitReturn}
	elseB.Exit = Exit{Kind: ExitReturn}

	var buf strings.Builder
	NewDisassembler(sub, &buf).Disassemble()
	out := buf.String()

	if !strings.Contains(out, "branch") || !strings.Contains(out, "then") || !strings.Contains(out, "else") {
		t.Fatalf("Disassemble() output missing branch detail; got:\n%s", out)
	}
}

func TestOperandStringFormatsImmediate(t *testing.T) {
	imm := ImmOperand(types.I64, []byte{0x2a})
	s := operandString(imm)
	if !strings.Contains(s, "imm(") {
		t.Fatalf("operandString(immediate) = %q, want it to mention imm(...)", s)
	}
	reg := RegOperand(Reg(5))
	s = operandString(reg)
	if s != "r5" {
		t.Fatalf("operandString(RegOperand(5)) = %q, want %q", s, "r5")
	}
}
