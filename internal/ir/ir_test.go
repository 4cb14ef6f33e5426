package ir

import (
	"testing"

	"github.com/icarus-lang/icarus/internal/types"
)

func TestAllocRegAssignsSequentialHandles(t *testing.T) {
	sub := NewSubroutine("f")
	a := sub.AllocReg(types.I64, 8)
	b := sub.AllocReg(types.Bool, 1)
	if a == b {
		t.Fatalf("AllocReg returned the same register twice: %d", a)
	}
	if info := sub.Regs[a]; info.Type != types.Type(types.I64) || info.Size != 8 {
		t.Fatalf("Regs[%d] = %+v, want {Type: I64, Size: 8}", a, info)
	}
	if info := sub.Regs[b]; info.Type != types.Type(types.Bool) || info.Size != 1 {
		t.Fatalf("Regs[%d] = %+v, want {Type: Bool, Size: 1}", b, info)
	}
}

func TestNewBlockAppendsInOrder(t *testing.T) {
	sub := NewSubroutine("f")
	entry := sub.NewBlock("entry")
	exit := sub.NewBlock("exit")
	if len(sub.Blocks) != 2 || sub.Blocks[0] != entry || sub.Blocks[1] != exit {
		t.Fatalf("Blocks = %v, want [entry, exit] in order", sub.Blocks)
	}
}

func TestBasicBlockAppendPreservesOrder(t *testing.T) {
	b := &BasicBlock{Label: "entry"}
	c1 := Cmd{Op: OpAdd}
	c2 := Cmd{Op: OpSub}
	b.Append(c1)
	b.Append(c2)
	if len(b.Cmds) != 2 || b.Cmds[0].Op != OpAdd || b.Cmds[1].Op != OpSub {
		t.Fatalf("Cmds = %v, want [OpAdd, OpSub]", b.Cmds)
	}
}

func TestOperandConstructors(t *testing.T) {
	r := RegOperand(Reg(3))
	if r.IsImm || r.Reg != 3 {
		t.Fatalf("RegOperand(3) = %+v, want a non-immediate operand holding Reg 3", r)
	}
	imm := ImmOperand(types.I64, []byte{1, 0, 0, 0, 0, 0, 0, 0})
	if !imm.IsImm || imm.ImmType != types.Type(types.I64) {
		t.Fatalf("ImmOperand(I64, ...) = %+v, want an immediate typed I64", imm)
	}
}
