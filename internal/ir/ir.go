// Package ir implements the per-subroutine SSA intermediate
// representation IR Builder lowers verified AST into, and that the
// interpreter in internal/interp executes (spec §3.4, §4.7).
package ir

import "github.com/icarus-lang/icarus/internal/types"

// Reg is an SSA register, locally scoped to one Subroutine.
type Reg int

// Operand is either a register or an immediate value of a fixed static
// type — spec §3.4 "each slot is Reg | Immediate<T>".
type Operand struct {
	Reg       Reg
	Imm       []byte // storage bytes, only meaningful when IsImm
	IsImm     bool
	ImmType   types.Type
}

func RegOperand(r Reg) Operand { return Operand{Reg: r} }

func ImmOperand(t types.Type, bytes []byte) Operand {
	return Operand{IsImm: true, Imm: bytes, ImmType: t}
}

// RegInfo is one entry of a Subroutine's register allocation map: frame
// offset, byte size, and static type (spec §3.4).
type RegInfo struct {
	Offset int64
	Size   int64
	Type   types.Type
}

// Subroutine is a function-or-jump-or-scope body (spec §3.4, GLOSSARY).
type Subroutine struct {
	Name    string
	Blocks  []*BasicBlock
	Regs    map[Reg]RegInfo
	nextReg Reg

	// ParamRegsStart/OutRegsStart mark the first register of the
	// parameter and out-parameter prefixes (spec §3.4 "parameter register
	// prefix and out-parameter register prefix").
	ParamRegsStart Reg
	OutRegsStart   Reg
}

func NewSubroutine(name string) *Subroutine {
	return &Subroutine{Name: name, Regs: make(map[Reg]RegInfo)}
}

// AllocReg reserves a fresh SSA register of the given type and size.
func (s *Subroutine) AllocReg(t types.Type, size int64) Reg {
	r := s.nextReg
	s.nextReg++
	s.Regs[r] = RegInfo{Size: size, Type: t}
	return r
}

// NewBlock appends and returns a fresh, empty BasicBlock.
func (s *Subroutine) NewBlock(label string) *BasicBlock {
	b := &BasicBlock{Label: label}
	s.Blocks = append(s.Blocks, b)
	return b
}

// ExitKind tags a BasicBlock's terminator (spec §3.4).
type ExitKind int

const (
	ExitUncond ExitKind = iota
	ExitCond
	ExitReturn
	ExitBlockSeqJump
)

// Exit is a BasicBlock's terminator.
type Exit struct {
	Kind  ExitKind
	Cond  Operand    // meaningful when Kind == ExitCond
	True  *BasicBlock
	False *BasicBlock // meaningful when Kind == ExitCond
	Next  *BasicBlock // meaningful when Kind == ExitUncond
	Seq   []*BasicBlock
}

// BasicBlock is an ordered list of Cmds terminated by an Exit.
type BasicBlock struct {
	Label string
	Cmds  []Cmd
	Exit  Exit
}

func (b *BasicBlock) Append(c Cmd) {
	b.Cmds = append(b.Cmds, c)
}
