package ir

import "github.com/icarus-lang/icarus/internal/types"

// Op is the fixed opcode set (spec §3.4: "the opcode list is fixed"). One
// Cmd exists per opcode tag; Cmd's operand/result fields are interpreted
// according to Op.
type Op int

const (
	// OpAdd/OpSub/OpMul/OpDiv/OpMod/OpNeg cover arithmetic uniformly across
	// every primitive numeric type; the operand's static type (carried on
	// the Reg's RegInfo) distinguishes integer vs float semantics.
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg

	// Comparison, always producing a Bool result.
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe

	// Logical/bitwise.
	OpAnd
	OpOr
	OpXor
	OpNot

	// Memory.
	OpLoad
	OpStore
	OpAlloca
	OpMalloc
	OpFree
	OpPtrIncr

	// Aggregates.
	OpField
	OpIndex
	OpVariantType  // load a Variant value's runtime discriminant type
	OpVariantValue // load a Variant value's payload, reinterpreted as one member

	// Casts (one per interned primitive target; the Cmd's ResultType
	// records which).
	OpCast

	// Phi per primitive — one incoming value per predecessor block.
	OpPhi

	// Calls and returns.
	OpCall
	OpSetRet

	// Struct/tuple/variant/block-seq builders, each a Create/Append/
	// Finalize triple (spec §3.4).
	OpCreateAggregate
	OpAppendAggregate
	OpFinalizeAggregate

	// Diagnostics/debug.
	OpPrint
	OpDebugIr
	OpGenerateStruct
)

// Cmd is one instruction in a BasicBlock: operand slots, an optional
// result register, and a static type (spec §3.4).
type Cmd struct {
	Op         Op
	Args       []Operand
	Result     Reg
	HasResult  bool
	ResultType types.Type

	// Aux carries opcode-specific payload that doesn't fit the Reg|
	// Immediate operand model: a field name for OpField, a callee symbol
	// for OpCall, an aggregate member index for OpAppendAggregate, a
	// format string for OpPrint, and so on.
	Aux any
}

// FieldAux is OpField's Aux payload: the field name (for debugging) and its
// byte offset within the base struct, computed once at lowering time since
// a struct's Field does not itself carry a stored offset.
type FieldAux struct {
	Name   string
	Offset int64
}

// CallAux is OpCall's Aux payload. Callee names the Subroutine to invoke
// directly when the call resolved to a single Binding; otherwise VariantArgs
// names which positions of the call's Args are Variant-typed and Combos
// lists one row per resolved combination of concrete types for those
// positions, in the same order as VariantArgs, for the interpreter to test
// at runtime against each argument's live discriminant.
type CallAux struct {
	Callee      string
	VariantArgs []int
	Combos      []CallCombo
}

// CallCombo names one row of a resolved dispatch table: a concrete type for
// each of CallAux.VariantArgs, and the Subroutine that handles that
// combination.
type CallCombo struct {
	Types  []types.Type
	Callee string
}

// PhiAux is OpPhi's Aux payload: one incoming operand per predecessor
// block, in the same order as the owning BasicBlock's predecessors.
type PhiAux struct {
	Incoming []Operand
}
