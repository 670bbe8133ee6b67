// Package word builds the 24-bit machine words the assembler emits, by
// explicit shifts and masks rather than struct layout — the source this
// system is ported from relied on implementation-defined bit-field
// ordering, which Go has no equivalent of and which a portable rewrite
// must not approximate with one.
package word

import "fmt"

// ARE is the three-bit tag on every data word telling the loader how to
// treat the value.
type ARE int

const (
	Absolute    ARE = 4 // 100b
	Relocatable ARE = 2 // 010b
	External    ARE = 1 // 001b
)

// Mode is an operand's addressing mode, encoded in 2 bits within an
// instruction word. Register mode occupies the same 2-bit field as the
// others; it is assigned the value 3 by convention (matching the teacher's
// and the original source's addressing-mode numbering).
type Mode int

const (
	ModeImmediate Mode = 0
	ModeDirect    Mode = 1
	ModeRelative  Mode = 2
	ModeRegister  Mode = 3
)

const (
	opcodeShift = 18
	opcodeMask  = 0x3F // 6 bits

	srcModeShift = 16
	srcModeMask  = 0x3 // 2 bits

	srcRegShift = 13
	srcRegMask  = 0x7 // 3 bits

	dstModeShift = 11
	dstModeMask  = 0x3 // 2 bits

	dstRegShift = 8
	dstRegMask  = 0x7 // 3 bits

	funcShift = 3
	funcMask  = 0x1F // 5 bits

	areMask = 0x7 // 3 bits, no shift

	dataValueShift = 3
	dataValueMask  = 0x1FFFFF // 21 bits

	// WordMask clips any assembled value to the 24 bits a real word holds.
	WordMask = 0xFFFFFF
)

// Instruction builds the first word of an instruction: opcode, the two
// addressing modes, the two register indices (ignored by the caller when a
// mode isn't Register — this function does not validate that), the
// function code, and the ARE tag. Field values are not range-checked here;
// callers in isa and firstpass are responsible for supplying values already
// known to fit.
func Instruction(opcode int, srcMode Mode, srcReg int, dstMode Mode, dstReg int, fn int, are ARE) int {
	w := (opcode & opcodeMask) << opcodeShift
	w |= (int(srcMode) & srcModeMask) << srcModeShift
	w |= (srcReg & srcRegMask) << srcRegShift
	w |= (int(dstMode) & dstModeMask) << dstModeShift
	w |= (dstReg & dstRegMask) << dstRegShift
	w |= (fn & funcMask) << funcShift
	w |= int(are) & areMask
	return w & WordMask
}

// Data builds a data word carrying a signed value in the 21-bit payload
// field plus an ARE tag. Used for Immediate operand words and for resolved
// Direct/Relative/External operand words in the second pass.
func Data(value int, are ARE) int {
	w := (value & dataValueMask) << dataValueShift
	w |= int(are) & areMask
	return w & WordMask
}

// RawData builds a `.data`/`.string` literal word: the value occupies the
// same 21-bit payload field shifted left by 3, but with ARE left at zero
// rather than tagged Absolute. This matches the source assembler's
// (slightly irregular) encoding for literal data, as opposed to the
// Absolute-tagged words produced for resolved operands — see the data/
// string ARE design note.
func RawData(value int) int {
	return ((value & dataValueMask) << dataValueShift) & WordMask
}

// UnresolvedPlaceholder is the zero-valued slot the first pass reserves for
// a Direct or Relative operand; the second pass must overwrite every such
// slot exactly once.
const UnresolvedPlaceholder = 0

// DecodeARE extracts the ARE tag from an assembled word.
func DecodeARE(w int) ARE {
	return ARE(w & areMask)
}

// InstructionFields is the decoded form of an InstructionHead word, used by
// the inspect tool to render a disassembly-ish summary without re-parsing
// source.
type InstructionFields struct {
	Opcode  int
	SrcMode Mode
	SrcReg  int
	DstMode Mode
	DstReg  int
	Func    int
	ARE     ARE
}

// DecodeInstruction splits an instruction word back into its fields.
func DecodeInstruction(w int) InstructionFields {
	return InstructionFields{
		Opcode:  (w >> opcodeShift) & opcodeMask,
		SrcMode: Mode((w >> srcModeShift) & srcModeMask),
		SrcReg:  (w >> srcRegShift) & srcRegMask,
		DstMode: Mode((w >> dstModeShift) & dstModeMask),
		DstReg:  (w >> dstRegShift) & dstRegMask,
		Func:    (w >> funcShift) & funcMask,
		ARE:     ARE(w & areMask),
	}
}

// DecodeDataValue extracts the signed 21-bit payload from a data word,
// sign-extending it.
func DecodeDataValue(w int) int {
	v := (w >> dataValueShift) & dataValueMask
	if v&(1<<20) != 0 {
		v -= 1 << 21
	}
	return v
}

func (a ARE) String() string {
	switch a {
	case Absolute:
		return "A"
	case Relocatable:
		return "R"
	case External:
		return "E"
	default:
		return fmt.Sprintf("ARE(%d)", int(a))
	}
}

// CellKind tags a code-image slot. Keeping this separate from the assembled
// Value and from the instruction Length field is a deliberate departure
// from the cited source, which overloaded a single field both to flag "this
// slot starts an instruction" and to carry the instruction's word count —
// see the instruction-length design note.
type CellKind int

const (
	// InstructionHead is the first word of an instruction; Length holds
	// the instruction's total word count (1..5).
	InstructionHead CellKind = iota
	// InstructionOperand is a subsequent word of an instruction: either
	// an Immediate value filled in the first pass, or a Direct/Relative
	// slot reserved in the first pass and filled in the second.
	InstructionOperand
	// Literal is a .data/.string value, built with RawData.
	Literal
)

// Cell is one slot of the code image (or, reinterpreted, one slot of the
// data image). Value is meaningless until Resolved is true.
type Cell struct {
	Value    int
	Kind     CellKind
	Length   int // valid only on an InstructionHead cell
	Resolved bool
}

func (m Mode) String() string {
	switch m {
	case ModeImmediate:
		return "immediate"
	case ModeDirect:
		return "direct"
	case ModeRelative:
		return "relative"
	case ModeRegister:
		return "register"
	default:
		return "invalid"
	}
}
