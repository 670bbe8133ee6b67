// Package isa holds IMAC's fixed instruction set: the sixteen mnemonics,
// their opcode/function/operand-count triples, and the operand addressing-
// mode classifier.
package isa

import (
	"strconv"

	"github.com/mtassembler/imac/lex"
	"github.com/mtassembler/imac/word"
)

// Group is the opcode group; it determines operand count and which
// addressing modes are legal for the single operand a one-operand
// instruction takes.
type Group int

const (
	GroupInvalid Group = iota
	GroupMov
	GroupCmp
	GroupMath
	GroupLea
	GroupSingle
	GroupJumps
	GroupRed
	GroupPrn
	GroupRts
	GroupHalt
)

// Spec is one row of the instruction table.
type Spec struct {
	Mnemonic string
	Opcode   int
	Func     int
	Operands int
	Group    Group
}

var table = map[string]Spec{
	"mov":  {"mov", 0, 0, 2, GroupMov},
	"cmp":  {"cmp", 1, 0, 2, GroupCmp},
	"add":  {"add", 2, 1, 2, GroupMath},
	"sub":  {"sub", 2, 2, 2, GroupMath},
	"lea":  {"lea", 4, 0, 2, GroupLea},
	"clr":  {"clr", 5, 1, 1, GroupSingle},
	"not":  {"not", 5, 2, 1, GroupSingle},
	"inc":  {"inc", 5, 3, 1, GroupSingle},
	"dec":  {"dec", 5, 4, 1, GroupSingle},
	"jmp":  {"jmp", 9, 1, 1, GroupJumps},
	"bne":  {"bne", 9, 2, 1, GroupJumps},
	"jsr":  {"jsr", 9, 3, 1, GroupJumps},
	"red":  {"red", 12, 0, 1, GroupRed},
	"prn":  {"prn", 13, 0, 1, GroupPrn},
	"rts":  {"rts", 14, 0, 0, GroupRts},
	"stop": {"stop", 15, 0, 0, GroupHalt},
}

// Lookup finds a mnemonic's Spec. ok is false for an unknown mnemonic.
func Lookup(mnemonic string) (Spec, bool) {
	s, ok := table[mnemonic]
	return s, ok
}

// IsMnemonic reports whether name is one of the sixteen reserved mnemonics,
// used by the macro expander's reserved-name check.
func IsMnemonic(name string) bool {
	_, ok := table[name]
	return ok
}

// Directives is the reserved directive name set, alongside IsMnemonic used
// to validate macro names.
var Directives = map[string]bool{
	".data":   true,
	".string": true,
	".entry":  true,
	".extern": true,
}

// Operand is a single classified operand.
type Operand struct {
	Mode       word.Mode
	Register   int    // valid only when Mode == ModeRegister
	Immediate  int    // valid only when Mode == ModeImmediate
	Identifier string // valid when Mode == ModeDirect or ModeRelative
}

// ClassifyOperand maps an operand lexeme to an addressing mode. The second
// return value is false for a malformed operand, which callers report as an
// operand-syntax error. Only r0..r7 classify as Register; any other lexeme
// that is a valid identifier, such as r8 or a bare r, classifies as Direct.
func ClassifyOperand(lexeme string) (Operand, bool) {
	if lexeme == "" {
		return Operand{}, false
	}
	switch lexeme[0] {
	case '#':
		rest := lexeme[1:]
		n, next, ok := lex.ParseDecimal(rest, 0)
		if !ok || next != len(rest) {
			return Operand{}, false
		}
		return Operand{Mode: word.ModeImmediate, Immediate: n}, true
	case '&':
		name := lexeme[1:]
		if !lex.IsValidIdentifier(name) {
			return Operand{}, false
		}
		return Operand{Mode: word.ModeRelative, Identifier: name}, true
	case 'r':
		if len(lexeme) == 2 && lexeme[1] >= '0' && lexeme[1] <= '7' {
			n, err := strconv.Atoi(lexeme[1:])
			if err != nil {
				return Operand{}, false
			}
			return Operand{Mode: word.ModeRegister, Register: n}, true
		}
		if lex.IsValidIdentifier(lexeme) {
			return Operand{Mode: word.ModeDirect, Identifier: lexeme}, true
		}
		return Operand{}, false
	default:
		if lex.IsValidIdentifier(lexeme) {
			return Operand{Mode: word.ModeDirect, Identifier: lexeme}, true
		}
		return Operand{}, false
	}
}

// ExpectedOperands reports how many operands a group takes, independent of
// the specific mnemonic's Spec.Operands (kept for symmetry; both always
// agree for a given Spec).
func (g Group) ExpectedOperands() int {
	switch g {
	case GroupRts, GroupHalt:
		return 0
	case GroupSingle, GroupJumps, GroupRed, GroupPrn:
		return 1
	case GroupMov, GroupCmp, GroupMath, GroupLea:
		return 2
	default:
		return -1
	}
}

// AllowsRelative reports whether the Relative addressing mode (&label) is
// legal for this group. Only the Jumps group permits it.
func (g Group) AllowsRelative() bool {
	return g == GroupJumps
}
