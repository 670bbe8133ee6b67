package line_test

import (
	"testing"

	"github.com/mtassembler/imac/diag"
	"github.com/mtassembler/imac/isa"
	"github.com/mtassembler/imac/line"
	"github.com/mtassembler/imac/word"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pos(n int) diag.Position { return diag.Position{Filename: "test.am", Line: n} }

func TestParse_Blank(t *testing.T) {
	p, err := line.Parse(pos(1), "   ; comment")
	require.NoError(t, err)
	assert.Equal(t, line.KindBlank, p.Kind)
}

func TestParse_DataDirectiveWithLabel(t *testing.T) {
	p, err := line.Parse(pos(1), "NUMS: .data +5, -3, 0")
	require.NoError(t, err)
	assert.Equal(t, line.KindDirective, p.Kind)
	assert.Equal(t, line.DirData, p.Directive)
	assert.True(t, p.HasLabel)
	assert.Equal(t, "NUMS", p.Label)
	assert.Equal(t, []int{5, -3, 0}, p.DataValues)
}

func TestParse_DataDirectiveRejectsTrailingComma(t *testing.T) {
	_, err := line.Parse(pos(1), ".data 1, 2,")
	assert.Error(t, err)
}

func TestParse_DataDirectiveRejectsEmptyList(t *testing.T) {
	_, err := line.Parse(pos(1), ".data")
	assert.Error(t, err)
}

func TestParse_StringDirective(t *testing.T) {
	p, err := line.Parse(pos(1), `.string "AB"`)
	require.NoError(t, err)
	assert.Equal(t, []int{65, 66, 0}, p.StringData)
}

func TestParse_StringDirectiveUnterminated(t *testing.T) {
	_, err := line.Parse(pos(1), `.string "AB`)
	assert.Error(t, err)
}

func TestParse_ExternDirective(t *testing.T) {
	p, err := line.Parse(pos(1), ".extern X")
	require.NoError(t, err)
	assert.Equal(t, line.DirExtern, p.Directive)
	assert.Equal(t, "X", p.Identifier)
}

func TestParse_EntryDirectiveRejectsLabel(t *testing.T) {
	_, err := line.Parse(pos(1), "L: .entry X")
	assert.Error(t, err)
}

func TestParse_UnknownDirective(t *testing.T) {
	_, err := line.Parse(pos(1), ".foo")
	assert.Error(t, err)
}

func TestParse_Instruction_TwoOperands(t *testing.T) {
	p, err := line.Parse(pos(1), "mov r3, r7")
	require.NoError(t, err)
	assert.Equal(t, line.KindInstruction, p.Kind)
	require.Len(t, p.Operands, 2)
	assert.Equal(t, word.ModeRegister, p.Operands[0].Mode)
	assert.Equal(t, 3, p.Operands[0].Register)
	assert.Equal(t, word.ModeRegister, p.Operands[1].Mode)
	assert.Equal(t, 7, p.Operands[1].Register)
}

func TestParse_Instruction_WrongOperandCount(t *testing.T) {
	_, err := line.Parse(pos(1), "mov r3")
	assert.Error(t, err)
}

func TestParse_Instruction_UnknownMnemonic(t *testing.T) {
	_, err := line.Parse(pos(1), "frob r1")
	assert.Error(t, err)
}

func TestParse_Instruction_RelativeOnlyForJumps(t *testing.T) {
	_, err := line.Parse(pos(1), "mov &LOOP, r1")
	assert.Error(t, err)

	p, err := line.Parse(pos(1), "jmp &LOOP")
	require.NoError(t, err)
	assert.Equal(t, word.ModeRelative, p.Operands[0].Mode)
}

func TestParse_Instruction_ZeroOperand(t *testing.T) {
	p, err := line.Parse(pos(1), "stop")
	require.NoError(t, err)
	assert.Equal(t, isa.GroupHalt, p.Spec.Group)
	assert.Len(t, p.Operands, 0)
}

func TestParse_Instruction_LabelPrefix(t *testing.T) {
	p, err := line.Parse(pos(1), "LOOP: jmp LOOP")
	require.NoError(t, err)
	assert.True(t, p.HasLabel)
	assert.Equal(t, "LOOP", p.Label)
}
