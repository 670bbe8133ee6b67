package secondpass_test

import (
	"testing"

	"github.com/mtassembler/imac/firstpass"
	"github.com/mtassembler/imac/secondpass"
	"github.com/mtassembler/imac/word"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_DirectOperandToDataSymbol(t *testing.T) {
	// L: .data 7 at DC=0 gets relocated to ic_final; "mov r1, L" resolves
	// to a Relocatable word carrying L's final address.
	lines := []string{
		"mov r1, r2",
		"mov r2, r2",
		"mov r3, r2",
		"mov r4, r2",
		"L: .data 7",
		"mov r1, L",
	}
	result, err := firstpass.Run("t.am", lines)
	require.NoError(t, err)

	result.Symbols.RelocateData(result.ICFinal)
	err = secondpass.Run("t.am", lines, result)
	require.NoError(t, err)

	sym, ok := result.Symbols.Lookup("L")
	require.True(t, ok)
	assert.Equal(t, result.ICFinal, sym.Address)

	// The final instruction ("mov r1, L") reserves one operand word,
	// which must carry L's relocated address with ARE Relocatable.
	lastCell := result.Code[len(result.Code)-1]
	assert.Equal(t, word.Data(sym.Address, word.Relocatable), lastCell.Value)
}

func TestRun_ExternalOperand(t *testing.T) {
	lines := []string{
		".extern X",
		"jmp X",
	}
	result, err := firstpass.Run("t.am", lines)
	require.NoError(t, err)
	result.Symbols.RelocateData(result.ICFinal)
	require.NoError(t, secondpass.Run("t.am", lines, result))

	operand := result.Code[1]
	assert.Equal(t, word.Data(0, word.External), operand.Value)

	refs := result.Symbols.ExternalReferences()
	require.Len(t, refs, 1)
	assert.Equal(t, firstpass.ICStart+1, refs[0].Address)
}

func TestRun_RelativeOperand(t *testing.T) {
	// jmp &LOOP where LOOP is 6 words after the jmp instruction's start
	// (the jmp's own two words plus four one-word movs).
	lines := []string{
		"jmp &LOOP",
		"mov r1, r1",
		"mov r1, r1",
		"mov r1, r1",
		"mov r1, r1",
		"LOOP: rts",
	}
	result, err := firstpass.Run("t.am", lines)
	require.NoError(t, err)
	result.Symbols.RelocateData(result.ICFinal)
	require.NoError(t, secondpass.Run("t.am", lines, result))

	operand := result.Code[1]
	assert.Equal(t, word.Data(6, word.Absolute), operand.Value)
}

func TestRun_EntryPromotion(t *testing.T) {
	lines := []string{
		"L: mov r1, r1",
		".entry L",
	}
	result, err := firstpass.Run("t.am", lines)
	require.NoError(t, err)
	result.Symbols.RelocateData(result.ICFinal)
	require.NoError(t, secondpass.Run("t.am", lines, result))

	entries := result.Symbols.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "L", entries[0].Name)
}

func TestRun_UndefinedSymbolIsError(t *testing.T) {
	lines := []string{"mov r1, GHOST"}
	result, err := firstpass.Run("t.am", lines)
	require.NoError(t, err)
	result.Symbols.RelocateData(result.ICFinal)
	err = secondpass.Run("t.am", lines, result)
	assert.Error(t, err)
}

func TestRun_RelativeToDataSymbolIsError(t *testing.T) {
	lines := []string{
		"jmp &D",
		"D: .data 1",
	}
	result, err := firstpass.Run("t.am", lines)
	require.NoError(t, err)
	result.Symbols.RelocateData(result.ICFinal)
	err = secondpass.Run("t.am", lines, result)
	assert.Error(t, err)
}
