package macro_test

import (
	"testing"

	"github.com/mtassembler/imac/macro"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand_SimpleInvocation(t *testing.T) {
	lines := []string{
		"mcro greet",
		"prn r0",
		"mcroend",
		"greet",
	}
	out, err := macro.Expand("test.as", lines)
	require.NoError(t, err)
	assert.Equal(t, []string{"prn r0"}, out)
}

func TestExpand_PassesOtherLinesThrough(t *testing.T) {
	lines := []string{
		"; a comment",
		"",
		"mov r1, r2",
	}
	out, err := macro.Expand("test.as", lines)
	require.NoError(t, err)
	assert.Equal(t, lines, out)
}

func TestExpand_UnterminatedMacroIsError(t *testing.T) {
	lines := []string{
		"mcro greet",
		"prn r0",
	}
	_, err := macro.Expand("test.as", lines)
	assert.Error(t, err)
}

func TestExpand_DuplicateDefinitionIsError(t *testing.T) {
	lines := []string{
		"mcro greet",
		"prn r0",
		"mcroend",
		"mcro greet",
		"prn r1",
		"mcroend",
	}
	_, err := macro.Expand("test.as", lines)
	assert.Error(t, err)
}

func TestExpand_ReservedNameIsError(t *testing.T) {
	lines := []string{
		"mcro mov",
		"prn r0",
		"mcroend",
	}
	_, err := macro.Expand("test.as", lines)
	assert.Error(t, err)
}

func TestExpand_TooManyBodyLinesIsError(t *testing.T) {
	lines := []string{"mcro big"}
	for i := 0; i < macro.MaxBodyLines+1; i++ {
		lines = append(lines, "prn r0")
	}
	lines = append(lines, "mcroend")

	_, err := macro.Expand("test.as", lines)
	assert.Error(t, err)
}

func TestIsReservedName(t *testing.T) {
	assert.True(t, macro.IsReservedName("mcro"))
	assert.True(t, macro.IsReservedName("mov"))
	assert.True(t, macro.IsReservedName("data"))
	assert.False(t, macro.IsReservedName("greet"))
}

func TestExpand_Idempotent(t *testing.T) {
	lines := []string{"mov r1, r2", "prn r0"}
	out, err := macro.Expand("test.as", lines)
	require.NoError(t, err)
	assert.Equal(t, lines, out)
}
