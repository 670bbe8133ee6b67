package inspect_test

import (
	"testing"

	"github.com/mtassembler/imac/firstpass"
	"github.com/mtassembler/imac/inspect"
	"github.com/mtassembler/imac/secondpass"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_PopulatesPanelsWithoutRunning(t *testing.T) {
	lines := []string{"L: mov r1, r1", ".entry L", ".data 7"}
	result, err := firstpass.Run("t.am", lines)
	require.NoError(t, err)
	result.Symbols.RelocateData(result.ICFinal)
	require.NoError(t, secondpass.Run("t.am", lines, result))

	tui := inspect.New("t", result)
	require.NotNil(t, tui.App)

	assert.Contains(t, tui.SymbolView.GetText(true), "L")
	assert.Contains(t, tui.CodeView.GetText(true), "0000100")
	assert.Contains(t, tui.DataView.GetText(true), "0000101")
}
