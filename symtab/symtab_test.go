package symtab_test

import (
	"testing"

	"github.com/mtassembler/imac/symtab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefine_And_Lookup(t *testing.T) {
	table := symtab.New()
	require.NoError(t, table.Define("LOOP", 100, symtab.Code))

	sym, ok := table.Lookup("LOOP")
	require.True(t, ok)
	assert.Equal(t, 100, sym.Address)
	assert.Equal(t, symtab.Code, sym.Kind)
}

func TestDefine_DuplicateIsError(t *testing.T) {
	table := symtab.New()
	require.NoError(t, table.Define("X", 0, symtab.Data))
	err := table.Define("X", 5, symtab.Code)
	assert.Error(t, err)
}

func TestPromoteToEntry(t *testing.T) {
	table := symtab.New()
	require.NoError(t, table.Define("RESULT", 104, symtab.Data))
	require.NoError(t, table.PromoteToEntry("RESULT"))

	sym, _ := table.Lookup("RESULT")
	assert.Equal(t, symtab.Entry, sym.Kind)

	entries := table.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "RESULT", entries[0].Name)
}

func TestPromoteToEntry_ExternalRejected(t *testing.T) {
	table := symtab.New()
	require.NoError(t, table.Define("X", 0, symtab.External))
	err := table.PromoteToEntry("X")
	assert.Error(t, err)
}

func TestPromoteToEntry_UndefinedRejected(t *testing.T) {
	table := symtab.New()
	err := table.PromoteToEntry("GHOST")
	assert.Error(t, err)
}

func TestRelocateData_ShiftsOnlyData(t *testing.T) {
	table := symtab.New()
	require.NoError(t, table.Define("CODE1", 100, symtab.Code))
	require.NoError(t, table.Define("DATA1", 4, symtab.Data))

	table.RelocateData(120)

	code, _ := table.Lookup("CODE1")
	data, _ := table.Lookup("DATA1")
	assert.Equal(t, 100, code.Address)
	assert.Equal(t, 124, data.Address)
}

func TestAddExternalReference_AppendsWithoutReplacingDeclaration(t *testing.T) {
	table := symtab.New()
	require.NoError(t, table.Define("X", 0, symtab.External))
	table.AddExternalReference("X", 105)
	table.AddExternalReference("X", 110)

	decl, ok := table.Lookup("X")
	require.True(t, ok)
	assert.Equal(t, 0, decl.Address)

	refs := table.ExternalReferences()
	require.Len(t, refs, 2)
	assert.Equal(t, 105, refs[0].Address)
	assert.Equal(t, 110, refs[1].Address)
}

func TestAll_PreservesInsertionOrder(t *testing.T) {
	table := symtab.New()
	require.NoError(t, table.Define("A", 100, symtab.Code))
	require.NoError(t, table.Define("B", 101, symtab.Code))
	require.NoError(t, table.Define("C", 0, symtab.External))
	table.AddExternalReference("C", 103)

	names := make([]string, 0, 4)
	for _, sym := range table.All() {
		names = append(names, sym.Name)
	}
	assert.Equal(t, []string{"A", "B", "C", "C"}, names)
}
