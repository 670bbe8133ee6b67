// Package symtab implements the assembler's symbol table: an
// insertion-ordered sequence of symbol entries with the append-only
// external-reference discipline the second pass relies on to build the
// externals file.
package symtab

import "fmt"

// Kind is the symbol's role. A Code or Data symbol may be promoted to Entry
// during the second pass; no other transition is permitted, and External
// symbols never change kind (see Table.PromoteToEntry).
type Kind int

const (
	Code Kind = iota
	Data
	Entry
	External
)

func (k Kind) String() string {
	switch k {
	case Code:
		return "code"
	case Data:
		return "data"
	case Entry:
		return "entry"
	case External:
		return "external"
	default:
		return "unknown"
	}
}

// Symbol is a single row in the table: either a definition (Code, Data,
// External, later possibly Entry) or, for External symbols, an additional
// reference record appended during the second pass recording the address of
// one use of the symbol.
type Symbol struct {
	Name    string
	Address int
	Kind    Kind
}

// Table is the ordered sequence of Symbol rows for one input file. Created
// per file and discarded once output is written; there is no cross-file
// state.
type Table struct {
	entries []*Symbol
	byName  map[string]*Symbol // definition entries only, keyed by name
}

// New creates an empty symbol table.
func New() *Table {
	return &Table{byName: make(map[string]*Symbol)}
}

// Define registers a new symbol definition. It fails if a definition with
// this name already exists — External reference records are exempt from
// this check since they aren't definitions (see AddExternalReference).
func (t *Table) Define(name string, address int, kind Kind) error {
	if existing, ok := t.byName[name]; ok {
		return fmt.Errorf("symbol %q already defined as %s", name, existing.Kind)
	}
	sym := &Symbol{Name: name, Address: address, Kind: kind}
	t.entries = append(t.entries, sym)
	t.byName[name] = sym
	return nil
}

// Lookup finds a symbol's definition by name.
func (t *Table) Lookup(name string) (*Symbol, bool) {
	sym, ok := t.byName[name]
	return sym, ok
}

// PromoteToEntry re-classifies a Code or Data symbol as Entry. It is the
// only permitted kind transition in the table.
func (t *Table) PromoteToEntry(name string) error {
	sym, ok := t.byName[name]
	if !ok {
		return fmt.Errorf("undefined symbol %q", name)
	}
	if sym.Kind == External {
		return fmt.Errorf("symbol %q cannot be both external and entry", name)
	}
	sym.Kind = Entry
	return nil
}

// RelocateData shifts every Data-kind symbol's address by offset. Called
// once between the first and second pass with offset = ic_final, so the
// data segment lands immediately after the code segment in the final
// address space.
func (t *Table) RelocateData(offset int) {
	for _, sym := range t.entries {
		if sym.Kind == Data {
			sym.Address += offset
		}
	}
}

// AddExternalReference appends an additional row recording one use of an
// External symbol at the given memory address. It does not touch byName:
// the original .extern declaration (address 0) remains the lookup target,
// and reference rows are purely additive for the externals-file writer.
func (t *Table) AddExternalReference(name string, address int) {
	t.entries = append(t.entries, &Symbol{Name: name, Address: address, Kind: External})
}

// All returns every row — definitions and reference records — in insertion
// order.
func (t *Table) All() []*Symbol {
	return t.entries
}

// Entries returns every symbol promoted to Entry, in insertion order.
func (t *Table) Entries() []*Symbol {
	var out []*Symbol
	for _, sym := range t.entries {
		if sym.Kind == Entry {
			out = append(out, sym)
		}
	}
	return out
}

// ExternalReferences returns every appended reference row — i.e. every
// External-kind row with a non-zero address, since the declaration itself
// is always recorded at address 0 and every reference lands above the code
// segment's starting address of 100.
func (t *Table) ExternalReferences() []*Symbol {
	var out []*Symbol
	for _, sym := range t.entries {
		if sym.Kind == External && sym.Address != 0 {
			out = append(out, sym)
		}
	}
	return out
}
