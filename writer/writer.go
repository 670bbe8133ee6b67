// Package writer emits the three fixed-format output artifacts: the object
// file, the entries file, and the externals file.
package writer

import (
	"bufio"
	"fmt"
	"os"

	"github.com/mtassembler/imac/firstpass"
	"github.com/mtassembler/imac/symtab"
)

// WriteAll writes <base>.ob, <base>.ent, and <base>.ext from a completed
// assembly result. The entries and externals files are omitted entirely
// when there is nothing to put in them.
func WriteAll(base string, result *firstpass.Result) error {
	if err := writeObject(base+".ob", result); err != nil {
		return err
	}
	if err := writeEntries(base+".ent", result.Symbols); err != nil {
		return err
	}
	if err := writeExternals(base+".ext", result.Symbols); err != nil {
		return err
	}
	return nil
}

func writeObject(path string, result *firstpass.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()

	codeSize := len(result.Code)
	dataSize := len(result.Data)
	if _, err := fmt.Fprintf(w, "%d %d\n", codeSize, dataSize); err != nil {
		return err
	}

	for i, cell := range result.Code {
		addr := result.ICStart + i
		if _, err := fmt.Fprintf(w, "%07d %06x\n", addr, cell.Value&0xFFFFFF); err != nil {
			return err
		}
	}

	dataStart := result.ICStart + codeSize
	for i, cell := range result.Data {
		addr := dataStart + i
		if _, err := fmt.Fprintf(w, "%07d %06x\n", addr, cell.Value&0xFFFFFF); err != nil {
			return err
		}
	}

	return nil
}

func writeEntries(path string, symbols *symtab.Table) error {
	entries := symbols.Entries()
	if len(entries) == 0 {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()
	for _, sym := range entries {
		if _, err := fmt.Fprintf(w, "%s %07d\n", sym.Name, sym.Address); err != nil {
			return err
		}
	}
	return nil
}

func writeExternals(path string, symbols *symtab.Table) error {
	refs := symbols.ExternalReferences()
	if len(refs) == 0 {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()
	for _, sym := range refs {
		if _, err := fmt.Fprintf(w, "%s %07d\n", sym.Name, sym.Address); err != nil {
			return err
		}
	}
	return nil
}
