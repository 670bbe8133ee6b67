// Package secondpass implements the second-pass resolver: it re-walks the
// macro-expanded source, promotes .entry symbols, and fills every reserved
// Direct or Relative operand slot the first pass left empty.
package secondpass

import (
	"github.com/mtassembler/imac/diag"
	"github.com/mtassembler/imac/firstpass"
	"github.com/mtassembler/imac/line"
	"github.com/mtassembler/imac/symtab"
	"github.com/mtassembler/imac/word"
)

// Run re-parses every line of the same expanded source the first pass
// consumed and resolves result.Code in place. result must have already
// been through the relocation step (symbols.RelocateData).
func Run(filename string, lines []string, result *firstpass.Result) error {
	symbols := result.Symbols
	code := result.Code
	ic := result.ICStart

	for i, raw := range lines {
		pos := diag.Position{Filename: filename, Line: i + 1}
		p, err := line.Parse(pos, raw)
		if err != nil {
			return err
		}

		switch p.Kind {
		case line.KindBlank:
			continue

		case line.KindDirective:
			if p.Directive == line.DirEntry {
				if err := symbols.PromoteToEntry(p.Identifier); err != nil {
					return diag.New(pos, diag.KindSymbolKind, "%s", err)
				}
			}
			// .data, .string, .extern do not advance ic and need no
			// further action in this pass.

		case line.KindInstruction:
			instructionStart := ic
			ic++ // past the head word, already built in the first pass

			for _, op := range p.Operands {
				switch op.Mode {
				case word.ModeImmediate:
					// filled in the first pass; never revisited here.
					ic++

				case word.ModeRegister:
					// no operand word reserved

				case word.ModeDirect:
					idx := ic - result.ICStart
					sym, ok := symbols.Lookup(op.Identifier)
					if !ok {
						return diag.New(pos, diag.KindUndefinedSymbol, "undefined symbol %q", op.Identifier)
					}
					if sym.Kind == symtab.External {
						code[idx] = word.Cell{
							Value:    word.Data(0, word.External),
							Kind:     word.InstructionOperand,
							Resolved: true,
						}
						symbols.AddExternalReference(op.Identifier, idx+result.ICStart)
					} else {
						code[idx] = word.Cell{
							Value:    word.Data(sym.Address, word.Relocatable),
							Kind:     word.InstructionOperand,
							Resolved: true,
						}
					}
					ic++

				case word.ModeRelative:
					idx := ic - result.ICStart
					sym, ok := symbols.Lookup(op.Identifier)
					if !ok {
						return diag.New(pos, diag.KindUndefinedSymbol, "undefined symbol %q", op.Identifier)
					}
					if !originatesFromCode(sym, result.ICFinal) {
						return diag.New(pos, diag.KindSymbolKind, "relative operand %q does not name a code label", op.Identifier)
					}
					value := sym.Address - instructionStart
					code[idx] = word.Cell{
						Value:    word.Data(value, word.Absolute),
						Kind:     word.InstructionOperand,
						Resolved: true,
					}
					ic++
				}
			}
		}
	}

	return nil
}

// originatesFromCode reports whether a symbol (possibly promoted to Entry)
// was originally a Code-kind definition: Code symbols keep addresses below
// icFinal, while Data symbols — even after relocation — sit at icFinal or
// above, so the address range distinguishes the two once kind alone no
// longer does after promotion to Entry.
func originatesFromCode(sym *symtab.Symbol, icFinal int) bool {
	if sym.Kind == symtab.External {
		return false
	}
	return sym.Address < icFinal
}
