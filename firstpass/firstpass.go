// Package firstpass implements the first-pass analyzer: it walks the
// macro-expanded source once, growing the code and data images and
// registering symbol definitions, without resolving any Direct or Relative
// operand (that is the second pass's job).
package firstpass

import (
	"github.com/mtassembler/imac/diag"
	"github.com/mtassembler/imac/isa"
	"github.com/mtassembler/imac/line"
	"github.com/mtassembler/imac/symtab"
	"github.com/mtassembler/imac/word"
)

const (
	// ICStart is the initial instruction counter; code slot i corresponds
	// to memory address i + ICStart.
	ICStart = 100

	// MaxCodeWords and MaxDataWords are each 1200 - 100 = 1100 for code
	// and 1200 for data, the capacity bound named in the component design.
	MaxCodeWords = 1100
	MaxDataWords = 1200
)

// Result carries everything the relocation step and second pass need.
type Result struct {
	Code    []word.Cell
	Data    []word.Cell
	Symbols *symtab.Table
	ICFinal int
	DCFinal int

	// ICStart is the starting instruction counter this run was built with,
	// carried alongside the images so the relocation step, second pass,
	// writer, and inspector all address memory consistently even when a
	// non-default value came from configuration.
	ICStart int
}

// Limits bounds the code/data image capacity and sets the starting
// instruction counter for a single Run. The package constants above are
// its defaults.
type Limits struct {
	CodeWords int
	DataWords int
	ICStart   int
}

// DefaultLimits returns the component design's own default bounds.
func DefaultLimits() Limits {
	return Limits{CodeWords: MaxCodeWords, DataWords: MaxDataWords, ICStart: ICStart}
}

// Run walks every line of expanded source and returns the populated code
// and data images plus the symbol table, using the default Limits.
// Processing halts at the first error, matching the conservative
// whole-file-abort behaviour of the cited implementation.
func Run(filename string, lines []string) (*Result, error) {
	return RunWithLimits(filename, lines, DefaultLimits())
}

// RunWithLimits is Run with caller-supplied capacity bounds and starting
// instruction counter, the hook a loaded [limits] configuration section
// feeds into.
func RunWithLimits(filename string, lines []string, limits Limits) (*Result, error) {
	symbols := symtab.New()
	var code []word.Cell
	var data []word.Cell
	ic := limits.ICStart
	dc := 0

	for i, raw := range lines {
		pos := diag.Position{Filename: filename, Line: i + 1}
		p, err := line.Parse(pos, raw)
		if err != nil {
			return nil, err
		}

		switch p.Kind {
		case line.KindBlank:
			continue

		case line.KindDirective:
			switch p.Directive {
			case line.DirData:
				if p.HasLabel {
					if err := symbols.Define(p.Label, dc, symtab.Data); err != nil {
						return nil, diag.New(pos, diag.KindRedefinition, "%s", err)
					}
				}
				for _, v := range p.DataValues {
					if len(data) >= limits.DataWords {
						return nil, diag.New(pos, diag.KindCapacity, "data image exceeds %d words", limits.DataWords)
					}
					data = append(data, word.Cell{Value: word.RawData(v), Kind: word.Literal, Resolved: true})
					dc++
				}

			case line.DirString:
				if p.HasLabel {
					if err := symbols.Define(p.Label, dc, symtab.Data); err != nil {
						return nil, diag.New(pos, diag.KindRedefinition, "%s", err)
					}
				}
				for _, v := range p.StringData {
					if len(data) >= limits.DataWords {
						return nil, diag.New(pos, diag.KindCapacity, "data image exceeds %d words", limits.DataWords)
					}
					data = append(data, word.Cell{Value: word.RawData(v), Kind: word.Literal, Resolved: true})
					dc++
				}

			case line.DirExtern:
				// A label preceding .extern is silently ignored; p.HasLabel
				// is simply not consulted here.
				if err := symbols.Define(p.Identifier, 0, symtab.External); err != nil {
					return nil, diag.New(pos, diag.KindRedefinition, "%s", err)
				}

			case line.DirEntry:
				// The argument is resolved in the second pass; this pass
				// only validated (in line.Parse) that no label precedes it.
			}

		case line.KindInstruction:
			if p.HasLabel {
				if err := symbols.Define(p.Label, ic, symtab.Code); err != nil {
					return nil, diag.New(pos, diag.KindRedefinition, "%s", err)
				}
			}

			srcMode, srcReg, dstMode, dstReg := word.Mode(0), 0, word.Mode(0), 0
			switch len(p.Operands) {
			case 2:
				src, dst := p.Operands[0], p.Operands[1]
				srcMode = src.Mode
				if src.Mode == word.ModeRegister {
					srcReg = src.Register
				}
				dstMode = dst.Mode
				if dst.Mode == word.ModeRegister {
					dstReg = dst.Register
				}
			case 1:
				op := p.Operands[0]
				if p.Spec.Group == isa.GroupPrn {
					srcMode = op.Mode
					if op.Mode == word.ModeRegister {
						srcReg = op.Register
					}
				} else {
					dstMode = op.Mode
					if op.Mode == word.ModeRegister {
						dstReg = op.Register
					}
				}
			}

			if len(code) >= limits.CodeWords {
				return nil, diag.New(pos, diag.KindCapacity, "code image exceeds %d words", limits.CodeWords)
			}
			headIdx := len(code)
			code = append(code, word.Cell{}) // filled in below once length is known
			ic++
			length := 1

			for _, op := range p.Operands {
				switch op.Mode {
				case word.ModeImmediate:
					if len(code) >= limits.CodeWords {
						return nil, diag.New(pos, diag.KindCapacity, "code image exceeds %d words", limits.CodeWords)
					}
					code = append(code, word.Cell{
						Value:    word.Data(op.Immediate, word.Absolute),
						Kind:     word.InstructionOperand,
						Resolved: true,
					})
					ic++
					length++
				case word.ModeDirect, word.ModeRelative:
					if len(code) >= limits.CodeWords {
						return nil, diag.New(pos, diag.KindCapacity, "code image exceeds %d words", limits.CodeWords)
					}
					code = append(code, word.Cell{Kind: word.InstructionOperand, Resolved: false})
					ic++
					length++
				case word.ModeRegister:
					// no additional word reserved
				}
			}

			code[headIdx] = word.Cell{
				Value:    word.Instruction(p.Spec.Opcode, srcMode, srcReg, dstMode, dstReg, p.Spec.Func, word.Absolute),
				Kind:     word.InstructionHead,
				Length:   length,
				Resolved: true,
			}
		}
	}

	return &Result{
		Code:    code,
		Data:    data,
		Symbols: symbols,
		ICFinal: ic,
		DCFinal: dc,
		ICStart: limits.ICStart,
	}, nil
}
