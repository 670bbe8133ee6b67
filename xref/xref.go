// Package xref builds a symbol cross-reference report from an assembled
// program: for every symbol, where it was defined and every line that
// references it, grouped by reference kind.
package xref

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mtassembler/imac/diag"
	"github.com/mtassembler/imac/firstpass"
	"github.com/mtassembler/imac/line"
	"github.com/mtassembler/imac/symtab"
	"github.com/mtassembler/imac/word"
)

// RefType distinguishes how a symbol was used at a reference site.
type RefType int

const (
	RefDirect RefType = iota
	RefRelative
	RefEntryDeclaration
)

func (r RefType) String() string {
	switch r {
	case RefDirect:
		return "direct"
	case RefRelative:
		return "relative"
	case RefEntryDeclaration:
		return "entry"
	default:
		return "unknown"
	}
}

// Reference is one use of a symbol at a source line.
type Reference struct {
	Type RefType
	Line int
}

// Symbol is one row of the cross-reference report.
type Symbol struct {
	Name           string
	Kind           symtab.Kind
	Address        int
	DefinitionLine int // 0 when the symbol has no label-site definition line (e.g. .extern)
	References     []Reference
}

// Report is the sorted, rendered cross-reference of a whole file.
type Report struct {
	Symbols []*Symbol
}

// Generate re-walks the expanded source alongside a completed firstpass
// Result, attributing every label and operand reference to its symbol.
func Generate(filename string, lines []string, result *firstpass.Result) (*Report, error) {
	index := make(map[string]*Symbol)
	ensure := func(name string) *Symbol {
		if s, ok := index[name]; ok {
			return s
		}
		s := &Symbol{Name: name}
		index[name] = s
		return s
	}

	for i, raw := range lines {
		lineNo := i + 1
		pos := diag.Position{Filename: filename, Line: lineNo}
		p, err := line.Parse(pos, raw)
		if err != nil {
			return nil, err
		}
		if p.Kind == line.KindBlank {
			continue
		}
		if p.HasLabel {
			ensure(p.Label).DefinitionLine = lineNo
		}

		switch p.Kind {
		case line.KindDirective:
			switch p.Directive {
			case line.DirExtern:
				ensure(p.Identifier)
			case line.DirEntry:
				sym := ensure(p.Identifier)
				sym.References = append(sym.References, Reference{Type: RefEntryDeclaration, Line: lineNo})
			}
		case line.KindInstruction:
			for _, op := range p.Operands {
				switch op.Mode {
				case word.ModeDirect:
					sym := ensure(op.Identifier)
					sym.References = append(sym.References, Reference{Type: RefDirect, Line: lineNo})
				case word.ModeRelative:
					sym := ensure(op.Identifier)
					sym.References = append(sym.References, Reference{Type: RefRelative, Line: lineNo})
				}
			}
		}
	}

	for name, sym := range index {
		if def, ok := result.Symbols.Lookup(name); ok {
			sym.Kind = def.Kind
			sym.Address = def.Address
		}
	}

	sorted := make([]*Symbol, 0, len(index))
	for _, sym := range index {
		sorted = append(sorted, sym)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	return &Report{Symbols: sorted}, nil
}

// String renders the report as a plain-text listing.
func (r *Report) String() string {
	var sb strings.Builder

	sb.WriteString("Symbol Cross-Reference\n")
	sb.WriteString("=======================\n\n")

	for _, sym := range r.Symbols {
		fmt.Fprintf(&sb, "%-30s [%s, address %07d]\n", sym.Name, sym.Kind, sym.Address)

		if sym.DefinitionLine > 0 {
			fmt.Fprintf(&sb, "  Defined:     line %d\n", sym.DefinitionLine)
		} else {
			sb.WriteString("  Defined:     (external)\n")
		}

		if len(sym.References) == 0 {
			sb.WriteString("  Referenced:  (never)\n")
		} else {
			fmt.Fprintf(&sb, "  Referenced:  %d time(s)\n", len(sym.References))
			byType := make(map[RefType][]int)
			for _, ref := range sym.References {
				byType[ref.Type] = append(byType[ref.Type], ref.Line)
			}
			for _, t := range []RefType{RefDirect, RefRelative, RefEntryDeclaration} {
				lines := byType[t]
				if len(lines) == 0 {
					continue
				}
				strs := make([]string, len(lines))
				for i, l := range lines {
					strs[i] = fmt.Sprintf("%d", l)
				}
				fmt.Fprintf(&sb, "    %-10s: line(s) %s\n", t, strings.Join(strs, ", "))
			}
		}
		sb.WriteString("\n")
	}

	defined, unused := 0, 0
	for _, sym := range r.Symbols {
		if sym.DefinitionLine > 0 {
			defined++
			if len(sym.References) == 0 {
				unused++
			}
		}
	}
	sb.WriteString("Summary\n")
	sb.WriteString("=======\n")
	fmt.Fprintf(&sb, "Total symbols:     %d\n", len(r.Symbols))
	fmt.Fprintf(&sb, "Defined:           %d\n", defined)
	fmt.Fprintf(&sb, "Unused:            %d\n", unused)

	return sb.String()
}
