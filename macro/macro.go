// Package macro implements the first pipeline stage: expanding `mcro`
// blocks out of a `.as` source file into a macro-free `.am` text. Unlike
// the teacher's MacroTable, there are no parameters here — invocation is
// name substitution only, which is a deliberate Non-goal of this system.
package macro

import (
	"fmt"
	"strings"

	"github.com/mtassembler/imac/diag"
	"github.com/mtassembler/imac/isa"
	"github.com/mtassembler/imac/lex"
)

const (
	MaxMacros        = 50
	MaxBodyLines     = 100
	MaxNameLength    = 31
)

// Definition is one stored macro: its name and captured body lines,
// verbatim, including original leading whitespace. Lines are stored without
// their line terminators.
type Definition struct {
	Name string
	Body []string
}

// Table holds every macro defined in one file. It is created fresh per
// file — there is no process-wide macro state.
type Table struct {
	defs  map[string]*Definition
	order []string
}

// NewTable creates an empty macro table.
func NewTable() *Table {
	return &Table{defs: make(map[string]*Definition)}
}

func (t *Table) define(name string) (*Definition, error) {
	if _, exists := t.defs[name]; exists {
		return nil, fmt.Errorf("macro %q already defined", name)
	}
	if len(t.order) >= MaxMacros {
		return nil, fmt.Errorf("too many macro definitions (limit %d)", MaxMacros)
	}
	d := &Definition{Name: name}
	t.defs[name] = d
	t.order = append(t.order, name)
	return d, nil
}

// Lookup finds a macro's definition by name.
func (t *Table) Lookup(name string) (*Definition, bool) {
	d, ok := t.defs[name]
	return d, ok
}

// IsReservedName reports whether name collides with mcro/mcroend, one of
// the sixteen mnemonics, or one of the four directives — the exact
// collision set the source preprocessor's is_valid_macro_name checks
// against, not a generic keyword list.
func IsReservedName(name string) bool {
	if name == "mcro" || name == "mcroend" {
		return true
	}
	if isa.IsMnemonic(name) {
		return true
	}
	if isa.Directives["."+name] {
		return true
	}
	return false
}

// state is the expander's per-file state machine. There is no separate
// DefiningName state: the mcro line's name is validated and registered in
// the same step that moves the expander from Outside to InBody.
type state int

const (
	stateOutside state = iota
	stateInBody
)

// Expand reads source lines and returns the macro-free expansion. filename
// is used only for diagnostics.
func Expand(filename string, lines []string) ([]string, error) {
	table := NewTable()
	var out []string
	st := stateOutside
	var current *Definition
	var bodyLines int

	pos := func(n int) diag.Position { return diag.Position{Filename: filename, Line: n} }

	for i, raw := range lines {
		lineNo := i + 1

		if st == stateInBody {
			trimmedStart := lex.SkipWhitespace(raw, 0)
			first, _ := lex.ReadToken(raw, trimmedStart, " \t")
			if first == "mcroend" {
				rest := lex.SkipWhitespace(raw, trimmedStart+len(first))
				if rest != len(raw) {
					return nil, diag.New(pos(lineNo), diag.KindDirective, "unexpected text after mcroend")
				}
				st = stateOutside
				current = nil
				continue
			}
			if bodyLines >= MaxBodyLines {
				return nil, diag.New(pos(lineNo), diag.KindCapacity, "macro %q exceeds %d body lines", current.Name, MaxBodyLines)
			}
			current.Body = append(current.Body, raw)
			bodyLines++
			continue
		}

		if lex.IsBlankOrComment(raw) {
			out = append(out, raw)
			continue
		}

		trimmedStart := lex.SkipWhitespace(raw, 0)
		first, next := lex.ReadToken(raw, trimmedStart, " \t")

		if first == "mcro" {
			nameStart := lex.SkipWhitespace(raw, next)
			name, nameEnd := lex.ReadToken(raw, nameStart, " \t")
			if name == "" {
				return nil, diag.New(pos(lineNo), diag.KindDirective, "mcro requires a name")
			}
			if rest := lex.SkipWhitespace(raw, nameEnd); rest != len(raw) {
				return nil, diag.New(pos(lineNo), diag.KindDirective, "unexpected text after macro name")
			}
			if !lex.IsValidIdentifier(name) || len(name) > MaxNameLength {
				return nil, diag.New(pos(lineNo), diag.KindLabel, "invalid macro name %q", name)
			}
			if IsReservedName(name) {
				return nil, diag.New(pos(lineNo), diag.KindDirective, "macro name %q collides with a reserved mnemonic or directive", name)
			}
			def, err := table.define(name)
			if err != nil {
				return nil, diag.New(pos(lineNo), diag.KindRedefinition, "%s", err)
			}
			current = def
			bodyLines = 0
			st = stateInBody
			continue
		}

		if first == "mcroend" {
			return nil, diag.New(pos(lineNo), diag.KindDirective, "mcroend without matching mcro")
		}

		candidate := strings.TrimSpace(raw)
		if def, ok := table.Lookup(candidate); ok {
			out = append(out, def.Body...)
			continue
		}

		out = append(out, raw)
	}

	if st == stateInBody {
		return nil, diag.New(pos(len(lines)), diag.KindDirective, "unterminated macro %q: missing mcroend", current.Name)
	}

	return out, nil
}
