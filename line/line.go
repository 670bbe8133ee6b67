// Package line parses a single source line into its structural pieces —
// label, directive or instruction, operands — shared identically by the
// first and second pass. Both passes call Parse independently on the same
// .am text, matching the component design's requirement that the second
// pass re-parse each instruction rather than reuse first-pass state; having
// one Parse function means that re-parse can never drift from the first
// pass's grammar.
package line

import (
	"strings"

	"github.com/mtassembler/imac/diag"
	"github.com/mtassembler/imac/isa"
	"github.com/mtassembler/imac/lex"
	"github.com/mtassembler/imac/word"
)

type Kind int

const (
	KindBlank Kind = iota
	KindDirective
	KindInstruction
)

type Directive int

const (
	DirData Directive = iota
	DirString
	DirExtern
	DirEntry
)

// Parsed is the structural result of parsing one line.
type Parsed struct {
	Kind Kind

	HasLabel bool
	Label    string

	Directive  Directive
	DataValues []int  // DirData
	StringData []int  // DirString: code points plus trailing zero terminator
	Identifier string // DirExtern, DirEntry

	Mnemonic string
	Spec     isa.Spec
	Operands []isa.Operand
}

// Parse runs steps 1-8 of the per-line procedure: whitespace/comment
// skipping, label extraction, directive-or-instruction dispatch, and
// operand count/addressing-mode validation. It does not touch IC/DC or
// build any word — that bookkeeping is pass-specific and lives in firstpass
// and secondpass.
func Parse(pos diag.Position, raw string) (*Parsed, error) {
	if lex.IsBlankOrComment(raw) {
		return &Parsed{Kind: KindBlank}, nil
	}

	i := lex.SkipWhitespace(raw, 0)

	var label string
	hasLabel := false
	if lbl, found, next := lex.ExtractLabel(raw, i); found {
		if !lex.IsValidIdentifier(lbl) {
			return nil, diag.New(pos, diag.KindLabel, "invalid label %q", lbl)
		}
		label, hasLabel = lbl, true
		i = next
		i = lex.SkipWhitespace(raw, i)
	}

	if i >= len(raw) {
		return nil, diag.New(pos, diag.KindDirective, "line has a label but no content")
	}

	if raw[i] == '.' {
		return parseDirective(pos, raw, i, hasLabel, label)
	}

	return parseInstruction(pos, raw, i, hasLabel, label)
}

func parseDirective(pos diag.Position, raw string, i int, hasLabel bool, label string) (*Parsed, error) {
	name, next := lex.ReadToken(raw, i, " \t")
	rest := lex.SkipWhitespace(raw, next)

	p := &Parsed{Kind: KindDirective, HasLabel: hasLabel, Label: label}

	switch name {
	case ".data":
		p.Directive = DirData
		values, err := parseDecimalList(pos, raw[rest:])
		if err != nil {
			return nil, err
		}
		p.DataValues = values
	case ".string":
		p.Directive = DirString
		values, err := parseQuotedString(pos, raw[rest:])
		if err != nil {
			return nil, err
		}
		p.StringData = values
	case ".extern":
		p.Directive = DirExtern
		ident, err := parseSingleIdentifier(pos, raw[rest:])
		if err != nil {
			return nil, err
		}
		p.Identifier = ident
	case ".entry":
		if hasLabel {
			return nil, diag.New(pos, diag.KindLabel, "label not permitted before .entry")
		}
		p.Directive = DirEntry
		ident, err := parseSingleIdentifier(pos, raw[rest:])
		if err != nil {
			return nil, err
		}
		p.Identifier = ident
	default:
		return nil, diag.New(pos, diag.KindDirective, "unknown directive %q", name)
	}

	return p, nil
}

func parseDecimalList(pos diag.Position, s string) ([]int, error) {
	var values []int
	i := lex.SkipWhitespace(s, 0)
	if i >= len(s) {
		return nil, diag.New(pos, diag.KindOperandSyntax, ".data requires at least one value")
	}
	for {
		n, next, ok := lex.ParseDecimal(s, i)
		if !ok {
			return nil, diag.New(pos, diag.KindOperandSyntax, "expected a decimal value in .data list")
		}
		values = append(values, n)
		i = lex.SkipWhitespace(s, next)
		if i >= len(s) {
			break
		}
		if s[i] != ',' {
			return nil, diag.New(pos, diag.KindOperandSyntax, "expected ',' between .data values")
		}
		i = lex.SkipWhitespace(s, i+1)
		if i >= len(s) {
			return nil, diag.New(pos, diag.KindOperandSyntax, "trailing comma in .data list")
		}
	}
	return values, nil
}

func parseQuotedString(pos diag.Position, s string) ([]int, error) {
	i := lex.SkipWhitespace(s, 0)
	if i >= len(s) || s[i] != '"' {
		return nil, diag.New(pos, diag.KindOperandSyntax, ".string requires an opening quote")
	}
	i++
	start := i
	for i < len(s) && s[i] != '"' {
		i++
	}
	if i >= len(s) {
		return nil, diag.New(pos, diag.KindOperandSyntax, "unterminated .string literal")
	}
	body := s[start:i]
	i++
	if lex.SkipWhitespace(s, i) != len(s) {
		return nil, diag.New(pos, diag.KindOperandSyntax, "unexpected text after .string literal")
	}
	values := make([]int, 0, len(body)+1)
	for _, r := range body {
		values = append(values, int(r))
	}
	values = append(values, 0)
	return values, nil
}

func parseSingleIdentifier(pos diag.Position, s string) (string, error) {
	i := lex.SkipWhitespace(s, 0)
	name, next := lex.ReadToken(s, i, " \t")
	if name == "" {
		return "", diag.New(pos, diag.KindOperandSyntax, "expected an identifier")
	}
	if !lex.IsValidIdentifier(name) {
		return "", diag.New(pos, diag.KindLabel, "invalid identifier %q", name)
	}
	if lex.SkipWhitespace(s, next) != len(s) {
		return "", diag.New(pos, diag.KindOperandSyntax, "unexpected text after identifier")
	}
	return name, nil
}

func parseInstruction(pos diag.Position, raw string, i int, hasLabel bool, label string) (*Parsed, error) {
	mnemonic, next := lex.ReadToken(raw, i, " \t,")
	spec, ok := isa.Lookup(mnemonic)
	if !ok {
		return nil, diag.New(pos, diag.KindDirective, "unknown mnemonic %q", mnemonic)
	}

	rest := strings.TrimSpace(raw[next:])
	var lexemes []string
	if rest != "" {
		lexemes = strings.Split(rest, ",")
	}
	for idx, lx := range lexemes {
		lexemes[idx] = strings.TrimSpace(lx)
	}

	expected := spec.Group.ExpectedOperands()
	if len(lexemes) != expected {
		return nil, diag.New(pos, diag.KindOperandCount, "%s expects %d operand(s), got %d", mnemonic, expected, len(lexemes))
	}

	operands := make([]isa.Operand, 0, len(lexemes))
	for _, lx := range lexemes {
		op, ok := isa.ClassifyOperand(lx)
		if !ok {
			return nil, diag.New(pos, diag.KindOperandSyntax, "malformed operand %q", lx)
		}
		if op.Mode == word.ModeRelative && !spec.Group.AllowsRelative() {
			return nil, diag.New(pos, diag.KindAddressingMode, "relative addressing not permitted with %s", mnemonic)
		}
		operands = append(operands, op)
	}

	return &Parsed{
		Kind:     KindInstruction,
		HasLabel: hasLabel,
		Label:    label,
		Mnemonic: mnemonic,
		Spec:     spec,
		Operands: operands,
	}, nil
}
