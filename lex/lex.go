// Package lex provides the lexical primitives shared by the macro expander
// and both assembly passes: whitespace skipping, label extraction, and
// identifier/decimal validation. None of it builds a token stream — IMAC's
// grammar is simple enough that each pass walks a line with an explicit
// cursor, the way the original implementation's utils.c does.
package lex

import "strings"

// SkipWhitespace advances i past spaces and tabs (not newlines, which never
// appear inside a SourceLine's text).
func SkipWhitespace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

// IsBlankOrComment reports whether the line, once whitespace is skipped, has
// nothing left or starts with a comment marker.
func IsBlankOrComment(s string) bool {
	i := SkipWhitespace(s, 0)
	return i >= len(s) || s[i] == ';'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlnum(c byte) bool {
	return isLetter(c) || isDigit(c)
}

// IsValidIdentifier reports whether name is 1-31 alphanumeric characters
// with a leading letter, the rule shared by labels, macro names, and symbol
// names throughout the spec.
func IsValidIdentifier(name string) bool {
	if len(name) == 0 || len(name) > 31 {
		return false
	}
	if !isLetter(name[0]) {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !isAlnum(name[i]) {
			return false
		}
	}
	return true
}

// ExtractLabel looks for a leading "name:" at the start of the (whitespace-
// skipped) text. It returns the label text, whether a colon was found at
// all, and the index immediately after the colon. The label is NOT
// validated here — callers must run it through IsValidIdentifier, since an
// invalid label is a hard error rather than "no label present".
func ExtractLabel(s string, start int) (label string, found bool, next int) {
	i := start
	for i < len(s) {
		c := s[i]
		if c == ':' {
			return s[start:i], true, i + 1
		}
		if c == ' ' || c == '\t' {
			return "", false, start
		}
		i++
	}
	return "", false, start
}

// ParseDecimal parses an optionally-signed run of digits starting at i.
// It requires at least one digit and stops at the first character that
// isn't part of the token (comma, whitespace, end of string). Returns the
// value, the index just past the token, and whether a well-formed token was
// present at all.
func ParseDecimal(s string, i int) (value int, next int, ok bool) {
	start := i
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	digitsStart := i
	for i < len(s) && isDigit(s[i]) {
		value = value*10 + int(s[i]-'0')
		i++
	}
	if i == digitsStart {
		return 0, start, false
	}
	if neg {
		value = -value
	}
	return value, i, true
}

// ReadToken reads characters up to the first separator in seps, or to end
// of string. Leading separators are not skipped by this function.
func ReadToken(s string, i int, seps string) (token string, next int) {
	start := i
	for i < len(s) && !strings.ContainsRune(seps, rune(s[i])) {
		i++
	}
	return s[start:i], i
}
