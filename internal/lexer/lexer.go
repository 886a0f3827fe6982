// Package lexer scans source text into a flat sequence of operations.
//
// Every character that is not one of the eight operator glyphs is skipped,
// which is how comments work in the language. Lexing never fails.
package lexer

import (
	"unicode/utf8"

	"github.com/deepnoodle-ai/bfi/token"
)

// Lexer holds the scanning state for one input string.
type Lexer struct {
	input  string
	offset int // byte offset of the next rune
	line   int
	column int
}

// New returns a Lexer positioned at the start of input.
func New(input string) *Lexer {
	return &Lexer{input: input}
}

// Position returns the position of the next unread character.
func (l *Lexer) Position() token.Position {
	return token.Position{Line: l.line, Column: l.column}
}

// Next returns the next operation in the input. The second return value is
// false once the input is exhausted.
func (l *Lexer) Next() (token.Op, bool) {
	for l.offset < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.offset:])
		pos := l.Position()
		l.offset += size
		if r == '\n' {
			l.line++
			l.column = 0
			continue
		}
		l.column++
		if kind, ok := token.Lookup(r); ok {
			return token.NewOp(kind, pos), true
		}
	}
	return token.Op{}, false
}

// Lex scans the whole input and returns its operations in source order.
// Each operation has a count of 1 and a single-position location.
func Lex(input string) []token.Op {
	l := New(input)
	var ops []token.Op
	for {
		op, ok := l.Next()
		if !ok {
			return ops
		}
		ops = append(ops, op)
	}
}
