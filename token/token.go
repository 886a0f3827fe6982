// Package token defines the operator kinds, source positions and operations
// produced when lexing source code.
package token

import "fmt"

// Kind identifies one of the eight operators of the language.
type Kind uint8

// Operator kinds
const (
	MoveRight Kind = iota
	MoveLeft
	Increment
	Decrement
	Output
	Input
	LoopOpen
	LoopClose
)

var glyphs = [...]rune{
	MoveRight: '>',
	MoveLeft:  '<',
	Increment: '+',
	Decrement: '-',
	Output:    '.',
	Input:     ',',
	LoopOpen:  '[',
	LoopClose: ']',
}

var names = [...]string{
	MoveRight: "MoveRight",
	MoveLeft:  "MoveLeft",
	Increment: "Increment",
	Decrement: "Decrement",
	Output:    "Output",
	Input:     "Input",
	LoopOpen:  "LoopOpen",
	LoopClose: "LoopClose",
}

// Kinds lists every operator kind in declaration order.
var Kinds = []Kind{MoveRight, MoveLeft, Increment, Decrement, Output, Input, LoopOpen, LoopClose}

// Lookup returns the kind whose glyph is r. The second return value is false
// for any character that is not an operator glyph.
func Lookup(r rune) (Kind, bool) {
	switch r {
	case '>':
		return MoveRight, true
	case '<':
		return MoveLeft, true
	case '+':
		return Increment, true
	case '-':
		return Decrement, true
	case '.':
		return Output, true
	case ',':
		return Input, true
	case '[':
		return LoopOpen, true
	case ']':
		return LoopClose, true
	}
	return 0, false
}

// Glyph returns the source character for the kind.
func (k Kind) Glyph() rune {
	if int(k) < len(glyphs) {
		return glyphs[k]
	}
	return '?'
}

func (k Kind) String() string {
	if int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Repeatable reports whether consecutive operations of this kind may be
// merged into one counted operation. Loop brackets are never merged since
// each one must pair with exactly one bracket of the opposite kind.
func (k Kind) Repeatable() bool {
	return k != LoopOpen && k != LoopClose
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Op is a single operation: an operator kind applied Count times. Before
// collapsing Count is always 1 and Loc is a single position.
type Op struct {
	Kind  Kind     `json:"kind"`
	Count int      `json:"count"`
	Loc   Location `json:"loc"`
}

// NewOp returns an uncollapsed operation at the given position.
func NewOp(kind Kind, pos Position) Op {
	return Op{Kind: kind, Count: 1, Loc: At(pos)}
}

func (op Op) String() string {
	if op.Count == 1 {
		return fmt.Sprintf("%s@%s", op.Kind, op.Loc)
	}
	return fmt.Sprintf("%s*%d@%s", op.Kind, op.Count, op.Loc)
}
