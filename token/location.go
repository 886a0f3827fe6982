package token

import (
	"encoding/json"
	"fmt"
)

// Position points to a character in the source. Both fields are 0-indexed.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// LineNumber returns the 1-indexed line number for this position.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// Compare orders positions by line, then by column. It returns -1, 0 or +1.
func (p Position) Compare(other Position) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	}
	return 0
}

// Less reports whether p sorts before other.
func (p Position) Less(other Position) bool {
	return p.Compare(other) < 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Location is either a single position or a span of positions with
// Begin <= End. The zero value is the point 0:0.
type Location struct {
	begin Position
	end   Position
}

// At returns a point location.
func At(pos Position) Location {
	return Location{begin: pos, end: pos}
}

// NewSpan returns the location covering begin through end. Equal positions
// give a point location. An out-of-order pair is rejected: ok is false and
// the returned Location must not be used.
func NewSpan(begin, end Position) (loc Location, ok bool) {
	if end.Less(begin) {
		return Location{}, false
	}
	return Location{begin: begin, end: end}, true
}

// Begin returns the first position covered by the location.
func (l Location) Begin() Position {
	return l.begin
}

// End returns the last position covered by the location.
func (l Location) End() Position {
	return l.end
}

// IsSpan reports whether the location covers more than one position.
func (l Location) IsSpan() bool {
	return l.begin != l.end
}

// Merge returns the span from the start of l to the end of other. The
// second return value is false if other ends before l begins.
func (l Location) Merge(other Location) (Location, bool) {
	return NewSpan(l.begin, other.end)
}

func (l Location) String() string {
	if l.IsSpan() {
		return fmt.Sprintf("%s-%s", l.begin, l.end)
	}
	return l.begin.String()
}

type locationJSON struct {
	Begin Position  `json:"begin"`
	End   *Position `json:"end,omitempty"`
}

// MarshalJSON encodes a point as {"begin":...} and a span as
// {"begin":...,"end":...}.
func (l Location) MarshalJSON() ([]byte, error) {
	out := locationJSON{Begin: l.begin}
	if l.IsSpan() {
		end := l.end
		out.End = &end
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the form written by MarshalJSON, rejecting spans
// whose end precedes their beginning.
func (l *Location) UnmarshalJSON(data []byte) error {
	var in locationJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.End == nil {
		*l = At(in.Begin)
		return nil
	}
	loc, ok := NewSpan(in.Begin, *in.End)
	if !ok {
		return fmt.Errorf("invalid span: %s precedes %s", *in.End, in.Begin)
	}
	*l = loc
	return nil
}
