package vm

import "fmt"

const minTapeCapacity = 64

// Tape is the byte-addressable memory of a running program. Cells are
// created with value 0 the first time they are addressed. The tape grows to
// cover the highest address used and never shrinks.
//
// A Tape is not safe for concurrent use.
type Tape struct {
	cells []byte
}

// NewTape returns an empty tape.
func NewTape() *Tape {
	return &Tape{}
}

// NewTapeFrom returns a tape initialized with a copy of cells.
func NewTapeFrom(cells []byte) *Tape {
	t := &Tape{}
	if len(cells) > 0 {
		t.cells = append(make([]byte, 0, len(cells)), cells...)
	}
	return t
}

// Len returns the number of cells materialized so far.
func (t *Tape) Len() int {
	return len(t.cells)
}

// Cell returns a pointer to the cell at address i, growing the tape with
// zeroed cells if needed. The pointer is valid until the next call that
// grows the tape.
func (t *Tape) Cell(i int) *byte {
	if i < 0 {
		panic(fmt.Sprintf("vm: negative tape address %d", i))
	}
	if i >= len(t.cells) {
		t.grow(i + 1)
	}
	return &t.cells[i]
}

// Peek returns the value at address i without growing the tape. Addresses
// that were never used read as 0.
func (t *Tape) Peek(i int) byte {
	if i < 0 || i >= len(t.cells) {
		return 0
	}
	return t.cells[i]
}

// Bytes returns a copy of the materialized cells.
func (t *Tape) Bytes() []byte {
	out := make([]byte, len(t.cells))
	copy(out, t.cells)
	return out
}

// grow extends the tape to n cells. Capacity at least doubles on each
// reallocation so a steadily increasing pointer costs amortized O(1).
// Cells between len and cap are never written while outside the slice, so
// reslicing exposes zeroes.
func (t *Tape) grow(n int) {
	if n <= cap(t.cells) {
		t.cells = t.cells[:n]
		return
	}
	newCap := 2 * cap(t.cells)
	if newCap < minTapeCapacity {
		newCap = minTapeCapacity
	}
	if newCap < n {
		newCap = n
	}
	cells := make([]byte, n, newCap)
	copy(cells, t.cells)
	t.cells = cells
}

func (t *Tape) String() string {
	return fmt.Sprintf("%v", t.cells)
}
