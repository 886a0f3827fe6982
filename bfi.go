// Package bfi parses and interprets programs written in the eight-operator
// tape language.
//
// The pipeline is Parse, which lexes, collapses repeated operators and builds
// a tree with one subtree per loop body, followed by Interpret, which walks
// that tree against a growable byte tape:
//
//	tree, err := bfi.Parse(source)
//	if err != nil {
//		return err
//	}
//	tape := vm.NewTape()
//	ptr := 0
//	output, err := bfi.Interpret(tree, tape, &ptr)
//
// Eval combines both steps and adds step limits, cancellation and
// observers for hosts that run untrusted programs.
package bfi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deepnoodle-ai/bfi/ast"
	"github.com/deepnoodle-ai/bfi/parser"
	"github.com/deepnoodle-ai/bfi/vm"
)

// Parse lexes, collapses and builds the tree for source. A failure is
// always a *parser.ParseError reporting an unmatched bracket.
func Parse(source string, opts ...Option) (ast.Tree, error) {
	o := collectOptions(opts...)
	return parser.Parse(source, o.parserOpts()...)
}

// Interpret runs tree against tape starting at *ptr and returns the output.
// The tape and pointer are updated in place. Runtime faults, such as moving
// the pointer below 0 or executing the input operator, stop execution and
// are returned as *vm.RuntimeError.
func Interpret(tree ast.Tree, tape *vm.Tape, ptr *int) ([]rune, error) {
	return vm.Interpret(tree, tape, ptr)
}

// Result holds the final state of an evaluation.
type Result struct {
	// Output is the sequence of characters written by the program.
	Output []rune `json:"-"`

	// Text is Output as a string, one character per output byte.
	Text string `json:"output"`

	// Tape is the final memory tape.
	Tape *vm.Tape `json:"-"`

	// Cells is a copy of the final tape contents.
	Cells Cells `json:"tape"`

	// Pointer is the final data pointer.
	Pointer int `json:"pointer"`

	// Steps is the number of operations executed.
	Steps int64 `json:"steps"`
}

// Eval parses and runs source on a fresh tape with the pointer at 0.
//
// When a runtime error occurs the partial Result is returned together with
// the error, so hosts can still show the output and tape up to the fault.
// Errors carry the source text so FriendlyErrorMessage can quote it.
func Eval(ctx context.Context, source string, opts ...Option) (*Result, error) {
	o := collectOptions(opts...)
	tree, err := parser.Parse(source, o.parserOpts()...)
	if err != nil {
		return nil, err
	}

	tape := vm.NewTape()
	ptr := 0
	machine := vm.New(o.vmOpts()...)
	output, err := machine.Run(ctx, tree, tape, &ptr)
	result := &Result{
		Output:  output,
		Text:    string(output),
		Tape:    tape,
		Cells:   Cells(tape.Bytes()),
		Pointer: ptr,
		Steps:   machine.Steps(),
	}
	if rerr, ok := err.(*vm.RuntimeError); ok {
		err = rerr.WithSource(o.filename, source)
	}
	return result, err
}

// Cells is a snapshot of tape contents. It encodes to JSON as an array of
// cell values, e.g. [0,6].
type Cells []byte

func (c Cells) MarshalJSON() ([]byte, error) {
	values := make([]int, len(c))
	for i, b := range c {
		values[i] = int(b)
	}
	return json.Marshal(values)
}

func (c *Cells) UnmarshalJSON(data []byte) error {
	var values []int
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	cells := make(Cells, len(values))
	for i, v := range values {
		if v < 0 || v > 255 {
			return fmt.Errorf("cell %d: value %d out of range", i, v)
		}
		cells[i] = byte(v)
	}
	*c = cells
	return nil
}
