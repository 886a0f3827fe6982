package vm

import (
	goerrors "errors"
	"fmt"

	"github.com/deepnoodle-ai/bfi/errors"
	"github.com/deepnoodle-ai/bfi/token"
)

var (
	// ErrPointerUnderflow is returned when a MoveLeft would take the data
	// pointer below address 0.
	ErrPointerUnderflow = goerrors.New("pointer underflow")

	// ErrInputUnsupported is returned when the program executes the input
	// operator, which has no defined behavior yet.
	ErrInputUnsupported = goerrors.New("input operator is not supported")

	// ErrStepLimitExceeded is returned when a program runs more operations
	// than allowed by WithStepLimit.
	ErrStepLimitExceeded = goerrors.New("step limit exceeded")

	// ErrHalted is returned when an Observer stops execution.
	ErrHalted = goerrors.New("execution halted by observer")
)

var errorCodes = map[error]errors.ErrorCode{
	ErrPointerUnderflow:  errors.E3001,
	ErrInputUnsupported:  errors.E3002,
	ErrStepLimitExceeded: errors.E3003,
	ErrHalted:            errors.E3004,
}

// RuntimeError is an unrecoverable error raised while executing an
// operation. Execution stops at the operation that raised it.
type RuntimeError struct {
	Err     error
	Op      token.Op
	Pointer int

	file   string
	source string
}

func (e *RuntimeError) Error() string {
	pos := e.Op.Loc.Begin()
	return fmt.Sprintf("runtime error: %s at %d:%d", e.Err, pos.LineNumber(), pos.ColumnNumber())
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// WithSource returns a copy of the error carrying the program text and the
// file name, used to show the offending line in friendly messages.
func (e *RuntimeError) WithSource(file, source string) *RuntimeError {
	cp := *e
	cp.file = file
	cp.source = source
	return &cp
}

func (e *RuntimeError) FriendlyErrorMessage() string {
	formatter := errors.NewFormatter(false)
	return formatter.Format(e.ToFormatted())
}

// ToFormatted converts the runtime error to a FormattedError for display.
func (e *RuntimeError) ToFormatted() *errors.FormattedError {
	begin := e.Op.Loc.Begin()
	end := e.Op.Loc.End()
	formatted := &errors.FormattedError{
		Code:     errorCodes[e.Err],
		Kind:     "runtime error",
		Message:  e.Err.Error(),
		Filename: e.file,
		Line:     begin.LineNumber(),
		Column:   begin.ColumnNumber(),
		Note:     fmt.Sprintf("data pointer was at cell %d", e.Pointer),
	}
	if end.Line == begin.Line {
		formatted.EndColumn = end.ColumnNumber()
	}
	if e.source != "" {
		formatted.SourceLines = []errors.SourceLineEntry{{
			Number: formatted.Line,
			Text:   errors.SourceLine(e.source, begin.Line),
			IsMain: true,
		}}
	}
	return formatted
}

func newRuntimeError(err error, op token.Op, ptr int) *RuntimeError {
	return &RuntimeError{Err: err, Op: op, Pointer: ptr}
}
