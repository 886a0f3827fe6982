package parser

import (
	goerrors "errors"
	"fmt"

	"github.com/deepnoodle-ai/bfi/errors"
	"github.com/deepnoodle-ai/bfi/token"
)

// ErrUnmatchedBracket is the cause of every ParseError. Use errors.Is to
// test for it.
var ErrUnmatchedBracket = goerrors.New("unmatched bracket")

// ParseError reports a bracket that has no partner.
//
// Loc is the position of a closing bracket with no enclosing opening
// bracket, or of the innermost opening bracket still open when the input
// ended. It is nil only when no opening bracket could be attached.
type ParseError struct {
	Loc *token.Position

	// Unclosed is true when the input ended inside a loop, false when a
	// closing bracket appeared outside of any loop.
	Unclosed bool

	file   string
	source string
}

func (e *ParseError) Error() string {
	var msg string
	if e.Unclosed {
		msg = "unmatched bracket: '[' is never closed"
	} else {
		msg = "unmatched bracket: ']' has no matching '['"
	}
	if e.Loc != nil {
		msg = fmt.Sprintf("%s at %d:%d", msg, e.Loc.LineNumber(), e.Loc.ColumnNumber())
	}
	return "parse error: " + msg
}

func (e *ParseError) Unwrap() error {
	return ErrUnmatchedBracket
}

// File returns the name of the file that failed to parse, if known.
func (e *ParseError) File() string {
	return e.file
}

// Code returns the diagnostic code for the error.
func (e *ParseError) Code() errors.ErrorCode {
	if e.Unclosed {
		return errors.E1002
	}
	return errors.E1001
}

// WithSource returns a copy of the error carrying the program text and the
// file name, used to show the offending line in friendly messages.
func (e *ParseError) WithSource(file, source string) *ParseError {
	cp := *e
	cp.file = file
	cp.source = source
	return &cp
}

func (e *ParseError) FriendlyErrorMessage() string {
	formatter := errors.NewFormatter(false)
	return formatter.Format(e.ToFormatted())
}

// ToFormatted converts the parse error to a FormattedError for display.
func (e *ParseError) ToFormatted() *errors.FormattedError {
	formatted := &errors.FormattedError{
		Code:     e.Code(),
		Kind:     "parse error",
		Message:  e.Code().Description(),
		Filename: e.file,
	}
	if e.Unclosed {
		formatted.Hint = "add a matching ']'"
	} else {
		formatted.Hint = "remove this ']' or add a matching '[' before it"
	}
	if e.Loc == nil {
		formatted.Note = "the unclosed '[' could not be located"
		return formatted
	}
	formatted.Line = e.Loc.LineNumber()
	formatted.Column = e.Loc.ColumnNumber()
	formatted.EndColumn = formatted.Column
	if e.source != "" {
		formatted.SourceLines = []errors.SourceLineEntry{{
			Number: formatted.Line,
			Text:   errors.SourceLine(e.source, e.Loc.Line),
			IsMain: true,
		}}
	}
	return formatted
}

func unmatchedClose(pos token.Position) *ParseError {
	return &ParseError{Loc: &pos}
}

func unclosedOpen() *ParseError {
	return &ParseError{Unclosed: true}
}
