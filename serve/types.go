package serve

import (
	goerrors "errors"

	"github.com/deepnoodle-ai/bfi"
	"github.com/deepnoodle-ai/bfi/ast"
	"github.com/deepnoodle-ai/bfi/errors"
)

// RunRequest asks the server to evaluate a program on a fresh tape.
type RunRequest struct {
	Code     string `json:"code"`
	Filename string `json:"filename,omitempty"`

	// MaxSteps lowers the server's step limit for this request. Values
	// above the server limit are ignored.
	MaxSteps int64 `json:"max_steps,omitempty"`
}

// RunResponse holds the final state of the run. When the program fails
// the output and tape up to the failure are included with the error.
type RunResponse struct {
	*bfi.Result
	Error *ErrorInfo `json:"error,omitempty"`
}

// ParseRequest asks the server to build the tree for a program.
type ParseRequest struct {
	Code     string `json:"code"`
	Filename string `json:"filename,omitempty"`
	Collapse *bool  `json:"collapse,omitempty"`
}

// ParseResponse is the parsed tree with its statistics.
type ParseResponse struct {
	Tree  ast.Tree   `json:"tree"`
	Stats *ast.Stats `json:"stats,omitempty"`
	Error *ErrorInfo `json:"error,omitempty"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	MaxSteps int64  `json:"max_steps"`
}

// ErrorInfo describes a failed request.
type ErrorInfo struct {
	Code    string `json:"code,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`

	// Detail is the plain text diagnostic, quoting the offending line.
	Detail string `json:"detail,omitempty"`
}

func newErrorInfo(err error) *ErrorInfo {
	info := &ErrorInfo{Message: err.Error()}
	var fe errors.FormattableError
	if goerrors.As(err, &fe) {
		formatted := fe.ToFormatted()
		info.Code = formatted.Code.String()
		info.Kind = formatted.Kind
		info.Message = formatted.Message
		info.Line = formatted.Line
		info.Column = formatted.Column
	}
	var friendly errors.FriendlyError
	if goerrors.As(err, &friendly) {
		info.Detail = friendly.FriendlyErrorMessage()
	}
	return info
}
