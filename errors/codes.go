package errors

// ErrorCode represents a unique identifier for error types.
// Codes are organized by category:
//   - E1xxx: Parse errors
//   - E3xxx: Runtime errors
type ErrorCode string

const (
	// Parse errors (E1xxx)
	E1001 ErrorCode = "E1001" // Unmatched closing bracket
	E1002 ErrorCode = "E1002" // Unclosed opening bracket

	// Runtime errors (E3xxx)
	E3001 ErrorCode = "E3001" // Pointer underflow
	E3002 ErrorCode = "E3002" // Input not supported
	E3003 ErrorCode = "E3003" // Step limit exceeded
	E3004 ErrorCode = "E3004" // Halted by observer
)

var codeDescriptions = map[ErrorCode]string{
	E1001: "unmatched closing bracket",
	E1002: "unclosed opening bracket",
	E3001: "pointer underflow",
	E3002: "input not supported",
	E3003: "step limit exceeded",
	E3004: "halted by observer",
}

// Description returns a short description of the error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}
