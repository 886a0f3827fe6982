// Package errors defines the diagnostic types shared by the parser, the
// interpreter and the command line host, along with a formatter that renders
// them with source context.
package errors

// FriendlyError is an interface for errors that have a human friendly message
// in addition to the lower level default error message.
type FriendlyError interface {
	Error() string
	FriendlyErrorMessage() string
}

// FormattableError is an interface for errors that can be formatted with
// the enhanced error formatter (with colors, source context, etc).
type FormattableError interface {
	Error() string
	ToFormatted() *FormattedError
}

// SourceLine returns the 0-indexed line of source, or "" if the line does
// not exist.
func SourceLine(source string, line int) string {
	current := 0
	start := 0
	for i := 0; i < len(source); i++ {
		if source[i] != '\n' {
			continue
		}
		if current == line {
			return trimCR(source[start:i])
		}
		current++
		start = i + 1
	}
	if current == line {
		return trimCR(source[start:])
	}
	return ""
}

func trimCR(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\r' {
		return s[:n-1]
	}
	return s
}
