package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Formatter formats errors with colors and source context.
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool
}

// NewFormatter creates a new error formatter.
func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

// Colors used for error formatting
var (
	colorError     = newColor(color.FgRed)
	colorErrorBold = newColor(color.FgHiRed, color.Bold)
	colorCode      = newColor(color.FgHiBlack)
	colorLocation  = newColor(color.FgCyan)
	colorLineNum   = newColor(color.FgHiBlack)
	colorPipe      = newColor(color.FgHiBlack)
	colorSource    = newColor(color.FgWhite)
	colorCaret     = newColor(color.FgHiRed)
	colorHint      = newColor(color.FgHiYellow)
	colorNote      = newColor(color.FgHiBlue)
)

// newColor returns a color that is always applied. Whether to colorize is
// decided by Formatter.UseColor rather than by the global color.NoColor.
func newColor(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

// FormattedError represents an error ready for display.
type FormattedError struct {
	Code        ErrorCode
	Kind        string // "error", "parse error", "runtime error", etc.
	Message     string
	Filename    string
	Line        int
	Column      int
	EndColumn   int               // For multi-character underlines
	SourceLines []SourceLineEntry // Lines shown for context
	Hint        string
	Note        string
}

// SourceLineEntry represents a line of source code with its number.
type SourceLineEntry struct {
	Number int
	Text   string
	IsMain bool // True if this is the line with the error
}

func (f *Formatter) apply(c *color.Color, s string) string {
	if !f.UseColor {
		return s
	}
	return c.Sprint(s)
}

// Format formats the error as a string.
func (f *Formatter) Format(err *FormattedError) string {
	return f.FormatWithPrefix(err, "")
}

// FormatWithPrefix formats the error with an optional prefix like "1/5".
func (f *Formatter) FormatWithPrefix(err *FormattedError, prefix string) string {
	var b strings.Builder

	lineNumWidth := 2
	if err.Line >= 100 {
		lineNumWidth = len(fmt.Sprintf("%d", err.Line))
	}

	f.writeHeader(&b, err, prefix)
	f.writeLocation(&b, err, lineNumWidth)
	f.writeSource(&b, err, lineNumWidth)
	if err.Hint != "" {
		f.writeAnnotation(&b, colorHint, "hint", err.Hint, lineNumWidth)
	}
	if err.Note != "" {
		f.writeAnnotation(&b, colorNote, "note", err.Note, lineNumWidth)
	}
	return b.String()
}

func (f *Formatter) writeHeader(b *strings.Builder, err *FormattedError, prefix string) {
	// "error[E1001]: message", "error[1/5]: message" or
	// "error[E1001][1/5]: message"
	label := "error"
	if err.Kind != "" && err.Kind != "error" {
		label = err.Kind
	}
	b.WriteString(f.apply(colorErrorBold, label))

	if err.Code != "" {
		b.WriteString(f.apply(colorCode, fmt.Sprintf("[%s]", err.Code)))
	}
	if prefix != "" {
		b.WriteString(f.apply(colorCode, fmt.Sprintf("[%s]", prefix)))
	}

	b.WriteString(f.apply(colorError, ": "))
	b.WriteString(err.Message)
	b.WriteString("\n")
}

func (f *Formatter) writeLocation(b *strings.Builder, err *FormattedError, lineNumWidth int) {
	if err.Line == 0 && err.Filename == "" {
		return
	}

	// "  --> file.b:10:5"
	b.WriteString(f.apply(colorLineNum, strings.Repeat(" ", lineNumWidth)))
	b.WriteString(f.apply(colorLocation, "-->"))
	b.WriteString(" ")

	loc := ""
	if err.Filename != "" {
		loc = err.Filename
		if err.Line > 0 {
			loc += fmt.Sprintf(":%d:%d", err.Line, err.Column)
		}
	} else if err.Line > 0 {
		loc = fmt.Sprintf("%d:%d", err.Line, err.Column)
	}
	b.WriteString(f.apply(colorLocation, loc))
	b.WriteString("\n")
}

func (f *Formatter) writeSource(b *strings.Builder, err *FormattedError, lineNumWidth int) {
	if len(err.SourceLines) == 0 {
		return
	}

	padding := strings.Repeat(" ", lineNumWidth)
	b.WriteString(f.apply(colorLineNum, padding))
	b.WriteString(f.apply(colorPipe, " |\n"))

	for _, line := range err.SourceLines {
		b.WriteString(f.apply(colorLineNum, fmt.Sprintf("%*d", lineNumWidth, line.Number)))
		b.WriteString(f.apply(colorPipe, " | "))
		b.WriteString(f.apply(colorSource, line.Text))
		b.WriteString("\n")

		if !line.IsMain || err.Column <= 0 {
			continue
		}
		b.WriteString(f.apply(colorLineNum, padding))
		b.WriteString(f.apply(colorPipe, " | "))
		b.WriteString(strings.Repeat(" ", err.Column-1))
		caretLen := 1
		if err.EndColumn > err.Column {
			caretLen = err.EndColumn - err.Column + 1
		}
		b.WriteString(f.apply(colorCaret, strings.Repeat("^", caretLen)))
		b.WriteString("\n")
	}
}

func (f *Formatter) writeAnnotation(b *strings.Builder, c *color.Color, label, text string, lineNumWidth int) {
	padding := strings.Repeat(" ", lineNumWidth)
	b.WriteString(f.apply(colorLineNum, padding))
	b.WriteString(f.apply(colorPipe, " = "))
	b.WriteString(f.apply(c, label+": "))
	b.WriteString(text)
	b.WriteString("\n")
}

// FormatMultiple formats multiple errors with consistent styling.
func (f *Formatter) FormatMultiple(errs []*FormattedError) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return f.Format(errs[0])
	}

	var b strings.Builder
	total := len(errs)
	for i, err := range errs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(f.FormatWithPrefix(err, fmt.Sprintf("%d/%d", i+1, total)))
	}
	b.WriteString("\n")
	b.WriteString(f.apply(colorErrorBold, fmt.Sprintf("found %d errors", total)))
	b.WriteString("\n")
	return b.String()
}
