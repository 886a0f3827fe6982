package main

import (
	"encoding/json"
	goerrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/deepnoodle-ai/bfi/errors"
	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// useColor reports whether output written to w should be colorized.
func useColor(w io.Writer) bool {
	if viper.GetBool("no-color") || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(w)
}

// readSource determines what code is to be processed. There are three
// possibilities:
// 1. --code <code>
// 2. --stdin (read code from stdin)
// 3. path as args[0]
// The returned name is used in diagnostics.
func readSource(cmd *cobra.Command, args []string) (source, name string, err error) {
	var codeFlagSet bool
	if f := cmd.Flags().Lookup("code"); f != nil && f.Changed {
		codeFlagSet = true
	}
	var stdinFlagSet bool
	if f := cmd.Flags().Lookup("stdin"); f != nil && f.Changed {
		stdinFlagSet = true
	}
	pathSupplied := len(args) > 0
	if pathSupplied && (codeFlagSet || stdinFlagSet) {
		return "", "", goerrors.New("multiple input sources specified")
	} else if codeFlagSet && stdinFlagSet {
		return "", "", goerrors.New("multiple input sources specified")
	}
	switch {
	case stdinFlagSet:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	case pathSupplied:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", err
		}
		return string(data), args[0], nil
	case codeFlagSet:
		code, _ := cmd.Flags().GetString("code")
		return code, "", nil
	}
	return "", "", goerrors.New("no input provided: pass a file, --code or --stdin")
}

func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("output")
	switch format {
	case "", "text":
		return "text", nil
	case "json":
		return "json", nil
	}
	return "", fmt.Errorf("unknown output format: %s (expected text or json)", format)
}

// writeJSON writes v as indented JSON, colorized when w is a terminal.
func writeJSON(w io.Writer, v any) error {
	var data []byte
	var err error
	if useColor(w) {
		data, err = prettyjson.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func formattedError(err error) *errors.FormattedError {
	var fe errors.FormattableError
	if goerrors.As(err, &fe) {
		return fe.ToFormatted()
	}
	return &errors.FormattedError{Kind: "error", Message: err.Error()}
}

// renderError formats err for the terminal. Diagnostics carrying source
// locations are shown with the offending line; aggregated errors are shown
// one after the other.
func renderError(err error, colorize bool) string {
	formatter := errors.NewFormatter(colorize)
	var merr *multierror.Error
	if goerrors.As(err, &merr) && len(merr.Errors) > 0 {
		formatted := make([]*errors.FormattedError, 0, len(merr.Errors))
		for _, e := range merr.Errors {
			formatted = append(formatted, formattedError(e))
		}
		return formatter.FormatMultiple(formatted)
	}
	var fe errors.FormattableError
	if goerrors.As(err, &fe) {
		return formatter.Format(fe.ToFormatted())
	}
	if colorize {
		red := color.New(color.FgRed)
		red.EnableColor()
		return red.Sprint(err.Error()) + "\n"
	}
	return err.Error() + "\n"
}
