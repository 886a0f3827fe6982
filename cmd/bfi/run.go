package main

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/bfi"
	"github.com/deepnoodle-ai/bfi/vm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Run a program and print its output",
		Long: `Run parses and interprets a program on a fresh tape with the data
pointer at cell 0, then prints what the program wrote. Programs that may
not terminate can be bounded with --max-steps or interrupted with Ctrl-C.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runProgram,
	}
	cmd.Flags().StringP("code", "c", "", "Code to run")
	cmd.Flags().Bool("stdin", false, "Read code from stdin")
	cmd.Flags().Int64("max-steps", 0, "Stop after this many operations (0 means no limit)")
	cmd.Flags().Bool("trace", false, "Log every executed operation")
	cmd.Flags().Bool("dump-tape", false, "Print the final tape and pointer after the output")
	cmd.Flags().StringP("output", "o", "text", "Output format (text, json)")
	viper.BindPFlag("max-steps", cmd.Flags().Lookup("max-steps"))
	return cmd
}

type runReport struct {
	*bfi.Result
	Error string `json:"error,omitempty"`
}

func runProgram(cmd *cobra.Command, args []string) error {
	source, name, err := readSource(cmd, args)
	if err != nil {
		return err
	}
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	opts := []bfi.Option{bfi.WithFilename(name), bfi.WithLogger(logger)}
	if limit := viper.GetInt64("max-steps"); limit > 0 {
		opts = append(opts, bfi.WithStepLimit(limit))
	}
	if trace, _ := cmd.Flags().GetBool("trace"); trace {
		traceLogger := logger
		if logger.GetLevel() > zerolog.DebugLevel {
			traceLogger = logger.Level(zerolog.DebugLevel)
		}
		opts = append(opts, bfi.WithObserver(vm.NewTraceObserver(traceLogger, vm.StepAll)))
	}

	result, err := bfi.Eval(cmd.Context(), source, opts...)
	if result == nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		report := runReport{Result: result}
		if err != nil {
			report.Error = err.Error()
		}
		if werr := writeJSON(out, report); werr != nil {
			return werr
		}
		return err
	}

	fmt.Fprint(out, result.Text)
	if dump, _ := cmd.Flags().GetBool("dump-tape"); dump {
		if result.Text != "" && !strings.HasSuffix(result.Text, "\n") {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "tape: %s\n", result.Tape)
		fmt.Fprintf(out, "pointer: %d\n", result.Pointer)
		fmt.Fprintf(out, "steps: %d\n", result.Steps)
	}
	return err
}
