package main

import (
	"fmt"
	"os"

	"github.com/deepnoodle-ai/bfi"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check file...",
		Short: "Check that programs parse",
		Long: `Check parses every file given and reports all unmatched brackets it
finds. The exit status is non-zero if any file fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCheck,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	var result *multierror.Error
	out := cmd.OutOrStdout()
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if _, err := bfi.Parse(string(data), bfi.WithFilename(path)); err != nil {
			logger.Debug().Str("file", path).Err(err).Msg("check failed")
			result = multierror.Append(result, err)
			continue
		}
		fmt.Fprintf(out, "ok  %s\n", path)
	}
	return result.ErrorOrNil()
}
