package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/deepnoodle-ai/bfi"
	"github.com/deepnoodle-ai/bfi/ast"
	"github.com/deepnoodle-ai/bfi/dis"
	"github.com/spf13/cobra"
)

func newAstCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ast [file]",
		Short: "Display the parsed tree for a program",
		Long: `Ast parses a program without running it and prints a listing of its
operations in execution order, with loop jump targets and statistics.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAst,
	}
	cmd.Flags().StringP("code", "c", "", "Code to parse")
	cmd.Flags().Bool("stdin", false, "Read code from stdin")
	cmd.Flags().StringP("output", "o", "text", "Output format (text, json)")
	cmd.Flags().Bool("collapse", true, "Merge runs of the same operator")
	return cmd
}

type astReport struct {
	Tree         ast.Tree          `json:"tree"`
	Instructions []dis.Instruction `json:"instructions"`
	Stats        ast.Stats         `json:"stats"`
}

func runAst(cmd *cobra.Command, args []string) error {
	source, name, err := readSource(cmd, args)
	if err != nil {
		return err
	}
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	opts := []bfi.Option{bfi.WithFilename(name)}
	if collapse, _ := cmd.Flags().GetBool("collapse"); !collapse {
		opts = append(opts, bfi.WithoutCollapse())
	}
	tree, err := bfi.Parse(source, opts...)
	if err != nil {
		return err
	}

	stats := ast.ComputeStats(tree)
	instructions := dis.Disassemble(tree)
	logger.Debug().
		Int("nodes", stats.NodeCount).
		Int("loops", stats.LoopCount).
		Msg("parsed")

	out := cmd.OutOrStdout()
	if format == "json" {
		return writeJSON(out, astReport{Tree: tree, Instructions: instructions, Stats: stats})
	}

	dis.Print(instructions, out)
	fmt.Fprintf(out, "operations: %d (from %d operators)\n", stats.NodeCount, stats.SourceOps)
	fmt.Fprintf(out, "loops: %d, max depth: %d\n", stats.LoopCount, stats.MaxDepth)
	if len(stats.KindCounts) > 0 {
		fmt.Fprintf(out, "kinds: %s\n", formatKindCounts(stats))
	}
	return nil
}

func formatKindCounts(stats ast.Stats) string {
	parts := make([]string, 0, len(stats.KindCounts))
	for kind, count := range stats.KindCounts {
		parts = append(parts, fmt.Sprintf("%s=%d", kind, count))
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}
