// Package dis supports analysis of a parsed program by flattening its tree
// into a numbered listing with explicit loop jump targets.
package dis

import (
	"fmt"
	"io"
	"strings"

	"github.com/deepnoodle-ai/bfi/ast"
	"github.com/deepnoodle-ai/bfi/internal/table"
	"github.com/deepnoodle-ai/bfi/token"
	"github.com/fatih/color"
)

// Instruction represents a single leaf of the tree in execution order.
type Instruction struct {
	Offset int      `json:"offset"`
	Depth  int      `json:"depth"`
	Op     token.Op `json:"op"`

	// Target is the offset execution continues at when the loop is
	// skipped (LoopOpen) or repeated (LoopClose). It is -1 for all other
	// operations.
	Target int `json:"target"`
}

// Disassemble returns the leaves of tree in preorder, annotated with their
// nesting depth and loop targets.
func Disassemble(tree ast.Tree) []Instruction {
	var instructions []Instruction
	var visit func(level ast.Tree, depth int)
	visit = func(level ast.Tree, depth int) {
		open := -1
		for _, n := range level {
			switch node := n.(type) {
			case *ast.Leaf:
				if node.Op.Kind == token.LoopOpen {
					open = len(instructions)
				}
				instructions = append(instructions, Instruction{
					Offset: len(instructions),
					Depth:  depth,
					Op:     node.Op,
					Target: -1,
				})
			case *ast.Internal:
				bodyStart := len(instructions)
				visit(node.Children, depth+1)
				last := len(instructions) - 1
				if open < 0 || last < bodyStart || instructions[last].Op.Kind != token.LoopClose {
					continue
				}
				instructions[open].Target = len(instructions)
				instructions[last].Target = bodyStart
				open = -1
			}
		}
	}
	visit(tree, 0)
	return instructions
}

func (i Instruction) info() string {
	switch {
	case i.Target < 0:
		return ""
	case i.Op.Kind == token.LoopOpen:
		return fmt.Sprintf("skip to %d", i.Target)
	default:
		return fmt.Sprintf("repeat from %d", i.Target)
	}
}

// Print a string representation of the given instructions to the given writer.
func Print(instructions []Instruction, writer io.Writer) {
	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgHiCyan).SprintFunc()
	var lines [][]string
	for _, instr := range instructions {
		info := instr.info()
		if info != "" {
			info = cyan(info)
		}
		lines = append(lines, []string{
			fmt.Sprintf("%d", instr.Offset),
			strings.Repeat("  ", instr.Depth) + bold(instr.Op.Kind.String()),
			fmt.Sprintf("%d", instr.Op.Count),
			instr.Op.Loc.String(),
			info,
		})
	}

	table.NewTable(writer).
		WithHeader([]string{"OFFSET", "OP", "COUNT", "LOCATION", "INFO"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignRight,
			table.AlignLeft,
			table.AlignRight,
			table.AlignLeft,
			table.AlignLeft,
		}).
		WithHeaderAlignment([]table.Alignment{
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
		}).
		WithRows(lines).
		Render()
}
