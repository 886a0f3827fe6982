package ast

import "github.com/deepnoodle-ai/bfi/token"

// Stats contains statistics about a parsed tree.
// This is useful for auditing programs before execution.
type Stats struct {
	// NodeCount is the total number of leaves in the tree.
	NodeCount int `json:"node_count"`

	// SourceOps is the number of operator glyphs the leaves stand for,
	// i.e. the sum of all counts.
	SourceOps int `json:"source_ops"`

	// LoopCount is the number of loops in the program.
	LoopCount int `json:"loop_count"`

	// MaxDepth is the deepest loop nesting level. A program without loops
	// has depth 0.
	MaxDepth int `json:"max_depth"`

	// KindCounts maps each operator kind to the number of glyphs of that
	// kind in the source.
	KindCounts map[token.Kind]int `json:"kind_counts"`
}

// ComputeStats walks the tree and gathers its Stats.
func ComputeStats(tree Tree) Stats {
	stats := Stats{KindCounts: map[token.Kind]int{}}
	var visit func(level Tree, depth int)
	visit = func(level Tree, depth int) {
		if depth > stats.MaxDepth {
			stats.MaxDepth = depth
		}
		for _, n := range level {
			switch node := n.(type) {
			case *Leaf:
				stats.NodeCount++
				stats.SourceOps += node.Op.Count
				stats.KindCounts[node.Op.Kind] += node.Op.Count
			case *Internal:
				stats.LoopCount++
				visit(node.Children, depth+1)
			}
		}
	}
	visit(tree, 0)
	return stats
}
