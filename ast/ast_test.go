package ast

import (
	"encoding/json"
	"testing"

	"github.com/deepnoodle-ai/bfi/token"
	"github.com/stretchr/testify/require"
)

func op(kind token.Kind, count, line, col int) token.Op {
	begin := token.Position{Line: line, Column: col}
	end := token.Position{Line: line, Column: col + count - 1}
	loc, _ := token.NewSpan(begin, end)
	return token.Op{Kind: kind, Count: count, Loc: loc}
}

// Tree for "++[>+<-]."
func sampleTree() Tree {
	return Tree{
		NewLeaf(op(token.Increment, 2, 0, 0)),
		NewLeaf(op(token.LoopOpen, 1, 0, 2)),
		NewInternal(Tree{
			NewLeaf(op(token.MoveRight, 1, 0, 3)),
			NewLeaf(op(token.Increment, 1, 0, 4)),
			NewLeaf(op(token.MoveLeft, 1, 0, 5)),
			NewLeaf(op(token.Decrement, 1, 0, 6)),
			NewLeaf(op(token.LoopClose, 1, 0, 7)),
		}),
		NewLeaf(op(token.Output, 1, 0, 8)),
	}
}

func TestTreeString(t *testing.T) {
	require.Equal(t, "++[>+<-].", sampleTree().String())
}

func TestTreeLoc(t *testing.T) {
	tree := sampleTree()
	loc := tree.Loc()
	require.Equal(t, token.Position{Line: 0, Column: 0}, loc.Begin())
	require.Equal(t, token.Position{Line: 0, Column: 8}, loc.End())

	internal := tree[2].(*Internal)
	require.Equal(t, token.Position{Line: 0, Column: 3}, internal.Loc().Begin())
	require.Equal(t, token.Position{Line: 0, Column: 7}, internal.Loc().End())

	require.Equal(t, token.Location{}, Tree{}.Loc())
}

func TestTreeOps(t *testing.T) {
	ops := sampleTree().Ops()
	require.Len(t, ops, 8)
	var kinds []token.Kind
	for _, o := range ops {
		kinds = append(kinds, o.Kind)
	}
	require.Equal(t, []token.Kind{
		token.Increment, token.LoopOpen, token.MoveRight, token.Increment,
		token.MoveLeft, token.Decrement, token.LoopClose, token.Output,
	}, kinds)
}

func TestComputeStats(t *testing.T) {
	stats := ComputeStats(sampleTree())
	require.Equal(t, 8, stats.NodeCount)
	require.Equal(t, 9, stats.SourceOps)
	require.Equal(t, 1, stats.LoopCount)
	require.Equal(t, 1, stats.MaxDepth)
	require.Equal(t, 3, stats.KindCounts[token.Increment])
	require.Equal(t, 1, stats.KindCounts[token.LoopClose])
	require.Zero(t, stats.KindCounts[token.Input])

	empty := ComputeStats(nil)
	require.Zero(t, empty.NodeCount)
	require.Zero(t, empty.MaxDepth)
}

func TestMarshalJSON(t *testing.T) {
	tree := Tree{
		NewLeaf(op(token.LoopOpen, 1, 0, 0)),
		NewInternal(Tree{NewLeaf(op(token.LoopClose, 1, 0, 1))}),
	}
	data, err := json.Marshal(tree)
	require.NoError(t, err)
	require.JSONEq(t, `[
		{"type":"leaf","op":{"kind":"LoopOpen","count":1,"loc":{"begin":{"line":0,"column":0}}}},
		{"type":"internal","children":[
			{"type":"leaf","op":{"kind":"LoopClose","count":1,"loc":{"begin":{"line":0,"column":1}}}}
		]}
	]`, string(data))
}
