// Package ast defines the tree representation of a parsed program.
//
// A Tree is an ordered list of nodes. A Leaf holds one (possibly collapsed)
// operation. An Internal node holds the body of a loop: it always directly
// follows the LoopOpen leaf that starts the loop, and its last node is the
// matching LoopClose leaf.
package ast

import (
	"encoding/json"
	"strings"

	"github.com/deepnoodle-ai/bfi/token"
)

// Node represents a portion of the tree.
type Node interface {
	// Loc returns the source range covered by the node.
	Loc() token.Location

	// String returns the source form of the node. Collapsed runs are
	// expanded, comments and whitespace are not reproduced.
	String() string

	node()
}

// Tree is one level of the program: either the whole program or the body
// of a single loop.
type Tree []Node

// Leaf wraps a single operation.
type Leaf struct {
	Op token.Op
}

// NewLeaf returns a Leaf for op.
func NewLeaf(op token.Op) *Leaf {
	return &Leaf{Op: op}
}

func (l *Leaf) node() {}

func (l *Leaf) Loc() token.Location { return l.Op.Loc }

func (l *Leaf) Kind() token.Kind { return l.Op.Kind }

func (l *Leaf) String() string {
	return strings.Repeat(string(l.Op.Kind.Glyph()), l.Op.Count)
}

// Internal holds the nodes of a loop body, terminated by its LoopClose leaf.
type Internal struct {
	Children Tree
}

// NewInternal returns an Internal node owning children.
func NewInternal(children Tree) *Internal {
	return &Internal{Children: children}
}

func (n *Internal) node() {}

// Loc spans the first through the last child. An empty body reports the
// zero location.
func (n *Internal) Loc() token.Location {
	return n.Children.Loc()
}

func (n *Internal) String() string {
	return n.Children.String()
}

// Loc spans the first through the last node of the tree.
func (t Tree) Loc() token.Location {
	if len(t) == 0 {
		return token.Location{}
	}
	loc, ok := t[0].Loc().Merge(t[len(t)-1].Loc())
	if !ok {
		return t[0].Loc()
	}
	return loc
}

// String renders the tree back to operator glyphs.
func (t Tree) String() string {
	var b strings.Builder
	for _, n := range t {
		b.WriteString(n.String())
	}
	return b.String()
}

// Ops returns the leaf operations of the tree in program order.
func (t Tree) Ops() []token.Op {
	var ops []token.Op
	for n := range Preorder(t) {
		if leaf, ok := n.(*Leaf); ok {
			ops = append(ops, leaf.Op)
		}
	}
	return ops
}

type nodeJSON struct {
	Type     string    `json:"type"`
	Op       *token.Op `json:"op,omitempty"`
	Children Tree      `json:"children,omitempty"`
}

func (l *Leaf) MarshalJSON() ([]byte, error) {
	return json.Marshal(nodeJSON{Type: "leaf", Op: &l.Op})
}

func (n *Internal) MarshalJSON() ([]byte, error) {
	children := n.Children
	if children == nil {
		children = Tree{}
	}
	return json.Marshal(nodeJSON{Type: "internal", Children: children})
}
