package ast

import "iter"

// Visitor defines the interface for tree traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses a tree in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each child of an Internal node.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	if n, ok := node.(*Internal); ok {
		for _, child := range n.Children {
			Walk(v, child)
		}
	}
}

// Inspect traverses every node of the tree in depth-first order. It calls
// f(node) for each node; if f returns true, Inspect invokes f recursively
// for each of the children of an Internal node.
func Inspect(tree Tree, f func(Node) bool) {
	for _, n := range tree {
		Walk(inspector(f), n)
	}
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Preorder returns an iterator over all the nodes of the tree in
// depth-first preorder.
func Preorder(tree Tree) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		var visit func(Tree) bool
		visit = func(level Tree) bool {
			for _, n := range level {
				if !yield(n) {
					return false
				}
				if internal, ok := n.(*Internal); ok {
					if !visit(internal.Children) {
						return false
					}
				}
			}
			return true
		}
		visit(tree)
	}
}
