// Package parser turns source text into the tree consumed by the
// interpreter.
//
// Parsing happens in three stages: the lexer produces one operation per
// operator glyph, Collapse merges runs of repeatable operations, and
// BuildTree nests each loop body under the bracket that opens it.
package parser

import (
	"github.com/deepnoodle-ai/bfi/ast"
	"github.com/deepnoodle-ai/bfi/internal/lexer"
	"github.com/deepnoodle-ai/bfi/token"
)

// Option configures Parse.
type Option func(*Parser)

// WithFilename sets the file name reported in parse errors.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithoutCollapse disables run-length collapsing, leaving every operation
// with a count of 1.
func WithoutCollapse() Option {
	return func(p *Parser) {
		p.noCollapse = true
	}
}

// Parser builds a tree from a sequence of operations. It reads the
// operations once, front to back.
type Parser struct {
	ops        []token.Op
	pos        int
	filename   string
	noCollapse bool
}

// New returns a Parser over ops.
func New(ops []token.Op, options ...Option) *Parser {
	p := &Parser{ops: ops}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Parse lexes, collapses and builds the tree for source. The returned error
// is always a *ParseError.
func Parse(source string, options ...Option) (ast.Tree, error) {
	p := New(nil, options...)
	p.ops = lexer.Lex(source)
	if !p.noCollapse {
		p.ops = Collapse(p.ops)
	}
	tree, err := p.Parse()
	if err != nil {
		return nil, err.WithSource(p.filename, source)
	}
	return tree, nil
}

// BuildTree nests the operations into a tree. The returned error is always
// a *ParseError.
func BuildTree(ops []token.Op) (ast.Tree, error) {
	tree, err := New(ops).Parse()
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// Parse builds the tree from the parser's operations. It returns a
// *ParseError rather than an error so callers can attach context without
// a type assertion.
func (p *Parser) Parse() (ast.Tree, *ParseError) {
	tree, err := p.parseLevel(0)
	if err != nil {
		if err.file == "" {
			err.file = p.filename
		}
		return nil, err
	}
	if tree == nil {
		tree = ast.Tree{}
	}
	return tree, nil
}

func (p *Parser) next() (token.Op, bool) {
	if p.pos >= len(p.ops) {
		return token.Op{}, false
	}
	op := p.ops[p.pos]
	p.pos++
	return op, true
}

// parseLevel builds one level of the tree. At depth > 0 the level is a loop
// body and ends with, and includes, the matching LoopClose.
func (p *Parser) parseLevel(depth int) (ast.Tree, *ParseError) {
	var tree ast.Tree
	for {
		op, ok := p.next()
		if !ok {
			break
		}
		tree = append(tree, ast.NewLeaf(op))
		switch op.Kind {
		case token.LoopOpen:
			body, err := p.parseLevel(depth + 1)
			if err != nil {
				// Report the innermost open bracket: only attach this
				// bracket's position if a deeper one has not already.
				if err.Unclosed && err.Loc == nil {
					pos := op.Loc.Begin()
					err.Loc = &pos
				}
				return nil, err
			}
			tree = append(tree, ast.NewInternal(body))
		case token.LoopClose:
			if depth == 0 {
				return nil, unmatchedClose(op.Loc.Begin())
			}
			return tree, nil
		}
	}
	if depth > 0 {
		return nil, unclosedOpen()
	}
	return tree, nil
}
