// Package newick parses a Newick tree string just far enough to recover a
// depth-first leaf-label order; branch-length values are parsed and discarded since
// the ordering optimizer only needs leaf order. This is a small hand-rolled
// recursive-descent parser (a Parser struct wrapping a token cursor, one method per
// grammar rule) scaled down to Newick's grammar:
//
//	tree     := subtree ';'
//	subtree  := leaf | '(' subtree (',' subtree)* ')' [label] [':' length]
//	leaf     := label [':' length]
//	label    := any run of characters other than '(', ')', ',', ':', ';'
//	length   := any run of characters other than '(', ')', ',', ':', ';'
package newick

import (
	"strings"

	"github.com/JLSteenwyk/ecomp/errs"
)

// LeafOrder parses s as a Newick tree and returns its leaf labels in depth-first,
// left-to-right traversal order. Branch lengths and internal-node labels are consumed
// (to stay positioned correctly) but discarded; only the leaf order is meaningful.
func LeafOrder(s string) ([]string, error) {
	p := &parser{src: s}
	leaves, err := p.parseSubtree()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.peek() == ';' {
		p.pos++
	}

	return leaves, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}

	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n' || p.src[p.pos] == '\r') {
		p.pos++
	}
}

// parseSubtree parses either a leaf or a parenthesized internal node, returning the
// leaf labels it contains in left-to-right order.
func (p *parser) parseSubtree() ([]string, error) {
	p.skipSpace()
	if p.peek() == '(' {
		return p.parseInternal()
	}

	return p.parseLeaf()
}

func (p *parser) parseInternal() ([]string, error) {
	p.pos++ // consume '('

	var leaves []string
	for {
		child, err := p.parseSubtree()
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, child...)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++

			continue
		case ')':
			p.pos++
		default:
			return nil, errs.Format(errs.ErrTruncated)
		}

		break
	}

	p.parseLabelAndLength() // internal-node label/length, discarded

	return leaves, nil
}

func (p *parser) parseLeaf() ([]string, error) {
	label := p.parseLabel()
	if label == "" {
		return nil, errs.Format(errs.ErrTruncated)
	}
	p.parseLength()

	return []string{label}, nil
}

// parseLabelAndLength consumes an optional label followed by an optional ':'-prefixed
// length, used after a closing ')' for an internal node.
func (p *parser) parseLabelAndLength() {
	p.parseLabel()
	p.parseLength()
}

func (p *parser) parseLabel() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && !isDelimiter(p.src[p.pos]) {
		p.pos++
	}

	return strings.TrimSpace(p.src[start:p.pos])
}

func (p *parser) parseLength() {
	p.skipSpace()
	if p.peek() != ':' {
		return
	}
	p.pos++ // consume ':'
	for p.pos < len(p.src) && !isDelimiter(p.src[p.pos]) {
		p.pos++
	}
}

func isDelimiter(b byte) bool {
	switch b {
	case '(', ')', ',', ':', ';':
		return true
	default:
		return false
	}
}
