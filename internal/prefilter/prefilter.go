// Package prefilter gives the lexer a cheap way to skip input positions
// that cannot possibly start any rule's match, the same role coregx/coregex
// gives its own prefilters ahead of a full DFA/NFA scan: a fast reject, never
// a second source of truth. A rule whose literal prefix could not be
// extracted (internal/litextract) always reports "maybe" at every position,
// so the filter can only save work, never change which rule eventually
// matches.
package prefilter

import (
	"unicode/utf8"

	"github.com/taglex/taglex/internal/litextract"
	"github.com/taglex/taglex/internal/regexast"
)

// node is one trie node keyed by code point, tracking whether a rule's
// literal prefix ends exactly here.
type node struct {
	children map[rune]*node
	terminal bool
}

func newNode() *node {
	return &node{children: make(map[rune]*node)}
}

// Filter is a compiled multi-literal-prefix scanner over a schema's rules.
type Filter struct {
	root      *node
	hasOpaque bool // true when any rule has no extractable literal prefix
}

// Build compiles a Filter from the given rule pattern ASTs, one per rule
// that should be prefiltered. Callers typically pass the AST of every
// non-reserved rule; the synthetic newline and static-text rules are
// handled separately by the lexer and never go through a Filter.
func Build(roots []regexast.Node) *Filter {
	f := &Filter{root: newNode()}
	for _, root := range roots {
		prefix := litextract.Prefix(root)
		if prefix == "" {
			f.hasOpaque = true
			continue
		}
		f.insert(prefix)
	}
	return f
}

func (f *Filter) insert(prefix string) {
	cur := f.root
	for _, r := range prefix {
		next, ok := cur.children[r]
		if !ok {
			next = newNode()
			cur.children[r] = next
		}
		cur = next
	}
	cur.terminal = true
}

// MayMatch reports whether some rule could possibly begin matching at
// input[pos:]. It always returns true when any rule lacks an extractable
// prefix, or when input[pos:] is a prefix of (or extends) some registered
// literal prefix.
func (f *Filter) MayMatch(input []byte, pos int) bool {
	if f == nil || f.hasOpaque {
		return true
	}
	cur := f.root
	for i := pos; i < len(input); {
		rest := input[i:]
		if !utf8.FullRune(rest) {
			// A multibyte rune cut off by the end of input: still a valid
			// (truncated) start, same as running out of bytes outright.
			return true
		}
		var r rune
		var w int
		if b := rest[0]; b < utf8.RuneSelf {
			r, w = rune(b), 1
		} else {
			r, w = utf8.DecodeRune(rest)
		}
		next, ok := cur.children[r]
		if !ok {
			return false
		}
		if next.terminal {
			return true
		}
		cur = next
		i += w
	}
	// Input ran out before any literal prefix finished: it's still a valid
	// (truncated) start, so don't reject it.
	return true
}
