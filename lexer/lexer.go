// Package lexer drives a built TDFA over an input buffer, producing a
// Variable / StaticText / EndOfInput token stream.
package lexer

import (
	"fmt"
	"unicode/utf8"

	"github.com/taglex/taglex/internal/nfa"
	"github.com/taglex/taglex/internal/prefilter"
	"github.com/taglex/taglex/internal/ptree"
	"github.com/taglex/taglex/internal/regexast"
	"github.com/taglex/taglex/internal/tag"
	"github.com/taglex/taglex/internal/tdfa"
	"github.com/taglex/taglex/schema"
)

// Lexer is a value object that drives one TDFA, built eagerly from a frozen
// schema, over caller-owned input. It is not safe to share across
// goroutines — it carries per-call scratch state — but many Lexers may share
// the schema/TDFA they were built from.
type Lexer struct {
	schema *schema.Schema
	nfa    *nfa.NFA
	dfa    *tdfa.TDFA
	filter *prefilter.Filter

	regs []ptree.Ref
	tree *ptree.Tree
}

// New builds the TNFA and then the TDFA for s eagerly.
func New(s *schema.Schema) (*Lexer, error) {
	n, err := nfa.Build(s)
	if err != nil {
		return nil, fmt.Errorf("lexer: building tnfa: %w", err)
	}
	d, err := tdfa.Build(n)
	if err != nil {
		return nil, fmt.Errorf("lexer: building tdfa: %w", err)
	}

	rules := s.Rules()
	roots := make([]regexast.Node, 0, len(rules)-1)
	for _, r := range rules[1:] {
		roots = append(roots, r.AST)
	}

	return &Lexer{
		schema: s,
		nfa:    n,
		dfa:    d,
		filter: prefilter.Build(roots),
		regs:   make([]ptree.Ref, d.NumRegisters),
		tree:   ptree.New(),
	}, nil
}

// NewFromTDFA wires up a Lexer around an already-built TDFA — the table
// cmd/taglex-compile freezes into Go source — skipping subset construction
// at process start. n must be the nfa.NFA d was built from, so its Captures
// table stays in sync with d's tag indices.
func NewFromTDFA(s *schema.Schema, n *nfa.NFA, d *tdfa.TDFA) *Lexer {
	rules := s.Rules()
	roots := make([]regexast.Node, 0, len(rules)-1)
	for _, r := range rules[1:] {
		roots = append(roots, r.AST)
	}
	return &Lexer{
		schema: s,
		nfa:    n,
		dfa:    d,
		filter: prefilter.Build(roots),
		regs:   make([]ptree.Ref, d.NumRegisters),
		tree:   ptree.New(),
	}
}

func (l *Lexer) reset() {
	for i := range l.regs {
		l.regs[i] = ptree.Nil
	}
	l.tree.Reset()
}

// NextToken consumes one token starting at *pos, advancing *pos past it, and
// invokes onCapture once per matched capture span in AST order. onCapture may be nil.
func (l *Lexer) NextToken(input []byte, pos *int, onCapture CaptureFunc) (Token, error) {
	if *pos >= len(input) {
		return Token{Kind: EndOfInput, Start: *pos, End: *pos}, nil
	}

	start := *pos
	// The filter holds only user rules, so a newline (rule 0) bypasses it.
	if input[start] == '\n' || l.filter.MayMatch(input, start) {
		if matched, rule, end, finalRegs := l.simulate(input, start); matched {
			*pos = end
			l.emitCaptures(rule, finalRegs, input, start, onCapture)
			return Token{
				Kind:   Variable,
				Rule:   rule,
				Name:   l.schema.Rule(rule).Name,
				Lexeme: string(input[start:end]),
				Start:  start,
				End:    end,
			}, nil
		}
	}

	end := l.globStatic(input, start)
	*pos = end
	return Token{Kind: StaticText, Lexeme: string(input[start:end]), Start: start, End: end}, nil
}

// simulate runs the TDFA from start, greedily, tracking the most recent
// backup snapshot, and reports the longest prefix that reached a final
// state.
func (l *Lexer) simulate(input []byte, start int) (matched bool, rule int, end int, finalRegs []ptree.Ref) {
	l.reset()
	applyOps(l.regs, l.tree, l.dfa.InitialOps, start)

	cur := l.dfa.States[l.dfa.Start]

	bestEnd := -1
	bestRule := -1
	var bestRegs []ptree.Ref

	checkFinal := func(at int) {
		if !cur.IsFinal {
			return
		}
		snapshot := cloneRefs(l.regs)
		applyOps(snapshot, l.tree, cur.FinalOps, at)
		bestEnd = at
		bestRule = cur.FinalRule
		bestRegs = snapshot[l.dfa.NumTag : 2*l.dfa.NumTag]
	}
	checkFinal(start)

	pos := start
	for pos < len(input) {
		b := input[pos]
		var r rune
		var w int
		if b < utf8.RuneSelf {
			r, w = rune(b), 1
		} else {
			r, w = utf8.DecodeRune(input[pos:])
		}

		var transIdx int
		var ok bool
		if r < 128 {
			idx := cur.ASCII[r]
			ok = idx >= 0
			transIdx = idx
		} else {
			transIdx, ok = cur.Trans.Lookup(int(r))
		}
		if !ok {
			break
		}

		tr := cur.Transitions[transIdx]
		newPos := pos + w
		applyOps(l.regs, l.tree, tr.Ops, newPos)
		cur = l.dfa.States[tr.Target]
		pos = newPos
		checkFinal(pos)
	}

	if bestEnd == -1 {
		return false, 0, 0, nil
	}
	return true, bestRule, bestEnd, bestRegs
}

// globStatic advances code point by code point until a delimiter (or
// newline) is seen, then absorbs any run of immediately adjacent
// delimiters, leaving the newline (or the first non-delimiter code point)
// for the next call.
func (l *Lexer) globStatic(input []byte, start int) int {
	pos := start
	for pos < len(input) {
		r, w := decodeAt(input, pos)
		if r == '\n' || l.schema.IsDelimiter(r) {
			break
		}
		pos += w
	}
	for pos < len(input) {
		r, w := decodeAt(input, pos)
		if r == '\n' || !l.schema.IsDelimiter(r) {
			break
		}
		pos += w
	}
	if pos == start {
		_, w := decodeAt(input, pos)
		pos += w
	}
	return pos
}

func decodeAt(input []byte, pos int) (rune, int) {
	b := input[pos]
	if b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(input[pos:])
}

// emitCaptures walks every capture of the matched rule in ascending
// (pre-order, i.e. appearance) id order, reconstructing each one's start/end
// offset history from the prefix tree and invoking onCapture once per
// participating occurrence.
func (l *Lexer) emitCaptures(rule int, finalRegs []ptree.Ref, input []byte, tokenStart int, onCapture CaptureFunc) {
	if onCapture == nil {
		return
	}
	table := l.nfa.Captures[rule]
	if len(table) == 0 {
		return
	}
	ids := make([]int, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sortInts(ids)

	for _, id := range ids {
		pair := table[id]
		startTag, stopTag := pair[0], pair[1]
		starts := l.tree.Offsets(finalRegs[startTag.Index])
		stops := l.tree.Offsets(finalRegs[stopTag.Index])
		n := len(starts)
		if len(stops) < n {
			n = len(stops)
		}
		for i := 0; i < n; i++ {
			s, e := starts[i], stops[i]
			if s < 0 || e < 0 {
				continue
			}
			c := captureMeta(startTag)
			onCapture(c, string(input[s:e]), s, e)
		}
	}
}

func captureMeta(t tag.Tag) Capture {
	c := Capture{ID: t.Capture.ID, Name: t.Capture.Name, Leaf: t.Capture.DescendantCount == 0}
	if t.Capture.ParentID > 0 {
		c.ParentID = t.Capture.ParentID
		c.HasParent = true
	}
	return c
}

func cloneRefs(r []ptree.Ref) []ptree.Ref {
	out := make([]ptree.Ref, len(r))
	copy(out, r)
	return out
}

// applyOps runs ops against regs in order, recording offset at every Append
// step.
func applyOps(regs []ptree.Ref, tree *ptree.Tree, ops []tdfa.RegisterOp, offset int) {
	for _, op := range ops {
		switch op.Action.Kind {
		case tdfa.CopyFrom:
			regs[op.Dest] = regs[op.Action.Source]
		case tdfa.Append:
			ref := regs[op.Action.Source]
			for _, m := range op.Action.History {
				if m == tdfa.Current {
					ref = tree.Append(ref, offset)
				} else {
					ref = tree.Append(ref, -1)
				}
			}
			regs[op.Dest] = ref
		}
	}
}

func sortInts(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}
