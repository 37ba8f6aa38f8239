// Package regexast defines the tagged regular-expression AST produced by
// the schema parser (see Parse) and consumed by the nfa builder.
package regexast

import "fmt"

// Range is an inclusive interval of Unicode scalar values, lo <= hi.
type Range struct {
	Lo, Hi rune
}

// Node is the closed sum type of the AST. Dispatch over Node is a type
// switch, never an interface method per variant — new variants must update
// every construction site (parser, nfa builder, pretty-printer).
type Node interface {
	node()
}

// AnyChar matches any single Unicode scalar value.
type AnyChar struct{}

// Literal matches exactly one code point.
type Literal struct {
	Char rune
}

// Group matches a single code point against a set of ranges, optionally
// negated. Ranges are kept as written in the pattern and may overlap.
type Group struct {
	Negated bool
	Ranges  []Range
}

// KleeneClosure matches its inner node zero or more times, greedily.
type KleeneClosure struct {
	Inner Node
}

// BoundedRepetition matches its inner node between Min and Max times
// (inclusive), greedily. 0 < Max and Min <= Max.
type BoundedRepetition struct {
	Min, Max int
	Inner    Node
}

// Sequence matches its items in order.
type Sequence struct {
	Items []Node
}

// Alternation matches the first of its branches that matches, in order of
// declaration (earlier branches have priority).
type Alternation struct {
	Branches []Node
}

// Capture wraps Inner as the numbered, possibly named, capture group ID.
// ParentID is 0 when the capture is top-level (no enclosing capture). Parse
// creates Capture nodes only for (?<name>...) groups; a plain (...) group
// is grouping only and yields no Capture.
type Capture struct {
	Name            string
	ID              int
	ParentID        int
	DescendantCount int
	Inner           Node
}

func (AnyChar) node()           {}
func (Literal) node()           {}
func (Group) node()             {}
func (KleeneClosure) node()     {}
func (BoundedRepetition) node() {}
func (Sequence) node()          {}
func (Alternation) node()       {}
func (Capture) node()           {}

// Captures walks root and returns every Capture node in pre-order (the same
// order capture ids were assigned in).
func Captures(root Node) []*Capture {
	var out []*Capture
	var walk func(Node)
	walk = func(n Node) {
		switch v := n.(type) {
		case *Capture:
			out = append(out, v)
			walk(v.Inner)
		case *Sequence:
			for _, it := range v.Items {
				walk(it)
			}
		case *Alternation:
			for _, b := range v.Branches {
				walk(b)
			}
		case *KleeneClosure:
			walk(v.Inner)
		case *BoundedRepetition:
			walk(v.Inner)
		}
	}
	walk(root)
	return out
}

// Print renders root back to an equivalent pattern string. It is used both
// for diagnostics and by the parser round-trip test property.
func Print(n Node) string {
	switch v := n.(type) {
	case *AnyChar:
		return "."
	case *Literal:
		return escapeLiteral(v.Char)
	case *Group:
		return printGroup(v)
	case *KleeneClosure:
		return wrapAtom(v.Inner) + "*"
	case *BoundedRepetition:
		if v.Min == v.Max {
			return fmt.Sprintf("%s{%d}", wrapAtom(v.Inner), v.Min)
		}
		return fmt.Sprintf("%s{%d,%d}", wrapAtom(v.Inner), v.Min, v.Max)
	case *Sequence:
		s := ""
		for _, it := range v.Items {
			s += Print(it)
		}
		return s
	case *Alternation:
		s := ""
		for i, b := range v.Branches {
			if i > 0 {
				s += "|"
			}
			s += Print(b)
		}
		return s
	case *Capture:
		if v.Name == "" {
			return "(" + Print(v.Inner) + ")"
		}
		return "(?<" + v.Name + ">" + Print(v.Inner) + ")"
	default:
		return ""
	}
}

// wrapAtom parenthesizes n when printing it directly after a repetition
// operator would otherwise change its meaning.
func wrapAtom(n Node) string {
	switch n.(type) {
	case *Literal, *AnyChar, *Group, *Capture:
		return Print(n)
	default:
		return "(" + Print(n) + ")"
	}
}

func printGroup(g *Group) string {
	s := "["
	if g.Negated {
		s += "^"
	}
	for _, r := range g.Ranges {
		if r.Lo == r.Hi {
			s += escapeInClass(r.Lo)
		} else {
			s += escapeInClass(r.Lo) + "-" + escapeInClass(r.Hi)
		}
	}
	return s + "]"
}

var specialChars = map[rune]bool{
	'\\': true, '(': true, ')': true, '[': true, ']': true,
	'{': true, '}': true, '<': true, '>': true, '*': true,
	'+': true, '?': true, '-': true, '.': true, '|': true, '^': true,
}

func escapeLiteral(c rune) string {
	switch c {
	case '\t':
		return `\t`
	case '\r':
		return `\r`
	case '\n':
		return `\n`
	}
	if specialChars[c] {
		return "\\" + string(c)
	}
	return string(c)
}

func escapeInClass(c rune) string {
	switch c {
	case '\t':
		return `\t`
	case '\r':
		return `\r`
	case '\n':
		return `\n`
	case ']', '\\', '^', '-':
		return "\\" + string(c)
	}
	return string(c)
}
