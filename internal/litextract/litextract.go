// Package litextract extracts the guaranteed-literal prefix of a rule's
// pattern: the run of exact code points every match of that rule must begin
// with, stopping at the first construct that can vary (a character class, a
// wildcard, a closure, or any alternation, even one whose branches share a
// first code point). internal/prefilter uses these prefixes to skip positions
// that cannot possibly start any rule.
package litextract

import "github.com/taglex/taglex/internal/regexast"

// Prefix extracts root's guaranteed-literal head. A Capture is transparent:
// it contributes its inner prefix directly, since a capture never changes
// which bytes match. The returned string is empty when root's very first
// code point can already vary.
func Prefix(root regexast.Node) string {
	var buf []rune
	walk(root, &buf)
	return string(buf)
}

// walk extends buf with n's guaranteed-literal head and reports whether the
// caller may keep accumulating past n (false once a varying construct, or
// the end of a fixed sequence, has been reached).
func walk(n regexast.Node, buf *[]rune) bool {
	switch v := n.(type) {
	case *regexast.Literal:
		*buf = append(*buf, v.Char)
		return true
	case *regexast.Capture:
		return walk(v.Inner, buf)
	case *regexast.Sequence:
		for _, item := range v.Items {
			if !walk(item, buf) {
				return false
			}
		}
		return true
	case *regexast.BoundedRepetition:
		if v.Min == 0 {
			return false
		}
		// Every match repeats Inner at least once with the same text, so one
		// copy of Inner's own literal head is guaranteed.
		walk(v.Inner, buf)
		return false
	default:
		// AnyChar, Group, KleeneClosure (Min implicitly 0), Alternation: the
		// first code point here can vary, so the prefix stops before it.
		return false
	}
}
