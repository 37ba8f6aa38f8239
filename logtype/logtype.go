// Package logtype assembles the static-text skeleton of a matched rule into
// a log-type string with variable slots marked. Unnamed captures fall back
// to a "Group%d" placeholder name.
package logtype

import (
	"fmt"
	"strings"

	"github.com/taglex/taglex/internal/regexast"
)

// Builder walks a rule's AST, alongside the lexer's per-match capture
// callback, building the `%i:name%`-placeholder log type for one matched
// rule occurrence.
type Builder struct {
	buf strings.Builder
}

// New returns an empty Builder.
func New() *Builder { return &Builder{} }

// Literal appends literal text, escaping any '%' as "%%" so placeholders
// remain unambiguous.
func (b *Builder) Literal(s string) {
	for _, r := range s {
		if r == '%' {
			b.buf.WriteString("%%")
		} else {
			b.buf.WriteRune(r)
		}
	}
}

// Placeholder appends a "%i:name%" variable slot for the capture with the
// given pre-order id and (possibly empty) name.
func (b *Builder) Placeholder(id int, name string) {
	if name == "" {
		name = fmt.Sprintf("Group%d", id)
	}
	fmt.Fprintf(&b.buf, "%%%d:%s%%", id, name)
}

// String returns the assembled log type so far.
func (b *Builder) String() string { return b.buf.String() }

// FromAST renders the log type for root's entire static skeleton, with
// every Capture node replaced by its placeholder — the form used when no
// live match is available (e.g. for documentation or a dry-run listing of
// a schema's rules).
func FromAST(root regexast.Node) string {
	b := New()
	walk(b, root)
	return b.String()
}

func walk(b *Builder, n regexast.Node) {
	switch v := n.(type) {
	case *regexast.Literal:
		b.Literal(string(v.Char))
	case *regexast.AnyChar:
		b.Literal(".")
	case *regexast.Group:
		b.Literal(regexast.Print(v))
	case *regexast.Sequence:
		for _, item := range v.Items {
			walk(b, item)
		}
	case *regexast.Alternation:
		if len(v.Branches) > 0 {
			walk(b, v.Branches[0])
		}
	case *regexast.KleeneClosure:
		walk(b, v.Inner)
	case *regexast.BoundedRepetition:
		walk(b, v.Inner)
	case *regexast.Capture:
		b.Placeholder(v.ID, v.Name)
	}
}
