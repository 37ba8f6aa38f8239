// Package schema owns the ordered rule list and delimiter set that the nfa
// and tdfa packages build an automaton from.
package schema

import (
	"fmt"

	"github.com/taglex/taglex/internal/regexast"
)

// Reserved rule names a caller may not register.
const (
	NameNewline    = "newline"
	NameStatic     = "static"
	NameDelimiters = "delimiters"
)

// Rule is one named variable in the schema. Index 0 is always the synthetic
// newline rule.
type Rule struct {
	Index int
	Name  string
	AST   regexast.Node
}

// Schema is a frozen, ordered list of Rules plus a delimiter set.
type Schema struct {
	rules      []Rule
	delimiters map[rune]bool
}

// Builder assembles a Schema incrementally; see Build.
type Builder struct {
	rules      []Rule
	delimiters map[rune]bool
	names      map[string]bool
}

// NewBuilder returns a Builder seeded with the reserved rule 0 (newline).
func NewBuilder() *Builder {
	b := &Builder{
		delimiters: make(map[rune]bool),
		names:      make(map[string]bool),
	}
	b.rules = []Rule{{
		Index: 0,
		Name:  NameNewline,
		AST:   &regexast.Literal{Char: '\n'},
	}}
	b.names[NameNewline] = true
	return b
}

// SetDelimiters replaces the delimiter set with the code points in s.
func (b *Builder) SetDelimiters(s string) {
	b.delimiters = make(map[rune]bool, len(s))
	for _, r := range s {
		b.delimiters[r] = true
	}
}

// AddRule parses pattern and appends a new rule named name. It returns the
// regexast parse error verbatim on failure.
func (b *Builder) AddRule(name, pattern string) error {
	if name == NameNewline || name == NameStatic || name == NameDelimiters {
		return fmt.Errorf("schema: rule name %q is reserved", name)
	}
	if b.names[name] {
		return fmt.Errorf("schema: duplicate rule name %q", name)
	}
	ast, err := regexast.Parse(pattern)
	if err != nil {
		return err
	}
	b.rules = append(b.rules, Rule{
		Index: len(b.rules),
		Name:  name,
		AST:   ast,
	})
	b.names[name] = true
	return nil
}

// Build freezes the builder into an immutable Schema.
func (b *Builder) Build() (*Schema, error) {
	if len(b.rules) < 2 {
		return nil, fmt.Errorf("schema: at least one user rule is required")
	}
	rules := make([]Rule, len(b.rules))
	copy(rules, b.rules)
	return &Schema{rules: rules, delimiters: b.delimiters}, nil
}

// Rules returns the read-only, ordered rule list.
func (s *Schema) Rules() []Rule { return s.rules }

// Rule returns the rule at index i.
func (s *Schema) Rule(i int) Rule { return s.rules[i] }

// NumRules returns the number of rules, including the synthetic rule 0.
func (s *Schema) NumRules() int { return len(s.rules) }

// Delimiters returns the set of delimiter code points.
func (s *Schema) Delimiters() map[rune]bool { return s.delimiters }

// IsDelimiter reports whether r is a member of the delimiter set.
func (s *Schema) IsDelimiter(r rune) bool { return s.delimiters[r] }
