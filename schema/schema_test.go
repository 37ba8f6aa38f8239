package schema

import "testing"

func TestBuilder_ReservedNames(t *testing.T) {
	for _, name := range []string{NameNewline, NameStatic, NameDelimiters} {
		b := NewBuilder()
		if err := b.AddRule(name, "x"); err == nil {
			t.Errorf("AddRule(%q) should have been rejected as reserved", name)
		}
	}
}

func TestBuilder_DuplicateName(t *testing.T) {
	b := NewBuilder()
	if err := b.AddRule("kv", "[a-z]+"); err != nil {
		t.Fatalf("AddRule: %v", err)
	}
	if err := b.AddRule("kv", "[0-9]+"); err == nil {
		t.Error("AddRule with a duplicate name should have failed")
	}
}

func TestBuilder_BuildRequiresAtLeastOneRule(t *testing.T) {
	b := NewBuilder()
	if _, err := b.Build(); err == nil {
		t.Error("Build with no user rules should fail")
	}
}

func TestBuilder_BuildOrdersRulesWithNewlineFirst(t *testing.T) {
	b := NewBuilder()
	if err := b.AddRule("a", "x"); err != nil {
		t.Fatalf("AddRule: %v", err)
	}
	if err := b.AddRule("b", "y"); err != nil {
		t.Fatalf("AddRule: %v", err)
	}
	s, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if s.NumRules() != 3 {
		t.Fatalf("NumRules() = %d, want 3", s.NumRules())
	}
	if s.Rule(0).Name != NameNewline {
		t.Errorf("Rule(0).Name = %q, want %q", s.Rule(0).Name, NameNewline)
	}
	if s.Rule(1).Name != "a" || s.Rule(2).Name != "b" {
		t.Errorf("rules out of order: %q, %q", s.Rule(1).Name, s.Rule(2).Name)
	}
}

func TestIsDelimiter(t *testing.T) {
	b := NewBuilder()
	b.SetDelimiters(" \t")
	if err := b.AddRule("a", "x"); err != nil {
		t.Fatalf("AddRule: %v", err)
	}
	s, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !s.IsDelimiter(' ') || !s.IsDelimiter('\t') {
		t.Error("expected ' ' and '\\t' to be delimiters")
	}
	if s.IsDelimiter('x') {
		t.Error("did not expect 'x' to be a delimiter")
	}
}

func TestAddRule_PropagatesParseError(t *testing.T) {
	b := NewBuilder()
	if err := b.AddRule("bad", "["); err == nil {
		t.Error("expected a parse error for an unterminated class")
	}
}
