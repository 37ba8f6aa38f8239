package regexast

import "testing"

func TestParse_RoundTrip(t *testing.T) {
	patterns := []string{
		"abc",
		"a.b",
		"[a-z]+",
		"[^0-9]",
		"a*",
		"a{2,3}",
		"a{4}",
		"a|b|c",
		"(?<name>[a-z]+)",
		"(a(b)c)*",
		`\d+\s*\w`,
	}
	for _, p := range patterns {
		t.Run(p, func(t *testing.T) {
			root, err := Parse(p)
			if err != nil {
				t.Fatalf("Parse(%q): %v", p, err)
			}
			got := Print(root)
			root2, err := Parse(got)
			if err != nil {
				t.Fatalf("re-parsing printed form %q: %v", got, err)
			}
			if Print(root2) != got {
				t.Errorf("Print not idempotent: %q -> %q -> %q", p, got, Print(root2))
			}
		})
	}
}

func TestParse_ErrorLocalisation(t *testing.T) {
	patterns := []string{
		"[",
		"(abc",
		"a{2,",
		"a{",
		"(?<1bad>x)",
		"*",
	}
	for _, p := range patterns {
		t.Run(p, func(t *testing.T) {
			_, err := Parse(p)
			if err == nil {
				t.Fatalf("Parse(%q) should have failed", p)
			}
			pe, ok := err.(*ParseError)
			if !ok {
				t.Fatalf("error is not *ParseError: %T", err)
			}
			if pe.Consumed+pe.Remaining != p {
				t.Errorf("Consumed+Remaining = %q, want %q", pe.Consumed+pe.Remaining, p)
			}
		})
	}
}

func TestParse_CaptureNumbering(t *testing.T) {
	root, err := Parse("((?<a>x)(?<b>y(?<c>z)))")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	caps := Captures(root)
	if len(caps) != 3 { // the outer plain group is not a capture
		t.Fatalf("len(Captures) = %d, want 3", len(caps))
	}

	seen := map[int]bool{}
	for _, c := range caps {
		if c.ID < 1 || c.ID > len(caps) {
			t.Errorf("capture id %d out of contiguous 1..%d range", c.ID, len(caps))
		}
		if seen[c.ID] {
			t.Errorf("duplicate capture id %d", c.ID)
		}
		seen[c.ID] = true
		if c.ParentID != 0 {
			if c.ParentID >= c.ID {
				t.Errorf("capture %d: parent id %d must be strictly smaller", c.ID, c.ParentID)
			}
		}
		isLeaf := c.DescendantCount == 0
		hasNestedCapture := false
		for _, other := range caps {
			if other.ParentID == c.ID {
				hasNestedCapture = true
				break
			}
		}
		if isLeaf == hasNestedCapture {
			t.Errorf("capture %d: leaf<=>descendant_count==0 violated (leaf=%v, hasNestedCapture=%v)", c.ID, isLeaf, hasNestedCapture)
		}
	}
}

func TestParse_EmptyPatternFails(t *testing.T) {
	if _, err := Parse(""); err == nil {
		t.Error("Parse(\"\") should fail: a rule pattern must match at least the empty-sequence atom explicitly, not be entirely absent")
	}
}
