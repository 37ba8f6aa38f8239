package logtype

import (
	"testing"

	"github.com/taglex/taglex/internal/regexast"
)

func TestBuilder_LiteralEscapesPercent(t *testing.T) {
	b := New()
	b.Literal("100% done")
	if got, want := b.String(), "100%% done"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestBuilder_Placeholder(t *testing.T) {
	b := New()
	b.Placeholder(1, "user")
	if got, want := b.String(), "%1:user%"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestBuilder_PlaceholderFallsBackToGroupName(t *testing.T) {
	b := New()
	b.Placeholder(3, "")
	if got, want := b.String(), "%3:Group3%"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestFromAST(t *testing.T) {
	root, err := regexast.Parse(`(?<user>[a-z]+)@REDACTED\.(?<tld>[a-z]+)`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := FromAST(root)
	want := "%1:user%@REDACTED.%2:tld%"
	if got != want {
		t.Errorf("FromAST() = %q, want %q", got, want)
	}
}

func TestFromAST_UnnamedCaptureUsesGroupFallback(t *testing.T) {
	// Parse never yields an unnamed Capture, so the node is built directly.
	inner, err := regexast.Parse(`abc`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	root := &regexast.Capture{ID: 1, Inner: inner}
	got := FromAST(root)
	want := "%1:Group1%"
	if got != want {
		t.Errorf("FromAST() = %q, want %q", got, want)
	}
}
