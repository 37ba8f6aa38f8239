package tablegen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/taglex/taglex/internal/nfa"
	"github.com/taglex/taglex/internal/tdfa"
	"github.com/taglex/taglex/schema"
)

func buildTDFA(t *testing.T, patterns map[string]string) *tdfa.TDFA {
	t.Helper()
	b := schema.NewBuilder()
	b.SetDelimiters(" ")
	for name, pattern := range patterns {
		if err := b.AddRule(name, pattern); err != nil {
			t.Fatalf("AddRule(%q): %v", name, err)
		}
	}
	s, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	n, err := nfa.Build(s)
	if err != nil {
		t.Fatalf("nfa.Build: %v", err)
	}
	d, err := tdfa.Build(n)
	if err != nil {
		t.Fatalf("tdfa.Build: %v", err)
	}
	return d
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		patterns map[string]string
	}{
		{name: "single literal rule", patterns: map[string]string{"kw": "GET"}},
		{name: "capture rule", patterns: map[string]string{"kv": "(?<key>[a-z]+)=(?<val>[0-9]+)"}},
		{name: "two rules", patterns: map[string]string{"a": "foo", "b": "bar[0-9]+"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := buildTDFA(t, tt.patterns)

			tmpDir := t.TempDir()
			outputFile := filepath.Join(tmpDir, "table.go")

			err := Generate(d, Config{
				Package:    "generated",
				OutputFile: outputFile,
				SourceDesc: tt.name,
			})
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}

			if _, err := os.Stat(outputFile); os.IsNotExist(err) {
				t.Fatal("output file was not created")
			}

			data, err := os.ReadFile(outputFile)
			if err != nil {
				t.Fatalf("reading output: %v", err)
			}
			if len(data) == 0 {
				t.Fatal("output file is empty")
			}
		})
	}
}

func TestGenerate_DefaultFuncName(t *testing.T) {
	d := buildTDFA(t, map[string]string{"kw": "GET"})
	tmpDir := t.TempDir()
	outputFile := filepath.Join(tmpDir, "table.go")

	if err := Generate(d, Config{Package: "generated", OutputFile: outputFile}); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	data, err := os.ReadFile(outputFile)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !contains(string(data), "func Load(") {
		t.Errorf("expected default func name Load in generated source, got:\n%s", data)
	}
}

func contains(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
