// Command taglex reads a schema (either a YAML file via -schema, or inline
// -rule/-delim flags) and tokenises an input file, printing the resulting
// token stream to stdout.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/taglex/taglex/internal/schemafile"
	"github.com/taglex/taglex/internal/tracelog"
	"github.com/taglex/taglex/lexer"
	"github.com/taglex/taglex/schema"
)

// arrayFlags collects repeated -rule flag occurrences.
type arrayFlags []string

func (f *arrayFlags) String() string {
	return strings.Join(*f, ", ")
}

func (f *arrayFlags) Set(value string) error {
	*f = append(*f, value)
	return nil
}

func main() {
	var (
		schemaPath string
		inputPath  string
		delims     string
		verbose    bool
		rules      arrayFlags
	)

	flag.StringVar(&schemaPath, "schema", "", "path to a YAML schema document")
	flag.StringVar(&inputPath, "input", "", "path to the input file to tokenise")
	flag.StringVar(&delims, "delim", " ", "delimiter code points (used with -rule, ignored with -schema)")
	flag.BoolVar(&verbose, "v", false, "print phase headers to stderr")
	flag.Var(&rules, "rule", "name=pattern, repeatable (used with -rule, ignored with -schema)")
	flag.Parse()

	if err := run(schemaPath, inputPath, delims, rules, verbose); err != nil {
		fmt.Fprintln(os.Stderr, "taglex:", err)
		os.Exit(1)
	}
}

func run(schemaPath, inputPath, delims string, rules arrayFlags, verbose bool) error {
	if inputPath == "" {
		return fmt.Errorf("missing -input")
	}

	s, err := loadSchema(schemaPath, delims, rules)
	if err != nil {
		return err
	}

	log := tracelog.New(verbose)
	log.Section("building lexer")

	l, err := lexer.New(s)
	if err != nil {
		return fmt.Errorf("building lexer: %w", err)
	}

	input, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	pos := 0
	for {
		tok, err := l.NextToken(input, &pos, func(c lexer.Capture, lexeme string, start, end int) {
			fmt.Printf("    capture %s=%q [%d,%d)\n", c.Name, lexeme, start, end)
		})
		if err != nil {
			return fmt.Errorf("lexing: %w", err)
		}
		switch tok.Kind {
		case lexer.Variable:
			fmt.Printf("%s %s=%q\n", tok.Kind, tok.Name, tok.Lexeme)
		case lexer.StaticText:
			fmt.Printf("%s %q\n", tok.Kind, tok.Lexeme)
		case lexer.EndOfInput:
			fmt.Println(tok.Kind)
			return nil
		}
	}
}

func loadSchema(schemaPath, delims string, rules arrayFlags) (*schema.Schema, error) {
	if schemaPath != "" {
		return schemafile.Load(schemaPath)
	}
	b := schema.NewBuilder()
	b.SetDelimiters(delims)
	for _, r := range rules {
		name, pattern, ok := strings.Cut(r, "=")
		if !ok {
			return nil, fmt.Errorf("invalid -rule %q, expected name=pattern", r)
		}
		if err := b.AddRule(name, pattern); err != nil {
			return nil, err
		}
	}
	return b.Build()
}
