// Command taglex-compile freezes a schema, builds its TDFA, and writes a Go
// source file containing that TDFA as literal tables (internal/tablegen),
// so a consumer can embed a prebuilt lexer without paying construction cost
// at process start.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/taglex/taglex/internal/nfa"
	"github.com/taglex/taglex/internal/schemafile"
	"github.com/taglex/taglex/internal/tablegen"
	"github.com/taglex/taglex/internal/tdfa"
)

func main() {
	var (
		schemaPath string
		outputPath string
		pkg        string
		funcName   string
	)
	flag.StringVar(&schemaPath, "schema", "", "path to a YAML schema document")
	flag.StringVar(&outputPath, "out", "", "output .go file path")
	flag.StringVar(&pkg, "package", "main", "package name for the generated file")
	flag.StringVar(&funcName, "func", "Load", "name of the generated loader function")
	flag.Parse()

	if err := run(schemaPath, outputPath, pkg, funcName); err != nil {
		fmt.Fprintln(os.Stderr, "taglex-compile:", err)
		os.Exit(1)
	}
}

func run(schemaPath, outputPath, pkg, funcName string) error {
	if schemaPath == "" {
		return fmt.Errorf("missing -schema")
	}
	if outputPath == "" {
		return fmt.Errorf("missing -out")
	}

	s, err := schemafile.Load(schemaPath)
	if err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}

	n, err := nfa.Build(s)
	if err != nil {
		return fmt.Errorf("building tnfa: %w", err)
	}
	d, err := tdfa.Build(n)
	if err != nil {
		return fmt.Errorf("building tdfa: %w", err)
	}

	return tablegen.Generate(d, tablegen.Config{
		Package:    pkg,
		FuncName:   funcName,
		OutputFile: outputPath,
		SourceDesc: schemaPath,
	})
}
