// Package schemafile loads a schema.Schema from a YAML document, the
// configuration format cmd/taglex accepts.
package schemafile

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/taglex/taglex/schema"
)

// Document is the on-disk shape:
//
//	delimiters: " \t"
//	rules:
//	  - name: kv
//	    pattern: '(?<key>[a-z]+)=(?<val>[0-9]+)'
type Document struct {
	Delimiters string `yaml:"delimiters"`
	Rules      []struct {
		Name    string `yaml:"name"`
		Pattern string `yaml:"pattern"`
	} `yaml:"rules"`
}

// Load reads path and builds a frozen Schema from it.
func Load(path string) (*schema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemafile: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a frozen Schema from a YAML document's bytes.
func Parse(data []byte) (*schema.Schema, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schemafile: parsing yaml: %w", err)
	}

	b := schema.NewBuilder()
	b.SetDelimiters(doc.Delimiters)
	for _, r := range doc.Rules {
		if err := b.AddRule(r.Name, r.Pattern); err != nil {
			return nil, fmt.Errorf("schemafile: rule %q: %w", r.Name, err)
		}
	}
	return b.Build()
}
