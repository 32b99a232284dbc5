// Package load reads the declarative graph schema document.
//
// The document lists node kinds and edge kinds. JSON documents are accepted too, since
// JSON is a subset of YAML:
//
//	nodes:
//	  - name: Person
//	    fields:
//	      - { name: name, type: string }
//	edges:
//	  - name: EmploysAt
//	    fields:
//	      - { name: since, type: int }
//	    connections:
//	      - { name: Employment, from: Person, to: Company }
//
// Loading only checks that the document is well formed; the semantic checks live in
// compiler/gen.
package load

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Schema is a loaded schema document.
type Schema struct {
	Nodes []*Node `yaml:"nodes" json:"nodes"`
	Edges []*Edge `yaml:"edges" json:"edges"`
}

// Node is a node kind declaration.
type Node struct {
	Name    string   `yaml:"name" json:"name"`
	Comment string   `yaml:"comment,omitempty" json:"comment,omitempty"`
	Fields  []*Field `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// Edge is an edge kind declaration.
type Edge struct {
	Name        string        `yaml:"name" json:"name"`
	Comment     string        `yaml:"comment,omitempty" json:"comment,omitempty"`
	Fields      []*Field      `yaml:"fields,omitempty" json:"fields,omitempty"`
	Connections []*Connection `yaml:"connections" json:"connections"`
}

// Field is a named, typed attribute of a kind.
type Field struct {
	Name    string `yaml:"name" json:"name"`
	Type    string `yaml:"type" json:"type"`
	Comment string `yaml:"comment,omitempty" json:"comment,omitempty"`
}

// Connection is one rule of an edge kind: the edge may link a From node to a To node.
type Connection struct {
	Name string `yaml:"name" json:"name"`
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// Load reads and parses the schema file at path.
func Load(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	defer f.Close()
	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load schema %s: %w", path, err)
	}
	return s, nil
}

// Parse parses a schema document.
func Parse(data []byte) (*Schema, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads one schema document from r. Unknown keys are rejected so a misspelled
// key does not silently drop a declaration.
func Decode(r io.Reader) (*Schema, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	s := &Schema{}
	if err := dec.Decode(s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty schema document")
		}
		return nil, err
	}
	return s, nil
}

// Marshal renders the schema as YAML.
func (s *Schema) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
