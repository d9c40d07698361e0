// Package fixture is an offline session.Driver backed by a YAML file of
// databases, schemas and canned answers.
package fixture

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tqlsh/internal/concept"
)

// Fixture is the content of a fixture file.
type Fixture struct {
	// Name identifies the fixture in logs.
	Name string `yaml:"name"`

	Description string `yaml:"description,omitempty"`

	Databases []Database `yaml:"databases"`
}

// Database is one fixture database.
type Database struct {
	Name string `yaml:"name"`

	// Schema is returned verbatim by `database schema`.
	Schema string `yaml:"schema,omitempty"`

	// Answers maps query text to canned results. Queries are matched with
	// whitespace runs collapsed.
	Answers []Answer `yaml:"answers,omitempty"`
}

// Answer is the canned result of one query. A query with neither rows nor
// documents answers OK.
type Answer struct {
	Query     string           `yaml:"query"`
	Rows      []Row            `yaml:"rows,omitempty"`
	Documents []map[string]any `yaml:"documents,omitempty"`
}

// Row is one answer row. Columns keep the order they are written in.
type Row struct {
	Columns []Column
}

// Column binds a variable name (without "$") to a concept.
type Column struct {
	Name    string
	Concept ConceptSpec
}

// ConceptSpec describes a concept in a fixture row.
type ConceptSpec struct {
	Kind  string `yaml:"kind"`
	Type  string `yaml:"type"`
	IID   string `yaml:"iid,omitempty"`
	Value any    `yaml:"value,omitempty"`
}

// UnmarshalYAML decodes a row mapping, keeping key order.
func (r *Row) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: row must be a mapping of variable to concept", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		var spec ConceptSpec
		if err := val.Decode(&spec); err != nil {
			return fmt.Errorf("line %d: column %q: %w", val.Line, key.Value, err)
		}
		r.Columns = append(r.Columns, Column{Name: strings.TrimPrefix(key.Value, "$"), Concept: spec})
	}
	return nil
}

// Concept converts the spec to a concept value.
func (s ConceptSpec) Concept() (concept.Thing, error) {
	kind, err := concept.ParseKind(s.Kind)
	if err != nil {
		return concept.Thing{}, err
	}
	if s.Type == "" {
		return concept.Thing{}, fmt.Errorf("%s concept needs a type", kind)
	}
	switch kind {
	case concept.KindEntity, concept.KindRelation:
		if s.IID == "" {
			return concept.Thing{}, fmt.Errorf("%s %q needs an iid", kind, s.Type)
		}
		if kind == concept.KindEntity {
			return concept.NewEntity(s.Type, s.IID), nil
		}
		return concept.NewRelation(s.Type, s.IID), nil
	case concept.KindAttribute:
		if s.Value == nil {
			return concept.Thing{}, fmt.Errorf("attribute %q needs a value", s.Type)
		}
		return concept.NewAttribute(s.Type, normaliseValue(s.Value)), nil
	default:
		return concept.NewType(s.Type), nil
	}
}

// normaliseValue widens YAML integers to int64.
func normaliseValue(v any) any {
	if n, ok := v.(int); ok {
		return int64(n)
	}
	return v
}

// Load reads and validates a fixture file.
// Unknown fields are rejected.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates fixture YAML.
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validate(&f); err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}
	return &f, nil
}

func validate(f *Fixture) error {
	if f.Name == "" {
		return fmt.Errorf("name is required")
	}
	seen := make(map[string]bool)
	for i, db := range f.Databases {
		if db.Name == "" {
			return fmt.Errorf("databases[%d]: name is required", i)
		}
		if seen[db.Name] {
			return fmt.Errorf("databases[%d]: duplicate database %q", i, db.Name)
		}
		seen[db.Name] = true

		for j, a := range db.Answers {
			if strings.TrimSpace(a.Query) == "" {
				return fmt.Errorf("%s.answers[%d]: query is required", db.Name, j)
			}
			if len(a.Rows) > 0 && len(a.Documents) > 0 {
				return fmt.Errorf("%s.answers[%d]: rows and documents are exclusive", db.Name, j)
			}
			for k, row := range a.Rows {
				for _, col := range row.Columns {
					if _, err := col.Concept.Concept(); err != nil {
						return fmt.Errorf("%s.answers[%d].rows[%d].%s: %w", db.Name, j, k, col.Name, err)
					}
				}
			}
		}
	}
	return nil
}

// normaliseQuery collapses whitespace runs so that canned answers match
// regardless of line breaks and indentation.
func normaliseQuery(q string) string {
	return strings.Join(strings.Fields(q), " ")
}
