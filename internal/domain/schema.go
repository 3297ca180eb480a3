package domain

import "fmt"

// FieldType is the semantic type of a schema column.
type FieldType string

const (
	FieldInt    FieldType = "int"
	FieldFloat  FieldType = "float"
	FieldString FieldType = "string"
	FieldBool   FieldType = "bool"
	FieldTime   FieldType = "time"
)

// ParseFieldType validates a field type string from configuration.
func ParseFieldType(s string) (FieldType, error) {
	switch FieldType(s) {
	case FieldInt, FieldFloat, FieldString, FieldBool, FieldTime:
		return FieldType(s), nil
	default:
		return "", fmt.Errorf("unknown field type: %q", s)
	}
}

// Field is one named, typed column of a relation.
type Field struct {
	Name string    `json:"name"`
	Type FieldType `json:"type"`
}

// Schema is the fixed, ordered set of queryable fields for one relation.
// It is built once at startup and read-only afterwards.
type Schema struct {
	fields []Field
	byName map[string]int
}

// NewSchema builds a Schema from an ordered field list. Field names must be
// unique under exact, case-sensitive comparison; "Name" and "name" are two
// distinct fields.
func NewSchema(fields []Field) (*Schema, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("schema needs at least one field")
	}
	byName := make(map[string]int, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("schema field %d has an empty name", i)
		}
		if _, err := ParseFieldType(string(f.Type)); err != nil {
			return nil, fmt.Errorf("schema field %q: %w", f.Name, err)
		}
		if _, dup := byName[f.Name]; dup {
			return nil, fmt.Errorf("duplicate schema field: %q", f.Name)
		}
		byName[f.Name] = i
	}
	return &Schema{fields: append([]Field(nil), fields...), byName: byName}, nil
}

// Lookup resolves a requested field name against the schema. Matching is
// exact and case-sensitive.
func (s *Schema) Lookup(name string) (Field, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Fields returns the schema's fields in declaration order.
func (s *Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// FieldNames returns the field names in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Len returns the number of fields.
func (s *Schema) Len() int {
	return len(s.fields)
}
