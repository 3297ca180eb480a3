package domain

import (
	"bytes"
	"encoding/json"
)

// Row is one ordered field→value record. Field order always matches the
// caller's request order, never the physical column order, and a field
// requested twice appears twice. A nil value is a NULL (or, for document
// stores, a missing field).
type Row struct {
	fields []string
	values []any
}

// NewRow pairs requested field names with their values positionally.
// Both slices must have the same length.
func NewRow(fields []string, values []any) Row {
	if len(fields) != len(values) {
		panic("row: field/value length mismatch")
	}
	return Row{fields: fields, values: values}
}

// Len returns the number of entries in the row.
func (r Row) Len() int {
	return len(r.fields)
}

// Field returns the field name at position i.
func (r Row) Field(i int) string {
	return r.fields[i]
}

// Value returns the value at position i.
func (r Row) Value(i int) any {
	return r.values[i]
}

// Get returns the value for the first occurrence of name.
func (r Row) Get(name string) (any, bool) {
	for i, f := range r.fields {
		if f == name {
			return r.values[i], true
		}
	}
	return nil, false
}

// MarshalJSON writes the row as a JSON object whose keys appear in request
// order. encoding/json maps would lose both the order and duplicate keys, so
// the object body is assembled by hand.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(r.fields[i])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ResultSet is an ordered sequence of rows in the data source's natural
// retrieval order.
type ResultSet []Row
