// Package record holds the loosely shaped rows managed by the dashboard.
//
// A Record is what the server returns: an ordered set of scalar fields plus the
// server-assigned id. A Draft is what the operator submits: string values in the
// order the section's schema declares them.
package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// IDField is the name of the identity field on every record.
const IDField = "id"

// Field is one name/value pair of a Record.
type Field struct {
	Name  string
	Value any
}

// Record is a server-side row. Values are scalars: string, json.Number, bool or nil.
type Record struct {
	ID     string
	fields []Field
}

// New builds a record from ordered fields. An "id" field sets ID.
func New(fields ...Field) Record {
	var r Record
	for _, f := range fields {
		r.Set(f.Name, f.Value)
	}
	return r
}

// FromMap builds a record from an unordered map. Keys named in order come first,
// in that order; the remaining keys follow sorted by name.
func FromMap(m map[string]any, order []string) Record {
	var r Record
	seen := make(map[string]bool, len(m))
	for _, name := range order {
		if v, ok := m[name]; ok {
			r.Set(name, v)
			seen[name] = true
		}
	}
	rest := make([]string, 0, len(m))
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		r.Set(k, m[k])
	}
	return r
}

// Get returns the raw value of a field.
func (r Record) Get(name string) (any, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	if name == IDField && r.ID != "" {
		return r.ID, true
	}
	return nil, false
}

// String returns a field rendered as text; absent and null fields are "".
func (r Record) String(name string) string {
	v, ok := r.Get(name)
	if !ok {
		return ""
	}
	return Stringify(v)
}

// Set replaces a field in place or appends it.
func (r *Record) Set(name string, value any) {
	if name == IDField {
		r.ID = Stringify(value)
	}
	for i := range r.fields {
		if r.fields[i].Name == name {
			r.fields[i].Value = value
			return
		}
	}
	r.fields = append(r.fields, Field{Name: name, Value: value})
}

// Fields returns a copy of the ordered fields.
func (r Record) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Len is the number of fields, id included when the server sent it.
func (r Record) Len() int { return len(r.fields) }

// MarshalJSON writes the fields in their stored order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a flat JSON object keeping the key order. Nested objects and
// arrays are kept as their compact JSON text.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("record: expected JSON object")
	}

	*r = Record{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("record: unexpected key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("record: field %q: %w", name, err)
		}
		v, err := scalar(raw)
		if err != nil {
			return fmt.Errorf("record: field %q: %w", name, err)
		}
		r.Set(name, v)
	}
	_, err = dec.Token()
	return err
}

func scalar(raw json.RawMessage) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return nil, err
		}
		return buf.String(), nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Stringify renders a scalar the way it is displayed and searched.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
