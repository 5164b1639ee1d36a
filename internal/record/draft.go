package record

import (
	"bytes"
	"encoding/json"
)

// Draft is an unsaved set of field values pending create or update.
type Draft struct {
	names  []string
	values map[string]string
}

// NewDraft returns an empty draft.
func NewDraft() Draft {
	return Draft{values: map[string]string{}}
}

// Set assigns a value, keeping the order of first assignment.
func (d *Draft) Set(name, value string) {
	if d.values == nil {
		d.values = map[string]string{}
	}
	if _, ok := d.values[name]; !ok {
		d.names = append(d.names, name)
	}
	d.values[name] = value
}

// Get returns a value and whether it was set.
func (d Draft) Get(name string) (string, bool) {
	v, ok := d.values[name]
	return v, ok
}

// Names returns the field names in order.
func (d Draft) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Len is the number of fields set.
func (d Draft) Len() int { return len(d.names) }

// MarshalJSON writes the draft as a JSON object in field order.
func (d Draft) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range d.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(d.values[name])
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
