// Package form binds records to edit forms and back.
package form

import (
	"admintui/internal/record"
	"admintui/internal/schema"
)

// Values holds the text of each form input keyed by field name.
type Values map[string]string

// ToForm projects the descriptor's editable fields out of a record. Absent and null
// fields become "".
func ToForm(r record.Record, d schema.Descriptor) Values {
	v := make(Values, len(d.Fields))
	for _, f := range d.Fields {
		v[f.Name] = r.String(f.Name)
	}
	return v
}

// Empty is the form of a create session.
func Empty(d schema.Descriptor) Values {
	return ToForm(record.Record{}, d)
}

// FromForm reads form values back into a draft in descriptor order. Fields missing
// from values are submitted as "".
func FromForm(v Values, d schema.Descriptor) record.Draft {
	draft := record.NewDraft()
	for _, f := range d.Fields {
		draft.Set(f.Name, v[f.Name])
	}
	return draft
}
