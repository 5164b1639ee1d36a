// Package schema describes every section the dashboard manages. Generic code looks a
// section up here instead of branching on its id.
package schema

import (
	"fmt"
	"strings"

	"admintui/internal/record"
)

// Field is one editable field of a section.
type Field struct {
	Name   string
	Label  string
	Secret bool // masked in tables
	// OptionsFrom names a section whose records supply suggested values for this
	// field, read from the field of the same name.
	OptionsFrom string
}

// LineGrammar tells the batch parser how one line of pasted text maps to a draft.
type LineGrammar struct {
	Fields   []string // consumed positionally, split on the delimiter
	FreeText bool     // the whole line is the single field Fields[0]
}

// Arity is the number of fields a positional line must carry.
func (g LineGrammar) Arity() int {
	if g.FreeText {
		return 1
	}
	return len(g.Fields)
}

// Descriptor is the static configuration of one section.
type Descriptor struct {
	ID               string
	Title            string // singular, e.g. "Device"
	Plural           string // e.g. "Devices"
	Endpoint         string // e.g. "/devices"
	PluralKey        string // batch body key
	Fields           []Field
	RequiredFields   []string
	DisplayColumns   []string
	SearchableFields []string
	Grammar          LineGrammar
}

// Field looks up an editable field by name.
func (d Descriptor) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// ColumnLabel is the header text for a display column.
func (d Descriptor) ColumnLabel(col string) string {
	if col == record.IDField {
		return "ID"
	}
	if f, ok := d.Field(col); ok && f.Label != "" {
		return f.Label
	}
	return col
}

// IsSecret reports whether a column is masked when displayed.
func (d Descriptor) IsSecret(col string) bool {
	f, ok := d.Field(col)
	return ok && f.Secret
}

// Matches is the section's search predicate: a case-insensitive substring match over
// the searchable fields, true when any of them matches or when term is empty.
func (d Descriptor) Matches(r record.Record, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, name := range d.SearchableFields {
		if strings.Contains(strings.ToLower(r.String(name)), term) {
			return true
		}
	}
	return false
}

// Validate checks that the descriptor only refers to fields it declares.
func (d Descriptor) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("schema: descriptor without id")
	}
	if !strings.HasPrefix(d.Endpoint, "/") {
		return fmt.Errorf("schema: %s: endpoint %q must start with /", d.ID, d.Endpoint)
	}
	known := map[string]bool{record.IDField: true}
	for _, f := range d.Fields {
		known[f.Name] = true
	}
	check := func(kind string, names []string) error {
		for _, n := range names {
			if !known[n] {
				return fmt.Errorf("schema: %s: %s field %q is not declared", d.ID, kind, n)
			}
		}
		return nil
	}
	if err := check("required", d.RequiredFields); err != nil {
		return err
	}
	if err := check("display", d.DisplayColumns); err != nil {
		return err
	}
	if err := check("searchable", d.SearchableFields); err != nil {
		return err
	}
	if err := check("grammar", d.Grammar.Fields); err != nil {
		return err
	}
	if len(d.Grammar.Fields) == 0 {
		return fmt.Errorf("schema: %s: empty line grammar", d.ID)
	}
	if d.Grammar.FreeText && len(d.Grammar.Fields) != 1 {
		return fmt.Errorf("schema: %s: free-text grammar takes exactly one field", d.ID)
	}
	return nil
}

// BatchEndpoint is where bulk creates are posted.
func (d Descriptor) BatchEndpoint() string {
	return d.Endpoint + "/batch"
}
