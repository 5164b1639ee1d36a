// Package batch turns pasted line-oriented text into drafts for a bulk create.
package batch

import (
	"errors"
	"fmt"
	"strings"

	"admintui/internal/record"
	"admintui/internal/schema"
)

// Delimiter separates positional fields on one line.
const Delimiter = ","

// ErrEmptyBatch is returned when the text holds no non-blank line.
var ErrEmptyBatch = errors.New("batch: nothing to import")

// ParseError rejects the whole batch because one line does not fit the grammar.
type ParseError struct {
	Line     int // 1-based, counting blank lines
	Expected int
	Got      int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: expected %d fields separated by %q, got %d", e.Line, e.Expected, Delimiter, e.Got)
}

// Parse converts raw text into drafts in input line order. Blank lines and the
// Header line are skipped. Either every line parses or none is returned.
func Parse(raw string, d schema.Descriptor) ([]record.Draft, error) {
	g := d.Grammar
	header := Header(d)
	var drafts []record.Draft
	for i, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if trimmed := strings.TrimSpace(line); trimmed == "" || trimmed == header {
			continue
		}

		draft := record.NewDraft()
		if g.FreeText {
			draft.Set(g.Fields[0], line)
			drafts = append(drafts, draft)
			continue
		}

		n := g.Arity()
		parts := strings.SplitN(line, Delimiter, n)
		if len(parts) < n {
			return nil, &ParseError{Line: i + 1, Expected: n, Got: len(parts)}
		}
		for j, name := range g.Fields {
			draft.Set(name, strings.TrimSpace(parts[j]))
		}
		drafts = append(drafts, draft)
	}
	if len(drafts) == 0 {
		return nil, ErrEmptyBatch
	}
	return drafts, nil
}

// Template is the help text shown above the input, e.g. "email,password,device_id".
func Template(d schema.Descriptor) string {
	if d.Grammar.FreeText {
		return fmt.Sprintf("one %s per line", d.Grammar.Fields[0])
	}
	return strings.Join(d.Grammar.Fields, Delimiter)
}

// Header is Template as a comment line. Parse drops it, so text seeded with it can be
// imported as is.
func Header(d schema.Descriptor) string {
	return "# " + Template(d)
}
