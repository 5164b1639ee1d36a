package section

import (
	"admintui/internal/record"
	"admintui/internal/schema"
	"admintui/internal/viewmodel"
)

// Status is where the active section is in its load cycle.
type Status int

const (
	Idle Status = iota
	Loading
	Loaded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "error"
	}
	return "unknown"
}

// Flash is the outcome message of the last operation.
type Flash struct {
	Text  string
	Error bool
}

// State is the view state of the dashboard. The filtered dataset is never stored;
// Filtered and Page derive it from Dataset, SearchTerm and the descriptor.
type State struct {
	Active      string
	Descriptor  schema.Descriptor
	Dataset     []record.Record
	SearchTerm  string
	PageSize    int
	CurrentPage int
	Status      Status
	Err         error // last load failure, nil once a load succeeds
	Flash       Flash
}

// Filtered applies the search term.
func (s State) Filtered() []record.Record {
	return viewmodel.Filter(s.Dataset, s.SearchTerm, s.Descriptor)
}

// Page is the visible page.
func (s State) Page() viewmodel.Page {
	return viewmodel.Paginate(s.Filtered(), s.CurrentPage, s.PageSize)
}

// Mode says whether a form creates or edits.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// EditSession lives exactly as long as an open create/edit form.
type EditSession struct {
	Section  string
	Mode     Mode
	TargetID string // set iff Mode is ModeEdit
}
