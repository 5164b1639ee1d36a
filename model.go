package main

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"admintui/internal/schema"
	"admintui/internal/section"
)

// --- Enums ---

type currentView int

const (
	viewRecords currentView = iota
	viewForm
	viewImport
	viewDeleteConfirmation
	viewImportConfirmation
	viewError
)

const (
	paneRecords = iota
	paneInspector
)

// --- Model ---

// formModel is the open create/edit form: one input per descriptor field.
type formModel struct {
	fields []schema.Field
	inputs []textinput.Model
	focus  int
	err    string
	busy   bool
}

type model struct {
	view       currentView
	width      int
	height     int
	ctrl       *section.Controller
	logger     *zap.Logger
	sections   []string
	cursor     int // row on the visible page
	activePane int
	spinner    spinner.Model
	search     textinput.Model
	searching  bool
	form       formModel
	importText textarea.Model
	importErr  string
	pending    *section.Mutation
	help       help.Model
	keys       keyMap
	viewport   viewport.Model
	err        error
	busy       string // non-empty while a mutation is in flight
	backend    string
	user       string
}

func newModel(ctrl *section.Controller, logger *zap.Logger, backend, user string) *model {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(highlight)

	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.Prompt = "/ "
	ti.CharLimit = 128
	ti.Width = 40

	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.SetHeight(12)

	h := help.New()
	h.Styles.ShortKey = h.Styles.ShortKey.Foreground(primary)
	h.Styles.ShortDesc = h.Styles.ShortDesc.Foreground(textDim)
	h.Styles.FullKey = h.Styles.FullKey.Foreground(primary)
	h.Styles.FullDesc = h.Styles.FullDesc.Foreground(textDim)

	return &model{
		view:       viewRecords,
		ctrl:       ctrl,
		logger:     logger,
		sections:   ctrl.Registry().IDs(),
		spinner:    s,
		search:     ti,
		importText: ta,
		help:       h,
		keys:       keys,
		viewport:   viewport.New(0, 0),
		backend:    backend,
		user:       user,
	}
}

func (m *model) state() section.State { return m.ctrl.State() }

func (m *model) activeIndex() int {
	active := m.state().Active
	for i, id := range m.sections {
		if id == active {
			return i
		}
	}
	return 0
}
