package main

import (
	"bytes"
	"encoding/json"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"admintui/internal/batch"
	"admintui/internal/form"
	"admintui/internal/record"
	"admintui/internal/section"
	"admintui/internal/viewmodel"
)

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadSection(m.ctrl, m.ctrl.Reload()))
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.search.Width = max(10, m.width/3)
		m.viewport.Width = max(10, m.width/3-4)
		m.viewport.Height = max(3, m.height-12)
		m.importText.SetWidth(max(20, m.width-20))
		m.updateViewport()
		return m, nil

	case sectionLoadedMsg:
		if m.ctrl.Apply(section.LoadResult(msg)) {
			m.clampCursor()
			m.updateViewport()
		}
		return m, nil

	case mutationDoneMsg:
		m.busy = ""
		req, ok := m.ctrl.Complete(msg.mutation, msg.outcome, msg.err)
		if !ok {
			m.logger.Warn("mutation failed", zap.Stringer("kind", msg.mutation.Kind), zap.Error(msg.err))
			if m.view == viewForm {
				m.form.busy = false
				m.form.err = msg.err.Error()
			} else {
				m.err = msg.err
				m.view = viewError
			}
			return m, nil
		}
		m.pending = nil
		m.view = viewRecords
		return m, loadSection(m.ctrl, req)

	case optionsLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("options not loaded", zap.String("field", msg.field), zap.Error(msg.err))
			return m, nil
		}
		if m.view != viewForm || m.state().Active != msg.section {
			return m, nil
		}
		for i, f := range m.form.fields {
			if f.Name == msg.field {
				m.form.inputs[i].ShowSuggestions = len(msg.values) > 0
				m.form.inputs[i].SetSuggestions(msg.values)
			}
		}
		return m, nil

	case editorFinishedMsg:
		m.view = viewImport
		if msg.err != nil {
			m.importErr = msg.err.Error()
			return m, nil
		}
		m.importErr = ""
		m.importText.SetValue(msg.text)
		m.importText.Focus()
		return m, textarea.Blink

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.view {
		case viewError:
			// Any key goes back
			m.view = viewRecords
			m.err = nil
			return m, nil
		case viewDeleteConfirmation, viewImportConfirmation:
			return m.updateConfirmation(msg)
		case viewForm:
			return m.updateForm(msg)
		case viewImport:
			return m.updateImport(msg)
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateRecords(msg)
	}

	// Blink and other component messages go to whatever has focus.
	switch {
	case m.view == viewForm && len(m.form.inputs) > 0:
		m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	case m.view == viewImport:
		m.importText, cmd = m.importText.Update(msg)
	case m.searching:
		m.search, cmd = m.search.Update(msg)
	case m.view == viewRecords && m.activePane == paneInspector:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m *model) updateRecords(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.NextSection):
		return m, m.switchTo(m.activeIndex() + 1)

	case key.Matches(msg, m.keys.PrevSection):
		return m, m.switchTo(m.activeIndex() - 1)

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue(m.state().SearchTerm)
		m.search.CursorEnd()
		m.search.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Reload):
		return m, loadSection(m.ctrl, m.ctrl.Reload())

	case key.Matches(msg, m.keys.NextPage):
		if m.ctrl.NextPage() {
			m.cursor = 0
			m.updateViewport()
		}

	case key.Matches(msg, m.keys.PrevPage):
		if m.ctrl.PrevPage() {
			m.cursor = 0
			m.updateViewport()
		}

	case key.Matches(msg, m.keys.PageSize):
		_ = m.ctrl.SetPageSize(nextPageSize(m.state().PageSize))
		m.cursor = 0
		m.updateViewport()

	case key.Matches(msg, m.keys.Left):
		m.activePane = paneRecords

	case key.Matches(msg, m.keys.Right):
		m.activePane = paneInspector

	case key.Matches(msg, m.keys.Up):
		if m.activePane == paneInspector {
			m.viewport.LineUp(1)
		} else if m.cursor > 0 {
			m.cursor--
			m.updateViewport()
		}

	case key.Matches(msg, m.keys.Down):
		if m.activePane == paneInspector {
			m.viewport.LineDown(1)
		} else if m.cursor < len(m.ctrl.Page().Items)-1 {
			m.cursor++
			m.updateViewport()
		}

	case key.Matches(msg, m.keys.Add):
		if m.busy == "" {
			return m, m.openForm(m.ctrl.OpenCreate())
		}

	case key.Matches(msg, m.keys.Edit):
		if r, ok := m.selected(); ok && m.busy == "" {
			values, err := m.ctrl.OpenEdit(r.ID)
			if err != nil {
				m.err = err
				m.view = viewError
				return m, nil
			}
			return m, m.openForm(values)
		}

	case key.Matches(msg, m.keys.Delete):
		if r, ok := m.selected(); ok && m.busy == "" {
			mut, err := m.ctrl.PrepareDelete(r.ID)
			if err != nil {
				m.err = err
				m.view = viewError
				return m, nil
			}
			m.pending = &mut
			m.view = viewDeleteConfirmation
		}

	case key.Matches(msg, m.keys.Import):
		if m.busy == "" {
			m.importText.Reset()
			m.importText.Placeholder = batch.Template(m.state().Descriptor)
			m.importErr = ""
			m.view = viewImport
			return m, tea.Batch(m.importText.Focus(), textarea.Blink)
		}
	}
	return m, nil
}

func (m *model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.ctrl.SetSearch("")
		m.cursor = 0
		m.updateViewport()
		return m, nil
	}

	var cmd tea.Cmd
	before := m.search.Value()
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != before {
		m.ctrl.SetSearch(v)
		m.cursor = 0
		m.updateViewport()
	}
	return m, cmd
}

func (m *model) updateConfirmation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		if m.pending == nil {
			m.view = viewRecords
			return m, nil
		}
		mut := *m.pending
		if mut.Kind == section.KindImport {
			m.busy = "Importing..."
		} else {
			m.busy = "Deleting..."
		}
		m.view = viewRecords
		return m, runMutation(m.ctrl, mut)
	case "n", "N", "esc":
		if m.view == viewImportConfirmation {
			m.view = viewImport
		} else {
			m.view = viewRecords
		}
		m.pending = nil
	}
	return m, nil
}

// openForm builds one input per field and asks for suggestions where a field has a
// source section.
func (m *model) openForm(values form.Values) tea.Cmd {
	d := m.state().Descriptor
	f := formModel{fields: d.Fields}
	for _, field := range d.Fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = field.Label
		ti.CharLimit = 256
		ti.Width = 40
		ti.SetValue(values[field.Name])
		if field.Secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.inputs = append(f.inputs, ti)
	}
	m.form = f
	m.view = viewForm

	cmds := []tea.Cmd{textinput.Blink}
	if len(m.form.inputs) > 0 {
		cmds = append(cmds, m.form.inputs[0].Focus())
	}
	for _, field := range d.Fields {
		if field.OptionsFrom != "" {
			cmds = append(cmds, loadOptions(m.ctrl, d, field.Name))
		}
	}
	return tea.Batch(cmds...)
}

func (m *model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form.busy {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.ctrl.CloseEdit()
		m.view = viewRecords
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		return m, m.submitForm()
	case msg.Type == tea.KeyEnter:
		if m.form.focus == len(m.form.inputs)-1 {
			return m, m.submitForm()
		}
		return m, m.focusField(m.form.focus + 1)
	case msg.Type == tea.KeyDown:
		return m, m.focusField(m.form.focus + 1)
	case msg.Type == tea.KeyUp:
		return m, m.focusField(m.form.focus - 1)
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return m, cmd
}

func (m *model) focusField(i int) tea.Cmd {
	n := len(m.form.inputs)
	if n == 0 {
		return nil
	}
	i = (i + n) % n
	m.form.inputs[m.form.focus].Blur()
	m.form.focus = i
	return m.form.inputs[i].Focus()
}

func (m *model) submitForm() tea.Cmd {
	values := form.Values{}
	for i, f := range m.form.fields {
		values[f.Name] = m.form.inputs[i].Value()
	}
	mut, err := m.ctrl.PrepareSave(values)
	if err != nil {
		m.form.err = err.Error()
		return nil
	}
	m.form.err = ""
	m.form.busy = true
	return runMutation(m.ctrl, mut)
}

func (m *model) updateImport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.importText.Blur()
		m.view = viewRecords
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		mut, err := m.ctrl.PrepareImport(m.importText.Value())
		if err != nil {
			m.importErr = err.Error()
			return m, nil
		}
		m.importErr = ""
		m.pending = &mut
		m.view = viewImportConfirmation
		return m, nil
	case key.Matches(msg, m.keys.Editor):
		return m, openEditor(editorSeed(m.state().Descriptor, m.importText.Value()))
	}

	var cmd tea.Cmd
	m.importText, cmd = m.importText.Update(msg)
	return m, cmd
}

func (m *model) switchTo(i int) tea.Cmd {
	n := len(m.sections)
	id := m.sections[(i%n+n)%n]
	req, err := m.ctrl.SwitchSection(id)
	if err != nil {
		m.err = err
		m.view = viewError
		return nil
	}
	m.search.SetValue("")
	m.cursor = 0
	m.activePane = paneRecords
	m.updateViewport()
	return loadSection(m.ctrl, req)
}

func nextPageSize(current int) int {
	for i, s := range viewmodel.PageSizes {
		if s == current {
			return viewmodel.PageSizes[(i+1)%len(viewmodel.PageSizes)]
		}
	}
	return viewmodel.DefaultPageSize
}

func (m *model) selected() (record.Record, bool) {
	items := m.ctrl.Page().Items
	if m.cursor < 0 || m.cursor >= len(items) {
		return record.Record{}, false
	}
	return items[m.cursor], true
}

func (m *model) clampCursor() {
	n := len(m.ctrl.Page().Items)
	if m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func (m *model) updateViewport() {
	r, ok := m.selected()
	if !ok {
		m.viewport.SetContent("No record selected.")
		return
	}
	b, err := json.Marshal(masked(r, m.state().Descriptor))
	if err != nil {
		m.viewport.SetContent(err.Error())
		return
	}
	var out bytes.Buffer
	if err := json.Indent(&out, b, "", "  "); err != nil {
		m.viewport.SetContent(string(b))
		return
	}
	m.viewport.SetContent(highlightJSON(out.String()))
	m.viewport.GotoTop()
}
