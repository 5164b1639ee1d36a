package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"admintui/internal/batch"
	"admintui/internal/record"
	"admintui/internal/schema"
	"admintui/internal/section"
	"admintui/internal/viewmodel"
)

const secretMask = "••••••••"

func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var content string
	var keymap help.KeyMap = m.keys

	switch m.view {
	case viewRecords:
		content = m.renderRecordsView()
	case viewForm:
		content = m.renderForm()
		keymap = formKeys{m.keys}
	case viewImport:
		content = m.renderImport()
		keymap = formKeys{m.keys}
	case viewDeleteConfirmation:
		question := lipgloss.NewStyle().Bold(true).Render(
			fmt.Sprintf("Are you sure you want to delete this %s?", strings.ToLower(m.state().Descriptor.Title)))
		target := ""
		if m.pending != nil {
			target = lipgloss.NewStyle().Foreground(highlight).Render("id " + m.pending.ID)
		}
		content = m.renderDialog(question, target,
			lipgloss.NewStyle().Foreground(warning).Render("This action cannot be undone."))
	case viewImportConfirmation:
		d := m.state().Descriptor
		n := 0
		if m.pending != nil {
			n = len(m.pending.Drafts)
		}
		question := lipgloss.NewStyle().Bold(true).Render(
			fmt.Sprintf("Create %d %s?", n, strings.ToLower(d.Plural)))
		content = m.renderDialog(question,
			lipgloss.NewStyle().Foreground(subtle).Render("POST "+d.BatchEndpoint()))
	case viewError:
		content = lipgloss.Place(m.width, m.height-3, lipgloss.Center, lipgloss.Center,
			lipgloss.JoinVertical(lipgloss.Center,
				lipgloss.NewStyle().Foreground(warning).Bold(true).Render("ERROR"),
				"",
				lipgloss.NewStyle().Width(m.width/2).Align(lipgloss.Center).Render(fmt.Sprintf("%v", m.err)),
				"",
				lipgloss.NewStyle().Foreground(subtle).Render("Press any key to continue"),
			),
		)
	}

	header := m.renderHeader()
	status := m.renderStatusBar()
	helpView := m.help.View(keymap)

	// Push the status bar to the bottom
	used := lipgloss.Height(header) + lipgloss.Height(content) + lipgloss.Height(status) + lipgloss.Height(helpView)
	gap := ""
	if h := m.height - used - 1; h > 0 {
		gap = strings.Repeat("\n", h)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, content, gap, status, "  "+helpView)
}

func (m *model) renderHeader() string {
	d := m.state().Descriptor
	left := headerStyle.Render("admintui · " + d.Plural)

	info := m.backend
	if m.user != "" {
		info = m.user + " @ " + info
	}
	right := headerStyle.Bold(false).Render(info)

	w := max(0, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	spacer := lipgloss.NewStyle().Background(highlight).Width(w).Render("")
	return lipgloss.JoinHorizontal(lipgloss.Top, left, spacer, right)
}

func (m *model) renderSidebar(width int) string {
	active := m.state().Active
	rows := []string{listHeaderStyle.Width(width).Render("SECTIONS")}
	for _, id := range m.sections {
		d, err := m.ctrl.Registry().Describe(id)
		if err != nil {
			continue
		}
		style := listItemStyle
		if id == active {
			style = listSelectedStyle
		}
		rows = append(rows, style.Width(width).Render(d.Plural))
	}
	return sidebarStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *model) renderRecordsView() string {
	sideWidth := 24
	inspectWidth := m.width / 3
	tableWidth := max(20, m.width-sideWidth-inspectWidth-6)

	left := m.renderSidebar(sideWidth)
	middle := lipgloss.NewStyle().Width(tableWidth).Render(m.renderRecords(tableWidth))

	borderColor := subtle
	if m.activePane == paneInspector {
		borderColor = highlight
	}
	right := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(inspectWidth).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Foreground(accent).Bold(true).Render("RECORD"),
			m.viewport.View(),
		))

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", middle, " ", right)
}

func (m *model) renderRecords(width int) string {
	st := m.state()
	d := st.Descriptor

	var searchBar string
	switch {
	case m.searching:
		searchBar = m.search.View()
	case st.SearchTerm != "":
		searchBar = "/ " + st.SearchTerm
	default:
		searchBar = lipgloss.NewStyle().Foreground(subtle).Render("Press '/' to search")
	}
	parts := []string{inputStyle.Width(width - 2).Render(searchBar)}

	switch st.Status {
	case section.Idle, section.Loading:
		if len(st.Dataset) == 0 {
			parts = append(parts, fmt.Sprintf(" %s Loading %s...", m.spinner.View(), strings.ToLower(d.Plural)))
			return lipgloss.JoinVertical(lipgloss.Left, parts...)
		}
		parts = append(parts, fmt.Sprintf(" %s Refreshing...", m.spinner.View()))
	case section.Failed:
		parts = append(parts, lipgloss.NewStyle().Foreground(warning).Render(
			fmt.Sprintf(" Failed to load %s: %v", strings.ToLower(d.Plural), st.Err)))
	}

	page := st.Page()
	parts = append(parts, renderTable(d, page.Items, m.cursor, width))
	if len(page.Items) == 0 {
		empty := fmt.Sprintf("No %s found.", strings.ToLower(d.Plural))
		if st.SearchTerm != "" {
			empty = fmt.Sprintf("No %s match %q.", strings.ToLower(d.Plural), st.SearchTerm)
		}
		parts = append(parts, tableRowStyle.Foreground(textDim).Render(empty))
	}
	parts = append(parts, "", renderPager(page, st.PageSize))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderTable lays out the descriptor's display columns; secret columns are masked.
func renderTable(d schema.Descriptor, items []record.Record, cursor, width int) string {
	cols := d.DisplayColumns
	if len(cols) == 0 {
		return ""
	}
	limit := max(6, width/len(cols)-2)
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = min(limit, lipgloss.Width(d.ColumnLabel(c)))
		for _, r := range items {
			widths[i] = min(limit, max(widths[i], lipgloss.Width(cellText(d, r, c))))
		}
	}

	line := func(cells []string) string {
		out := make([]string, len(cells))
		for i, c := range cells {
			out[i] = pad(truncate(c, widths[i]), widths[i])
		}
		return strings.Join(out, "  ")
	}

	labels := make([]string, len(cols))
	for i, c := range cols {
		labels[i] = strings.ToUpper(d.ColumnLabel(c))
	}
	rows := []string{itemHeaderStyle.Render(line(labels))}
	for i, r := range items {
		cells := make([]string, len(cols))
		for j, c := range cols {
			cells[j] = cellText(d, r, c)
		}
		style := tableRowStyle
		if i == cursor {
			style = tableSelectedRowStyle
		}
		rows = append(rows, style.Render(line(cells)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func cellText(d schema.Descriptor, r record.Record, col string) string {
	v := r.String(col)
	if d.IsSecret(col) && v != "" {
		return secretMask
	}
	return v
}

// masked copies r with secret values hidden, for the inspector.
func masked(r record.Record, d schema.Descriptor) record.Record {
	var out record.Record
	for _, f := range r.Fields() {
		if d.IsSecret(f.Name) && record.Stringify(f.Value) != "" {
			f.Value = secretMask
		}
		out.Set(f.Name, f.Value)
	}
	return out
}

func renderPager(p viewmodel.Page, size int) string {
	var links []string
	for _, l := range viewmodel.Window(p.Page, p.TotalPages, viewmodel.MaxVisiblePages) {
		switch {
		case l.Gap:
			links = append(links, pagerStyle.Render("…"))
		case l.Current:
			links = append(links, pagerCurrentStyle.Render(fmt.Sprint(l.Page)))
		default:
			links = append(links, pagerStyle.Render(fmt.Sprint(l.Page)))
		}
	}
	summary := pagerStyle.Render(fmt.Sprintf("%d-%d of %d · %d per page", p.StartIndex, p.EndIndex, p.TotalCount, size))
	if p.TotalCount == 0 {
		summary = pagerStyle.Render(fmt.Sprintf("0 of 0 · %d per page", size))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, append(links, summary)...)
}

func (m *model) renderForm() string {
	d := m.state().Descriptor
	title := "New " + d.Title
	if s, ok := m.ctrl.Edit(); ok && s.Mode == section.ModeEdit {
		title = fmt.Sprintf("Edit %s %s", d.Title, s.TargetID)
	}

	rows := []string{lipgloss.NewStyle().Bold(true).Foreground(highlight).Render(title), ""}
	for i, f := range m.form.fields {
		label := f.Label
		if isRequired(d, f.Name) {
			label += " *"
		}
		ls := labelStyle
		if i == m.form.focus {
			ls = labelFocusedStyle
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, ls.Render(label), m.form.inputs[i].View()))
		if f.OptionsFrom != "" && i == m.form.focus {
			rows = append(rows, hintStyle.Render("tab completes from "+f.OptionsFrom))
		}
	}
	rows = append(rows, "")
	switch {
	case m.form.busy:
		rows = append(rows, fmt.Sprintf("%s Saving...", m.spinner.View()))
	case m.form.err != "":
		rows = append(rows, lipgloss.NewStyle().Foreground(warning).Render(m.form.err))
	}
	return lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center,
		formBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
}

func (m *model) renderImport() string {
	d := m.state().Descriptor
	rows := []string{
		lipgloss.NewStyle().Bold(true).Foreground(highlight).Render("Bulk import " + d.Plural),
		hintStyle.Render("One record per line: " + batch.Template(d)),
		"",
		m.importText.View(),
	}
	if m.importErr != "" {
		rows = append(rows, "", lipgloss.NewStyle().Foreground(warning).Render(m.importErr))
	}
	return lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center,
		formBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
}

func (m *model) renderDialog(lines ...string) string {
	controls := lipgloss.NewStyle().Foreground(subtle).Render("(y/enter to confirm, n/esc to cancel)")
	var body []string
	for _, l := range lines {
		if l != "" {
			body = append(body, l, "")
		}
	}
	body = append(body, controls)
	return lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center,
		dialogBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Center, body...)))
}

func (m *model) renderStatusBar() string {
	st := m.state()
	key := statusKeyStyle.Render(strings.ToUpper(st.Status.String()))

	var msg string
	switch {
	case m.busy != "":
		msg = statusOKStyle.Render(m.spinner.View() + " " + m.busy)
	case st.Flash.Text != "" && st.Flash.Error:
		msg = statusErrStyle.Render(st.Flash.Text)
	case st.Flash.Text != "":
		msg = statusOKStyle.Render(st.Flash.Text)
	}
	w := max(0, m.width-lipgloss.Width(key)-lipgloss.Width(msg))
	return lipgloss.JoinHorizontal(lipgloss.Top, key, msg, statusBarStyle.Width(w).Render(""))
}

func isRequired(d schema.Descriptor, name string) bool {
	for _, r := range d.RequiredFields {
		if r == name {
			return true
		}
	}
	return false
}

func truncate(s string, w int) string {
	if lipgloss.Width(s) <= w {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > w {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

func pad(s string, w int) string {
	if n := w - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

func highlightJSON(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	for _, l := range lines {
		if !strings.Contains(l, ":") {
			out = append(out, l)
			continue
		}
		parts := strings.SplitN(l, ":", 2)
		key := lipgloss.NewStyle().Foreground(lipgloss.Color("#874BFD")).Render(parts[0])

		rawVal := strings.TrimSpace(parts[1])
		val := strings.TrimSuffix(rawVal, ",")

		var valColor lipgloss.Color
		switch {
		case strings.HasPrefix(val, "\""):
			valColor = lipgloss.Color("#43BF6D") // string
		case val == "true" || val == "false":
			valColor = lipgloss.Color("#F25D94") // bool
		case val == "null":
			valColor = lipgloss.Color("250")
		default:
			valColor = lipgloss.Color("#F5C25D") // number
		}

		rendered := lipgloss.NewStyle().Foreground(valColor).Render(val)
		if strings.HasSuffix(rawVal, ",") {
			rendered += ","
		}
		out = append(out, fmt.Sprintf("%s: %s", key, rendered))
	}
	return strings.Join(out, "\n")
}
