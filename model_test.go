package main

import (
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"admintui/internal/api"
	"admintui/internal/mockapi"
	"admintui/internal/record"
	"admintui/internal/schema"
	"admintui/internal/section"
)

func newTestModel(t *testing.T, initial string) (*model, *mockapi.Server) {
	t.Helper()
	srv := mockapi.New([]string{"devices", "accountCredentials", "coordinates", "messages", "profileAssociations"})
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)

	ctrl, err := section.New(schema.Default(), api.NewClient(ts.URL), zap.NewNop(), initial)
	require.NoError(t, err)
	m := newModel(ctrl, zap.NewNop(), ts.URL, "admin")
	m.Update(tea.WindowSizeMsg{Width: 180, Height: 50})
	return m, srv
}

func account(email, password string) record.Record {
	return record.New(
		record.Field{Name: "email", Value: email},
		record.Field{Name: "password", Value: password},
	)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *model, s string) tea.Cmd {
	_, cmd := m.Update(keyMsg(s))
	return cmd
}

// run executes cmd and feeds its message back, as the program loop would.
func run(t *testing.T, m *model, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	require.NotNil(t, cmd)
	_, next := m.Update(cmd())
	return next
}

func load(t *testing.T, m *model) {
	t.Helper()
	run(t, m, loadSection(m.ctrl, m.ctrl.Reload()))
}

func TestRecordsView_MasksSecrets(t *testing.T) {
	m, srv := newTestModel(t, schema.Accounts)
	srv.Seed("accountCredentials", account("a@example.com", "hunter2"), account("b@example.com", "s3cret"))
	load(t, m)

	out := m.View()
	assert.Contains(t, out, "EMAIL")
	assert.Contains(t, out, "a@example.com")
	assert.Contains(t, out, secretMask)
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "s3cret")
}

func TestLoad_StaleResponseIgnored(t *testing.T) {
	m, srv := newTestModel(t, schema.Accounts)
	srv.Seed("accountCredentials", account("a@example.com", "x"))
	srv.Seed("coordinates", record.New(record.Field{Name: "coordinate", Value: "37.7,-122.4"}))

	slow := loadSection(m.ctrl, m.ctrl.Reload())()
	run(t, m, press(m, "tab"))
	m.Update(slow)

	st := m.state()
	assert.Equal(t, schema.Coordinates, st.Active)
	require.Len(t, st.Dataset, 1)
	assert.Equal(t, "37.7,-122.4", st.Dataset[0].String("coordinate"))
}

func TestForm_MissingRequiredFieldSendsNothing(t *testing.T) {
	m, srv := newTestModel(t, schema.Accounts)
	load(t, m)

	press(m, "a")
	require.Equal(t, viewForm, m.view)
	press(m, "new@example.com")
	cmd := press(m, "ctrl+s")

	assert.Nil(t, cmd)
	assert.Equal(t, viewForm, m.view)
	assert.Equal(t, "Password required", m.form.err)
	assert.Zero(t, srv.Len("accountCredentials"))
}

func TestForm_CreateReloads(t *testing.T) {
	m, srv := newTestModel(t, schema.Accounts)
	load(t, m)

	press(m, "a")
	press(m, "new@example.com")
	press(m, "down")
	press(m, "pw")
	reload := run(t, m, press(m, "ctrl+s"))
	assert.Equal(t, viewRecords, m.view)
	run(t, m, reload)

	assert.Equal(t, 1, srv.Len("accountCredentials"))
	st := m.state()
	require.Len(t, st.Dataset, 1)
	assert.Equal(t, "new@example.com", st.Dataset[0].String("email"))
	assert.Equal(t, "Record created successfully", st.Flash.Text)
	_, open := m.ctrl.Edit()
	assert.False(t, open)
}

func TestForm_EscapeClosesSession(t *testing.T) {
	m, _ := newTestModel(t, schema.Devices)
	load(t, m)

	press(m, "a")
	press(m, "esc")

	assert.Equal(t, viewRecords, m.view)
	_, open := m.ctrl.Edit()
	assert.False(t, open)
}

func TestDelete_ConfirmAndReload(t *testing.T) {
	m, srv := newTestModel(t, schema.Accounts)
	srv.Seed("accountCredentials", account("a@example.com", "x"), account("b@example.com", "y"))
	load(t, m)

	press(m, "d")
	require.Equal(t, viewDeleteConfirmation, m.view)
	assert.Contains(t, m.View(), "cannot be undone")

	reload := run(t, m, press(m, "y"))
	run(t, m, reload)

	assert.Equal(t, 1, srv.Len("accountCredentials"))
	assert.Len(t, m.state().Dataset, 1)
	assert.Empty(t, m.busy)
}

func TestDelete_Cancel(t *testing.T) {
	m, srv := newTestModel(t, schema.Accounts)
	srv.Seed("accountCredentials", account("a@example.com", "x"))
	load(t, m)

	press(m, "d")
	assert.Nil(t, press(m, "n"))
	assert.Equal(t, viewRecords, m.view)
	assert.Equal(t, 1, srv.Len("accountCredentials"))
}

func TestImport_ParseErrorKeepsText(t *testing.T) {
	m, srv := newTestModel(t, schema.Profiles)
	load(t, m)

	press(m, "i")
	require.Equal(t, viewImport, m.view)
	m.importText.SetValue("a@example.com,default\nbroken")
	press(m, "ctrl+s")

	assert.Equal(t, viewImport, m.view)
	assert.Contains(t, m.importErr, "line 2")
	assert.Contains(t, m.importText.Value(), "broken")
	assert.Zero(t, srv.Len("profileAssociations"))
}

func TestImport_ConfirmCreatesAll(t *testing.T) {
	m, srv := newTestModel(t, schema.Profiles)
	load(t, m)

	press(m, "i")
	m.importText.SetValue("a@example.com,default\nb@example.com,admin")
	press(m, "ctrl+s")
	require.Equal(t, viewImportConfirmation, m.view)
	assert.Contains(t, m.View(), "Create 2 profile associations?")

	reload := run(t, m, press(m, "y"))
	run(t, m, reload)

	assert.Equal(t, 2, srv.Len("profileAssociations"))
	assert.Len(t, m.state().Dataset, 2)
	assert.Equal(t, "Created 2 profile associations", m.state().Flash.Text)
}

func TestSearch_TypingFiltersAndEscapeClears(t *testing.T) {
	m, srv := newTestModel(t, schema.Accounts)
	srv.Seed("accountCredentials", account("alice@example.com", "x"), account("bob@example.com", "y"))
	load(t, m)

	press(m, "/")
	require.True(t, m.searching)
	press(m, "bob")
	assert.Equal(t, "bob", m.state().SearchTerm)
	assert.Len(t, m.state().Filtered(), 1)

	press(m, "esc")
	assert.False(t, m.searching)
	assert.Empty(t, m.state().SearchTerm)
	assert.Len(t, m.state().Filtered(), 2)
}

func TestPaging_Keys(t *testing.T) {
	m, srv := newTestModel(t, schema.Devices)
	for i := 0; i < 12; i++ {
		srv.Seed("devices", record.New(record.Field{Name: "device_id", Value: "dev"}))
	}
	load(t, m)

	press(m, "]")
	assert.Equal(t, 2, m.state().CurrentPage)
	assert.Len(t, m.ctrl.Page().Items, 2)

	press(m, "z")
	assert.Equal(t, 25, m.state().PageSize)
	assert.Equal(t, 1, m.state().CurrentPage)
}

func TestNextPageSize(t *testing.T) {
	assert.Equal(t, 25, nextPageSize(10))
	assert.Equal(t, 10, nextPageSize(100))
	assert.Equal(t, 10, nextPageSize(7))
}

func TestHighlightJSON_KeepsText(t *testing.T) {
	out := highlightJSON("{\n  \"id\": \"1\",\n  \"n\": 2\n}")
	assert.Contains(t, out, "id")
	assert.Contains(t, out, "2")
	assert.Equal(t, 4, len(strings.Split(out, "\n")))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "abc…", truncate("abcdef", 4))
}

func TestImport_EditorHeaderIsNotImported(t *testing.T) {
	m, srv := newTestModel(t, schema.Accounts)
	load(t, m)

	press(m, "i")
	seed := editorSeed(m.state().Descriptor, m.importText.Value())
	assert.Equal(t, "# email,password,device_id\n", seed)

	m.Update(editorFinishedMsg{text: seed + "a@example.com,pw,dev1"})
	require.Equal(t, viewImport, m.view)
	press(m, "ctrl+s")
	require.Equal(t, viewImportConfirmation, m.view)
	assert.Contains(t, m.View(), "Create 1 account credentials?")

	reload := run(t, m, press(m, "y"))
	run(t, m, reload)
	require.Equal(t, 1, srv.Len("accountCredentials"))
	assert.Equal(t, "a@example.com", m.state().Dataset[0].String("email"))
}

func TestEditorSeed_KeepsExistingText(t *testing.T) {
	d, err := schema.Default().Describe(schema.Messages)
	require.NoError(t, err)
	assert.Equal(t, "hello", editorSeed(d, "hello"))
	assert.Equal(t, "# one message per line\n", editorSeed(d, ""))
}
