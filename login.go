package main

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var errLoginCancelled = errors.New("login cancelled")

// loginModel asks for the credentials `admintui login` was not given.
type loginModel struct {
	inputs    []textinput.Model
	focus     int
	done      bool
	cancelled bool
}

func newLoginModel(username string) *loginModel {
	user := textinput.New()
	user.Prompt = ""
	user.Placeholder = "username"
	user.CharLimit = 128
	user.SetValue(username)

	pass := textinput.New()
	pass.Prompt = ""
	pass.Placeholder = "password"
	pass.CharLimit = 128
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	m := &loginModel{inputs: []textinput.Model{user, pass}}
	if username != "" {
		m.focus = 1
	}
	m.inputs[m.focus].Focus()
	return m
}

func (m *loginModel) Init() tea.Cmd { return textinput.Blink }

func (m *loginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			if m.focus == len(m.inputs)-1 {
				m.done = true
				return m, tea.Quit
			}
			return m, m.setFocus(m.focus + 1)
		case "tab", "down":
			return m, m.setFocus((m.focus + 1) % len(m.inputs))
		case "shift+tab", "up":
			return m, m.setFocus((m.focus + len(m.inputs) - 1) % len(m.inputs))
		}
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *loginModel) setFocus(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

func (m *loginModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	labels := []string{"Username", "Password"}
	rows := []string{lipgloss.NewStyle().Bold(true).Foreground(highlight).Render("Sign in"), ""}
	for i, in := range m.inputs {
		ls := labelStyle
		if i == m.focus {
			ls = labelFocusedStyle
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, ls.Render(labels[i]), in.View()))
	}
	rows = append(rows, "", hintStyle.Render("enter to continue, esc to cancel"))
	return formBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)) + "\n"
}

func (m *loginModel) credentials() (string, string) {
	return strings.TrimSpace(m.inputs[0].Value()), m.inputs[1].Value()
}

func promptCredentials(username string) (string, string, error) {
	m := newLoginModel(username)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return "", "", err
	}
	if m.cancelled {
		return "", "", errLoginCancelled
	}
	user, pass := m.credentials()
	return user, pass, nil
}
