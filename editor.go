package main

import (
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"admintui/internal/batch"
	"admintui/internal/schema"
)

// editorCommand picks $EDITOR, falling back to the first common editor on PATH.
func editorCommand() string {
	if e := os.Getenv("EDITOR"); e != "" {
		return e
	}
	for _, e := range []string{"nvim", "vim", "nano", "vi"} {
		if _, err := exec.LookPath(e); err == nil {
			return e
		}
	}
	return "vi"
}

// editorSeed is the file the editor opens with: the current text, or the line format
// as a header the parser skips.
func editorSeed(d schema.Descriptor, text string) string {
	if text != "" {
		return text
	}
	return batch.Header(d) + "\n"
}

// openEditor hands the import text to an external editor and reads it back.
func openEditor(text string) tea.Cmd {
	f, err := os.CreateTemp("", "admintui-*.txt")
	if err != nil {
		return func() tea.Msg { return editorFinishedMsg{err: err} }
	}
	// Closed before the editor opens it
	defer f.Close()

	if _, err := f.WriteString(text); err != nil {
		os.Remove(f.Name())
		return func() tea.Msg { return editorFinishedMsg{err: err} }
	}

	parts := strings.Fields(editorCommand())
	c := exec.Command(parts[0], append(parts[1:], f.Name())...)

	return tea.ExecProcess(c, func(err error) tea.Msg {
		defer os.Remove(f.Name())
		if err != nil {
			return editorFinishedMsg{err: err}
		}
		content, err := os.ReadFile(f.Name())
		if err != nil {
			return editorFinishedMsg{err: err}
		}
		return editorFinishedMsg{text: strings.TrimRight(string(content), "\n")}
	})
}
