package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"admintui/internal/schema"
	"admintui/internal/section"
)

// --- Commands ---
//
// Commands run off the update loop, so they only use the controller methods that
// read no view state: Fetch, Execute and Options.

func loadSection(ctrl *section.Controller, req section.LoadRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return sectionLoadedMsg(ctrl.Fetch(ctx, req))
	}
}

func runMutation(ctrl *section.Controller, mut section.Mutation) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		out, err := ctrl.Execute(ctx, mut)
		return mutationDoneMsg{mutation: mut, outcome: out, err: err}
	}
}

func loadOptions(ctrl *section.Controller, d schema.Descriptor, field string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		values, err := ctrl.Options(ctx, d, field)
		return optionsLoadedMsg{section: d.ID, field: field, values: values, err: err}
	}
}
