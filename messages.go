package main

import (
	"admintui/internal/crud"
	"admintui/internal/section"
)

// --- Messages ---

type sectionLoadedMsg section.LoadResult

type mutationDoneMsg struct {
	mutation section.Mutation
	outcome  crud.Outcome
	err      error
}

type optionsLoadedMsg struct {
	section string
	field   string
	values  []string
	err     error
}

type editorFinishedMsg struct {
	text string
	err  error
}
