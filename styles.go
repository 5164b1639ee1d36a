package main

import (
	"github.com/charmbracelet/lipgloss"
)

// --- Styles ---

var (
	primary   = lipgloss.Color("#7D56F4")
	secondary = lipgloss.Color("#04B575")
	textLight = lipgloss.Color("#E4E4E4")
	textDim   = lipgloss.Color("#626262")

	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	accent    = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#04B575"}
	warning   = lipgloss.AdaptiveColor{Light: "#F25D94", Dark: "#FF5F87"}

	headerStyle = lipgloss.NewStyle().
			Foreground(textLight).
			Background(highlight).
			Padding(0, 1).
			Bold(true)

	// Sidebar
	sidebarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(subtle).
			PaddingRight(1)

	listHeaderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(subtle).
			Foreground(secondary).
			Bold(true).
			PaddingLeft(1)

	listItemStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			Foreground(lipgloss.Color("252"))

	listSelectedStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				Foreground(lipgloss.Color("#FFF")).
				Background(primary).
				Bold(true)

	// Records table
	itemHeaderStyle = lipgloss.NewStyle().
			Foreground(secondary).
			Bold(true).
			Padding(0, 1).
			BorderBottom(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(subtle)

	tableRowStyle = lipgloss.NewStyle().
			Padding(0, 1)

	tableSelectedRowStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Foreground(lipgloss.Color("#FFF")).
				Background(primary)

	pagerStyle        = lipgloss.NewStyle().Foreground(textDim).Padding(0, 1)
	pagerCurrentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFF")).Background(primary).Padding(0, 1)

	// Form
	labelStyle        = lipgloss.NewStyle().Foreground(textDim).Width(14)
	labelFocusedStyle = lipgloss.NewStyle().Foreground(highlight).Bold(true).Width(14)
	hintStyle         = lipgloss.NewStyle().Foreground(textDim).Italic(true)

	// Search bar
	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(0, 1)

	// Dialog
	dialogBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(warning).
			Padding(1, 2)

	formBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(highlight).
			Padding(1, 2)

	// Status bar
	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFF")).
			Background(lipgloss.AdaptiveColor{Light: "#355C7D", Dark: "#2A2A2A"})

	statusKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFF")).
			Background(primary).
			Padding(0, 1)

	statusOKStyle = lipgloss.NewStyle().
			Foreground(accent).
			Background(lipgloss.AdaptiveColor{Light: "#355C7D", Dark: "#2A2A2A"}).
			Padding(0, 1)

	statusErrStyle = lipgloss.NewStyle().
			Foreground(warning).
			Background(lipgloss.AdaptiveColor{Light: "#355C7D", Dark: "#2A2A2A"}).
			Padding(0, 1)
)
