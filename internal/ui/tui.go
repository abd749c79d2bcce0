// ABOUTME: TUI styles and program construction
// ABOUTME: Wraps the bubbletea program that owns the terminal
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Resonate-Protocol/cuedeck/internal/transport"
)

const helpText = "space:Play  c:Cue  s:SetCue  [/]:Seek  -/=:Bend  ,/.:Nudge  ←/→:Scrub  0:Tempo  q:Quit"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	cueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	heldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("213"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func stateStyle(s transport.State) lipgloss.Style {
	switch s {
	case transport.Playing:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	case transport.Cueing:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	default:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	}
}

// NewModel creates a TUI model bound to deck. scrubStep is the jump in
// seconds for the arrow keys.
func NewModel(deck Deck, scrubStep float64) Model {
	if scrubStep <= 0 {
		scrubStep = 5
	}
	m := Model{deck: deck, scrubStep: scrubStep}
	m.refresh()
	return m
}

// NewProgram wraps the model in a full-screen program
func NewProgram(m Model) *tea.Program {
	return tea.NewProgram(m, tea.WithAltScreen())
}
