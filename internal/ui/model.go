// ABOUTME: Bubbletea model for the deck TUI
// ABOUTME: Maps keys to transport gestures and renders the deck snapshot
package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Resonate-Protocol/cuedeck/internal/transport"
)

// RefreshInterval is how often the display re-reads the deck
const RefreshInterval = 100 * time.Millisecond

// Deck is the transport as seen by the TUI
type Deck interface {
	Apply(g transport.Gesture) error
	Snapshot() transport.Snapshot
}

// Model represents the TUI state
type Model struct {
	deck      Deck
	snap      transport.Snapshot
	scrubStep float64

	// Terminals only deliver key presses, so held gestures latch:
	// the first press goes down, the next press releases.
	cueHeld   bool
	seekHeld  transport.Direction
	bendHeld  transport.Direction
	nudgeHeld transport.Direction

	notice      string
	noticeIsErr bool

	quitting bool

	width  int
	height int
}

type tickMsg time.Time

// NoticeMsg shows a one-line warning or error under the deck
type NoticeMsg struct {
	Text  string
	Error bool
}

// Init starts the refresh ticker
func (m Model) Init() tea.Cmd {
	return tickEvery()
}

func tickEvery() tea.Cmd {
	return tea.Tick(RefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		m.refresh()
		return m, tickEvery()
	case NoticeMsg:
		m.notice = msg.Text
		m.noticeIsErr = msg.Error
	}

	return m, nil
}

// refresh pulls a new snapshot and drops latches the transport has left
func (m *Model) refresh() {
	if m.deck == nil {
		return
	}
	m.snap = m.deck.Snapshot()
	if m.cueHeld && m.snap.State != transport.Cueing {
		m.cueHeld = false
	}
	if !m.snap.Loaded {
		m.seekHeld, m.bendHeld, m.nudgeHeld = 0, 0, 0
	}
}

func (m *Model) apply(g transport.Gesture) {
	if m.deck == nil {
		return
	}
	if err := m.deck.Apply(g); err != nil {
		m.notice = err.Error()
		m.noticeIsErr = true
	}
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case " ", "space":
		m.apply(transport.Gesture{Kind: transport.GesturePlay})
	case "c":
		if m.cueHeld {
			m.apply(transport.Gesture{Kind: transport.GestureCueUp})
		} else {
			m.apply(transport.Gesture{Kind: transport.GestureCueDown})
		}
		m.cueHeld = !m.cueHeld
	case "s":
		m.apply(transport.Gesture{Kind: transport.GestureSetCue})
	case "[":
		m.seekHeld = m.latch(m.seekHeld, transport.Backward, transport.GestureSeekDown, transport.GestureSeekUp)
	case "]":
		m.seekHeld = m.latch(m.seekHeld, transport.Forward, transport.GestureSeekDown, transport.GestureSeekUp)
	case "-":
		m.bendHeld = m.latch(m.bendHeld, transport.Backward, transport.GestureBendDown, transport.GestureBendUp)
	case "=":
		m.bendHeld = m.latch(m.bendHeld, transport.Forward, transport.GestureBendDown, transport.GestureBendUp)
	case ",":
		m.nudgeHeld = m.latch(m.nudgeHeld, transport.Backward, transport.GestureNudgeDown, transport.GestureNudgeUp)
	case ".":
		m.nudgeHeld = m.latch(m.nudgeHeld, transport.Forward, transport.GestureNudgeDown, transport.GestureNudgeUp)
	case "left":
		m.scrub(-m.scrubStep)
	case "right":
		m.scrub(m.scrubStep)
	case "0":
		m.apply(transport.Gesture{Kind: transport.GestureTempo, Value: 1})
	}

	m.refresh()
	return m, nil
}

// latch toggles a held gesture. Pressing the other direction releases the
// current one and starts the new one.
func (m *Model) latch(held, dir transport.Direction, down, up transport.GestureKind) transport.Direction {
	if held == dir {
		m.apply(transport.Gesture{Kind: up})
		return 0
	}
	if held != 0 {
		m.apply(transport.Gesture{Kind: up})
	}
	m.apply(transport.Gesture{Kind: down, Direction: dir})
	return dir
}

func (m *Model) scrub(delta float64) {
	if m.deck == nil {
		return
	}
	pos := m.deck.Snapshot().Position
	m.apply(transport.Gesture{Kind: transport.GestureScrub, Value: pos + delta})
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("cuedeck"))
	b.WriteString("\n\n")

	if !m.snap.Loaded {
		b.WriteString(valueStyle.Render("No track loaded"))
		b.WriteString("\n\n")
		b.WriteString(m.renderNotice())
		b.WriteString(helpStyle.Render(helpText))
		return b.String()
	}

	b.WriteString(headerStyle.Render("Track: "))
	b.WriteString(valueStyle.Render(truncate(m.snap.AssetName, 48)))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("State: "))
	b.WriteString(stateStyle(m.snap.State).Render(m.snap.State.String()))
	b.WriteString("\n\n")

	width := m.barWidth()
	b.WriteString(renderBar(m.snap.Position, m.snap.CuePoint, m.snap.Duration, width))
	b.WriteString("\n")
	b.WriteString(valueStyle.Render(formatRemaining(m.snap.Remaining, m.snap.Duration)))
	b.WriteString("  ")
	b.WriteString(cueStyle.Render(fmt.Sprintf("cue %s", formatClock(m.snap.CuePoint))))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render("Tempo: "))
	b.WriteString(valueStyle.Render(formatTempo(m.snap.Tempo)))
	if m.snap.Nudging {
		b.WriteString(heldStyle.Render(" nudging"))
	}
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Rate:  "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.3fx", m.snap.Rate)))
	if m.snap.Override != transport.OverrideNone {
		b.WriteString(heldStyle.Render(" " + m.snap.Override.String()))
	}
	b.WriteString("\n")

	if held := m.heldSummary(); held != "" {
		b.WriteString(heldStyle.Render("Held: " + held))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.renderNotice())
	b.WriteString(helpStyle.Render(helpText))
	return b.String()
}

func (m Model) renderNotice() string {
	if m.notice == "" {
		return ""
	}
	if m.noticeIsErr {
		return errorStyle.Render(m.notice) + "\n\n"
	}
	return warningStyle.Render(m.notice) + "\n\n"
}

func (m Model) heldSummary() string {
	var held []string
	if m.cueHeld {
		held = append(held, "cue")
	}
	if m.seekHeld != 0 {
		held = append(held, "seek"+m.seekHeld.String())
	}
	if m.bendHeld != 0 {
		held = append(held, "bend"+m.bendHeld.String())
	}
	if m.nudgeHeld != 0 {
		held = append(held, "nudge"+m.nudgeHeld.String())
	}
	return strings.Join(held, " ")
}

func (m Model) barWidth() int {
	if m.width > 12 && m.width-4 < 60 {
		return m.width - 4
	}
	return 60
}

// renderBar draws position as a filled bar with the cue point marked
func renderBar(position, cue, duration float64, width int) string {
	if width <= 0 {
		return ""
	}
	bar := []rune(strings.Repeat("░", width))
	if duration > 0 {
		filled := int(math.Round(position / duration * float64(width)))
		filled = min(max(filled, 0), width)
		for i := 0; i < filled; i++ {
			bar[i] = '█'
		}
		at := int(cue / duration * float64(width))
		at = min(max(at, 0), width-1)
		bar[at] = '┃'
	}
	return string(bar)
}

// formatRemaining renders remaining and total time as -m:ss / m:ss
func formatRemaining(remaining int, duration float64) string {
	remaining = max(remaining, 0)
	total := int(math.Round(duration))
	return fmt.Sprintf("-%d:%02d / %d:%02d", remaining/60, remaining%60, total/60, total%60)
}

func formatClock(seconds float64) string {
	s := max(int(seconds), 0)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

func formatTempo(tempo float64) string {
	return fmt.Sprintf("%+.1f%%", (tempo-1)*100)
}

func truncate(s string, length int) string {
	r := []rune(s)
	if len(r) <= length {
		return s
	}
	return string(r[:length-3]) + "..."
}
