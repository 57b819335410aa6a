// Package tui provides the interactive terminal calculator built on
// Bubble Tea. Keystrokes map to calculator commands through the same
// key table the HTTP keys endpoint uses, so the two frontends accept
// identical input.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"deskcalc/internal/engine"
	"deskcalc/internal/session"
)

const (
	displayWidth  = 24
	historyWidth  = 26
	historyHeight = 12
)

var (
	displayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(displayWidth).
			Align(lipgloss.Right)
	exprStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)

	keyStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Foreground(lipgloss.Color("250")).
			Width(3).
			Align(lipgloss.Center)
	opKeyStyle = keyStyle.
			BorderForeground(lipgloss.Color("94")).
			Foreground(lipgloss.Color("214"))

	historyPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("238")).
				Padding(0, 1).
				Width(historyWidth)
	historyTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	historyEntryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// keypadRows mirrors the physical button layout. The keypad is a
// legend, not a widget: every label is reachable from the keyboard.
var keypadRows = [][]string{
	{"C", "±", "%", "÷"},
	{"7", "8", "9", "×"},
	{"4", "5", "6", "-"},
	{"1", "2", "3", "+"},
	{"⌫", "0", ".", "="},
}

var operatorLabels = map[string]bool{
	"C": true, "±": true, "%": true, "÷": true,
	"×": true, "-": true, "+": true, "⌫": true, "=": true,
}

// Model implements the Bubble Tea calculator UI. Each Model owns a
// private session, so two programs never share state.
type Model struct {
	sess    *session.Session
	snap    session.Snapshot
	history viewport.Model

	width  int
	height int
}

// New constructs a calculator model around a fresh session.
func New() *Model {
	sess := session.New()
	m := &Model{
		sess:    sess,
		snap:    sess.Snapshot(),
		history: viewport.New(historyWidth-4, historyHeight),
	}
	m.syncHistory()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Shrink the history panel on short terminals.
		h := historyHeight
		if avail := msg.Height - 6; avail > 0 && avail < h {
			h = avail
		}
		m.history.Height = h
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "s":
			// The sign toggle has no key of its own in the shared table.
			m.snap = m.sess.Dispatch(engine.Sign())
			return m, nil
		case "H":
			m.snap = m.sess.ClearHistory()
			m.syncHistory()
			return m, nil
		}
		if name, ok := keyName(msg); ok {
			if cmd, ok := engine.CommandForKey(name); ok {
				m.snap = m.sess.Dispatch(cmd)
				m.syncHistory()
				return m, nil
			}
		}
		// Unbound keys scroll the history panel.
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	left := lipgloss.JoinVertical(lipgloss.Left, m.renderDisplay(), m.renderKeypad())
	right := historyPanelStyle.Render(historyTitleStyle.Render("History") + "\n" + m.history.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	help := helpStyle.Render("0-9 . + - * / % enter ⏎  delete ⌫  s ±  clear esc  H clear history  q quit")
	return lipgloss.JoinVertical(lipgloss.Left, body, "", help) + "\n"
}

func (m *Model) renderDisplay() string {
	expr := m.snap.Expression
	if expr == "" {
		expr = " "
	}
	return displayStyle.Render(exprStyle.Render(expr) + "\n" + valueStyle.Render(m.snap.Display))
}

func (m *Model) renderKeypad() string {
	rows := make([]string, 0, len(keypadRows))
	for _, row := range keypadRows {
		cells := make([]string, 0, len(row))
		for _, label := range row {
			style := keyStyle
			if operatorLabels[label] {
				style = opKeyStyle
			}
			cells = append(cells, style.Render(label))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) syncHistory() {
	if len(m.snap.History) == 0 {
		m.history.SetContent(historyEntryStyle.Render("no calculations yet"))
		return
	}
	lines := make([]string, 0, len(m.snap.History))
	for _, rec := range m.snap.History {
		lines = append(lines, historyEntryStyle.Render(rec.Expression+" = "+rec.Result))
	}
	m.history.SetContent(strings.Join(lines, "\n"))
}

// keyName translates a Bubble Tea key event into the name the shared
// key table understands.
func keyName(msg tea.KeyMsg) (string, bool) {
	switch msg.Type {
	case tea.KeyEnter:
		return "Enter", true
	case tea.KeyBackspace:
		return "Backspace", true
	case tea.KeyEsc:
		return "Escape", true
	case tea.KeyRunes:
		if len(msg.Runes) == 1 {
			return string(msg.Runes), true
		}
	}
	return "", false
}
