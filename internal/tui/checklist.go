// Package tui provides the interactive phase checklist shown when the
// run has a terminal attached. It drives the same Selection the line
// selector produces, so both entry points feed the executor
// identically.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/macsetup/internal/domain/phase"
)

// ErrCancelled is returned when the operator quits without confirming.
var ErrCancelled = errors.New("selection cancelled")

// Theme colors (Catppuccin inspired).
var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#1e66f5", Dark: "#89b4fa"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#40a02b", Dark: "#a6e3a1"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6c6f85", Dark: "#6c7086"}
)

// Model is the phase checklist.
type Model struct {
	registry  *phase.Registry
	selection phase.Selection
	cursor    int
	confirmed bool
	cancelled bool
	keys      KeyMap

	titleStyle   lipgloss.Style
	activeStyle  lipgloss.Style
	itemStyle    lipgloss.Style
	checkedStyle lipgloss.Style
	helpStyle    lipgloss.Style
}

// NewModel creates a checklist over the registry with everything
// enabled, matching the batch default.
func NewModel(registry *phase.Registry) Model {
	return Model{
		registry:  registry,
		selection: phase.SelectAll(registry),
		keys:      DefaultKeyMap(),

		titleStyle:   lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).MarginBottom(1),
		activeStyle:  lipgloss.NewStyle().Foreground(colorPrimary).Bold(true),
		itemStyle:    lipgloss.NewStyle(),
		checkedStyle: lipgloss.NewStyle().Foreground(colorSuccess),
		helpStyle:    lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1),
	}
}

// Selection returns the confirmed selection.
func (m Model) Selection() phase.Selection {
	return m.selection
}

// Confirmed reports whether the operator confirmed the selection.
func (m Model) Confirmed() bool {
	return m.confirmed
}

// Cancelled reports whether the operator quit without confirming.
func (m Model) Cancelled() bool {
	return m.cancelled
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	phases := m.registry.Phases()

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(phases)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Toggle):
		m.selection.Toggle(m.registry, phases[m.cursor].ID())
	case key.Matches(keyMsg, m.keys.SelectAll):
		m.selection = phase.SelectAll(m.registry)
	case key.Matches(keyMsg, m.keys.SelectNone):
		m.selection = phase.SelectNone(m.registry)
	case key.Matches(keyMsg, m.keys.Confirm):
		m.confirmed = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Quit):
		m.cancelled = true
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.confirmed || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.titleStyle.Render("Select phases to run"))
	b.WriteString("\n")

	for i, p := range m.registry.Phases() {
		marker := "[ ]"
		if m.selection.Enabled(p.ID()) {
			marker = m.checkedStyle.Render("[x]")
		}

		line := fmt.Sprintf("%s %d. %s", marker, p.ID(), p.Label())
		if p.IsRequired() {
			line += m.helpStyle.Render(" (required, always runs)")
		}

		cursor := "  "
		style := m.itemStyle
		if i == m.cursor {
			cursor = "> "
			style = m.activeStyle
		}

		b.WriteString(cursor + style.Render(line) + "\n")
	}

	b.WriteString(m.helpStyle.Render("space toggle · a all · n none · enter run · q quit"))
	b.WriteString("\n")
	return b.String()
}

// Run shows the checklist and blocks until the operator confirms or
// quits.
func Run(registry *phase.Registry) (phase.Selection, error) {
	program := tea.NewProgram(NewModel(registry))

	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("running phase checklist: %w", err)
	}

	model, ok := final.(Model)
	if !ok || model.Cancelled() {
		return nil, ErrCancelled
	}
	return model.Selection(), nil
}
