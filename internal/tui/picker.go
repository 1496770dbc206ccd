// Package tui provides the interactive allergen and energy picker used by
// "meal-planner plan --interactive".
package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned by Run when the user leaves without confirming.
var ErrCancelled = errors.New("selection cancelled")

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))
)

// Selection is what the user confirmed.
type Selection struct {
	Allergens []string
	Kcal      float64
}

type focus int

const (
	focusList focus = iota
	focusKcal
)

// Picker is the bubbletea model: a checkbox list of allergens followed by
// a kcal input.
type Picker struct {
	allergens []string
	selected  map[int]bool
	cursor    int
	focus     focus
	kcal      textinput.Model
	keys      KeyBindings
	err       string

	done      bool
	cancelled bool
}

// NewPicker creates a picker over allergens. kcal pre-fills the input.
func NewPicker(allergens []string, kcal string) Picker {
	ti := textinput.New()
	ti.Placeholder = "2000"
	ti.Prompt = "kcal > "
	ti.CharLimit = 8
	ti.SetValue(kcal)

	return Picker{
		allergens: allergens,
		selected:  make(map[int]bool),
		kcal:      ti,
		keys:      DefaultKeyBindings(),
	}
}

// Init implements tea.Model.
func (m Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.kcal, cmd = m.kcal.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.keys.Cancel):
		m.cancelled = true
		return m, tea.Quit

	case key.Matches(keyMsg, m.keys.Tab):
		cmd := m.setFocus(1 - m.focus)
		return m, cmd

	case key.Matches(keyMsg, m.keys.Submit):
		if _, err := m.parseKcal(); err != nil {
			m.err = err.Error()
			cmd := m.setFocus(focusKcal)
			return m, cmd
		}
		m.done = true
		return m, tea.Quit
	}

	if m.focus == focusKcal {
		var cmd tea.Cmd
		m.kcal, cmd = m.kcal.Update(msg)
		m.err = ""
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.allergens)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Toggle):
		m.selected[m.cursor] = !m.selected[m.cursor]
	}
	return m, nil
}

func (m *Picker) setFocus(f focus) tea.Cmd {
	m.focus = f
	if f == focusKcal {
		return m.kcal.Focus()
	}
	m.kcal.Blur()
	return nil
}

func (m Picker) parseKcal() (float64, error) {
	s := strings.TrimSpace(m.kcal.Value())
	if s == "" {
		return 0, errors.New("enter the daily kcal target")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%q is not a positive number", s)
	}
	return v, nil
}

// View implements tea.Model.
func (m Picker) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Allergies"))
	sb.WriteString("\n\n")

	for i, a := range m.allergens {
		cursor := "  "
		if m.focus == focusList && i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		check := "[ ]"
		if m.selected[i] {
			check = "[x]"
		}
		sb.WriteString(fmt.Sprintf("%s%s %s\n", cursor, check, a))
	}

	sb.WriteString("\n")
	sb.WriteString(m.kcal.View())
	sb.WriteString("\n")
	if m.err != "" {
		sb.WriteString(errorStyle.Render(m.err))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render("space toggle • tab switch field • enter plan • esc cancel"))
	return sb.String()
}

// Selection returns the confirmed choice. It is only meaningful after the
// user pressed enter.
func (m Picker) Selection() Selection {
	var sel Selection
	for i, a := range m.allergens {
		if m.selected[i] {
			sel.Allergens = append(sel.Allergens, a)
		}
	}
	sel.Kcal, _ = m.parseKcal()
	return sel
}

// Run shows the picker on the terminal and blocks until the user confirms or
// cancels.
func Run(allergens []string, kcal string) (Selection, error) {
	p := tea.NewProgram(NewPicker(allergens, kcal))
	final, err := p.Run()
	if err != nil {
		return Selection{}, fmt.Errorf("failed to run picker: %w", err)
	}

	m := final.(Picker)
	if m.cancelled || !m.done {
		return Selection{}, ErrCancelled
	}
	return m.Selection(), nil
}
