package report

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"

	"daily-meal-planner/internal/planner"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#10B981"))

	failureStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))
)

// TerminalFormatter decorates the text report for an interactive terminal.
type TerminalFormatter struct {
	Text   *TextFormatter
	Indent uint
}

// NewTerminalFormatter wraps text with the default two-space indent.
func NewTerminalFormatter(text *TextFormatter) *TerminalFormatter {
	return &TerminalFormatter{Text: text, Indent: 2}
}

// Format styles the heading lines of the text report.
func (f *TerminalFormatter) Format(plan planner.DailyPlan, totals planner.NutrientTotals) string {
	lines := strings.Split(f.Text.Format(plan, totals), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "### "):
			lines[i] = headingStyle.Render(line)
		case strings.HasPrefix(line, "## "):
			lines[i] = titleStyle.Render(line)
		}
	}
	return indent.String(strings.Join(lines, "\n"), f.Indent)
}

// FormatFailure renders the failure message in the error color.
func (f *TerminalFormatter) FormatFailure(err error) string {
	return indent.String(failureStyle.Render(f.Text.FormatFailure(err)), f.Indent)
}
