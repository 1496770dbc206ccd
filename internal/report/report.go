// Package report renders daily plans and search failures for people.
package report

import (
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"daily-meal-planner/internal/planner"
)

//go:embed report.tmpl
var reportTemplate string

var tmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"num":     formatNumber,
	"percent": formatPercent,
}).Parse(reportTemplate))

// Formatter turns search outcomes into text.
type Formatter interface {
	Format(plan planner.DailyPlan, totals planner.NutrientTotals) string
	FormatFailure(err error) string
}

// TextFormatter renders the plain text report.
type TextFormatter struct {
	Labels Labels
}

// NewTextFormatter returns a formatter for locale.
func NewTextFormatter(locale string) (*TextFormatter, error) {
	labels, err := LabelsFor(locale)
	if err != nil {
		return nil, err
	}
	return &TextFormatter{Labels: labels}, nil
}

type mealView struct {
	Heading    string
	Rice       string
	Soup       string
	SideDishes []string
}

// Format renders plan grouped by meal, followed by the nutrition summary.
func (f *TextFormatter) Format(plan planner.DailyPlan, totals planner.NutrientTotals) string {
	meals := make([]mealView, 0, 3)
	for _, m := range plan.Meals() {
		v := mealView{
			Heading: f.Labels.Meals[m.Name],
			Rice:    m.Slot.Rice.Name,
			Soup:    m.Slot.Soup.Name,
		}
		if v.Heading == "" {
			v.Heading = strings.ToUpper(string(m.Name))
		}
		for _, side := range m.Slot.SideDishes {
			v.SideDishes = append(v.SideDishes, side.Name)
		}
		meals = append(meals, v)
	}

	var sb strings.Builder
	err := tmpl.Execute(&sb, struct {
		Labels Labels
		Meals  []mealView
		Totals planner.NutrientTotals
	}{f.Labels, meals, totals})
	if err != nil {
		// The template is fixed and its data is plain values.
		panic(fmt.Sprintf("report template: %v", err))
	}
	return sb.String()
}

// FormatFailure describes a search failure. Errors that are not search
// failures are returned as is.
func (f *TextFormatter) FormatFailure(err error) string {
	switch {
	case errors.Is(err, planner.ErrInsufficientCatalog):
		return f.Labels.InsufficientCatalog
	case errors.Is(err, planner.ErrNoFeasibleCombination):
		return f.Labels.NoFeasible
	case err == nil:
		return ""
	}
	return err.Error()
}

// formatNumber prints v in its shortest form: 300, 12.5.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatPercent prints grams as a percentage of kcal with one decimal.
func formatPercent(grams, kcal float64) string {
	if kcal == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", grams/kcal*100)
}
