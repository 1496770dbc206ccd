package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"daily-meal-planner/internal/app"
	"daily-meal-planner/internal/food"
	"daily-meal-planner/internal/report"
	"daily-meal-planner/internal/tui"
)

var (
	planKcal        float64
	planAllergies   []string
	planInteractive bool
	planLocale      string
	planPlain       bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan one day of meals",
	Long: `Plan one day of meals for a kcal target, excluding every item that carries
one of the given allergens. Allergens may be given in Korean (밀, 콩, 달걀, 생선,
갑각류) or English (wheat, soy, egg, fish, shellfish).`,
	Example: "  meal-planner plan --kcal 1800 --allergy egg --allergy 콩",
	Args:    cobra.NoArgs,
	RunE:    runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	locale := planLocale
	if locale == "" {
		locale = e.cfg.Locale
	}
	text, err := report.NewTextFormatter(locale)
	if err != nil {
		return err
	}
	var formatter report.Formatter = report.NewTerminalFormatter(text)
	if planPlain {
		formatter = text
	}

	kcal, allergies := planKcal, planAllergies
	if planInteractive {
		initial := ""
		if kcal > 0 {
			initial = strconv.FormatFloat(kcal, 'f', -1, 64)
		}
		sel, err := tui.Run(food.KnownAllergens, initial)
		if errors.Is(err, tui.ErrCancelled) {
			return nil
		}
		if err != nil {
			return err
		}
		kcal, allergies = sel.Kcal, sel.Allergens
	}

	ctx := cmd.Context()
	source, closeSource, err := e.source(ctx, false)
	if err != nil {
		return err
	}
	defer closeSource()

	out, err := e.newApp(source, formatter, text.Labels).Plan(ctx, app.Request{
		Kcal:      kcal,
		Allergens: allergies,
		Channel:   "cli",
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), out.Report)
	if !out.Planned() {
		return ErrNoPlan
	}
	return nil
}

func init() {
	planCmd.Flags().Float64VarP(&planKcal, "kcal", "k", 0, "daily energy target in kcal")
	planCmd.Flags().StringSliceVarP(&planAllergies, "allergy", "a", nil, "allergen to exclude (repeatable, or comma separated)")
	planCmd.Flags().BoolVarP(&planInteractive, "interactive", "i", false, "pick allergens and kcal in a terminal UI")
	planCmd.Flags().StringVar(&planLocale, "locale", "", "report language: ko or en (default from config)")
	planCmd.Flags().BoolVar(&planPlain, "plain", false, "print the report without terminal styling")
	rootCmd.AddCommand(planCmd)
}
