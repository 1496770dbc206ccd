// Package cli implements the meal-planner command line.
package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

// ErrNoPlan is returned when a plan request ended in a search failure. The
// failure has already been printed.
var ErrNoPlan = errors.New("no plan")

var rootCmd = &cobra.Command{
	Use:           "meal-planner",
	Short:         "Daily Korean meal planner",
	Long:          "meal-planner picks one rice, one soup and three side dishes for a day so the total energy lands within 10% of a target and the macro split is as close as possible to the configured ratios.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
