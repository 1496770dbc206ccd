package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"daily-meal-planner/internal/metrics"
)

var (
	summaryDays int
	cleanupDays int
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show or prune search metrics",
}

var metricsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show per-day search totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		summary, err := metrics.NewStore(e.db.SQL).DailySummary(cmd.Context(), summaryDays)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tRUNS\tPLANNED\tFAILED\tEVALUATED\tAVG LATENCY")
		for _, d := range summary {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%.0f ms\n", d.Date, d.Runs, d.Planned, d.Failed, d.Evaluated, d.AvgLatencyMS)
		}
		return w.Flush()
	},
}

var metricsCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove old metric records",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		affected, err := metrics.NewStore(e.db.SQL).Cleanup(cmd.Context(), cleanupDays)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Successfully removed %d old metric records.\n", affected)
		return nil
	},
}

func init() {
	metricsSummaryCmd.Flags().IntVar(&summaryDays, "days", 7, "number of days to include")
	metricsCleanupCmd.Flags().IntVar(&cleanupDays, "days", 30, "keep records for the last N days")
	metricsCmd.AddCommand(metricsSummaryCmd, metricsCleanupCmd)
	rootCmd.AddCommand(metricsCmd)
}
