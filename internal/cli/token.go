package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"daily-meal-planner/internal/api"
	"daily-meal-planner/internal/config"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the planning API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(os.Getenv("MEAL_PLANNER_ENV_FILE")); err != nil {
			return err
		}
		cfg, err := config.NewFromEnv()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if cfg.APIJWTSecret == "" {
			return fmt.Errorf("API_JWT_SECRET environment variable not set")
		}

		token, err := api.IssueToken(cfg.APIJWTSecret, tokenSubject, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "cli", "token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	rootCmd.AddCommand(tokenCmd)
}
